package chatlog

import (
	"log/slog"
	"strings"
)

// Segment streams lines through the classifier and assembles messages.
// Single pass, no lookahead: each header flushes the open message and
// opens a new candidate; a header whose timestamp fails normalization
// abandons the candidate so following continuation lines attach to
// nothing until the next valid header. Messages whose cleaned content
// ends up empty are never emitted.
func Segment(lines []string) []Message {
	var msgs []Message
	var open *Message

	flush := func() {
		if open != nil && strings.TrimSpace(open.Content) != "" {
			msgs = append(msgs, *open)
		}
		open = nil
	}

	for _, line := range lines {
		h, kind := Classify(line)
		switch kind {
		case LineHeader:
			flush()
			ts, ok := ParseTimestamp(h.TimestampRaw)
			if !ok {
				slog.Warn("unparseable timestamp, dropping candidate message", "raw", h.TimestampRaw)
				continue
			}
			open = &Message{Timestamp: ts, Sender: h.Sender, Content: h.Content}
		case LineText:
			trimmed := editedMark.ReplaceAllString(strings.Trim(line, hiddenRunes), "")
			if open != nil && trimmed != "" {
				if open.Content == "" {
					open.Content = trimmed
				} else {
					open.Content += "\n" + trimmed
				}
			}
		case LineNoise:
			// dropped
		}
	}
	flush()

	return msgs
}

// ParseTranscript splits raw export text into lines (tolerating CRLF)
// and segments them into messages.
func ParseTranscript(text string) []Message {
	return Segment(strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n"))
}
