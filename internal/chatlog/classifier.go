package chatlog

import (
	"regexp"
	"strings"
)

// LineKind is the classifier's verdict for a raw transcript line.
type LineKind int

const (
	// LineText is a line with no header of its own. It continues the
	// open message if one exists, otherwise it is discarded.
	LineText LineKind = iota
	// LineHeader starts a new message: timestamp + sender + content.
	LineHeader
	// LineNoise is a system message to drop (membership changes, group
	// metadata, encryption banners, media placeholders, and the like).
	LineNoise
)

// Header holds the parts of a header line. TimestampRaw is left for
// the timestamp normalizer; the classifier validates only its shape.
type Header struct {
	TimestampRaw string
	Sender       string
	Content      string
}

// datePattern validates the date portion of a header independently of
// the normalizer's layout table, so prose lines containing a colon are
// rejected here rather than half-parsed later.
var datePattern = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4},\s*\d{1,2}:\d{2}(?::\d{2})?(?:\s?[AP]M)?$`)

// Supported export syntaxes: bracketed `[<dt>] <sender>: <content>`
// and dash-separated `<dt> - <sender>: <content>`.
var (
	bracketHeader = regexp.MustCompile(`^\[([^\]]+)\]\s+([^:]+):\s?(.*)$`)
	dashHeader    = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4},\s*\d{1,2}:\d{2}(?::\d{2})?(?:\s?[AP]M)?)\s+-\s+([^:]+):\s?(.*)$`)
)

// placeholderText matches content-level placeholders the export
// substitutes for non-text payloads. These appear as a header's
// content, attributed to a real sender, and carry no conversational
// signal.
var placeholderText = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^<media omitted>$`),
	regexp.MustCompile(`(?i)^(?:image|video|audio|document|sticker|gif|contact card) omitted$`),
	regexp.MustCompile(`(?i)^location: `),
	regexp.MustCompile(`(?i)^live location shared$`),
	regexp.MustCompile(`(?i)^poll:`),
	regexp.MustCompile(`(?i)^option:`),
}

// systemEvent matches senderless system lines: membership changes and
// group metadata. These are only ever emitted with a timestamp prefix
// and no `sender:` segment; sender-attributed content that happens to
// mention adding or leaving is ordinary conversation and must never
// match here.
var systemEvent = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^messages and calls are end-to-end encrypted`),
	regexp.MustCompile(`(?i)^(?:you|.+?) (?:added|removed) .+$`),
	regexp.MustCompile(`(?i)^.+ left$`),
	regexp.MustCompile(`(?i)^.+ joined using this group's invite link$`),
	regexp.MustCompile(`(?i)^.+ changed (?:the subject|this group's icon|the group description|their phone number)`),
	regexp.MustCompile(`(?i)^.+ created (?:this group|group ".*"|the group)`),
}

// encryptionBanner may also appear bare at the top of an export,
// before any timestamped line.
var encryptionBanner = regexp.MustCompile(`(?i)^messages and calls are end-to-end encrypted`)

// editedMark is a trailing edit annotation; it is stripped from
// content rather than making the whole line noise.
var editedMark = regexp.MustCompile(`(?i)\s*<(?:this )?message was edited>\s*$`)

// hiddenRunes are invisible control/marker characters WhatsApp embeds
// in exports (directional marks, BOM, non-breaking space at edges).
const hiddenRunes = "\u200E\u200F\u202A\u202B\u202C\u202D\u202E\uFEFF\u00A0\u202F \t"

// Classify decides what a raw transcript line is. For headers the
// returned content is already cleaned (hidden characters and edit
// annotations stripped); a header whose content is a bare media or
// location placeholder is noise.
func Classify(line string) (Header, LineKind) {
	s := strings.Trim(line, hiddenRunes)
	if s == "" {
		return Header{}, LineText
	}

	if h, ok := matchHeader(s); ok {
		content := editedMark.ReplaceAllString(strings.Trim(h.Content, hiddenRunes), "")
		if content != "" && isPlaceholderText(content) {
			return Header{}, LineNoise
		}
		h.Content = content
		return h, LineHeader
	}

	// Senderless lines: a timestamp prefix with no sender segment marks
	// a system event. Lines without the prefix are continuations, except
	// the encryption banner, which some export versions emit bare.
	if stripped := systemPrefix.ReplaceAllString(s, ""); stripped != s {
		if isSystemEvent(stripped) || isPlaceholderText(stripped) {
			return Header{}, LineNoise
		}
		return Header{}, LineText
	}
	if encryptionBanner.MatchString(s) {
		return Header{}, LineNoise
	}
	return Header{}, LineText
}

var systemPrefix = regexp.MustCompile(`^(?:\[[^\]]+\]\s*|\d{1,2}/\d{1,2}/\d{2,4},\s*\d{1,2}:\d{2}(?::\d{2})?(?:\s?[AP]M)?\s+-\s+)`)

func matchHeader(s string) (Header, bool) {
	if m := bracketHeader.FindStringSubmatch(s); m != nil {
		if datePattern.MatchString(strings.TrimSpace(m[1])) {
			return Header{TimestampRaw: m[1], Sender: strings.TrimSpace(m[2]), Content: m[3]}, true
		}
	}
	if m := dashHeader.FindStringSubmatch(s); m != nil {
		return Header{TimestampRaw: m[1], Sender: strings.TrimSpace(m[2]), Content: m[3]}, true
	}
	return Header{}, false
}

func isPlaceholderText(s string) bool {
	for _, re := range placeholderText {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func isSystemEvent(s string) bool {
	for _, re := range systemEvent {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
