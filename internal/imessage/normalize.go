package imessage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hearthline/rekindle/internal/chatlog"
)

// AttachmentStats is metadata about attachments seen while
// normalizing, kept for analytics since attachment content is never
// persisted.
type AttachmentStats struct {
	Total  int `json:"total_attachments"`
	Images int `json:"image_count"`
	Voice  int `json:"voice_message_count"`
}

// Normalize converts bridge records into parser messages. Records from
// the user get the caller's display name as sender so both ingestion
// paths agree on identity. Attachment-only records get a synthesized
// placeholder; records with neither text nor attachments are dropped.
func Normalize(records []Record, userDisplayName string, now time.Time) ([]chatlog.Message, AttachmentStats) {
	var msgs []chatlog.Message
	var stats AttachmentStats

	for _, rec := range records {
		stats.Total += len(rec.Attachments)
		for _, att := range rec.Attachments {
			mime := strings.ToLower(att.MimeType)
			switch {
			case strings.HasPrefix(mime, "image/"):
				stats.Images++
			case strings.HasPrefix(mime, "audio/"), strings.Contains(mime, "voice"):
				stats.Voice++
			}
		}

		text := rec.Text
		if text == "" {
			text = attachmentPlaceholder(rec.Attachments)
		}
		if text == "" {
			continue
		}

		sender := userDisplayName
		if !rec.IsFromMe {
			sender = rec.Handle.Name
			if sender == "" {
				sender = rec.Sender
			}
			if sender == "" {
				sender = "Unknown"
			}
		}

		msgs = append(msgs, chatlog.Message{
			Timestamp: parseDate(rec.Date, now),
			Sender:    sender,
			Content:   text,
			MessageID: rec.GUID,
		})
	}

	return msgs, stats
}

// parseDate decodes the bridge's date field: ISO-8601 string, epoch
// milliseconds, or absent (falls back to the sync time).
func parseDate(raw json.RawMessage, now time.Time) time.Time {
	if len(raw) == 0 || string(raw) == "null" {
		return now
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if ts, err := time.Parse(time.RFC3339, s); err == nil {
			return ts
		}
		return now
	}

	var ms float64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return time.UnixMilli(int64(ms)).UTC()
	}

	return now
}

// attachmentPlaceholder synthesizes content for attachment-only
// records, e.g. "[2 Images]" or "[3 attachments]" for mixed types.
func attachmentPlaceholder(atts []Attachment) string {
	if len(atts) == 0 {
		return ""
	}

	kinds := make(map[string]struct{})
	var kind string
	for _, att := range atts {
		mime := strings.ToLower(att.MimeType)
		switch {
		case strings.HasPrefix(mime, "image/"):
			kind = "Image"
		case strings.HasPrefix(mime, "video/"):
			kind = "Video"
		case strings.HasPrefix(mime, "audio/"):
			kind = "Audio"
		default:
			kind = "File"
		}
		kinds[kind] = struct{}{}
	}

	if len(kinds) > 1 {
		return fmt.Sprintf("[%d attachments]", len(atts))
	}
	if len(atts) == 1 {
		return fmt.Sprintf("[1 %s]", kind)
	}
	return fmt.Sprintf("[%d %ss]", len(atts), kind)
}
