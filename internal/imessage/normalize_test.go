package imessage

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalize_Senders(t *testing.T) {
	now := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)
	records := []Record{
		{GUID: "g1", Text: "from me", IsFromMe: true, Date: json.RawMessage(`"2024-03-05T20:00:00Z"`)},
		{GUID: "g2", Text: "from handle", Handle: Handle{Name: "Bob"}, Date: json.RawMessage(`"2024-03-05T20:01:00Z"`)},
		{GUID: "g3", Text: "from sender field", Sender: "Carol", Date: json.RawMessage(`"2024-03-05T20:02:00Z"`)},
		{GUID: "g4", Text: "anonymous"},
	}

	msgs, _ := Normalize(records, "Alice", now)
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	wantSenders := []string{"Alice", "Bob", "Carol", "Unknown"}
	for i, want := range wantSenders {
		if msgs[i].Sender != want {
			t.Errorf("msgs[%d].Sender = %q, want %q", i, msgs[i].Sender, want)
		}
	}
	if msgs[0].MessageID != "g1" {
		t.Errorf("MessageID = %q, want g1", msgs[0].MessageID)
	}
}

func TestNormalize_EmptyRecordsDropped(t *testing.T) {
	now := time.Now()
	records := []Record{
		{GUID: "g1"},
		{GUID: "g2", Text: "real"},
	}

	msgs, _ := Normalize(records, "Alice", now)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Content != "real" {
		t.Errorf("content = %q, want real", msgs[0].Content)
	}
}

func TestNormalize_AttachmentPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		atts []Attachment
		want string
	}{
		{"single image", []Attachment{{MimeType: "image/jpeg"}}, "[1 Image]"},
		{"two images", []Attachment{{MimeType: "image/jpeg"}, {MimeType: "image/png"}}, "[2 Images]"},
		{"single video", []Attachment{{MimeType: "video/mp4"}}, "[1 Video]"},
		{"mixed", []Attachment{{MimeType: "image/jpeg"}, {MimeType: "video/mp4"}, {MimeType: "audio/m4a"}}, "[3 attachments]"},
		{"unknown type", []Attachment{{MimeType: "application/pdf"}}, "[1 File]"},
	}

	now := time.Now()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs, _ := Normalize([]Record{{GUID: "g", Attachments: tt.atts}}, "Alice", now)
			if len(msgs) != 1 {
				t.Fatalf("got %d messages, want 1", len(msgs))
			}
			if msgs[0].Content != tt.want {
				t.Errorf("content = %q, want %q", msgs[0].Content, tt.want)
			}
		})
	}
}

func TestNormalize_AttachmentStats(t *testing.T) {
	now := time.Now()
	records := []Record{
		{GUID: "g1", Text: "pics", Attachments: []Attachment{
			{MimeType: "image/jpeg"},
			{MimeType: "image/png"},
			{MimeType: "audio/voice-message"},
		}},
	}

	_, stats := Normalize(records, "Alice", now)
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Images != 2 {
		t.Errorf("Images = %d, want 2", stats.Images)
	}
	if stats.Voice != 1 {
		t.Errorf("Voice = %d, want 1", stats.Voice)
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  json.RawMessage
		want time.Time
	}{
		{"iso string", json.RawMessage(`"2024-03-05T20:00:00Z"`), time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)},
		{"epoch millis", json.RawMessage(`1709668800000`), time.UnixMilli(1709668800000).UTC()},
		{"absent", nil, now},
		{"null", json.RawMessage(`null`), now},
		{"garbage string", json.RawMessage(`"yesterday"`), now},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseDate(tt.raw, now)
			if !got.Equal(tt.want) {
				t.Errorf("parseDate(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
