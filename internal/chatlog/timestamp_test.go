package chatlog

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
	}{
		{
			"us 12h with seconds",
			"12/31/23, 9:15:32 PM",
			time.Date(2023, 12, 31, 21, 15, 32, 0, time.Local),
		},
		{
			"us 12h with seconds, 4-digit year",
			"12/31/2023, 9:15:32 PM",
			time.Date(2023, 12, 31, 21, 15, 32, 0, time.Local),
		},
		{
			"european 24h with seconds",
			"31/12/23, 21:15:32",
			time.Date(2023, 12, 31, 21, 15, 32, 0, time.Local),
		},
		{
			"european 24h with seconds, 4-digit year",
			"31/12/2023, 21:15:32",
			time.Date(2023, 12, 31, 21, 15, 32, 0, time.Local),
		},
		{
			"us 12h without seconds",
			"3/5/24, 9:15 PM",
			time.Date(2024, 3, 5, 21, 15, 0, 0, time.Local),
		},
		{
			"24h without seconds",
			"3/5/24, 21:15",
			time.Date(2024, 3, 5, 21, 15, 0, 0, time.Local),
		},
		{
			"surrounding whitespace",
			"  3/5/24, 21:15  ",
			time.Date(2024, 3, 5, 21, 15, 0, 0, time.Local),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.raw)
			if !ok {
				t.Fatalf("ParseTimestamp(%q) failed, want %v", tt.raw, tt.want)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp_SecondsNotTruncated(t *testing.T) {
	got, ok := ParseTimestamp("31/12/23, 21:15:32")
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if got.Second() != 32 {
		t.Errorf("seconds truncated: got %d, want 32", got.Second())
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	tests := []string{
		"",
		"not a date",
		"2023-12-31T21:15:32Z",
		"12/31/23",
		"9:15 PM",
	}

	for _, raw := range tests {
		if _, ok := ParseTimestamp(raw); ok {
			t.Errorf("ParseTimestamp(%q) succeeded, want failure", raw)
		}
	}
}
