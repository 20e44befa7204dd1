package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/hearthline/rekindle/internal/chatlog"
)

func msg(sender string, ts time.Time, content string) chatlog.Message {
	return chatlog.Message{Timestamp: ts, Sender: sender, Content: content}
}

func TestCompute_RoundTrip(t *testing.T) {
	base := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)
	now := base.Add(48 * time.Hour)

	msgs := []chatlog.Message{
		msg("Alice", base, "hey, dinner friday?"),
		msg("Bob", base.Add(5*time.Minute), "sure, where?"),
		msg("Alice", base.Add(7*time.Minute), "the usual place"),
	}

	m := Compute(msgs, "Alice", now)

	if m.TotalMessages != 3 {
		t.Errorf("TotalMessages = %d, want 3", m.TotalMessages)
	}
	if m.UserMessages != 2 {
		t.Errorf("UserMessages = %d, want 2", m.UserMessages)
	}
	if m.PartnerMessages != 1 {
		t.Errorf("PartnerMessages = %d, want 1", m.PartnerMessages)
	}

	wantReciprocity := 1.0 / 1.5
	if math.Abs(m.Reciprocity-wantReciprocity) > 0.001 {
		t.Errorf("Reciprocity = %f, want %f", m.Reciprocity, wantReciprocity)
	}

	if m.AvgResponseTime == nil {
		t.Fatal("AvgResponseTime is nil, want value")
	}
	// Two sender changes: 5 minutes and 2 minutes.
	wantAvg := (5.0/60.0 + 2.0/60.0) / 2.0
	if math.Abs(*m.AvgResponseTime-wantAvg) > 0.001 {
		t.Errorf("AvgResponseTime = %f, want %f", *m.AvgResponseTime, wantAvg)
	}

	if m.LastMessageTime == nil || !m.LastMessageTime.Equal(base.Add(7*time.Minute)) {
		t.Errorf("LastMessageTime = %v, want %v", m.LastMessageTime, base.Add(7*time.Minute))
	}
	if m.DaysSinceContact == nil || *m.DaysSinceContact != 1 {
		t.Errorf("DaysSinceContact = %v, want 1", m.DaysSinceContact)
	}
}

func TestCompute_Empty(t *testing.T) {
	m := Compute(nil, "Alice", time.Now())

	if m.TotalMessages != 0 {
		t.Errorf("TotalMessages = %d, want 0", m.TotalMessages)
	}
	if m.Reciprocity != 0.0 {
		t.Errorf("Reciprocity = %f, want 0", m.Reciprocity)
	}
	if m.AvgResponseTime != nil {
		t.Error("AvgResponseTime should be nil")
	}
	if m.LastMessageTime != nil {
		t.Error("LastMessageTime should be nil")
	}
	if m.DaysSinceContact != nil {
		t.Error("DaysSinceContact should be nil")
	}
}

func TestCompute_FutureMessageClampsDays(t *testing.T) {
	now := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)
	msgs := []chatlog.Message{msg("Bob", now.Add(2*time.Hour), "early")}

	m := Compute(msgs, "Alice", now)
	if m.DaysSinceContact == nil || *m.DaysSinceContact != 0 {
		t.Errorf("DaysSinceContact = %v, want 0", m.DaysSinceContact)
	}
}

func TestReciprocity(t *testing.T) {
	tests := []struct {
		name                 string
		user, partner, total int
		want                 float64
	}{
		{"balanced", 5, 5, 10, 1.0},
		{"one sided", 10, 0, 10, 0.0},
		{"two to one", 2, 1, 3, 1.0 / 1.5},
		{"empty", 0, 0, 0, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reciprocity(tt.user, tt.partner, tt.total)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("reciprocity(%d, %d, %d) = %f, want %f", tt.user, tt.partner, tt.total, got, tt.want)
			}
		})
	}
}

func TestAvgResponseTime_RestartGapExcluded(t *testing.T) {
	base := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)
	msgs := []chatlog.Message{
		msg("Alice", base, "hey"),
		msg("Bob", base.Add(2*time.Hour), "hi"),
		msg("Alice", base.Add(32*time.Hour), "long time"),
	}

	got := avgResponseTime(msgs)
	if got == nil {
		t.Fatal("got nil, want value")
	}
	// The 30-hour gap is a restart, not a response; only the 2-hour
	// gap counts.
	if math.Abs(*got-2.0) > 0.001 {
		t.Errorf("avgResponseTime = %f, want 2.0", *got)
	}
}

func TestAvgResponseTime_SameSenderRunsIgnored(t *testing.T) {
	base := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)
	msgs := []chatlog.Message{
		msg("Alice", base, "one"),
		msg("Alice", base.Add(time.Minute), "two"),
		msg("Alice", base.Add(2*time.Minute), "three"),
	}

	if got := avgResponseTime(msgs); got != nil {
		t.Errorf("got %f, want nil for monologue", *got)
	}
}

func TestAvgResponseTime_SingleMessage(t *testing.T) {
	msgs := []chatlog.Message{msg("Alice", time.Now(), "hi")}
	if got := avgResponseTime(msgs); got != nil {
		t.Errorf("got %f, want nil", *got)
	}
}
