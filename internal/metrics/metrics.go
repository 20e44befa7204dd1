// Package metrics derives engagement metrics from a message sequence.
// Everything here is a pure function of its inputs; callers may run
// computations for independent conversations concurrently.
package metrics

import (
	"sort"
	"time"

	"github.com/hearthline/rekindle/internal/chatlog"
)

// responseCutoff excludes gaps that are conversation restarts rather
// than responses from the average.
const responseCutoff = 24 * time.Hour

// Metrics is the derived, read-only summary of a message set. Optional
// fields are nil when there is no data to derive them from, never zero.
type Metrics struct {
	TotalMessages    int        `json:"total_messages"`
	UserMessages     int        `json:"user_messages"`
	PartnerMessages  int        `json:"partner_messages"`
	Reciprocity      float64    `json:"reciprocity"`
	AvgResponseTime  *float64   `json:"avg_response_time,omitempty"` // hours
	LastMessageTime  *time.Time `json:"last_message_time,omitempty"`
	DaysSinceContact *int       `json:"days_since_contact,omitempty"`
	CommonTopics     []string   `json:"common_topics,omitempty"`
}

// Compute derives Metrics from a message sequence. Recency is measured
// against now; messages need not be pre-sorted.
func Compute(msgs []chatlog.Message, userDisplayName string, now time.Time) Metrics {
	m := Metrics{TotalMessages: len(msgs)}

	for _, msg := range msgs {
		if msg.Sender == userDisplayName {
			m.UserMessages++
		}
	}
	m.PartnerMessages = m.TotalMessages - m.UserMessages
	m.Reciprocity = reciprocity(m.UserMessages, m.PartnerMessages, m.TotalMessages)

	if len(msgs) > 0 {
		sorted := make([]chatlog.Message, len(msgs))
		copy(sorted, msgs)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.Before(sorted[j].Timestamp)
		})

		last := sorted[len(sorted)-1].Timestamp
		m.LastMessageTime = &last
		days := int(now.Sub(last).Hours() / 24)
		if days < 0 {
			days = 0
		}
		m.DaysSinceContact = &days

		m.AvgResponseTime = avgResponseTime(sorted)
	}

	m.CommonTopics = Topics(msgs, 5)

	return m
}

// reciprocity scores conversational balance in [0,1]: a 50/50 split
// yields 1.0, a one-sided conversation yields 0.0.
func reciprocity(user, partner, total int) float64 {
	if total == 0 {
		return 0.0
	}
	least := user
	if partner < least {
		least = partner
	}
	r := float64(least) / (float64(total) / 2.0)
	if r > 1.0 {
		return 1.0
	}
	return r
}

// avgResponseTime averages sender-change gaps under the cutoff, in
// hours. Gaps of a day or more are conversation restarts, not
// responses, and are excluded so they do not skew the average.
func avgResponseTime(sorted []chatlog.Message) *float64 {
	if len(sorted) < 2 {
		return nil
	}

	var sum float64
	var count int
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if prev.Sender == curr.Sender {
			continue
		}
		gap := curr.Timestamp.Sub(prev.Timestamp)
		if gap < responseCutoff {
			sum += gap.Hours()
			count++
		}
	}
	if count == 0 {
		return nil
	}

	avg := sum / float64(count)
	return &avg
}
