// Package conversation builds per-partner Conversation aggregates from
// a flat message sequence.
package conversation

import (
	"time"

	"github.com/hearthline/rekindle/internal/chatlog"
	"github.com/hearthline/rekindle/internal/metrics"
)

// Category groups a relationship. Defaults to friends; mutable by the
// user after sync.
type Category string

const (
	CategoryFamily  Category = "family"
	CategoryFriends Category = "friends"
	CategoryWork    Category = "work"
)

// Tone is the outreach voice used when generating prompts.
type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneFriendly Tone = "friendly"
	TonePlayful  Tone = "playful"
)

// defaultTones is the canonical category→tone fallback map.
var defaultTones = map[Category]Tone{
	CategoryFamily:  ToneFriendly,
	CategoryFriends: TonePlayful,
	CategoryWork:    ToneFormal,
}

// DefaultTone returns the fallback tone for a category.
func DefaultTone(c Category) Tone {
	if t, ok := defaultTones[c]; ok {
		return t
	}
	return ToneFriendly
}

// Conversation is the aggregate for one relationship: the user's
// exchange with a single partner, plus derived metrics. Every message
// in Messages was sent by either the user or the partner.
type Conversation struct {
	UserID      string            `json:"user_id"`
	PartnerName string            `json:"partner_name"`
	PartnerID   string            `json:"partner_id"`
	ChatID      string            `json:"chat_id,omitempty"` // source chat identifier, when the source has one
	Messages    []chatlog.Message `json:"messages"`
	Metrics     metrics.Metrics   `json:"metrics"`
	Category    Category          `json:"category"`
	Tone        Tone              `json:"tone,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Health classifies the relationship from the current metrics.
func (c *Conversation) Health() metrics.Status {
	return metrics.ClassifyHealth(c.Metrics.DaysSinceContact)
}

// EffectiveTone returns the explicit tone, or the category default.
func (c *Conversation) EffectiveTone() Tone {
	if c.Tone != "" {
		return c.Tone
	}
	return DefaultTone(c.Category)
}

// LastMessages returns up to n most recent messages in chronological
// order, for prompt context.
func (c *Conversation) LastMessages(n int) []chatlog.Message {
	sorted := make([]chatlog.Message, len(c.Messages))
	copy(sorted, c.Messages)
	sortByTimestamp(sorted)
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted
}
