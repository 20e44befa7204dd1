// Package prompter generates personalized outreach prompts for a
// conversation, using the derived metrics and recent messages as LLM
// context.
package prompter

import (
	"time"

	"github.com/google/uuid"
)

// Prompt is one generated outreach suggestion.
type Prompt struct {
	PromptID       uuid.UUID `json:"prompt_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Text           string    `json:"text"`
	Type           string    `json:"type"` // follow_up | check_in | reconnect
	Context        string    `json:"context"`
	Tone           string    `json:"tone"`
	Confidence     float64   `json:"confidence"`
	Used           bool      `json:"used"`
	CreatedAt      time.Time `json:"created_at"`
}
