package chatlog

import "time"

// Message is a single chat utterance, shared across ingestion paths.
// Content is non-empty after cleaning; system and noise lines never
// become a Message.
type Message struct {
	Timestamp time.Time `json:"timestamp"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	MessageID string    `json:"message_id,omitempty"` // opaque id from the source, if any
}
