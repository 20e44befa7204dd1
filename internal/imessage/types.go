// Package imessage talks to the local iMessage bridge server and
// normalizes its message records into the parser's Message shape, so
// both ingestion paths feed a single metrics calculator.
package imessage

import "encoding/json"

// Chat is one conversation as reported by the bridge.
type Chat struct {
	ChatID          string `json:"chatId"`
	GUID            string `json:"guid"` // legacy field, older bridge versions
	DisplayName     string `json:"displayName"`
	IsGroup         bool   `json:"isGroup"`
	LastMessageDate string `json:"lastMessageDate"`
}

// Identifier returns the chat's authoritative id, falling back to the
// legacy guid field.
func (c Chat) Identifier() string {
	if c.ChatID != "" {
		return c.ChatID
	}
	return c.GUID
}

// Record is one message as reported by the bridge. Date arrives as an
// ISO-8601 string, epoch milliseconds, or not at all, so it is decoded
// lazily.
type Record struct {
	GUID        string          `json:"guid"`
	Text        string          `json:"text"`
	Sender      string          `json:"sender"`
	Handle      Handle          `json:"handle"`
	IsFromMe    bool            `json:"isFromMe"`
	Date        json.RawMessage `json:"date"`
	Attachments []Attachment    `json:"attachments"`
}

type Handle struct {
	Name string `json:"name"`
}

type Attachment struct {
	MimeType string `json:"mimeType"`
}

// ServerInfo is the bridge's identity payload, including the account
// the local Messages database belongs to.
type ServerInfo struct {
	DetectedIMessage string `json:"detected_imessage"`
	DetectedICloud   string `json:"detected_icloud"`
	ICloudName       string `json:"detected_icloud_name"`
	ComputerID       string `json:"computer_id"`
}
