package prompter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hearthline/rekindle/internal/conversation"
)

const maxMessageChars = 200

// BuildContext renders the conversation into the text block handed to
// the model: relationship metadata first, then up to maxMessages recent
// messages in chronological order, each truncated.
func BuildContext(conv *conversation.Conversation, maxMessages int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Conversation with: %s\n", conv.PartnerName)
	if conv.Metrics.DaysSinceContact != nil {
		fmt.Fprintf(&sb, "Days since last contact: %d\n", *conv.Metrics.DaysSinceContact)
	}
	fmt.Fprintf(&sb, "Total messages: %d\n", conv.Metrics.TotalMessages)
	fmt.Fprintf(&sb, "Reciprocity: %.2f\n", conv.Metrics.Reciprocity)
	if len(conv.Metrics.CommonTopics) > 0 {
		fmt.Fprintf(&sb, "Common topics: %s\n", strings.Join(conv.Metrics.CommonTopics, ", "))
	}

	sb.WriteString("\nRecent conversation:\n")
	for _, msg := range conv.LastMessages(maxMessages) {
		content := msg.Content
		if utf8.RuneCountInString(content) > maxMessageChars {
			runes := []rune(content)
			content = string(runes[:maxMessageChars])
		}
		fmt.Fprintf(&sb, "%s: %s\n", msg.Sender, content)
	}

	return sb.String()
}
