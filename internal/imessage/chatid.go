package imessage

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)

// ContactInfo is what can be recovered from a bare chat identifier
// when the bridge has no saved contact name.
type ContactInfo struct {
	Service string
	Phone   string
	Email   string
}

// ParseChatID extracts contact info from a DM chat identifier such as
// "iMessage;+15551234567" or "SMS;someone@example.com". Group chat ids
// carry no contact info and yield an empty result.
func ParseChatID(chatID string) ContactInfo {
	var info ContactInfo
	if !strings.Contains(chatID, ";") {
		return info
	}

	parts := strings.Split(chatID, ";")
	info.Service = parts[0]
	ident := parts[len(parts)-1]

	if at := strings.Index(ident, "@"); at > 0 && strings.Contains(ident[at:], ".") {
		info.Email = ident
		return info
	}

	if phonePattern.MatchString(ident) {
		cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(ident)
		if strings.HasPrefix(cleaned, "+") {
			info.Phone = cleaned
		} else if len(cleaned) >= 10 {
			info.Phone = "+" + cleaned
		}
	}

	return info
}

// DisplayName picks the partner name for a bridge chat: the saved
// contact name when present, else the phone or email recovered from
// the chat id, else a fixed fallback.
func DisplayName(chat Chat) string {
	if chat.DisplayName != "" {
		return chat.DisplayName
	}
	info := ParseChatID(chat.Identifier())
	if info.Phone != "" {
		return info.Phone
	}
	if info.Email != "" {
		return info.Email
	}
	return "Unknown Contact"
}
