package imessage

import "testing"

func TestParseChatID(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want ContactInfo
	}{
		{
			"phone with plus",
			"iMessage;+15551234567",
			ContactInfo{Service: "iMessage", Phone: "+15551234567"},
		},
		{
			"phone without plus",
			"SMS;5551234567",
			ContactInfo{Service: "SMS", Phone: "+5551234567"},
		},
		{
			"formatted phone",
			"iMessage;+1 (555) 123-4567",
			ContactInfo{Service: "iMessage", Phone: "+15551234567"},
		},
		{
			"email",
			"iMessage;someone@example.com",
			ContactInfo{Service: "iMessage", Email: "someone@example.com"},
		},
		{
			"group chat id",
			"chat123456789",
			ContactInfo{},
		},
		{
			"short number ignored",
			"SMS;22395",
			ContactInfo{Service: "SMS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseChatID(tt.id); got != tt.want {
				t.Errorf("ParseChatID(%q) = %+v, want %+v", tt.id, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		chat Chat
		want string
	}{
		{"saved contact name", Chat{ChatID: "iMessage;+15551234567", DisplayName: "Mom"}, "Mom"},
		{"phone fallback", Chat{ChatID: "iMessage;+15551234567"}, "+15551234567"},
		{"email fallback", Chat{ChatID: "iMessage;someone@example.com"}, "someone@example.com"},
		{"legacy guid field", Chat{GUID: "iMessage;+15551234567"}, "+15551234567"},
		{"nothing usable", Chat{ChatID: "chat123"}, "Unknown Contact"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.chat); got != tt.want {
				t.Errorf("DisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}
