package api

import (
	"github.com/hearthline/rekindle/internal/store"
)

// conversationView is the API shape of a stored conversation: identity
// and metrics without the raw message bodies.
func conversationView(row *store.ConversationRow) map[string]any {
	m := row.Metrics
	view := map[string]any{
		"id":               row.ID,
		"user_id":          row.UserID,
		"partner_id":       row.PartnerID,
		"partner_name":     row.PartnerName,
		"category":         row.Category,
		"tone":             row.EffectiveTone(),
		"health_status":    string(row.Health()),
		"total_messages":   m.TotalMessages,
		"user_messages":    m.UserMessages,
		"partner_messages": m.PartnerMessages,
		"reciprocity":      m.Reciprocity,
		"common_topics":    m.CommonTopics,
		"created_at":       row.CreatedAt,
		"updated_at":       row.UpdatedAt,
	}
	if row.ChatID != "" {
		view["chat_id"] = row.ChatID
	}
	if m.AvgResponseTime != nil {
		view["avg_response_time"] = *m.AvgResponseTime
	}
	if m.LastMessageTime != nil {
		view["last_message_time"] = *m.LastMessageTime
	}
	if m.DaysSinceContact != nil {
		view["days_since_contact"] = *m.DaysSinceContact
	}
	return view
}
