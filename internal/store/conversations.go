package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthline/rekindle/internal/chatlog"
	"github.com/hearthline/rekindle/internal/conversation"
)

// ConversationRow is a persisted conversation plus its row identity.
type ConversationRow struct {
	ID uuid.UUID
	conversation.Conversation
}

// UpsertConversation writes a conversation keyed by (user_id,
// partner_id): re-syncing the same partner refreshes messages and
// metrics instead of duplicating the row. Category and tone are
// user-mutable, so they are set on insert only.
func (s *Store) UpsertConversation(ctx context.Context, conv *conversation.Conversation) (uuid.UUID, error) {
	messages, err := json.Marshal(conv.Messages)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal messages: %w", err)
	}

	var id uuid.UUID
	err = s.pool.QueryRow(ctx, `
		INSERT INTO conversations (
			id, user_id, partner_id, partner_name, chat_id, category, tone, messages,
			total_messages, user_messages, partner_messages, reciprocity,
			avg_response_time, last_message_time, days_since_contact, common_topics,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, now(), now())
		ON CONFLICT (user_id, partner_id) DO UPDATE SET
			partner_name = EXCLUDED.partner_name,
			chat_id = EXCLUDED.chat_id,
			messages = EXCLUDED.messages,
			total_messages = EXCLUDED.total_messages,
			user_messages = EXCLUDED.user_messages,
			partner_messages = EXCLUDED.partner_messages,
			reciprocity = EXCLUDED.reciprocity,
			avg_response_time = EXCLUDED.avg_response_time,
			last_message_time = EXCLUDED.last_message_time,
			days_since_contact = EXCLUDED.days_since_contact,
			common_topics = EXCLUDED.common_topics,
			updated_at = now()
		RETURNING id`,
		uuid.New(), conv.UserID, conv.PartnerID, conv.PartnerName, conv.ChatID,
		string(conv.Category), string(conv.Tone), messages,
		conv.Metrics.TotalMessages, conv.Metrics.UserMessages, conv.Metrics.PartnerMessages,
		conv.Metrics.Reciprocity, conv.Metrics.AvgResponseTime, conv.Metrics.LastMessageTime,
		conv.Metrics.DaysSinceContact, conv.Metrics.CommonTopics,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("upsert conversation: %w", err)
	}

	return id, nil
}

// GetConversations lists a user's conversations, most recently updated
// first.
func (s *Store) GetConversations(ctx context.Context, userID string) ([]ConversationRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, partner_id, partner_name, chat_id, category, tone, messages,
			total_messages, user_messages, partner_messages, reciprocity,
			avg_response_time, last_message_time, days_since_contact, common_topics,
			created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var out []ConversationRow
	for rows.Next() {
		row, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetConversation fetches one conversation by row id.
func (s *Store) GetConversation(ctx context.Context, id uuid.UUID) (*ConversationRow, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, partner_id, partner_name, chat_id, category, tone, messages,
			total_messages, user_messages, partner_messages, reciprocity,
			avg_response_time, last_message_time, days_since_contact, common_topics,
			created_at, updated_at
		FROM conversations
		WHERE id = $1`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("conversation %s not found", id)
	}
	row, err := scanConversation(rows)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// UpdateCategoryTone changes the user-mutable fields of a conversation.
// Empty values leave the current value in place.
func (s *Store) UpdateCategoryTone(ctx context.Context, id uuid.UUID, category, tone string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE conversations SET
			category = COALESCE(NULLIF($1, ''), category),
			tone = COALESCE(NULLIF($2, ''), tone),
			updated_at = now()
		WHERE id = $3`,
		category, tone, id,
	)
	return err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanConversation(row scannable) (ConversationRow, error) {
	var out ConversationRow
	var messages []byte
	var tone *string

	err := row.Scan(
		&out.ID, &out.UserID, &out.PartnerID, &out.PartnerName, &out.ChatID,
		&out.Category, &tone, &messages,
		&out.Metrics.TotalMessages, &out.Metrics.UserMessages, &out.Metrics.PartnerMessages,
		&out.Metrics.Reciprocity, &out.Metrics.AvgResponseTime, &out.Metrics.LastMessageTime,
		&out.Metrics.DaysSinceContact, &out.Metrics.CommonTopics,
		&out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		return ConversationRow{}, fmt.Errorf("scan conversation: %w", err)
	}

	if tone != nil {
		out.Tone = conversation.Tone(*tone)
	}
	if len(messages) > 0 {
		var msgs []chatlog.Message
		if err := json.Unmarshal(messages, &msgs); err != nil {
			return ConversationRow{}, fmt.Errorf("unmarshal messages: %w", err)
		}
		out.Messages = msgs
	}

	return out, nil
}
