package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hearthline/rekindle/internal/prompter"
)

// WritePrompts stores a batch of generated prompts.
func (s *Store) WritePrompts(ctx context.Context, prompts []prompter.Prompt) error {
	for _, p := range prompts {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO prompts (
				id, conversation_id, text, type, context, tone, confidence, used, created_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			p.PromptID, p.ConversationID, p.Text, p.Type, p.Context,
			p.Tone, p.Confidence, p.Used, p.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert prompt %s: %w", p.PromptID, err)
		}
	}
	return nil
}

// GetPrompts lists prompts for a conversation, newest first.
func (s *Store) GetPrompts(ctx context.Context, conversationID uuid.UUID) ([]prompter.Prompt, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, conversation_id, text, type, context, tone, confidence, used, created_at
		FROM prompts
		WHERE conversation_id = $1
		ORDER BY created_at DESC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	var out []prompter.Prompt
	for rows.Next() {
		var p prompter.Prompt
		err := rows.Scan(
			&p.PromptID, &p.ConversationID, &p.Text, &p.Type, &p.Context,
			&p.Tone, &p.Confidence, &p.Used, &p.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkPromptUsed flags a prompt as sent by the user.
func (s *Store) MarkPromptUsed(ctx context.Context, promptID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE prompts SET used = true WHERE id = $1`, promptID)
	if err != nil {
		return fmt.Errorf("mark prompt used: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("prompt %s not found", promptID)
	}
	return nil
}
