// Package processor orchestrates the ingestion pipelines: transcript
// uploads, bridge syncs, and prompt generation.
package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hearthline/rekindle/internal/chatlog"
	"github.com/hearthline/rekindle/internal/conversation"
	"github.com/hearthline/rekindle/internal/prompter"
	"github.com/hearthline/rekindle/internal/relay"
	"github.com/hearthline/rekindle/internal/store"
)

// ConversationSummary is the per-partner result of an ingestion run,
// returned to API callers and mirrored in the synced event.
type ConversationSummary struct {
	ConversationID uuid.UUID `json:"conversation_id"`
	PartnerName    string    `json:"partner_name"`
	TotalMessages  int       `json:"total_messages"`
	HealthStatus   string    `json:"health_status"`
}

type Processor struct {
	store    *store.Store
	prompter *prompter.Prompter
	relay    *relay.Client
	bridge   BridgeClient
	logger   *slog.Logger
}

func New(s *store.Store, p *prompter.Prompter, r *relay.Client, bridge BridgeClient, logger *slog.Logger) *Processor {
	return &Processor{
		store:    s,
		prompter: p,
		relay:    r,
		bridge:   bridge,
		logger:   logger,
	}
}

// ProcessTranscript runs the upload pipeline: segment the raw export,
// split it per partner, persist each conversation, and emit synced
// events. A transcript with no parseable messages yields an empty
// result, not an error.
func (p *Processor) ProcessTranscript(ctx context.Context, userID, userDisplayName, text string) ([]ConversationSummary, error) {
	msgs := chatlog.ParseTranscript(text)
	if len(msgs) == 0 {
		p.logger.Warn("no messages parsed from transcript", "user_id", userID)
		return nil, nil
	}

	now := time.Now().UTC()
	convs := conversation.BuildAll(userID, msgs, userDisplayName, now)

	summaries := make([]ConversationSummary, 0, len(convs))
	for i := range convs {
		summary, err := p.persistConversation(ctx, &convs[i], "transcript")
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	p.logger.Info("transcript processed",
		"user_id", userID,
		"messages", len(msgs),
		"conversations", len(summaries),
	)
	return summaries, nil
}

// GeneratePrompts produces and persists outreach prompts for a stored
// conversation.
func (p *Processor) GeneratePrompts(ctx context.Context, conversationID uuid.UUID, n int) ([]prompter.Prompt, error) {
	row, err := p.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	prompts := p.prompter.Generate(ctx, row.ID, &row.Conversation, n)
	if err := p.store.WritePrompts(ctx, prompts); err != nil {
		return nil, err
	}

	if p.relay != nil {
		err := p.relay.Publish(relay.SubjectPromptsGenerated, relay.PromptsGenerated{
			ConversationID: row.ID.String(),
			UserID:         row.UserID,
			PartnerName:    row.PartnerName,
			Count:          len(prompts),
		})
		if err != nil {
			p.logger.Error("failed to publish prompts generated", "error", err)
		}
	}

	return prompts, nil
}

// HandleBridgeMessage is the NATS handler for bridge message events: a
// new message arrived for a tracked chat, so re-sync that chat.
func (p *Processor) HandleBridgeMessage(subject string, data []byte) {
	ctx := context.Background()

	var evt relay.BridgeMessage
	if err := json.Unmarshal(data, &evt); err != nil {
		p.logger.Error("failed to parse bridge message event", "error", err)
		return
	}
	if evt.ChatID == "" {
		p.logger.Warn("bridge message event without chat id")
		return
	}

	summary, err := p.SyncChat(ctx, evt.UserID, "", evt.ChatID, "")
	if err != nil {
		p.logger.Error("bridge re-sync failed", "chat_id", evt.ChatID, "error", err)
		return
	}
	if summary != nil {
		p.logger.Info("bridge re-sync complete",
			"chat_id", evt.ChatID,
			"partner", summary.PartnerName,
		)
	}
}

// persistConversation upserts one conversation and publishes the
// synced event.
func (p *Processor) persistConversation(ctx context.Context, conv *conversation.Conversation, source string) (ConversationSummary, error) {
	id, err := p.store.UpsertConversation(ctx, conv)
	if err != nil {
		return ConversationSummary{}, fmt.Errorf("persist conversation with %s: %w", conv.PartnerName, err)
	}

	summary := ConversationSummary{
		ConversationID: id,
		PartnerName:    conv.PartnerName,
		TotalMessages:  conv.Metrics.TotalMessages,
		HealthStatus:   string(conv.Health()),
	}

	if p.relay != nil {
		err := p.relay.Publish(relay.SubjectConversationSynced, relay.ConversationSynced{
			ConversationID: id.String(),
			UserID:         conv.UserID,
			PartnerName:    conv.PartnerName,
			Source:         source,
			TotalMessages:  conv.Metrics.TotalMessages,
			HealthStatus:   summary.HealthStatus,
		})
		if err != nil {
			p.logger.Error("failed to publish conversation synced", "error", err)
		}
	}

	return summary, nil
}
