package processor

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hearthline/rekindle/internal/conversation"
	"github.com/hearthline/rekindle/internal/imessage"
)

const (
	syncBatchSize    = 5
	chatMessageLimit = 100
	defaultMaxChats  = 20
)

// BridgeClient is the slice of the iMessage bridge client the
// processor uses.
type BridgeClient interface {
	Info(ctx context.Context) (*imessage.ServerInfo, error)
	Chats(ctx context.Context, limit int) ([]imessage.Chat, error)
	Messages(ctx context.Context, chatID string, limit, offset int) ([]imessage.Record, error)
}

// SyncRequest selects which bridge chats to sync. Mode "all" takes
// every chat, "recent" the MaxChats most recently active, "selected"
// only the listed chat ids.
type SyncRequest struct {
	UserID          string   `json:"user_id"`
	UserDisplayName string   `json:"user_display_name"`
	Mode            string   `json:"mode"`
	MaxChats        int      `json:"max_chats"`
	ChatIDs         []string `json:"chat_ids"`
}

// SyncChats runs a bridge sync: list chats, pick the tracked set, and
// process them in parallel batches. Chats with no usable messages are
// skipped, not failed.
func (p *Processor) SyncChats(ctx context.Context, req SyncRequest) ([]ConversationSummary, error) {
	if p.bridge == nil {
		return nil, fmt.Errorf("bridge client not configured")
	}

	displayName, err := p.resolveDisplayName(ctx, req.UserDisplayName)
	if err != nil {
		return nil, err
	}

	chats, err := p.bridge.Chats(ctx, 200)
	if err != nil {
		return nil, fmt.Errorf("list bridge chats: %w", err)
	}
	tracked := selectChats(chats, req)

	p.logger.Info("bridge sync started",
		"user_id", req.UserID,
		"mode", req.Mode,
		"chats", len(tracked),
	)

	var mu sync.Mutex
	var summaries []ConversationSummary

	for start := 0; start < len(tracked); start += syncBatchSize {
		end := start + syncBatchSize
		if end > len(tracked) {
			end = len(tracked)
		}

		var wg sync.WaitGroup
		for _, chat := range tracked[start:end] {
			wg.Add(1)
			go func(chat imessage.Chat) {
				defer wg.Done()
				summary, err := p.SyncChat(ctx, req.UserID, displayName, chat.Identifier(), imessage.DisplayName(chat))
				if err != nil {
					p.logger.Error("chat sync failed", "chat_id", chat.Identifier(), "error", err)
					return
				}
				if summary == nil {
					return
				}
				mu.Lock()
				summaries = append(summaries, *summary)
				mu.Unlock()
			}(chat)
		}
		wg.Wait()
	}

	p.logger.Info("bridge sync complete",
		"user_id", req.UserID,
		"synced", len(summaries),
	)
	return summaries, nil
}

// SyncChat syncs a single bridge chat into a metadata-only
// conversation. Message content from the bridge is never persisted,
// only derived metrics. Returns nil without error when the chat has no
// usable messages.
func (p *Processor) SyncChat(ctx context.Context, userID, userDisplayName, chatID, partnerName string) (*ConversationSummary, error) {
	if p.bridge == nil {
		return nil, fmt.Errorf("bridge client not configured")
	}

	displayName, err := p.resolveDisplayName(ctx, userDisplayName)
	if err != nil {
		return nil, err
	}

	records, err := p.bridge.Messages(ctx, chatID, chatMessageLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch chat %s: %w", chatID, err)
	}

	now := time.Now().UTC()
	msgs, stats := imessage.Normalize(records, displayName, now)
	if len(msgs) == 0 {
		return nil, nil
	}

	if partnerName == "" {
		partnerName = imessage.DisplayName(imessage.Chat{ChatID: chatID})
	}

	// Bridge handles rarely match the saved contact name, so all
	// non-user senders collapse onto the chat's partner identity.
	for i := range msgs {
		if msgs[i].Sender != displayName {
			msgs[i].Sender = partnerName
		}
	}

	conv := conversation.Build(userID, msgs, displayName, partnerName, now)
	conv.ChatID = chatID
	conv.Messages = nil

	summary, err := p.persistConversation(ctx, &conv, "imessage")
	if err != nil {
		return nil, err
	}

	p.logger.Info("chat synced",
		"chat_id", chatID,
		"partner", partnerName,
		"messages", conv.Metrics.TotalMessages,
		"attachments", stats.Total,
	)
	return &summary, nil
}

// resolveDisplayName falls back to the bridge's detected account
// identity when the caller did not supply a display name.
func (p *Processor) resolveDisplayName(ctx context.Context, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	info, err := p.bridge.Info(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch bridge identity: %w", err)
	}
	switch {
	case info.ICloudName != "":
		return info.ICloudName, nil
	case info.DetectedIMessage != "":
		return info.DetectedIMessage, nil
	case info.DetectedICloud != "":
		return info.DetectedICloud, nil
	}
	return "", fmt.Errorf("bridge reported no account identity")
}

// selectChats applies the tracking mode to the bridge's chat list.
func selectChats(chats []imessage.Chat, req SyncRequest) []imessage.Chat {
	switch req.Mode {
	case "selected":
		wanted := make(map[string]struct{}, len(req.ChatIDs))
		for _, id := range req.ChatIDs {
			wanted[id] = struct{}{}
		}
		var out []imessage.Chat
		for _, chat := range chats {
			if _, ok := wanted[chat.Identifier()]; ok {
				out = append(out, chat)
			}
		}
		return out

	case "recent":
		max := req.MaxChats
		if max <= 0 {
			max = defaultMaxChats
		}
		sorted := make([]imessage.Chat, len(chats))
		copy(sorted, chats)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].LastMessageDate > sorted[j].LastMessageDate
		})
		if len(sorted) > max {
			sorted = sorted[:max]
		}
		return sorted

	default: // "all"
		return chats
	}
}
