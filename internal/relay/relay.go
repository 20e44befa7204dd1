// Package relay connects the service to NATS for sync and prompt
// events.
package relay

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published and consumed by the service.
const (
	SubjectConversationSynced = "rekindle.conversation.synced"
	SubjectPromptsGenerated   = "rekindle.prompts.generated"
	SubjectBridgeMessage      = "rekindle.bridge.message"
)

// ConversationSynced is emitted whenever a conversation is created or
// refreshed from a transcript or bridge sync.
type ConversationSynced struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	PartnerName    string `json:"partner_name"`
	Source         string `json:"source"`
	TotalMessages  int    `json:"total_messages"`
	HealthStatus   string `json:"health_status"`
}

// PromptsGenerated is emitted after a batch of outreach prompts is
// written for a conversation.
type PromptsGenerated struct {
	ConversationID string `json:"conversation_id"`
	UserID         string `json:"user_id"`
	PartnerName    string `json:"partner_name"`
	Count          int    `json:"count"`
}

// BridgeMessage is the payload the iMessage bridge pushes when new
// messages arrive for a tracked chat.
type BridgeMessage struct {
	UserID string `json:"user_id"`
	ChatID string `json:"chat_id"`
	GUID   string `json:"guid"`
}

type Client struct {
	conn   *nats.Conn
	subs   []*nats.Subscription
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Subscribe(subject string, handler func(subject string, data []byte)) error {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Subject, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", subject, err)
	}
	c.subs = append(c.subs, sub)
	c.logger.Info("subscribed", "subject", subject)
	return nil
}

func (c *Client) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}
