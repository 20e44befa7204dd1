package imessage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// Client is an HTTP client for the iMessage bridge server. Calls run
// through a circuit breaker so a dead bridge fails fast during batch
// sync instead of stalling every chat on the full timeout.
type Client struct {
	serverURL string
	apiKey    string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	logger    *slog.Logger
}

func NewClient(serverURL, apiKey string, logger *slog.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "imessage-bridge",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			logger.Warn("bridge breaker state change", "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		serverURL: strings.TrimRight(serverURL, "/"),
		apiKey:    apiKey,
		client:    &http.Client{Timeout: 30 * time.Second},
		breaker:   cb,
		logger:    logger,
	}
}

// Info fetches the bridge's server info, including the detected user
// identity.
func (c *Client) Info(ctx context.Context) (*ServerInfo, error) {
	var info ServerInfo
	if err := c.get(ctx, "/api/server/info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Chats lists conversations known to the bridge.
func (c *Client) Chats(ctx context.Context, limit int) ([]Chat, error) {
	var resp struct {
		Chats []Chat `json:"chats"`
	}
	params := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/api/chats", params, &resp); err != nil {
		return nil, err
	}
	return resp.Chats, nil
}

// Messages fetches records for a single chat.
func (c *Client) Messages(ctx context.Context, chatID string, limit, offset int) ([]Record, error) {
	var resp struct {
		Messages []Record `json:"messages"`
	}
	params := url.Values{
		"chatGuid": {chatID}, // bridge API keeps the legacy parameter name
		"limit":    {strconv.Itoa(limit)},
		"offset":   {strconv.Itoa(offset)},
	}
	if err := c.get(ctx, "/api/messages", params, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.breaker.Execute(func() (any, error) {
		u := c.serverURL + path
		if len(params) > 0 {
			u += "?" + params.Encode()
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		if c.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("bridge request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("bridge returned %d for %s", resp.StatusCode, path)
		}
		return data, nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("parse bridge response: %w", err)
	}
	return nil
}
