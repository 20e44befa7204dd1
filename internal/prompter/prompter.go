package prompter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hearthline/rekindle/internal/conversation"
)

const contextMessages = 20

// completer is the slice of the OpenAI client the prompter uses.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Prompter generates outreach prompts for conversations. Without an
// API client it serves template fallbacks only.
type Prompter struct {
	client      completer
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

func New(apiKey, model string, maxTokens int, temperature float32, logger *slog.Logger) *Prompter {
	p := &Prompter{
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		logger:      logger,
	}
	if apiKey != "" {
		p.client = openai.NewClient(apiKey)
	} else {
		logger.Warn("openai api key not set, using fallback prompts")
	}
	return p
}

type promptResponse struct {
	Prompts []promptItem `json:"prompts"`
}

type promptItem struct {
	Text       string  `json:"text"`
	Type       string  `json:"type"`
	Context    string  `json:"context"`
	Confidence float64 `json:"confidence"`
}

// Generate produces n outreach prompts for the conversation. Model or
// parse failures degrade to template prompts rather than erroring: a
// missing suggestion is a worse outcome for the user than a generic
// one.
func (p *Prompter) Generate(ctx context.Context, conversationID uuid.UUID, conv *conversation.Conversation, n int) []Prompt {
	tone := string(conv.EffectiveTone())

	if p.client == nil {
		return p.fallback(conversationID, conv, n)
	}

	system := fmt.Sprintf(systemPrompt, tone, promptFocus(conv.Health()))
	user := fmt.Sprintf(userPrompt, conv.PartnerName, n, BuildContext(conv, contextMessages))

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   p.maxTokens,
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		p.logger.Error("prompt generation failed, using fallback", "partner", conv.PartnerName, "error", err)
		return p.fallback(conversationID, conv, n)
	}
	if len(resp.Choices) == 0 {
		p.logger.Error("empty completion, using fallback", "partner", conv.PartnerName)
		return p.fallback(conversationID, conv, n)
	}

	var parsed promptResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		p.logger.Error("failed to parse prompt response, using fallback",
			"partner", conv.PartnerName,
			"error", err,
		)
		return p.fallback(conversationID, conv, n)
	}

	items := parsed.Prompts
	if len(items) > n {
		items = items[:n]
	}

	now := time.Now().UTC()
	prompts := make([]Prompt, 0, len(items))
	for _, item := range items {
		confidence := item.Confidence
		if confidence == 0 {
			confidence = 0.8
		}
		prompts = append(prompts, Prompt{
			PromptID:       uuid.New(),
			ConversationID: conversationID,
			Text:           item.Text,
			Type:           item.Type,
			Context:        item.Context,
			Tone:           tone,
			Confidence:     confidence,
			CreatedAt:      now,
		})
	}

	p.logger.Info("prompts generated", "partner", conv.PartnerName, "count", len(prompts))
	return prompts
}

// fallback serves template prompts when the model is unavailable.
// Confidence is fixed lower than model output.
func (p *Prompter) fallback(conversationID uuid.UUID, conv *conversation.Conversation, n int) []Prompt {
	partner := conv.PartnerName
	days := 0
	if conv.Metrics.DaysSinceContact != nil {
		days = *conv.Metrics.DaysSinceContact
	}

	templates := []promptItem{
		{
			Text:    fmt.Sprintf("Hey %s! It's been a while - how have you been?", partner),
			Type:    "check_in",
			Context: fmt.Sprintf("Reconnecting after %d days", days),
		},
		{
			Text:    fmt.Sprintf("Hi %s! Just wanted to check in and see what's new with you", partner),
			Type:    "check_in",
			Context: "General check-in",
		},
		{
			Text:    "Hey! I've been meaning to catch up - when's a good time for a quick call?",
			Type:    "reconnect",
			Context: "Suggesting a call",
		},
	}
	if len(conv.Metrics.CommonTopics) > 0 {
		topic := conv.Metrics.CommonTopics[0]
		templates = append(templates, promptItem{
			Text:    fmt.Sprintf("Hey %s! I was thinking about %s - how's that going?", partner, topic),
			Type:    "follow_up",
			Context: fmt.Sprintf("Following up on: %s", topic),
		})
	}

	if len(templates) > n {
		templates = templates[:n]
	}

	now := time.Now().UTC()
	prompts := make([]Prompt, 0, len(templates))
	for _, item := range templates {
		prompts = append(prompts, Prompt{
			PromptID:       uuid.New(),
			ConversationID: conversationID,
			Text:           item.Text,
			Type:           item.Type,
			Context:        item.Context,
			Tone:           string(conv.EffectiveTone()),
			Confidence:     0.6,
			CreatedAt:      now,
		})
	}
	return prompts
}
