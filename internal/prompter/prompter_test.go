package prompter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/hearthline/rekindle/internal/chatlog"
	"github.com/hearthline/rekindle/internal/conversation"
	"github.com/hearthline/rekindle/internal/metrics"
)

type fakeCompleter struct {
	content string
	err     error
	gotReq  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.gotReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func testConversation() *conversation.Conversation {
	days := 45
	last := time.Date(2024, 3, 5, 21, 0, 0, 0, time.UTC)
	return &conversation.Conversation{
		UserID:      "user-1",
		PartnerName: "Bob",
		Category:    conversation.CategoryFriends,
		Messages: []chatlog.Message{
			{Timestamp: last, Sender: "Bob", Content: "the climbing trip was great"},
		},
		Metrics: metrics.Metrics{
			TotalMessages:    10,
			UserMessages:     5,
			PartnerMessages:  5,
			Reciprocity:      1.0,
			DaysSinceContact: &days,
			CommonTopics:     []string{"climbing", "weekend"},
		},
	}
}

func TestGenerate_ParsesModelResponse(t *testing.T) {
	fake := &fakeCompleter{content: `{"prompts":[
		{"text":"How was the climbing trip?","type":"follow_up","context":"climbing","confidence":0.9},
		{"text":"Been a while, how are you?","type":"check_in","context":"reconnect"}
	]}`}
	p := &Prompter{client: fake, model: "gpt-4o-mini", maxTokens: 500, temperature: 0.8, logger: slog.Default()}

	convID := uuid.New()
	prompts := p.Generate(context.Background(), convID, testConversation(), 3)

	if len(prompts) != 2 {
		t.Fatalf("got %d prompts, want 2", len(prompts))
	}
	if prompts[0].Text != "How was the climbing trip?" {
		t.Errorf("text = %q", prompts[0].Text)
	}
	if prompts[0].Confidence != 0.9 {
		t.Errorf("confidence = %f, want 0.9", prompts[0].Confidence)
	}
	// Missing confidence defaults rather than reading as zero.
	if prompts[1].Confidence != 0.8 {
		t.Errorf("default confidence = %f, want 0.8", prompts[1].Confidence)
	}
	if prompts[0].ConversationID != convID {
		t.Errorf("conversation id not carried through")
	}
	if prompts[0].Tone != "playful" {
		t.Errorf("tone = %q, want playful for friends", prompts[0].Tone)
	}
	if fake.gotReq.ResponseFormat == nil || fake.gotReq.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Error("request did not use JSON response format")
	}
}

func TestGenerate_TruncatesToRequestedCount(t *testing.T) {
	fake := &fakeCompleter{content: `{"prompts":[
		{"text":"a","type":"check_in"},
		{"text":"b","type":"check_in"},
		{"text":"c","type":"check_in"},
		{"text":"d","type":"check_in"}
	]}`}
	p := &Prompter{client: fake, logger: slog.Default()}

	prompts := p.Generate(context.Background(), uuid.New(), testConversation(), 2)
	if len(prompts) != 2 {
		t.Errorf("got %d prompts, want 2", len(prompts))
	}
}

func TestGenerate_FallbackOnModelError(t *testing.T) {
	fake := &fakeCompleter{err: fmt.Errorf("rate limited")}
	p := &Prompter{client: fake, logger: slog.Default()}

	prompts := p.Generate(context.Background(), uuid.New(), testConversation(), 3)
	if len(prompts) == 0 {
		t.Fatal("expected fallback prompts")
	}
	for _, prompt := range prompts {
		if prompt.Confidence != 0.6 {
			t.Errorf("fallback confidence = %f, want 0.6", prompt.Confidence)
		}
	}
}

func TestGenerate_FallbackOnMalformedJSON(t *testing.T) {
	fake := &fakeCompleter{content: "sorry, I can't do that"}
	p := &Prompter{client: fake, logger: slog.Default()}

	prompts := p.Generate(context.Background(), uuid.New(), testConversation(), 3)
	if len(prompts) == 0 {
		t.Fatal("expected fallback prompts")
	}
	if prompts[0].Confidence != 0.6 {
		t.Errorf("fallback confidence = %f, want 0.6", prompts[0].Confidence)
	}
}

func TestGenerate_NoClientUsesFallback(t *testing.T) {
	p := New("", "gpt-4o-mini", 500, 0.8, slog.Default())

	prompts := p.Generate(context.Background(), uuid.New(), testConversation(), 3)
	if len(prompts) != 3 {
		t.Fatalf("got %d prompts, want 3", len(prompts))
	}
	if !strings.Contains(prompts[0].Text, "Bob") {
		t.Errorf("fallback should address the partner: %q", prompts[0].Text)
	}
}

func TestFallback_TopicTemplateIncluded(t *testing.T) {
	p := New("", "gpt-4o-mini", 500, 0.8, slog.Default())

	prompts := p.fallback(uuid.New(), testConversation(), 4)
	if len(prompts) != 4 {
		t.Fatalf("got %d prompts, want 4", len(prompts))
	}
	last := prompts[len(prompts)-1]
	if last.Type != "follow_up" || !strings.Contains(last.Text, "climbing") {
		t.Errorf("expected topic follow-up, got %+v", last)
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(testConversation(), 10)

	for _, want := range []string{
		"Conversation with: Bob",
		"Days since last contact: 45",
		"Total messages: 10",
		"climbing, weekend",
		"Bob: the climbing trip was great",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("context missing %q:\n%s", want, got)
		}
	}
}

func TestBuildContext_TruncatesLongMessages(t *testing.T) {
	conv := testConversation()
	conv.Messages[0].Content = strings.Repeat("x", 500)

	got := BuildContext(conv, 10)
	if strings.Contains(got, strings.Repeat("x", 201)) {
		t.Error("message content not truncated")
	}
}

func TestBuildContext_TruncatesOnRuneBoundary(t *testing.T) {
	conv := testConversation()
	conv.Messages[0].Content = strings.Repeat("é", 500)

	got := BuildContext(conv, 10)
	if !utf8.ValidString(got) {
		t.Fatal("context contains invalid UTF-8 after truncation")
	}
	if strings.Contains(got, strings.Repeat("é", 201)) {
		t.Error("multibyte content not truncated")
	}
}

func TestPromptFocus(t *testing.T) {
	tests := []struct {
		status metrics.Status
		want   string
	}{
		{metrics.StatusWilted, "reconnection"},
		{metrics.StatusDormant, "check-in"},
		{metrics.StatusAttention, "maintaining"},
		{metrics.StatusHealthy, "continuing"},
	}

	for _, tt := range tests {
		if got := promptFocus(tt.status); !strings.Contains(got, tt.want) {
			t.Errorf("promptFocus(%s) = %q, want substring %q", tt.status, got, tt.want)
		}
	}
}
