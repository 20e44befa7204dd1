package prompter

import "github.com/hearthline/rekindle/internal/metrics"

const systemPrompt = `You are a helpful assistant that generates natural, context-aware conversation prompts to help people stay connected with their friends and family.

Your prompts must:
1. Be based on the actual conversation history
2. Feel authentic and personal, not generic
3. Match a %s tone
4. Focus on %s
5. Reference specific topics or events mentioned
6. Be short (1-2 sentences)

Respond with valid JSON matching this schema:
{
  "prompts": [
    {
      "text": "the actual prompt text",
      "type": "follow_up|check_in|reconnect",
      "context": "brief explanation of what this prompt references",
      "confidence": 0.0-1.0
    }
  ]
}

Return ONLY the JSON object, no markdown fences or other text.`

const userPrompt = `Based on this conversation with %s, generate %d conversation prompts:

%s

Generate prompts that would help naturally continue or restart this conversation.`

// promptFocus keys the system prompt on relationship health.
func promptFocus(status metrics.Status) string {
	switch status {
	case metrics.StatusWilted:
		return "reconnection and showing genuine care"
	case metrics.StatusDormant:
		return "gentle check-in and re-engagement"
	case metrics.StatusAttention:
		return "maintaining connection and showing interest"
	default:
		return "continuing the conversation naturally"
	}
}
