// ABOUTME: AI tutor chat client
// ABOUTME: Wraps chat completions with a running conversation history
package tutor

import (
	"context"
	"fmt"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const systemPrompt = "You are a friendly study tutor for a student community. " +
	"Explain concepts step by step, keep answers concise, and encourage the " +
	"student to work through problems rather than handing over final answers."

// Tutor holds one chat session with the AI tutor. Not safe for
// concurrent Ask calls; the app serializes them.
type Tutor struct {
	client  oai.Client
	model   string
	history []oai.ChatCompletionMessageParamUnion
}

// Option configures a Tutor.
type Option func(*Tutor)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(url string) Option {
	return func(t *Tutor) {
		t.client = oai.NewClient(option.WithBaseURL(url), option.WithAPIKey("test"))
	}
}

// New creates a tutor session.
func New(apiKey, model string, opts ...Option) (*Tutor, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tutor: apiKey must not be empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	t := &Tutor{
		client: oai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
	for _, o := range opts {
		o(t)
	}
	return t, nil
}

// Ask sends a question and returns the tutor's reply. On failure the
// question is not recorded, so it can simply be asked again.
func (t *Tutor) Ask(ctx context.Context, question string) (string, error) {
	messages := []oai.ChatCompletionMessageParamUnion{oai.SystemMessage(systemPrompt)}
	messages = append(messages, t.history...)
	messages = append(messages, oai.UserMessage(question))

	resp, err := t.client.Chat.Completions.New(ctx, oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(t.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("tutor request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("tutor returned no choices")
	}

	answer := resp.Choices[0].Message.Content
	t.history = append(t.history, oai.UserMessage(question), oai.AssistantMessage(answer))
	return answer, nil
}

// Reset clears the conversation history.
func (t *Tutor) Reset() {
	t.history = nil
}

// Turns returns the number of recorded history messages.
func (t *Tutor) Turns() int {
	return len(t.history)
}
