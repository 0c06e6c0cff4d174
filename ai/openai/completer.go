package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/poiesic/counselbase/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Completer implements ai.Completer using OpenAI-compatible chat APIs.
type Completer struct {
	client  llms.Model
	timeout time.Duration
	logger  *slog.Logger
}

// newCompleter is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newCompleter(config *ai.Config) (*Completer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	token := config.APIKey
	if token == "" {
		token = "none"
	}
	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(token),
		openai.WithModel(config.CompletionModel),
	)
	if err != nil {
		return nil, err
	}

	return &Completer{
		client:  client,
		timeout: config.Timeout,
		logger:  slog.Default().With("component", "openai-completer"),
	}, nil
}

// NewCompleter creates a new chat completer using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCompleter(config *ai.Config) (ai.Completer, error) {
	return newCompleter(config)
}

// Complete returns the model's reply to the given messages.
// The call is bounded by the configured timeout and not retried.
// Temperature is pinned to zero for reproducible assistant replies.
func (c *Completer) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, message := range messages {
		role, err := chatMessageType(message.Role)
		if err != nil {
			return "", err
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(message.Content)},
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.client.GenerateContent(ctx, content, llms.WithTemperature(0.0))
	if err != nil {
		c.logger.Error("failed to generate completion", "err", err)
		return "", err
	}

	if len(response.Choices) < 1 {
		c.logger.Debug("no choices returned from model")
		return "", nil
	}

	return response.Choices[0].Content, nil
}

// chatMessageType maps an ai role to the langchaingo message type.
func chatMessageType(role string) (llms.ChatMessageType, error) {
	switch role {
	case ai.RoleSystem:
		return llms.ChatMessageTypeSystem, nil
	case ai.RoleUser:
		return llms.ChatMessageTypeHuman, nil
	case ai.RoleAssistant:
		return llms.ChatMessageTypeAI, nil
	default:
		return "", fmt.Errorf("unknown chat role %q", role)
	}
}
