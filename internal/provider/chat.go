package provider

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/coto-cli/coto/internal/logging"
	"github.com/coto-cli/coto/internal/resolve"
	"github.com/coto-cli/coto/pkg/types"
)

// ChatClient sends payloads through an Eino ChatModel using the chat
// completions API.
type ChatClient struct {
	chatModel model.BaseChatModel
	requestID string
}

// NewChatClient creates an OpenAI ChatModel for cfg.
func NewChatClient(ctx context.Context, cfg Config) (*ChatClient, error) {
	if cfg.Credential == "" {
		return nil, resolve.ErrMissingCredential
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  cfg.Credential,
		Model:   cfg.Model,
		BaseURL: cfg.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI model: %w", err)
	}

	return NewChatClientWithModel(chatModel, cfg.RequestID), nil
}

// NewChatClientWithModel wraps an existing ChatModel.
func NewChatClientWithModel(chatModel model.BaseChatModel, requestID string) *ChatClient {
	return &ChatClient{chatModel: chatModel, requestID: requestID}
}

// Send generates one reply. Eino has already unwrapped the completion, so
// the returned Reply carries only Text.
func (c *ChatClient) Send(ctx context.Context, payload *types.Payload) (*types.Reply, error) {
	messages := make([]*schema.Message, 0, len(payload.Input))
	for _, m := range payload.Input {
		switch m.Role {
		case types.RoleSystem:
			messages = append(messages, schema.SystemMessage(m.Content))
		case types.RoleUser:
			messages = append(messages, schema.UserMessage(m.Content))
		default:
			return nil, fmt.Errorf("unsupported message role %q", m.Role)
		}
	}

	logging.Debug().
		Str("model", payload.Model).
		Str("request_id", c.requestID).
		Int("messages", len(messages)).
		Msg("sending chat completion")

	msg, err := c.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	if msg == nil {
		return nil, &TransportError{Err: fmt.Errorf("empty chat completion")}
	}

	logging.Debug().
		Str("request_id", c.requestID).
		Int("bytes", len(msg.Content)).
		Msg("received chat completion")

	return &types.Reply{Text: msg.Content}, nil
}
