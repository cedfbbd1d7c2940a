package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/coto-cli/coto/pkg/types"
)

// Client sends a payload and returns the service's reply.
type Client interface {
	Send(ctx context.Context, payload *types.Payload) (*types.Reply, error)
}

// Config holds what a backend needs to reach the service.
type Config struct {
	API        string
	Endpoint   string
	Model      string
	Credential string
	// RequestID is sent as X-Client-Request-Id. Generated when empty.
	RequestID string
	// HTTPClient defaults to http.DefaultClient.
	HTTPClient *http.Client
}

// New returns the backend for cfg.API.
func New(ctx context.Context, cfg Config) (Client, error) {
	if cfg.RequestID == "" {
		cfg.RequestID = NewRequestID()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}

	switch cfg.API {
	case types.APIResponses, "":
		return NewResponsesClient(cfg), nil
	case types.APIChat:
		return NewChatClient(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown api %q", cfg.API)
	}
}

// NewRequestID returns a new sortable invocation id.
func NewRequestID() string {
	return ulid.Make().String()
}

// Render returns the payload as indented JSON. It decodes to the same
// object that Send would transmit.
func Render(payload *types.Payload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return "", fmt.Errorf("failed to render payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
