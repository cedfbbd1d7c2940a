package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/coto-cli/coto/internal/logging"
	"github.com/coto-cli/coto/pkg/types"
)

// maxReplyBytes caps how much of a reply body is read.
const maxReplyBytes = 8 << 20

// ResponsesClient posts payloads to the OpenAI responses API.
type ResponsesClient struct {
	url        string
	credential string
	requestID  string
	client     *http.Client
}

// NewResponsesClient creates a client for cfg.Endpoint + "/responses".
func NewResponsesClient(cfg Config) *ResponsesClient {
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	return &ResponsesClient{
		url:        cfg.Endpoint + "/responses",
		credential: cfg.Credential,
		requestID:  cfg.RequestID,
		client:     client,
	}
}

// Send issues one POST and returns the raw envelope on a 2xx status.
func (c *ResponsesClient) Send(ctx context.Context, payload *types.Payload) (*types.Reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.credential)
	if c.requestID != "" {
		req.Header.Set("X-Client-Request-Id", c.requestID)
	}

	logging.Debug().
		Str("url", c.url).
		Str("model", payload.Model).
		Str("request_id", c.requestID).
		Int("bytes", len(body)).
		Msg("sending generation request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes+1))
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("failed to read response: %w", err)}
	}
	if len(data) > maxReplyBytes {
		return nil, &TransportError{Err: fmt.Errorf("reply exceeds %d bytes", maxReplyBytes)}
	}

	logging.Debug().
		Int("status", resp.StatusCode).
		Int("bytes", len(data)).
		Str("request_id", c.requestID).
		Msg("received generation response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Body: data}
	}

	return &types.Reply{Envelope: data}, nil
}
