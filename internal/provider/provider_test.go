package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coto-cli/coto/internal/resolve"
	"github.com/coto-cli/coto/pkg/types"
)

func testPayload() *types.Payload {
	return &types.Payload{
		Model: "o4-mini",
		Input: []types.Message{
			{Role: types.RoleSystem, Content: "sys"},
			{Role: types.RoleUser, Content: "list s3 buckets"},
		},
	}
}

func TestResponsesClientSend(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		gotPath = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":[]}`))
	}))
	defer srv.Close()

	client := NewResponsesClient(Config{
		Endpoint:   srv.URL + "/v1",
		Credential: "sk-test",
		RequestID:  "req-1",
	})

	reply, err := client.Send(context.Background(), testPayload())
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":[]}`, string(reply.Envelope))

	assert.Equal(t, "/v1/responses", gotPath)
	assert.Equal(t, "Bearer sk-test", gotHeader.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "req-1", gotHeader.Get("X-Client-Request-Id"))

	assert.Equal(t, "o4-mini", gotBody["model"])
	input, ok := gotBody["input"].([]any)
	require.True(t, ok)
	require.Len(t, input, 2)
	assert.Equal(t, map[string]any{"role": "system", "content": "sys"}, input[0])
	assert.Equal(t, map[string]any{"role": "user", "content": "list s3 buckets"}, input[1])
}

func TestResponsesClientNonSuccessStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	}))
	defer srv.Close()

	client := NewResponsesClient(Config{Endpoint: srv.URL, Credential: "bad"})
	_, err := client.Send(context.Background(), testPayload())
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.StatusCode)
	assert.Contains(t, string(te.Body), "Incorrect API key")
	assert.Contains(t, err.Error(), "401 Unauthorized")
	assert.Equal(t, types.KindTransport, types.KindOf(err))
	assert.Equal(t, 1, calls, "no retry")
}

func TestResponsesClientConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewResponsesClient(Config{Endpoint: url, Credential: "k"}).Send(context.Background(), testPayload())
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.StatusCode)
	assert.Error(t, te.Err)
}

func TestResponsesClientContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewResponsesClient(Config{Endpoint: srv.URL, Credential: "k"}).Send(ctx, testPayload())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, types.KindTransport, types.KindOf(err))
}

func TestResponsesClientOversizedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), maxReplyBytes+1))
	}))
	defer srv.Close()

	_, err := NewResponsesClient(Config{Endpoint: srv.URL, Credential: "k"}).Send(context.Background(), testPayload())
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Contains(t, err.Error(), "reply exceeds")
	assert.Equal(t, types.KindTransport, types.KindOf(err))
}

func TestNewChatClientRequiresCredential(t *testing.T) {
	_, err := NewChatClient(context.Background(), Config{API: types.APIChat, Endpoint: "http://x", Model: "m"})
	assert.ErrorIs(t, err, resolve.ErrMissingCredential)
	assert.Equal(t, types.KindConfiguration, types.KindOf(err))
}

func TestTransportErrorTruncatesBody(t *testing.T) {
	body := make([]byte, 4*maxErrorBody)
	for i := range body {
		body[i] = 'x'
	}
	err := &TransportError{StatusCode: 500, Body: body}
	assert.Less(t, len(err.Error()), 2*maxErrorBody)
	assert.Len(t, err.Body, 4*maxErrorBody)
}

func TestRenderRoundTrip(t *testing.T) {
	payload := testPayload()

	out, err := Render(payload)
	require.NoError(t, err)
	assert.Contains(t, out, "\n  \"model\": \"o4-mini\"")

	var back types.Payload
	require.NoError(t, json.Unmarshal([]byte(out), &back))
	assert.Equal(t, *payload, back)
}

func TestNewSelectsBackend(t *testing.T) {
	c, err := New(context.Background(), Config{API: types.APIResponses, Endpoint: "http://x", Credential: "k"})
	require.NoError(t, err)
	rc, ok := c.(*ResponsesClient)
	require.True(t, ok)
	assert.NotEmpty(t, rc.requestID)

	_, err = New(context.Background(), Config{API: "soap"})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{API: types.APIChat})
	assert.Error(t, err, "chat backend needs a credential")
}

func TestNewRequestIDUnique(t *testing.T) {
	assert.NotEqual(t, NewRequestID(), NewRequestID())
	assert.Len(t, NewRequestID(), 26)
}

type fakeChatModel struct {
	got   []*schema.Message
	reply *schema.Message
	err   error
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.got = input
	return f.reply, f.err
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func TestChatClientSend(t *testing.T) {
	fake := &fakeChatModel{reply: schema.AssistantMessage(`{"code":"print(1)"}`, nil)}
	client := NewChatClientWithModel(fake, "req-1")

	reply, err := client.Send(context.Background(), testPayload())
	require.NoError(t, err)
	assert.Nil(t, reply.Envelope)
	assert.Equal(t, `{"code":"print(1)"}`, reply.Text)

	require.Len(t, fake.got, 2)
	assert.Equal(t, schema.System, fake.got[0].Role)
	assert.Equal(t, "sys", fake.got[0].Content)
	assert.Equal(t, schema.User, fake.got[1].Role)
	assert.Equal(t, "list s3 buckets", fake.got[1].Content)
}

func TestChatClientError(t *testing.T) {
	client := NewChatClientWithModel(&fakeChatModel{err: errors.New("boom")}, "")

	_, err := client.Send(context.Background(), testPayload())
	require.Error(t, err)
	assert.Equal(t, types.KindTransport, types.KindOf(err))
	assert.Contains(t, err.Error(), "boom")
}
