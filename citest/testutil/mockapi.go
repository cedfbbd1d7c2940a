// Package testutil provides helpers for the coto end-to-end suites.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
)

// MockAPI is an HTTP server that mimics the OpenAI responses and chat
// completions endpoints under /v1.
type MockAPI struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []MockRequest
	text     string
	status   int
	body     string
}

// MockRequest records an incoming request for verification.
type MockRequest struct {
	Timestamp time.Time
	Method    string
	Path      string
	Header    http.Header
	Body      map[string]any
}

// NewMockAPI starts a mock server that answers with {"code": "print(1)"}.
func NewMockAPI() *MockAPI {
	m := &MockAPI{}
	m.ReplyWithCode("print(1)")

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Use(m.record)
		r.Use(requireBearer)
		r.Post("/responses", m.handleResponses)
		r.Post("/chat/completions", m.handleChatCompletions)
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy"}`))
	})

	m.server = httptest.NewServer(r)
	return m
}

// URL returns the API base URL, suitable for --endpoint.
func (m *MockAPI) URL() string {
	return m.server.URL + "/v1"
}

// Close shuts down the server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// ReplyWithCode makes the model answer with a schema-conforming object.
func (m *MockAPI) ReplyWithCode(code string) {
	data, _ := json.Marshal(map[string]string{"code": code})
	m.ReplyWithText(string(data))
}

// ReplyWithText makes the model answer with arbitrary text.
func (m *MockAPI) ReplyWithText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text, m.status, m.body = text, 0, ""
}

// ReplyWithStatus makes the server fail with status and body.
func (m *MockAPI) ReplyWithStatus(status int, body string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status, m.body = status, body
}

// Requests returns all recorded requests.
func (m *MockAPI) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockRequest(nil), m.requests...)
}

// Reset clears recorded requests and restores the default reply.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	m.requests = nil
	m.mu.Unlock()
	m.ReplyWithCode("print(1)")
}

func (m *MockAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "failed to read body", http.StatusBadRequest)
			return
		}
		r.Body.Close()

		var body map[string]any
		if err := json.Unmarshal(data, &body); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		m.mu.Lock()
		m.requests = append(m.requests, MockRequest{
			Timestamp: time.Now(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Header:    r.Header.Clone(),
			Body:      body,
		})
		m.mu.Unlock()

		r.Body = io.NopCloser(strings.NewReader(string(data)))
		next.ServeHTTP(w, r)
	})
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": map[string]any{"message": "missing bearer token", "type": "invalid_request_error"},
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *MockAPI) reply() (string, int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.status, m.body
}

func (m *MockAPI) handleResponses(w http.ResponseWriter, r *http.Request) {
	text, status, body := m.reply()
	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
		return
	}

	var req struct {
		Model string `json:"model"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":         fmt.Sprintf("resp_%d", time.Now().UnixNano()),
		"object":     "response",
		"created_at": time.Now().Unix(),
		"status":     "completed",
		"model":      req.Model,
		"output": []any{
			map[string]any{"id": "rs_1", "type": "reasoning", "summary": []any{}},
			map[string]any{
				"id":     "msg_1",
				"type":   "message",
				"status": "completed",
				"role":   "assistant",
				"content": []any{
					map[string]any{"type": "output_text", "text": text, "annotations": []any{}},
				},
			},
		},
	})
}

func (m *MockAPI) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	text, status, body := m.reply()
	if status != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
		return
	}

	var req struct {
		Model string `json:"model"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      fmt.Sprintf("chatcmpl-%d", time.Now().UnixNano()),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []any{
			map[string]any{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": text},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// SystemMessage returns the content of the first system message in a recorded request.
func (r MockRequest) SystemMessage() string {
	return r.message("system")
}

// UserMessage returns the content of the first user message in a recorded request.
func (r MockRequest) UserMessage() string {
	return r.message("user")
}

func (r MockRequest) message(role string) string {
	key := "input"
	if _, ok := r.Body["messages"]; ok {
		key = "messages"
	}
	items, _ := r.Body[key].([]any)
	for _, item := range items {
		msg, _ := item.(map[string]any)
		if msg["role"] == role {
			content, _ := msg["content"].(string)
			return content
		}
	}
	return ""
}
