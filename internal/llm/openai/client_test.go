package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
)

func newTestServer(t *testing.T, status int, response string) (*httptest.Server, func() map[string]any) {
	t.Helper()
	var mu sync.Mutex
	var lastBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected authorization %q", got)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		lastBody = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server, func() map[string]any {
		mu.Lock()
		defer mu.Unlock()
		return lastBody
	}
}

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini", ""); err == nil {
		t.Fatalf("expected error without api key")
	}
	if _, err := NewClient("key", " ", ""); err == nil {
		t.Fatalf("expected error without model")
	}
}

func TestCompleteSendsRequestShape(t *testing.T) {
	server, lastBody := newTestServer(t, http.StatusOK,
		`{"model":"gpt-4o-mini","choices":[{"message":{"role":"assistant","content":"Dear team"}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`)

	client, err := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1/")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	out, err := client.Complete(context.Background(), llm.CompletionRequest{
		Messages:    []llm.Message{{Role: llm.RoleSystem, Content: "sys"}, {Role: llm.RoleUser, Content: "prompt"}},
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out.Text != "Dear team" {
		t.Fatalf("unexpected text %q", out.Text)
	}
	if out.Usage == nil || out.Usage.TotalTokens != 15 {
		t.Fatalf("unexpected usage %+v", out.Usage)
	}

	body := lastBody()
	if body["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model %v", body["model"])
	}
	if temp, ok := body["temperature"].(float64); !ok || temp < 0.69 || temp > 0.71 {
		t.Fatalf("unexpected temperature %v", body["temperature"])
	}
	if body["max_tokens"] != float64(1000) {
		t.Fatalf("unexpected max_tokens %v", body["max_tokens"])
	}
	if _, ok := body["response_format"]; ok {
		t.Fatalf("response_format must be omitted for plain text requests")
	}
	msgs, ok := body["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("unexpected messages %v", body["messages"])
	}
}

func TestCompleteRequestsJSONFormat(t *testing.T) {
	server, lastBody := newTestServer(t, http.StatusOK, `{"choices":[{"message":{"content":"{}"}}]}`)
	client, err := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if _, err := client.Complete(context.Background(), llm.CompletionRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "resume"}},
		JSON:     true,
	}); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	body := lastBody()
	if _, ok := body["max_tokens"]; ok {
		t.Fatalf("max_tokens must be omitted when zero")
	}
	rf, ok := body["response_format"].(map[string]any)
	if !ok || rf["type"] != "json_object" {
		t.Fatalf("unexpected response_format %v", body["response_format"])
	}
}

func TestCompleteNoChoices(t *testing.T) {
	server, _ := newTestServer(t, http.StatusOK, `{"choices":[]}`)
	client, _ := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1")

	_, err := client.Complete(context.Background(), llm.CompletionRequest{})
	if !errors.Is(err, llm.ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
}

func TestCompleteErrorPayload(t *testing.T) {
	server, _ := newTestServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	client, _ := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1")

	_, err := client.Complete(context.Background(), llm.CompletionRequest{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestCompleteNonJSONStatus(t *testing.T) {
	server, _ := newTestServer(t, http.StatusBadGateway, `upstream down`)
	client, _ := NewClient("test-key", "gpt-4o-mini", server.URL+"/v1")

	if _, err := client.Complete(context.Background(), llm.CompletionRequest{}); err == nil {
		t.Fatalf("expected error for non-JSON error body")
	}
}
