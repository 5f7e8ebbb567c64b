package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"
)

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one chat turn sent to a provider.
type Message struct {
	Role    string
	Content string
}

// CompletionRequest describes a single chat completion call.
type CompletionRequest struct {
	Messages    []Message
	Temperature float32
	// MaxTokens caps generated tokens; zero leaves the provider default.
	MaxTokens int
	// JSON asks the provider for a JSON object response when it supports it.
	JSON bool
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Completion is the first choice of a provider response.
type Completion struct {
	Text  string
	Model string
	Usage *Usage
}

// Client abstracts chat-completion providers.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

var (
	// ErrNoChoices is returned when the provider answered without any choice.
	ErrNoChoices = errors.New("llm response has no choices")
	// ErrEmptyContent is returned when the first choice has no text.
	ErrEmptyContent = errors.New("llm response has empty content")
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not configured")
)

// PlaceholderClient stands in when no provider is configured, so the
// service still boots in dev and reports generation failures cleanly.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return Completion{}, ErrNotImplemented
}

// WithTimeout bounds every call to c by d. A non-positive d returns c as is.
func WithTimeout(c Client, d time.Duration) Client {
	if d <= 0 {
		return c
	}
	return timeoutClient{next: c, d: d}
}

type timeoutClient struct {
	next Client
	d    time.Duration
}

func (t timeoutClient) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()
	return t.next.Complete(ctx, req)
}

// PromptHash returns a stable hash of the messages for log correlation
// without logging the prompt itself.
func PromptHash(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
