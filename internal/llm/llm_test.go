package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type deadlineProbe struct {
	hadDeadline bool
}

func (d *deadlineProbe) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	_, d.hadDeadline = ctx.Deadline()
	return Completion{Text: "ok"}, nil
}

func TestWithTimeout(t *testing.T) {
	probe := &deadlineProbe{}
	if _, err := WithTimeout(probe, 0).Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if probe.hadDeadline {
		t.Fatalf("expected no deadline when timeout is zero")
	}

	if _, err := WithTimeout(probe, time.Minute).Complete(context.Background(), CompletionRequest{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !probe.hadDeadline {
		t.Fatalf("expected deadline when timeout is set")
	}
}

func TestPlaceholderClient(t *testing.T) {
	_, err := PlaceholderClient{}.Complete(context.Background(), CompletionRequest{})
	if !errors.Is(err, ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestPromptHashDeterministic(t *testing.T) {
	messages := []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "job description"}}
	if PromptHash(messages) != PromptHash(messages) {
		t.Fatalf("expected deterministic prompt hash")
	}
	alt := []Message{{Role: RoleSystem, Content: "sys"}, {Role: RoleUser, Content: "different job"}}
	if PromptHash(messages) == PromptHash(alt) {
		t.Fatalf("expected prompt hash to change when input changes")
	}
}
