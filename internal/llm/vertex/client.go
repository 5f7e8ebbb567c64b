package vertex

import (
	"context"
	"errors"
	"strings"

	vertexgenai "cloud.google.com/go/vertexai/genai"

	"github.com/Nirnoy12/covercraft-ai-tools/internal/llm"
	"github.com/Nirnoy12/covercraft-ai-tools/internal/shared/telemetry"
)

// Client implements llm.Client with Gemini on Vertex AI.
type Client struct {
	client *vertexgenai.Client
	model  string
}

// NewClient opens a Vertex AI client using application default credentials.
func NewClient(ctx context.Context, projectID, location, model string) (*Client, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, errors.New("VERTEX_PROJECT is required for vertex")
	}
	if strings.TrimSpace(location) == "" {
		location = "us-central1"
	}
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash"
	}
	c, err := vertexgenai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, err
	}
	return &Client{client: c, model: model}, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Complete maps system messages to the system instruction and concatenates
// the remaining turns into one prompt.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	gm := c.client.GenerativeModel(c.model)
	configureModel(gm, req)

	system, prompt := splitMessages(req.Messages)
	if system != "" {
		gm.SystemInstruction = &vertexgenai.Content{Parts: []vertexgenai.Part{vertexgenai.Text(system)}}
	}

	resp, err := gm.GenerateContent(ctx, vertexgenai.Text(prompt))
	if err != nil {
		return llm.Completion{}, err
	}
	out, err := completionFromResponse(resp, c.model)
	if err != nil {
		return llm.Completion{}, err
	}
	fields := map[string]any{"model": out.Model, "prompt_hash": llm.PromptHash(req.Messages), "provider": "vertex"}
	if out.Usage != nil {
		fields["total_tokens"] = out.Usage.TotalTokens
	}
	telemetry.Info("llm.response", fields)
	return out, nil
}

func configureModel(gm *vertexgenai.GenerativeModel, req llm.CompletionRequest) {
	gm.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		gm.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if req.JSON {
		gm.ResponseMIMEType = "application/json"
	}
}

func splitMessages(messages []llm.Message) (string, string) {
	var system, prompt []string
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		prompt = append(prompt, m.Content)
	}
	return strings.Join(system, "\n\n"), strings.Join(prompt, "\n\n")
}

func completionFromResponse(resp *vertexgenai.GenerateContentResponse, model string) (llm.Completion, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return llm.Completion{}, llm.ErrNoChoices
	}
	cand := resp.Candidates[0]
	var b strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if t, ok := part.(vertexgenai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return llm.Completion{}, llm.ErrEmptyContent
	}
	out := llm.Completion{Text: text, Model: model}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = &llm.Usage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	return out, nil
}

var _ llm.Client = (*Client)(nil)
