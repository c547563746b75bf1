package vertex

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/vertexai/genai"
	"github.com/google/uuid"

	"kycdocs/constants"
	"kycdocs/internal/llm"
)

// Config for the Vertex AI drafter.
type Config struct {
	ProjectID string
	Region    string
	Model     string // default "gemini-1.5-pro"
}

// Client is an alternate llm.FieldDrafter over Vertex AI Gemini. The model is
// pinned to JSON output and zero temperature so drafts stay reproducible.
type Client struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
	log        *slog.Logger
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Region == "" {
		return nil, fmt.Errorf("vertex: projectID and region cannot be empty")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-pro"
	}
	if logger == nil {
		logger = slog.Default()
	}

	baseClient, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	model := baseClient.GenerativeModel(cfg.Model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(llm.SystemPrompt)},
	}
	model.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Client{model: model, baseClient: baseClient, log: logger}, nil
}

func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

// Draft implements llm.FieldDrafter.
func (c *Client) Draft(ctx context.Context, kind constants.DocKind, sourceText string) ([]byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	resp, err := c.model.GenerateContent(ctx, genai.Text(llm.BuildUserPrompt(kind, sourceText)))
	if err != nil {
		c.log.Error("llm.draft.vertex_error",
			"req_id", rid, "kind", kind, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("vertex generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates in vertex response")
	}

	var content string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			content += string(text)
		}
	}
	if content == "" {
		return nil, fmt.Errorf("no text parts in vertex response")
	}

	c.log.Info("llm.draft.ok",
		"req_id", rid,
		"kind", kind,
		"content_len", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return []byte(content), nil
}
