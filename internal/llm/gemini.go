package llm

import (
	"context"
	"fmt"
	"strconv"

	"zenith-planner/internal/config"
	"zenith-planner/internal/plan"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-2.5-flash"

// geminiClient is a client for the Google Gemini API, configured to return
// strictly the daily-plan JSON shape.
type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiClient creates a new Gemini API client. An unset API key is a
// hard precondition failure: no call must ever be attempted without one.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiModel)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = planSchema()

	return &geminiClient{client: client, model: model}, nil
}

// GenerateContent sends a prompt to the Gemini model and returns the
// generated JSON text plus token usage.
func (c *geminiClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return ContentResponse{}, fmt.Errorf("generated content is not text")
	}

	usage := TokenUsage{Model: geminiModel}
	if resp.UsageMetadata != nil {
		usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
	}

	return ContentResponse{Content: string(text), Usage: usage}, nil
}

// Close closes the underlying Gemini client.
func (c *geminiClient) Close() error {
	return c.client.Close()
}

// planSchema constrains the response to the daily-plan shape: an hourly
// schedule covering hours 6-24, 5-8 actionable todo items, and one note.
func planSchema() *genai.Schema {
	hours := make(map[string]*genai.Schema, plan.ScheduleEndHour-plan.ScheduleStartHour+1)
	for h := plan.ScheduleStartHour; h <= plan.ScheduleEndHour; h++ {
		hours[strconv.Itoa(h)] = &genai.Schema{Type: genai.TypeString}
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"schedule": {
				Type:        genai.TypeObject,
				Description: "A mapping of hour (integer 6-24) to activity description.",
				Properties:  hours,
			},
			"todos": {
				Type:        genai.TypeArray,
				Description: "A list of 5-8 actionable items to achieve the goal.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"notes": {
				Type:        genai.TypeString,
				Description: "A short motivational quote or strategy tip related to the goal.",
			},
		},
		Required: []string{"schedule", "todos", "notes"},
	}
}
