package gateway

import (
	"context"
	"fmt"

	genai "google.golang.org/genai"
)

// GeminiClient generates code through the Gemini API. Selected when the
// configured backend is "gemini"; credentials come from the standard
// GEMINI_API_KEY / GOOGLE_API_KEY environment variables honored by the
// genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

// NewGeminiClient builds a client for the given model.
func NewGeminiClient(ctx context.Context, model string) (*GeminiClient, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Generate sends the prompt and returns the first candidate's text.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", classify(ctx, err)
	}
	if len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", classify(ctx, fmt.Errorf("gemini returned no candidates"))
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
