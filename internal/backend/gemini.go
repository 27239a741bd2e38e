package backend

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// errEmptyCandidates is returned when the backend answered without any text,
// e.g. because the prompt was blocked.
var errEmptyCandidates = errors.New("response has no candidates")

// Gemini generates text with the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini backend. An empty model selects gemini-1.5-flash.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	return NewGeminiWithBaseURL(ctx, apiKey, model, "")
}

// NewGeminiWithBaseURL creates a Gemini backend pointing at a custom base URL
// (for testing). An empty baseURL keeps the SDK default.
func NewGeminiWithBaseURL(ctx context.Context, apiKey, model, baseURL string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends the prompt as a single user turn and returns the text of
// the first candidate's first part.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(req.Temperature),
		MaxOutputTokens: int32(req.MaxOutputTokens),
	}

	res, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), config)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errEmptyCandidates
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}
