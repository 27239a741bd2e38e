package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"
)

const (
	defaultOpenRouterURL   = "https://openrouter.ai/api/v1"
	defaultOpenRouterModel = "google/gemini-flash-1.5"
	defaultTimeout         = 30 * time.Second
	maxRetries             = 3
	initialBackoff         = 500 * time.Millisecond
)

// OpenRouter generates text through the OpenRouter chat completions API.
type OpenRouter struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	referer    string
	title      string
}

// NewOpenRouter creates an OpenRouter backend with the given API key. An
// empty model selects google/gemini-flash-1.5.
func NewOpenRouter(apiKey, model string) *OpenRouter {
	if model == "" {
		model = defaultOpenRouterModel
	}
	return &OpenRouter{
		apiKey:  apiKey,
		baseURL: defaultOpenRouterURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		referer: "https://github.com/kalambet/wingru",
		title:   "wingru",
	}
}

// NewOpenRouterWithBaseURL creates a client pointing at a custom base URL (for testing).
func NewOpenRouterWithBaseURL(apiKey, model, baseURL string) *OpenRouter {
	c := NewOpenRouter(apiKey, model)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Generate sends the prompt as a single user message and returns the first
// choice's content. HTTP 429 is retried with exponential backoff.
func (c *OpenRouter) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := range maxRetries {
		resp, err := c.doChat(ctx, body)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", errEmptyCandidates
			}
			return resp.Choices[0].Message.Content, nil
		}

		if !isRateLimit(err) {
			return "", err
		}

		lastErr = err
		if attempt < maxRetries-1 {
			backoff := time.Duration(float64(initialBackoff) * math.Pow(2, float64(attempt)))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return "", fmt.Errorf("rate limited after %d retries: %w", maxRetries, lastErr)
}

// rateLimitError is returned on HTTP 429.
type rateLimitError struct {
	status int
}

func (e *rateLimitError) Error() string {
	return fmt.Sprintf("rate limited (HTTP %d)", e.status)
}

func isRateLimit(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}

func (c *OpenRouter) doChat(ctx context.Context, body []byte) (*chatResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &rateLimitError{status: resp.StatusCode}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

func (c *OpenRouter) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", c.referer)
	req.Header.Set("X-Title", c.title)
}
