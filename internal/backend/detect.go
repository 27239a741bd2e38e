package backend

import (
	"context"
	"fmt"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
)

// DetectConfig holds parameters for backend selection.
type DetectConfig struct {
	Provider         string
	Model            string
	BaseURL          string
	GeminiAPIKey     string
	OpenRouterAPIKey string
}

// Detect returns the Generator for the configured provider, or nil when that
// provider has no API key. A nil Generator is a valid result: callers score
// with the deterministic fallback. Ollama needs no key and is returned
// whenever it is selected.
func Detect(ctx context.Context, cfg DetectConfig) (Generator, error) {
	switch cfg.Provider {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return nil, nil
		}
		g, err := NewGeminiWithBaseURL(ctx, cfg.GeminiAPIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return g, nil
	case ProviderOpenRouter:
		if cfg.OpenRouterAPIKey == "" {
			return nil, nil
		}
		if cfg.BaseURL != "" {
			return NewOpenRouterWithBaseURL(cfg.OpenRouterAPIKey, cfg.Model, cfg.BaseURL), nil
		}
		return NewOpenRouter(cfg.OpenRouterAPIKey, cfg.Model), nil
	case ProviderOllama:
		return NewOllama(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown backend provider %q (want %q, %q or %q)", cfg.Provider, ProviderGemini, ProviderOpenRouter, ProviderOllama)
	}
}
