package backend

import (
	"context"
	"testing"
)

func TestDetect_NoKeyReturnsNil(t *testing.T) {
	for _, provider := range []string{"", ProviderGemini, ProviderOpenRouter} {
		g, err := Detect(context.Background(), DetectConfig{Provider: provider})
		if err != nil {
			t.Fatalf("Detect(%q): %v", provider, err)
		}
		if g != nil {
			t.Errorf("Detect(%q) = %T, want nil", provider, g)
		}
	}
}

func TestDetect_Gemini(t *testing.T) {
	g, err := Detect(context.Background(), DetectConfig{Provider: ProviderGemini, GeminiAPIKey: "k"})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if _, ok := g.(*Gemini); !ok {
		t.Errorf("Detect = %T, want *Gemini", g)
	}
}

func TestDetect_OpenRouter(t *testing.T) {
	g, err := Detect(context.Background(), DetectConfig{
		Provider:         ProviderOpenRouter,
		OpenRouterAPIKey: "k",
		BaseURL:          "http://localhost:9999/",
	})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	or, ok := g.(*OpenRouter)
	if !ok {
		t.Fatalf("Detect = %T, want *OpenRouter", g)
	}
	if or.baseURL != "http://localhost:9999" {
		t.Errorf("baseURL = %q, want trailing slash trimmed", or.baseURL)
	}
}

func TestDetect_KeyForOtherProviderIgnored(t *testing.T) {
	g, err := Detect(context.Background(), DetectConfig{Provider: ProviderOpenRouter, GeminiAPIKey: "k"})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if g != nil {
		t.Errorf("Detect = %T, want nil", g)
	}
}

func TestDetect_OllamaNeedsNoKey(t *testing.T) {
	g, err := Detect(context.Background(), DetectConfig{Provider: ProviderOllama, Model: "qwen2.5"})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	o, ok := g.(*Ollama)
	if !ok {
		t.Fatalf("Detect = %T, want *Ollama", g)
	}
	if o.baseURL != defaultOllamaBaseURL || o.model != "qwen2.5" {
		t.Errorf("ollama = %s/%s", o.baseURL, o.model)
	}
}

func TestDetect_UnknownProvider(t *testing.T) {
	if _, err := Detect(context.Background(), DetectConfig{Provider: "mlx", GeminiAPIKey: "k"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}
