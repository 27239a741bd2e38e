package backend

import (
	"context"

	"github.com/kalambet/wingru/internal/compat"
)

// Request is the scoring core's generation request; every provider in this
// package satisfies compat.Generator.
type Request = compat.Request

// Generator abstracts a generative text backend (Gemini, OpenRouter, a local
// Ollama, or any OpenAI-compatible server). Generate returns the raw text of the first
// candidate; interpreting it is the caller's job.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// chatMessage is an OpenAI-compatible chat message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest is the non-streaming chat completion request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// chatResponse keeps only the fields Generate reads.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
