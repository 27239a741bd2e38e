package compat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Request is a single-prompt generation request.
type Request struct {
	Prompt          string
	Temperature     float32
	MaxOutputTokens int
}

// Generator is the generative text backend the external path talks to.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// DefaultDelay is the fixed latency applied before every analysis.
const DefaultDelay = 800 * time.Millisecond

// Options tunes a Scorer. Start from DefaultOptions.
type Options struct {
	// Delay is applied on both paths before any work is done.
	Delay time.Duration
	// Timeout bounds a single backend call.
	Timeout         time.Duration
	Temperature     float32
	MaxOutputTokens int
	// Concurrency bounds ScoreAll.
	Concurrency int
}

// DefaultOptions returns the production settings.
func DefaultOptions() Options {
	return Options{
		Delay:           DefaultDelay,
		Timeout:         10 * time.Second,
		Temperature:     0.4,
		MaxOutputTokens: 256,
		Concurrency:     4,
	}
}

// Scorer produces compatibility analyses. It holds no mutable state and is
// safe for concurrent use.
type Scorer struct {
	gen  Generator
	opts Options
}

// NewScorer creates a Scorer. A nil gen means no backend credential is
// configured and every call takes the fallback path.
func NewScorer(gen Generator, opts Options) *Scorer {
	def := DefaultOptions()
	if opts.Delay < 0 {
		opts.Delay = 0
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = def.MaxOutputTokens
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	return &Scorer{gen: gen, opts: opts}
}

// HasBackend reports whether the external path will be attempted.
func (s *Scorer) HasBackend() bool {
	return s.gen != nil
}

// Score returns the compatibility analysis for a and b. It always returns a
// well-formed Result: any backend failure, or cancellation of ctx during the
// delay, yields the deterministic fallback.
func (s *Scorer) Score(ctx context.Context, a, b Profile) Result {
	if err := s.wait(ctx); err != nil {
		slog.Debug("compatibility analysis cancelled during delay", "error", err)
		return Fallback(a, b)
	}

	r, err := s.tryExternal(ctx, a, b)
	if err != nil {
		logFallback(err)
		return Fallback(a, b)
	}
	return r
}

func (s *Scorer) wait(ctx context.Context) error {
	if s.opts.Delay == 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.opts.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// tryExternal asks the backend for an analysis. Every error it returns wraps
// one of the ErrBackend* sentinels.
func (s *Scorer) tryExternal(ctx context.Context, a, b Profile) (r Result, err error) {
	if s.gen == nil {
		return Result{}, ErrBackendUnavailable
	}

	defer func() {
		if p := recover(); p != nil {
			r, err = Result{}, fmt.Errorf("%w: backend panic: %v", ErrBackendRequestFailed, p)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	text, err := s.gen.Generate(ctx, Request{
		Prompt:          BuildPrompt(a, b),
		Temperature:     s.opts.Temperature,
		MaxOutputTokens: s.opts.MaxOutputTokens,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrBackendRequestFailed, err)
	}

	r, err = parseAnalysis(text)
	if err != nil {
		return Result{}, err
	}
	r.TrustLayer = trustLayerFor(pairSeed(a, b))
	r.Source = SourceExternal
	return r, nil
}

func logFallback(err error) {
	if errors.Is(err, ErrBackendUnavailable) {
		slog.Debug("no backend configured, using fallback analysis")
		return
	}
	slog.Warn("external analysis failed, using fallback", "error", err)
}
