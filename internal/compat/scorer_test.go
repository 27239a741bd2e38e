package compat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGenerator is a test double for Generator.
type mockGenerator struct {
	reply string
	err   error
	panic bool
	delay time.Duration

	mu       sync.Mutex
	requests []Request
}

func (m *mockGenerator) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.panic {
		panic("boom")
	}
	if m.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(m.delay):
		}
	}
	return m.reply, m.err
}

func (m *mockGenerator) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.Delay = 0
	return opts
}

const goodReply = "```json\n{\"overall\":88,\"cognitive\":90,\"social\":86,\"values\":88,\"explanation\":\"Audrey and Kevin share a love of hiking.\"}\n```"

func TestScore_NoBackendUsesFallback(t *testing.T) {
	s := NewScorer(nil, fastOptions())
	assert.False(t, s.HasBackend())

	got := s.Score(context.Background(), p("Audrey"), p("Kevin"))
	if diff := cmp.Diff(Fallback(p("Audrey"), p("Kevin")), got); diff != "" {
		t.Errorf("Score without backend (-want +got):\n%s", diff)
	}
	assert.Equal(t, SourceFallback, got.Source)
}

func TestScore_ExternalSuccess(t *testing.T) {
	gen := &mockGenerator{reply: goodReply}
	s := NewScorer(gen, fastOptions())

	got := s.Score(context.Background(), p("Audrey"), p("Kevin"))

	want := Result{
		Overall:     88,
		Cognitive:   90,
		Social:      86,
		Values:      88,
		Explanation: "Audrey and Kevin share a love of hiking.",
		TrustLayer:  "Friend-validated compatibility signal reduces false-positive rate by 3.2×.",
		Source:      SourceExternal,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Score (-want +got):\n%s", diff)
	}
}

func TestScore_ExternalTrustLayerMatchesFallback(t *testing.T) {
	s := NewScorer(&mockGenerator{reply: goodReply}, fastOptions())
	for _, pair := range [][2]string{{"Alice", "Bob"}, {"Bob", "Alice"}, {"Priya", "Sam"}} {
		a, b := p(pair[0]), p(pair[1])
		assert.Equal(t, Fallback(a, b).TrustLayer, s.Score(context.Background(), a, b).TrustLayer)
	}
}

func TestScore_RequestParameters(t *testing.T) {
	gen := &mockGenerator{reply: goodReply}
	opts := fastOptions()
	opts.Temperature = 0.25
	opts.MaxOutputTokens = 128
	s := NewScorer(gen, opts)

	a := Profile{Name: "Audrey", Major: "Art", PersonalityAnswer: "Bold"}
	b := Profile{Name: "Kevin", Major: "Physics"}
	s.Score(context.Background(), a, b)

	require.Len(t, gen.requests, 1)
	req := gen.requests[0]
	assert.Equal(t, BuildPrompt(a, b), req.Prompt)
	assert.Equal(t, float32(0.25), req.Temperature)
	assert.Equal(t, 128, req.MaxOutputTokens)
}

func TestScore_BackendFailuresFallBack(t *testing.T) {
	tests := []struct {
		name    string
		gen     *mockGenerator
		wantErr error
	}{
		{"request error", &mockGenerator{err: errors.New("connection refused")}, ErrBackendRequestFailed},
		{"panic", &mockGenerator{panic: true}, ErrBackendRequestFailed},
		{"non-json", &mockGenerator{reply: "They seem lovely together."}, ErrBackendResponseMalformed},
		{"missing fields", &mockGenerator{reply: `{"overall":80}`}, ErrBackendResponseMalformed},
		{"empty", &mockGenerator{reply: ""}, ErrBackendResponseMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(tt.gen, fastOptions())

			_, err := s.tryExternal(context.Background(), p("Audrey"), p("Kevin"))
			assert.ErrorIs(t, err, tt.wantErr)

			got := s.Score(context.Background(), p("Audrey"), p("Kevin"))
			if diff := cmp.Diff(Fallback(p("Audrey"), p("Kevin")), got); diff != "" {
				t.Errorf("Score after %s (-want +got):\n%s", tt.name, diff)
			}
		})
	}
}

func TestTryExternal_Unavailable(t *testing.T) {
	s := NewScorer(nil, fastOptions())
	_, err := s.tryExternal(context.Background(), p("a"), p("b"))
	assert.ErrorIs(t, err, ErrBackendUnavailable)
}

func TestScore_BackendTimeoutFallsBack(t *testing.T) {
	gen := &mockGenerator{reply: goodReply, delay: time.Second}
	opts := fastOptions()
	opts.Timeout = 20 * time.Millisecond
	s := NewScorer(gen, opts)

	start := time.Now()
	got := s.Score(context.Background(), p("Audrey"), p("Kevin"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.Equal(t, SourceFallback, got.Source)
}

func TestScore_AppliesDelayOnBothPaths(t *testing.T) {
	const delay = 40 * time.Millisecond
	for _, gen := range []Generator{nil, &mockGenerator{reply: goodReply}} {
		opts := fastOptions()
		opts.Delay = delay
		s := NewScorer(gen, opts)

		start := time.Now()
		s.Score(context.Background(), p("Audrey"), p("Kevin"))
		if elapsed := time.Since(start); elapsed < delay {
			t.Errorf("Score returned after %v, want at least %v (backend=%v)", elapsed, delay, gen != nil)
		}
	}
}

func TestScore_CancelDuringDelay(t *testing.T) {
	gen := &mockGenerator{reply: goodReply}
	opts := fastOptions()
	opts.Delay = time.Minute
	s := NewScorer(gen, opts)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	got := s.Score(ctx, p("Audrey"), p("Kevin"))
	assert.Equal(t, SourceFallback, got.Source)
	assert.Equal(t, 0, gen.calls(), "backend must not be called after cancellation")
}

func TestNewScorer_Normalizes(t *testing.T) {
	s := NewScorer(nil, Options{Delay: -time.Second})
	def := DefaultOptions()
	assert.Equal(t, time.Duration(0), s.opts.Delay)
	assert.Equal(t, def.Timeout, s.opts.Timeout)
	assert.Equal(t, def.MaxOutputTokens, s.opts.MaxOutputTokens)
	assert.Equal(t, def.Concurrency, s.opts.Concurrency)
}
