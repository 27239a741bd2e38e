package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
	kFloat
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "WINGRU_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "backend.provider", typ: kString, env: "WINGRU_BACKEND_PROVIDER",
		apply:   func(cfg *Config, v any) { cfg.Backend.Provider = v.(string) },
		extract: func(cfg Config) any { return cfg.Backend.Provider },
	},
	{
		key: "backend.model", typ: kString, env: "WINGRU_BACKEND_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Backend.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Backend.Model },
	},
	{
		key: "backend.base_url", typ: kString, env: "WINGRU_BACKEND_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Backend.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Backend.BaseURL },
	},
	{
		key: "backend.gemini_api_key", typ: kString, env: "WINGRU_GEMINI_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Backend.GeminiAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Backend.GeminiAPIKey },
	},
	{
		key: "backend.openrouter_api_key", typ: kString, env: "WINGRU_OPENROUTER_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Backend.OpenRouterAPIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Backend.OpenRouterAPIKey },
	},
	{
		key: "scoring.delay", typ: kString, env: "WINGRU_SCORING_DELAY",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Delay = v.(string) },
		extract: func(cfg Config) any { return cfg.Scoring.Delay },
	},
	{
		key: "scoring.timeout", typ: kString, env: "WINGRU_SCORING_TIMEOUT",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Timeout = v.(string) },
		extract: func(cfg Config) any { return cfg.Scoring.Timeout },
	},
	{
		key: "scoring.temperature", typ: kFloat, env: "WINGRU_SCORING_TEMPERATURE",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Temperature = v.(float64) },
		extract: func(cfg Config) any { return cfg.Scoring.Temperature },
	},
	{
		key: "scoring.max_output_tokens", typ: kInt, env: "WINGRU_SCORING_MAX_OUTPUT_TOKENS",
		apply:   func(cfg *Config, v any) { cfg.Scoring.MaxOutputTokens = v.(int) },
		extract: func(cfg Config) any { return cfg.Scoring.MaxOutputTokens },
	},
	{
		key: "scoring.concurrency", typ: kInt, env: "WINGRU_SCORING_CONCURRENCY",
		apply:   func(cfg *Config, v any) { cfg.Scoring.Concurrency = v.(int) },
		extract: func(cfg Config) any { return cfg.Scoring.Concurrency },
	},
	{
		key: "log.level", typ: kString, env: "WINGRU_LOG_LEVEL",
		apply:   func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
		extract: func(cfg Config) any { return cfg.Log.Level },
	},
}

func applyBackend(cfg *Config, b ConfigBackend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kFloat:
			v, ok, err := b.GetFloat(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		case kFloat:
			if f, err := strconv.ParseFloat(raw, 64); err == nil {
				s.apply(cfg, f)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse float from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
