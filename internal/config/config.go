package config

import (
	"strings"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Scoring ScoringConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port int
}

// BackendConfig selects the generative text backend. An empty API key for
// the selected provider is valid and means every analysis uses the
// deterministic fallback.
type BackendConfig struct {
	Provider         string
	Model            string
	BaseURL          string
	GeminiAPIKey     string
	OpenRouterAPIKey string
}

type ScoringConfig struct {
	Delay           string
	Timeout         string
	Temperature     float64
	MaxOutputTokens int
	Concurrency     int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4100,
		},
		Backend: BackendConfig{
			Provider: "gemini",
		},
		Scoring: ScoringConfig{
			Delay:           "800ms",
			Timeout:         "10s",
			Temperature:     0.4,
			MaxOutputTokens: 256,
			Concurrency:     4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// HasCredential reports whether the selected provider has an API key. A
// local ollama provider needs none.
func (c Config) HasCredential() bool {
	switch strings.ToLower(c.Backend.Provider) {
	case "ollama":
		return true
	case "openrouter":
		return c.Backend.OpenRouterAPIKey != ""
	default:
		return c.Backend.GeminiAPIKey != ""
	}
}

// Load reads configuration from the JSON config file, environment
// variables, and the secrets file.
//
// The config file lives at $XDG_CONFIG_HOME/wingru/config.json and secrets
// at $XDG_DATA_HOME/wingru/secrets.json. Environment variables (WINGRU_*)
// override file values. A missing API key is not an error.
func Load() (Config, error) {
	return loadWith(newPlatformBackend(), secretsReader{})
}

// secretStore abstracts secret lookup for testing.
type secretStore interface {
	Get(service, account string) (string, error)
}

func loadWith(b ConfigBackend, sec secretStore) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	// Try the secrets file for API keys still empty.
	if cfg.Backend.GeminiAPIKey == "" {
		if key, err := sec.Get("wingru", "gemini_api_key"); err == nil && key != "" {
			cfg.Backend.GeminiAPIKey = key
		}
	}
	if cfg.Backend.OpenRouterAPIKey == "" {
		if key, err := sec.Get("wingru", "openrouter_api_key"); err == nil && key != "" {
			cfg.Backend.OpenRouterAPIKey = key
		}
	}

	cfg.Backend.Provider = strings.ToLower(strings.TrimSpace(cfg.Backend.Provider))
	return cfg, nil
}

// secretsReader reads from the secrets file.
type secretsReader struct{}

func (secretsReader) Get(service, account string) (string, error) {
	out, err := secretGet(service, account)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
