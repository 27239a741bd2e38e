package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/wingru/internal/api"
	"github.com/kalambet/wingru/internal/backend"
	"github.com/kalambet/wingru/internal/compat"
	"github.com/kalambet/wingru/internal/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the compatibility HTTP API (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		port, _ := cmd.Flags().GetInt("port")
		return runServer(withMCP, port)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show wingru server and backend status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP tools on stdio")
	serveCmd.Flags().Int("port", 0, "listen port (overrides server.port)")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func setupLogging(level string) {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(level)})))
}

func parseDuration(key, value string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		slog.Warn("invalid duration, using default", "key", key, "value", value, "default", def, "error", err)
		return def
	}
	return d
}

// scorerOptions maps the scoring config section onto compat.Options. The
// configured delay may lengthen the pause but never shorten it below
// compat.DefaultDelay.
func scorerOptions(cfg config.Config) compat.Options {
	def := compat.DefaultOptions()
	delay := parseDuration("scoring.delay", cfg.Scoring.Delay, def.Delay)
	if delay < compat.DefaultDelay {
		slog.Warn("scoring.delay below minimum, using minimum", "value", cfg.Scoring.Delay, "minimum", compat.DefaultDelay)
		delay = compat.DefaultDelay
	}
	return compat.Options{
		Delay:           delay,
		Timeout:         parseDuration("scoring.timeout", cfg.Scoring.Timeout, def.Timeout),
		Temperature:     float32(cfg.Scoring.Temperature),
		MaxOutputTokens: cfg.Scoring.MaxOutputTokens,
		Concurrency:     cfg.Scoring.Concurrency,
	}
}

// newScorer builds a Scorer from cfg. A missing API key is not an error:
// the scorer then serves fallback analyses only.
func newScorer(ctx context.Context, cfg config.Config) (*compat.Scorer, error) {
	gen, err := backend.Detect(ctx, backend.DetectConfig{
		Provider:         cfg.Backend.Provider,
		Model:            cfg.Backend.Model,
		BaseURL:          cfg.Backend.BaseURL,
		GeminiAPIKey:     cfg.Backend.GeminiAPIKey,
		OpenRouterAPIKey: cfg.Backend.OpenRouterAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("detecting backend: %w", err)
	}

	return compat.NewScorer(gen, scorerOptions(cfg)), nil
}

func runServer(withMCP bool, port int) error {
	fmt.Fprintf(os.Stderr, "wingru version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if port > 0 {
		cfg.Server.Port = port
	}
	setupLogging(cfg.Log.Level)

	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		printWarning("wingru is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scorer, err := newScorer(ctx, cfg)
	if err != nil {
		return err
	}
	if scorer.HasBackend() {
		slog.Info("external analysis enabled", "provider", cfg.Backend.Provider, "model", cfg.Backend.Model)
	} else {
		slog.Info("no API key configured, serving fallback analyses only", "provider", cfg.Backend.Provider)
	}

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewHandler(scorer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{Analyzer: scorer, Version: version})
		stdioSrv := server.NewStdioServer(mcpSrv)
		go func() {
			if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
		}()
		slog.Info("MCP server started (stdio transport)")
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("wingru listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}
	printStatus("Server", "%s", serverState(ctx, client, cfg.Server.Port))

	printStatus("Provider", "%s", cfg.Backend.Provider)
	if cfg.Backend.Provider == backend.ProviderOllama {
		if backend.NewOllama(cfg.Backend.BaseURL, cfg.Backend.Model).IsRunning(ctx) {
			printStatus("Ollama", "running")
		} else {
			printStatus("Ollama", "not running (analyses will fall back)")
		}
	}
	if cfg.Backend.Model != "" {
		printStatus("Model", "%s", cfg.Backend.Model)
	}
	if cfg.HasCredential() {
		printStatus("Analyses", "external, with deterministic fallback")
	} else {
		printStatus("Analyses", "deterministic fallback only (no API key)")
	}
	printStatus("Delay", "%s", cfg.Scoring.Delay)
	return nil
}

func serverState(ctx context.Context, client *apiClient, port int) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := client.get(ctx, "/health")
	if err != nil {
		return "stopped"
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Sprintf("error (HTTP %d)", resp.StatusCode)
	}
	return fmt.Sprintf("running on port %d", port)
}
