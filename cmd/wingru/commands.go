package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/wingru/internal/api"
	"github.com/kalambet/wingru/internal/compat"
	"github.com/kalambet/wingru/internal/config"
)

// newLocalScorer builds an in-process scorer from the user's config.
var newLocalScorer = func(ctx context.Context) (api.Analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Log.Level)
	return newScorer(ctx, cfg)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", formatText, "output format: text, json or yaml")
	cmd.Flags().Bool("remote", false, "ask a running `wingru serve` instead of scoring in-process")
}

func outputFlags(cmd *cobra.Command) (format string, remote bool) {
	format, _ = cmd.Flags().GetString("format")
	remote, _ = cmd.Flags().GetBool("remote")
	return format, remote
}

func profilesFromArgs(args []string) ([]compat.Profile, error) {
	out := make([]compat.Profile, len(args))
	for i, a := range args {
		if strings.TrimSpace(a) == "" {
			return nil, fmt.Errorf("argument %d: name must not be empty", i+1)
		}
		out[i] = compat.Profile{Name: a}
	}
	return out, nil
}

// --- score ---

var scoreCmd = &cobra.Command{
	Use:   "score <name-a> <name-b>",
	Short: "Full compatibility analysis for two people",
	Long: `Full compatibility analysis for two people.

Examples:
  wingru score Audrey Kevin
  wingru score Audrey Kevin --major-a Biology --personality-b "I love long hikes" --format json
  wingru score Audrey Kevin --remote`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := profilesFromArgs(args)
		if err != nil {
			return err
		}
		a, b := ps[0], ps[1]
		a.Major, _ = cmd.Flags().GetString("major-a")
		b.Major, _ = cmd.Flags().GetString("major-b")
		a.PersonalityAnswer, _ = cmd.Flags().GetString("personality-a")
		b.PersonalityAnswer, _ = cmd.Flags().GetString("personality-b")

		format, remote := outputFlags(cmd)
		resp, err := runScore(cmd.Context(), a, b, remote)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), format, resp, func(w io.Writer) {
			writeAnalysis(w, a.Name, b.Name, resp)
		})
	},
}

func init() {
	scoreCmd.Flags().String("major-a", "", "first person's field of study")
	scoreCmd.Flags().String("major-b", "", "second person's field of study")
	scoreCmd.Flags().String("personality-a", "", "first person's personality answer")
	scoreCmd.Flags().String("personality-b", "", "second person's personality answer")
	addOutputFlags(scoreCmd)
}

func runScore(ctx context.Context, a, b compat.Profile, remote bool) (api.AnalysisResponse, error) {
	var out api.AnalysisResponse
	if remote {
		client, err := newAPIClient()
		if err != nil {
			return out, err
		}
		resp, err := client.post(ctx, "/v1/compatibility", api.PairRequest{UserA: a, UserB: b})
		if err != nil {
			return out, err
		}
		return out, decodeJSON(resp, &out)
	}

	s, err := newLocalScorer(ctx)
	if err != nil {
		return out, err
	}
	return api.NewAnalysis(s.Score(ctx, a, b)), nil
}

// --- quick ---

var quickCmd = &cobra.Command{
	Use:   "quick <name-a> <name-b>",
	Short: "Deterministic overall score for two names",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := profilesFromArgs(args)
		if err != nil {
			return err
		}

		format, remote := outputFlags(cmd)
		resp, err := runQuick(cmd.Context(), ps[0], ps[1], remote)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), format, resp, func(w io.Writer) {
			fmt.Fprintf(w, "%s × %s  %s\n", ps[0].Name, ps[1].Name,
				colorize(scoreColor(resp.Overall), fmt.Sprintf("%d%% match", resp.Overall)))
		})
	},
}

func init() {
	addOutputFlags(quickCmd)
}

func runQuick(ctx context.Context, a, b compat.Profile, remote bool) (api.QuickResponse, error) {
	var out api.QuickResponse
	if !remote {
		return api.QuickResponse{Overall: compat.QuickScore(a, b)}, nil
	}

	client, err := newAPIClient()
	if err != nil {
		return out, err
	}
	resp, err := client.post(ctx, "/v1/compatibility/quick", api.PairRequest{UserA: a, UserB: b})
	if err != nil {
		return out, err
	}
	return out, decodeJSON(resp, &out)
}

// --- batch ---

var batchCmd = &cobra.Command{
	Use:   "batch <self> <candidate>...",
	Short: "Full analyses of one person against several candidates",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := profilesFromArgs(args)
		if err != nil {
			return err
		}
		self, candidates := ps[0], ps[1:]

		format, remote := outputFlags(cmd)
		resp, err := runBatch(cmd.Context(), self, candidates, remote)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), format, resp, func(w io.Writer) {
			writeBatch(w, candidates, resp.Results)
		})
	},
}

func init() {
	addOutputFlags(batchCmd)
}

func runBatch(ctx context.Context, self compat.Profile, candidates []compat.Profile, remote bool) (api.BatchResponse, error) {
	var out api.BatchResponse
	if remote {
		client, err := newAPIClient()
		if err != nil {
			return out, err
		}
		resp, err := client.post(ctx, "/v1/compatibility/batch", api.BatchRequest{Self: self, Candidates: candidates})
		if err != nil {
			return out, err
		}
		return out, decodeJSON(resp, &out)
	}

	s, err := newLocalScorer(ctx)
	if err != nil {
		return out, err
	}
	results, err := s.ScoreAll(ctx, self, candidates)
	if err != nil {
		return out, fmt.Errorf("scoring batch: %w", err)
	}
	out.Results = make([]api.AnalysisResponse, len(results))
	for i, r := range results {
		out.Results[i] = api.NewAnalysis(r)
	}
	return out, nil
}

// --- rank ---

var rankCmd = &cobra.Command{
	Use:   "rank <self> <candidate>...",
	Short: "Order candidates by quick score, highest first",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ps, err := profilesFromArgs(args)
		if err != nil {
			return err
		}

		format, remote := outputFlags(cmd)
		resp, err := runRank(cmd.Context(), ps[0], ps[1:], remote)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), format, resp, func(w io.Writer) {
			writeRanked(w, resp.Ranked)
		})
	},
}

func init() {
	addOutputFlags(rankCmd)
}

func runRank(ctx context.Context, self compat.Profile, candidates []compat.Profile, remote bool) (api.RankResponse, error) {
	var out api.RankResponse
	if !remote {
		return api.RankResponse{Ranked: compat.Rank(self, candidates)}, nil
	}

	client, err := newAPIClient()
	if err != nil {
		return out, err
	}
	resp, err := client.post(ctx, "/v1/compatibility/rank", api.BatchRequest{Self: self, Candidates: candidates})
	if err != nil {
		return out, err
	}
	return out, decodeJSON(resp, &out)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(w, "  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		if cfg.HasCredential() {
			fmt.Fprintf(w, "  %s = %s\n", colorize(colorBold, "api key"), "set")
		} else {
			fmt.Fprintf(w, "  %s = %s\n", colorize(colorBold, "api key"), "not set (fallback only)")
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: fmt.Sprintf(`Set a configuration value.

Valid keys: %s

API keys are never written to the config file; use WINGRU_GEMINI_API_KEY
or WINGRU_OPENROUTER_API_KEY.`, strings.Join(config.ValidKeys(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
