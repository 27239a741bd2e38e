package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/wingru/internal/api"
	"github.com/kalambet/wingru/internal/compat"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

// render writes v in the requested format. text is used for the text format.
func render(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatText, "":
		text(w)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func scoreColor(score int) string {
	switch {
	case score >= 85:
		return colorGreen
	case score >= 75:
		return colorCyan
	default:
		return colorYellow
	}
}

func bar(score int) string {
	n := max(0, min(score, 100)) / 5
	return strings.Repeat("█", n) + strings.Repeat("░", 20-n)
}

func writeAnalysis(w io.Writer, a, b string, r api.AnalysisResponse) {
	fmt.Fprintf(w, "%s × %s  %s  (%s)\n",
		colorize(colorBold, a), colorize(colorBold, b),
		colorize(scoreColor(r.Overall), fmt.Sprintf("%d%% match", r.Overall)),
		r.Source)
	for _, d := range r.Dimensions {
		fmt.Fprintf(w, "  %-10s %s %3d\n", d.Subject, bar(d.Score), d.Score)
	}
	fmt.Fprintf(w, "\n%s\n", r.Explanation)
	fmt.Fprintf(w, "%s %s\n", colorize(colorBold, "Trust layer:"), r.TrustLayer)
}

func writeBatch(w io.Writer, candidates []compat.Profile, results []api.AnalysisResponse) {
	for i, r := range results {
		fmt.Fprintf(w, "%-20s %s  %s\n",
			candidates[i].Name,
			colorize(scoreColor(r.Overall), fmt.Sprintf("%3d", r.Overall)),
			fmt.Sprintf("cog %d · soc %d · val %d (%s)", r.Cognitive, r.Social, r.Values, r.Source))
	}
}

func writeRanked(w io.Writer, ranked []compat.Ranked) {
	for i, r := range ranked {
		fmt.Fprintf(w, "%2d. %-20s %s\n", i+1, r.Profile.Name,
			colorize(scoreColor(r.Score), fmt.Sprintf("%3d", r.Score)))
	}
}
