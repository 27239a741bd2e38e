package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "wingru",
	Short: "Compatibility scoring for the wingru matchmaking network",
	Long: `wingru scores how well two people fit together.

With a Gemini or OpenRouter API key configured, analyses come from the
model. Without one, or when the model fails, wingru returns a
deterministic score derived from the two names.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("NO_COLOR") != "" {
			noColor = true
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the wingru version",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("wingru version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(quickCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}
