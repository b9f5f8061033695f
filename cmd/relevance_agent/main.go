// Package main provides the relevance_agent CLI for building resume relevance features.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	verbose     bool
	providerArg string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "relevance_agent",
	Short: "Resume relevance feature pipeline",
	Long: `relevance_agent turns (job description, resume) pairs into fixed-length feature vectors
for a relevance regressor: two text embeddings, years of experience and keyword overlap.

Configuration can be loaded from a JSON or TOML file using --config. Flags override file values,
environment variables fill what is still unset, and built-in defaults fill the rest.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (.json or .toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVar(&providerArg, "provider", "", "Embedding provider: hash, gemini or openai (defaults to EMBEDDING_PROVIDER or hash)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
