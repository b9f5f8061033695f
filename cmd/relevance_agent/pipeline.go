package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/resume-relevance/internal/config"
	"github.com/jonathan/resume-relevance/internal/db"
	"github.com/jonathan/resume-relevance/internal/embedding"
	"github.com/jonathan/resume-relevance/internal/experience"
	"github.com/jonathan/resume-relevance/internal/features"
	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/stopwords"
	"github.com/spf13/cobra"
)

// loadConfig resolves configuration in priority order: config file,
// explicitly set flags, environment, built-in defaults.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if verbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Loaded config from: %s\n", configPath)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		// A model configured for another provider does not carry over.
		if !strings.EqualFold(providerArg, cfg.Embedding.Provider) {
			cfg.Embedding.Model = ""
			cfg.Embedding.Dimension = 0
		}
		cfg.Embedding.Provider = strings.ToLower(providerArg)
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = databaseURL
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, fmt.Errorf("config error: %w", err)
	}
	cfg = cfg.MergeWithDefaults(config.Default())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// pipeline bundles the text components and the assembler built from a Config.
type pipeline struct {
	keywords   *keywords.Extractor
	experience *experience.Extractor
	assembler  *features.Assembler
	embedding  *embedding.Config
	close      func() error
}

// newTextPipeline builds the components that need no embedding provider.
func newTextPipeline(cfg config.Config) (*keywords.Extractor, *experience.Extractor, error) {
	stop := stopwords.Default()
	if cfg.Keywords.StopwordsFile != "" {
		extra, err := stopwords.LoadFile(cfg.Keywords.StopwordsFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load stopwords: %w", err)
		}
		stop = stop.Union(extra)
	}
	kw := keywords.New(stop, keywords.WithBigramBoost(cfg.Keywords.BigramBoost))
	return kw, experience.NewExtractor(), nil
}

// newPipeline builds the full feature pipeline including the embedding provider.
// The caller must call close when done.
func newPipeline(ctx context.Context, cfg config.Config, observer features.Observer) (*pipeline, error) {
	kw, exp, err := newTextPipeline(cfg)
	if err != nil {
		return nil, err
	}

	settings := cfg.EmbeddingSettings()
	embedder, closeFn, err := embedding.NewEmbedder(ctx, settings, cfg.Embedding.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	opts := []features.Option{
		features.WithDimension(settings.Dimension),
		features.WithKeywordLimits(cfg.Keywords.JobLimit, cfg.Keywords.ResumeLimit),
	}
	if observer != nil {
		opts = append(opts, features.WithObserver(observer))
	}

	return &pipeline{
		keywords:   kw,
		experience: exp,
		assembler:  features.NewAssembler(embedder, embedder, kw, exp, opts...),
		embedding:  settings,
		close:      closeFn,
	}, nil
}

// openDB connects to the configured database and ensures the schema exists.
func openDB(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("--db-url flag or DATABASE_URL environment variable is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return database, nil
}

// readText returns inline text if given, otherwise the contents of path.
// A path of "-" reads standard input.
func readText(cmd *cobra.Command, inline, path, name string) (string, error) {
	switch {
	case inline != "" && path != "":
		return "", fmt.Errorf("--%s and --%s-file are mutually exclusive; provide only one", name, name)
	case inline != "":
		return inline, nil
	case path == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read %s from stdin: %w", name, err)
		}
		return string(data), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read %s file: %w", name, err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("either --%s or --%s-file must be provided", name, name)
	}
}

// createOutput opens path for writing, or returns stdout for "" and "-".
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
