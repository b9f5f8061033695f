package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/resume-relevance/internal/fetch"
	"github.com/spf13/cobra"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Fetch a job posting URL and extract its description text",
	Long: `Fetches a job posting, extracts the description with platform-specific selectors (Greenhouse, Lever,
Workday, Ashby), and falls back to a headless browser for client-rendered pages when --use-browser is set.
With a database configured, postings are cached and reused until they expire.`,
	RunE: runIngestJob,
}

var (
	ingestURL        string
	ingestOutDir     string
	ingestUseBrowser bool
	ingestSkipCache  bool
)

// ingestMetadata is written next to the cleaned text.
type ingestMetadata struct {
	URL        string `json:"url"`
	Platform   string `json:"platform,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Rendered   bool   `json:"rendered"`
	FromCache  bool   `json:"from_cache"`
}

func init() {
	ingestJobCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch job posting from (required)")
	ingestJobCmd.Flags().StringVarP(&ingestOutDir, "out", "o", "", "Output directory (prints text to stdout when empty)")
	ingestJobCmd.Flags().BoolVar(&ingestUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	ingestJobCmd.Flags().BoolVar(&ingestSkipCache, "skip-cache", false, "Always fetch, ignoring cached postings")

	if err := ingestJobCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.Fetch.UseBrowser = ingestUseBrowser
	}

	opts := &fetch.JobOptions{
		Fetch:   fetch.DefaultOptions(),
		Verbose: cfg.Verbose,
	}
	opts.Fetch.Timeout = cfg.Fetch.Timeout.Duration
	if cfg.Fetch.UseBrowser {
		opts.Render = fetch.BrowserRenderer(fetch.DefaultBrowserTimeout, cfg.Verbose)
	}

	var store fetch.PostingStore
	if cfg.DatabaseURL != "" {
		database, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()
		store = database
	}

	posting, err := fetch.NewCachedFetcher(store, opts, cfg.Fetch.CacheTTL.Duration, ingestSkipCache).Fetch(ctx, ingestURL)
	if err != nil {
		return fmt.Errorf("failed to ingest job posting: %w", err)
	}

	if ingestOutDir == "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), posting.Text)
		return nil
	}

	meta := ingestMetadata{
		URL:        posting.URL,
		Platform:   string(posting.Platform),
		StatusCode: posting.StatusCode,
		Rendered:   posting.Rendered,
		FromCache:  posting.FromCache,
	}
	if err := writeIngestOutput(ingestOutDir, posting.Text, meta); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Successfully ingested job posting\n")
	_, _ = fmt.Fprintf(out, "Cleaned text: %s\n", filepath.Join(ingestOutDir, "job_posting.cleaned.txt"))
	_, _ = fmt.Fprintf(out, "Metadata: %s\n", filepath.Join(ingestOutDir, "job_posting.meta.json"))
	return nil
}

func writeIngestOutput(dir, text string, meta ingestMetadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "job_posting.cleaned.txt"), []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write cleaned text: %w", err)
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "job_posting.meta.json"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}
