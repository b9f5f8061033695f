package main

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-relevance/internal/batch"
	"github.com/jonathan/resume-relevance/internal/db"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var exportFeaturesCmd = &cobra.Command{
	Use:   "export-features",
	Short: "Export stored feature vectors as JSON Lines",
	Long: `Writes the stored feature vectors of the configured dimension as JSON Lines. With --compute, samples
without stored features are assembled and saved first.`,
	RunE: runExportFeatures,
}

var (
	exportFeaturesOutput       string
	exportFeaturesLabelledOnly bool
	exportFeaturesCompute      bool
)

func init() {
	exportFeaturesCmd.Flags().StringVarP(&exportFeaturesOutput, "out", "o", "", "Path to output JSON Lines file (defaults to stdout)")
	exportFeaturesCmd.Flags().BoolVar(&exportFeaturesLabelledOnly, "labelled-only", false, "Only export samples with a relevance score")
	exportFeaturesCmd.Flags().BoolVar(&exportFeaturesCompute, "compute", false, "Assemble and store missing features before exporting")

	rootCmd.AddCommand(exportFeaturesCmd)
}

func runExportFeatures(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	settings := cfg.EmbeddingSettings()
	if exportFeaturesCompute {
		p, err := newPipeline(ctx, cfg, nil)
		if err != nil {
			return err
		}
		computed, err := computeMissingFeatures(ctx, cmd, database, p, cfg.Batch.Workers)
		_ = p.close()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Computed features for %d samples\n", computed)
	}

	rows, err := database.ListFeatureRows(ctx, settings.Dimension, exportFeaturesLabelledOnly)
	if err != nil {
		return fmt.Errorf("failed to list feature rows: %w", err)
	}

	w, closeOut, err := createOutput(cmd, exportFeaturesOutput)
	if err != nil {
		return err
	}
	if err := batch.WriteJSONLines(w, rows); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write feature rows: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to write feature rows: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d feature rows\n", len(rows))
	return nil
}

// computeMissingFeatures pages through stored samples and saves features for
// those that have none. It returns how many were computed.
func computeMissingFeatures(ctx context.Context, cmd *cobra.Command, database *db.DB, p *pipeline, workers int) (int, error) {
	provider, model := string(p.embedding.Provider), p.embedding.Model
	computed := 0

	for offset := 0; ; offset += db.MaxPageSize {
		samples, total, err := database.ListSamples(ctx, db.ListSamplesOptions{
			LabelledOnly: exportFeaturesLabelledOnly,
			Limit:        db.MaxPageSize,
			Offset:       offset,
		})
		if err != nil {
			return computed, fmt.Errorf("failed to list samples: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		if workers > 0 {
			g.SetLimit(workers)
		}
		results := make([]bool, len(samples))
		for i := range samples {
			sample := samples[i]
			g.Go(func() error {
				existing, err := database.GetFeatures(gctx, sample.ID)
				if err != nil {
					return err
				}
				if existing != nil && existing.Dimension == p.embedding.Dimension {
					return nil
				}
				fs, err := p.assembler.Explain(gctx, sample.JobDescription, sample.Resume)
				if err != nil {
					return fmt.Errorf("sample %s: %w", sample.ID, err)
				}
				if _, err := database.SaveFeatures(gctx, sample.ID, provider, model, fs); err != nil {
					return err
				}
				results[i] = true
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return computed, fmt.Errorf("failed to compute features: %w", err)
		}
		for _, ok := range results {
			if ok {
				computed++
			}
		}
		if verbose {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[%d/%d] samples checked\n", min(offset+len(samples), total), total)
		}

		if len(samples) < db.MaxPageSize {
			return computed, nil
		}
	}
}
