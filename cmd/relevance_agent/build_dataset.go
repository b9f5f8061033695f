package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/resume-relevance/internal/batch"
	"github.com/jonathan/resume-relevance/internal/dataset"
	"github.com/jonathan/resume-relevance/internal/observability"
	"github.com/jonathan/resume-relevance/internal/schemas"
	"github.com/jonathan/resume-relevance/internal/types"
	rootschemas "github.com/jonathan/resume-relevance/schemas"
	"github.com/spf13/cobra"
)

var buildDatasetCmd = &cobra.Command{
	Use:   "build-dataset",
	Short: "Build a feature matrix from a CSV or JSON dataset",
	Long: `Loads (job description, resume, relevance score) rows from a CSV or JSON file, assembles a feature
vector for each in parallel, and writes one JSON object per line: {"id", "label", "features"}.`,
	RunE: runBuildDataset,
}

var (
	buildDatasetInput    string
	buildDatasetOutput   string
	buildDatasetWorkers  int
	buildDatasetValidate bool
)

func init() {
	buildDatasetCmd.Flags().StringVarP(&buildDatasetInput, "in", "i", "", "Path to dataset file (.csv or .json) (required)")
	buildDatasetCmd.Flags().StringVarP(&buildDatasetOutput, "out", "o", "", "Path to output JSON Lines file (required)")
	buildDatasetCmd.Flags().IntVarP(&buildDatasetWorkers, "workers", "w", 0, "Concurrent assemblies (defaults to config, then GOMAXPROCS)")
	buildDatasetCmd.Flags().BoolVar(&buildDatasetValidate, "validate", false, "Validate every output row against the feature row schema")

	if err := buildDatasetCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	if err := buildDatasetCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(buildDatasetCmd)
}

func runBuildDataset(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("workers") {
		cfg.Batch.Workers = buildDatasetWorkers
	}

	samples, err := dataset.Load(buildDatasetInput)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	p, err := newPipeline(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = p.close() }()

	opts := batch.Options{Workers: cfg.Batch.Workers, Verbose: cfg.Verbose}
	if cfg.Verbose {
		errOut := cmd.ErrOrStderr()
		opts.OnProgress = func(ev batch.ProgressEvent) {
			_, _ = fmt.Fprintf(errOut, "[%d/%d] %s\n", ev.Done, ev.Total, ev.SampleID)
		}
	}

	start := time.Now()
	rows, err := batch.Build(ctx, p.assembler, samples, opts)
	if err != nil {
		return fmt.Errorf("failed to build features: %w", err)
	}

	if buildDatasetValidate {
		if err := validateRows(rows); err != nil {
			return err
		}
	}

	w, closeOut, err := createOutput(cmd, buildDatasetOutput)
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

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintBatchSummary(rows, time.Since(start))
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d feature rows to %s\n", len(rows), buildDatasetOutput)
	return nil
}

// validateRows checks every row against the embedded feature row schema.
func validateRows(rows []types.FeatureRow) error {
	for i, row := range rows {
		data, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("failed to marshal feature row: %w", err)
		}
		if err := schemas.ValidateBytes(fmt.Sprintf("row %d", i+1), rootschemas.FeatureRow, data); err != nil {
			return fmt.Errorf("feature row %s does not validate against schema: %w", row.ID, err)
		}
	}
	return nil
}
