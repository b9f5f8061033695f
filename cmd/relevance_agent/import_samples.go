package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jonathan/resume-relevance/internal/dataset"
	"github.com/spf13/cobra"
)

var importSamplesCmd = &cobra.Command{
	Use:   "import-samples",
	Short: "Import a CSV or JSON dataset into the sample store",
	Long:  "Loads document pairs from a dataset file and inserts them into PostgreSQL. Samples whose ID already exists are skipped.",
	RunE:  runImportSamples,
}

var (
	importSamplesInput  string
	importSamplesSource string
)

func init() {
	importSamplesCmd.Flags().StringVarP(&importSamplesInput, "in", "i", "", "Path to dataset file (.csv or .json) (required)")
	importSamplesCmd.Flags().StringVar(&importSamplesSource, "source", "", "Source tag stored with each sample (defaults to the file name)")

	if err := importSamplesCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}

	rootCmd.AddCommand(importSamplesCmd)
}

func runImportSamples(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	samples, err := dataset.Load(importSamplesInput)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	database, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	source := importSamplesSource
	if source == "" {
		source = filepath.Base(importSamplesInput)
	}

	inserted, err := database.CreateSamples(ctx, samples, source)
	if err != nil {
		return fmt.Errorf("failed to import samples: %w", err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d samples (%d already present)\n",
		inserted, len(samples), len(samples)-inserted)
	return nil
}
