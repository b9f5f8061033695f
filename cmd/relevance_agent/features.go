package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-relevance/internal/observability"
	"github.com/spf13/cobra"
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Assemble the feature vector for a job description and resume",
	Long: `Embeds the normalized job description and resume, estimates years of experience and counts shared
keywords, then prints the vector [job embedding, resume embedding, experience, overlap].`,
	RunE: runFeatures,
}

var (
	featuresJob        string
	featuresJobFile    string
	featuresResume     string
	featuresResumeFile string
	featuresOutput     string
	featuresExplain    bool
)

func init() {
	featuresCmd.Flags().StringVar(&featuresJob, "job", "", "Job description text")
	featuresCmd.Flags().StringVar(&featuresJobFile, "job-file", "", "Path to a job description file (\"-\" for stdin)")
	featuresCmd.Flags().StringVar(&featuresResume, "resume", "", "Resume text")
	featuresCmd.Flags().StringVar(&featuresResumeFile, "resume-file", "", "Path to a resume file")
	featuresCmd.Flags().StringVarP(&featuresOutput, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	featuresCmd.Flags().BoolVar(&featuresExplain, "explain", false, "Include keywords and experience matches in the output")

	rootCmd.AddCommand(featuresCmd)
}

func runFeatures(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	jd, err := readText(cmd, featuresJob, featuresJobFile, "job")
	if err != nil {
		return err
	}
	resume, err := readText(cmd, featuresResume, featuresResumeFile, "resume")
	if err != nil {
		return err
	}

	p, err := newPipeline(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = p.close() }()

	fs, err := p.assembler.Explain(ctx, jd, resume)
	if err != nil {
		return fmt.Errorf("failed to assemble features: %w", err)
	}

	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintFeatureSet(fs)
	}

	w, closeOut, err := createOutput(cmd, featuresOutput)
	if err != nil {
		return err
	}
	var payload any = fs.Vector
	if featuresExplain {
		payload = fs
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		_ = closeOut()
		return fmt.Errorf("failed to write features: %w", err)
	}
	if err := closeOut(); err != nil {
		return fmt.Errorf("failed to write features: %w", err)
	}

	if featuresOutput != "" && featuresOutput != "-" {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d features to %s\n", len(fs.Vector), featuresOutput)
	}
	return nil
}
