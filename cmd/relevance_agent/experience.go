package main

import (
	"fmt"

	"github.com/jonathan/resume-relevance/internal/experience"
	"github.com/jonathan/resume-relevance/internal/observability"
	"github.com/jonathan/resume-relevance/internal/types"
	"github.com/spf13/cobra"
)

var experienceCmd = &cobra.Command{
	Use:   "experience",
	Short: "Estimate years of experience from a resume",
	Long:  "Runs every experience heuristic over the raw resume text and prints the largest estimate, or 0 when nothing matches.",
	RunE:  runExperience,
}

var (
	experienceText string
	experienceFile string
)

func init() {
	experienceCmd.Flags().StringVar(&experienceText, "resume", "", "Resume text")
	experienceCmd.Flags().StringVar(&experienceFile, "resume-file", "", "Path to a resume text file (\"-\" for stdin)")

	rootCmd.AddCommand(experienceCmd)
}

func runExperience(cmd *cobra.Command, _ []string) error {
	text, err := readText(cmd, experienceText, experienceFile, "resume")
	if err != nil {
		return err
	}

	candidates := experience.NewExtractor().Candidates(text)
	years := experience.Max(candidates)

	out := cmd.OutOrStdout()
	if verbose {
		matches := make([]types.ExperienceMatch, len(candidates))
		for i, c := range candidates {
			matches[i] = types.ExperienceMatch{Heuristic: c.Kind.String(), Years: c.Value, Match: c.Match}
		}
		observability.NewPrinter(out).PrintExperience(years, matches)
		return nil
	}
	_, _ = fmt.Fprintf(out, "%g\n", years)
	return nil
}
