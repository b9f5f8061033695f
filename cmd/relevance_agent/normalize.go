package main

import (
	"fmt"

	"github.com/jonathan/resume-relevance/internal/parsing"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize",
	Short: "Print the normalized form of a text",
	Long:  "Lowercases the text, deletes punctuation and collapses whitespace, exactly as the keyword extractor and embedders see it.",
	RunE:  runNormalize,
}

var (
	normalizeText string
	normalizeFile string
)

func init() {
	normalizeCmd.Flags().StringVar(&normalizeText, "text", "", "Text to normalize")
	normalizeCmd.Flags().StringVar(&normalizeFile, "text-file", "", "Path to a text file (\"-\" for stdin)")

	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, _ []string) error {
	text, err := readText(cmd, normalizeText, normalizeFile, "text")
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), parsing.NormalizeText(text))
	return nil
}
