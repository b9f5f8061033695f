package main

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/observability"
	"github.com/spf13/cobra"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Extract ranked keywords from a text",
	Long:  "Ranks unigrams and bigrams of a text by frequency after stopword removal. Bigram counts are boosted.",
	RunE:  runKeywords,
}

var (
	keywordsText  string
	keywordsFile  string
	keywordsLimit int
	keywordsJSON  bool
)

func init() {
	keywordsCmd.Flags().StringVar(&keywordsText, "text", "", "Text to analyze")
	keywordsCmd.Flags().StringVar(&keywordsFile, "text-file", "", "Path to a text file (\"-\" for stdin)")
	keywordsCmd.Flags().IntVarP(&keywordsLimit, "limit", "n", keywords.DefaultJobKeywords, "Number of keywords to return")
	keywordsCmd.Flags().BoolVar(&keywordsJSON, "json", false, "Print the score table as JSON")

	rootCmd.AddCommand(keywordsCmd)
}

func runKeywords(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	text, err := readText(cmd, keywordsText, keywordsFile, "text")
	if err != nil {
		return err
	}
	kw, _, err := newTextPipeline(cfg)
	if err != nil {
		return err
	}

	table := kw.Scores(text)
	if keywordsLimit < 0 {
		keywordsLimit = 0
	}
	if len(table) > keywordsLimit {
		table = table[:keywordsLimit]
	}

	out := cmd.OutOrStdout()
	if cfg.Verbose {
		observability.NewPrinter(out).PrintKeywordScores("Keywords", table)
	}
	if keywordsJSON {
		if table == nil {
			table = keywords.ScoreTable{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(table)
	}
	for _, term := range table.Terms() {
		_, _ = fmt.Fprintln(out, term)
	}
	return nil
}
