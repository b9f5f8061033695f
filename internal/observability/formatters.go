// Package observability provides formatted output for verbose CLI mode and
// Prometheus metrics for the feature pipeline and HTTP API.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-relevance/internal/keywords"
	"github.com/jonathan/resume-relevance/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}

// PrintKeywordScores outputs the highest-weighted entries of a score table.
func (p *Printer) PrintKeywordScores(title string, table keywords.ScoreTable) {
	if len(table) == 0 {
		p.printBox(title, "(no keywords)")
		return
	}

	var sb strings.Builder
	count := min(len(table), maxItemsToShow)
	for i := 0; i < count; i++ {
		e := table[i]
		kind := "unigram"
		if e.Bigram {
			kind = "bigram"
		}
		sb.WriteString(fmt.Sprintf("%2d. %-30s %6.2f  %s\n", i+1, e.Term, e.Weight, kind))
	}
	if len(table) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("    ... and %d more\n", len(table)-maxItemsToShow))
	}
	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintExperience outputs every experience reading and the chosen estimate.
func (p *Printer) PrintExperience(years float64, matches []types.ExperienceMatch) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Estimate: %.1f years\n", years))
	if len(matches) == 0 {
		sb.WriteString("No experience statements found\n")
	} else {
		sb.WriteString("\n")
	}
	for _, m := range matches {
		sb.WriteString(fmt.Sprintf("  • %-22s %5.1f  %q\n", m.Heuristic, m.Years, m.Match))
	}
	p.printBox("EXPERIENCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFeatureSet outputs a summary of an assembled feature vector.
func (p *Printer) PrintFeatureSet(fs *types.FeatureSet) {
	if fs == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Embedding dimension: %d\n", fs.Dimension))
	sb.WriteString(fmt.Sprintf("Vector length:       %d\n", len(fs.Vector)))
	sb.WriteString(fmt.Sprintf("Experience (years):  %.1f\n", fs.ExperienceYears))
	sb.WriteString(fmt.Sprintf("Keyword overlap:     %d\n", fs.KeywordOverlap))
	if len(fs.SharedKeywords) > 0 {
		sb.WriteString("\nShared keywords:\n")
		count := min(len(fs.SharedKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", fs.SharedKeywords[i]))
		}
		if len(fs.SharedKeywords) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(fs.SharedKeywords)-maxItemsToShow))
		}
	}
	p.printBox("FEATURE VECTOR", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintBatchSummary outputs totals for a dataset build.
func (p *Printer) PrintBatchSummary(rows []types.FeatureRow, elapsed time.Duration) {
	labelled := 0
	for _, r := range rows {
		if r.Label != nil {
			labelled++
		}
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0].Features)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Rows:      %d (%d labelled)\n", len(rows), labelled))
	sb.WriteString(fmt.Sprintf("Features:  %d per row\n", width))
	sb.WriteString(fmt.Sprintf("Elapsed:   %s", elapsed.Round(time.Millisecond)))
	p.printBox("FEATURE MATRIX", sb.String())
}
