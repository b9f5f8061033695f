// Package keywords extracts the most representative unigrams and bigrams from a text.
package keywords

import (
	"sort"
	"unicode/utf8"

	"github.com/jonathan/resume-relevance/internal/parsing"
	"github.com/jonathan/resume-relevance/internal/stopwords"
)

// Defaults used by the feature assembler.
const (
	DefaultBigramBoost    = 1.5
	DefaultJobKeywords    = 30
	DefaultResumeKeywords = 50

	// minTokenLength is exclusive: tokens of this many runes or fewer are dropped.
	minTokenLength = 2
)

// Entry is a single scored term. Bigrams are the two words joined by one space.
type Entry struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
	Bigram bool    `json:"bigram,omitempty"`
}

// ScoreTable is the ranked list of terms for one text, highest weight first.
type ScoreTable []Entry

// Terms returns the terms of the table in rank order.
func (t ScoreTable) Terms() []string {
	terms := make([]string, len(t))
	for i, e := range t {
		terms[i] = e.Term
	}
	return terms
}

// Extractor ranks terms of a text against an injected stopword set.
type Extractor struct {
	stop        *stopwords.Set
	bigramBoost float64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithBigramBoost overrides the multiplier applied to bigram counts.
func WithBigramBoost(boost float64) Option {
	return func(e *Extractor) {
		if boost > 0 {
			e.bigramBoost = boost
		}
	}
}

// New creates an Extractor. A nil stopword set filters on length only.
func New(stop *stopwords.Set, opts ...Option) *Extractor {
	e := &Extractor{
		stop:        stop,
		bigramBoost: DefaultBigramBoost,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns at most n terms ranked by weight. It never fails: empty text,
// n <= 0, or text made only of stopwords all yield an empty slice.
func (e *Extractor) Extract(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	table := e.Scores(text)
	if len(table) > n {
		table = table[:n]
	}
	return table.Terms()
}

// Scores builds the full ranked score table for text.
//
// Bigrams are formed from the filtered token sequence, so removing a stopword
// can make two originally separated words adjacent ("python and sql" yields
// the bigram "python sql"). Ranking output depends on this.
func (e *Extractor) Scores(text string) ScoreTable {
	tokens := e.filter(parsing.Tokenize(text))
	if len(tokens) == 0 {
		return ScoreTable{}
	}

	table := make(ScoreTable, 0, 2*len(tokens))

	// first-seen order is kept so equal weights rank reproducibly
	unigramIndex := make(map[string]int)
	for _, tok := range tokens {
		if idx, ok := unigramIndex[tok]; ok {
			table[idx].Weight++
			continue
		}
		unigramIndex[tok] = len(table)
		table = append(table, Entry{Term: tok, Weight: 1})
	}

	bigramCounts := make(map[string]int)
	var bigramOrder []string
	for i := 0; i+1 < len(tokens); i++ {
		term := tokens[i] + " " + tokens[i+1]
		if _, ok := bigramCounts[term]; !ok {
			bigramOrder = append(bigramOrder, term)
		}
		bigramCounts[term]++
	}
	for _, term := range bigramOrder {
		table = append(table, Entry{
			Term:   term,
			Weight: float64(bigramCounts[term]) * e.bigramBoost,
			Bigram: true,
		})
	}

	sort.SliceStable(table, func(i, j int) bool {
		return table[i].Weight > table[j].Weight
	})
	return table
}

// Overlap returns the terms present in both lists, in the order of a.
func Overlap(a, b []string) []string {
	set := make(map[string]struct{}, len(b))
	for _, term := range b {
		set[term] = struct{}{}
	}
	shared := make([]string, 0)
	seen := make(map[string]struct{})
	for _, term := range a {
		if _, ok := set[term]; !ok {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		shared = append(shared, term)
	}
	return shared
}

func (e *Extractor) filter(tokens []string) []string {
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if utf8.RuneCountInString(tok) <= minTokenLength {
			continue
		}
		if e.stop.Contains(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}
