// Package experience estimates years of professional experience from unstructured resume text.
//
// Several independent regex heuristics each propose candidate values; the
// estimate is the maximum candidate, or 0 when nothing matches. Extraction
// runs on the raw text, not the normalized form, because the patterns rely on
// punctuation such as "+" and "-".
package experience

import "time"

// Candidate is a value proposed by one heuristic for one match.
type Candidate struct {
	Kind  HeuristicKind `json:"kind"`
	Value float64       `json:"value"`
	Match string        `json:"match"`
}

// Extractor evaluates the configured heuristics against a text.
type Extractor struct {
	heuristics []heuristic
	now        func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the time source used to resolve "Present", "Current" and "Now".
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHeuristics restricts evaluation to the given kinds, keeping the default order.
func WithHeuristics(kinds ...HeuristicKind) Option {
	return func(e *Extractor) {
		wanted := make(map[HeuristicKind]bool, len(kinds))
		for _, k := range kinds {
			wanted[k] = true
		}
		selected := make([]heuristic, 0, len(kinds))
		for _, h := range allHeuristics {
			if wanted[h.kind] {
				selected = append(selected, h)
			}
		}
		e.heuristics = selected
	}
}

// NewExtractor creates an Extractor using every heuristic and the wall clock.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		heuristics: allHeuristics,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Heuristics returns the kinds evaluated by e, in order.
func (e *Extractor) Heuristics() []HeuristicKind {
	kinds := make([]HeuristicKind, len(e.heuristics))
	for i, h := range e.heuristics {
		kinds[i] = h.kind
	}
	return kinds
}

// Candidates returns every value proposed by every heuristic, in heuristic
// order and then match order.
func (e *Extractor) Candidates(text string) []Candidate {
	candidates := make([]Candidate, 0)
	if text == "" {
		return candidates
	}

	now := e.now()
	for _, h := range e.heuristics {
		for _, groups := range h.pattern.FindAllStringSubmatch(text, -1) {
			value, ok := h.interpret(groups, now)
			if !ok {
				continue
			}
			candidates = append(candidates, Candidate{
				Kind:  h.kind,
				Value: value,
				Match: groups[0],
			})
		}
	}
	return candidates
}

// Extract returns the largest candidate value, or 0 when there are none.
// The result is never negative.
func (e *Extractor) Extract(text string) float64 {
	return Max(e.Candidates(text))
}

// Max reduces candidates to the largest value, or 0 for an empty list.
func Max(candidates []Candidate) float64 {
	best := 0.0
	for _, c := range candidates {
		if c.Value > best {
			best = c.Value
		}
	}
	return best
}
