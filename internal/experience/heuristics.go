package experience

import (
	"regexp"
	"strconv"
	"time"
)

// HeuristicKind identifies one experience-extraction strategy.
type HeuristicKind int

// Heuristics in evaluation order.
const (
	DirectMention HeuristicKind = iota
	ExplicitRange
	MonthYearRange
	YearRange
	YearToPresent
	MonthYearToPresent
)

func (k HeuristicKind) String() string {
	switch k {
	case DirectMention:
		return "direct_mention"
	case ExplicitRange:
		return "explicit_range"
	case MonthYearRange:
		return "month_year_range"
	case YearRange:
		return "year_range"
	case YearToPresent:
		return "year_to_present"
	case MonthYearToPresent:
		return "month_year_to_present"
	default:
		return "unknown"
	}
}

// MarshalText lets kinds appear by name in JSON output.
func (k HeuristicKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

const (
	monthPattern   = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?`
	dashPattern    = `\s*[-–—]\s*`
	presentPattern = `(?:present|current|now)`
)

// interpretFunc turns one regex submatch into a candidate value. ok is false
// when the match must not contribute (malformed number, negative span).
type interpretFunc func(groups []string, now time.Time) (value float64, ok bool)

type heuristic struct {
	kind      HeuristicKind
	pattern   *regexp.Regexp
	interpret interpretFunc
}

var allHeuristics = []heuristic{
	{
		kind:      DirectMention,
		pattern:   regexp.MustCompile(`(?i)\b(\d+)\+?\s*years?\b(?:\s+of\s+experience)?`),
		interpret: singleNumber,
	},
	// DirectMention also matches the upper bound of "3-5 years", so under the
	// max policy an explicit range only ever contributes a candidate.
	{
		kind:      ExplicitRange,
		pattern:   regexp.MustCompile(`(?i)\b(\d+)\s*[-–—]\s*(\d+)\s*years?\b`),
		interpret: meanOfBounds,
	},
	{
		kind:      MonthYearRange,
		pattern:   regexp.MustCompile(`(?i)\b` + monthPattern + `\s+(\d{4})` + dashPattern + monthPattern + `\s+(\d{4})\b`),
		interpret: yearSpan,
	},
	{
		kind:      YearRange,
		pattern:   regexp.MustCompile(`\b(\d{4})` + dashPattern + `(\d{4})\b`),
		interpret: yearSpan,
	},
	{
		kind:      YearToPresent,
		pattern:   regexp.MustCompile(`(?i)\b(\d{4})` + dashPattern + presentPattern + `\b`),
		interpret: yearsUntilNow,
	},
	{
		kind:      MonthYearToPresent,
		pattern:   regexp.MustCompile(`(?i)\b` + monthPattern + `\s+(\d{4})` + dashPattern + presentPattern + `\b`),
		interpret: yearsUntilNow,
	},
}

func singleNumber(groups []string, _ time.Time) (float64, bool) {
	n, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

func meanOfBounds(groups []string, _ time.Time) (float64, bool) {
	lo, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	hi, err := strconv.Atoi(groups[2])
	if err != nil {
		return 0, false
	}
	return (float64(lo) + float64(hi)) / 2, true
}

func yearSpan(groups []string, _ time.Time) (float64, bool) {
	start, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	end, err := strconv.Atoi(groups[2])
	if err != nil {
		return 0, false
	}
	return nonNegativeSpan(start, end)
}

func yearsUntilNow(groups []string, now time.Time) (float64, bool) {
	start, err := strconv.Atoi(groups[1])
	if err != nil {
		return 0, false
	}
	return nonNegativeSpan(start, now.Year())
}

func nonNegativeSpan(start, end int) (float64, bool) {
	span := end - start
	if span < 0 {
		return 0, false
	}
	return float64(span), true
}
