// Package types provides type definitions for structured data shared across the relevance service.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"time"

	"github.com/google/uuid"
)

// Sample is a (job description, resume) document pair with an optional
// relevance label, conventionally on a 0-100 scale.
type Sample struct {
	ID             uuid.UUID `json:"id"`
	JobDescription string    `json:"job_description"`
	Resume         string    `json:"resume"`
	Score          *float64  `json:"relevance_score,omitempty"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// HasLabel reports whether the sample carries a relevance score.
func (s *Sample) HasLabel() bool {
	return s.Score != nil
}

// FeatureRow is one row of a training or inference matrix.
type FeatureRow struct {
	ID       string    `json:"id"`
	Label    *float64  `json:"label,omitempty"`
	Features []float64 `json:"features"`
}

// ExperienceMatch is one years-of-experience reading found in a resume.
type ExperienceMatch struct {
	Heuristic string  `json:"heuristic"`
	Years     float64 `json:"years"`
	Match     string  `json:"match"`
}

// FeatureSet is an assembled feature vector together with the
// intermediate values it was derived from.
type FeatureSet struct {
	Vector          []float64         `json:"vector"`
	Dimension       int               `json:"dimension"`
	ExperienceYears float64           `json:"experience_years"`
	Experience      []ExperienceMatch `json:"experience_matches"`
	JobKeywords     []string          `json:"job_keywords"`
	ResumeKeywords  []string          `json:"resume_keywords"`
	SharedKeywords  []string          `json:"shared_keywords"`
	KeywordOverlap  int               `json:"keyword_overlap"`
}
