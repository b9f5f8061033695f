package db

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pagination bounds for list queries.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// DefaultJobPostingCacheTTL is how long before a job posting is considered stale
const DefaultJobPostingCacheTTL = 24 * time.Hour

// ListSamplesOptions contains filters for listing samples
type ListSamplesOptions struct {
	LabelledOnly bool
	Limit        int
	Offset       int
}

// StoredFeatures is a feature vector persisted for a sample.
type StoredFeatures struct {
	SampleID        uuid.UUID      `json:"sample_id"`
	Provider        string         `json:"provider"`
	Model           string         `json:"model"`
	Dimension       int            `json:"dimension"`
	Vector          []float64      `json:"vector"`
	ExperienceYears float64        `json:"experience_years"`
	KeywordOverlap  int            `json:"keyword_overlap"`
	Details         *FeatureDetail `json:"details,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// FeatureDetail holds the explanatory values stored next to a vector.
type FeatureDetail struct {
	JobKeywords    []string `json:"job_keywords"`
	ResumeKeywords []string `json:"resume_keywords"`
	SharedKeywords []string `json:"shared_keywords"`
}

// JobPosting represents a job posting fetched from a job board
type JobPosting struct {
	ID          uuid.UUID  `json:"id"`
	URL         string     `json:"url"`
	Platform    *string    `json:"platform,omitempty"`
	RawHTML     *string    `json:"-"`
	CleanedText *string    `json:"cleaned_text,omitempty"`
	ContentHash *string    `json:"content_hash,omitempty"`
	HTTPStatus  *int       `json:"http_status,omitempty"`
	Rendered    bool       `json:"rendered"`
	FetchedAt   time.Time  `json:"fetched_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// IsExpired reports whether the cached posting should be re-fetched.
func (p *JobPosting) IsExpired() bool {
	return p.ExpiresAt != nil && time.Now().After(*p.ExpiresAt)
}

// JobPostingInput contains the fields written by UpsertJobPosting
type JobPostingInput struct {
	URL         string
	Platform    string
	RawHTML     string
	CleanedText string
	HTTPStatus  int
	Rendered    bool
	TTL         time.Duration // zero uses DefaultJobPostingCacheTTL
}

// HashJobContent returns a stable content hash used to detect changed postings.
func HashJobContent(text string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return hex.EncodeToString(sum[:])
}
