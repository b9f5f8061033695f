package fetch

import (
	"context"
	"log"
	"time"

	"github.com/jonathan/resume-relevance/internal/db"
)

// PostingStore persists fetched postings. *db.DB implements it.
type PostingStore interface {
	GetFreshJobPosting(ctx context.Context, url string) (*db.JobPosting, error)
	UpsertJobPosting(ctx context.Context, input *db.JobPostingInput) (*db.JobPosting, error)
}

// CachedFetcher wraps JobDescription with a posting store so repeat
// ingests of the same URL within the TTL skip the network.
type CachedFetcher struct {
	store     PostingStore
	options   *JobOptions
	cacheTTL  time.Duration
	skipCache bool
}

// NewCachedFetcher creates a cached fetcher. A nil store disables caching.
func NewCachedFetcher(store PostingStore, options *JobOptions, cacheTTL time.Duration, skipCache bool) *CachedFetcher {
	if options == nil {
		options = &JobOptions{}
	}
	if cacheTTL <= 0 {
		cacheTTL = db.DefaultJobPostingCacheTTL
	}
	return &CachedFetcher{
		store:     store,
		options:   options,
		cacheTTL:  cacheTTL,
		skipCache: skipCache,
	}
}

// CachedPosting extends Posting with cache metadata.
type CachedPosting struct {
	*Posting
	FromCache bool
}

// Fetch returns a fresh cached posting when one exists, otherwise fetches
// the URL and stores the result. Store failures are logged, not returned.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedPosting, error) {
	if f.store != nil && !f.skipCache {
		cached, err := f.store.GetFreshJobPosting(ctx, urlStr)
		if err != nil {
			log.Printf("[fetch] cache lookup failed for %s: %v", urlStr, err)
		} else if cached != nil && cached.CleanedText != nil {
			return &CachedPosting{
				Posting: &Posting{
					URL:        cached.URL,
					Platform:   Platform(derefString(cached.Platform)),
					HTML:       derefString(cached.RawHTML),
					Text:       *cached.CleanedText,
					StatusCode: derefInt(cached.HTTPStatus),
					Rendered:   cached.Rendered,
				},
				FromCache: true,
			}, nil
		}
	}

	posting, err := JobDescription(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	if f.store != nil {
		_, err := f.store.UpsertJobPosting(ctx, &db.JobPostingInput{
			URL:         posting.URL,
			Platform:    string(posting.Platform),
			RawHTML:     posting.HTML,
			CleanedText: posting.Text,
			HTTPStatus:  posting.StatusCode,
			Rendered:    posting.Rendered,
			TTL:         f.cacheTTL,
		})
		if err != nil {
			log.Printf("[fetch] failed to cache %s: %v", urlStr, err)
		}
	}

	return &CachedPosting{Posting: posting}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
