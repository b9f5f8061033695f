package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const jobPostingColumns = `id, url, platform, raw_html, cleaned_text, content_hash,
	http_status, rendered, fetched_at, expires_at, created_at, updated_at`

func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	err := row.Scan(&p.ID, &p.URL, &p.Platform, &p.RawHTML, &p.CleanedText, &p.ContentHash,
		&p.HTTPStatus, &p.Rendered, &p.FetchedAt, &p.ExpiresAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetJobPostingByURL retrieves a job posting by its URL
func (db *DB) GetJobPostingByURL(ctx context.Context, url string) (*JobPosting, error) {
	p, err := scanJobPosting(db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE url = $1`, url))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// GetFreshJobPosting retrieves a posting only if it's not expired
func (db *DB) GetFreshJobPosting(ctx context.Context, url string) (*JobPosting, error) {
	posting, err := db.GetJobPostingByURL(ctx, url)
	if err != nil || posting == nil {
		return nil, err
	}
	if posting.IsExpired() {
		return nil, nil
	}
	return posting, nil
}

// UpsertJobPosting creates or refreshes a job posting keyed by URL
func (db *DB) UpsertJobPosting(ctx context.Context, input *JobPostingInput) (*JobPosting, error) {
	ttl := input.TTL
	if ttl <= 0 {
		ttl = DefaultJobPostingCacheTTL
	}

	p, err := scanJobPosting(db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (url, platform, raw_html, cleaned_text, content_hash,
		                           http_status, rendered, fetched_at, expires_at)
		 VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, NOW(), $8)
		 ON CONFLICT (url) DO UPDATE SET
		     platform = NULLIF($2, ''),
		     raw_html = $3,
		     cleaned_text = $4,
		     content_hash = $5,
		     http_status = $6,
		     rendered = $7,
		     fetched_at = NOW(),
		     expires_at = $8,
		     updated_at = NOW()
		 RETURNING `+jobPostingColumns,
		input.URL, input.Platform, input.RawHTML, input.CleanedText,
		HashJobContent(input.CleanedText), input.HTTPStatus, input.Rendered,
		time.Now().Add(ttl),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert job posting: %w", err)
	}
	return p, nil
}
