package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-relevance/internal/types"
)

// CreateSample inserts a sample. A nil ID is replaced with a new one.
// The returned sample carries the stored ID and creation time.
func (db *DB) CreateSample(ctx context.Context, s *types.Sample, source string) (*types.Sample, error) {
	out := *s
	if out.ID == uuid.Nil {
		out.ID = uuid.New()
	}

	err := db.pool.QueryRow(ctx,
		`INSERT INTO relevance_samples (id, job_description, resume, relevance_score, source)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 RETURNING created_at`,
		out.ID, out.JobDescription, out.Resume, out.Score, source,
	).Scan(&out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create sample: %w", err)
	}
	return &out, nil
}

// CreateSamples inserts samples in one batch, skipping IDs that already
// exist. It returns how many rows were inserted.
func (db *DB) CreateSamples(ctx context.Context, samples []types.Sample, source string) (int, error) {
	if len(samples) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for i := range samples {
		id := samples[i].ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(
			`INSERT INTO relevance_samples (id, job_description, resume, relevance_score, source)
			 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
			 ON CONFLICT (id) DO NOTHING`,
			id, samples[i].JobDescription, samples[i].Resume, samples[i].Score, source,
		)
	}

	results := db.pool.SendBatch(ctx, batch)
	defer func() { _ = results.Close() }()

	inserted := 0
	for i := range samples {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
		inserted += int(tag.RowsAffected())
	}
	return inserted, nil
}

// GetSample retrieves a sample by ID, or nil if it does not exist.
func (db *DB) GetSample(ctx context.Context, id uuid.UUID) (*types.Sample, error) {
	var s types.Sample
	err := db.pool.QueryRow(ctx,
		`SELECT id, job_description, resume, relevance_score, created_at
		 FROM relevance_samples WHERE id = $1`,
		id,
	).Scan(&s.ID, &s.JobDescription, &s.Resume, &s.Score, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get sample: %w", err)
	}
	return &s, nil
}

// ListSamples lists samples newest first and returns the total matching count.
func (db *DB) ListSamples(ctx context.Context, opts ListSamplesOptions) ([]types.Sample, int, error) {
	where := ""
	if opts.LabelledOnly {
		where = "WHERE relevance_score IS NOT NULL"
	}

	var total int
	if err := db.pool.QueryRow(ctx, "SELECT COUNT(*) FROM relevance_samples "+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count samples: %w", err)
	}

	limit, offset := clampPage(opts.Limit, opts.Offset)
	rows, err := db.pool.Query(ctx,
		fmt.Sprintf(
			`SELECT id, job_description, resume, relevance_score, created_at
			 FROM relevance_samples %s
			 ORDER BY created_at DESC, id
			 LIMIT $1 OFFSET $2`, where),
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list samples: %w", err)
	}
	defer rows.Close()

	samples := make([]types.Sample, 0)
	for rows.Next() {
		var s types.Sample
		if err := rows.Scan(&s.ID, &s.JobDescription, &s.Resume, &s.Score, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list samples: %w", err)
	}
	return samples, total, nil
}

// DeleteSample removes a sample and its features. It reports whether a row was deleted.
func (db *DB) DeleteSample(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM relevance_samples WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete sample: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
