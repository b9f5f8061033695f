package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-relevance/internal/types"
)

// SaveFeatures stores (or replaces) the feature set assembled for a sample.
func (db *DB) SaveFeatures(ctx context.Context, sampleID uuid.UUID, provider, model string, fs *types.FeatureSet) (*StoredFeatures, error) {
	detail := FeatureDetail{
		JobKeywords:    fs.JobKeywords,
		ResumeKeywords: fs.ResumeKeywords,
		SharedKeywords: fs.SharedKeywords,
	}
	detailJSON, err := json.Marshal(detail)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feature details: %w", err)
	}

	stored := &StoredFeatures{
		SampleID:        sampleID,
		Provider:        provider,
		Model:           model,
		Dimension:       fs.Dimension,
		Vector:          fs.Vector,
		ExperienceYears: fs.ExperienceYears,
		KeywordOverlap:  fs.KeywordOverlap,
		Details:         &detail,
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO feature_vectors (sample_id, provider, model, dimension, vector,
		                              experience_years, keyword_overlap, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (sample_id) DO UPDATE SET
		     provider = $2,
		     model = $3,
		     dimension = $4,
		     vector = $5,
		     experience_years = $6,
		     keyword_overlap = $7,
		     details = $8,
		     updated_at = NOW()
		 RETURNING created_at, updated_at`,
		sampleID, provider, model, fs.Dimension, fs.Vector,
		fs.ExperienceYears, fs.KeywordOverlap, detailJSON,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save features: %w", err)
	}
	return stored, nil
}

// GetFeatures retrieves the stored features for a sample, or nil if none exist.
func (db *DB) GetFeatures(ctx context.Context, sampleID uuid.UUID) (*StoredFeatures, error) {
	var f StoredFeatures
	var detailJSON []byte

	err := db.pool.QueryRow(ctx,
		`SELECT sample_id, provider, model, dimension, vector, experience_years,
		        keyword_overlap, details, created_at, updated_at
		 FROM feature_vectors WHERE sample_id = $1`,
		sampleID,
	).Scan(&f.SampleID, &f.Provider, &f.Model, &f.Dimension, &f.Vector, &f.ExperienceYears,
		&f.KeywordOverlap, &detailJSON, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get features: %w", err)
	}

	if detailJSON != nil {
		f.Details = &FeatureDetail{}
		_ = json.Unmarshal(detailJSON, f.Details)
	}
	return &f, nil
}

// ListFeatureRows returns the stored vectors joined with their labels, in
// sample creation order, for exporting a training matrix. Only vectors of
// the given dimension are returned so the matrix stays rectangular.
func (db *DB) ListFeatureRows(ctx context.Context, dimension int, labelledOnly bool) ([]types.FeatureRow, error) {
	query := `SELECT s.id, s.relevance_score, f.vector
	          FROM feature_vectors f
	          JOIN relevance_samples s ON s.id = f.sample_id
	          WHERE f.dimension = $1`
	if labelledOnly {
		query += ` AND s.relevance_score IS NOT NULL`
	}
	query += ` ORDER BY s.created_at, s.id`

	rows, err := db.pool.Query(ctx, query, dimension)
	if err != nil {
		return nil, fmt.Errorf("failed to list feature rows: %w", err)
	}
	defer rows.Close()

	out := make([]types.FeatureRow, 0)
	for rows.Next() {
		var id uuid.UUID
		var row types.FeatureRow
		if err := rows.Scan(&id, &row.Label, &row.Features); err != nil {
			return nil, fmt.Errorf("failed to scan feature row: %w", err)
		}
		row.ID = id.String()
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list feature rows: %w", err)
	}
	return out, nil
}
