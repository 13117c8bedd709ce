package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

var _ ingestion.Store = (*DB)(nil)

// GetJobDetails returns the cached record for jobURL, or ingestion.ErrCacheMiss.
func (db *DB) GetJobDetails(ctx context.Context, jobURL string) (*types.JobDetails, time.Time, error) {
	var raw []byte
	var fetchedAt time.Time
	err := db.pool.QueryRow(ctx,
		`SELECT details, fetched_at FROM job_details_cache WHERE url = $1`,
		jobURL,
	).Scan(&raw, &fetchedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, time.Time{}, ingestion.ErrCacheMiss
		}
		return nil, time.Time{}, fmt.Errorf("failed to get cached job details: %w", err)
	}

	details, err := decodeDetails(raw)
	if err != nil {
		return nil, time.Time{}, err
	}
	return details, fetchedAt, nil
}

// PutJobDetails upserts the record for jobURL.
func (db *DB) PutJobDetails(ctx context.Context, jobURL string, details *types.JobDetails, fetchedAt time.Time) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to marshal job details: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO job_details_cache (url, details, fetched_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (url) DO UPDATE SET details = $2, fetched_at = $3`,
		jobURL, raw, fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to cache job details: %w", err)
	}
	return nil
}

// DeleteJobDetails drops the cached record for jobURL.
func (db *DB) DeleteJobDetails(ctx context.Context, jobURL string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM job_details_cache WHERE url = $1`, jobURL)
	if err != nil {
		return fmt.Errorf("failed to delete cached job details: %w", err)
	}
	return nil
}

// PurgeJobDetailsBefore removes records fetched before cutoff and returns how many were removed.
func (db *DB) PurgeJobDetailsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM job_details_cache WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cached job details: %w", err)
	}
	return tag.RowsAffected(), nil
}

// decodeDetails unmarshals a stored record, normalizing list fields to non-nil slices.
func decodeDetails(raw []byte) (*types.JobDetails, error) {
	var details types.JobDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached job details: %w", err)
	}
	if details.Requirements == nil {
		details.Requirements = []string{}
	}
	if details.Skills == nil {
		details.Skills = []string{}
	}
	return &details, nil
}
