//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := New(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	return db
}

func TestIntegration_JobDetailsCache(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	url := "https://www.linkedin.com/jobs/view/test-" + uuid.New().String()
	defer func() { _ = db.DeleteJobDetails(ctx, url) }()

	_, _, err := db.GetJobDetails(ctx, url)
	require.ErrorIs(t, err, ingestion.ErrCacheMiss)

	details := &types.JobDetails{
		Title:        "Engineer",
		Company:      "Acme",
		Location:     "Remote",
		Description:  "Build with Go",
		Requirements: []string{},
		Skills:       []string{"Go"},
	}
	fetchedAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, db.PutJobDetails(ctx, url, details, fetchedAt))

	got, gotAt, err := db.GetJobDetails(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, details, got)
	assert.True(t, fetchedAt.Equal(gotAt))

	t.Run("upsert replaces", func(t *testing.T) {
		updated := details.Clone()
		updated.Title = "Staff Engineer"
		require.NoError(t, db.PutJobDetails(ctx, url, updated, fetchedAt.Add(time.Minute)))

		got, _, err := db.GetJobDetails(ctx, url)
		require.NoError(t, err)
		assert.Equal(t, "Staff Engineer", got.Title)
	})

	t.Run("purge", func(t *testing.T) {
		n, err := db.PurgeJobDetailsBefore(ctx, fetchedAt.Add(time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))

		_, _, err = db.GetJobDetails(ctx, url)
		assert.ErrorIs(t, err, ingestion.ErrCacheMiss)
	})
}
