package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	calls   int
	details *types.JobDetails
	err     error
}

func (s *stubExtractor) Extract(context.Context, string) (*types.JobDetails, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.details.Clone(), nil
}

type failingStore struct{}

func (failingStore) GetJobDetails(context.Context, string) (*types.JobDetails, time.Time, error) {
	return nil, time.Time{}, errors.New("connection refused")
}

func (failingStore) PutJobDetails(context.Context, string, *types.JobDetails, time.Time) error {
	return errors.New("connection refused")
}

func sampleDetails() *types.JobDetails {
	return Assemble(RawFields{
		FieldTitle:       "Staff Engineer",
		FieldCompany:     "Acme",
		FieldLocation:    "Remote",
		FieldDescription: "- Experience with Go and Docker",
	})
}

func TestCachedExtractor_HitAvoidsScrape(t *testing.T) {
	inner := &stubExtractor{details: sampleDetails()}
	cached := NewCachedExtractor(inner, NewMemoryStore(), time.Hour, false)

	first, err := cached.Extract(context.Background(), linkedInJobURL)
	require.NoError(t, err)
	second, err := cached.Extract(context.Background(), linkedInJobURL)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedExtractor_ExpiredEntryRefreshed(t *testing.T) {
	inner := &stubExtractor{details: sampleDetails()}
	store := NewMemoryStore()
	cached := NewCachedExtractor(inner, store, time.Hour, false)

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cached.now = func() time.Time { return now }

	_, err := cached.Extract(context.Background(), linkedInJobURL)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = cached.Extract(context.Background(), linkedInJobURL)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
	_, fetchedAt, err := store.GetJobDetails(context.Background(), linkedInJobURL)
	require.NoError(t, err)
	assert.Equal(t, now, fetchedAt)
}

func TestCachedExtractor_ErrorsNotCached(t *testing.T) {
	inner := &stubExtractor{err: &ExtractionError{URL: linkedInJobURL, Strategy: StrategyPattern, Message: "none"}}
	store := NewMemoryStore()
	cached := NewCachedExtractor(inner, store, time.Hour, false)

	for i := 0; i < 2; i++ {
		_, err := cached.Extract(context.Background(), linkedInJobURL)
		var extractionErr *ExtractionError
		assert.ErrorAs(t, err, &extractionErr)
	}
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 0, store.Len())
}

func TestCachedExtractor_InvalidURLSkipsStoreAndInner(t *testing.T) {
	inner := &stubExtractor{details: sampleDetails()}
	cached := NewCachedExtractor(inner, failingStore{}, time.Hour, false)

	_, err := cached.Extract(context.Background(), "https://example.com")
	var invalid *InvalidInputError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, inner.calls)
}

func TestCachedExtractor_StoreFailureFallsBackToScrape(t *testing.T) {
	inner := &stubExtractor{details: sampleDetails()}
	cached := NewCachedExtractor(inner, failingStore{}, time.Hour, false)

	details, err := cached.Extract(context.Background(), linkedInJobURL)
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", details.Title)
	assert.Equal(t, 1, inner.calls)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	original := sampleDetails()
	require.NoError(t, store.PutJobDetails(context.Background(), "k", original, time.Now()))

	original.Skills[0] = "mutated"
	got, _, err := store.GetJobDetails(context.Background(), "k")
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", got.Skills[0])

	_, _, err = store.GetJobDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
