package worker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-tailor/internal/fetch"
	"github.com/jonathan/resume-tailor/internal/ingestion"
	"github.com/jonathan/resume-tailor/internal/types"
)

const jobURL = "https://www.linkedin.com/jobs/view/4242"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeScraper struct {
	details *types.JobDetails
	err     error
	gotURL  string
}

func (f *fakeScraper) Scrape(_ context.Context, url string) (*types.JobDetails, error) {
	f.gotURL = url
	return f.details, f.err
}

func post(t *testing.T, r http.Handler, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestWorker_ScrapeSuccess(t *testing.T) {
	scraper := &fakeScraper{details: &types.JobDetails{
		Title:        "Backend Engineer",
		Company:      "Globex",
		Location:     "Remote",
		Description:  "Build APIs in Go",
		Requirements: []string{},
		Skills:       []string{"Go"},
	}}
	r := NewRouter(Options{Scraper: scraper})

	rec := post(t, r, `{"url":"`+jobURL+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, jobURL, scraper.gotURL)

	var got types.JobDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Backend Engineer", got.Title)
	assert.Equal(t, []string{"Go"}, got.Skills)
}

func TestWorker_SentinelRecordIsNotAnError(t *testing.T) {
	details := ingestion.Assemble(ingestion.RawFields{})
	r := NewRouter(Options{Scraper: &fakeScraper{details: details}})

	rec := post(t, r, `{"url":"`+jobURL+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got types.JobDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, types.NoDescriptionMessage, got.Description)
	assert.Equal(t, types.UnknownTitle, got.Title)
}

func TestWorker_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"url":`},
		{"missing url", `{}`},
		{"not linkedin", `{"url":"https://example.com/jobs/1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scraper := &fakeScraper{}
			rec := post(t, NewRouter(Options{Scraper: scraper}), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Invalid LinkedIn job URL"}`, rec.Body.String())
			assert.Empty(t, scraper.gotURL)
		})
	}
}

func TestWorker_ScrapeFailure(t *testing.T) {
	scraper := &fakeScraper{err: errors.New("connection reset")}
	rec := post(t, NewRouter(Options{Scraper: scraper}), `{"url":"`+jobURL+`"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var got types.WorkerErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, MsgScrapeFailed, got.Error)
	assert.Equal(t, "connection reset", got.Details)
}

func TestWorker_MethodNotAllowed(t *testing.T) {
	r := NewRouter(Options{Scraper: &fakeScraper{}})
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.Equal(t, MsgMethodNotAllowed, rec.Body.String(), method)
	}
}

func TestWorker_Options(t *testing.T) {
	r := NewRouter(Options{Scraper: &fakeScraper{}})
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "GET, POST, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "86400", rec.Header().Get("Access-Control-Max-Age"))
}

func TestWorker_CORS(t *testing.T) {
	scraper := &fakeScraper{details: ingestion.Assemble(ingestion.RawFields{})}

	t.Run("any origin when unconfigured", func(t *testing.T) {
		rec := post(t, NewRouter(Options{Scraper: scraper}), `{"url":"`+jobURL+`"}`, "Origin", "https://anywhere.example")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("allowed origin", func(t *testing.T) {
		r := NewRouter(Options{Scraper: scraper, AllowedOrigins: []string{"https://app.example"}})
		rec := post(t, r, `{"url":"`+jobURL+`"}`, "Origin", "https://app.example")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rejected origin", func(t *testing.T) {
		r := NewRouter(Options{Scraper: scraper, AllowedOrigins: []string{"https://app.example"}})
		rec := post(t, r, `{"url":"`+jobURL+`"}`, "Origin", "https://evil.example")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

// The worker extractor and the worker endpoint are exercised together against a fake job page.
func TestWorker_WithWorkerExtractor(t *testing.T) {
	page, err := os.ReadFile("../ingestion/testdata/job_posting.html")
	require.NoError(t, err)
	empty, err := os.ReadFile("../ingestion/testdata/no_description.html")
	require.NoError(t, err)

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		if strings.HasSuffix(r.URL.Path, "/empty") {
			_, _ = w.Write(empty)
			return
		}
		_, _ = w.Write(page)
	}))
	defer site.Close()

	retry := fetch.RetryPolicy{Attempts: 1, Delay: time.Millisecond}
	scraper := ingestion.NewPatternExtractor(ingestion.PatternOptions{Retry: retry})
	workerServer := httptest.NewServer(NewRouter(Options{Scraper: scraper}))
	defer workerServer.Close()

	extractor, err := ingestion.NewWorkerExtractor(ingestion.WorkerOptions{URL: workerServer.URL, Retry: retry})
	require.NoError(t, err)

	details, err := extractor.Extract(context.Background(), site.URL+"/linkedin.com/jobs/view/123")
	require.NoError(t, err)
	assert.Equal(t, "Staff Engineer", details.Title)
	assert.Equal(t, "Acme Corp", details.Company)
	assert.NotEmpty(t, details.Skills)

	_, err = extractor.Extract(context.Background(), site.URL+"/linkedin.com/jobs/view/empty")
	var extractionErr *ingestion.ExtractionError
	assert.ErrorAs(t, err, &extractionErr)
}

func TestServer_StartStops(t *testing.T) {
	s := NewServer(0, Options{Scraper: &fakeScraper{}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
