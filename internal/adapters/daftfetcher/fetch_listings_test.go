package daftfetcher

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestion-service/internal/core/domain"
)

func newTestAdapter(t *testing.T, serverURL string, maxRetries int) *DaftFetcherAdapter {
	t.Helper()

	adapter, err := NewDaftFetcherAdapter(Config{
		APIKey:         "test-api-key",
		SearchURL:      serverURL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     maxRetries,
		Backoff:        NewFixedDelayPolicy(0),
	})
	require.NoError(t, err)
	return adapter
}

func TestFetchListings_Success(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody searchRequestDTO

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "A1", "price": 250000}, {"id": "A2", "price": 300000}]`))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, 3)

	listings, err := adapter.FetchListings(context.Background(), domain.SearchCriteria{
		Location:      "dublin",
		PropertyTypes: []string{"house"},
		MaxPrice:      500000,
	})
	require.NoError(t, err)

	require.Len(t, listings, 2)
	assert.Equal(t, "A1", listings[0]["id"])
	assert.Equal(t, "Bearer test-api-key", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "dublin", gotBody.Location)
	assert.Equal(t, []string{"house"}, gotBody.PropertyType)
	assert.Equal(t, 500000.0, gotBody.MaxPrice)
}

func TestFetchListings_EmptyResultIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, 3)

	listings, err := adapter.FetchListings(context.Background(), domain.SearchCriteria{})
	require.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFetchListings_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`[{"id": "A1"}]`))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, 3)

	listings, err := adapter.FetchListings(context.Background(), domain.SearchCriteria{})
	require.NoError(t, err)
	assert.Len(t, listings, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchListings_AllAttemptsExhausted(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, 3)

	_, err := adapter.FetchListings(context.Background(), domain.SearchCriteria{})
	require.Error(t, err)

	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 3, fetchErr.Attempts)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchListings_ContextCancelledBetweenRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	adapter, err := NewDaftFetcherAdapter(Config{
		APIKey:         "test-api-key",
		SearchURL:      server.URL,
		RequestTimeout: 5 * time.Second,
		MaxRetries:     3,
		Backoff:        NewFixedDelayPolicy(time.Minute),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err = adapter.FetchListings(ctx, domain.SearchCriteria{})
	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.ErrorIs(t, fetchErr.Cause, context.Canceled)
	// Последний сбой провайдера должен остаться в причине рядом с отменой.
	assert.ErrorContains(t, fetchErr.Cause, "non-success status code 503")
}

func TestFetchListings_MalformedResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	adapter := newTestAdapter(t, server.URL, 1)

	_, err := adapter.FetchListings(context.Background(), domain.SearchCriteria{})
	var fetchErr *domain.FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestNewDaftFetcherAdapter_ConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing api key", Config{SearchURL: "http://localhost", MaxRetries: 3}},
		{"missing search url", Config{APIKey: "key", MaxRetries: 3}},
		{"zero retries", Config{APIKey: "key", SearchURL: "http://localhost", MaxRetries: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDaftFetcherAdapter(tt.cfg)
			assert.Error(t, err)
		})
	}
}
