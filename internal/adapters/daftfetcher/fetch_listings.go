package daftfetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"ingestion-service/internal/contextkeys"
	"ingestion-service/internal/core/domain"
	"ingestion-service/internal/core/port"
)

// searchRequestDTO - тело поискового запроса в формате провайдера.
type searchRequestDTO struct {
	Location     string   `json:"location,omitempty"`
	PropertyType []string `json:"propertyType,omitempty"`
	MinPrice     float64  `json:"minPrice,omitempty"`
	MaxPrice     float64  `json:"maxPrice,omitempty"`
}

func toSearchRequestDTO(criteria domain.SearchCriteria) searchRequestDTO {
	return searchRequestDTO{
		Location:     criteria.Location,
		PropertyType: criteria.PropertyTypes,
		MinPrice:     criteria.MinPrice,
		MaxPrice:     criteria.MaxPrice,
	}
}

// FetchListings выполняет один поисковый запрос к провайдеру с повторами.
// Каждая попытка - это отдельный POST; между попытками пауза, которую
// выдает BackoffPolicy. После MaxRetries неудач возвращается
// *domain.FetchError с последней причиной внутри.
func (a *DaftFetcherAdapter) FetchListings(ctx context.Context, criteria domain.SearchCriteria) ([]domain.RawListing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "DaftFetcherAdapter",
		"url":       a.config.SearchURL,
	})

	body, err := json.Marshal(toSearchRequestDTO(criteria))
	if err != nil {
		return nil, fmt.Errorf("daft fetcher: failed to marshal search criteria: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= a.config.MaxRetries; attempt++ {
		listings, err := a.doSearchRequest(ctx, body)
		if err == nil {
			logger.Info("Listings fetched from provider", port.Fields{
				"attempt":       attempt,
				"listing_count": len(listings),
			})
			return listings, nil
		}
		lastErr = err
		logger.Warn("Provider request failed", port.Fields{
			"attempt":      attempt,
			"max_attempts": a.config.MaxRetries,
			"cause":        err.Error(),
		})

		if attempt == a.config.MaxRetries {
			break
		}

		select {
		case <-time.After(a.backoff.NextDelay(attempt)):
		case <-ctx.Done():
			// Последний ответ провайдера не теряем: без него причина
			// отмененного прогона нечитаема.
			return nil, &domain.FetchError{Attempts: attempt, Cause: errors.Join(ctx.Err(), lastErr)}
		}
	}

	fetchErr := &domain.FetchError{Attempts: a.config.MaxRetries, Cause: lastErr}
	logger.Error("Failed to fetch listings, all attempts exhausted", fetchErr, nil)
	return nil, fetchErr
}

// doSearchRequest - одна попытка: POST с bearer-токеном и JSON-телом.
// Любой не-2xx статус считается временным сбоем.
func (a *DaftFetcherAdapter) doSearchRequest(ctx context.Context, body []byte) ([]domain.RawListing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.SearchURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to provider failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("provider returned non-success status code %d: %s", resp.StatusCode, string(bodyBytes))
	}

	// Провайдер отвечает JSON-массивом объявлений.
	// Пустой массив - валидный результат без объявлений.
	var listings []domain.RawListing
	if err := json.NewDecoder(resp.Body).Decode(&listings); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}

	return listings, nil
}
