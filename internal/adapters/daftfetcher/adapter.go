package daftfetcher

import (
	"fmt"
	"net/http"
	"time"
)

// Config хранит все, что нужно адаптеру для общения с API Daft.ie
type Config struct {
	APIKey         string
	SearchURL      string
	RequestTimeout time.Duration
	MaxRetries     int
	// Backoff определяет паузы между повторными попытками.
	// Если не задан, используется фиксированная задержка.
	Backoff    BackoffPolicy
	RetryDelay time.Duration
}

// DaftFetcherAdapter отвечает за все взаимодействия с API Daft.ie.
// Реализует port.ListingFetcherPort.
type DaftFetcherAdapter struct {
	config     Config
	httpClient *http.Client
	backoff    BackoffPolicy
}

// NewDaftFetcherAdapter - конструктор
func NewDaftFetcherAdapter(cfg Config) (*DaftFetcherAdapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("daft fetcher: API key is required")
	}
	if cfg.SearchURL == "" {
		return nil, fmt.Errorf("daft fetcher: search URL is required")
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("daft fetcher: MaxRetries must be at least 1, got %d", cfg.MaxRetries)
	}

	backoff := cfg.Backoff
	if backoff == nil {
		backoff = NewFixedDelayPolicy(cfg.RetryDelay)
	}

	return &DaftFetcherAdapter{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		backoff: backoff,
	}, nil
}
