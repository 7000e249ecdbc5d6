package port

import (
	"context"
	"ingestion-service/internal/core/domain"
)

// ListingFetcherPort - исходящий порт к API провайдера объявлений.
// Пустой результат - это валидный исход, а не ошибка.
// После исчерпания всех попыток возвращает *domain.FetchError.
type ListingFetcherPort interface {
	FetchListings(ctx context.Context, criteria domain.SearchCriteria) ([]domain.RawListing, error)
}
