package port

import (
	"context"
	"ingestion-service/internal/core/domain"
)

// PropertyStoragePort - исходящий порт к хранилищу объектов.
// Upsert сохраняет запись по external_id и в той же транзакции пишет
// по одной записи аудита на каждое замечание валидатора.
// При любом сбое транзакции возвращает *domain.PersistenceError.
type PropertyStoragePort interface {
	Upsert(ctx context.Context, prop domain.CanonicalProperty, findings []domain.ValidationFinding) (*domain.StoredProperty, error)
}
