package usecases_port

import (
	"context"
	"ingestion-service/internal/core/domain"
)

// RunIngestionUseCase - входящий порт для запуска одного прогона пайплайна.
type RunIngestionUseCase interface {
	Execute(ctx context.Context, criteria domain.SearchCriteria) (*domain.RunReport, error)
}
