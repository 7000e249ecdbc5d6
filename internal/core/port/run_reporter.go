package port

import (
	"context"
	"ingestion-service/internal/core/domain"
)

// RunReporterPort - исходящий порт для публикации итогов прогона.
type RunReporterPort interface {
	ReportRun(ctx context.Context, report *domain.RunReport) error
}
