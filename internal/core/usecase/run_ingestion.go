package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ingestion-service/internal/contextkeys"
	"ingestion-service/internal/core/domain"
	"ingestion-service/internal/core/port"

	"github.com/google/uuid"
)

// RunIngestionUseCase - оркестратор одного прогона пайплайна:
// Fetcher -> (по записи) Transformer -> Validator -> Storage.
// Сбой fetch фатален для прогона; сбой трансформации или сохранения
// одной записи логируется, запись пропускается, прогон продолжается.
type RunIngestionUseCase struct {
	fetcher  port.ListingFetcherPort
	storage  port.PropertyStoragePort
	reporter port.RunReporterPort
}

// NewRunIngestionUseCase создает новый экземпляр use case.
func NewRunIngestionUseCase(
	fetcher port.ListingFetcherPort,
	storage port.PropertyStoragePort,
	reporter port.RunReporterPort,
) *RunIngestionUseCase {
	return &RunIngestionUseCase{
		fetcher:  fetcher,
		storage:  storage,
		reporter: reporter,
	}
}

// Execute выполняет один прогон: Idle -> Fetching -> Processing -> Completed,
// либо Idle -> Fetching -> Failed, если провайдер недоступен.
// Каждый вызов владеет своим собственным отчетом, поэтому параллельные
// прогоны с разными критериями не делят никакого состояния.
func (uc *RunIngestionUseCase) Execute(ctx context.Context, criteria domain.SearchCriteria) (*domain.RunReport, error) {
	logger := contextkeys.LoggerFromContext(ctx)

	report := &domain.RunReport{
		RunID:     uuid.New(),
		State:     domain.RunStateIdle,
		StartedAt: time.Now().UTC(),
	}

	runLogger := logger.WithFields(port.Fields{
		"use_case": "RunIngestion",
		"run_id":   report.RunID.String(),
	})
	runLogger.Info("Pipeline run started", port.Fields{"location": criteria.Location})

	// --- Fetching ---
	report.State = domain.RunStateFetching
	listings, err := uc.fetcher.FetchListings(ctx, criteria)
	if err != nil {
		report.State = domain.RunStateFailed
		report.FinishedAt = time.Now().UTC()
		runLogger.Error("Pipeline run failed during fetch", err, nil)
		return report, fmt.Errorf("pipeline run %s failed: %w", report.RunID, err)
	}
	runLogger.Info("Listings fetched", port.Fields{"listing_count": len(listings)})

	// --- Processing ---
	report.State = domain.RunStateProcessing
	for _, raw := range listings {
		report.Attempted++
		uc.processListing(ctx, runLogger, raw, report)
	}

	report.State = domain.RunStateCompleted
	report.FinishedAt = time.Now().UTC()

	runLogger.Info("Pipeline run completed", port.Fields{
		"attempted": report.Attempted,
		"stored":    report.Stored,
		"skipped":   report.Skipped,
		"findings":  report.Findings,
	})

	// Отчет о прогоне публикуем по принципу best effort: сами данные уже
	// сохранены, поэтому сбой публикации не делает прогон неуспешным.
	if uc.reporter != nil {
		if err := uc.reporter.ReportRun(ctx, report); err != nil {
			runLogger.Error("Failed to report run results after successful run", err, nil)
		}
	}

	return report, nil
}

// processListing проводит одну запись через transform -> validate -> store.
// Любая ошибка здесь касается только этой записи.
func (uc *RunIngestionUseCase) processListing(ctx context.Context, runLogger port.LoggerPort, raw domain.RawListing, report *domain.RunReport) {
	prop, err := domain.TransformListing(raw)
	if err != nil {
		report.Skipped++
		var transformErr *domain.TransformError
		if errors.As(err, &transformErr) {
			runLogger.Warn("Listing skipped: transform failed", port.Fields{
				"external_id": fmt.Sprintf("%v", raw["id"]),
				"field":       transformErr.Field,
				"cause":       transformErr.Cause.Error(),
			})
			return
		}
		runLogger.Error("Listing skipped: unexpected transform failure", err, nil)
		return
	}

	findings := domain.ValidateProperty(prop)
	report.Findings += len(findings)
	if len(findings) > 0 {
		runLogger.Warn("Validation findings for property", port.Fields{
			"external_id":   prop.ExternalID,
			"finding_count": len(findings),
		})
	}

	// Замечания валидатора не блокируют сохранение: они уедут в аудит
	// в той же транзакции, что и сама запись.
	stored, err := uc.storage.Upsert(ctx, prop, findings)
	if err != nil {
		report.Skipped++
		runLogger.Error("Listing skipped: persistence failed", err, port.Fields{
			"external_id": prop.ExternalID,
		})
		return
	}

	report.Stored++
	runLogger.Debug("Property stored", port.Fields{
		"external_id": stored.ExternalID,
		"property_id": stored.ID.String(),
	})
}
