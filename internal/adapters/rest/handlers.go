package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"ingestion-service/internal/contextkeys"
	"ingestion-service/internal/contracts"
	"ingestion-service/internal/core/domain"
	"ingestion-service/internal/core/port"
	"ingestion-service/internal/core/port/usecases_port"
)

type IngestionHandlers struct {
	runIngestionUC usecases_port.RunIngestionUseCase
}

// NewIngestionHandlers - конструктор для наших обработчиков.
func NewIngestionHandlers(runIngestionUC usecases_port.RunIngestionUseCase) *IngestionHandlers {
	return &IngestionHandlers{
		runIngestionUC: runIngestionUC,
	}
}

// HandleStartRun - обработчик для POST /api/v1/runs.
// Запускает один прогон пайплайна с переданными критериями поиска
// и отвечает итоговым отчетом.
func (h *IngestionHandlers) HandleStartRun(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "HandleStartRun"})

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("Failed to read request body", err, nil)
		WriteJSONError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "Request body is empty")
		return
	}

	// Проверяем тело по контрактной схеме до какого-либо разбора
	if err := contracts.ValidateEvent("RunRequestEvent", "1.0.0", body); err != nil {
		logger.Warn("Run request failed contract validation", port.Fields{"cause": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	var reqDTO RunRequestDTO
	if err := json.Unmarshal(body, &reqDTO); err != nil {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	logger.Info("Received request to start pipeline run", port.Fields{"location": reqDTO.Location})

	report, err := h.runIngestionUC.Execute(r.Context(), reqDTO.toDomainCriteria())
	if err != nil {
		var fetchErr *domain.FetchError
		if errors.As(err, &fetchErr) {
			// Провайдер так и не ответил: прогон не начался, данных нет
			logger.Error("Pipeline run failed: provider unavailable", err, nil)
			WriteJSONError(w, http.StatusBadGateway, "Listing provider is unavailable")
			return
		}
		logger.Error("Pipeline run failed", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Pipeline run failed")
		return
	}

	logger.Info("Pipeline run finished", port.Fields{
		"run_id": report.RunID.String(),
		"stored": report.Stored,
	})
	RespondWithJSON(w, http.StatusOK, report)
}
