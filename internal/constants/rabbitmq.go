package constants

// Имена обменников и ключи маршрутизации для событий пайплайна
const (
	IngestionExchange = "ingestion_exchange"

	RoutingKeyRunReports = "ingestion.run_reports"
)
