package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ingestion-service/internal/contextkeys"
	"ingestion-service/internal/core/domain"
	"ingestion-service/internal/core/port"
	"ingestion-service/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// RunReportPublisher - реализация порта RunReporterPort для RabbitMQ
type RunReportPublisher struct {
	producer   *rabbitmq_producer.Publisher
	routingKey string
}

// NewRunReportPublisher - конструктор
func NewRunReportPublisher(producer *rabbitmq_producer.Publisher, routingKey string) (*RunReportPublisher, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &RunReportPublisher{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

// ReportRun публикует итог прогона пайплайна.
func (a *RunReportPublisher) ReportRun(ctx context.Context, report *domain.RunReport) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":   "RunReportPublisher",
		"routing_key": a.routingKey,
		"run_id":      report.RunID.String(),
	})

	body, err := json.Marshal(report)
	if err != nil {
		adapterLogger.Error("Failed to marshal run report", err, nil)
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		Timestamp:    time.Now(),
		Headers:      make(amqp.Table),
	}

	// Извлекаем trace_id из контекста и кладем в заголовки
	traceID := contextkeys.TraceIDFromContext(ctx)
	if traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	adapterLogger.Debug("Publishing run report", nil)
	err = a.producer.Publish(publishCtx, a.routingKey, msg)
	if err != nil {
		adapterLogger.Error("Failed to publish run report", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish run report for run %s: %w", report.RunID, err)
	}

	adapterLogger.Info("Successfully published run report", port.Fields{
		"stored":  report.Stored,
		"skipped": report.Skipped,
	})
	return nil
}
