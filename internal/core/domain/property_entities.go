package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawListing - "сырой" объект объявления, как его вернул провайдер.
// Живет только внутри одного цикла fetch -> transform.
type RawListing map[string]interface{}

// GeoPoint - географическая точка объявления.
// Присутствует только если провайдер прислал обе координаты.
type GeoPoint struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// CanonicalProperty - нормализованная запись объявления (каноническая схема).
// external_id неизменяем и является единственным ключом для upsert.
type CanonicalProperty struct {
	ExternalID   string    `json:"external_id"`
	PropertyType string    `json:"property_type"`
	Price        float64   `json:"price"`
	Bedrooms     int       `json:"bedrooms"`
	Bathrooms    int       `json:"bathrooms"`
	Address      string    `json:"address"`
	BerRating    string    `json:"ber_rating,omitempty"`
	Description  string    `json:"description,omitempty"`
	Location     *GeoPoint `json:"location,omitempty"`
	IsActive     bool      `json:"is_active"`
}

// StoredProperty - запись после сохранения: суррогатный ID и таймстемпы
// принадлежат хранилищу, а не трансформеру.
type StoredProperty struct {
	ID uuid.UUID `json:"id"`
	CanonicalProperty
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidationFinding - одно замечание валидатора к записи.
// Это не ошибка: запись с замечаниями все равно сохраняется.
type ValidationFinding struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AuditLogEntry - запись аудита качества данных, пишется в той же
// транзакции, что и upsert самого объекта.
type AuditLogEntry struct {
	ID          uuid.UUID `json:"id"`
	PropertyID  uuid.UUID `json:"property_id"`
	CheckType   string    `json:"check_type"`
	CheckResult bool      `json:"check_result"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

// SearchCriteria - критерии поиска, которые сериализуются в запрос к провайдеру.
type SearchCriteria struct {
	Location      string   `json:"location,omitempty"`
	PropertyTypes []string `json:"property_types,omitempty"`
	MinPrice      float64  `json:"min_price,omitempty"`
	MaxPrice      float64  `json:"max_price,omitempty"`
}

// RunState - состояние одного прогона пайплайна.
type RunState string

const (
	RunStateIdle       RunState = "idle"
	RunStateFetching   RunState = "fetching"
	RunStateProcessing RunState = "processing"
	RunStateCompleted  RunState = "completed"
	RunStateFailed     RunState = "failed"
)

// RunReport - агрегированный итог одного прогона.
type RunReport struct {
	RunID      uuid.UUID `json:"run_id"`
	State      RunState  `json:"state"`
	Attempted  int       `json:"attempted"`
	Stored     int       `json:"stored"`
	Skipped    int       `json:"skipped"`
	Findings   int       `json:"findings"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
