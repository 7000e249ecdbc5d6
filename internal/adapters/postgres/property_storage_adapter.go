package postgres

import (
	"context"
	"fmt"
	"time"

	"ingestion-service/internal/constants"
	"ingestion-service/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DB - минимальный контракт пула соединений, нужный адаптеру:
// достаточно уметь открывать транзакцию. Ему соответствует *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresStorageAdapter реализует PropertyStoragePort для PostgreSQL.
type PostgresStorageAdapter struct {
	db DB
}

// NewPostgresStorageAdapter создает новый экземпляр адаптера.
func NewPostgresStorageAdapter(db DB) (*PostgresStorageAdapter, error) {
	if db == nil {
		return nil, fmt.Errorf("database pool cannot be nil")
	}
	return &PostgresStorageAdapter{
		db: db,
	}, nil
}

// sqlUpsertProperty - явный список изменяемых полей в DO UPDATE SET.
// id, external_id и created_at в списке отсутствуют намеренно: они
// неизменяемы после первой вставки.
const sqlUpsertProperty = `
	INSERT INTO properties (
		id, external_id, property_type, price, bedrooms, bathrooms,
		address, ber_rating, description, longitude, latitude, geohash,
		is_active, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)
	ON CONFLICT (external_id) DO UPDATE SET
		property_type = EXCLUDED.property_type,
		price = EXCLUDED.price,
		bedrooms = EXCLUDED.bedrooms,
		bathrooms = EXCLUDED.bathrooms,
		address = EXCLUDED.address,
		ber_rating = EXCLUDED.ber_rating,
		description = EXCLUDED.description,
		longitude = EXCLUDED.longitude,
		latitude = EXCLUDED.latitude,
		geohash = EXCLUDED.geohash,
		is_active = EXCLUDED.is_active,
		updated_at = EXCLUDED.updated_at
	RETURNING id, created_at, updated_at;
`

const sqlInsertAuditEntry = `
	INSERT INTO data_quality_logs (
		id, property_id, check_type, check_result, message, timestamp
	) VALUES ($1, $2, $3, $4, $5, $6);
`

// Upsert сохраняет запись по external_id и пишет записи аудита в одной
// транзакции. Либо коммитится все, либо не меняется ничего.
func (a *PostgresStorageAdapter) Upsert(ctx context.Context, prop domain.CanonicalProperty, findings []domain.ValidationFinding) (*domain.StoredProperty, error) {
	tx, err := a.db.Begin(ctx)
	if err != nil {
		return nil, &domain.PersistenceError{ExternalID: prop.ExternalID, Cause: fmt.Errorf("failed to begin transaction: %w", err)}
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	var longitude, latitude *float64
	var geohashValue *string
	if prop.Location != nil {
		longitude = &prop.Location.Longitude
		latitude = &prop.Location.Latitude
		gh := pointGeohash(*prop.Location)
		geohashValue = &gh
	}

	stored := &domain.StoredProperty{CanonicalProperty: prop}
	err = tx.QueryRow(ctx, sqlUpsertProperty,
		uuid.New(), prop.ExternalID, nullIfEmpty(prop.PropertyType), prop.Price,
		prop.Bedrooms, prop.Bathrooms, prop.Address,
		nullIfEmpty(prop.BerRating), nullIfEmpty(prop.Description),
		longitude, latitude, geohashValue,
		prop.IsActive, now, now,
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return nil, &domain.PersistenceError{ExternalID: prop.ExternalID, Cause: fmt.Errorf("failed to upsert property: %w", err)}
	}

	// Записи аудита ссылаются на уже известный суррогатный ID
	// и попадают в ту же транзакцию, что и сам объект.
	for _, finding := range findings {
		entry := domain.AuditLogEntry{
			ID:          uuid.New(),
			PropertyID:  stored.ID,
			CheckType:   constants.CheckTypeValidationError,
			CheckResult: false,
			Message:     finding.Message,
			Timestamp:   now,
		}
		_, err = tx.Exec(ctx, sqlInsertAuditEntry,
			entry.ID, entry.PropertyID, entry.CheckType, entry.CheckResult, entry.Message, entry.Timestamp,
		)
		if err != nil {
			return nil, &domain.PersistenceError{ExternalID: prop.ExternalID, Cause: fmt.Errorf("failed to insert audit entry for field '%s': %w", finding.Field, err)}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, &domain.PersistenceError{ExternalID: prop.ExternalID, Cause: fmt.Errorf("failed to commit transaction: %w", err)}
	}

	return stored, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
