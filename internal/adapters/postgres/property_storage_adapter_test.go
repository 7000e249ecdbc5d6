package postgres

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ingestion-service/internal/core/domain"
)

func newStorageMock(t *testing.T) (pgxmock.PgxPoolIface, *PostgresStorageAdapter) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	adapter, err := NewPostgresStorageAdapter(mock)
	require.NoError(t, err)
	return mock, adapter
}

// anyUpsertArgs матчит 15 аргументов sqlUpsertProperty без проверки значений.
func anyUpsertArgs() []interface{} {
	args := make([]interface{}, 15)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func sampleProperty() domain.CanonicalProperty {
	return domain.CanonicalProperty{
		ExternalID:   "A1",
		PropertyType: "house",
		Price:        250000,
		Bedrooms:     3,
		Bathrooms:    2,
		Address:      "Main St",
		Location:     &domain.GeoPoint{Longitude: -6.26, Latitude: 53.34},
		IsActive:     true,
	}
}

func TestUpsert_StoresPropertyAndReturnsStorageOwnedFields(t *testing.T) {
	mock, adapter := newStorageMock(t)

	propertyID := uuid.New()
	createdAt := time.Now().UTC().Add(-time.Hour)
	updatedAt := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(sqlUpsertProperty).
		WithArgs(anyUpsertArgs()...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(propertyID, createdAt, updatedAt))
	mock.ExpectCommit()
	mock.ExpectRollback()

	stored, err := adapter.Upsert(context.Background(), sampleProperty(), nil)
	require.NoError(t, err)

	// ID и таймстемпы принадлежат хранилищу: берутся из RETURNING,
	// created_at при повторном upsert остается от первой вставки.
	assert.Equal(t, propertyID, stored.ID)
	assert.Equal(t, createdAt, stored.CreatedAt)
	assert.Equal(t, updatedAt, stored.UpdatedAt)
	assert.Equal(t, "A1", stored.ExternalID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_WritesOneAuditRowPerFinding(t *testing.T) {
	mock, adapter := newStorageMock(t)

	propertyID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(sqlUpsertProperty).
		WithArgs(anyUpsertArgs()...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(propertyID, now, now))
	mock.ExpectExec(sqlInsertAuditEntry).
		WithArgs(pgxmock.AnyArg(), propertyID, "validation_error", false, "Invalid number of bedrooms", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(sqlInsertAuditEntry).
		WithArgs(pgxmock.AnyArg(), propertyID, "validation_error", false, "Missing required field: address", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	findings := []domain.ValidationFinding{
		{Field: "bedrooms", Message: "Invalid number of bedrooms"},
		{Field: "address", Message: "Missing required field: address"},
	}
	_, err := adapter.Upsert(context.Background(), sampleProperty(), findings)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_AuditFailureRollsBackTheWholeTransaction(t *testing.T) {
	mock, adapter := newStorageMock(t)

	propertyID := uuid.New()
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(sqlUpsertProperty).
		WithArgs(anyUpsertArgs()...).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(propertyID, now, now))
	mock.ExpectExec(sqlInsertAuditEntry).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	findings := []domain.ValidationFinding{{Field: "price", Message: "Missing required field: price"}}
	_, err := adapter.Upsert(context.Background(), sampleProperty(), findings)

	var persistErr *domain.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	assert.Equal(t, "A1", persistErr.ExternalID)
	// Commit не ожидался и не должен был случиться: либо объект и аудит
	// коммитятся вместе, либо откатывается все.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_PropertyWriteFailure(t *testing.T) {
	mock, adapter := newStorageMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(sqlUpsertProperty).
		WithArgs(anyUpsertArgs()...).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := adapter.Upsert(context.Background(), sampleProperty(), nil)

	var persistErr *domain.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_BeginFailure(t *testing.T) {
	mock, adapter := newStorageMock(t)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	_, err := adapter.Upsert(context.Background(), sampleProperty(), nil)

	var persistErr *domain.PersistenceError
	require.True(t, errors.As(err, &persistErr))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertStatement_ImmutableColumnsStayOutOfUpdateSet(t *testing.T) {
	setStart := strings.Index(sqlUpsertProperty, "DO UPDATE SET")
	setEnd := strings.Index(sqlUpsertProperty, "RETURNING")
	require.True(t, setStart > 0 && setEnd > setStart)
	setClause := sqlUpsertProperty[setStart:setEnd]

	// id, external_id и created_at неизменяемы после первой вставки.
	for _, column := range []string{"id", "external_id", "created_at"} {
		re := regexp.MustCompile(`(?m)^\s*` + column + `\s*=`)
		assert.False(t, re.MatchString(setClause), "column %s must not be updated", column)
	}
	assert.Regexp(t, `(?m)^\s*updated_at\s*=`, setClause)
}

func TestAuditStatement_UsesTimestampColumn(t *testing.T) {
	assert.Contains(t, sqlInsertAuditEntry, "timestamp")
	assert.NotContains(t, sqlInsertAuditEntry, "created_at")
}
