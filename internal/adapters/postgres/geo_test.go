package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ingestion-service/internal/core/domain"
)

func TestPointGeohash(t *testing.T) {
	dublin := domain.GeoPoint{Longitude: -6.26, Latitude: 53.34}

	gh := pointGeohash(dublin)
	assert.Len(t, gh, geohashPrecision)
	// Одинаковые точки всегда дают одинаковый хэш.
	assert.Equal(t, gh, pointGeohash(dublin))

	// Соседние точки в пределах одного района делят укороченный хэш.
	nearby := domain.GeoPoint{Longitude: -6.2601, Latitude: 53.3401}
	assert.Equal(t, gh, pointGeohash(nearby))

	// Другой город - другая корзина.
	cork := domain.GeoPoint{Longitude: -8.47, Latitude: 51.9}
	assert.NotEqual(t, gh, pointGeohash(cork))
}

func TestNullIfEmpty(t *testing.T) {
	assert.Nil(t, nullIfEmpty(""))

	got := nullIfEmpty("B2")
	if assert.NotNil(t, got) {
		assert.Equal(t, "B2", *got)
	}
}
