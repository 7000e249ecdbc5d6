package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformListing_FullListing(t *testing.T) {
	raw := RawListing{
		"id":           "A1",
		"propertyType": "house",
		"price":        float64(250000),
		"bedrooms":     float64(3),
		"bathrooms":    float64(2),
		"address":      "Main St",
		"berRating":    "B2",
		"description":  "Nice house",
		"longitude":    -6.26,
		"latitude":     53.34,
	}

	prop, err := TransformListing(raw)
	require.NoError(t, err)

	assert.Equal(t, "A1", prop.ExternalID)
	assert.Equal(t, "house", prop.PropertyType)
	assert.Equal(t, 250000.0, prop.Price)
	assert.Equal(t, 3, prop.Bedrooms)
	assert.Equal(t, 2, prop.Bathrooms)
	assert.Equal(t, "Main St", prop.Address)
	assert.Equal(t, "B2", prop.BerRating)
	assert.True(t, prop.IsActive)
	require.NotNil(t, prop.Location)
	assert.Equal(t, -6.26, prop.Location.Longitude)
	assert.Equal(t, 53.34, prop.Location.Latitude)
}

func TestTransformListing_NonNumericPrice(t *testing.T) {
	raw := RawListing{
		"id":      "A2",
		"price":   "free",
		"address": "Oak Rd",
	}

	_, err := TransformListing(raw)
	require.Error(t, err)

	var transformErr *TransformError
	require.True(t, errors.As(err, &transformErr))
	assert.Equal(t, "price", transformErr.Field)
}

func TestTransformListing_MissingOptionalNumericsDefaultToZero(t *testing.T) {
	raw := RawListing{
		"id":      "A5",
		"price":   float64(100000),
		"address": "Elm St",
	}

	prop, err := TransformListing(raw)
	require.NoError(t, err)

	// Отсутствующее количество комнат неотличимо от нулевого.
	assert.Equal(t, 0, prop.Bedrooms)
	assert.Equal(t, 0, prop.Bathrooms)
}

func TestTransformListing_MissingPriceDefaultsToZero(t *testing.T) {
	raw := RawListing{"id": "A6", "address": "Elm St"}

	prop, err := TransformListing(raw)
	require.NoError(t, err)
	assert.Equal(t, 0.0, prop.Price)
}

func TestTransformListing_LocationRequiresBothCoordinates(t *testing.T) {
	tests := []struct {
		name string
		raw  RawListing
	}{
		{"only longitude", RawListing{"id": "B1", "price": 1.0, "address": "x", "longitude": -6.26}},
		{"only latitude", RawListing{"id": "B2", "price": 1.0, "address": "x", "latitude": 53.34}},
		{"latitude is null", RawListing{"id": "B3", "price": 1.0, "address": "x", "longitude": -6.26, "latitude": nil}},
		{"no coordinates", RawListing{"id": "B4", "price": 1.0, "address": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := TransformListing(tt.raw)
			require.NoError(t, err)
			assert.Nil(t, prop.Location)
		})
	}
}

func TestTransformListing_CoercesStringNumbers(t *testing.T) {
	raw := RawListing{
		"id":       12345,
		"price":    "250000",
		"bedrooms": "3",
		"address":  "Main St",
	}

	prop, err := TransformListing(raw)
	require.NoError(t, err)

	assert.Equal(t, "12345", prop.ExternalID)
	assert.Equal(t, 250000.0, prop.Price)
	assert.Equal(t, 3, prop.Bedrooms)
}

func TestTransformListing_NonIntegerBedrooms(t *testing.T) {
	raw := RawListing{
		"id":       "A7",
		"price":    1.0,
		"bedrooms": "many",
		"address":  "Main St",
	}

	_, err := TransformListing(raw)
	var transformErr *TransformError
	require.True(t, errors.As(err, &transformErr))
	assert.Equal(t, "bedrooms", transformErr.Field)
}
