package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProperty() CanonicalProperty {
	return CanonicalProperty{
		ExternalID: "A1",
		Price:      250000,
		Bedrooms:   3,
		Address:    "Main St",
		IsActive:   true,
	}
}

func TestValidateProperty_ValidRecordHasNoFindings(t *testing.T) {
	findings := ValidateProperty(validProperty())
	assert.Empty(t, findings)
}

func TestValidateProperty_OneFindingPerMissingRequiredField(t *testing.T) {
	findings := ValidateProperty(CanonicalProperty{})

	require.Len(t, findings, 3)
	fields := []string{findings[0].Field, findings[1].Field, findings[2].Field}
	assert.Equal(t, []string{"external_id", "price", "address"}, fields)
}

func TestValidateProperty_NegativePrice(t *testing.T) {
	prop := validProperty()
	prop.Price = -1

	findings := ValidateProperty(prop)
	require.Len(t, findings, 1)
	assert.Equal(t, "Price must be a non-negative number", findings[0].Message)
}

func TestValidateProperty_BedroomsOutOfRange(t *testing.T) {
	prop := validProperty()
	prop.Bedrooms = 25

	findings := ValidateProperty(prop)
	require.Len(t, findings, 1)
	assert.Equal(t, "bedrooms", findings[0].Field)
	assert.Equal(t, "Invalid number of bedrooms", findings[0].Message)
}

func TestValidateProperty_BedroomsBoundaries(t *testing.T) {
	for _, bedrooms := range []int{0, 20} {
		prop := validProperty()
		prop.Bedrooms = bedrooms
		assert.Empty(t, ValidateProperty(prop))
	}
}

func TestValidateProperty_RulesAreNotShortCircuited(t *testing.T) {
	prop := CanonicalProperty{Bedrooms: 25}

	// Все правила должны отработать: три про обязательные поля
	// и одно про диапазон комнат.
	findings := ValidateProperty(prop)
	assert.Len(t, findings, 4)
}
