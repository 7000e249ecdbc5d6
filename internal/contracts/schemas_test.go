package contracts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeyFromPath(t *testing.T) {
	assert.Equal(t, "RunRequestEvent/1.0.0", generateKeyFromPath("events/run-request/v1.json"))
	assert.Equal(t, "", generateKeyFromPath("events/not-enough-parts"))
}

func TestValidateEvent_RunRequest(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid full request", `{"location": "dublin", "property_types": ["house"], "min_price": 0, "max_price": 500000}`, false},
		{"valid empty object", `{}`, false},
		{"unknown field", `{"location": "dublin", "page": 2}`, true},
		{"negative max price", `{"max_price": -1}`, true},
		{"empty location", `{"location": ""}`, true},
		{"wrong type for property_types", `{"property_types": "house"}`, true},
		{"not json at all", `not-json`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEvent("RunRequestEvent", "1.0.0", []byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEvent_UnknownEvent(t *testing.T) {
	err := ValidateEvent("NoSuchEvent", "1.0.0", []byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
