package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsCompliant(t *testing.T) {
	tests := []struct {
		name       string
		compliance map[string]string
		want       bool
	}{
		{"nil map", nil, true},
		{"empty map", map[string]string{}, true},
		{"all yes", map[string]string{"Helmet": "Yes", "Vest": "Yes"}, true},
		{"one no", map[string]string{"Helmet": "Yes", "Vest": "No"}, false},
		{"all no", map[string]string{"Helmet": "No", "Vest": "No"}, false},
		{"unknown value is not a violation", map[string]string{"Helmet": "unknown"}, true},
		{"lowercase no is not a violation", map[string]string{"Helmet": "no"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCompliant(tt.compliance))
		})
	}
}
