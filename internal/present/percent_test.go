package present

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPercentMatch(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{"perfect", 1.0, 100},
		{"neutral", 0.0, 50},
		{"worst", -1.0, 0},
		{"typical", 0.62, 81},
		{"rounds half up", 0.25, 63},
		{"clamps above", 1.4, 100},
		{"clamps below", -2.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentMatch(tt.score))
		})
	}
}
