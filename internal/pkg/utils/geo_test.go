package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("same point is zero", func(t *testing.T) {
		assert.Equal(t, 0.0, HaversineDistance(23.0225, 72.5714, 23.0225, 72.5714))
	})

	t.Run("one degree of longitude on the equator", func(t *testing.T) {
		d := HaversineDistance(0, 0, 0, 1)
		assert.InDelta(t, 2*math.Pi*earthRadiusMeters/360, d, 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		ab := HaversineDistance(23.0225, 72.5714, 23.05, 72.60)
		ba := HaversineDistance(23.05, 72.60, 23.0225, 72.5714)
		assert.InDelta(t, ab, ba, 1e-9)
	})
}

func TestValidateCoordinates(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"origin", 0, 0, true},
		{"bounds", -90, 180, true},
		{"lat too high", 90.0001, 0, false},
		{"lon too low", 0, -180.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateCoordinates(tt.lat, tt.lon))
		})
	}
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 23.0225, RoundTo(23.02251234, 4))
	assert.Equal(t, 72.58, RoundTo(72.58, 4))
	assert.Equal(t, -0.0001, RoundTo(-0.00012, 4))
}
