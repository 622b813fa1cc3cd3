package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPressureToMmHg(t *testing.T) {
	tests := []struct {
		hpa  float64
		want int
	}{
		{1013, 760},
		{1000, 750},
		{980, 735},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PressureToMmHg(tt.hpa), "hpa=%v", tt.hpa)
	}
}

func TestRoundTemp(t *testing.T) {
	assert.Equal(t, 3, RoundTemp(2.5))
	assert.Equal(t, 2, RoundTemp(2.4))
	assert.Equal(t, -3, RoundTemp(-2.5))
	assert.Equal(t, 0, RoundTemp(-0.3))
}
