package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundFloat(t *testing.T) {
	assert.Equal(t, 19.53, RoundFloat(50/(1.6*1.6), 2))
	assert.Equal(t, 22.5, RoundFloat(22.4999999, 2))
	assert.Equal(t, 0.0, RoundFloat(0.004, 2))
	assert.Equal(t, 1.2346, RoundFloat(1.23456, 4))
}

func TestCalculateStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Stats{}, CalculateStats(nil))
	})

	t.Run("single value has no deviation", func(t *testing.T) {
		s := CalculateStats([]float64{1.75})
		assert.Equal(t, 1, s.Count)
		assert.Equal(t, 1.75, s.Mean)
		assert.Equal(t, 0.0, s.StdDev)
		assert.Equal(t, 1.75, s.Min)
		assert.Equal(t, 1.75, s.Max)
	})

	t.Run("sample deviation", func(t *testing.T) {
		s := CalculateStats([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		assert.Equal(t, 8, s.Count)
		assert.Equal(t, 5.0, s.Mean)
		assert.Equal(t, 2.1381, s.StdDev)
		assert.Equal(t, 2.0, s.Min)
		assert.Equal(t, 9.0, s.Max)
	})
}
