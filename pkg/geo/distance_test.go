package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	t.Parallel()

	// Downtown Austin to Round Rock, roughly 27km.
	austin := NewPoint(-97.7431, 30.2672)
	roundRock := NewPoint(-97.6789, 30.5083)

	d := DistanceKm(austin, roundRock)
	assert.InDelta(t, 27.5, d, 1.5)

	// Symmetric.
	assert.InDelta(t, d, DistanceKm(roundRock, austin), 1e-9)

	// Same point.
	assert.Zero(t, DistanceKm(austin, austin))
}

func TestDistanceKm_LongHaul(t *testing.T) {
	t.Parallel()

	// New York to Los Angeles, roughly 3936km.
	nyc := NewPoint(-74.0060, 40.7128)
	la := NewPoint(-118.2437, 34.0522)

	assert.InDelta(t, 3936, DistanceKm(nyc, la), 30)
}

func TestPointScan(t *testing.T) {
	t.Parallel()

	var p Point
	assert.NoError(t, p.Scan([]byte("(-97.743100,30.267200)")))
	assert.InDelta(t, -97.7431, p.Longitude(), 1e-6)
	assert.InDelta(t, 30.2672, p.Latitude(), 1e-6)

	assert.Error(t, p.Scan(42))
}
