package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMeters(t *testing.T) {
	t.Parallel()

	t.Run("SamePointIsZero", func(t *testing.T) {
		t.Parallel()
		assert.InDelta(t, 0.0, haversineMeters(-34.92, 138.6, -34.92, 138.6), 1e-9)
	})

	t.Run("OneDegreeLatitude", func(t *testing.T) {
		t.Parallel()
		// One degree of latitude on a 6371km sphere.
		assert.InDelta(t, 111194.9, haversineMeters(0, 0, 1, 0), 1.0)
	})

	t.Run("Symmetric", func(t *testing.T) {
		t.Parallel()
		ab := haversineMeters(-34.9192, 138.6043, -34.9196, 138.6042)
		ba := haversineMeters(-34.9196, 138.6042, -34.9192, 138.6043)
		assert.InDelta(t, ab, ba, 1e-9)
		assert.Greater(t, ab, 0.0)
	})
}
