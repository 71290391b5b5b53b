package anchor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeymap/internal/geometry"
)

func TestResolveWithinThreshold(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, Threshold)
	candidates := []Candidate{{ID: "b", Origin: geometry.Point{X: 100, Y: 100}}}

	m, ok := r.Resolve(geometry.Point{X: 260, Y: 140}, "a", candidates)
	require.True(t, ok)
	assert.Equal(t, "b", m.NodeID)
	assert.Equal(t, geometry.Right, m.Anchor)
	assert.Equal(t, geometry.Point{X: 250, Y: 140}, m.Point)
	assert.Equal(t, 10.0, m.Distance)
}

func TestResolveOutsideThreshold(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, Threshold)
	candidates := []Candidate{{ID: "b", Origin: geometry.Point{X: 100, Y: 100}}}

	_, ok := r.Resolve(geometry.Point{X: 300, Y: 140}, "a", candidates)
	assert.False(t, ok)
}

func TestResolveThresholdIsExclusive(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, Threshold)
	candidates := []Candidate{{ID: "b", Origin: geometry.Point{X: 100, Y: 100}}}

	_, ok := r.Resolve(geometry.Point{X: 285, Y: 140}, "a", candidates)
	assert.False(t, ok)
}

func TestResolveExcludesSource(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, Threshold)
	candidates := []Candidate{{ID: "a", Origin: geometry.Point{X: 100, Y: 100}}}

	_, ok := r.Resolve(geometry.Point{X: 250, Y: 140}, "a", candidates)
	assert.False(t, ok)
}

func TestResolvePicksNearest(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, Threshold)
	candidates := []Candidate{
		{ID: "far", Origin: geometry.Point{X: 0, Y: 0}},
		{ID: "near", Origin: geometry.Point{X: 20, Y: 0}},
	}

	// far's right anchor is (150,40), near's left anchor is (20,40).
	m, ok := r.Resolve(geometry.Point{X: 25, Y: 40}, "", candidates)
	require.True(t, ok)
	assert.Equal(t, "near", m.NodeID)
	assert.Equal(t, geometry.Left, m.Anchor)
}

func TestResolveTieKeepsFirst(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, Threshold)
	candidates := []Candidate{
		{ID: "first", Origin: geometry.Point{X: 0, Y: 0}},
		{ID: "second", Origin: geometry.Point{X: 0, Y: 0}},
	}

	m, ok := r.Resolve(geometry.Point{X: 75, Y: 5}, "", candidates)
	require.True(t, ok)
	assert.Equal(t, "first", m.NodeID)
	assert.Equal(t, geometry.Top, m.Anchor)
}

func TestNewResolverDefaultsThreshold(t *testing.T) {
	r := NewResolver(geometry.DefaultSize, 0)
	assert.Equal(t, Threshold, r.Threshold)
}
