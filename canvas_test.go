package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeymap/internal/anchor"
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

func testLayout() layout {
	return layout{cellW: 10, cellH: 20, size: geometry.DefaultSize, top: 1}
}

func TestRenderBoxWithAnchors(t *testing.T) {
	nodes := []journey.Node{{ID: "n1", Content: journey.Content{Name: "Teaser", Format: "Video", QualityScore: 82}}}
	lines := NewCanvas(testLayout(), 20, 5, nodes, nil).Render()
	require.Len(t, lines, 5)
	assert.Equal(t, "+------o------+     ", lines[0])
	assert.Equal(t, "|Teaser       |     ", lines[1])
	assert.Equal(t, "oVideo Q82    o     ", lines[2])
	assert.Equal(t, "+------o------+     ", lines[3])
	assert.Equal(t, strings.Repeat(" ", 20), lines[4])
}

func TestRenderSelectedBox(t *testing.T) {
	nodes := []journey.Node{{ID: "n1", Content: journey.Content{Name: "x"}}}
	c := NewCanvas(testLayout(), 16, 4, nodes, nil)
	c.Select("n1")
	lines := c.Render()
	assert.Equal(t, "#######o####### ", lines[0])
}

func TestRenderConnectionArrow(t *testing.T) {
	nodes := []journey.Node{
		{ID: "a", Content: journey.Content{Name: "a"}, Position: geometry.Point{X: 0, Y: 0}},
		{ID: "b", Content: journey.Content{Name: "b"}, Position: geometry.Point{X: 300, Y: 0}},
	}
	conns := []journey.Connection{{ID: "e", From: "a", To: "b"}}
	lines := NewCanvas(testLayout(), 50, 4, nodes, conns).Render()
	// right anchor of a, connector, arrow, left anchor of b
	assert.Equal(t, "o"+strings.Repeat("-", 14)+">o", lines[2][14:31])
}

func TestRenderPreviewAndSnap(t *testing.T) {
	nodes := []journey.Node{
		{ID: "a", Content: journey.Content{Name: "a"}},
		{ID: "b", Content: journey.Content{Name: "b"}, Position: geometry.Point{X: 300, Y: 0}},
	}
	c := NewCanvas(testLayout(), 50, 4, nodes, nil)
	c.SetPreview(geometry.Connector(geometry.Point{X: 150, Y: 40}, geometry.Point{X: 250, Y: 40}))
	c.SetSnap(anchor.Match{NodeID: "b", Anchor: geometry.Left})
	lines := c.Render()
	assert.Equal(t, "o"+strings.Repeat(".", 10), lines[2][14:25])
	assert.Equal(t, byte('@'), lines[2][30])
}

func TestLineGlyph(t *testing.T) {
	tests := []struct {
		angle float64
		want  rune
	}{
		{0, '-'},
		{180, '-'},
		{-180, '-'},
		{45, '\\'},
		{-135, '\\'},
		{90, '|'},
		{-90, '|'},
		{135, '/'},
		{-45, '/'},
	}
	for _, tt := range tests {
		assert.Equal(t, string(tt.want), string(lineGlyph(tt.angle)), "angle %v", tt.angle)
	}
	assert.Equal(t, '>', arrowGlyph(0))
	assert.Equal(t, 'v', arrowGlyph(90))
	assert.Equal(t, '^', arrowGlyph(-90))
	assert.Equal(t, '<', arrowGlyph(180))
}

func TestNearestConnection(t *testing.T) {
	nodes := []journey.Node{
		{ID: "a", Position: geometry.Point{X: 0, Y: 0}},
		{ID: "b", Position: geometry.Point{X: 300, Y: 0}},
		{ID: "c", Position: geometry.Point{X: 300, Y: 300}},
	}
	conns := []journey.Connection{
		{ID: "ab", From: "a", To: "b"},
		{ID: "ac", From: "a", To: "c"},
	}
	got, ok := nearestConnection(nodes, conns, geometry.DefaultSize, geometry.Point{X: 220, Y: 45}, 20)
	require.True(t, ok)
	assert.Equal(t, "ab", got.ID)

	_, ok = nearestConnection(nodes, conns, geometry.DefaultSize, geometry.Point{X: 700, Y: 700}, 20)
	assert.False(t, ok)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "short", truncateRunes("short", 10))
	assert.Equal(t, "long…", truncateRunes("longer text", 5))
	assert.Equal(t, "", truncateRunes("x", 0))
}

func TestRenderClipsConnectorToFarNode(t *testing.T) {
	nodes := []journey.Node{
		{ID: "a", Content: journey.Content{Name: "a"}, Position: geometry.Point{X: 0, Y: 0}},
		{ID: "b", Content: journey.Content{Name: "b"}, Position: geometry.Point{X: 1e9, Y: 0}},
	}
	conns := []journey.Connection{{ID: "e", From: "a", To: "b"}}
	lines := NewCanvas(testLayout(), 50, 4, nodes, conns).Render()
	require.Len(t, lines, 4)
	// no arrow head: the target is off screen
	assert.Equal(t, "o"+strings.Repeat("-", 35), lines[2][14:])
}

func TestClipCells(t *testing.T) {
	tests := []struct {
		name       string
		a, b       cell
		from, to   cell
		endVisible bool
		ok         bool
	}{
		{"inside", cell{1, 1}, cell{3, 3}, cell{1, 1}, cell{3, 3}, true, true},
		{"end off the right", cell{0, 0}, cell{9, 0}, cell{0, 0}, cell{4, 0}, false, true},
		{"start off the left", cell{-10, 2}, cell{2, 2}, cell{0, 2}, cell{2, 2}, true, true},
		{"diagonal through", cell{-5, -5}, cell{10, 10}, cell{0, 0}, cell{4, 4}, false, true},
		{"outside", cell{-5, -5}, cell{-1, -1}, cell{}, cell{}, false, false},
		{"parallel outside", cell{0, 7}, cell{4, 7}, cell{}, cell{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, endVisible, ok := clipCells(tt.a, tt.b, 5, 5)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
			assert.Equal(t, tt.endVisible, endVisible)
		})
	}
}
