package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

func positions(m *journey.Map) map[string]geometry.Point {
	out := make(map[string]geometry.Point, len(m.Nodes))
	for _, n := range m.Nodes {
		out[n.ID] = n.Position
	}
	return out
}

func TestArrangeTree(t *testing.T) {
	m := &journey.Map{
		Title: "t",
		Nodes: []journey.Node{
			{ID: "root", Position: geometry.Point{X: 500, Y: 500}},
			{ID: "a", Position: geometry.Point{X: 3, Y: 3}},
			{ID: "b", Position: geometry.Point{X: 9, Y: 9}},
		},
		Connections: []journey.Connection{
			{ID: "1", From: "root", To: "a"},
			{ID: "2", From: "root", To: "b"},
		},
	}
	got := positions(arrange(m, geometry.DefaultSize))

	// two 80px children with a 20px gap make a 180px band
	assert.Equal(t, geometry.Point{X: 0, Y: 50}, got["root"])
	assert.Equal(t, geometry.Point{X: 210, Y: 0}, got["a"])
	assert.Equal(t, geometry.Point{X: 210, Y: 100}, got["b"])

	// the input is untouched
	assert.Equal(t, geometry.Point{X: 500, Y: 500}, m.Nodes[0].Position)
}

func TestArrangeStacksRootsAndSurvivesCycles(t *testing.T) {
	m := &journey.Map{
		Nodes: []journey.Node{
			{ID: "x"}, {ID: "y"}, {ID: "p"}, {ID: "q"},
		},
		Connections: []journey.Connection{
			{ID: "1", From: "x", To: "y"},
			{ID: "2", From: "p", To: "q"},
			{ID: "3", From: "q", To: "p"},
		},
	}
	got := positions(arrange(m, geometry.DefaultSize))
	require.Len(t, got, 4)
	assert.Equal(t, geometry.Point{X: 0, Y: 0}, got["x"])
	assert.Equal(t, geometry.Point{X: 210, Y: 0}, got["y"])
	assert.Equal(t, geometry.Point{X: 0, Y: 100}, got["p"])
	assert.Equal(t, geometry.Point{X: 210, Y: 100}, got["q"])
}

func TestArrangeKeyIsOneUndoStep(t *testing.T) {
	m := testModel(t)
	a := addNode(t, m, "a", 400, 400)
	b := addNode(t, m, "b", 10, 10)
	_, err := m.orch.Connect(a.ID, b.ID)
	require.NoError(t, err)

	m = send(t, m, key("a"))
	got, _ := m.orch.Node(b.ID)
	assert.Equal(t, geometry.Point{X: 210, Y: 0}, got.Position)

	m = send(t, m, key("u"))
	got, _ = m.orch.Node(b.ID)
	assert.Equal(t, geometry.Point{X: 10, Y: 10}, got.Position)
}
