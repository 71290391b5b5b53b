package main

import (
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

// gaps between arranged nodes, in pixels
const (
	arrangeGapX = 60
	arrangeGapY = 20
)

// arrange lays the journey out as a left-to-right tree. A node's tree
// parent is the source of its first incoming connection; nodes without one
// are roots, stacked top to bottom in insertion order. A parent sits in
// the middle of the band its subtree needs.
func arrange(m *journey.Map, size geometry.Size) *journey.Map {
	out := m.Clone()
	if len(out.Nodes) == 0 {
		return out
	}

	index := make(map[string]int, len(out.Nodes))
	for i, n := range out.Nodes {
		index[n.ID] = i
	}
	parent := make(map[string]string)
	children := make(map[string][]string)
	for _, c := range out.Connections {
		if _, ok := parent[c.To]; ok || c.From == c.To {
			continue
		}
		parent[c.To] = c.From
		children[c.From] = append(children[c.From], c.To)
	}

	a := &arranger{size: size, children: children, placed: make(map[string]geometry.Point)}
	// Subtree heights are computed once per node so cycles terminate.
	a.heights = make(map[string]float64)

	y := 0.0
	for _, n := range out.Nodes {
		if _, hasParent := parent[n.ID]; hasParent {
			continue
		}
		h := a.subtreeHeight(n.ID, map[string]bool{})
		a.layout(n.ID, 0, y, h)
		y += h + arrangeGapY
	}
	// Whatever is only reachable through a cycle is laid out as its own tree.
	for _, n := range out.Nodes {
		if _, ok := a.placed[n.ID]; ok {
			continue
		}
		h := a.subtreeHeight(n.ID, map[string]bool{})
		a.layout(n.ID, 0, y, h)
		y += h + arrangeGapY
	}

	for id, p := range a.placed {
		out.Nodes[index[id]].Position = p
	}
	return out
}

type arranger struct {
	size     geometry.Size
	children map[string][]string
	heights  map[string]float64
	placed   map[string]geometry.Point
}

// subtreeHeight is the vertical space a node and its descendants need.
func (a *arranger) subtreeHeight(id string, visiting map[string]bool) float64 {
	if h, ok := a.heights[id]; ok {
		return h
	}
	if visiting[id] {
		return 0
	}
	visiting[id] = true
	total := 0.0
	for i, child := range a.children[id] {
		total += a.subtreeHeight(child, visiting)
		if i > 0 {
			total += arrangeGapY
		}
	}
	if total < a.size.H {
		total = a.size.H
	}
	a.heights[id] = total
	return total
}

// layout places id at the middle of the band [top, top+height) and its
// children in consecutive bands to the right.
func (a *arranger) layout(id string, depth int, top, height float64) {
	if _, ok := a.placed[id]; ok {
		return
	}
	a.placed[id] = geometry.Point{
		X: float64(depth) * (a.size.W + arrangeGapX),
		Y: top + (height-a.size.H)/2,
	}
	y := top
	for _, child := range a.children[id] {
		h := a.heights[child]
		a.layout(child, depth+1, y, h)
		y += h + arrangeGapY
	}
}

// arrangeJourney applies arrange as one undoable change.
func (m *model) arrangeJourney() {
	m.ctrl.Teardown()
	if len(m.orch.Nodes()) == 0 {
		return
	}
	if err := m.orch.Replace(arrange(m.orch.Snapshot(), m.nodeSize())); err == nil {
		m.notices.info("Arranged the journey")
	}
}
