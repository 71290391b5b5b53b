package main

import (
	"fmt"
	"math"

	"journeymap/internal/anchor"
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

// Canvas is one frame of the journey map drawn into a grid of runes.
type Canvas struct {
	l     layout
	grid  [][]rune
	nodes []journey.Node
	conns []journey.Connection

	// selected nodes get a heavier border
	selected map[string]bool
	preview  *geometry.Segment
	snap     *anchor.Match
}

func NewCanvas(l layout, width, height int, nodes []journey.Node, conns []journey.Connection) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}
	return &Canvas{l: l, grid: grid, nodes: nodes, conns: conns, selected: make(map[string]bool)}
}

func (c *Canvas) Select(nodeID string) {
	if nodeID != "" {
		c.selected[nodeID] = true
	}
}

func (c *Canvas) SetPreview(seg geometry.Segment) { c.preview = &seg }

func (c *Canvas) SetSnap(m anchor.Match) { c.snap = &m }

// Render draws connections before boxes so boxes cover them.
func (c *Canvas) Render() []string {
	for _, conn := range c.conns {
		from, okFrom := c.node(conn.From)
		to, okTo := c.node(conn.To)
		if !okFrom || !okTo {
			continue
		}
		seg := geometry.EdgeConnector(from.Position, to.Position, c.l.size)
		c.drawSegment(seg, 0, true)
	}
	for _, n := range c.nodes {
		c.drawBox(n, c.selected[n.ID])
	}
	if c.preview != nil {
		c.drawSegment(*c.preview, glyphPreview, false)
	}
	for _, n := range c.nodes {
		for _, a := range geometry.Anchors {
			p := c.l.anchorCell(n.Position, a)
			glyph := glyphAnchor
			if c.snap != nil && c.snap.NodeID == n.ID && c.snap.Anchor == a {
				glyph = glyphSnap
			}
			c.set(p.X, p.Y, glyph)
		}
	}

	lines := make([]string, len(c.grid))
	for i, row := range c.grid {
		lines[i] = string(row)
	}
	return lines
}

func (c *Canvas) node(id string) (journey.Node, bool) {
	for _, n := range c.nodes {
		if n.ID == id {
			return n, true
		}
	}
	return journey.Node{}, false
}

func (c *Canvas) isValidPos(x, y int) bool {
	return y >= 0 && y < len(c.grid) && x >= 0 && x < len(c.grid[0])
}

func (c *Canvas) set(x, y int, r rune) {
	if c.isValidPos(x, y) {
		c.grid[y][x] = r
	}
}

func (c *Canvas) drawBox(n journey.Node, isSelected bool) {
	corner, horizontal, vertical := glyphCorner, glyphHorizontal, glyphVertical
	if isSelected {
		corner, horizontal, vertical = glyphSelected, glyphSelected, glyphSelected
	}
	origin := c.l.toCell(n.Position)
	w, h := c.l.boxCells()
	for y := origin.Y; y < origin.Y+h; y++ {
		for x := origin.X; x < origin.X+w; x++ {
			top, bottom := y == origin.Y, y == origin.Y+h-1
			left, right := x == origin.X, x == origin.X+w-1
			switch {
			case (top || bottom) && (left || right):
				c.set(x, y, corner)
			case top || bottom:
				c.set(x, y, horizontal)
			case left || right:
				c.set(x, y, vertical)
			default:
				c.set(x, y, ' ')
			}
		}
	}

	for i, line := range nodeLines(n.Content) {
		y := origin.Y + 1 + i
		if y >= origin.Y+h-1 {
			break
		}
		for j, r := range []rune(truncateRunes(line, w-2)) {
			c.set(origin.X+1+j, y, r)
		}
	}
}

// nodeLines is the text shown inside a node, most important first.
func nodeLines(content journey.Content) []string {
	lines := []string{content.Name}
	detail := content.Format
	if detail != "" {
		detail += " "
	}
	detail += fmt.Sprintf("Q%.0f", content.QualityScore)
	lines = append(lines, detail)
	if content.Status != "" {
		lines = append(lines, content.Status)
	}
	if content.Audience != "" {
		lines = append(lines, content.Audience)
	}
	return lines
}

func truncateRunes(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// drawSegment steps through the visible cells between the segment's end
// points. A zero glyph picks one from the segment angle. The arrow head goes
// on the cell before the end, since the end cell is the target's border.
func (c *Canvas) drawSegment(seg geometry.Segment, glyph rune, arrow bool) {
	if glyph == 0 {
		glyph = lineGlyph(seg.Angle)
	}
	from, to, endVisible, ok := clipCells(c.l.toCell(seg.From), c.l.toCell(seg.To), len(c.grid[0]), len(c.grid))
	if !ok {
		return
	}
	path := cellPath(from, to)
	for _, p := range path {
		c.set(p.X, p.Y, glyph)
	}
	if arrow && endVisible && len(path) >= 2 {
		p := path[len(path)-2]
		c.set(p.X, p.Y, arrowGlyph(seg.Angle))
	}
}

// clipCells clips the line from a to b to the w by h grid (Liang-Barsky).
// endVisible reports whether b itself is on the grid; ok is false when no
// part of the line is.
func clipCells(a, b cell, w, h int) (from, to cell, endVisible, ok bool) {
	x0, y0 := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0},
		{dx, float64(w-1) - x0},
		{-dy, y0},
		{dy, float64(h-1) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return cell{}, cell{}, false, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return cell{}, cell{}, false, false
			}
			t0 = math.Max(t0, r)
		} else {
			if r < t0 {
				return cell{}, cell{}, false, false
			}
			t1 = math.Min(t1, r)
		}
	}
	at := func(t float64) cell {
		return cell{X: int(math.Round(x0 + t*dx)), Y: int(math.Round(y0 + t*dy))}
	}
	return at(t0), at(t1), t1 == 1, true
}

// cellPath walks from one cell to another with Bresenham's algorithm.
func cellPath(from, to cell) []cell {
	dx, dy := abs(to.X-from.X), -abs(to.Y-from.Y)
	sx, sy := 1, 1
	if from.X > to.X {
		sx = -1
	}
	if from.Y > to.Y {
		sy = -1
	}
	err := dx + dy
	x, y := from.X, from.Y
	var path []cell
	for {
		path = append(path, cell{X: x, Y: y})
		if x == to.X && y == to.Y {
			return path
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// lineGlyph maps a screen angle in degrees (y grows downward) to a line
// character.
func lineGlyph(angle float64) rune {
	a := math.Mod(angle+360, 180)
	switch {
	case a < 22.5 || a >= 157.5:
		return '-'
	case a < 67.5:
		return '\\'
	case a < 112.5:
		return '|'
	default:
		return '/'
	}
}

func arrowGlyph(angle float64) rune {
	switch {
	case angle >= -45 && angle <= 45:
		return '>'
	case angle > 45 && angle < 135:
		return 'v'
	case angle < -45 && angle > -135:
		return '^'
	default:
		return '<'
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// nearestConnection finds the connection whose rendered segment passes
// closest to p, within maxDist pixels.
func nearestConnection(nodes []journey.Node, conns []journey.Connection, size geometry.Size, p geometry.Point, maxDist float64) (journey.Connection, bool) {
	byID := make(map[string]journey.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	best, found := journey.Connection{}, false
	bestDist := maxDist
	for _, conn := range conns {
		from, okFrom := byID[conn.From]
		to, okTo := byID[conn.To]
		if !okFrom || !okTo {
			continue
		}
		seg := geometry.EdgeConnector(from.Position, to.Position, size)
		if d := geometry.Distance(p, closestPointOnSegment(seg.From, seg.To, p)); d <= bestDist {
			best, bestDist, found = conn, d, true
		}
	}
	return best, found
}

func closestPointOnSegment(a, b, p geometry.Point) geometry.Point {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return a
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / lenSq
	t = math.Max(0, math.Min(1, t))
	return geometry.Point{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
}

// topmostNodeAt returns the last-drawn node containing p.
func topmostNodeAt(nodes []journey.Node, size geometry.Size, p geometry.Point) (journey.Node, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if geometry.Contains(nodes[i].Position, size, p) {
			return nodes[i], true
		}
	}
	return journey.Node{}, false
}
