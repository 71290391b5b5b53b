package main

import (
	"math"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

func (m *model) layout() layout {
	return layout{
		cellW: m.cfg.Canvas.CellWidth,
		cellH: m.cfg.Canvas.CellHeight,
		size:  m.nodeSize(),
		left:  0,
		top:   1,
		panX:  m.panX,
		panY:  m.panY,
	}
}

func (m *model) nodeSize() geometry.Size {
	return journeySize(m.cfg)
}

// canvasWidth and canvasHeight are the canvas area in cells.
func (m *model) canvasWidth() int {
	w := m.width - catalogWidth
	if w < 1 {
		w = 1
	}
	return w
}

func (m *model) canvasHeight() int {
	h := m.height - chromeRows
	if h < 1 {
		h = 1
	}
	return h
}

func (m *model) inCanvas(x, y int) bool {
	l := m.layout()
	return x >= l.left && x < l.left+m.canvasWidth() && y >= l.top && y < l.top+m.canvasHeight()
}

// toPixel returns the canvas pixel at the center of a screen cell.
func (l layout) toPixel(x, y int) geometry.Point {
	return geometry.Point{
		X: (float64(x-l.left+l.panX) + 0.5) * l.cellW,
		Y: (float64(y-l.top+l.panY) + 0.5) * l.cellH,
	}
}

// toCell returns the grid cell, relative to the canvas area, containing p.
func (l layout) toCell(p geometry.Point) cell {
	return cell{
		X: int(math.Floor(p.X/l.cellW)) - l.panX,
		Y: int(math.Floor(p.Y/l.cellH)) - l.panY,
	}
}

func (l layout) boxCells() (int, int) {
	w := int(math.Round(l.size.W / l.cellW))
	h := int(math.Round(l.size.H / l.cellH))
	if w < minBoxWidth {
		w = minBoxWidth
	}
	if h < minBoxHeight {
		h = minBoxHeight
	}
	return w, h
}

// anchorCell is the border cell drawn for an anchor dot.
func (l layout) anchorCell(origin geometry.Point, a geometry.Anchor) cell {
	box := l.toCell(origin)
	w, h := l.boxCells()
	c := l.toCell(geometry.AnchorPoint(origin, l.size, a))
	switch a {
	case geometry.Top:
		c.Y = box.Y
	case geometry.Bottom:
		c.Y = box.Y + h - 1
	case geometry.Left:
		c.X = box.X
	case geometry.Right:
		c.X = box.X + w - 1
	}
	c.X = clamp(c.X, box.X, box.X+w-1)
	c.Y = clamp(c.Y, box.Y, box.Y+h-1)
	return c
}

// dotRadius lets a click anywhere in an anchor's cell hit the anchor.
func (l layout) dotRadius() float64 {
	return math.Hypot(l.cellW, l.cellH)/2 + 1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// mouseTracking switches the terminal to all-motion reporting while a
// gesture is active, so moves without a pressed button still arrive.
type mouseTracking struct {
	all     bool
	pending []tea.Cmd
}

func (t *mouseTracking) Attach() {
	t.all = true
	t.pending = append(t.pending, tea.EnableMouseAllMotion)
}

func (t *mouseTracking) Detach() {
	t.all = false
	t.pending = append(t.pending, tea.EnableMouseCellMotion)
}

func (t *mouseTracking) flush() tea.Cmd {
	if len(t.pending) == 0 {
		return nil
	}
	cmds := t.pending
	t.pending = nil
	return tea.Batch(cmds...)
}

// noticeLog keeps the most recent notice for the status line.
type noticeLog struct {
	last  journey.Notice
	count int
}

func (n *noticeLog) Notify(notice journey.Notice) {
	n.last = notice
	n.count++
}

func (n *noticeLog) info(msg string) {
	n.Notify(journey.Notice{Level: journey.LevelInfo, Message: msg})
}

func (n *noticeLog) error(msg string) {
	n.Notify(journey.Notice{Level: journey.LevelError, Message: msg})
}

func (n *noticeLog) clear() { n.last = journey.Notice{} }

// readClipboardText prefers plain text on macOS, where the default
// pasteboard may hold rich text.
func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText drops control characters and a byte order mark that
// some clipboards add around copied JSON.
func cleanClipboardText(text string) string {
	text = strings.TrimPrefix(text, "\ufeff")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
