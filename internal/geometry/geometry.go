// Package geometry computes node anchor points and the straight connectors
// drawn between them. Coordinates are canvas pixels.
package geometry

import "math"

// Default node dimensions in canvas pixels.
const (
	NodeWidth  = 150.0
	NodeHeight = 80.0
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Anchor names one of the four attachment points on a node's boundary.
type Anchor int

const (
	Top Anchor = iota
	Right
	Bottom
	Left
)

// Anchors lists the anchors in resolver iteration order.
var Anchors = [4]Anchor{Top, Right, Bottom, Left}

func (a Anchor) String() string {
	switch a {
	case Top:
		return "top"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	}
	return "unknown"
}

// Size is a node's width and height.
type Size struct {
	W, H float64
}

// DefaultSize is the fixed node size used by the canvas.
var DefaultSize = Size{W: NodeWidth, H: NodeHeight}

// AnchorPoint returns the coordinates of anchor a for a node whose
// top-left corner is at origin.
func AnchorPoint(origin Point, size Size, a Anchor) Point {
	switch a {
	case Top:
		return Point{X: origin.X + size.W/2, Y: origin.Y}
	case Right:
		return Point{X: origin.X + size.W, Y: origin.Y + size.H/2}
	case Bottom:
		return Point{X: origin.X + size.W/2, Y: origin.Y + size.H}
	default:
		return Point{X: origin.X, Y: origin.Y + size.H/2}
	}
}

// AnchorPoints returns all four anchors indexed by Anchor.
func AnchorPoints(origin Point, size Size) [4]Point {
	var pts [4]Point
	for _, a := range Anchors {
		pts[a] = AnchorPoint(origin, size, a)
	}
	return pts
}

func Distance(p, q Point) float64 {
	dx := q.X - p.X
	dy := q.Y - p.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// AngleDegrees is the direction from p to q in degrees, measured from the
// positive x axis with y growing downwards.
func AngleDegrees(p, q Point) float64 {
	return math.Atan2(q.Y-p.Y, q.X-p.X) * 180 / math.Pi
}

// Segment is a straight connector: draw a line of Length from From,
// rotated by Angle degrees.
type Segment struct {
	From   Point
	To     Point
	Length float64
	Angle  float64
}

func Connector(from, to Point) Segment {
	return Segment{
		From:   from,
		To:     to,
		Length: Distance(from, to),
		Angle:  AngleDegrees(from, to),
	}
}

// EdgeConnector is how an established connection is drawn: always from the
// source's right anchor to the target's left anchor, whatever anchors were
// used while drawing it.
func EdgeConnector(source, target Point, size Size) Segment {
	return Connector(AnchorPoint(source, size, Right), AnchorPoint(target, size, Left))
}

// Contains reports whether p lies inside the node rectangle.
func Contains(origin Point, size Size, p Point) bool {
	return p.X >= origin.X && p.X <= origin.X+size.W &&
		p.Y >= origin.Y && p.Y <= origin.Y+size.H
}

// HitAnchor returns the anchor whose dot lies within radius of p.
func HitAnchor(origin Point, size Size, p Point, radius float64) (Anchor, bool) {
	for _, a := range Anchors {
		if Distance(AnchorPoint(origin, size, a), p) <= radius {
			return a, true
		}
	}
	return 0, false
}
