// Package anchor resolves which node anchor, if any, a connection-drawing
// gesture was released on.
package anchor

import "journeymap/internal/geometry"

// Threshold is the default snap distance in canvas pixels. A candidate must
// be strictly closer than this to be eligible.
const Threshold = 35.0

// Candidate is a node that can be connected to.
type Candidate struct {
	ID     string
	Origin geometry.Point
}

// Match is the resolved target of a gesture.
type Match struct {
	NodeID   string
	Anchor   geometry.Anchor
	Point    geometry.Point
	Distance float64
}

// Resolver finds the nearest eligible anchor around a pointer position.
type Resolver struct {
	Size      geometry.Size
	Threshold float64
}

func NewResolver(size geometry.Size, threshold float64) Resolver {
	if threshold <= 0 {
		threshold = Threshold
	}
	return Resolver{Size: size, Threshold: threshold}
}

// Resolve scans candidates in order, skipping the source node. Ties keep the
// first candidate found.
func (r Resolver) Resolve(pointer geometry.Point, sourceID string, candidates []Candidate) (Match, bool) {
	var (
		best  Match
		found bool
	)
	for _, c := range candidates {
		if c.ID == sourceID {
			continue
		}
		for _, a := range geometry.Anchors {
			pt := geometry.AnchorPoint(c.Origin, r.Size, a)
			d := geometry.Distance(pointer, pt)
			if d >= r.Threshold {
				continue
			}
			if !found || d < best.Distance {
				best = Match{NodeID: c.ID, Anchor: a, Point: pt, Distance: d}
				found = true
			}
		}
	}
	return best, found
}
