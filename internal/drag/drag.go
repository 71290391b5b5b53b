// Package drag turns pointer and keyboard events on the canvas into node
// moves and connection draws.
//
// A Controller is a small state machine with three modes: Idle,
// DraggingNode and DrawingConnection. Exactly one mode is active at a
// time. Gesture-scoped listeners are attached when a gesture starts and
// detached when it ends or the controller is torn down.
package drag

import (
	"journeymap/internal/anchor"
	"journeymap/internal/geometry"
	"journeymap/internal/journey"
)

type Mode int

const (
	Idle Mode = iota
	DraggingNode
	DrawingConnection
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingNode:
		return "dragging"
	case DrawingConnection:
		return "connecting"
	}
	return "unknown"
}

// State is the active interaction. NodeID and Offset are set while
// dragging; NodeID, Anchor and Pointer while drawing a connection.
type State struct {
	Mode    Mode
	NodeID  string
	Offset  geometry.Point
	Anchor  geometry.Anchor
	Pointer geometry.Point
}

// Graph is the read view and mutation API the controller drives.
type Graph interface {
	Nodes() []journey.Node
	Node(id string) (journey.Node, bool)
	MoveNode(id string, pos geometry.Point) error
	Connect(from, to string) (journey.Connection, error)
	EndGesture()
}

// Listeners are the global pointer listeners a gesture needs while it is
// active.
type Listeners interface {
	Attach()
	Detach()
}

type noListeners struct{}

func (noListeners) Attach() {}
func (noListeners) Detach() {}

const DefaultDotRadius = 8.0

type Options struct {
	Size      geometry.Size
	Threshold float64
	DotRadius float64
	Listeners Listeners
}

type Controller struct {
	graph     Graph
	size      geometry.Size
	resolver  anchor.Resolver
	dotRadius float64
	listeners Listeners
	attached  bool
	state     State
}

func New(graph Graph, opts Options) *Controller {
	if opts.Size.W <= 0 || opts.Size.H <= 0 {
		opts.Size = geometry.DefaultSize
	}
	if opts.DotRadius <= 0 {
		opts.DotRadius = DefaultDotRadius
	}
	if opts.Listeners == nil {
		opts.Listeners = noListeners{}
	}
	return &Controller{
		graph:     graph,
		size:      opts.Size,
		resolver:  anchor.NewResolver(opts.Size, opts.Threshold),
		dotRadius: opts.DotRadius,
		listeners: opts.Listeners,
	}
}

func (c *Controller) State() State { return c.state }

// Listening reports whether gesture listeners are attached.
func (c *Controller) Listening() bool { return c.attached }

// OnPointerDown hit-tests p against the nodes, topmost first. Anchor dots
// win over node bodies. It reports whether the event was consumed.
func (c *Controller) OnPointerDown(p geometry.Point) bool {
	nodes := c.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if a, ok := geometry.HitAnchor(nodes[i].Position, c.size, p, c.dotRadius); ok {
			if c.state.Mode == DrawingConnection {
				return c.OnAnchorClick(nodes[i].ID, a)
			}
			return c.OnAnchorPointerDown(nodes[i].ID, a, p)
		}
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		if geometry.Contains(nodes[i].Position, c.size, p) {
			return c.OnNodePointerDown(nodes[i].ID, p)
		}
	}
	return false
}

// OnNodePointerDown starts dragging a node. The offset between the pointer
// and the node origin is kept so the node does not jump.
func (c *Controller) OnNodePointerDown(nodeID string, p geometry.Point) bool {
	if c.state.Mode != Idle {
		return false
	}
	n, ok := c.graph.Node(nodeID)
	if !ok {
		return false
	}
	c.enter(State{Mode: DraggingNode, NodeID: nodeID, Offset: p.Sub(n.Position)})
	return true
}

// OnAnchorPointerDown starts drawing a connection from an anchor.
func (c *Controller) OnAnchorPointerDown(nodeID string, a geometry.Anchor, p geometry.Point) bool {
	if c.state.Mode != Idle {
		return false
	}
	if _, ok := c.graph.Node(nodeID); !ok {
		return false
	}
	c.enter(State{Mode: DrawingConnection, NodeID: nodeID, Anchor: a, Pointer: p})
	return true
}

// OnAnchorClick completes a connection to an explicit node, skipping the
// distance search. Clicks on the source node's own anchors are ignored.
func (c *Controller) OnAnchorClick(nodeID string, _ geometry.Anchor) bool {
	if c.state.Mode != DrawingConnection || nodeID == c.state.NodeID {
		return false
	}
	source := c.state.NodeID
	c.exit()
	_, _ = c.graph.Connect(source, nodeID)
	return true
}

func (c *Controller) OnPointerMove(p geometry.Point) {
	switch c.state.Mode {
	case DraggingNode:
		_ = c.graph.MoveNode(c.state.NodeID, p.Sub(c.state.Offset))
	case DrawingConnection:
		c.state.Pointer = p
	}
}

// OnPointerUp ends the active gesture. A connection is created only when
// the resolver finds an anchor near p.
func (c *Controller) OnPointerUp(p geometry.Point) {
	switch c.state.Mode {
	case DraggingNode:
		c.exit()
	case DrawingConnection:
		c.state.Pointer = p
		source := c.state.NodeID
		match, ok := c.Resolve(p)
		c.exit()
		if ok {
			_, _ = c.graph.Connect(source, match.NodeID)
		}
	}
}

// OnKeyEscape cancels a connection being drawn.
func (c *Controller) OnKeyEscape() bool {
	if c.state.Mode != DrawingConnection {
		return false
	}
	c.exit()
	return true
}

// Teardown detaches gesture listeners whatever the current state.
func (c *Controller) Teardown() {
	c.exit()
}

// Resolve runs the anchor search for the connection being drawn.
func (c *Controller) Resolve(p geometry.Point) (anchor.Match, bool) {
	if c.state.Mode != DrawingConnection {
		return anchor.Match{}, false
	}
	nodes := c.graph.Nodes()
	candidates := make([]anchor.Candidate, 0, len(nodes))
	for _, n := range nodes {
		candidates = append(candidates, anchor.Candidate{ID: n.ID, Origin: n.Position})
	}
	return c.resolver.Resolve(p, c.state.NodeID, candidates)
}

// Preview is the straight segment from the source anchor to the pointer
// while a connection is being drawn.
func (c *Controller) Preview() (geometry.Segment, bool) {
	if c.state.Mode != DrawingConnection {
		return geometry.Segment{}, false
	}
	n, ok := c.graph.Node(c.state.NodeID)
	if !ok {
		return geometry.Segment{}, false
	}
	from := geometry.AnchorPoint(n.Position, c.size, c.state.Anchor)
	return geometry.Connector(from, c.state.Pointer), true
}

func (c *Controller) enter(s State) {
	c.state = s
	if !c.attached {
		c.attached = true
		c.listeners.Attach()
	}
}

func (c *Controller) exit() {
	if c.state.Mode == DraggingNode {
		c.graph.EndGesture()
	}
	c.state = State{}
	if c.attached {
		c.attached = false
		c.listeners.Detach()
	}
}
