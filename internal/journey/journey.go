// Package journey holds the journey graph for one brand and campaign: the
// nodes placed on the canvas, the directed connections between them, and
// the orchestrator that applies, persists and undoes mutations.
package journey

import (
	"errors"

	"github.com/google/uuid"

	"journeymap/internal/geometry"
)

var (
	ErrNodeNotFound       = errors.New("journey: node not found")
	ErrConnectionNotFound = errors.New("journey: connection not found")
	ErrConnectionExists   = errors.New("journey: connection already exists")
	ErrSelfConnection     = errors.New("journey: node cannot connect to itself")
)

// newID generates node and connection ids. Tests replace it for
// deterministic output.
var newID = uuid.NewString

// CampaignScores are the four campaign-effectiveness sub-metrics shown on a
// node.
type CampaignScores struct {
	Awareness  float64 `json:"awareness"`
	Engagement float64 `json:"engagement"`
	Conversion float64 `json:"conversion"`
	Retention  float64 `json:"retention"`
}

// Content is a content record supplied by the catalog.
type Content struct {
	ID             string          `json:"id" validate:"required"`
	Name           string          `json:"name" validate:"required"`
	Format         string          `json:"format"`
	Type           string          `json:"type"`
	Status         string          `json:"status"`
	QualityScore   float64         `json:"qualityScore"`
	Campaign       string          `json:"campaign"`
	Audience       string          `json:"audience,omitempty"`
	KeyActions     []string        `json:"keyActions,omitempty"`
	CampaignScores *CampaignScores `json:"campaignScores,omitempty"`
}

func (c Content) clone() Content {
	if c.KeyActions != nil {
		c.KeyActions = append([]string(nil), c.KeyActions...)
	}
	if c.CampaignScores != nil {
		s := *c.CampaignScores
		c.CampaignScores = &s
	}
	return c
}

type Node struct {
	ID       string         `json:"id"`
	Content  Content        `json:"content"`
	Position geometry.Point `json:"position"`
}

// Connection is a directed edge From -> To.
type Connection struct {
	ID   string `json:"id"`
	From string `json:"from"`
	To   string `json:"to"`
}

// Map is the persisted graph for one brand and campaign. Node and
// connection order is insertion order and is preserved through
// serialization.
type Map struct {
	Nodes       []Node       `json:"nodes"`
	Connections []Connection `json:"connections"`
	Title       string       `json:"title"`
}

func NewMap(title string) *Map {
	return &Map{
		Nodes:       []Node{},
		Connections: []Connection{},
		Title:       title,
	}
}

// Clone returns a deep copy.
func (m *Map) Clone() *Map {
	c := &Map{
		Nodes:       make([]Node, len(m.Nodes)),
		Connections: make([]Connection, len(m.Connections)),
		Title:       m.Title,
	}
	for i, n := range m.Nodes {
		n.Content = n.Content.clone()
		c.Nodes[i] = n
	}
	copy(c.Connections, m.Connections)
	return c
}

func (m *Map) nodeIndex(id string) int {
	for i, n := range m.Nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (m *Map) Node(id string) (Node, bool) {
	if i := m.nodeIndex(id); i >= 0 {
		return m.Nodes[i], true
	}
	return Node{}, false
}

// HasContent reports whether any node references the content id.
func (m *Map) HasContent(contentID string) bool {
	for _, n := range m.Nodes {
		if n.Content.ID == contentID {
			return true
		}
	}
	return false
}

// ContentIDs returns the distinct content ids on the map in node order.
func (m *Map) ContentIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, n := range m.Nodes {
		if seen[n.Content.ID] {
			continue
		}
		seen[n.Content.ID] = true
		ids = append(ids, n.Content.ID)
	}
	return ids
}

func (m *Map) HasConnection(from, to string) bool {
	for _, c := range m.Connections {
		if c.From == from && c.To == to {
			return true
		}
	}
	return false
}

func (m *Map) AddNode(content Content, pos geometry.Point) Node {
	n := Node{ID: newID(), Content: content.clone(), Position: pos}
	m.Nodes = append(m.Nodes, n)
	return n
}

func (m *Map) MoveNode(id string, pos geometry.Point) error {
	i := m.nodeIndex(id)
	if i < 0 {
		return ErrNodeNotFound
	}
	m.Nodes[i].Position = pos
	return nil
}

// RemoveNode deletes the node and every connection touching it. The removed
// node and connections are returned.
func (m *Map) RemoveNode(id string) (Node, []Connection, error) {
	i := m.nodeIndex(id)
	if i < 0 {
		return Node{}, nil, ErrNodeNotFound
	}
	removed := m.Nodes[i]
	m.Nodes = append(m.Nodes[:i], m.Nodes[i+1:]...)

	var dropped []Connection
	kept := m.Connections[:0]
	for _, c := range m.Connections {
		if c.From == id || c.To == id {
			dropped = append(dropped, c)
			continue
		}
		kept = append(kept, c)
	}
	m.Connections = kept
	return removed, dropped, nil
}

func (m *Map) Connect(from, to string) (Connection, error) {
	if m.nodeIndex(from) < 0 || m.nodeIndex(to) < 0 {
		return Connection{}, ErrNodeNotFound
	}
	if from == to {
		return Connection{}, ErrSelfConnection
	}
	if m.HasConnection(from, to) {
		return Connection{}, ErrConnectionExists
	}
	c := Connection{ID: newID(), From: from, To: to}
	m.Connections = append(m.Connections, c)
	return c, nil
}

func (m *Map) RemoveConnection(id string) error {
	for i, c := range m.Connections {
		if c.ID == id {
			m.Connections = append(m.Connections[:i], m.Connections[i+1:]...)
			return nil
		}
	}
	return ErrConnectionNotFound
}

// Reset empties the map in place and sets a new title.
func (m *Map) Reset(title string) {
	m.Nodes = []Node{}
	m.Connections = []Connection{}
	m.Title = title
}

// Normalize repairs a map read from storage so the graph invariants hold:
// nil slices become empty, nodes with a repeated id keep their first
// occurrence, and connections that dangle, loop, or repeat an ordered pair
// or id are dropped. It returns the number of entries removed.
func (m *Map) Normalize() int {
	removed := 0
	if m.Nodes == nil {
		m.Nodes = []Node{}
	}
	if m.Connections == nil {
		m.Connections = []Connection{}
	}

	ids := make(map[string]bool, len(m.Nodes))
	nodes := m.Nodes[:0]
	for _, n := range m.Nodes {
		if n.ID == "" || ids[n.ID] {
			removed++
			continue
		}
		ids[n.ID] = true
		nodes = append(nodes, n)
	}
	m.Nodes = nodes

	type pair struct{ from, to string }
	pairs := make(map[pair]bool)
	connIDs := make(map[string]bool)
	conns := m.Connections[:0]
	for _, c := range m.Connections {
		p := pair{c.From, c.To}
		if !ids[c.From] || !ids[c.To] || c.From == c.To || pairs[p] || c.ID == "" || connIDs[c.ID] {
			removed++
			continue
		}
		pairs[p] = true
		connIDs[c.ID] = true
		conns = append(conns, c)
	}
	m.Connections = conns
	return removed
}
