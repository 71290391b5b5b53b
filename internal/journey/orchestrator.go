package journey

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"journeymap/internal/geometry"
)

const defaultHistoryLimit = 100

// Options configures an Orchestrator. Zero values are usable.
type Options struct {
	Logger       *zap.Logger
	Notifier     Notifier
	Timeout      time.Duration
	HistoryLimit int

	// OnContentAdded and OnContentRemoved report when a content record
	// starts or stops being present on the map, so callers can disable or
	// re-enable their "add" actions.
	OnContentAdded   func(contentID string)
	OnContentRemoved func(contentID string)
}

// Orchestrator owns the map of the current brand and campaign. Every
// mutation is applied in memory, then saved synchronously. It is not safe
// for concurrent use.
type Orchestrator struct {
	repo     *Repository
	log      *zap.Logger
	notifier Notifier
	timeout  time.Duration
	opts     Options

	brand    string
	campaign string
	key      string
	m        *Map
	added    map[string]bool

	hist   history
	moving string
}

func NewOrchestrator(repo *Repository, opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = discard{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	return &Orchestrator{
		repo:     repo,
		log:      opts.Logger,
		notifier: opts.Notifier,
		timeout:  opts.Timeout,
		opts:     opts,
		key:      Key("", AllCampaigns),
		m:        NewMap(DefaultTitle(AllCampaigns)),
		added:    make(map[string]bool),
		hist:     history{limit: opts.HistoryLimit},
	}
}

func (o *Orchestrator) Brand() string    { return o.brand }
func (o *Orchestrator) Campaign() string { return o.campaign }
func (o *Orchestrator) Key() string      { return o.key }
func (o *Orchestrator) Title() string    { return o.m.Title }

// Snapshot returns a deep copy of the current map.
func (o *Orchestrator) Snapshot() *Map { return o.m.Clone() }

// Nodes returns the nodes in insertion order. The slice is a copy.
func (o *Orchestrator) Nodes() []Node {
	return append([]Node(nil), o.m.Nodes...)
}

func (o *Orchestrator) Connections() []Connection {
	return append([]Connection(nil), o.m.Connections...)
}

func (o *Orchestrator) Node(id string) (Node, bool) { return o.m.Node(id) }

// IsAdded reports whether the content record is on the map.
func (o *Orchestrator) IsAdded(contentID string) bool { return o.added[contentID] }

// Switch makes the map for brand and campaign current, loading it from the
// repository or starting an empty one.
func (o *Orchestrator) Switch(brand, campaign string) error {
	o.brand = brand
	o.campaign = campaign
	o.key = Key(brand, campaign)
	o.hist.reset()
	o.moving = ""

	ctx, cancel := o.context()
	defer cancel()
	m, ok, err := o.repo.Load(ctx, o.key)
	if err != nil {
		o.log.Error("load journey map", zap.String("key", o.key), zap.Error(err))
		o.notify(LevelError, "Could not load the saved journey; starting empty")
	}
	if err != nil || !ok {
		m = NewMap(DefaultTitle(campaign))
	}
	o.m = m
	o.rebuildAdded()
	o.log.Debug("switched journey map",
		zap.String("key", o.key),
		zap.Bool("loaded", ok),
		zap.Int("nodes", len(m.Nodes)),
		zap.Int("connections", len(m.Connections)))
	return err
}

// AddNode places content at pos after filling in default display fields.
func (o *Orchestrator) AddNode(content Content, pos geometry.Point) (Node, error) {
	before := o.begin("")
	n := o.m.AddNode(WithDefaults(content, o.campaign), pos)
	o.hist.record(before)
	o.added[n.Content.ID] = true
	if o.opts.OnContentAdded != nil {
		o.opts.OnContentAdded(n.Content.ID)
	}
	o.log.Debug("add node",
		zap.String("key", o.key),
		zap.String("node_id", n.ID),
		zap.String("content_id", n.Content.ID))
	return n, o.persist()
}

// Drop handles a drag-and-drop payload released at pointer. An empty
// payload is ignored silently; a malformed one raises an error notice.
func (o *Orchestrator) Drop(payload string, pointer geometry.Point) (Node, bool, error) {
	c, err := ParsePayload(payload)
	if errors.Is(err, ErrEmptyPayload) {
		return Node{}, false, nil
	}
	if err != nil {
		o.log.Debug("reject drop", zap.String("key", o.key), zap.Error(err))
		o.notify(LevelError, "Could not add content: the dropped data is not a content record")
		return Node{}, false, err
	}
	n, err := o.AddNode(c, DropPosition(pointer))
	return n, true, err
}

// MoveNode sets a node's position. Consecutive moves of the same node share
// one undo entry until EndGesture is called.
func (o *Orchestrator) MoveNode(id string, pos geometry.Point) error {
	if _, ok := o.m.Node(id); !ok {
		o.log.Debug("ignore move of unknown node", zap.String("key", o.key), zap.String("node_id", id))
		return ErrNodeNotFound
	}
	coalesce := o.moving == id
	before := o.begin(id)
	if err := o.m.MoveNode(id, pos); err != nil {
		return err
	}
	if !coalesce {
		o.hist.record(before)
	}
	return o.persist()
}

// EndGesture closes the current move coalescing window.
func (o *Orchestrator) EndGesture() { o.moving = "" }

func (o *Orchestrator) RemoveNode(id string) error {
	before := o.begin("")
	n, dropped, err := o.m.RemoveNode(id)
	if err != nil {
		o.log.Debug("ignore removal of unknown node", zap.String("key", o.key), zap.String("node_id", id))
		return err
	}
	o.hist.record(before)
	if !o.m.HasContent(n.Content.ID) {
		delete(o.added, n.Content.ID)
		if o.opts.OnContentRemoved != nil {
			o.opts.OnContentRemoved(n.Content.ID)
		}
	}
	o.log.Debug("remove node",
		zap.String("key", o.key),
		zap.String("node_id", id),
		zap.Int("connections_removed", len(dropped)))
	return o.persist()
}

// Connect adds a directed connection. A repeated ordered pair is rejected
// with an error notice; unknown nodes are ignored.
func (o *Orchestrator) Connect(from, to string) (Connection, error) {
	before := o.begin("")
	c, err := o.m.Connect(from, to)
	switch {
	case errors.Is(err, ErrConnectionExists):
		o.notify(LevelError, "These nodes are already connected")
		return Connection{}, err
	case err != nil:
		o.log.Debug("ignore connect",
			zap.String("key", o.key),
			zap.String("from", from),
			zap.String("to", to),
			zap.Error(err))
		return Connection{}, err
	}
	o.hist.record(before)
	o.log.Debug("connect",
		zap.String("key", o.key),
		zap.String("connection_id", c.ID),
		zap.String("from", from),
		zap.String("to", to))
	return c, o.persist()
}

func (o *Orchestrator) RemoveConnection(id string) error {
	before := o.begin("")
	if err := o.m.RemoveConnection(id); err != nil {
		return err
	}
	o.hist.record(before)
	o.log.Debug("remove connection", zap.String("key", o.key), zap.String("connection_id", id))
	return o.persist()
}

func (o *Orchestrator) RenameTitle(title string) error {
	before := o.begin("")
	o.m.Title = title
	o.hist.record(before)
	return o.persist()
}

// Clear empties the map, restores the default title and forgets which
// content was added.
func (o *Orchestrator) Clear() error {
	before := o.begin("")
	removed := o.m.ContentIDs()
	o.m.Reset(DefaultTitle(o.campaign))
	o.hist.record(before)
	o.added = make(map[string]bool)
	if o.opts.OnContentRemoved != nil {
		for _, id := range removed {
			o.opts.OnContentRemoved(id)
		}
	}
	o.log.Debug("clear journey map", zap.String("key", o.key))
	return o.persist()
}

// Undo restores the map as it was before the last mutation.
func (o *Orchestrator) Undo() (bool, error) {
	o.moving = ""
	prev, ok := o.hist.undo(o.m)
	if !ok {
		return false, nil
	}
	o.restore(prev)
	return true, o.persist()
}

func (o *Orchestrator) Redo() (bool, error) {
	o.moving = ""
	next, ok := o.hist.redo(o.m)
	if !ok {
		return false, nil
	}
	o.restore(next)
	return true, o.persist()
}

// Replace swaps in an imported map as one undoable mutation.
func (o *Orchestrator) Replace(m *Map) error {
	before := o.begin("")
	m = m.Clone()
	m.Normalize()
	o.hist.record(before)
	o.restore(m)
	return o.persist()
}

func (o *Orchestrator) restore(m *Map) {
	prev := o.added
	o.m = m
	o.rebuildAdded()
	for id := range prev {
		if !o.added[id] && o.opts.OnContentRemoved != nil {
			o.opts.OnContentRemoved(id)
		}
	}
	for id := range o.added {
		if !prev[id] && o.opts.OnContentAdded != nil {
			o.opts.OnContentAdded(id)
		}
	}
}

// begin snapshots the map ahead of a mutation and tracks which node, if
// any, is being moved.
func (o *Orchestrator) begin(moving string) *Map {
	o.moving = moving
	return o.m.Clone()
}

func (o *Orchestrator) rebuildAdded() {
	o.added = make(map[string]bool)
	for _, id := range o.m.ContentIDs() {
		o.added[id] = true
	}
}

func (o *Orchestrator) persist() error {
	ctx, cancel := o.context()
	defer cancel()
	if err := o.repo.Save(ctx, o.key, o.m); err != nil {
		o.log.Error("save journey map", zap.String("key", o.key), zap.Error(err))
		o.notify(LevelError, "Could not save the journey")
		return err
	}
	return nil
}

func (o *Orchestrator) notify(level Level, msg string) {
	o.notifier.Notify(Notice{Level: level, Message: msg})
}

func (o *Orchestrator) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.timeout)
}
