package journey

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"journeymap/internal/store"
)

type recorder struct {
	notices []Notice
	added   []string
	removed []string
}

func (r *recorder) Notify(n Notice) { r.notices = append(r.notices, n) }

// failingStore wraps a store and fails saves while fail is set.
type failingStore struct {
	store.Store
	fail bool
}

func (f *failingStore) Save(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Store.Save(ctx, key, value)
}

func newOrchestrator(t *testing.T, s store.Store) (*Orchestrator, *recorder) {
	t.Helper()
	rec := &recorder{}
	o := NewOrchestrator(NewRepository(s), Options{
		Logger:           zap.NewNop(),
		Notifier:         rec,
		OnContentAdded:   func(id string) { rec.added = append(rec.added, id) },
		OnContentRemoved: func(id string) { rec.removed = append(rec.removed, id) },
	})
	require.NoError(t, o.Switch("Acme", "Summer"))
	return o, rec
}

func saved(t *testing.T, s store.Store, key string) *Map {
	t.Helper()
	data, err := s.Load(context.Background(), key)
	require.NoError(t, err)
	m, err := Decode(data)
	require.NoError(t, err)
	return m
}

func TestSwitchInitializesEmptyMap(t *testing.T) {
	s := store.NewMemory()
	o, _ := newOrchestrator(t, s)

	assert.Equal(t, "journey-map-Acme-Summer", o.Key())
	assert.Equal(t, "Summer Journey", o.Title())
	assert.Empty(t, o.Nodes())

	require.NoError(t, o.Switch("Acme", AllCampaigns))
	assert.Equal(t, "Campaign Journey", o.Title())
}

func TestScenarioAddConnectRemove(t *testing.T) {
	s := store.NewMemory()
	o, rec := newOrchestrator(t, s)

	a, err := o.AddNode(Content{ID: "A", Name: "Teaser"}, pt(50, 50))
	require.NoError(t, err)
	b, err := o.AddNode(Content{ID: "B", Name: "Launch"}, pt(300, 50))
	require.NoError(t, err)
	assert.Equal(t, pt(50, 50), a.Position)
	assert.Equal(t, pt(300, 50), b.Position)

	_, err = o.Connect(a.ID, b.ID)
	require.NoError(t, err)
	conns := o.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, a.ID, conns[0].From)
	assert.Equal(t, b.ID, conns[0].To)

	require.NoError(t, o.RemoveNode(a.ID))
	assert.Equal(t, []Node{b}, o.Nodes())
	assert.Empty(t, o.Connections())

	m := saved(t, s, o.Key())
	assert.Equal(t, []Node{b}, m.Nodes)
	assert.Empty(t, m.Connections)

	assert.Equal(t, []string{"A", "B"}, rec.added)
	assert.Equal(t, []string{"A"}, rec.removed)
	assert.False(t, o.IsAdded("A"))
	assert.True(t, o.IsAdded("B"))
}

func TestAddNodeFillsDefaults(t *testing.T) {
	o, _ := newOrchestrator(t, store.NewMemory())

	n, err := o.AddNode(Content{ID: "c", Name: "Post"}, pt(0, 0))
	require.NoError(t, err)
	assert.Equal(t, "Summer", n.Content.Campaign)
	assert.Equal(t, DefaultAudience("Summer"), n.Content.Audience)
	assert.Equal(t, DefaultKeyActions, n.Content.KeyActions)
	require.NotNil(t, n.Content.CampaignScores)
	assert.Equal(t, 75.0, n.Content.CampaignScores.Retention)
}

func TestRemoveNodeKeepsContentWhileReferenced(t *testing.T) {
	o, rec := newOrchestrator(t, store.NewMemory())

	first, _ := o.AddNode(Content{ID: "c"}, pt(0, 0))
	_, _ = o.AddNode(Content{ID: "c"}, pt(200, 0))

	require.NoError(t, o.RemoveNode(first.ID))
	assert.True(t, o.IsAdded("c"))
	assert.Empty(t, rec.removed)
}

func TestScenarioClear(t *testing.T) {
	s := store.NewMemory()
	o, rec := newOrchestrator(t, s)
	a, _ := o.AddNode(Content{ID: "A"}, pt(0, 0))
	b, _ := o.AddNode(Content{ID: "B"}, pt(200, 0))
	_, _ = o.Connect(a.ID, b.ID)
	require.NoError(t, o.RenameTitle("Custom"))

	require.NoError(t, o.Clear())

	data, err := json.Marshal(o.Snapshot())
	require.NoError(t, err)
	assert.JSONEq(t, `{"nodes":[],"connections":[],"title":"Summer Journey"}`, string(data))
	assert.False(t, o.IsAdded("A"))
	assert.ElementsMatch(t, []string{"A", "B"}, rec.removed)
	assert.Equal(t, "Summer Journey", saved(t, s, o.Key()).Title)
}

func TestConnectDuplicateNotifies(t *testing.T) {
	o, rec := newOrchestrator(t, store.NewMemory())
	a, _ := o.AddNode(Content{ID: "A"}, pt(0, 0))
	b, _ := o.AddNode(Content{ID: "B"}, pt(200, 0))

	_, err := o.Connect(a.ID, b.ID)
	require.NoError(t, err)
	_, err = o.Connect(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrConnectionExists)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, LevelError, rec.notices[0].Level)

	_, err = o.Connect(b.ID, a.ID)
	require.NoError(t, err)
	assert.Len(t, o.Connections(), 2)
}

func TestUnknownIDsAreIgnoredQuietly(t *testing.T) {
	s := store.NewMemory()
	o, rec := newOrchestrator(t, s)
	a, _ := o.AddNode(Content{ID: "A"}, pt(0, 0))
	before := o.Snapshot()

	assert.ErrorIs(t, o.MoveNode("ghost", pt(1, 1)), ErrNodeNotFound)
	assert.ErrorIs(t, o.RemoveNode("ghost"), ErrNodeNotFound)
	_, err := o.Connect(a.ID, "ghost")
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.ErrorIs(t, o.RemoveConnection("ghost"), ErrConnectionNotFound)

	assert.Equal(t, before, o.Snapshot())
	assert.Empty(t, rec.notices)
}

func TestScenarioMalformedDrop(t *testing.T) {
	s := store.NewMemory()
	o, rec := newOrchestrator(t, s)
	_, _ = o.AddNode(Content{ID: "A"}, pt(0, 0))
	before, err := s.Load(context.Background(), o.Key())
	require.NoError(t, err)

	_, ok, err := o.Drop("{not json", pt(10, 10))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedPayload)

	after, err := s.Load(context.Background(), o.Key())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Len(t, o.Nodes(), 1)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, LevelError, rec.notices[0].Level)
}

func TestDropEmptyPayloadIsSilent(t *testing.T) {
	o, rec := newOrchestrator(t, store.NewMemory())

	_, ok, err := o.Drop("  ", pt(10, 10))
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Empty(t, rec.notices)
	assert.Empty(t, o.Nodes())
}

func TestDropPlacesNodeAroundPointer(t *testing.T) {
	o, _ := newOrchestrator(t, store.NewMemory())

	n, ok, err := o.Drop(`{"id":"c1","name":"Reel","format":"video","qualityScore":91}`, pt(400, 300))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, pt(325, 260), n.Position)
	assert.Equal(t, "video", n.Content.Format)
	assert.True(t, o.IsAdded("c1"))
}

func TestSwitchLoadsSavedMap(t *testing.T) {
	s := store.NewMemory()
	o, _ := newOrchestrator(t, s)
	n, _ := o.AddNode(Content{ID: "A"}, pt(5, 5))

	require.NoError(t, o.Switch("Acme", "Holiday"))
	assert.Empty(t, o.Nodes())
	assert.False(t, o.IsAdded("A"))

	require.NoError(t, o.Switch("Acme", "Summer"))
	assert.Equal(t, []Node{n}, o.Nodes())
	assert.True(t, o.IsAdded("A"))
}

func TestSaveFailureIsReported(t *testing.T) {
	fs := &failingStore{Store: store.NewMemory()}
	o, rec := newOrchestrator(t, fs)

	fs.fail = true
	_, err := o.AddNode(Content{ID: "A"}, pt(0, 0))
	assert.Error(t, err)
	assert.Len(t, o.Nodes(), 1)
	require.Len(t, rec.notices, 1)
	assert.Equal(t, LevelError, rec.notices[0].Level)

	fs.fail = false
	_, err = o.AddNode(Content{ID: "B"}, pt(0, 0))
	require.NoError(t, err)
	assert.Len(t, saved(t, fs, o.Key()).Nodes, 2)
}

func TestUndoRedo(t *testing.T) {
	o, _ := newOrchestrator(t, store.NewMemory())
	a, _ := o.AddNode(Content{ID: "A"}, pt(0, 0))
	b, _ := o.AddNode(Content{ID: "B"}, pt(200, 0))
	_, _ = o.Connect(a.ID, b.ID)

	require.NoError(t, o.RemoveNode(a.ID))
	assert.False(t, o.IsAdded("A"))

	ok, err := o.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, o.Nodes(), 2)
	assert.Len(t, o.Connections(), 1)
	assert.True(t, o.IsAdded("A"))

	ok, err = o.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, o.Nodes(), 1)
	assert.Empty(t, o.Connections())

	ok, err = o.Redo()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMovesCoalesceUntilGestureEnds(t *testing.T) {
	o, _ := newOrchestrator(t, store.NewMemory())
	a, _ := o.AddNode(Content{ID: "A"}, pt(0, 0))

	require.NoError(t, o.MoveNode(a.ID, pt(10, 0)))
	require.NoError(t, o.MoveNode(a.ID, pt(20, 0)))
	require.NoError(t, o.MoveNode(a.ID, pt(30, 0)))
	o.EndGesture()
	require.NoError(t, o.MoveNode(a.ID, pt(40, 0)))

	_, _ = o.Undo()
	n, _ := o.Node(a.ID)
	assert.Equal(t, pt(30, 0), n.Position)

	_, _ = o.Undo()
	n, _ = o.Node(a.ID)
	assert.Equal(t, pt(0, 0), n.Position)
}

func TestReplaceNormalizesImportedMap(t *testing.T) {
	o, _ := newOrchestrator(t, store.NewMemory())
	imported := &Map{
		Nodes:       []Node{{ID: "n1", Content: Content{ID: "c1"}}},
		Connections: []Connection{{ID: "x", From: "n1", To: "missing"}},
		Title:       "Imported",
	}

	require.NoError(t, o.Replace(imported))
	assert.Equal(t, "Imported", o.Title())
	assert.Empty(t, o.Connections())
	assert.True(t, o.IsAdded("c1"))
	assert.Len(t, imported.Connections, 1)
}
