package graph_test

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/aretw0/flowcanvas/internal/testutils"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAddNode(t *testing.T, m *graph.Model, typ domain.NodeType, x, y float64) domain.Node {
	t.Helper()
	n, err := m.AddNode(typ, domain.Point{X: x, Y: y})
	require.NoError(t, err)
	return n
}

func TestAddNode_UsesCatalog(t *testing.T) {
	for _, desc := range domain.Catalog() {
		t.Run(string(desc.Type), func(t *testing.T) {
			m := graph.New()
			before, _ := m.Len()

			n := mustAddNode(t, m, desc.Type, 12, 34)

			after, _ := m.Len()
			assert.Equal(t, before+1, after)
			assert.Equal(t, desc.Label, n.Label)
			assert.Equal(t, desc.Color, n.Color)
			assert.Equal(t, desc.Icon, n.Icon)
			assert.Equal(t, map[string]any{}, n.Config)
			assert.Equal(t, domain.Point{X: 12, Y: 34}, n.Position)
			assert.Contains(t, n.ID, domain.NodeIDPrefix)
		})
	}
}

func TestAddNode_UnknownType(t *testing.T) {
	m := graph.New()
	_, err := m.AddNode("webhook", domain.Point{})
	assert.ErrorIs(t, err, domain.ErrUnknownNodeType)

	nodes, _ := m.Len()
	assert.Zero(t, nodes)
}

func TestAddNode_IDsAreNeverReused(t *testing.T) {
	// A generator that keeps returning the same id must not produce duplicates.
	calls := 0
	gen := func(prefix string) string {
		calls++
		if calls <= 3 {
			return prefix + "fixed"
		}
		return fmt.Sprintf("%s%d", prefix, calls)
	}
	m := graph.New(graph.WithIDGenerator(gen))

	a := mustAddNode(t, m, domain.NodeTypeCode, 0, 0)
	m.RemoveNode(a.ID)
	b := mustAddNode(t, m, domain.NodeTypeCode, 0, 0)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddNode_ReturnsCopy(t *testing.T) {
	m := graph.New()
	n := mustAddNode(t, m, domain.NodeTypeHTTP, 0, 0)
	n.Config["url"] = "https://example.com"

	stored, ok := m.Node(n.ID)
	require.True(t, ok)
	assert.Empty(t, stored.Config)
}

func TestUpdateNode(t *testing.T) {
	m := graph.New()
	n := mustAddNode(t, m, domain.NodeTypeAgent, 0, 0)

	assert.True(t, m.UpdateNodeLabel(n.ID, "Summarizer"))
	assert.True(t, m.UpdateNodePosition(n.ID, domain.Point{X: 5, Y: 6}))

	got, _ := m.Node(n.ID)
	assert.Equal(t, "Summarizer", got.Label)
	assert.Equal(t, domain.Point{X: 5, Y: 6}, got.Position)

	before := m.Serialize(domain.Metadata{})
	assert.False(t, m.UpdateNodeLabel("missing", "x"))
	assert.False(t, m.UpdateNodePosition("missing", domain.Point{X: 1}))
	assert.Equal(t, before, m.Serialize(domain.Metadata{}))
}

func TestRemoveNode_Cascades(t *testing.T) {
	m := graph.New(graph.WithIDGenerator(testutils.SequentialIDs()))
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)
	b := mustAddNode(t, m, domain.NodeTypeHTTP, 100, 0)

	_, err := m.AddConnection(a.ID, b.ID)
	require.NoError(t, err)

	require.True(t, m.RemoveNode(a.ID))

	nodes := m.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, b.ID, nodes[0].ID)
	assert.Empty(t, m.Connections())
}

func TestRemoveNode_ClearsTransientState(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)
	b := mustAddNode(t, m, domain.NodeTypeHTTP, 0, 0)

	require.True(t, m.Select(a.ID))
	require.True(t, m.SetPendingSource(a.ID))
	m.RemoveNode(a.ID)

	assert.Empty(t, m.Selected())
	assert.Empty(t, m.PendingSource())

	require.True(t, m.Select(b.ID))
	m.RemoveNode("missing")
	assert.Equal(t, b.ID, m.Selected())
}

func TestRemoveNode_CascadeProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := domain.Catalog()

	for round := 0; round < 25; round++ {
		m := graph.New()
		var ids []string
		count := 2 + rng.Intn(8)
		for i := 0; i < count; i++ {
			n := mustAddNode(t, m, types[rng.Intn(len(types))].Type, rng.Float64()*800, rng.Float64()*600)
			ids = append(ids, n.ID)
		}
		edges := rng.Intn(15)
		for i := 0; i < edges; i++ {
			_, _ = m.AddConnection(ids[rng.Intn(len(ids))], ids[rng.Intn(len(ids))])
		}

		victim := ids[rng.Intn(len(ids))]
		m.RemoveNode(victim)

		for _, c := range m.Connections() {
			assert.False(t, c.Touches(victim), "round %d: connection %s still references %s", round, c.ID, victim)
		}
		assert.False(t, m.HasNode(victim))
	}
}

func TestRemove_UnknownIDIsNoop(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 1, 2)
	b := mustAddNode(t, m, domain.NodeTypeEmail, 3, 4)
	_, err := m.AddConnection(a.ID, b.ID)
	require.NoError(t, err)

	before, err := m.Serialize(domain.Metadata{Name: "n"}).Marshal()
	require.NoError(t, err)

	assert.False(t, m.RemoveNode("node_missing"))
	assert.False(t, m.RemoveConnection("conn_missing"))

	after, err := m.Serialize(domain.Metadata{Name: "n"}).Marshal()
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestAddConnection_RejectsSelfLoop(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeCode, 0, 0)

	_, err := m.AddConnection(a.ID, a.ID)
	assert.ErrorIs(t, err, domain.ErrSelfConnection)
	assert.Empty(t, m.Connections())
}

func TestAddConnection_AllowsDuplicates(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)
	b := mustAddNode(t, m, domain.NodeTypeDelay, 0, 0)

	c1, err := m.AddConnection(a.ID, b.ID)
	require.NoError(t, err)
	c2, err := m.AddConnection(a.ID, b.ID)
	require.NoError(t, err)

	assert.NotEqual(t, c1.ID, c2.ID)
	assert.Equal(t, c1.From, c2.From)
	assert.Equal(t, c1.To, c2.To)
	assert.Len(t, m.Connections(), 2)
}

func TestAddConnection_DoesNotCheckExistence(t *testing.T) {
	m := graph.New()
	c, err := m.AddConnection("ghost_a", "ghost_b")
	require.NoError(t, err)
	assert.Equal(t, "ghost_a", c.From)
}

func TestRemoveConnection(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)
	b := mustAddNode(t, m, domain.NodeTypeDelay, 0, 0)
	c, err := m.AddConnection(a.ID, b.ID)
	require.NoError(t, err)

	assert.True(t, m.RemoveConnection(c.ID))
	assert.False(t, m.RemoveConnection(c.ID))
	assert.Empty(t, m.Connections())
	assert.True(t, m.HasNode(a.ID))
}

func TestConnectionsOf(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)
	b := mustAddNode(t, m, domain.NodeTypeCondition, 0, 0)
	c := mustAddNode(t, m, domain.NodeTypeEmail, 0, 0)
	_, _ = m.AddConnection(a.ID, b.ID)
	_, _ = m.AddConnection(b.ID, c.ID)

	assert.Len(t, m.ConnectionsOf(b.ID), 2)
	assert.Len(t, m.ConnectionsOf(a.ID), 1)
}

func TestSelection(t *testing.T) {
	m := graph.New()
	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)

	assert.False(t, m.Select("missing"))
	assert.Empty(t, m.Selected())

	assert.True(t, m.Select(a.ID))
	assert.Equal(t, a.ID, m.Selected())

	m.ClearSelection()
	assert.Empty(t, m.Selected())
}

func TestListeners(t *testing.T) {
	var events []domain.EventType
	m := graph.New(graph.WithListener(func(e domain.GraphEvent) {
		events = append(events, e.Type)
	}))

	a := mustAddNode(t, m, domain.NodeTypeTrigger, 0, 0)
	b := mustAddNode(t, m, domain.NodeTypeHTTP, 0, 0)
	_, _ = m.AddConnection(a.ID, b.ID)
	_, _ = m.AddConnection(a.ID, a.ID)
	m.UpdateNodePosition(a.ID, domain.Point{X: 1})
	m.UpdateNodeLabel("missing", "x")
	m.Select(a.ID)
	m.RemoveNode(a.ID)

	assert.Equal(t, []domain.EventType{
		domain.EventNodeAdded,
		domain.EventNodeAdded,
		domain.EventConnectionAdded,
		domain.EventNodeMoved,
		domain.EventSelectionChanged,
		domain.EventConnectionRemoved,
		domain.EventNodeRemoved,
		domain.EventSelectionChanged,
	}, events)
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := graph.New()
	count := 0
	unsubscribe := m.Subscribe(func(domain.GraphEvent) { count++ })

	mustAddNode(t, m, domain.NodeTypeCode, 0, 0)
	unsubscribe()
	mustAddNode(t, m, domain.NodeTypeCode, 0, 0)

	assert.Equal(t, 1, count)
}

func TestSubscribe_UnsubscribeDuringDelivery(t *testing.T) {
	m := graph.New()
	counts := make([]int, 3)

	var unsubscribeFirst func()
	unsubscribeFirst = m.Subscribe(func(domain.GraphEvent) {
		counts[0]++
		unsubscribeFirst()
	})
	m.Subscribe(func(domain.GraphEvent) { counts[1]++ })
	m.Subscribe(func(domain.GraphEvent) { counts[2]++ })

	mustAddNode(t, m, domain.NodeTypeCode, 0, 0)
	assert.Equal(t, []int{1, 1, 1}, counts)

	mustAddNode(t, m, domain.NodeTypeCode, 0, 0)
	assert.Equal(t, []int{1, 2, 2}, counts)
}
