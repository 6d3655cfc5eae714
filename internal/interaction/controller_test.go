package interaction_test

import (
	"testing"

	"github.com/aretw0/flowcanvas/internal/interaction"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
	"github.com/aretw0/flowcanvas/pkg/viewport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*interaction.Controller, *graph.Model, *viewport.Transform) {
	t.Helper()
	g := graph.New()
	v := viewport.New()
	return interaction.NewController(g, v), g, v
}

func addNode(t *testing.T, g *graph.Model, typ domain.NodeType, x, y float64) string {
	t.Helper()
	n, err := g.AddNode(typ, domain.Point{X: x, Y: y})
	require.NoError(t, err)
	return n.ID
}

func TestConnect_TwoNodes(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)
	b := addNode(t, g, domain.NodeTypeHTTP, 200, 0)

	c.StartConnection(a)
	assert.Equal(t, interaction.StateAwaitingConnectionTarget, c.State())

	conn, err := c.CompleteConnection(b)
	require.NoError(t, err)

	assert.Equal(t, a, conn.From)
	assert.Equal(t, b, conn.To)
	assert.Len(t, g.Connections(), 1)
	assert.Empty(t, g.PendingSource())
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestConnect_SelfIsRejected(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeCode, 0, 0)

	c.StartConnection(a)
	_, err := c.CompleteConnection(a)

	assert.ErrorIs(t, err, domain.ErrSelfConnection)
	assert.Empty(t, g.Connections())
	assert.Empty(t, g.PendingSource())
}

func TestConnect_WithoutStart(t *testing.T) {
	c, g, _ := newController(t)
	b := addNode(t, g, domain.NodeTypeCode, 0, 0)

	_, err := c.CompleteConnection(b)
	assert.ErrorIs(t, err, domain.ErrNoPendingConnection)
	assert.Empty(t, g.Connections())
}

func TestConnect_UnknownTarget(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeCode, 0, 0)

	c.StartConnection(a)
	_, err := c.CompleteConnection("node_missing")

	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	assert.Empty(t, g.Connections())
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestConnect_StartOnUnknownNode(t *testing.T) {
	c, _, _ := newController(t)
	c.StartConnection("node_missing")
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestConnect_CanvasClickCancels(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)

	c.StartConnection(a)
	c.CanvasClick()

	assert.Equal(t, interaction.StateIdle, c.State())
	_, err := c.CompleteConnection(a)
	assert.ErrorIs(t, err, domain.ErrNoPendingConnection)
}

func TestConnect_ExplicitCancel(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)

	c.StartConnection(a)
	c.CancelConnection()
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestPendingLine(t *testing.T) {
	c, g, v := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 100, 100)
	v.SetZoom(2)

	_, _, ok := c.PendingLine()
	assert.False(t, ok)

	c.StartConnection(a)
	c.PointerMove(domain.Point{X: 500, Y: 420})

	from, to, ok := c.PendingLine()
	require.True(t, ok)
	assert.Equal(t, domain.Point{X: 275, Y: 240}, from)
	assert.Equal(t, domain.Point{X: 500, Y: 420}, to)
}

func TestDrag(t *testing.T) {
	c, g, v := newController(t)
	a := addNode(t, g, domain.NodeTypeAgent, 10, 10)
	v.SetZoom(2)
	v.SetOffset(domain.Point{X: 100, Y: 0})

	c.NodePointerDown(a)
	assert.Equal(t, interaction.StateDraggingNode, c.State())
	assert.Equal(t, a, c.DragTarget())

	c.PointerMove(domain.Point{X: 300, Y: 200})
	c.PointerMove(domain.Point{X: 500, Y: 400})
	c.PointerUp()

	n, _ := g.Node(a)
	assert.Equal(t, domain.Point{X: 200, Y: 200}, n.Position)
	assert.Equal(t, a, g.Selected())
	assert.Equal(t, interaction.StateIdle, c.State())
	assert.Empty(t, c.DragTarget())
}

func TestPointerMove_WithoutDragIsNoop(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeAgent, 10, 10)

	c.PointerMove(domain.Point{X: 300, Y: 200})
	c.PointerUp()

	n, _ := g.Node(a)
	assert.Equal(t, domain.Point{X: 10, Y: 10}, n.Position)
}

func TestPointerDown_UnknownNode(t *testing.T) {
	c, _, _ := newController(t)
	assert.False(t, c.NodePointerDown("node_missing"))
	assert.False(t, c.NodePointerDown(""))
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestMenu_CreatesAtAnchor(t *testing.T) {
	c, g, v := newController(t)
	v.SetOffset(domain.Point{X: 50, Y: 50})

	c.CanvasDoubleClick(domain.Point{X: 250, Y: 150})
	assert.Equal(t, interaction.StateMenuOpen, c.State())
	anchor, open := c.MenuAnchor()
	assert.True(t, open)
	assert.Equal(t, domain.Point{X: 250, Y: 150}, anchor)

	n, err := c.SelectMenuEntry(domain.NodeTypeDelay)
	require.NoError(t, err)

	assert.Equal(t, domain.Point{X: 200, Y: 100}, n.Position)
	assert.Equal(t, "Delay", n.Label)
	assert.True(t, g.HasNode(n.ID))
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestMenu_Closed(t *testing.T) {
	c, g, _ := newController(t)
	_, err := c.SelectMenuEntry(domain.NodeTypeDelay)
	assert.ErrorIs(t, err, domain.ErrMenuClosed)

	nodes, _ := g.Len()
	assert.Zero(t, nodes)
}

func TestMenu_UnknownTypeKeepsMenuOpen(t *testing.T) {
	c, _, _ := newController(t)
	c.CanvasDoubleClick(domain.Point{})

	_, err := c.SelectMenuEntry("webhook")
	assert.ErrorIs(t, err, domain.ErrUnknownNodeType)
	assert.Equal(t, interaction.StateMenuOpen, c.State())
}

func TestMenu_Dismiss(t *testing.T) {
	c, _, _ := newController(t)

	c.CanvasDoubleClick(domain.Point{X: 1, Y: 1})
	c.CancelMenu()
	assert.Equal(t, interaction.StateIdle, c.State())

	c.CanvasDoubleClick(domain.Point{X: 1, Y: 1})
	c.CanvasClick()
	assert.Equal(t, interaction.StateIdle, c.State())
}

func TestPaletteSelect(t *testing.T) {
	c, _, _ := newController(t)

	n, err := c.PaletteSelect(domain.NodeTypeTrigger)
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 400, Y: 300}, n.Position)
}

func TestPaletteSelect_Zoomed(t *testing.T) {
	c, _, v := newController(t)
	v.SetZoom(2)

	n, err := c.PaletteSelect(domain.NodeTypeTrigger)
	require.NoError(t, err)
	assert.Equal(t, domain.Point{X: 200, Y: 150}, n.Position)
}

func TestSelection_EditAndDelete(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)
	b := addNode(t, g, domain.NodeTypeEmail, 0, 0)
	_, err := g.AddConnection(a, b)
	require.NoError(t, err)

	assert.False(t, c.EditSelectedLabel("nothing selected"))
	assert.False(t, c.DeleteSelected())

	require.True(t, c.SelectNode(a))
	assert.True(t, c.EditSelectedLabel("Every morning"))
	n, _ := g.Node(a)
	assert.Equal(t, "Every morning", n.Label)

	assert.True(t, c.DeleteSelected())
	assert.False(t, g.HasNode(a))
	assert.Empty(t, g.Connections())
	assert.Empty(t, g.Selected())
}

func TestCanvasClick_ClearsSelection(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)

	c.SelectNode(a)
	c.CanvasClick()
	assert.Empty(t, g.Selected())
}

func TestDeleteConnection(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)
	b := addNode(t, g, domain.NodeTypeEmail, 0, 0)
	conn, err := g.AddConnection(a, b)
	require.NoError(t, err)

	assert.True(t, c.DeleteConnection(conn.ID))
	assert.False(t, c.DeleteConnection(conn.ID))
}

func TestStatePriority(t *testing.T) {
	c, g, _ := newController(t)
	a := addNode(t, g, domain.NodeTypeTrigger, 0, 0)

	c.StartConnection(a)
	c.CanvasDoubleClick(domain.Point{})
	assert.Equal(t, interaction.StateMenuOpen, c.State())

	c.NodePointerDown(a)
	assert.Equal(t, interaction.StateDraggingNode, c.State())

	c.PointerUp()
	c.CancelMenu()
	assert.Equal(t, interaction.StateAwaitingConnectionTarget, c.State())
}

func TestZoom(t *testing.T) {
	c, _, v := newController(t)
	assert.InDelta(t, 1.1, c.ZoomIn(), 1e-12)
	assert.InDelta(t, 1.0, c.ZoomOut(), 1e-12)
	assert.Equal(t, 100, v.Percent())
}
