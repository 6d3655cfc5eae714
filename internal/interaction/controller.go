package interaction

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/flowcanvas/internal/logging"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/graph"
	"github.com/aretw0/flowcanvas/pkg/viewport"
)

// State is the gesture the controller is currently in.
type State string

const (
	StateIdle                     State = "idle"
	StateDraggingNode             State = "dragging_node"
	StateMenuOpen                 State = "menu_open"
	StateAwaitingConnectionTarget State = "awaiting_connection_target"
)

// PaletteOrigin is the screen point where nodes created from the sidebar palette appear.
var PaletteOrigin = domain.Point{X: 400, Y: 300}

// Controller turns pointer gestures into graph mutations.
// It is not safe for concurrent use.
type Controller struct {
	graph  *graph.Model
	view   *viewport.Transform
	logger *slog.Logger

	dragging   string
	menuOpen   bool
	menuAnchor domain.Point
	pointer    domain.Point
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for gesture tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController binds a controller to a graph and the viewport it is displayed through.
func NewController(g *graph.Model, v *viewport.Transform, opts ...Option) *Controller {
	c := &Controller{
		graph:  g,
		view:   v,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State derives the current state. A drag wins over an open menu, which wins over a
// pending connection.
func (c *Controller) State() State {
	switch {
	case c.dragging != "":
		return StateDraggingNode
	case c.menuOpen:
		return StateMenuOpen
	case c.graph.PendingSource() != "":
		return StateAwaitingConnectionTarget
	default:
		return StateIdle
	}
}

// DragTarget returns the node being dragged, or "".
func (c *Controller) DragTarget() string { return c.dragging }

// MenuAnchor returns the canvas-local point the creation menu is anchored at.
func (c *Controller) MenuAnchor() (domain.Point, bool) { return c.menuAnchor, c.menuOpen }

// NodePointerDown selects node id and starts dragging it. It reports false for an
// unknown node, which leaves the controller untouched.
func (c *Controller) NodePointerDown(id string) bool {
	if !c.graph.Select(id) {
		c.logger.Debug("Pointer down on unknown node", "node_id", id)
		return false
	}
	c.dragging = id
	c.logger.Debug("Drag started", "node_id", id)
	return true
}

// PointerMove records the pointer position and, while dragging, moves the drag target under it.
func (c *Controller) PointerMove(screen domain.Point) {
	c.pointer = screen
	if c.dragging == "" {
		return
	}
	pos := c.view.ToModel(screen)
	if !c.graph.UpdateNodePosition(c.dragging, pos) {
		// The node disappeared mid-drag.
		c.dragging = ""
		return
	}
	c.logger.Debug("Node dragged", "node_id", c.dragging, "x", pos.X, "y", pos.Y)
}

// PointerUp ends a drag. The dragged node stays selected.
func (c *Controller) PointerUp() {
	if c.dragging == "" {
		return
	}
	c.graph.Select(c.dragging)
	c.logger.Debug("Drag ended", "node_id", c.dragging)
	c.dragging = ""
}

// CanvasClick handles a click on empty canvas: it clears the selection, closes the menu and
// abandons a pending connection.
func (c *Controller) CanvasClick() {
	c.graph.ClearSelection()
	c.menuOpen = false
	c.graph.ClearPendingSource()
	c.logger.Debug("Canvas clicked")
}

// CanvasDoubleClick opens the creation menu anchored at the canvas-local point screen.
func (c *Controller) CanvasDoubleClick(screen domain.Point) {
	c.menuOpen = true
	c.menuAnchor = screen
	c.logger.Debug("Menu opened", "x", screen.X, "y", screen.Y)
}

// SelectMenuEntry creates a node of type t under the menu anchor and closes the menu.
func (c *Controller) SelectMenuEntry(t domain.NodeType) (domain.Node, error) {
	if !c.menuOpen {
		return domain.Node{}, domain.ErrMenuClosed
	}
	n, err := c.graph.AddNode(t, c.view.ToModel(c.menuAnchor))
	if err != nil {
		return domain.Node{}, err
	}
	c.menuOpen = false
	c.logger.Debug("Node created from menu", "node_id", n.ID, "type", t)
	return n, nil
}

// CancelMenu closes the creation menu without creating anything.
func (c *Controller) CancelMenu() {
	c.menuOpen = false
}

// PaletteSelect creates a node of type t at PaletteOrigin.
func (c *Controller) PaletteSelect(t domain.NodeType) (domain.Node, error) {
	n, err := c.graph.AddNode(t, c.view.ToModel(PaletteOrigin))
	if err != nil {
		return domain.Node{}, err
	}
	c.logger.Debug("Node created from palette", "node_id", n.ID, "type", t)
	return n, nil
}

// StartConnection begins drawing a connection from the output port of node id.
func (c *Controller) StartConnection(id string) {
	if !c.graph.SetPendingSource(id) {
		c.logger.Debug("Connection start on unknown node", "node_id", id)
		return
	}
	c.logger.Debug("Connection started", "from", id)
}

// CompleteConnection finishes a pending connection on the input port of node id.
// The pending source is cleared whether or not an edge was created.
func (c *Controller) CompleteConnection(id string) (domain.Connection, error) {
	from := c.graph.PendingSource()
	if from == "" {
		return domain.Connection{}, domain.ErrNoPendingConnection
	}
	c.graph.ClearPendingSource()

	if !c.graph.HasNode(id) {
		return domain.Connection{}, fmt.Errorf("connection target %q: %w", id, domain.ErrNodeNotFound)
	}
	conn, err := c.graph.AddConnection(from, id)
	if err != nil {
		c.logger.Debug("Connection rejected", "from", from, "to", id, "err", err)
		return domain.Connection{}, err
	}
	c.logger.Debug("Connection created", "connection_id", conn.ID, "from", from, "to", id)
	return conn, nil
}

// CancelConnection abandons a pending connection.
func (c *Controller) CancelConnection() {
	c.graph.ClearPendingSource()
}

// SelectNode selects node id without starting a drag.
func (c *Controller) SelectNode(id string) bool {
	return c.graph.Select(id)
}

// EditSelectedLabel relabels the selected node.
func (c *Controller) EditSelectedLabel(label string) bool {
	id := c.graph.Selected()
	if id == "" {
		return false
	}
	return c.graph.UpdateNodeLabel(id, label)
}

// DeleteSelected removes the selected node and its connections.
func (c *Controller) DeleteSelected() bool {
	id := c.graph.Selected()
	if id == "" {
		return false
	}
	if c.dragging == id {
		c.dragging = ""
	}
	c.logger.Debug("Deleting node", "node_id", id)
	return c.graph.RemoveNode(id)
}

// DeleteConnection removes connection id. Confirmation is up to the caller.
func (c *Controller) DeleteConnection(id string) bool {
	return c.graph.RemoveConnection(id)
}

// ZoomIn steps the viewport zoom up.
func (c *Controller) ZoomIn() float64 { return c.view.ZoomIn() }

// ZoomOut steps the viewport zoom down.
func (c *Controller) ZoomOut() float64 { return c.view.ZoomOut() }

// PendingLine returns the rubber band of a connection being drawn, from the source's output
// port to the last pointer position, in screen space.
func (c *Controller) PendingLine() (from, to domain.Point, ok bool) {
	src := c.graph.PendingSource()
	if src == "" {
		return domain.Point{}, domain.Point{}, false
	}
	n, found := c.graph.Node(src)
	if !found {
		return domain.Point{}, domain.Point{}, false
	}
	return viewport.OutputPort(c.view.ToScreen(n.Position)), c.pointer, true
}
