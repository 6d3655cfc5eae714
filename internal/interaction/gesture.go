package interaction

import (
	"fmt"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// GestureKind names one user input event.
type GestureKind string

const (
	GestureNodePointerDown    GestureKind = "node_pointer_down"
	GesturePointerMove        GestureKind = "pointer_move"
	GesturePointerUp          GestureKind = "pointer_up"
	GestureCanvasClick        GestureKind = "canvas_click"
	GestureCanvasDoubleClick  GestureKind = "canvas_double_click"
	GestureMenuSelect         GestureKind = "menu_select"
	GestureMenuCancel         GestureKind = "menu_cancel"
	GesturePaletteSelect      GestureKind = "palette_select"
	GestureConnectionStart    GestureKind = "connection_start"
	GestureConnectionComplete GestureKind = "connection_complete"
	GestureConnectionCancel   GestureKind = "connection_cancel"
	GestureNodeSelect         GestureKind = "node_select"
	GestureLabelEdit          GestureKind = "label_edit"
	GestureDeleteSelected     GestureKind = "delete_selected"
	GestureConnectionDelete   GestureKind = "connection_delete"
	GestureZoomIn             GestureKind = "zoom_in"
	GestureZoomOut            GestureKind = "zoom_out"
)

// Gesture is a serializable input event. Only the fields the kind needs are read.
type Gesture struct {
	Kind         GestureKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	NodeID       string      `json:"node_id,omitempty" yaml:"node_id,omitempty" mapstructure:"node_id"`
	ConnectionID string      `json:"connection_id,omitempty" yaml:"connection_id,omitempty" mapstructure:"connection_id"`
	NodeType     string      `json:"node_type,omitempty" yaml:"node_type,omitempty" mapstructure:"node_type"`
	Label        string      `json:"label,omitempty" yaml:"label,omitempty" mapstructure:"label"`
	X            float64     `json:"x,omitempty" yaml:"x,omitempty" mapstructure:"x"`
	Y            float64     `json:"y,omitempty" yaml:"y,omitempty" mapstructure:"y"`
}

// Point returns the gesture coordinates.
func (g Gesture) Point() domain.Point {
	return domain.Point{X: g.X, Y: g.Y}
}

// Result reports what a dispatched gesture changed.
type Result struct {
	State      State              `json:"state"`
	Applied    bool               `json:"applied"`
	Node       *domain.Node       `json:"node,omitempty"`
	Connection *domain.Connection `json:"connection,omitempty"`
	Zoom       float64            `json:"zoom,omitempty"`
}

// DecodeGesture builds a Gesture from loosely typed input such as decoded YAML or tool arguments.
func DecodeGesture(input map[string]any) (Gesture, error) {
	var g Gesture
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &g,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Gesture{}, err
	}
	if err := dec.Decode(input); err != nil {
		return Gesture{}, fmt.Errorf("failed to decode gesture: %w", err)
	}
	return g, nil
}

// Dispatch applies g to the controller.
func (c *Controller) Dispatch(g Gesture) (Result, error) {
	res := Result{Applied: true}

	switch g.Kind {
	case GestureNodePointerDown:
		res.Applied = c.NodePointerDown(g.NodeID)
	case GesturePointerMove:
		c.PointerMove(g.Point())
	case GesturePointerUp:
		c.PointerUp()
	case GestureCanvasClick:
		c.CanvasClick()
	case GestureCanvasDoubleClick:
		c.CanvasDoubleClick(g.Point())
	case GestureMenuSelect, GesturePaletteSelect:
		t, err := domain.ParseNodeType(g.NodeType)
		if err != nil {
			return c.failed(err)
		}
		var n domain.Node
		if g.Kind == GestureMenuSelect {
			n, err = c.SelectMenuEntry(t)
		} else {
			n, err = c.PaletteSelect(t)
		}
		if err != nil {
			return c.failed(err)
		}
		res.Node = &n
	case GestureMenuCancel:
		c.CancelMenu()
	case GestureConnectionStart:
		c.StartConnection(g.NodeID)
		res.Applied = c.graph.PendingSource() == g.NodeID
	case GestureConnectionComplete:
		conn, err := c.CompleteConnection(g.NodeID)
		if err != nil {
			return c.failed(err)
		}
		res.Connection = &conn
	case GestureConnectionCancel:
		c.CancelConnection()
	case GestureNodeSelect:
		res.Applied = c.SelectNode(g.NodeID)
	case GestureLabelEdit:
		res.Applied = c.EditSelectedLabel(g.Label)
	case GestureDeleteSelected:
		res.Applied = c.DeleteSelected()
	case GestureConnectionDelete:
		res.Applied = c.DeleteConnection(g.ConnectionID)
	case GestureZoomIn:
		res.Zoom = c.ZoomIn()
	case GestureZoomOut:
		res.Zoom = c.ZoomOut()
	default:
		return c.failed(fmt.Errorf("%w: %q", domain.ErrUnknownGesture, g.Kind))
	}

	res.State = c.State()
	return res, nil
}

func (c *Controller) failed(err error) (Result, error) {
	return Result{State: c.State()}, err
}
