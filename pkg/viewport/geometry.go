package viewport

import (
	"fmt"
	"math"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

// Port anchors relative to a node's screen position.
var (
	OutputPortOffset = domain.Point{X: 75, Y: 40}
	InputPortOffset  = domain.Point{X: -25, Y: 40}
)

const (
	MinStrokeWidth = 1.0
	MaxStrokeWidth = 4.0
)

// Curve is a cubic Bezier segment in screen space.
type Curve struct {
	Start    domain.Point `json:"start"`
	Control1 domain.Point `json:"control1"`
	Control2 domain.Point `json:"control2"`
	End      domain.Point `json:"end"`
}

// SVGPath renders the curve as an SVG path "d" attribute.
func (c Curve) SVGPath() string {
	return fmt.Sprintf("M %s C %s, %s, %s",
		formatPoint(c.Start), formatPoint(c.Control1), formatPoint(c.Control2), formatPoint(c.End))
}

// OutputPort returns the output anchor of a node drawn at screen position node.
func OutputPort(node domain.Point) domain.Point { return node.Add(OutputPortOffset) }

// InputPort returns the input anchor of a node drawn at screen position node.
func InputPort(node domain.Point) domain.Point { return node.Add(InputPortOffset) }

// ConnectionCurve builds the curve from the output port of from to the input port of to.
// Both arguments are node screen positions. The control points share the horizontal
// midpoint of the two nodes.
func ConnectionCurve(from, to domain.Point) Curve {
	out := OutputPort(from)
	in := InputPort(to)
	midX := (from.X + to.X) / 2
	return Curve{
		Start:    out,
		Control1: domain.Point{X: midX, Y: out.Y},
		Control2: domain.Point{X: midX, Y: in.Y},
		End:      in,
	}
}

// StrokeWidth scales base by the zoom factor, clamped into [MinStrokeWidth, MaxStrokeWidth].
func (t *Transform) StrokeWidth(base float64) float64 {
	return math.Max(MinStrokeWidth, math.Min(MaxStrokeWidth, base*t.zoom))
}

func formatPoint(p domain.Point) string {
	return fmt.Sprintf("%g %g", p.X, p.Y)
}
