package viewport

import (
	"math"
	"time"

	"github.com/aretw0/flowcanvas/pkg/domain"
)

const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
	ZoomStep    = 0.1
)

// zoomPrecision absorbs float drift so repeated steps land on the bounds.
const zoomPrecision = 1e9

// Transform is the pan/zoom state of the canvas.
//
//	screen = canonical * zoom + offset
type Transform struct {
	zoom     float64
	offset   domain.Point
	listener domain.Listener
	now      func() time.Time
}

// Option configures a Transform.
type Option func(*Transform)

// WithListener receives a viewport_changed event whenever zoom or offset change.
func WithListener(l domain.Listener) Option {
	return func(t *Transform) {
		t.listener = l
	}
}

// WithClock sets the time source used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(t *Transform) {
		t.now = now
	}
}

// New returns a transform at zoom 1.0 with no offset.
func New(opts ...Option) *Transform {
	t := &Transform{zoom: DefaultZoom, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Zoom returns the current zoom factor.
func (t *Transform) Zoom() float64 { return t.zoom }

// Offset returns the current pan offset in screen units.
func (t *Transform) Offset() domain.Point { return t.offset }

// Percent returns the zoom as a rounded percentage for display.
func (t *Transform) Percent() int {
	return int(math.Round(t.zoom * 100))
}

// AdjustZoom adds delta to the zoom factor and clamps the result.
func (t *Transform) AdjustZoom(delta float64) float64 {
	return t.SetZoom(t.zoom + delta)
}

// ZoomIn steps the zoom up by ZoomStep.
func (t *Transform) ZoomIn() float64 { return t.AdjustZoom(ZoomStep) }

// ZoomOut steps the zoom down by ZoomStep.
func (t *Transform) ZoomOut() float64 { return t.AdjustZoom(-ZoomStep) }

// SetZoom sets the zoom factor, clamped into [MinZoom, MaxZoom], and returns the applied value.
func (t *Transform) SetZoom(z float64) float64 {
	z = math.Round(z*zoomPrecision) / zoomPrecision
	z = math.Max(MinZoom, math.Min(MaxZoom, z))
	if z != t.zoom {
		t.zoom = z
		t.changed()
	}
	return t.zoom
}

// SetOffset sets the pan offset.
func (t *Transform) SetOffset(p domain.Point) {
	if p == t.offset {
		return
	}
	t.offset = p
	t.changed()
}

// ToScreen maps a canonical point to screen space.
func (t *Transform) ToScreen(p domain.Point) domain.Point {
	return domain.Point{
		X: p.X*t.zoom + t.offset.X,
		Y: p.Y*t.zoom + t.offset.Y,
	}
}

// ToModel maps a screen point to canonical space. It is the inverse of ToScreen.
func (t *Transform) ToModel(p domain.Point) domain.Point {
	return domain.Point{
		X: (p.X - t.offset.X) / t.zoom,
		Y: (p.Y - t.offset.Y) / t.zoom,
	}
}

func (t *Transform) changed() {
	if t.listener == nil {
		return
	}
	t.listener(domain.GraphEvent{Timestamp: t.now(), Type: domain.EventViewportChanged})
}
