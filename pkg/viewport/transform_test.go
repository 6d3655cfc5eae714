package viewport_test

import (
	"math/rand"
	"testing"

	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/viewport"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	v := viewport.New()
	assert.Equal(t, 1.0, v.Zoom())
	assert.Equal(t, domain.Point{}, v.Offset())
	assert.Equal(t, 100, v.Percent())
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		v := viewport.New()
		v.SetZoom(viewport.MinZoom + rng.Float64()*(viewport.MaxZoom-viewport.MinZoom))
		v.SetOffset(domain.Point{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200})

		p := domain.Point{X: rng.Float64()*2000 - 1000, Y: rng.Float64()*2000 - 1000}
		back := v.ToModel(v.ToScreen(p))

		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestToModel(t *testing.T) {
	v := viewport.New()
	v.SetZoom(2)
	v.SetOffset(domain.Point{X: 100, Y: 50})

	assert.Equal(t, domain.Point{X: 150, Y: 125}, v.ToModel(domain.Point{X: 400, Y: 300}))
	assert.Equal(t, domain.Point{X: 400, Y: 300}, v.ToScreen(domain.Point{X: 150, Y: 125}))
}

func TestZoomOut_ClampsAtMinimum(t *testing.T) {
	v := viewport.New()
	for i := 0; i < 6; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, 0.5, v.Zoom())
	assert.Equal(t, 50, v.Percent())

	v.ZoomOut()
	assert.Equal(t, 0.5, v.Zoom())
}

func TestZoomIn_ClampsAtMaximum(t *testing.T) {
	v := viewport.New()
	v.SetZoom(0.5)
	for i := 0; i < 16; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, 2.0, v.Zoom())
	assert.Equal(t, 200, v.Percent())
}

func TestZoomSteps_StayOnGrid(t *testing.T) {
	v := viewport.New()
	v.ZoomIn()
	v.ZoomIn()
	v.ZoomIn()
	assert.Equal(t, 1.3, v.Zoom())
	assert.Equal(t, 130, v.Percent())
}

func TestSetZoom_Clamps(t *testing.T) {
	v := viewport.New()
	assert.Equal(t, 2.0, v.SetZoom(10))
	assert.Equal(t, 0.5, v.SetZoom(-3))
}

func TestListener(t *testing.T) {
	var events []domain.GraphEvent
	v := viewport.New(viewport.WithListener(func(e domain.GraphEvent) {
		events = append(events, e)
	}))

	v.ZoomIn()
	v.SetOffset(domain.Point{X: 1})
	v.SetOffset(domain.Point{X: 1})
	v.SetZoom(viewport.MaxZoom)
	v.ZoomIn()

	assert.Len(t, events, 3)
	for _, e := range events {
		assert.Equal(t, domain.EventViewportChanged, e.Type)
	}
}
