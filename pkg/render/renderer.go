// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-collide/pkg/collision"
	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/spatial"
)

// Renderer draws a debug view of a collision world
type Renderer interface {
	Clear()
	// DrawRegion outlines a spatial index node
	DrawRegion(region physics.Rect)
	// DrawBody fills the bounds of c; overlapping marks a recorded collision
	DrawBody(c entity.Collidable, overlapping bool)
	Present() error
}

// DrawWorld draws every registered object of w. With regions set and a
// quadtree index, node boundaries are drawn underneath.
func DrawWorld(r Renderer, w *collision.World, regions bool) error {
	r.Clear()

	if qt, ok := w.Index().(*spatial.QuadTree); ok && regions {
		qt.Walk(func(region physics.Rect, depth int, items []spatial.Item) {
			r.DrawRegion(region)
		})
	}

	for _, rec := range w.Tracker().Records() {
		r.DrawBody(rec.Owner(), rec.Len() > 0)
	}
	return r.Present()
}

// NullRenderer is a Renderer that only logs at debug level.
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{
		logger: logger,
	}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	ctx := context.Background()
	d.logger.Debug(ctx, "Clear called")
}

// DrawRegion implements Renderer.
func (d *NullRenderer) DrawRegion(region physics.Rect) {
	ctx := context.Background()
	d.logger.Debug(ctx, "DrawRegion called",
		"x", region.Left(),
		"y", region.Top(),
		"width", region.Width,
		"height", region.Height,
	)
}

// DrawBody implements Renderer.
func (d *NullRenderer) DrawBody(c entity.Collidable, overlapping bool) {
	ctx := context.Background()
	if c == nil {
		d.logger.Debug(ctx, "DrawBody called with nil collidable")
		return
	}
	d.logger.Debug(ctx, "DrawBody called",
		"id", uint64(c.ID()),
		"layer", c.Layer(),
		"overlapping", overlapping,
	)
}

// Present implements Renderer.
func (d *NullRenderer) Present() error {
	ctx := context.Background()
	d.logger.Debug(ctx, "Present called")
	return nil
}
