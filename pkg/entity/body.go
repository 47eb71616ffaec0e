// pkg/entity/body.go
package entity

import (
	"github.com/opd-ai/go-collide/pkg/physics"
)

// BodyOption configures a Body
type BodyOption func(*Body)

// WithOffset places the bounding volume at offset from the body position
func WithOffset(offset physics.Vector2D) BodyOption {
	return func(b *Body) {
		b.offset = offset
	}
}

// WithSolid marks the body as taking part in push-out resolution
func WithSolid(solid bool) BodyOption {
	return func(b *Body) {
		b.solid = solid
	}
}

// WithPriority sets the collision priority. Lower priorities yield to
// higher or equal ones.
func WithPriority(priority int) BodyOption {
	return func(b *Body) {
		b.priority = priority
	}
}

// WithLayer sets the collision layer tag
func WithLayer(layer string) BodyOption {
	return func(b *Body) {
		b.layer = layer
	}
}

type listenerEntry struct {
	id       ListenerID
	listener Listener
}

// Body is a plain Collidable for hosts that do not bring their own entity
// type. Position changes notify listeners synchronously.
type Body struct {
	id       ID
	position physics.Vector2D
	offset   physics.Vector2D
	volume   *physics.BoundingVolume
	solid    bool
	priority int
	layer    string

	moved     bool
	destroyed bool

	listeners    []listenerEntry
	nextListener ListenerID
}

// NewBody creates a body whose bounding volume is width x height. A new
// body counts as moved so that its first frame is fully evaluated.
func NewBody(id ID, position physics.Vector2D, width, height float64, opts ...BodyOption) *Body {
	b := &Body{
		id:       id,
		position: position,
		moved:    true,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.volume = physics.NewBoundingVolume(position, b.offset, width, height)
	return b
}

// ID returns the body's unique identifier
func (b *Body) ID() ID {
	return b.id
}

// Position returns the owner position (not the volume's top-left corner)
func (b *Body) Position() physics.Vector2D {
	return b.position
}

// Volume returns the body's bounding volume
func (b *Body) Volume() *physics.BoundingVolume {
	return b.volume
}

// Bounds returns the world-space rectangle of the bounding volume
func (b *Body) Bounds() physics.Rect {
	return b.volume.Rect()
}

func (b *Body) Solid() bool   { return b.solid }
func (b *Body) Priority() int { return b.priority }
func (b *Body) Layer() string { return b.layer }
func (b *Body) Moved() bool   { return b.moved }

// SetSolid toggles push-out participation
func (b *Body) SetSolid(solid bool) {
	b.solid = solid
}

// SetPriority changes the collision priority
func (b *Body) SetPriority(priority int) {
	b.priority = priority
}

// SetPosition moves the body and notifies listeners. Setting the current
// position again is ignored.
func (b *Body) SetPosition(position physics.Vector2D) {
	if b.destroyed || position == b.position {
		return
	}
	b.position = position
	b.volume.Sync(position)
	b.moved = true

	for _, entry := range b.snapshot() {
		entry.listener.ObjectMoved(b)
	}
}

// Translate moves the body by delta
func (b *Body) Translate(delta physics.Vector2D) {
	b.SetPosition(b.position.Add(delta))
}

// Resize changes the bounding volume dimensions and counts as a move
func (b *Body) Resize(width, height float64) {
	if b.destroyed {
		return
	}
	b.volume.Resize(width, height)
	b.moved = true

	for _, entry := range b.snapshot() {
		entry.listener.ObjectMoved(b)
	}
}

// EndFrame clears the moved flag
func (b *Body) EndFrame() {
	b.moved = false
}

// Destroy notifies listeners of teardown. Later calls are no-ops.
func (b *Body) Destroy() {
	if b.destroyed {
		return
	}
	b.destroyed = true

	for _, entry := range b.snapshot() {
		entry.listener.ObjectDestroyed(b)
	}
	b.listeners = nil
}

// Destroyed reports whether Destroy has been called
func (b *Body) Destroyed() bool {
	return b.destroyed
}

// AddListener registers l for move and destroy notifications
func (b *Body) AddListener(l Listener) ListenerID {
	b.nextListener++
	b.listeners = append(b.listeners, listenerEntry{id: b.nextListener, listener: l})
	return b.nextListener
}

// RemoveListener unregisters the listener with the given id
func (b *Body) RemoveListener(id ListenerID) {
	for i, entry := range b.listeners {
		if entry.id == id {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

// snapshot lets listeners unsubscribe while being notified
func (b *Body) snapshot() []listenerEntry {
	out := make([]listenerEntry, len(b.listeners))
	copy(out, b.listeners)
	return out
}
