// pkg/entity/entity.go
package entity

import (
	"github.com/opd-ai/go-collide/pkg/physics"
)

// ID is a unique identifier for an entity
type ID uint64

// Listener receives lifecycle notifications from a Collidable
type Listener interface {
	ObjectMoved(c Collidable)
	ObjectDestroyed(c Collidable)
}

// ListenerID identifies a registered Listener so it can be removed
type ListenerID uint64

// Notifier is implemented by objects that announce movement and teardown
type Notifier interface {
	AddListener(l Listener) ListenerID
	RemoveListener(id ListenerID)
}

// Collidable is the view of a game object the collision engine works with.
// Implementations must be pointer types: the engine uses them as map keys.
type Collidable interface {
	Notifier

	ID() ID
	// Bounds returns the current world-space bounding rectangle
	Bounds() physics.Rect
	// Moved reports whether the object changed position this frame
	Moved() bool
	Solid() bool
	Priority() int
	Layer() string
	// Translate moves the owner; used by the resolver for push-out
	Translate(delta physics.Vector2D)
}

// FrameEnder is implemented by collidables that keep a per-frame moved flag.
// The engine calls EndFrame once the frame's collisions are settled.
type FrameEnder interface {
	EndFrame()
}
