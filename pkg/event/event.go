// pkg/event/event.go
package event

import (
	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// Type represents the type of event
type Type string

// Collision event types
const (
	CollisionStarted    Type = "collision_started"
	CollisionPersisting Type = "collision_persisting"
	CollisionStopped    Type = "collision_stopped"
)

// CollisionEvent is delivered to the subscribers of Source. Correction is
// the push that would move Source out of Other; it is zero for stopped
// collisions.
type CollisionEvent struct {
	Type       Type
	Source     entity.ID
	Other      entity.ID
	Correction physics.CorrectionVector
}

// Started reports whether this is the first frame of the collision
func (e CollisionEvent) Started() bool {
	return e.Type == CollisionStarted
}

// Handler is a function that handles events
type Handler func(CollisionEvent)

// SubscriptionID identifies a subscription for Unsubscribe
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	types   []Type
	handler Handler
}

func (s subscription) wants(t Type) bool {
	for _, want := range s.types {
		if want == t {
			return true
		}
	}
	return false
}

// Bus keeps an ordered subscriber list per object. It is not safe for
// concurrent use; the collision engine publishes from its update step only.
type Bus struct {
	handlers map[entity.ID][]subscription
	any      []subscription
	owners   map[SubscriptionID]entity.ID
	nextID   SubscriptionID
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[entity.ID][]subscription),
		owners:   make(map[SubscriptionID]entity.ID),
		nextID:   1,
	}
}

// Subscribe registers handler for events whose Source is id. With no
// types the handler receives every collision type.
func (b *Bus) Subscribe(id entity.ID, handler Handler, types ...Type) SubscriptionID {
	sub := b.newSubscription(handler, types)
	b.handlers[id] = append(b.handlers[id], sub)
	b.owners[sub.id] = id
	return sub.id
}

// SubscribeEnterOrContinue receives started and persisting collisions of id
func (b *Bus) SubscribeEnterOrContinue(id entity.ID, handler Handler) SubscriptionID {
	return b.Subscribe(id, handler, CollisionStarted, CollisionPersisting)
}

// SubscribeExit receives stopped collisions of id
func (b *Bus) SubscribeExit(id entity.ID, handler Handler) SubscriptionID {
	return b.Subscribe(id, handler, CollisionStopped)
}

// SubscribeAll registers handler for events of any source
func (b *Bus) SubscribeAll(handler Handler, types ...Type) SubscriptionID {
	sub := b.newSubscription(handler, types)
	b.any = append(b.any, sub)
	return sub.id
}

func (b *Bus) newSubscription(handler Handler, types []Type) subscription {
	if len(types) == 0 {
		types = []Type{CollisionStarted, CollisionPersisting, CollisionStopped}
	}
	sub := subscription{id: b.nextID, types: types, handler: handler}
	b.nextID++
	return sub
}

// Unsubscribe removes a subscription and reports whether it existed
func (b *Bus) Unsubscribe(subID SubscriptionID) bool {
	if id, ok := b.owners[subID]; ok {
		delete(b.owners, subID)
		subs := b.handlers[id]
		for i, sub := range subs {
			if sub.id == subID {
				subs = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		if len(subs) == 0 {
			delete(b.handlers, id)
		} else {
			b.handlers[id] = subs
		}
		return true
	}

	for i, sub := range b.any {
		if sub.id == subID {
			b.any = append(b.any[:i], b.any[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every subscription attached to id
func (b *Bus) Clear(id entity.ID) {
	for _, sub := range b.handlers[id] {
		delete(b.owners, sub.id)
	}
	delete(b.handlers, id)
}

// HasSubscribers reports whether anything listens to events of id
func (b *Bus) HasSubscribers(id entity.ID) bool {
	return len(b.handlers[id]) > 0 || len(b.any) > 0
}

// Publish sends an event to the subscribers of its source, then to the
// catch-all subscribers, in subscription order.
func (b *Bus) Publish(e CollisionEvent) {
	subs := append([]subscription(nil), b.handlers[e.Source]...)
	subs = append(subs, b.any...)

	for _, sub := range subs {
		if sub.wants(e.Type) {
			sub.handler(e)
		}
	}
}
