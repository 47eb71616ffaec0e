// pkg/event/event_test.go
package event

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opd-ai/go-collide/pkg/entity"
)

func TestNewEventBus_Creation_ReturnsInitializedBus(t *testing.T) {
	bus := NewEventBus()

	assert.NotNil(t, bus.handlers)
	assert.Equal(t, SubscriptionID(1), bus.nextID)
	assert.False(t, bus.HasSubscribers(1))
}

func TestBus_DeliversBySourceAndType(t *testing.T) {
	bus := NewEventBus()
	var enter, exit []CollisionEvent

	bus.SubscribeEnterOrContinue(1, func(e CollisionEvent) { enter = append(enter, e) })
	bus.SubscribeExit(1, func(e CollisionEvent) { exit = append(exit, e) })

	bus.Publish(CollisionEvent{Type: CollisionStarted, Source: 1, Other: 2})
	bus.Publish(CollisionEvent{Type: CollisionPersisting, Source: 1, Other: 2})
	bus.Publish(CollisionEvent{Type: CollisionStopped, Source: 1, Other: 2})
	bus.Publish(CollisionEvent{Type: CollisionStarted, Source: 2, Other: 1})

	if assert.Len(t, enter, 2) {
		assert.True(t, enter[0].Started())
		assert.False(t, enter[1].Started())
	}
	assert.Len(t, exit, 1)
}

func TestBus_PreservesSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int

	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(5, func(CollisionEvent) { order = append(order, i) })
	}
	bus.SubscribeAll(func(CollisionEvent) { order = append(order, 99) })

	bus.Publish(CollisionEvent{Type: CollisionStopped, Source: 5})
	assert.Equal(t, []int{0, 1, 2, 99}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0

	first := bus.Subscribe(1, func(CollisionEvent) { calls++ })
	bus.Subscribe(1, func(CollisionEvent) { calls += 10 })
	all := bus.SubscribeAll(func(CollisionEvent) { calls += 100 })

	assert.True(t, bus.Unsubscribe(first))
	assert.False(t, bus.Unsubscribe(first))
	assert.True(t, bus.Unsubscribe(all))

	bus.Publish(CollisionEvent{Type: CollisionStarted, Source: 1})
	assert.Equal(t, 10, calls)
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	var self SubscriptionID

	self = bus.Subscribe(1, func(CollisionEvent) {
		calls++
		bus.Unsubscribe(self)
	})
	bus.Subscribe(1, func(CollisionEvent) { calls++ })

	bus.Publish(CollisionEvent{Type: CollisionStarted, Source: 1})
	bus.Publish(CollisionEvent{Type: CollisionStarted, Source: 1})
	assert.Equal(t, 3, calls)
}

func TestBus_Clear(t *testing.T) {
	bus := NewEventBus()
	called := false
	sub := bus.Subscribe(entity.ID(4), func(CollisionEvent) { called = true })

	bus.Clear(4)
	bus.Publish(CollisionEvent{Type: CollisionStarted, Source: 4})

	assert.False(t, called)
	assert.False(t, bus.HasSubscribers(4))
	assert.False(t, bus.Unsubscribe(sub))
}
