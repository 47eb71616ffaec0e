// pkg/collision/tracker_test.go
package collision

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/layer"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/spatial"
)

type recorded struct {
	typ    event.Type
	source entity.ID
	other  entity.ID
}

// eventLog collects every event published on a bus
type eventLog struct {
	events []recorded
}

func (l *eventLog) handle(e event.CollisionEvent) {
	l.events = append(l.events, recorded{typ: e.Type, source: e.Source, other: e.Other})
}

func (l *eventLog) reset() {
	l.events = nil
}

func (l *eventLog) of(typ event.Type) []recorded {
	var out []recorded
	for _, e := range l.events {
		if e.typ == typ {
			out = append(out, e)
		}
	}
	return out
}

func newTestTracker(filter *layer.Filter) (*Tracker, *eventLog) {
	index := spatial.NewQuadTree(spatial.QuadTreeOptions{
		Bounds:   physics.NewRect(0, 0, 200, 200),
		MaxDepth: 4,
		MaxItems: 2,
	})
	tracker := NewTracker(index, filter, nil)
	log := &eventLog{}
	tracker.Bus().SubscribeAll(log.handle)
	return tracker, log
}

func body(id entity.ID, x, y, w, h float64, opts ...entity.BodyOption) *entity.Body {
	return entity.NewBody(id, physics.Vector2D{X: x, Y: y}, w, h, opts...)
}

func assertSymmetric(t *testing.T, tracker *Tracker) {
	t.Helper()
	for _, rec := range tracker.Records() {
		id := rec.Owner().ID()
		assert.False(t, rec.Has(id), "%d records itself", id)
		for _, other := range rec.Overlapping() {
			partner, ok := tracker.Record(other)
			require.True(t, ok, "%d records unregistered %d", id, other)
			assert.True(t, partner.Has(id), "%d records %d but not the reverse", id, other)
		}
	}
}

func TestTracker_RegisterErrors(t *testing.T) {
	tracker, _ := newTestTracker(nil)
	a := body(1, 0, 0, 10, 10)

	require.NoError(t, tracker.Register(a))
	assert.True(t, errors.Is(tracker.Register(a), ErrAlreadyRegistered))
	assert.True(t, errors.Is(tracker.Unregister(99), ErrNotRegistered))
	assert.Equal(t, 1, tracker.Len())
}

func TestTracker_EnterPersistExit(t *testing.T) {
	tracker, log := newTestTracker(nil)
	a := body(1, 0, 0, 10, 10)
	b := body(2, 30, 0, 10, 10)
	require.NoError(t, tracker.Register(a))
	require.NoError(t, tracker.Register(b))

	stats := tracker.Update()
	assert.Equal(t, []entity.ID{1, 2}, stats.Movers)
	assert.Empty(t, log.events)
	assert.False(t, a.Moved(), "update should end the frame for movers")

	t.Run("enter", func(t *testing.T) {
		log.reset()
		a.SetPosition(physics.Vector2D{X: 25, Y: 0})
		stats := tracker.Update()

		assert.Equal(t, 1, stats.Started)
		assert.Equal(t, []recorded{
			{typ: event.CollisionStarted, source: 1, other: 2},
			{typ: event.CollisionStarted, source: 2, other: 1},
		}, log.events)
		assertSymmetric(t, tracker)
	})

	t.Run("persist_without_movement", func(t *testing.T) {
		log.reset()
		stats := tracker.Update()

		assert.Empty(t, stats.Movers)
		assert.Equal(t, 1, stats.Persisting)
		assert.Len(t, log.of(event.CollisionPersisting), 2)
	})

	t.Run("exit_when_the_other_side_moves", func(t *testing.T) {
		log.reset()
		b.SetPosition(physics.Vector2D{X: 100, Y: 100})
		stats := tracker.Update()

		assert.Equal(t, 1, stats.Stopped)
		assert.Equal(t, []recorded{
			{typ: event.CollisionStopped, source: 2, other: 1},
			{typ: event.CollisionStopped, source: 1, other: 2},
		}, log.events)
		rec, _ := tracker.Record(1)
		assert.Equal(t, 0, rec.Len())
	})
}

func TestTracker_EdgeContactIsNotACollision(t *testing.T) {
	tracker, log := newTestTracker(nil)
	require.NoError(t, tracker.Register(body(1, 0, 0, 10, 10)))
	require.NoError(t, tracker.Register(body(2, 10, 0, 10, 10)))

	tracker.Update()
	assert.Empty(t, log.events)
}

func TestTracker_EventCarriesCorrection(t *testing.T) {
	tracker, _ := newTestTracker(nil)
	require.NoError(t, tracker.Register(body(1, 0, 0, 10, 10)))
	require.NoError(t, tracker.Register(body(2, 5, 0, 10, 10)))

	var got []event.CollisionEvent
	tracker.Bus().Subscribe(1, func(e event.CollisionEvent) { got = append(got, e) })
	tracker.Update()

	require.Len(t, got, 1)
	assert.True(t, got[0].Started())
	assert.Equal(t, physics.Negative, got[0].Correction.X)
	assert.Equal(t, 5.0, got[0].Correction.XMagnitude)
}

func TestTracker_Unregister(t *testing.T) {
	tests := []struct {
		name   string
		remove func(tracker *Tracker, b *entity.Body)
	}{
		{
			name:   "unregister",
			remove: func(tracker *Tracker, b *entity.Body) { require.NoError(t, tracker.Unregister(b.ID())) },
		},
		{
			name:   "destroy",
			remove: func(_ *Tracker, b *entity.Body) { b.Destroy() },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker, log := newTestTracker(nil)
			a := body(1, 0, 0, 10, 10)
			b := body(2, 5, 5, 10, 10)
			c := body(3, 8, 8, 10, 10)
			for _, o := range []*entity.Body{a, b, c} {
				require.NoError(t, tracker.Register(o))
			}
			tracker.Update()
			log.reset()

			tt.remove(tracker, b)

			assert.Equal(t, []recorded{
				{typ: event.CollisionStopped, source: 1, other: 2},
				{typ: event.CollisionStopped, source: 3, other: 2},
			}, log.events)
			assert.Equal(t, 2, tracker.Len())
			_, ok := tracker.Lookup(2)
			assert.False(t, ok)
			assertSymmetric(t, tracker)

			log.reset()
			b.SetPosition(physics.Vector2D{X: 50, Y: 50})
			tracker.Update()
			for _, e := range log.events {
				assert.NotEqual(t, entity.ID(2), e.source)
				assert.NotEqual(t, entity.ID(2), e.other)
			}
		})
	}
}

func TestTracker_LayerFilter(t *testing.T) {
	filter := layer.NewFilter([]layer.Definition{
		{Name: "player", CollidesWith: []string{"wall"}},
		{Name: "wall"},
		{Name: "ghost"},
	})
	tracker, log := newTestTracker(filter)
	require.NoError(t, tracker.Register(body(1, 0, 0, 10, 10, entity.WithLayer("player"))))
	require.NoError(t, tracker.Register(body(2, 0, 0, 10, 10, entity.WithLayer("ghost"))))
	require.NoError(t, tracker.Register(body(3, 0, 0, 10, 10, entity.WithLayer("wall"))))
	require.NoError(t, tracker.Register(body(4, 0, 0, 10, 10, entity.WithLayer("undeclared"))))

	tracker.Update()

	assert.ElementsMatch(t, []recorded{
		{typ: event.CollisionStarted, source: 1, other: 3},
		{typ: event.CollisionStarted, source: 3, other: 1},
	}, log.events)
}

func TestTracker_RandomMovesStaySymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	tracker, _ := newTestTracker(nil)

	var bodies []*entity.Body
	for i := 0; i < 60; i++ {
		b := body(entity.ID(i+1), rng.Float64()*180, rng.Float64()*180, 5+rng.Float64()*15, 5+rng.Float64()*15)
		bodies = append(bodies, b)
		require.NoError(t, tracker.Register(b))
	}

	for frame := 0; frame < 30; frame++ {
		for _, b := range bodies {
			if rng.Intn(4) == 0 {
				b.Translate(physics.Vector2D{X: rng.Float64()*20 - 10, Y: rng.Float64()*20 - 10})
			}
		}
		tracker.Update()
		assertSymmetric(t, tracker)

		for _, a := range bodies {
			rec, _ := tracker.Record(a.ID())
			for _, b := range bodies {
				if a == b {
					continue
				}
				assert.Equal(t, a.Bounds().Overlaps(b.Bounds()), rec.Has(b.ID()),
					"frame %d pair %d/%d", frame, a.ID(), b.ID())
			}
		}
	}
}

func TestTracker_HandlerMayMoveObjects(t *testing.T) {
	tracker, _ := newTestTracker(nil)
	a := body(1, 0, 0, 10, 10)
	b := body(2, 5, 0, 10, 10)
	require.NoError(t, tracker.Register(a))
	require.NoError(t, tracker.Register(b))

	tracker.Bus().SubscribeEnterOrContinue(1, func(e event.CollisionEvent) {
		a.Translate(e.Correction.Delta(e.Correction.SmallerAxis()))
	})
	tracker.Update()
	assert.Equal(t, physics.Vector2D{X: -5, Y: 0}, a.Position())

	stats := tracker.Update()
	assert.Equal(t, []entity.ID{1}, stats.Movers)
	assert.Equal(t, 1, stats.Stopped)
}
