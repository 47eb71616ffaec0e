// cmd/collidesim/sim.go
package main

import (
	"math/rand"

	"github.com/opd-ai/go-collide/pkg/collision"
	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/physics"
)

const (
	minBodySize = 8
	maxBodySize = 40
	maxSpeed    = 6
)

// totals counts notifications over a whole run
type totals struct {
	Started    int
	Persisting int
	Stopped    int
}

type simulation struct {
	world    *collision.World
	bounds   physics.Rect
	bodies   []*entity.Body
	velocity map[entity.ID]physics.Vector2D
	totals   totals
}

// newSimulation spawns count random bodies inside bounds. Every third body
// is a sensor; solids get priorities 0-2. Layers are assigned round-robin.
func newSimulation(world *collision.World, bounds physics.Rect, count int, seed int64, layers []string) (*simulation, error) {
	rng := rand.New(rand.NewSource(seed))
	s := &simulation{
		world:    world,
		bounds:   bounds,
		velocity: make(map[entity.ID]physics.Vector2D, count),
	}
	world.Bus().SubscribeAll(s.count)

	for i := 0; i < count; i++ {
		id := entity.ID(i + 1)
		w := minBodySize + rng.Float64()*(maxBodySize-minBodySize)
		h := minBodySize + rng.Float64()*(maxBodySize-minBodySize)
		pos := physics.Vector2D{
			X: bounds.Left() + rng.Float64()*(bounds.Width-w),
			Y: bounds.Top() + rng.Float64()*(bounds.Height-h),
		}

		opts := []entity.BodyOption{
			entity.WithSolid(i%3 != 0),
			entity.WithPriority(rng.Intn(3)),
		}
		if len(layers) > 0 {
			opts = append(opts, entity.WithLayer(layers[i%len(layers)]))
		}

		b := entity.NewBody(id, pos, w, h, opts...)
		if err := world.Add(b); err != nil {
			return nil, err
		}
		s.bodies = append(s.bodies, b)
		s.velocity[id] = physics.Vector2D{
			X: rng.Float64()*2*maxSpeed - maxSpeed,
			Y: rng.Float64()*2*maxSpeed - maxSpeed,
		}
	}
	return s, nil
}

func (s *simulation) count(e event.CollisionEvent) {
	switch e.Type {
	case event.CollisionStarted:
		s.totals.Started++
	case event.CollisionPersisting:
		s.totals.Persisting++
	case event.CollisionStopped:
		s.totals.Stopped++
	}
}

// step moves every body by its velocity, reflecting it off the bounds
func (s *simulation) step() {
	for _, b := range s.bodies {
		v := s.velocity[b.ID()]
		next := b.Bounds().Translate(v)

		if next.Left() < s.bounds.Left() || next.Right() > s.bounds.Right() {
			v.X = -v.X
		}
		if next.Top() < s.bounds.Top() || next.Bottom() > s.bounds.Bottom() {
			v.Y = -v.Y
		}
		s.velocity[b.ID()] = v
		b.Translate(v)
	}
}
