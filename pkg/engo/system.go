// pkg/engo/system.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-collide/pkg/collision"
	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// SystemPriority runs the collision system after movement systems, which
// use the default priority of zero
const SystemPriority = -10

// ShapeComponent describes the collision volume of an ECS entity. A zero
// Width or Height takes the SpaceComponent's size.
type ShapeComponent struct {
	Offset   engo.Point
	Width    float32
	Height   float32
	Solid    bool
	Priority int
	Layer    string
}

type collisionEntity struct {
	basic  *ecs.BasicEntity
	space  *common.SpaceComponent
	body   *entity.Body
	synced engo.Point
}

// CollisionSystem feeds SpaceComponent positions into a collision World
// every frame and writes the resolved positions back
type CollisionSystem struct {
	world    *collision.World
	entities map[uint64]*collisionEntity
	order    []uint64
	ctx      context.Context
}

// NewCollisionSystem creates a system driving world
func NewCollisionSystem(world *collision.World) *CollisionSystem {
	return &CollisionSystem{
		world:    world,
		entities: make(map[uint64]*collisionEntity),
		ctx:      context.Background(),
	}
}

// World returns the collision world
func (cs *CollisionSystem) World() *collision.World {
	return cs.world
}

// Priority satisfies ecs.Prioritizer
func (cs *CollisionSystem) Priority() int {
	return SystemPriority
}

// Add registers an entity with the collision world. Adding an entity twice
// is ignored.
func (cs *CollisionSystem) Add(basic *ecs.BasicEntity, space *common.SpaceComponent, shape *ShapeComponent) {
	id := basic.ID()
	if _, ok := cs.entities[id]; ok {
		return
	}

	width, height := shape.Width, shape.Height
	if width <= 0 {
		width = space.Width
	}
	if height <= 0 {
		height = space.Height
	}

	body := entity.NewBody(entity.ID(id), toVector(space.Position), float64(width), float64(height),
		entity.WithOffset(toVector(shape.Offset)),
		entity.WithSolid(shape.Solid),
		entity.WithPriority(shape.Priority),
		entity.WithLayer(shape.Layer),
	)
	if err := cs.world.Add(body); err != nil {
		return
	}

	cs.entities[id] = &collisionEntity{
		basic:  basic,
		space:  space,
		body:   body,
		synced: space.Position,
	}
	cs.order = append(cs.order, id)
}

// Remove satisfies the ecs.System interface
func (cs *CollisionSystem) Remove(basic ecs.BasicEntity) {
	id := basic.ID()
	ce, ok := cs.entities[id]
	if !ok {
		return
	}
	ce.body.Destroy()
	delete(cs.entities, id)
	for i, other := range cs.order {
		if other == id {
			cs.order = append(cs.order[:i], cs.order[i+1:]...)
			break
		}
	}
}

// Update syncs positions moved by other systems, settles the frame and
// copies resolved positions back to the SpaceComponents
func (cs *CollisionSystem) Update(dt float32) {
	for _, id := range cs.order {
		ce := cs.entities[id]
		if ce.space.Position != ce.synced {
			ce.body.SetPosition(toVector(ce.space.Position))
			ce.synced = ce.space.Position
		}
	}

	cs.world.Update(cs.ctx)

	for _, id := range cs.order {
		ce := cs.entities[id]
		resolved := toPoint(ce.body.Position())
		if resolved != ce.synced {
			ce.space.Position = resolved
			ce.synced = resolved
		}
	}
}

// Body returns the collision body of an entity
func (cs *CollisionSystem) Body(id uint64) (*entity.Body, bool) {
	ce, ok := cs.entities[id]
	if !ok {
		return nil, false
	}
	return ce.body, true
}

// OnCollision subscribes to started and persisting collisions of an entity
func (cs *CollisionSystem) OnCollision(basic *ecs.BasicEntity, handler event.Handler) event.SubscriptionID {
	return cs.world.SubscribeEnterOrContinue(entity.ID(basic.ID()), handler)
}

// OnSeparation subscribes to stopped collisions of an entity
func (cs *CollisionSystem) OnSeparation(basic *ecs.BasicEntity, handler event.Handler) event.SubscriptionID {
	return cs.world.SubscribeExit(entity.ID(basic.ID()), handler)
}

func toVector(p engo.Point) physics.Vector2D {
	return physics.Vector2D{X: float64(p.X), Y: float64(p.Y)}
}

func toPoint(v physics.Vector2D) engo.Point {
	return engo.Point{X: float32(v.X), Y: float32(v.Y)}
}
