// pkg/collision/world.go
package collision

import (
	"context"
	"sort"

	"github.com/opd-ai/go-collide/pkg/config"
	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/layer"
	"github.com/opd-ai/go-collide/pkg/logging"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/spatial"
)

// touchSlack grows a sensor query just enough for the strict broad phase
// to return edge-sharing neighbours
const touchSlack = 1e-9

// FrameStats summarises one World.Update
type FrameStats struct {
	Frame      uint64
	Movers     int
	Started    int
	Persisting int
	Stopped    int
	Resolved   int
	Unsettled  []entity.ID
}

// Option configures a World
type Option func(*World)

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *logging.Logger) Option {
	return func(w *World) {
		w.logger = logger
	}
}

// WithFilter overrides the layer filter built from the config
func WithFilter(filter *layer.Filter) Option {
	return func(w *World) {
		w.filter = filter
	}
}

// WithIndex overrides the spatial index chosen by the config
func WithIndex(index spatial.Index) Option {
	return func(w *World) {
		w.index = index
	}
}

// World owns the spatial index, the collision records and the resolver,
// and runs them once per frame. It is not safe for concurrent use.
type World struct {
	config   config.Config
	logger   *logging.Logger
	index    spatial.Index
	filter   *layer.Filter
	bus      *event.Bus
	tracker  *Tracker
	resolver *Resolver
	resolve  bool
	frame    uint64
}

// NewWorld creates a world from cfg. Out-of-range settings are clamped and
// logged; a nil cfg means config.DefaultConfig().
func NewWorld(cfg *config.Config, opts ...Option) *World {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	w := &World{
		config: *cfg,
		logger: logging.Discard(),
	}
	w.config.Layers = append([]layer.Definition(nil), cfg.Layers...)
	w.filter = w.config.LayerFilter()

	for _, opt := range opts {
		opt(w)
	}

	ctx := context.Background()
	for _, adjustment := range w.config.Validate() {
		w.logger.Warn(ctx, "Configuration adjusted", "adjustment", adjustment)
	}

	if w.index == nil {
		w.index = newIndex(&w.config)
	}
	w.bus = event.NewEventBus()
	w.tracker = NewTracker(w.index, w.filter, w.bus)
	w.resolver = NewResolver(w.tracker, w.config.ResolutionIterationCap)
	w.resolve = w.config.ResolveCollisions

	w.logger.Debug(ctx, "Collision world created",
		"index", w.config.Index,
		"world_bounds", w.config.WorldBounds,
		"resolve", w.resolve,
	)
	return w
}

func newIndex(cfg *config.Config) spatial.Index {
	bounds := cfg.WorldBounds.Rect()
	if cfg.Index == config.IndexGrid {
		return spatial.NewGrid(bounds, cfg.GridCellSize)
	}
	return spatial.NewQuadTree(spatial.QuadTreeOptions{
		Bounds:   bounds,
		MaxDepth: cfg.MaxDepth,
		MaxItems: cfg.MaxItemsPerNode,
	})
}

// Config returns the validated configuration in use
func (w *World) Config() config.Config {
	return w.config
}

// Bus returns the event bus
func (w *World) Bus() *event.Bus {
	return w.bus
}

// Tracker returns the collision tracker
func (w *World) Tracker() *Tracker {
	return w.tracker
}

// Index returns the spatial index
func (w *World) Index() spatial.Index {
	return w.index
}

// Add registers c with the world
func (w *World) Add(c entity.Collidable) error {
	return w.tracker.Register(c)
}

// Remove unregisters the object with the given id
func (w *World) Remove(id entity.ID) error {
	return w.tracker.Unregister(id)
}

// Get returns the registered object with the given id
func (w *World) Get(id entity.ID) (entity.Collidable, bool) {
	return w.tracker.Lookup(id)
}

// Len returns the number of registered objects
func (w *World) Len() int {
	return w.tracker.Len()
}

// SetResolveCollisions switches between push-out and detection only
func (w *World) SetResolveCollisions(enabled bool) {
	w.resolve = enabled
}

// ResolveCollisions reports whether push-out is enabled
func (w *World) ResolveCollisions() bool {
	return w.resolve
}

// SubscribeEnterOrContinue subscribes to started and persisting collisions of id
func (w *World) SubscribeEnterOrContinue(id entity.ID, handler event.Handler) event.SubscriptionID {
	return w.bus.SubscribeEnterOrContinue(id, handler)
}

// SubscribeExit subscribes to stopped collisions of id
func (w *World) SubscribeExit(id entity.ID, handler event.Handler) event.SubscriptionID {
	return w.bus.SubscribeExit(id, handler)
}

// Unsubscribe removes a subscription
func (w *World) Unsubscribe(sub event.SubscriptionID) bool {
	return w.bus.Unsubscribe(sub)
}

// Update settles one frame. Moved objects are refiled in the index, solids
// are pushed apart, and the final overlaps are diffed against the previous
// frame. Objects the resolver moved are diffed in the same frame.
func (w *World) Update(ctx context.Context) FrameStats {
	if logging.GetCorrelationID(ctx) == "" {
		ctx = logging.WithCorrelationID(ctx, logging.GenerateCorrelationID())
	}
	w.frame++
	stats := FrameStats{Frame: w.frame}

	movers := w.tracker.CollectMovers()
	if w.resolve {
		moved := make(map[entity.ID]struct{}, len(movers))
		for _, id := range movers {
			moved[id] = struct{}{}
		}
		for _, res := range w.resolver.ResolveAll(movers) {
			if res.Iterations > 0 {
				moved[res.ID] = struct{}{}
			}
			for _, id := range res.Pushed {
				moved[id] = struct{}{}
			}
			if res.Iterations > 0 || len(res.Pushed) > 0 {
				stats.Resolved++
			}
			if !res.Settled {
				stats.Unsettled = append(stats.Unsettled, res.ID)
				w.logger.Warn(ctx, "Collision left unresolved",
					"frame", w.frame,
					"id", uint64(res.ID),
					"iterations", res.Iterations,
					"cap_reached", res.Exhausted,
				)
			}
		}
		// drain the notifications the resolver's own moves produced
		for _, id := range w.tracker.CollectMovers() {
			moved[id] = struct{}{}
		}
		movers = sortedIDs(moved)
	}

	ts := w.tracker.Diff(movers)
	stats.Movers = len(ts.Movers)
	stats.Started = ts.Started
	stats.Persisting = ts.Persisting
	stats.Stopped = ts.Stopped

	w.logger.Debug(ctx, "Frame settled",
		"frame", w.frame,
		"movers", stats.Movers,
		"started", stats.Started,
		"persisting", stats.Persisting,
		"stopped", stats.Stopped,
		"resolved", stats.Resolved,
	)
	return stats
}

// Overlapping returns the objects recorded as overlapping id at the last
// update
func (w *World) Overlapping(id entity.ID) []entity.ID {
	rec, ok := w.tracker.Record(id)
	if !ok {
		return nil
	}
	return rec.Overlapping()
}

// Contacts returns the current corrections of id against everything it
// overlaps. Nothing is moved.
func (w *World) Contacts(id entity.ID) []Contact {
	c, ok := w.tracker.Lookup(id)
	if !ok {
		return nil
	}
	return w.resolver.Contacts(c)
}

// Touching returns the interacting objects that overlap id or share an
// edge or corner with it, in ascending ID order
func (w *World) Touching(id entity.ID) []entity.ID {
	c, ok := w.tracker.Lookup(id)
	if !ok {
		return nil
	}

	bounds := c.Bounds()
	var out []entity.ID
	for _, item := range w.index.Query(bounds.Inflate(touchSlack), nil) {
		other, ok := item.(entity.Collidable)
		if !ok || other.ID() == id {
			continue
		}
		if !w.tracker.Interact(c, other) || !bounds.Touches(other.Bounds()) {
			continue
		}
		out = append(out, other.ID())
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// QueryArea returns the objects strictly overlapping area, in ascending ID
// order. Layers are not consulted.
func (w *World) QueryArea(area physics.Rect) []entity.ID {
	var out []entity.ID
	for _, item := range w.index.Query(area, nil) {
		if c, ok := item.(entity.Collidable); ok {
			out = append(out, c.ID())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
