// pkg/collision/tracker.go
package collision

import (
	"fmt"
	"sort"

	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/event"
	"github.com/opd-ai/go-collide/pkg/layer"
	"github.com/opd-ai/go-collide/pkg/physics"
	"github.com/opd-ai/go-collide/pkg/spatial"
)

// Stats summarises one tracker update
type Stats struct {
	Movers     []entity.ID
	Started    int
	Persisting int
	Stopped    int
}

// Tracker keeps symmetric overlap records for registered objects and turns
// changes in them into collision events. Index items are the registered
// Collidables themselves.
type Tracker struct {
	index   spatial.Index
	filter  *layer.Filter
	bus     *event.Bus
	records map[entity.ID]*Record
	moved   map[entity.ID]struct{}
	buf     []spatial.Item
	pending []event.CollisionEvent
}

// NewTracker creates a tracker over index. A nil filter lets every pair
// interact; a nil bus gets a fresh one.
func NewTracker(index spatial.Index, filter *layer.Filter, bus *event.Bus) *Tracker {
	if bus == nil {
		bus = event.NewEventBus()
	}
	return &Tracker{
		index:   index,
		filter:  filter,
		bus:     bus,
		records: make(map[entity.ID]*Record),
		moved:   make(map[entity.ID]struct{}),
	}
}

// Bus returns the event bus notifications are published on
func (t *Tracker) Bus() *event.Bus {
	return t.bus
}

// Register starts tracking c. The object is treated as moved so its
// overlaps are discovered on the next Update.
func (t *Tracker) Register(c entity.Collidable) error {
	id := c.ID()
	if _, ok := t.records[id]; ok {
		return fmt.Errorf("%w: %d", ErrAlreadyRegistered, id)
	}

	rec := newRecord(c)
	rec.listener = c.AddListener(t)
	t.records[id] = rec
	t.index.Insert(c)
	t.moved[id] = struct{}{}
	return nil
}

// Unregister stops tracking id. Every object still overlapping it receives
// a stopped notification; the removed object receives none.
func (t *Tracker) Unregister(id entity.ID) error {
	rec, ok := t.records[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotRegistered, id)
	}

	t.index.Remove(rec.owner)
	rec.owner.RemoveListener(rec.listener)
	delete(t.records, id)
	delete(t.moved, id)
	t.bus.Clear(id)

	for _, other := range rec.Overlapping() {
		if partner, ok := t.records[other]; ok {
			delete(partner.overlaps, id)
			t.bus.Publish(event.CollisionEvent{
				Type:   event.CollisionStopped,
				Source: other,
				Other:  id,
			})
		}
	}
	return nil
}

// ObjectMoved keeps the index current and queues c for discovery
func (t *Tracker) ObjectMoved(c entity.Collidable) {
	rec, ok := t.records[c.ID()]
	if !ok || rec.owner != c {
		return
	}
	t.index.Relocate(c)
	t.moved[c.ID()] = struct{}{}
}

// relocate refiles a registered object in the index without queueing it
func (t *Tracker) relocate(c entity.Collidable) {
	if rec, ok := t.records[c.ID()]; ok && rec.owner == c {
		t.index.Relocate(c)
	}
}

// ObjectDestroyed unregisters c
func (t *Tracker) ObjectDestroyed(c entity.Collidable) {
	if rec, ok := t.records[c.ID()]; ok && rec.owner == c {
		_ = t.Unregister(c.ID())
	}
}

// Lookup returns the registered object with the given id
func (t *Tracker) Lookup(id entity.ID) (entity.Collidable, bool) {
	rec, ok := t.records[id]
	if !ok {
		return nil, false
	}
	return rec.owner, true
}

// Record returns the overlap record of id
func (t *Tracker) Record(id entity.ID) (*Record, bool) {
	rec, ok := t.records[id]
	return rec, ok
}

// Records returns all records in ascending owner ID order
func (t *Tracker) Records() []*Record {
	out := make([]*Record, 0, len(t.records))
	for _, rec := range t.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].owner.ID() < out[j].owner.ID() })
	return out
}

// Len returns the number of registered objects
func (t *Tracker) Len() int {
	return len(t.records)
}

// Interact applies the layer filter to a pair
func (t *Tracker) Interact(a, b entity.Collidable) bool {
	if t.filter == nil {
		return true
	}
	return t.filter.Interact(a.Layer(), b.Layer())
}

// Candidates returns the registered objects that strictly overlap c and
// whose layers interact with it, in ascending ID order.
func (t *Tracker) Candidates(c entity.Collidable) []entity.Collidable {
	t.buf = t.index.QueryItem(c, t.buf[:0])
	bounds := c.Bounds()

	var out []entity.Collidable
	for _, item := range t.buf {
		other, ok := item.(entity.Collidable)
		if !ok || other.ID() == c.ID() {
			continue
		}
		if rec, ok := t.records[other.ID()]; !ok || rec.owner != other {
			continue
		}
		if !t.Interact(c, other) || !bounds.Overlaps(other.Bounds()) {
			continue
		}
		out = append(out, other)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// CollectMovers relocates and drains every object that moved since the
// last call, including objects that report Moved without having notified.
// IDs are returned in ascending order.
func (t *Tracker) CollectMovers() []entity.ID {
	for id, rec := range t.records {
		if rec.owner.Moved() {
			if _, ok := t.moved[id]; !ok {
				t.index.Relocate(rec.owner)
				t.moved[id] = struct{}{}
			}
		}
	}
	movers := sortedIDs(t.moved)
	t.moved = make(map[entity.ID]struct{})
	return movers
}

// Update diffs the overlaps of everything that moved since the last call
func (t *Tracker) Update() Stats {
	return t.Diff(t.CollectMovers())
}

// Diff runs discovery for movers, then revalidates every recorded pair not
// already visited. Notifications are published after both passes, once the
// records are consistent.
func (t *Tracker) Diff(movers []entity.ID) Stats {
	stats := Stats{Movers: movers}
	handled := make(map[pair]struct{})

	for _, id := range stats.Movers {
		rec, ok := t.records[id]
		if !ok {
			continue
		}
		current := make(map[entity.ID]struct{})
		for _, other := range t.Candidates(rec.owner) {
			oid := other.ID()
			current[oid] = struct{}{}
			key := makePair(id, oid)
			if _, done := handled[key]; done {
				continue
			}
			handled[key] = struct{}{}

			if rec.Has(oid) {
				t.emitPair(event.CollisionPersisting, rec.owner, other)
				stats.Persisting++
				continue
			}
			t.link(rec, t.records[oid])
			t.emitPair(event.CollisionStarted, rec.owner, other)
			stats.Started++
		}

		for _, oid := range rec.Overlapping() {
			if _, still := current[oid]; still {
				continue
			}
			key := makePair(id, oid)
			if _, done := handled[key]; done {
				continue
			}
			handled[key] = struct{}{}
			t.unlink(id, oid)
			t.emitStopped(id, oid)
			stats.Stopped++
		}
	}

	// Only one side of a pair may have moved; every remaining pair is
	// checked from the stored records.
	for _, rec := range t.Records() {
		id := rec.owner.ID()
		for _, oid := range rec.Overlapping() {
			key := makePair(id, oid)
			if _, done := handled[key]; done {
				continue
			}
			handled[key] = struct{}{}

			partner, ok := t.records[oid]
			if ok && t.Interact(rec.owner, partner.owner) && rec.owner.Bounds().Overlaps(partner.owner.Bounds()) {
				t.emitPair(event.CollisionPersisting, rec.owner, partner.owner)
				stats.Persisting++
				continue
			}
			t.unlink(id, oid)
			t.emitStopped(id, oid)
			stats.Stopped++
		}
	}

	for _, id := range stats.Movers {
		if rec, ok := t.records[id]; ok {
			if fe, ok := rec.owner.(entity.FrameEnder); ok {
				fe.EndFrame()
			}
		}
	}

	pending := t.pending
	t.pending = nil
	for _, e := range pending {
		t.bus.Publish(e)
	}
	return stats
}

func (t *Tracker) link(a, b *Record) {
	a.overlaps[b.owner.ID()] = struct{}{}
	b.overlaps[a.owner.ID()] = struct{}{}
}

func (t *Tracker) unlink(a, b entity.ID) {
	if rec, ok := t.records[a]; ok {
		delete(rec.overlaps, b)
	}
	if rec, ok := t.records[b]; ok {
		delete(rec.overlaps, a)
	}
}

func (t *Tracker) emitPair(typ event.Type, a, b entity.Collidable) {
	ab, ba := a.Bounds(), b.Bounds()
	t.pending = append(t.pending,
		event.CollisionEvent{Type: typ, Source: a.ID(), Other: b.ID(), Correction: physics.ComputeCorrection(ab, ba)},
		event.CollisionEvent{Type: typ, Source: b.ID(), Other: a.ID(), Correction: physics.ComputeCorrection(ba, ab)},
	)
}

func (t *Tracker) emitStopped(a, b entity.ID) {
	t.pending = append(t.pending,
		event.CollisionEvent{Type: event.CollisionStopped, Source: a, Other: b},
		event.CollisionEvent{Type: event.CollisionStopped, Source: b, Other: a},
	)
}
