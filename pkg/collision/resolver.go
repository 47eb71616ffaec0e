// pkg/collision/resolver.go
package collision

import (
	"math"

	"github.com/opd-ai/go-collide/pkg/entity"
	"github.com/opd-ai/go-collide/pkg/physics"
)

// DefaultIterationCap bounds the push-out loop for one object
const DefaultIterationCap = 16

// Contact is an overlap seen from one object, with the correction that
// would move that object out of Other
type Contact struct {
	Other      entity.Collidable
	Correction physics.CorrectionVector
}

// Result describes the resolution of one object
type Result struct {
	ID         entity.ID
	Iterations int
	// Settled is false when overlaps with objects the mover must yield to
	// remain, either because the cap was hit or no axis was left to try.
	Settled   bool
	Exhausted bool
	Pushed    []entity.ID
}

// axisHistory records which axes a pair was already corrected along
type axisHistory map[entity.ID][2]bool

func (h axisHistory) used(id entity.ID, axis physics.Axis) bool {
	return h[id][axis]
}

func (h axisHistory) mark(id entity.ID, axis physics.Axis) {
	used := h[id]
	used[axis] = true
	h[id] = used
}

// Resolver pushes solid objects apart. An object yields to overlapping
// solids of equal or higher priority and pushes lower priority solids away.
type Resolver struct {
	tracker *Tracker
	cap     int
}

// NewResolver creates a resolver over the tracker's registered objects.
// A cap below one falls back to DefaultIterationCap.
func NewResolver(tracker *Tracker, iterationCap int) *Resolver {
	if iterationCap < 1 {
		iterationCap = DefaultIterationCap
	}
	return &Resolver{tracker: tracker, cap: iterationCap}
}

// IterationCap returns the per-object iteration limit
func (r *Resolver) IterationCap() int {
	return r.cap
}

// Contacts returns the correction of c against every interacting object
// it overlaps, without moving anything. Solidity is ignored.
func (r *Resolver) Contacts(c entity.Collidable) []Contact {
	bounds := c.Bounds()
	var out []Contact
	for _, other := range r.tracker.Candidates(c) {
		out = append(out, Contact{
			Other:      other,
			Correction: physics.ComputeCorrection(bounds, other.Bounds()),
		})
	}
	return out
}

// Resolve moves s out of every solid it must yield to, one axis per
// iteration, and pushes lower priority solids away from it once each.
func (r *Resolver) Resolve(s entity.Collidable) Result {
	res := Result{ID: s.ID(), Settled: true}
	if !s.Solid() {
		return res
	}

	history := make(axisHistory)
	pushed := make(map[entity.ID]bool)

	for {
		var yield []Contact
		for _, contact := range r.Contacts(s) {
			other := contact.Other
			if !other.Solid() {
				continue
			}
			if other.Priority() >= s.Priority() {
				yield = append(yield, contact)
				continue
			}
			if !pushed[other.ID()] {
				pushed[other.ID()] = true
				r.pushAway(other, s)
				res.Pushed = append(res.Pushed, other.ID())
			}
		}

		if len(yield) == 0 {
			return res
		}
		if res.Iterations >= r.cap {
			res.Settled = false
			res.Exhausted = true
			return res
		}

		delta, ok := correct(yield, history)
		if !ok {
			res.Settled = false
			return res
		}
		res.Iterations++
		r.move(s, delta)
	}
}

// ResolveAll resolves each mover in order. Solids pushed along the way are
// queued behind them; no object is resolved twice.
func (r *Resolver) ResolveAll(movers []entity.ID) []Result {
	queue := append([]entity.ID(nil), movers...)
	seen := make(map[entity.ID]bool, len(queue))
	var results []Result

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true

		s, ok := r.tracker.Lookup(id)
		if !ok || !s.Solid() {
			continue
		}
		res := r.Resolve(s)
		results = append(results, res)
		for _, p := range res.Pushed {
			if !seen[p] {
				queue = append(queue, p)
			}
		}
	}
	return results
}

// pushAway moves o out of s along o's cheaper axis
func (r *Resolver) pushAway(o, s entity.Collidable) {
	c := physics.ComputeCorrection(o.Bounds(), s.Bounds())
	if c.IsZero() {
		return
	}
	r.move(o, c.Delta(c.SmallerAxis()))
}

// move translates c and refiles it in the index. Hosts that notify will
// relocate it a second time, which is a no-op.
func (r *Resolver) move(c entity.Collidable, delta physics.Vector2D) {
	c.Translate(delta)
	r.tracker.relocate(c)
}

type axisChoice struct {
	ok        bool
	dir       physics.Direction
	magnitude float64
	other     entity.ID
}

// correct picks one axis translation for the mover. Per axis the summed
// directions choose the way to go; a zero sum takes the direction of the
// smallest correction. The axis whose smallest agreeing correction is
// cheaper wins, X on ties. Pairs already corrected along an axis this
// frame are not corrected along it again.
func correct(contacts []Contact, history axisHistory) (physics.Vector2D, bool) {
	var choices [2]axisChoice
	for _, axis := range []physics.Axis{physics.AxisX, physics.AxisY} {
		choices[axis] = chooseAxis(contacts, history, axis)
	}

	x, y := choices[physics.AxisX], choices[physics.AxisY]
	var axis physics.Axis
	switch {
	case x.ok && (!y.ok || x.magnitude <= y.magnitude):
		axis = physics.AxisX
	case y.ok:
		axis = physics.AxisY
	default:
		return physics.Vector2D{}, false
	}

	chosen := choices[axis]
	history.mark(chosen.other, axis)
	return physics.AxisDelta(axis, chosen.dir, chosen.magnitude), true
}

func chooseAxis(contacts []Contact, history axisHistory, axis physics.Axis) axisChoice {
	sum := 0
	smallest := math.Inf(1)
	var smallestDir physics.Direction
	for _, c := range contacts {
		dir := c.Correction.Dir(axis)
		if dir == physics.None {
			continue
		}
		sum += int(dir)
		if mag := c.Correction.Magnitude(axis); mag < smallest {
			smallest = mag
			smallestDir = dir
		}
	}

	var dir physics.Direction
	switch {
	case sum > 0:
		dir = physics.Positive
	case sum < 0:
		dir = physics.Negative
	default:
		dir = smallestDir
	}
	if dir == physics.None {
		return axisChoice{}
	}

	choice := axisChoice{dir: dir, magnitude: math.Inf(1)}
	for _, c := range contacts {
		if c.Correction.Dir(axis) != dir || history.used(c.Other.ID(), axis) {
			continue
		}
		if mag := c.Correction.Magnitude(axis); mag < choice.magnitude {
			choice.ok = true
			choice.magnitude = mag
			choice.other = c.Other.ID()
		}
	}
	return choice
}
