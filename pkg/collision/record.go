// pkg/collision/record.go
package collision

import (
	"errors"
	"sort"

	"github.com/opd-ai/go-collide/pkg/entity"
)

var (
	// ErrAlreadyRegistered is returned when an ID is registered twice
	ErrAlreadyRegistered = errors.New("collidable already registered")
	// ErrNotRegistered is returned for operations on unknown IDs
	ErrNotRegistered = errors.New("collidable not registered")
)

// Record holds the set of objects currently overlapping its owner
type Record struct {
	owner    entity.Collidable
	overlaps map[entity.ID]struct{}
	listener entity.ListenerID
}

func newRecord(owner entity.Collidable) *Record {
	return &Record{
		owner:    owner,
		overlaps: make(map[entity.ID]struct{}),
	}
}

// Owner returns the tracked object
func (r *Record) Owner() entity.Collidable {
	return r.owner
}

// Has reports whether id is recorded as overlapping the owner
func (r *Record) Has(id entity.ID) bool {
	_, ok := r.overlaps[id]
	return ok
}

// Len returns the number of recorded overlaps
func (r *Record) Len() int {
	return len(r.overlaps)
}

// Overlapping returns the recorded overlaps in ascending ID order
func (r *Record) Overlapping() []entity.ID {
	return sortedIDs(r.overlaps)
}

func sortedIDs(set map[entity.ID]struct{}) []entity.ID {
	ids := make([]entity.ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// pair is an unordered pair of IDs, lo < hi
type pair struct {
	lo, hi entity.ID
}

func makePair(a, b entity.ID) pair {
	if a > b {
		a, b = b, a
	}
	return pair{lo: a, hi: b}
}
