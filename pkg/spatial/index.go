// Package spatial provides broad-phase indexes over axis-aligned rectangles.
package spatial

import (
	"github.com/opd-ai/go-collide/pkg/physics"
)

// Item is anything with a bounding rectangle. Items are used as map keys,
// so implementations should be pointer types.
type Item interface {
	Bounds() physics.Rect
}

// Index stores items for proximity queries. Query results are a superset
// filter: every returned item's bounds overlap the query area, except that
// an implementation may skip the exact test for items whose enclosing
// region lies fully inside the area.
type Index interface {
	// Insert adds item. Inserting a stored item relocates it.
	Insert(item Item)
	// Remove deletes item and reports whether it was stored.
	Remove(item Item) bool
	// Relocate must be called after an item's bounds change. Unknown
	// items are inserted.
	Relocate(item Item)
	// Query appends to out every item overlapping area.
	Query(area physics.Rect, out []Item) []Item
	// QueryItem appends to out every item overlapping item's bounds,
	// excluding item itself.
	QueryItem(item Item, out []Item) []Item
	Contains(item Item) bool
	Len() int
}
