// pkg/spatial/quadtree.go
package spatial

import (
	"github.com/opd-ai/go-collide/pkg/physics"
)

// Default tree limits
const (
	DefaultMaxDepth = 8
	DefaultMaxItems = 8
)

// QuadTreeOptions configures a QuadTree
type QuadTreeOptions struct {
	Bounds   physics.Rect
	MaxDepth int
	MaxItems int
}

// entry is the index-side bookkeeping for a stored item
type entry struct {
	item   Item
	node   *node
	active bool
}

// node is a quadtree cell. parent is a lookup-only back reference.
type node struct {
	region   physics.Rect
	parent   *node
	children [4]*node
	depth    int
	entries  []*entry
	leaf     bool
}

// QuadTree indexes rectangles by storing each one at the deepest node whose
// region fully contains it. Nodes split lazily once they exceed MaxItems,
// down to MaxDepth. Items outside the world bounds live at the root.
type QuadTree struct {
	root     *node
	maxDepth int
	maxItems int
	entries  map[Item]*entry
	nodes    int
}

// NewQuadTree creates a quadtree. World bounds smaller than 1x1 are
// widened to 1x1 and non-positive limits fall back to the defaults.
func NewQuadTree(opts QuadTreeOptions) *QuadTree {
	bounds := opts.Bounds
	if bounds.Width < 1 {
		bounds.Width = 1
	}
	if bounds.Height < 1 {
		bounds.Height = 1
	}
	if opts.MaxDepth < 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.MaxItems < 1 {
		opts.MaxItems = DefaultMaxItems
	}

	return &QuadTree{
		root:     &node{region: bounds, leaf: true},
		maxDepth: opts.MaxDepth,
		maxItems: opts.MaxItems,
		entries:  make(map[Item]*entry),
		nodes:    1,
	}
}

// Bounds returns the world rectangle covered by the root
func (qt *QuadTree) Bounds() physics.Rect {
	return qt.root.region
}

// Insert adds item to the tree
func (qt *QuadTree) Insert(item Item) {
	if _, ok := qt.entries[item]; ok {
		qt.Relocate(item)
		return
	}
	e := &entry{item: item, active: true}
	qt.entries[item] = e
	qt.insert(e, qt.root)
}

// insert descends from n to the deepest node that fully contains the
// entry, splitting full leaves on the way.
func (qt *QuadTree) insert(e *entry, n *node) {
	bounds := e.item.Bounds()
	for {
		if n.leaf && len(n.entries) >= qt.maxItems && n.depth < qt.maxDepth {
			qt.subdivide(n)
		}
		if n.leaf {
			break
		}
		child := n.childContaining(bounds)
		if child == nil {
			break
		}
		n = child
	}
	n.entries = append(n.entries, e)
	e.node = n
}

// subdivide creates the four children of n and pushes down every entry
// that fits in one of them.
func (qt *QuadTree) subdivide(n *node) {
	for i, region := range n.region.Quadrants() {
		n.children[i] = &node{
			region: region,
			parent: n,
			depth:  n.depth + 1,
			leaf:   true,
		}
	}
	n.leaf = false
	qt.nodes += 4

	kept := n.entries[:0]
	for _, e := range n.entries {
		if child := n.childContaining(e.item.Bounds()); child != nil {
			child.entries = append(child.entries, e)
			e.node = child
			continue
		}
		kept = append(kept, e)
	}
	for i := len(kept); i < len(n.entries); i++ {
		n.entries[i] = nil
	}
	n.entries = kept
}

// childContaining returns the first child whose region fully contains r
func (n *node) childContaining(r physics.Rect) *node {
	if n.leaf {
		return nil
	}
	for _, child := range n.children {
		if child.region.Contains(r) {
			return child
		}
	}
	return nil
}

func (n *node) remove(e *entry) {
	for i, other := range n.entries {
		if other == e {
			last := len(n.entries) - 1
			copy(n.entries[i:], n.entries[i+1:])
			n.entries[last] = nil
			n.entries = n.entries[:last]
			return
		}
	}
}

// Remove deletes item from the tree. Emptied nodes are kept.
func (qt *QuadTree) Remove(item Item) bool {
	e, ok := qt.entries[item]
	if !ok {
		return false
	}
	e.node.remove(e)
	e.node = nil
	e.active = false
	delete(qt.entries, item)
	return true
}

// Relocate moves item to the node matching its current bounds. Calling it
// when nothing changed leaves the tree untouched.
func (qt *QuadTree) Relocate(item Item) {
	e, ok := qt.entries[item]
	if !ok {
		qt.Insert(item)
		return
	}

	bounds := item.Bounds()
	n := e.node
	if n.parent == nil || n.region.Contains(bounds) {
		if child := n.childContaining(bounds); child != nil {
			n.remove(e)
			qt.insert(e, child)
		}
		return
	}

	n.remove(e)
	up := n.parent
	for up.parent != nil && !up.region.Contains(bounds) {
		up = up.parent
	}
	qt.insert(e, up)
}

// Query appends every item whose bounds overlap area
func (qt *QuadTree) Query(area physics.Rect, out []Item) []Item {
	return qt.query(qt.root, area, nil, out)
}

// QueryItem appends every item overlapping item, excluding item itself
func (qt *QuadTree) QueryItem(item Item, out []Item) []Item {
	return qt.query(qt.root, item.Bounds(), item, out)
}

func (qt *QuadTree) query(n *node, area physics.Rect, exclude Item, out []Item) []Item {
	// The root is always visited: it also holds out-of-world items.
	if n.parent != nil {
		if !n.region.Touches(area) {
			return out
		}
		if area.Contains(n.region) {
			return collect(n, area, exclude, out)
		}
	}

	for _, e := range n.entries {
		if e.item != exclude && e.item.Bounds().Overlaps(area) {
			out = append(out, e.item)
		}
	}
	if !n.leaf {
		for _, child := range n.children {
			out = qt.query(child, area, exclude, out)
		}
	}
	return out
}

// collect appends the whole subtree of a node that area covers. Items with
// an area overlap it by containment; degenerate ones may lie on its edge
// and are tested.
func collect(n *node, area physics.Rect, exclude Item, out []Item) []Item {
	for _, e := range n.entries {
		if !e.active || e.item == exclude {
			continue
		}
		if bounds := e.item.Bounds(); bounds.Empty() && !bounds.Overlaps(area) {
			continue
		}
		out = append(out, e.item)
	}
	if !n.leaf {
		for _, child := range n.children {
			out = collect(child, area, exclude, out)
		}
	}
	return out
}

// Contains reports whether item is stored
func (qt *QuadTree) Contains(item Item) bool {
	_, ok := qt.entries[item]
	return ok
}

// Len returns the number of stored items
func (qt *QuadTree) Len() int {
	return len(qt.entries)
}

// NodeCount returns the number of nodes, including empty ones
func (qt *QuadTree) NodeCount() int {
	return qt.nodes
}

// Depth returns the depth of the deepest node
func (qt *QuadTree) Depth() int {
	depth := 0
	qt.Walk(func(region physics.Rect, d int, items []Item) {
		if d > depth {
			depth = d
		}
	})
	return depth
}

// Walk visits every node depth-first, parents before children
func (qt *QuadTree) Walk(fn func(region physics.Rect, depth int, items []Item)) {
	walk(qt.root, fn)
}

func walk(n *node, fn func(physics.Rect, int, []Item)) {
	items := make([]Item, 0, len(n.entries))
	for _, e := range n.entries {
		items = append(items, e.item)
	}
	fn(n.region, n.depth, items)
	if !n.leaf {
		for _, child := range n.children {
			walk(child, fn)
		}
	}
}

// Clear removes every item and collapses the tree to its root
func (qt *QuadTree) Clear() {
	for _, e := range qt.entries {
		e.active = false
		e.node = nil
	}
	qt.root = &node{region: qt.root.region, leaf: true}
	qt.entries = make(map[Item]*entry)
	qt.nodes = 1
}

// nodeOf returns the node currently holding item
func (qt *QuadTree) nodeOf(item Item) *node {
	if e, ok := qt.entries[item]; ok {
		return e.node
	}
	return nil
}
