// pkg/spatial/grid.go
package spatial

import (
	"math"

	"github.com/solarlune/resolv"

	"github.com/opd-ai/go-collide/pkg/physics"
)

// DefaultCellSize is the grid cell edge used when none is configured
const DefaultCellSize = 32

// Grid is an Index backed by a resolv.Space of uniform cells. It suits
// worlds with many similarly sized objects. Items that are not fully
// inside the world bounds are kept aside and tested exhaustively.
type Grid struct {
	bounds  physics.Rect
	space   *resolv.Space
	objects map[Item]*resolv.Object
	owners  map[*resolv.Object]Item
	outside map[Item]struct{}
}

// NewGrid creates a grid covering bounds with square cells of cellSize
func NewGrid(bounds physics.Rect, cellSize int) *Grid {
	if cellSize < 1 {
		cellSize = DefaultCellSize
	}
	width := int(math.Ceil(bounds.Width))
	height := int(math.Ceil(bounds.Height))
	if width < cellSize {
		width = cellSize
	}
	if height < cellSize {
		height = cellSize
	}
	bounds.Width = float64(width)
	bounds.Height = float64(height)

	return &Grid{
		bounds:  bounds,
		space:   resolv.NewSpace(width, height, cellSize, cellSize),
		objects: make(map[Item]*resolv.Object),
		owners:  make(map[*resolv.Object]Item),
		outside: make(map[Item]struct{}),
	}
}

// Bounds returns the world rectangle covered by the cells
func (g *Grid) Bounds() physics.Rect {
	return g.bounds
}

// Insert adds item to the grid
func (g *Grid) Insert(item Item) {
	if g.Contains(item) {
		g.Relocate(item)
		return
	}
	g.place(item)
}

func (g *Grid) place(item Item) {
	b := item.Bounds()
	if !g.bounds.Contains(b) {
		g.outside[item] = struct{}{}
		return
	}
	obj := resolv.NewObject(b.Left()-g.bounds.Left(), b.Top()-g.bounds.Top(), cellExtent(b.Width), cellExtent(b.Height))
	g.space.Add(obj)
	g.objects[item] = obj
	g.owners[obj] = item
}

// Remove deletes item from the grid
func (g *Grid) Remove(item Item) bool {
	if _, ok := g.outside[item]; ok {
		delete(g.outside, item)
		return true
	}
	obj, ok := g.objects[item]
	if !ok {
		return false
	}
	g.space.Remove(obj)
	delete(g.objects, item)
	delete(g.owners, obj)
	return true
}

// Relocate refreshes the cells occupied by item
func (g *Grid) Relocate(item Item) {
	obj, ok := g.objects[item]
	if !ok {
		if _, out := g.outside[item]; out {
			delete(g.outside, item)
		}
		g.place(item)
		return
	}

	b := item.Bounds()
	if !g.bounds.Contains(b) {
		g.Remove(item)
		g.outside[item] = struct{}{}
		return
	}
	obj.Position.X = b.Left() - g.bounds.Left()
	obj.Position.Y = b.Top() - g.bounds.Top()
	obj.Size.X = cellExtent(b.Width)
	obj.Size.Y = cellExtent(b.Height)
	obj.Update()
}

// cellExtent keeps sub-unit sizes registered in at least one cell
func cellExtent(size float64) float64 {
	if size < 1 {
		return 1
	}
	return size
}

// Query appends every item overlapping area
func (g *Grid) Query(area physics.Rect, out []Item) []Item {
	return g.query(area, nil, out)
}

// QueryItem appends every item overlapping item, excluding item itself
func (g *Grid) QueryItem(item Item, out []Item) []Item {
	return g.query(item.Bounds(), item, out)
}

func (g *Grid) query(area physics.Rect, exclude Item, out []Item) []Item {
	// resolv maps the far edge with a one unit inset, so the probe is
	// inflated to keep sub-unit overlaps at cell borders in the candidates.
	probeArea := area.Inflate(1)
	probe := resolv.NewObject(
		probeArea.Left()-g.bounds.Left(),
		probeArea.Top()-g.bounds.Top(),
		probeArea.Width,
		probeArea.Height,
	)
	g.space.Add(probe)
	collision := probe.Check(0, 0)
	g.space.Remove(probe)

	if collision != nil {
		seen := make(map[Item]struct{}, len(collision.Objects))
		for _, obj := range collision.Objects {
			item, ok := g.owners[obj]
			if !ok || item == exclude {
				continue
			}
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			if item.Bounds().Overlaps(area) {
				out = append(out, item)
			}
		}
	}

	for item := range g.outside {
		if item != exclude && item.Bounds().Overlaps(area) {
			out = append(out, item)
		}
	}
	return out
}

// Contains reports whether item is stored
func (g *Grid) Contains(item Item) bool {
	if _, ok := g.objects[item]; ok {
		return true
	}
	_, ok := g.outside[item]
	return ok
}

// Len returns the number of stored items
func (g *Grid) Len() int {
	return len(g.objects) + len(g.outside)
}
