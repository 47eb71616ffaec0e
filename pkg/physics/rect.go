// pkg/physics/rect.go
package physics

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// Width and Height are never negative.
type Rect struct {
	Position Vector2D
	Width    float64
	Height   float64
}

// NewRect creates a rectangle, clamping negative dimensions to zero
func NewRect(x, y, width, height float64) Rect {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return Rect{
		Position: Vector2D{X: x, Y: y},
		Width:    width,
		Height:   height,
	}
}

func (r Rect) Left() float64   { return r.Position.X }
func (r Rect) Top() float64    { return r.Position.Y }
func (r Rect) Right() float64  { return r.Position.X + r.Width }
func (r Rect) Bottom() float64 { return r.Position.Y + r.Height }

// Center returns the midpoint of the rectangle
func (r Rect) Center() Vector2D {
	return Vector2D{
		X: r.Position.X + r.Width/2,
		Y: r.Position.Y + r.Height/2,
	}
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether other lies entirely inside r. Edges are
// inclusive, so a rectangle contains itself.
func (r Rect) Contains(other Rect) bool {
	return other.Left() >= r.Left() &&
		other.Right() <= r.Right() &&
		other.Top() >= r.Top() &&
		other.Bottom() <= r.Bottom()
}

// ContainsPoint reports whether p lies inside r, edges inclusive
func (r Rect) ContainsPoint(p Vector2D) bool {
	return p.X >= r.Left() && p.X <= r.Right() &&
		p.Y >= r.Top() && p.Y <= r.Bottom()
}

// Overlaps reports whether the interiors of r and other intersect.
// Rectangles that only share an edge or a corner do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.Left() < other.Right() &&
		other.Left() < r.Right() &&
		r.Top() < other.Bottom() &&
		other.Top() < r.Bottom()
}

// Touches reports whether r and other overlap or share an edge or corner
func (r Rect) Touches(other Rect) bool {
	return r.Left() <= other.Right() &&
		other.Left() <= r.Right() &&
		r.Top() <= other.Bottom() &&
		other.Top() <= r.Bottom()
}

// Translate returns r moved by delta
func (r Rect) Translate(delta Vector2D) Rect {
	r.Position = r.Position.Add(delta)
	return r
}

// Inflate returns r grown by amount on every side
func (r Rect) Inflate(amount float64) Rect {
	return NewRect(r.Left()-amount, r.Top()-amount, r.Width+2*amount, r.Height+2*amount)
}

// Quadrants splits r into four equal parts: top-left, top-right,
// bottom-left, bottom-right.
func (r Rect) Quadrants() [4]Rect {
	w := r.Width / 2
	h := r.Height / 2
	x := r.Position.X
	y := r.Position.Y

	return [4]Rect{
		{Position: Vector2D{X: x, Y: y}, Width: w, Height: h},
		{Position: Vector2D{X: x + w, Y: y}, Width: w, Height: h},
		{Position: Vector2D{X: x, Y: y + h}, Width: w, Height: h},
		{Position: Vector2D{X: x + w, Y: y + h}, Width: w, Height: h},
	}
}
