// pkg/physics/volume.go
package physics

// BoundingVolume is the collision rectangle of an object. It sits at a fixed
// offset from its owner's position and follows the owner through Sync.
type BoundingVolume struct {
	offset Vector2D
	rect   Rect
}

// NewBoundingVolume creates a volume of the given size placed at
// owner+offset. Negative sizes are clamped to zero.
func NewBoundingVolume(owner, offset Vector2D, width, height float64) *BoundingVolume {
	pos := owner.Add(offset)
	return &BoundingVolume{
		offset: offset,
		rect:   NewRect(pos.X, pos.Y, width, height),
	}
}

// Sync moves the volume so that it sits at owner+offset
func (v *BoundingVolume) Sync(owner Vector2D) {
	v.rect.Position = owner.Add(v.offset)
}

// Resize changes the dimensions, keeping the top-left corner
func (v *BoundingVolume) Resize(width, height float64) {
	v.rect = NewRect(v.rect.Position.X, v.rect.Position.Y, width, height)
}

// Rect returns the world-space rectangle
func (v *BoundingVolume) Rect() Rect {
	return v.rect
}

// Offset returns the fixed offset from the owner position
func (v *BoundingVolume) Offset() Vector2D {
	return v.offset
}

func (v *BoundingVolume) Position() Vector2D { return v.rect.Position }
func (v *BoundingVolume) Width() float64     { return v.rect.Width }
func (v *BoundingVolume) Height() float64    { return v.rect.Height }
func (v *BoundingVolume) Right() float64     { return v.rect.Right() }
func (v *BoundingVolume) Bottom() float64    { return v.rect.Bottom() }

// Intersects reports whether the two volumes overlap (edge contact excluded)
func (v *BoundingVolume) Intersects(other *BoundingVolume) bool {
	return v.rect.Overlaps(other.rect)
}

// Contains reports whether other lies entirely inside v
func (v *BoundingVolume) Contains(other *BoundingVolume) bool {
	return v.rect.Contains(other.rect)
}

// Clone returns an independent copy
func (v *BoundingVolume) Clone() *BoundingVolume {
	c := *v
	return &c
}
