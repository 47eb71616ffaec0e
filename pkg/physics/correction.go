// pkg/physics/correction.go
package physics

// Direction is the sign of a push along one axis
type Direction int

const (
	Negative Direction = -1
	None     Direction = 0
	Positive Direction = 1
)

// Axis selects the horizontal or vertical component of a correction
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// Other returns the perpendicular axis
func (a Axis) Other() Axis {
	if a == AxisX {
		return AxisY
	}
	return AxisX
}

// CorrectionVector describes the minimum translation, per axis, that moves
// one rectangle out of another.
type CorrectionVector struct {
	X          Direction
	Y          Direction
	XMagnitude float64
	YMagnitude float64
}

// ComputeCorrection returns the correction that pushes a out of b. The zero
// value is returned when the rectangles do not overlap.
func ComputeCorrection(a, b Rect) CorrectionVector {
	if !a.Overlaps(b) {
		return CorrectionVector{}
	}

	var cv CorrectionVector
	cv.X, cv.XMagnitude = axisCorrection(
		a.Right()-b.Left(), b.Right()-a.Left(),
		a.Center().X, b.Center().X,
	)
	cv.Y, cv.YMagnitude = axisCorrection(
		a.Bottom()-b.Top(), b.Bottom()-a.Top(),
		a.Center().Y, b.Center().Y,
	)
	return cv
}

// axisCorrection picks the cheaper of moving back (toNegative) or forward
// (toPositive). Equal distances fall back to the relative centers.
func axisCorrection(toNegative, toPositive, centerA, centerB float64) (Direction, float64) {
	switch {
	case toNegative < toPositive:
		return Negative, toNegative
	case toPositive < toNegative:
		return Positive, toPositive
	case centerA > centerB:
		return Positive, toPositive
	default:
		return Negative, toNegative
	}
}

// Dir returns the direction along axis
func (c CorrectionVector) Dir(axis Axis) Direction {
	if axis == AxisX {
		return c.X
	}
	return c.Y
}

// Magnitude returns the distance along axis
func (c CorrectionVector) Magnitude(axis Axis) float64 {
	if axis == AxisX {
		return c.XMagnitude
	}
	return c.YMagnitude
}

// IsZero reports whether the vector requests no movement
func (c CorrectionVector) IsZero() bool {
	return c.X == None && c.Y == None
}

// SmallerAxis returns the axis with the cheaper correction, X on ties
func (c CorrectionVector) SmallerAxis() Axis {
	if c.Y != None && (c.X == None || c.YMagnitude < c.XMagnitude) {
		return AxisY
	}
	return AxisX
}

// Delta returns the translation that applies the correction along axis
func (c CorrectionVector) Delta(axis Axis) Vector2D {
	return AxisDelta(axis, c.Dir(axis), c.Magnitude(axis))
}

// AxisDelta builds a translation of magnitude along axis in direction dir
func AxisDelta(axis Axis, dir Direction, magnitude float64) Vector2D {
	amount := float64(dir) * magnitude
	if axis == AxisX {
		return Vector2D{X: amount}
	}
	return Vector2D{Y: amount}
}
