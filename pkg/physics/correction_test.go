// pkg/physics/correction_test.go
package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCorrection(t *testing.T) {
	tests := []struct {
		name     string
		a        Rect
		b        Rect
		expected CorrectionVector
	}{
		{
			name:     "x_overlap_of_five",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(5, 0, 10, 10),
			expected: CorrectionVector{X: Negative, XMagnitude: 5, Y: Negative, YMagnitude: 10},
		},
		{
			name:     "a_right_of_b",
			a:        NewRect(7, 2, 10, 10),
			b:        NewRect(0, 0, 10, 10),
			expected: CorrectionVector{X: Positive, XMagnitude: 3, Y: Positive, YMagnitude: 8},
		},
		{
			name:     "a_above_b",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(1, 8, 4, 10),
			expected: CorrectionVector{X: Positive, XMagnitude: 5, Y: Negative, YMagnitude: 2},
		},
		{
			name:     "touching_is_not_overlap",
			a:        NewRect(0, 0, 10, 10),
			b:        NewRect(10, 0, 10, 10),
			expected: CorrectionVector{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeCorrection(tt.a, tt.b))
		})
	}
}

func TestComputeCorrection_ResolvesOverlap(t *testing.T) {
	a := NewRect(3, 4, 6, 6)
	b := NewRect(5, 5, 10, 3)

	cv := ComputeCorrection(a, b)
	for _, axis := range []Axis{AxisX, AxisY} {
		moved := a.Translate(cv.Delta(axis))
		assert.False(t, moved.Overlaps(b), "axis %s should separate", axis)
	}
}

func TestCorrectionVector_SmallerAxis(t *testing.T) {
	assert.Equal(t, AxisX, CorrectionVector{X: Negative, XMagnitude: 3, Y: Positive, YMagnitude: 10}.SmallerAxis())
	assert.Equal(t, AxisY, CorrectionVector{X: Negative, XMagnitude: 3, Y: Positive, YMagnitude: 1}.SmallerAxis())
	assert.Equal(t, AxisX, CorrectionVector{X: Negative, XMagnitude: 2, Y: Positive, YMagnitude: 2}.SmallerAxis())
	assert.Equal(t, AxisY, AxisX.Other())
	assert.Equal(t, Vector2D{Y: -4}, AxisDelta(AxisY, Negative, 4))
}
