package geometry

import (
	"errors"
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and by the zero-length checks.
const Epsilon = 1e-9

// ErrZeroLength is returned when a direction is requested from a vector
// whose length is effectively zero.
var ErrZeroLength = errors.New("vector has zero length")

// Up is the reference facing used to derive sprite rotation (y axis up).
var Up = Vector2D{X: 0, Y: 1}

// Vector2D represents a 2D vector or point in cartesian space.
// The simulation plane is z = 0, so positions and velocities share this type.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a new Vector2D from a length and an angle in radians
// measured from the positive X axis.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	// snap float noise around the axes
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}

	return Vector2D{X: x, Y: y}
}

// String implements the fmt.Stringer interface.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic Operations
// Value receivers: every operation returns a new Vector2D.
// ---------------------------------------------------------------------

// Add adds two vectors and returns the result.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// Sub subtracts the other vector from the current vector.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{v.X - other.X, v.Y - other.Y}
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// Div scales the vector by 1/scalar.
// A zero scalar returns an infinite vector together with an error.
func (v Vector2D) Div(scalar float64) (Vector2D, error) {
	if scalar == 0 {
		return Vector2D{math.Inf(1), math.Inf(1)}, errors.New("vector cannot be divided by zero")
	}
	return Vector2D{v.X / scalar, v.Y / scalar}, nil
}

// Dot calculates the dot product of two vectors.
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// ---------------------------------------------------------------------
// Magnitude and Direction
// ---------------------------------------------------------------------

// LenSqr calculates the squared magnitude of the vector.
// Prefer it over Len for comparisons against a threshold.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len calculates the magnitude (length) of the vector.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero reports whether the vector length is below Epsilon.
func (v Vector2D) IsZero() bool {
	return v.Len() < Epsilon
}

// Unit returns the unit vector with the same direction.
// It fails with ErrZeroLength instead of producing NaN components.
func (v Vector2D) Unit() (Vector2D, error) {
	l := v.Len()
	if l < Epsilon {
		return Vector2D{}, ErrZeroLength
	}
	return v.Mul(1 / l), nil
}

// DistanceSquaredTo calculates the squared Euclidean distance to another vector.
func (v Vector2D) DistanceSquaredTo(other Vector2D) float64 {
	return v.Sub(other).LenSqr()
}

// DistanceTo calculates the Euclidean distance to another vector.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// Angle returns the angle (in radians) of the vector relative to the X-axis.
// Range: [-Pi, Pi]
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// AngleBetween returns the unsigned angle in [0, Pi] between v and other.
// Both vectors must have a non-zero length.
func (v Vector2D) AngleBetween(other Vector2D) (float64, error) {
	lv, lo := v.Len(), other.Len()
	if lv < Epsilon || lo < Epsilon {
		return 0, ErrZeroLength
	}
	cos := v.Dot(other) / (lv * lo)
	// rounding can push |cos| slightly above 1
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos), nil
}

// Eq checks if two vectors are approximately equal using the Epsilon constant.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}
