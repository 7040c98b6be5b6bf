package sim

import "math"

// Vec is a 2D vector in field coordinates (pixels, +Y down).
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// vecEpsilon guards normalization of near-zero vectors.
const vecEpsilon = 1e-9

func (v Vec) Add(o Vec) Vec      { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec      { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(s float64) Vec { return Vec{v.X * s, v.Y * s} }

// Length returns the euclidean magnitude.
func (v Vec) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Distance returns the euclidean distance between two points.
func (v Vec) Distance(o Vec) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Normalize returns the unit vector and true, or the zero vector and
// false when the magnitude is below epsilon. Callers treat the false
// case as "no direction" and skip the operation.
func (v Vec) Normalize() (Vec, bool) {
	l := v.Length()
	if l < vecEpsilon {
		return Vec{}, false
	}
	return Vec{v.X / l, v.Y / l}, true
}

// IsZero reports whether the vector is effectively zero.
func (v Vec) IsZero() bool {
	return math.Abs(v.X) < vecEpsilon && math.Abs(v.Y) < vecEpsilon
}

// sin01 maps a sine oscillation into [0, 1].
func sin01(x float64) float64 {
	return (math.Sin(x) + 1) / 2
}

// clamp limits x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
