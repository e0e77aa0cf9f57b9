package vmath

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Speed returns the Euclidean length of v
func Speed(v r2.Vec) float64 {
	return r2.Norm(v)
}

// IsFinite reports whether both components are neither NaN nor infinite
func IsFinite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// ClampMagnitude limits v to maxMag while preserving direction
// Returns v unchanged if its magnitude <= maxMag
func ClampMagnitude(v r2.Vec, maxMag float64) (r2.Vec, bool) {
	mag := r2.Norm(v)
	if mag <= maxMag || mag == 0 {
		return v, false
	}
	return r2.Scale(maxMag/mag, v), true
}

// FloorMagnitude raises a non-zero v to minMag while preserving direction
// A zero vector has no heading and is returned unchanged
func FloorMagnitude(v r2.Vec, minMag float64) (r2.Vec, bool) {
	mag := r2.Norm(v)
	if mag >= minMag || mag == 0 {
		return v, false
	}
	return r2.Scale(minMag/mag, v), true
}

// ReflectAxisX returns velocity reflected off a vertical wall
func ReflectAxisX(v r2.Vec) r2.Vec {
	return r2.Vec{X: -v.X, Y: v.Y}
}

// ReflectAxisY returns velocity reflected off a horizontal wall
func ReflectAxisY(v r2.Vec) r2.Vec {
	return r2.Vec{X: v.X, Y: -v.Y}
}

// Reverse negates both components
func Reverse(v r2.Vec) r2.Vec {
	return r2.Scale(-1, v)
}

// Sign returns -1, 0 or 1
func Sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}
