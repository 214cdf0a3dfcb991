package utils

import (
	"math"
)

// WrapTwoPi maps the output of math.Atan2 into [0, 2π) by adding 2π to negative angles.
func WrapTwoPi(angle float64) float64 {
	if angle < 0 {
		angle += 2 * math.Pi
	}
	return angle
}

// Factorial returns n! as a float64. Values of n <= 1 return 1.
func Factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

// Float64AlmostEqual compares two float64s and returns if the difference between them is less than epsilon.
func Float64AlmostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) <= epsilon
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SquareInt squares an int.
func SquareInt(n int) int {
	return n * n
}

// AbsInt returns the absolute value of n.
func AbsInt(n int) int {
	if n < 0 {
		return -1 * n
	}
	return n
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a < b {
		return b
	}
	return a
}
