package util

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Number is any integer or floating point type
type Number interface {
	constraints.Integer | constraints.Float
}

// Clamp restricts a value to be between min and max
func Clamp[T Number](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// MixVec3 interpolates component-wise between a and b
func MixVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Wrap returns value modulo n, always in [0, n)
func Wrap(value, n int) int {
	if n <= 0 {
		return 0
	}
	value %= n
	if value < 0 {
		value += n
	}
	return value
}

// Cos32 is math.Cos for float32 arguments
func Cos32(x float32) float32 {
	return float32(math.Cos(float64(x)))
}

// Sin32 is math.Sin for float32 arguments
func Sin32(x float32) float32 {
	return float32(math.Sin(float64(x)))
}
