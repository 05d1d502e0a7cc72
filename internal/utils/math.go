// internal/utils/math.go
package utils

import "math"

// RoundClamp округляет x (половину от нуля) и не даёт результату опуститься ниже min.
func RoundClamp(x float64, min int) int {
	n := int(math.Round(x))
	if n < min {
		return min
	}
	return n
}

// MaxInt returns the larger of a and b.
func MaxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
