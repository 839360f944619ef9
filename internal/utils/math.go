package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum of two numbers
func Min[T constraints.Ordered](a, b T) T {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum of two numbers
func Max[T constraints.Ordered](a, b T) T {
	if a >= b {
		return a
	}
	return b
}

// Log2Floor computes the floored value of Log2
func Log2Floor(a int) int {
	if a <= 0 {
		return 0
	}
	return bits.Len(uint(a)) - 1
}

// Log2Ceil computes the ceiled value of Log2
func Log2Ceil(a int) int {
	floor := Log2Floor(a)
	if a != 1<<floor {
		floor++
	}
	return floor
}

// NextPowerOfTwo returns the smallest power of two larger or equal to a.
func NextPowerOfTwo[T constraints.Integer](a T) T {
	return 1 << Log2Ceil(int(a))
}

// IsPowerOfTwo reports whether a is a power of two. Zero is not.
func IsPowerOfTwo[T constraints.Integer](a T) bool {
	return a > 0 && a&(a-1) == 0
}
