package arith

import "math/bits"

// IsPowerOfTwo returns true if n = 2ᵏ for some k ≥ 0.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Log2 returns k such that n = 2ᵏ.
// It panics if n is not a power of two.
func Log2(n int) int {
	if !IsPowerOfTwo(n) {
		panic("arith: Log2 of a value that is not a power of two")
	}
	return bits.TrailingZeros(uint(n))
}
