package sample

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
)

const maxIterations = 255

var ErrMaxIterations = fmt.Errorf("sample: failed to generate after %d iterations", maxIterations)

func mustReadBits(rand io.Reader, buf []byte) {
	for i := 0; i < maxIterations; i++ {
		if _, err := io.ReadFull(rand, buf); err == nil {
			return
		}
	}
	panic(ErrMaxIterations)
}

// ModN samples an element of ℤₙ uniformly, by rejection.
func ModN(rand io.Reader, n *arith.Modulus) *uint256.Int {
	bitLen := n.BitLen()
	buf := make([]byte, (bitLen+7)/8)
	// mask clears the excess bits of the leading byte so that at least half the draws are accepted
	mask := byte(0xff >> uint(len(buf)*8-bitLen))
	out := new(uint256.Int)
	for i := 0; i < maxIterations; i++ {
		mustReadBits(rand, buf)
		buf[0] &= mask
		out.SetBytes(buf)
		if n.IsReduced(out) {
			return out
		}
	}
	panic(ErrMaxIterations)
}

// Scalar samples a non-zero element of ℤₙ, suitable for a blinding factor or a witness.
func Scalar(rand io.Reader, n *arith.Modulus) *uint256.Int {
	for i := 0; i < maxIterations; i++ {
		if s := ModN(rand, n); !s.IsZero() {
			return s
		}
	}
	panic(ErrMaxIterations)
}

// Bytes returns size random bytes.
func Bytes(rand io.Reader, size int) []byte {
	buf := make([]byte, size)
	mustReadBits(rand, buf)
	return buf
}
