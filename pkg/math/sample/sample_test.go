package sample

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
)

func TestModN(t *testing.T) {
	n := arith.ModulusFromUint256(uint256.NewInt(3 * 11 * 65519))
	for i := 0; i < 64; i++ {
		x := ModN(rand.Reader, n)
		assert.True(t, n.IsReduced(x), "ModN generated a number >= n: %v", x)
	}
}

func TestScalar(t *testing.T) {
	q := arith.ModulusFromHex("0x30644e72e131a029b85045b68181585d2833e84879b9709143e1f593f0000001")
	a, b := Scalar(rand.Reader, q), Scalar(rand.Reader, q)
	assert.True(t, q.IsReduced(a))
	assert.False(t, a.IsZero())
	assert.False(t, a.Eq(b), "two samples should differ")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, assert.AnError }

func TestModN_FailingReader(t *testing.T) {
	n := arith.ModulusFromUint256(uint256.NewInt(1 << 20))
	assert.PanicsWithValue(t, ErrMaxIterations, func() { ModN(failingReader{}, n) })
}

func TestBytes(t *testing.T) {
	a, b := Bytes(rand.Reader, 16), Bytes(rand.Reader, 16)
	assert.Len(t, a, 16)
	assert.False(t, bytes.Equal(a, b))
}
