package hash

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
)

func TestHash_WriteAny(t *testing.T) {
	var err error

	testFunc := func(vs ...interface{}) error {
		h := New()
		for _, v := range vs {
			err = h.WriteAny(v)
			if err != nil {
				return err
			}
		}
		return nil
	}

	group := curve.BN254{}
	assert.NoError(t, testFunc(uint256.NewInt(35)))
	assert.NoError(t, testFunc(group.NewBasePoint().Mul(sample.Scalar(rand.Reader, group.Order()))))
	assert.NoError(t, testFunc([]byte{1, 4, 6}))
	assert.NoError(t, testFunc("bn256", 16, uint64(64)))

	var i *uint256.Int
	assert.Error(t, testFunc(i))
	assert.Error(t, testFunc(-1))

	assert.NoError(t, testFunc(uint256.NewInt(35), []byte{1, 4, 6}))
	assert.Panics(t, func() { _ = testFunc(3.5) })
}

func TestHash_DomainSeparation(t *testing.T) {
	sum := func(vs ...interface{}) []byte {
		h := New()
		require.NoError(t, h.WriteAny(vs...))
		return h.Sum()
	}

	assert.Equal(t, sum([]byte("ab")), sum([]byte("ab")))
	assert.NotEqual(t, sum([]byte("ab")), sum("ab"))
	assert.NotEqual(t, sum([]byte("ab")), sum([]byte("a"), []byte("b")))
	assert.Len(t, sum(), DigestLengthBytes)
}

func TestHash_Clone(t *testing.T) {
	h := New(Labeled{Label: "test", Data: []byte{1}})
	c := h.Clone()
	require.NoError(t, c.WriteAny([]byte{2}))
	assert.False(t, bytes.Equal(h.Sum(), c.Sum()))
	require.NoError(t, h.WriteAny([]byte{2}))
	assert.True(t, bytes.Equal(h.Sum(), c.Sum()))
}

func TestHash_Framing(t *testing.T) {
	a := New(Labeled{Label: "ab", Data: []byte("c")}).Sum()
	b := New(Labeled{Label: "a", Data: []byte("bc")}).Sum()
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, New(Labeled{Label: "ab", Data: []byte("c")}).Sum())
}
