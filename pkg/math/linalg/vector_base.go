package linalg

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

// VectorBase holds the generators gs, hs of equal length and an auxiliary generator h.
type VectorBase struct {
	Gs, Hs *GeneratorVector
	H      curve.Point
}

// NewVectorBase panics if gs and hs have different lengths.
func NewVectorBase(gs, hs *GeneratorVector, h curve.Point) *VectorBase {
	if gs.Len() != hs.Len() {
		panic(fmt.Sprintf("linalg.VectorBase: gs and hs have different lengths %d ≠ %d", gs.Len(), hs.Len()))
	}
	return &VectorBase{Gs: gs, Hs: hs, H: h}
}

// Len returns n = |gs| = |hs|.
func (b *VectorBase) Len() int {
	return b.Gs.Len()
}

// CommitToTwoVectors returns gs^gExp ⋅ hs^hExp ⋅ h^blinding.
//
// Either exponent vector may be zero, as with the bits of a zero amount, but
// the full commitment may not be the identity: it panics in that case.
// Provers commit through this method only.
func (b *VectorBase) CommitToTwoVectors(gExp, hExp []*uint256.Int, blinding *uint256.Int) curve.Point {
	commitGs := b.Gs.MultiExp(gExp)
	commitHs := b.Hs.MultiExp(hExp)
	result := commitGs.Add(commitHs).Add(b.H.Mul(blinding))
	if result.IsIdentity() {
		panic("linalg.VectorBase: commitment resulted in the identity point")
	}
	return result
}
