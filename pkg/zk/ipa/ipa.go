// Package zkipa implements the inner-product argument of Bulletproofs.
//
// Given a VectorBase (gs, hs, u) and a target P, the prover convinces the
// verifier that it knows a, b such that P = gs^a ⋅ hs^b ⋅ u^⟨a,b⟩,
// sending 2⋅log₂(n) points and two scalars.
package zkipa

import (
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/linalg"
	"github.com/taurusgroup/ct-bulletproofs/pkg/transcript"
)

type Proof struct {
	group curve.Curve

	// L, R are the cross term commitments of every round, in round order.
	L, R []curve.Point
	// A, B are the fully folded witnesses.
	A, B *uint256.Int
}

// Prove runs the argument iteratively, halving the instance in every round.
//
// It panics if n = |a| is not a power of two, or if the lengths of a, b and the base differ.
func Prove(base *linalg.VectorBase, P curve.Point, a, b *linalg.FieldVector) *Proof {
	n := base.Len()
	if !arith.IsPowerOfTwo(n) || a.Len() != n || b.Len() != n {
		panic("zkipa.Prove: vectors must have the same power of two length as the base")
	}
	q := a.Modulus()
	u := base.H
	gs, hs := base.Gs, base.Hs
	rounds := arith.Log2(n)
	proof := &Proof{
		group: gs.Curve(),
		L:     make([]curve.Point, 0, rounds),
		R:     make([]curve.Point, 0, rounds),
	}

	for n > 1 {
		half := n / 2
		aLeft, aRight := a.SubVector(0, half), a.SubVector(half, n)
		bLeft, bRight := b.SubVector(0, half), b.SubVector(half, n)
		gLeft, gRight := gs.SubVector(0, half), gs.SubVector(half, n)
		hLeft, hRight := hs.SubVector(0, half), hs.SubVector(half, n)

		cL := aLeft.InnerProduct(bRight)
		cR := aRight.InnerProduct(bLeft)

		// L = g_right^a_left ⋅ h_left^b_right ⋅ u^cL
		L := linalg.NewVectorBase(gRight, hLeft, u).CommitToTwoVectors(aLeft.Elements(), bRight.Elements(), cL)
		// R = g_left^a_right ⋅ h_right^b_left ⋅ u^cR
		R := linalg.NewVectorBase(gLeft, hRight, u).CommitToTwoVectors(aRight.Elements(), bLeft.Elements(), cR)
		proof.L = append(proof.L, L)
		proof.R = append(proof.R, R)

		x := transcript.Challenge(q, L, P, R)
		xInv := q.Inv(x)

		xs, xInvs := linalg.Fill(x, half, q).Elements(), linalg.Fill(xInv, half, q).Elements()
		gs = gLeft.Hadamard(xInvs).Add(gRight.Hadamard(xs))
		hs = hLeft.Hadamard(xs).Add(hRight.Hadamard(xInvs))
		a = aLeft.Times(x).Add(aRight.Times(xInv))
		b = bLeft.Times(xInv).Add(bRight.Times(x))
		P = foldTarget(q, P, L, R, x, xInv)

		n = half
	}

	proof.A = a.Get(0)
	proof.B = b.Get(0)
	return proof
}

// Verify returns true if the proof is valid for the base and target P.
//
// It never panics on a proof decoded for the curve of the base.
func (p *Proof) Verify(base *linalg.VectorBase, P curve.Point) bool {
	if !p.IsValid(base.Gs.Curve()) {
		return false
	}
	n := base.Len()
	if n == 0 || len(p.L) >= 63 || 1<<len(p.L) != n {
		return false
	}
	q := base.Gs.Curve().Order()

	// replay the challenges, folding P as the prover did
	challenges := make([]*uint256.Int, len(p.L))
	for i := range p.L {
		x := transcript.Challenge(q, p.L[i], P, p.R[i])
		if x.IsZero() {
			return false
		}
		challenges[i] = x
		P = foldTarget(q, P, p.L[i], p.R[i], x, q.Inv(x))
	}

	s := exponents(q, challenges, n)
	g := base.Gs.MultiExp(s.Elements())
	h := base.Hs.MultiExp(s.Reverse().Elements())

	// P =? g^a ⋅ h^b ⋅ u^{a⋅b}
	expected := g.Mul(p.A).Add(h.Mul(p.B)).Add(base.H.Mul(q.Mul(p.A, p.B)))
	return P.Equal(expected)
}

// IsValid checks that the proof is well formed for the given curve.
func (p *Proof) IsValid(group curve.Curve) bool {
	if p == nil || p.A == nil || p.B == nil {
		return false
	}
	if len(p.L) != len(p.R) {
		return false
	}
	q := group.Order()
	if !q.IsReduced(p.A) || !q.IsReduced(p.B) {
		return false
	}
	for i := range p.L {
		if !onCurve(group, p.L[i]) || !onCurve(group, p.R[i]) {
			return false
		}
	}
	return true
}

func onCurve(group curve.Curve, p curve.Point) bool {
	return p != nil && p.Curve().Name() == group.Name()
}

// foldTarget returns P' = L^{x²} ⋅ R^{x⁻²} ⋅ P.
func foldTarget(q *arith.Modulus, P, L, R curve.Point, x, xInv *uint256.Int) curve.Point {
	return L.Mul(q.Square(x)).Add(R.Mul(q.Square(xInv))).Add(P)
}

// exponents returns the vector s such that folding gs with the challenges yields gs^s.
//
// s₀ = (∏ xⱼ)⁻¹, and with the challenges reversed so that bit j of the index
// corresponds to c[j], setting the highest bit j of i multiplies by c[j]².
func exponents(q *arith.Modulus, challenges []*uint256.Int, n int) *linalg.FieldVector {
	rounds := len(challenges)
	reversed := make([]*uint256.Int, rounds)
	product := q.SetUint64(1)
	for i, x := range challenges {
		reversed[rounds-1-i] = x
		product = q.Mul(product, x)
	}

	s := make([]*uint256.Int, n)
	s[0] = q.Inv(product)
	for i := 1; i < n; i++ {
		j := highestBit(i)
		s[i] = q.Mul(s[i-(1<<j)], q.Square(reversed[j]))
	}
	return linalg.NewFieldVector(s, q)
}

func highestBit(i int) int {
	j := 0
	for i > 1 {
		i >>= 1
		j++
	}
	return j
}
