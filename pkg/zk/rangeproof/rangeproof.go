// Package zkrange implements aggregated Bulletproofs range proofs.
//
// A proof shows that each of m Pedersen commitments Vⱼ = gᵛʲ⋅hʳʲ opens to a value
// in [0, 2ᵇⁱᵗˢ), where bits = n/m for parameters of length n. All challenges are
// computed with the keccak transcript, so that the on-chain verifier can replay them.
package zkrange

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/linalg"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/polynomial"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pedersen"
	"github.com/taurusgroup/ct-bulletproofs/pkg/transcript"
	zkipa "github.com/taurusgroup/ct-bulletproofs/pkg/zk/ipa"
)

type Error string

const (
	ErrWitnessCount       Error = "the number of values must divide the length of the parameters"
	ErrValueOutOfRange    Error = "value does not fit in the bit width of the proof"
	ErrMalformedProof     Error = "malformed proof"
	ErrPolynomialIdentity Error = "polynomial identity check failed"
	ErrInnerProduct       Error = "inner-product argument failed"
)

func (e Error) Error() string {
	return fmt.Sprintf("zkrange: %s", string(e))
}

type Proof struct {
	group curve.Curve

	// A commits to the bits aL and aR = aL - 1, S to the blinding vectors sL, sR.
	A, S curve.Point
	// T holds T₁, T₂, the commitments to the coefficients of t(X) of degree 1 and 2.
	T []curve.Point
	// Tx = t(x) and TauX is its blinding factor.
	Tx, TauX *uint256.Int
	// Mu is the blinding factor of A⋅Sˣ.
	Mu  *uint256.Int
	IPA *zkipa.Proof
	// Commitments are the value commitments Vⱼ.
	Commitments []curve.Point
}

// BitsPerValue returns n/m, or 0 if m does not divide n.
func BitsPerValue(params *generators.Params, m int) int {
	n := params.Len()
	if m <= 0 || n%m != 0 {
		return 0
	}
	return n / m
}

// challenges are the public coins shared by prover and verifier.
type challenges struct {
	y, z, x *uint256.Int
	// ys = (1, y, …, yⁿ⁻¹)
	ys *linalg.FieldVector
	// zs = (z², …, zᵐ⁺¹)
	zs *linalg.FieldVector
	// twoTimesZs is the concatenation of (2⁰, …, 2ᵇⁱᵗˢ⁻¹)⋅zs[j] over all j.
	twoTimesZs *linalg.FieldVector
}

func computeYZ(q *arith.Modulus, n, m int, commitments []curve.Point, A, S curve.Point) *challenges {
	points := make([]curve.Point, 0, len(commitments)+2)
	points = append(points, commitments...)
	points = append(points, A, S)
	y := transcript.Challenge(q, points...)
	z := transcript.ChallengeScalars(q, y)

	bits := n / m
	zs := linalg.Pow(z, m+2, q).SubVector(2, m+2)
	twos := linalg.Pow(q.SetUint64(2), bits, q)
	twoTimesZs := twos.Times(zs.Get(0))
	for j := 1; j < m; j++ {
		twoTimesZs = twoTimesZs.Concat(twos.Times(zs.Get(j)))
	}
	return &challenges{
		y:          y,
		z:          z,
		ys:         linalg.Pow(y, n, q),
		zs:         zs,
		twoTimesZs: twoTimesZs,
	}
}

// ipaInstance returns the base (gs, hs∘ys⁻¹, u) and target P of the inner-product argument,
//
//	P = A⋅Sˣ⋅(∏ gs)⁻ᶻ⋅hs'^(ys⋅z + twoTimesZs)⋅uᵗ⋅h⁻ᵘ, with u = g^H(τx, μ, t).
func ipaInstance(params *generators.Params, c *challenges, A, S curve.Point, tauX, mu, t *uint256.Int) (*linalg.VectorBase, curve.Point) {
	q := params.Curve().Order()
	vb := params.VectorBase
	n := vb.Len()

	u := params.Base.G().Mul(transcript.ChallengeScalars(q, tauX, mu, t))
	hPrime := vb.Hs.Hadamard(linalg.Pow(q.Inv(c.y), n, q).Elements())
	hExp := c.ys.Times(c.z).Add(c.twoTimesZs)

	P := A.Add(S.Mul(c.x)).
		Add(vb.Gs.Sum().Mul(q.Neg(c.z))).
		Add(hPrime.MultiExp(hExp.Elements())).
		Add(u.Mul(t)).
		Sub(vb.H.Mul(mu))
	return linalg.NewVectorBase(vb.Gs, hPrime, u), P
}

// Prove shows that every witness opens to a value in [0, 2ᵇⁱᵗˢ) with bits = n/m.
//
// The value commitments are recomputed in the base of params.
func Prove(rand io.Reader, params *generators.Params, witnesses []*pedersen.Commitment) (*Proof, error) {
	n, m := params.Len(), len(witnesses)
	bits := BitsPerValue(params, m)
	if bits == 0 {
		return nil, ErrWitnessCount
	}
	group := params.Curve()
	q := group.Order()

	commitments := make([]curve.Point, m)
	aLBits := make([]*uint256.Int, 0, n)
	for j, w := range witnesses {
		v := w.Value()
		if v.BitLen() > bits {
			return nil, fmt.Errorf("%w: witness %d has %d bits, at most %d allowed", ErrValueOutOfRange, j, v.BitLen(), bits)
		}
		commitments[j] = params.Base.Commit(v, w.Blinding())
		for i := 0; i < bits; i++ {
			bit := new(uint256.Int).Rsh(v, uint(i))
			aLBits = append(aLBits, q.SetUint64(bit.Uint64()&1))
		}
	}

	aL := linalg.NewFieldVector(aLBits, q)
	aR := aL.Sub(linalg.Fill(q.SetUint64(1), n, q))

	alpha := sample.Scalar(rand, q)
	rho := sample.Scalar(rand, q)
	sL := linalg.Random(rand, n, q)
	sR := linalg.Random(rand, n, q)

	vb := params.VectorBase
	A := vb.CommitToTwoVectors(aL.Elements(), aR.Elements(), alpha)
	S := vb.CommitToTwoVectors(sL.Elements(), sR.Elements(), rho)

	c := computeYZ(q, n, m, commitments, A, S)

	// l(X) = (aL - z) + sL⋅X
	l := polynomial.NewVectorPolynomial(aL.Sub(linalg.Fill(c.z, n, q)), sL)
	// r(X) = ys∘(aR + z) + twoTimesZs + (sR∘ys)⋅X
	r := polynomial.NewVectorPolynomial(c.ys.Hadamard(aR.AddScalar(c.z)).Add(c.twoTimesZs), sR.Hadamard(c.ys))
	tPoly := l.InnerProduct(r)

	polyCommitment := pedersen.NewPolyCommitment(rand, params.Base, tPoly.Constant(), tPoly.Coefficients()[1:])
	T := polyCommitment.NonPlaceholderCommitments()
	c.x = transcript.Challenge(q, T...)

	t := tPoly.Evaluate(c.x)
	tauX := polyCommitment.Evaluate(c.x).Blinding()
	for j, w := range witnesses {
		tauX = q.MulAdd(c.zs.Get(j), w.Blinding(), tauX)
	}
	mu := q.MulAdd(rho, c.x, alpha)

	ipaBase, P := ipaInstance(params, c, A, S, tauX, mu, t)
	ipaProof := zkipa.Prove(ipaBase, P, l.Evaluate(c.x), r.Evaluate(c.x))

	return &Proof{
		group:       group,
		A:           A,
		S:           S,
		T:           T,
		TauX:        tauX,
		Mu:          mu,
		Tx:          t,
		IPA:         ipaProof,
		Commitments: commitments,
	}, nil
}

// Verify returns nil if the proof is valid for params.
//
// A rejected proof yields ErrMalformedProof, ErrPolynomialIdentity or ErrInnerProduct.
func (p *Proof) Verify(params *generators.Params) error {
	group := params.Curve()
	if !p.IsValid(group) {
		return ErrMalformedProof
	}
	n, m := params.Len(), len(p.Commitments)
	bits := BitsPerValue(params, m)
	if bits == 0 {
		return fmt.Errorf("%w: %d commitments for %d generators", ErrMalformedProof, m, n)
	}
	q := group.Order()
	g, h := params.Base.G(), params.Base.H()

	c := computeYZ(q, n, m, p.Commitments, p.A, p.S)
	c.x = transcript.Challenge(q, p.T...)

	// k = ⟨1, ys⟩⋅(z - z²) - ⟨zs, 1⟩⋅z⋅(2ᵇⁱᵗˢ - 1)
	twoBitsMinusOne := q.Sub(q.ExpUint64(q.SetUint64(2), uint64(bits)), q.SetUint64(1))
	k := q.Sub(
		q.Mul(c.ys.Sum(), q.Sub(c.z, c.zs.Get(0))),
		q.Mul(q.Mul(c.zs.Sum(), c.z), twoBitsMinusOne),
	)

	// gᵗ⋅hᵗᵃᵘ =? (∏ Vⱼ^zsⱼ ⋅ gᵏ) ⋅ T₁ˣ ⋅ T₂ˣ²
	Vz := linalg.NewGeneratorVector(group, p.Commitments).MultiExp(c.zs.Elements())
	rhs := polynomial.NewExponent(group, Vz, p.T[0], p.T[1]).AddConstant(g.Mul(k)).Evaluate(c.x)
	lhs := g.Mul(p.Tx).Add(h.Mul(p.TauX))
	if !lhs.Equal(rhs) {
		return ErrPolynomialIdentity
	}

	ipaBase, P := ipaInstance(params, c, p.A, p.S, p.TauX, p.Mu, p.Tx)
	if !p.IPA.Verify(ipaBase, P) {
		return ErrInnerProduct
	}
	return nil
}

// IsValid checks that the proof is well formed for the given curve.
func (p *Proof) IsValid(group curve.Curve) bool {
	if p == nil || p.IPA == nil || len(p.T) != 2 || len(p.Commitments) == 0 {
		return false
	}
	q := group.Order()
	for _, s := range []*uint256.Int{p.TauX, p.Mu, p.Tx} {
		if s == nil || !q.IsReduced(s) {
			return false
		}
	}
	points := append([]curve.Point{p.A, p.S}, p.T...)
	points = append(points, p.Commitments...)
	for _, pt := range points {
		if pt == nil || pt.Curve().Name() != group.Name() {
			return false
		}
	}
	return p.IPA.IsValid(group)
}
