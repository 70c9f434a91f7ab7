package pedersen

import (
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
)

// PolyCommitment commits to the coefficients of t(X) = c₀ + c₁⋅X + … + cₖ⋅Xᵏ.
//
// c₀ is a placeholder with zero blinding that is never sent, its value is
// bound to the proof through the value commitments instead.
type PolyCommitment struct {
	coefficients []*Commitment
}

// NewPolyCommitment commits to c₀ with zero blinding and to every cᵢ, i ≥ 1, with a
// fresh random blinding factor.
func NewPolyCommitment(rand io.Reader, base *Base, c0 *uint256.Int, cs []*uint256.Int) *PolyCommitment {
	coefficients := make([]*Commitment, 0, len(cs)+1)
	coefficients = append(coefficients, base.NewCommitment(c0, new(uint256.Int)))
	for _, c := range cs {
		coefficients = append(coefficients, base.NewCommitment(c, sample.Scalar(rand, base.q)))
	}
	return &PolyCommitment{coefficients: coefficients}
}

// Evaluate returns the opening of ∏ Cᵢ^{xⁱ}, that is (t(x), ∑ rᵢ⋅xⁱ).
func (p *PolyCommitment) Evaluate(x *uint256.Int) *Commitment {
	q := p.coefficients[0].base.q
	power := q.SetUint64(1)
	result := p.coefficients[0].Times(power)
	for _, c := range p.coefficients[1:] {
		power = q.Mul(power, x)
		result = result.Add(c.Times(power))
	}
	return result
}

// NonPlaceholderCommitments returns the points C₁, …, Cₖ, excluding the placeholder c₀.
func (p *PolyCommitment) NonPlaceholderCommitments() []curve.Point {
	out := make([]curve.Point, 0, len(p.coefficients)-1)
	for _, c := range p.coefficients[1:] {
		out = append(out, c.Commitment())
	}
	return out
}
