package polynomial

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/linalg"
)

// VectorPolynomial represents v(X) = v₀ + v₁⋅X + … + vₜ⋅Xᵗ where every vᵢ is a FieldVector.
//
// The range proof builds l(X) and r(X) this way and commits to t(X) = ⟨l(X), r(X)⟩.
type VectorPolynomial struct {
	coefficients []*linalg.FieldVector
}

// NewVectorPolynomial panics unless all coefficients have the same length and modulus.
func NewVectorPolynomial(coefficients ...*linalg.FieldVector) *VectorPolynomial {
	if len(coefficients) == 0 {
		panic("polynomial.VectorPolynomial: no coefficients")
	}
	n, q := coefficients[0].Len(), coefficients[0].Modulus()
	for i, c := range coefficients {
		if c.Len() != n || !c.Modulus().Equal(q) {
			panic(fmt.Sprintf("polynomial.VectorPolynomial: coefficient %d does not match the first", i))
		}
	}
	return &VectorPolynomial{coefficients: append([]*linalg.FieldVector(nil), coefficients...)}
}

// Evaluate returns ∑ vᵢ⋅xⁱ.
func (p *VectorPolynomial) Evaluate(x *uint256.Int) *linalg.FieldVector {
	result := p.coefficients[len(p.coefficients)-1]
	for i := len(p.coefficients) - 2; i >= 0; i-- {
		result = result.Times(x).Add(p.coefficients[i])
	}
	return result
}

// InnerProduct returns the scalar polynomial ⟨p(X), q(X)⟩ = ∑ₑ pₑ(X)⋅qₑ(X),
// where pₑ(X) collects the e-th entry of every coefficient.
func (p *VectorPolynomial) InnerProduct(other *VectorPolynomial) *Polynomial {
	q := p.coefficients[0].Modulus()
	result := NewPolynomial(q)
	for e := 0; e < p.coefficients[0].Len(); e++ {
		result = result.Add(p.entry(e).Mul(other.entry(e)))
	}
	return result
}

func (p *VectorPolynomial) entry(e int) *Polynomial {
	coefficients := make([]*uint256.Int, len(p.coefficients))
	for i, c := range p.coefficients {
		coefficients[i] = c.Get(e)
	}
	return NewPolynomial(p.coefficients[0].Modulus(), coefficients...)
}
