package polynomial

import (
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

// Exponent represents a polynomial whose coefficients are points on an elliptic curve,
// F(X) = A₀ + X⋅A₁ + … + Xᵗ⋅Aₜ.
type Exponent struct {
	group        curve.Curve
	coefficients []curve.Point
}

// NewExponent wraps the coefficients, lowest degree first.
func NewExponent(group curve.Curve, coefficients ...curve.Point) *Exponent {
	return &Exponent{group: group, coefficients: append([]curve.Point(nil), coefficients...)}
}

// Evaluate returns F(x) = ∑ xⁱ⋅Aᵢ with a single multi-scalar multiplication.
func (p *Exponent) Evaluate(x *uint256.Int) curve.Point {
	if len(p.coefficients) == 0 {
		return p.group.NewPoint()
	}
	q := p.group.Order()
	powers := make([]*uint256.Int, len(p.coefficients))
	current := q.SetUint64(1)
	for i := range powers {
		powers[i] = current
		current = q.Mul(current, x)
	}
	return curve.MultiScalarMul(p.coefficients, powers)
}

// AddConstant returns F(X) + c.
func (p *Exponent) AddConstant(c curve.Point) *Exponent {
	out := NewExponent(p.group, p.coefficients...)
	out.coefficients[0] = out.coefficients[0].Add(c)
	return out
}
