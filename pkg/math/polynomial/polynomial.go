package polynomial

import (
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
)

// Polynomial represents f(X) = a₀ + a₁⋅X + … + aₜ⋅Xᵗ with coefficients in ℤq.
type Polynomial struct {
	coefficients []*uint256.Int
	q            *arith.Modulus
}

// NewPolynomial returns the polynomial with the given coefficients, lowest degree first.
// An empty list is the zero polynomial.
func NewPolynomial(q *arith.Modulus, coefficients ...*uint256.Int) *Polynomial {
	if len(coefficients) == 0 {
		coefficients = []*uint256.Int{new(uint256.Int)}
	}
	reduced := make([]*uint256.Int, len(coefficients))
	for i, c := range coefficients {
		reduced[i] = q.Reduce(c)
	}
	return &Polynomial{coefficients: reduced, q: q}
}

// Evaluate evaluates the polynomial at x.
// We use Horner's method: https://en.wikipedia.org/wiki/Horner%27s_method
func (p *Polynomial) Evaluate(x *uint256.Int) *uint256.Int {
	result := new(uint256.Int)
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		// bₙ₋₁ = bₙ * x + aₙ₋₁
		result = p.q.MulAdd(result, x, p.coefficients[i])
	}
	return result
}

// Coefficient returns aᵢ, or 0 if i exceeds the degree.
func (p *Polynomial) Coefficient(i int) *uint256.Int {
	if i < 0 || i >= len(p.coefficients) {
		return new(uint256.Int)
	}
	return new(uint256.Int).Set(p.coefficients[i])
}

// Coefficients returns a copy of (a₀, …, aₜ).
func (p *Polynomial) Coefficients() []*uint256.Int {
	out := make([]*uint256.Int, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = new(uint256.Int).Set(c)
	}
	return out
}

// Constant returns a₀.
func (p *Polynomial) Constant() *uint256.Int {
	return p.Coefficient(0)
}

// Add returns f + g.
func (p *Polynomial) Add(other *Polynomial) *Polynomial {
	if !p.q.Equal(other.q) {
		panic("polynomial.Polynomial: modulus mismatch")
	}
	n := len(p.coefficients)
	if len(other.coefficients) > n {
		n = len(other.coefficients)
	}
	out := make([]*uint256.Int, n)
	for i := range out {
		out[i] = p.q.Add(p.Coefficient(i), other.Coefficient(i))
	}
	return &Polynomial{coefficients: out, q: p.q}
}

// Mul returns f ⋅ g.
func (p *Polynomial) Mul(other *Polynomial) *Polynomial {
	if !p.q.Equal(other.q) {
		panic("polynomial.Polynomial: modulus mismatch")
	}
	out := make([]*uint256.Int, len(p.coefficients)+len(other.coefficients)-1)
	for i := range out {
		out[i] = new(uint256.Int)
	}
	for i, a := range p.coefficients {
		for j, b := range other.coefficients {
			out[i+j] = p.q.MulAdd(a, b, out[i+j])
		}
	}
	return &Polynomial{coefficients: out, q: p.q}
}
