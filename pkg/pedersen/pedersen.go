package pedersen

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
)

type Error string

const (
	ErrNilFields       Error = "contains nil field"
	ErrGeneratorsEqual Error = "g cannot be equal to h"
	ErrIdentity        Error = "generators must not be the identity"
	ErrCurveMismatch   Error = "g and h must belong to the same curve"
	ErrNoValues        Error = "no values to commit to"
)

func (e Error) Error() string {
	return fmt.Sprintf("pedersen: %s", string(e))
}

// Base holds two generators g, h with unknown relative discrete logarithm.
type Base struct {
	g, h curve.Point
	q    *arith.Modulus
}

// New returns a new Pedersen base.
// Assumes ValidateParameters(g, h) returns nil.
func New(g, h curve.Point) *Base {
	return &Base{g: g, h: h, q: g.Curve().Order()}
}

// ValidateParameters check g and h, and returns an error if any of the following is true:
// - g or h is nil.
// - g or h is the identity.
// - g and h live on different curves.
// - g = h.
func ValidateParameters(g, h curve.Point) error {
	if g == nil || h == nil {
		return ErrNilFields
	}
	if g.IsIdentity() || h.IsIdentity() {
		return ErrIdentity
	}
	if g.Curve().Name() != h.Curve().Name() {
		return ErrCurveMismatch
	}
	if g.Equal(h) {
		return ErrGeneratorsEqual
	}
	return nil
}

// G is the value generator.
func (b *Base) G() curve.Point { return b.g }

// H is the blinding generator.
func (b *Base) H() curve.Point { return b.h }

// Order is the modulus q of values and blinding factors.
func (b *Base) Order() *arith.Modulus { return b.q }

// Curve is the curve of g and h.
func (b *Base) Curve() curve.Curve { return b.g.Curve() }

// Commit computes gᵛ⋅hʳ.
func (b *Base) Commit(v, r *uint256.Int) curve.Point {
	return b.g.Mul(v).Add(b.h.Mul(r))
}

// NewCommitment returns the opening (v, r) together with its base.
func (b *Base) NewCommitment(v, r *uint256.Int) *Commitment {
	return &Commitment{base: b, value: b.q.Reduce(v), blinding: b.q.Reduce(r)}
}

// Verify returns true if gᵛ⋅hʳ = C.
func (b *Base) Verify(v, r *uint256.Int, C curve.Point) bool {
	if v == nil || r == nil || C == nil {
		return false
	}
	return b.Commit(v, r).Equal(C)
}

// WriteTo implements io.WriterTo and should be used within the hash.Hash function.
func (b *Base) WriteTo(w io.Writer) (int64, error) {
	if b == nil {
		return 0, io.ErrUnexpectedEOF
	}
	nAll := int64(0)
	for _, p := range []curve.Point{b.g, b.h} {
		n, err := p.WriteTo(w)
		nAll += n
		if err != nil {
			return nAll, err
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain, and separates this type within hash.Hash.
func (*Base) Domain() string {
	return "Pedersen Base"
}

// Commitment is the opening (value, blinding) of gᵛᵃˡᵘᵉ⋅hᵇˡⁱⁿᵈⁱⁿᵍ.
//
// Openings are additively homomorphic, arithmetic is done in ℤq.
type Commitment struct {
	base            *Base
	value, blinding *uint256.Int
}

// Value returns a copy of the committed value.
func (c *Commitment) Value() *uint256.Int { return new(uint256.Int).Set(c.value) }

// Blinding returns a copy of the blinding factor.
func (c *Commitment) Blinding() *uint256.Int { return new(uint256.Int).Set(c.blinding) }

// Base returns the base the commitment is computed in.
func (c *Commitment) Base() *Base { return c.base }

// Commitment returns the point gᵛᵃˡᵘᵉ⋅hᵇˡⁱⁿᵈⁱⁿᵍ.
func (c *Commitment) Commitment() curve.Point {
	return c.base.Commit(c.value, c.blinding)
}

// Add returns the opening of C⋅C'.
func (c *Commitment) Add(other *Commitment) *Commitment {
	q := c.base.q
	return &Commitment{base: c.base, value: q.Add(c.value, other.value), blinding: q.Add(c.blinding, other.blinding)}
}

// Times returns the opening of Cᵏ, scaling value and blinding alike.
func (c *Commitment) Times(k *uint256.Int) *Commitment {
	q := c.base.q
	return &Commitment{base: c.base, value: q.Mul(c.value, k), blinding: q.Mul(c.blinding, k)}
}

// AddConstant returns the opening of C⋅gᵏ.
func (c *Commitment) AddConstant(k *uint256.Int) *Commitment {
	return &Commitment{base: c.base, value: c.base.q.Add(c.value, k), blinding: new(uint256.Int).Set(c.blinding)}
}

// GenerateMultiple commits to every value with fresh random blinding factors,
// except for the last one whose blinding factor is chosen so that the blinding
// factors sum to totalBf modulo q.
func GenerateMultiple(rand io.Reader, base *Base, values []uint64, totalBf *uint256.Int) ([]*Commitment, []curve.Point, error) {
	if len(values) == 0 {
		return nil, nil, ErrNoValues
	}
	q := base.q
	witnesses := make([]*Commitment, len(values))
	commitments := make([]curve.Point, len(values))
	sum := new(uint256.Int)
	for i, v := range values {
		var r *uint256.Int
		if i == len(values)-1 {
			r = q.Sub(totalBf, sum)
		} else {
			r = sample.Scalar(rand, q)
			sum = q.Add(sum, r)
		}
		witnesses[i] = base.NewCommitment(q.SetUint64(v), r)
		commitments[i] = witnesses[i].Commitment()
	}

	check := new(uint256.Int)
	for _, w := range witnesses {
		check = q.Add(check, w.blinding)
	}
	if !check.Eq(q.Reduce(totalBf)) {
		panic("pedersen.GenerateMultiple: blinding factors do not sum to the total")
	}
	return witnesses, commitments, nil
}
