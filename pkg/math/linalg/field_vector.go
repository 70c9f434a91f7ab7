package linalg

import (
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
)

// FieldVector is an immutable vector of scalars in ℤq.
//
// Operations between vectors of different lengths or moduli are programming
// errors and panic.
type FieldVector struct {
	elements []*uint256.Int
	q        *arith.Modulus
}

// NewFieldVector reduces every element mod q and returns the resulting vector.
func NewFieldVector(elements []*uint256.Int, q *arith.Modulus) *FieldVector {
	reduced := make([]*uint256.Int, len(elements))
	for i, e := range elements {
		reduced[i] = q.Reduce(e)
	}
	return &FieldVector{elements: reduced, q: q}
}

// Pow returns (1, k, k², …, kⁿ⁻¹).
func Pow(k *uint256.Int, n int, q *arith.Modulus) *FieldVector {
	elements := make([]*uint256.Int, n)
	current := q.SetUint64(1)
	for i := 0; i < n; i++ {
		elements[i] = current
		current = q.Mul(current, k)
	}
	return &FieldVector{elements: elements, q: q}
}

// Fill returns (k, k, …, k) of length n.
func Fill(k *uint256.Int, n int, q *arith.Modulus) *FieldVector {
	elements := make([]*uint256.Int, n)
	kr := q.Reduce(k)
	for i := range elements {
		elements[i] = kr
	}
	return &FieldVector{elements: elements, q: q}
}

// Random returns a vector of n uniformly random non-zero scalars.
func Random(rand io.Reader, n int, q *arith.Modulus) *FieldVector {
	elements := make([]*uint256.Int, n)
	for i := range elements {
		elements[i] = sample.Scalar(rand, q)
	}
	return &FieldVector{elements: elements, q: q}
}

func (v *FieldVector) mustMatch(other *FieldVector) {
	if len(v.elements) != len(other.elements) {
		panic(fmt.Sprintf("linalg.FieldVector: length mismatch %d ≠ %d", len(v.elements), len(other.elements)))
	}
	if !v.q.Equal(other.q) {
		panic("linalg.FieldVector: modulus mismatch")
	}
}

func (v *FieldVector) mapWith(other *FieldVector, f func(a, b *uint256.Int) *uint256.Int) *FieldVector {
	v.mustMatch(other)
	elements := make([]*uint256.Int, len(v.elements))
	for i := range elements {
		elements[i] = f(v.elements[i], other.elements[i])
	}
	return &FieldVector{elements: elements, q: v.q}
}

func (v *FieldVector) mapEach(f func(a *uint256.Int) *uint256.Int) *FieldVector {
	elements := make([]*uint256.Int, len(v.elements))
	for i := range elements {
		elements[i] = f(v.elements[i])
	}
	return &FieldVector{elements: elements, q: v.q}
}

// Add returns v + other.
func (v *FieldVector) Add(other *FieldVector) *FieldVector {
	return v.mapWith(other, v.q.Add)
}

// Sub returns v - other.
func (v *FieldVector) Sub(other *FieldVector) *FieldVector {
	return v.mapWith(other, v.q.Sub)
}

// Hadamard returns the element-wise product v ∘ other.
func (v *FieldVector) Hadamard(other *FieldVector) *FieldVector {
	return v.mapWith(other, v.q.Mul)
}

// Times returns k⋅v.
func (v *FieldVector) Times(k *uint256.Int) *FieldVector {
	return v.mapEach(func(a *uint256.Int) *uint256.Int { return v.q.Mul(a, k) })
}

// AddScalar returns v + (k, …, k).
func (v *FieldVector) AddScalar(k *uint256.Int) *FieldVector {
	return v.mapEach(func(a *uint256.Int) *uint256.Int { return v.q.Add(a, k) })
}

// InnerProduct returns ⟨v, other⟩ = ∑ vᵢ⋅otherᵢ (mod q).
func (v *FieldVector) InnerProduct(other *FieldVector) *uint256.Int {
	v.mustMatch(other)
	acc := new(uint256.Int)
	for i := range v.elements {
		acc = v.q.MulAdd(v.elements[i], other.elements[i], acc)
	}
	return acc
}

// Sum returns ∑ vᵢ (mod q).
func (v *FieldVector) Sum() *uint256.Int {
	acc := new(uint256.Int)
	for _, e := range v.elements {
		acc = v.q.Add(acc, e)
	}
	return acc
}

// SubVector returns the elements in [start, end).
func (v *FieldVector) SubVector(start, end int) *FieldVector {
	return &FieldVector{elements: v.elements[start:end:end], q: v.q}
}

// Concat returns v ∥ other.
func (v *FieldVector) Concat(other *FieldVector) *FieldVector {
	if !v.q.Equal(other.q) {
		panic("linalg.FieldVector: modulus mismatch")
	}
	elements := make([]*uint256.Int, 0, len(v.elements)+len(other.elements))
	elements = append(elements, v.elements...)
	elements = append(elements, other.elements...)
	return &FieldVector{elements: elements, q: v.q}
}

// Reverse returns (vₙ₋₁, …, v₀).
func (v *FieldVector) Reverse() *FieldVector {
	n := len(v.elements)
	elements := make([]*uint256.Int, n)
	for i, e := range v.elements {
		elements[n-1-i] = e
	}
	return &FieldVector{elements: elements, q: v.q}
}

// Get returns a copy of vᵢ.
func (v *FieldVector) Get(i int) *uint256.Int {
	return new(uint256.Int).Set(v.elements[i])
}

// Len returns the number of elements.
func (v *FieldVector) Len() int {
	return len(v.elements)
}

// Modulus returns q.
func (v *FieldVector) Modulus() *arith.Modulus {
	return v.q
}

// Elements returns a copy of the underlying scalars.
func (v *FieldVector) Elements() []*uint256.Int {
	out := make([]*uint256.Int, len(v.elements))
	for i, e := range v.elements {
		out[i] = new(uint256.Int).Set(e)
	}
	return out
}
