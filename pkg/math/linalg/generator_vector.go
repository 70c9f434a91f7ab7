package linalg

import (
	"fmt"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

// GeneratorVector is an immutable vector of points of the same curve.
type GeneratorVector struct {
	points []curve.Point
	group  curve.Curve
}

// NewGeneratorVector wraps points. The slice is copied.
func NewGeneratorVector(group curve.Curve, points []curve.Point) *GeneratorVector {
	return &GeneratorVector{points: append([]curve.Point(nil), points...), group: group}
}

func (v *GeneratorVector) mustMatchLength(n int) {
	if len(v.points) != n {
		panic(fmt.Sprintf("linalg.GeneratorVector: commitment base and vector should have the same length, %d ≠ %d", len(v.points), n))
	}
}

// MultiExp returns ∑ Pᵢ^expᵢ, allowing the identity as a result.
// It panics if the lengths differ.
func (v *GeneratorVector) MultiExp(exponents []*uint256.Int) curve.Point {
	v.mustMatchLength(len(exponents))
	if len(v.points) == 0 {
		return v.group.NewPoint()
	}
	return curve.MultiScalarMul(v.points, exponents)
}

// Hadamard returns (P₀^exp₀, …, Pₙ₋₁^expₙ₋₁).
func (v *GeneratorVector) Hadamard(exponents []*uint256.Int) *GeneratorVector {
	v.mustMatchLength(len(exponents))
	points := make([]curve.Point, len(v.points))
	for i, p := range v.points {
		points[i] = p.Mul(exponents[i])
	}
	return &GeneratorVector{points: points, group: v.group}
}

// Add returns (P₀+Q₀, …, Pₙ₋₁+Qₙ₋₁).
func (v *GeneratorVector) Add(other *GeneratorVector) *GeneratorVector {
	v.mustMatchLength(other.Len())
	points := make([]curve.Point, len(v.points))
	for i, p := range v.points {
		points[i] = p.Add(other.points[i])
	}
	return &GeneratorVector{points: points, group: v.group}
}

// Sum returns ∑ Pᵢ.
func (v *GeneratorVector) Sum() curve.Point {
	acc := v.group.NewPoint()
	for _, p := range v.points {
		acc = acc.Add(p)
	}
	return acc
}

// SubVector returns the points in [start, end).
func (v *GeneratorVector) SubVector(start, end int) *GeneratorVector {
	return &GeneratorVector{points: v.points[start:end:end], group: v.group}
}

// Get returns Pᵢ.
func (v *GeneratorVector) Get(i int) curve.Point {
	return v.points[i]
}

// Len returns the number of points.
func (v *GeneratorVector) Len() int {
	return len(v.points)
}

// Curve returns the curve of the points.
func (v *GeneratorVector) Curve() curve.Curve {
	return v.group
}

// Points returns a copy of the underlying slice.
func (v *GeneratorVector) Points() []curve.Point {
	return append([]curve.Point(nil), v.points...)
}
