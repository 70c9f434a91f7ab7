// Package generators holds the public parameters of the range proof: a Pedersen
// base (g, h) and a vector base (gs, hs, h), all derived by hashing to the curve
// so that nobody knows a discrete logarithm relation between them.
package generators

import (
	"fmt"
	"io"
	"strconv"

	"github.com/taurusgroup/ct-bulletproofs/internal/hash"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/linalg"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pedersen"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pool"
)

type Error string

const (
	ErrPointNotOnCurve Error = "point is not on the curve"
	ErrInvalidLength   Error = "gs and hs must have the same power of two length"
	ErrUninitialized   Error = "params must be initialized using EmptyParams"
)

func (e Error) Error() string {
	return fmt.Sprintf("generators: %s", string(e))
}

// Params is read-only once constructed and may be shared between goroutines.
type Params struct {
	group      curve.Curve
	Base       *pedersen.Base
	VectorBase *linalg.VectorBase
}

// EmptyParams creates an empty Params with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyParams(group curve.Curve) *Params {
	return &Params{group: group}
}

// Generate derives parameters for vectors of length n:
//
//	gs[i] = H2C("G" ∥ i), hs[i] = H2C("H" ∥ i), g = H2C("G"), h = H2C("H").
//
// The vector base uses h as its auxiliary generator. n must be a power of two.
func Generate(group curve.Curve, n int) *Params {
	return GenerateWithPool(nil, group, n)
}

// GenerateWithPool is like Generate, but hashes to the curve on the workers of pl.
// A nil pool computes everything on the calling goroutine.
func GenerateWithPool(pl *pool.Pool, group curve.Curve, n int) *Params {
	if !arith.IsPowerOfTwo(n) {
		panic(fmt.Sprintf("generators.Generate: n = %d is not a power of two", n))
	}
	// indices [0, n) are gs, [n, 2n) are hs
	points := pool.Parallelize(pl, 2*n, func(i int) curve.Point {
		if i < n {
			return hashLabel(group, "G", i)
		}
		return hashLabel(group, "H", i-n)
	})
	g := group.HashToPoint([]byte("G"))
	h := group.HashToPoint([]byte("H"))
	return newParams(group, g, h, points[:n], points[n:])
}

func hashLabel(group curve.Curve, prefix string, i int) curve.Point {
	return group.HashToPoint([]byte(prefix + strconv.Itoa(i)))
}

func newParams(group curve.Curve, g, h curve.Point, gs, hs []curve.Point) *Params {
	return &Params{
		group: group,
		Base:  pedersen.New(g, h),
		VectorBase: linalg.NewVectorBase(
			linalg.NewGeneratorVector(group, gs),
			linalg.NewGeneratorVector(group, hs),
			h,
		),
	}
}

// Curve returns the curve all generators belong to.
func (p *Params) Curve() curve.Curve {
	return p.group
}

// Len returns n = |gs| = |hs|.
func (p *Params) Len() int {
	return p.VectorBase.Len()
}

// Validate checks that the base is sound and that gs and hs have the same power of two length.
func (p *Params) Validate() error {
	if p.Base == nil || p.VectorBase == nil {
		return ErrUninitialized
	}
	if err := pedersen.ValidateParameters(p.Base.G(), p.Base.H()); err != nil {
		return fmt.Errorf("generators: base: %w", err)
	}
	if p.VectorBase.Gs.Len() != p.VectorBase.Hs.Len() || !arith.IsPowerOfTwo(p.VectorBase.Len()) {
		return ErrInvalidLength
	}
	return nil
}

// Fingerprint returns a digest identifying the parameter set, suitable for
// checking that a prover and a verifier use the same parameters.
func (p *Params) Fingerprint() []byte {
	return hash.New(p).Sum()
}

// WriteTo implements io.WriterTo, writing the name of the curve and every point.
func (p *Params) WriteTo(w io.Writer) (int64, error) {
	nAll := int64(0)
	n, err := w.Write([]byte(p.group.Name()))
	nAll += int64(n)
	if err != nil {
		return nAll, err
	}
	n64, err := p.Base.WriteTo(w)
	nAll += n64
	if err != nil {
		return nAll, err
	}
	for _, v := range []*linalg.GeneratorVector{p.VectorBase.Gs, p.VectorBase.Hs} {
		for _, g := range v.Points() {
			n64, err = g.WriteTo(w)
			nAll += n64
			if err != nil {
				return nAll, err
			}
		}
	}
	return nAll, nil
}

// Domain implements hash.WriterToWithDomain.
func (*Params) Domain() string {
	return "Generator Params"
}
