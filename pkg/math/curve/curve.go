package curve

import (
	"encoding"
	"errors"
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
)

var (
	ErrNotOnCurve      = errors.New("curve: point is not on the curve")
	ErrCoordinateRange = errors.New("curve: coordinate is not reduced modulo the field prime")
	ErrUnknownCurve    = errors.New("curve: unknown curve")
)

// Curve is one of the supported short Weierstrass curves y² = x³ + b.
//
// The set is closed: BN254 carries commitments and proofs, Secp256k1 is only
// used for key agreement.
type Curve interface {
	// Name is the identifier under which parameters for this curve are persisted.
	Name() string
	// Order is the order q of the group of points.
	Order() *arith.Modulus
	// FieldPrime is the prime p of the base field.
	FieldPrime() *arith.Modulus
	// NewPoint returns the identity.
	NewPoint() Point
	// NewBasePoint returns the standard generator of the curve.
	NewBasePoint() Point
	// PointFromCoordinates validates (x, y) and returns the corresponding point.
	PointFromCoordinates(x, y *uint256.Int) (Point, error)
	// HashToPoint deterministically maps data to a point with unknown discrete logarithm.
	HashToPoint(data []byte) Point
}

// Point is an immutable element of a Curve's group.
// Every operation allocates its result.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	io.WriterTo
	Curve() Curve
	Add(Point) Point
	Sub(Point) Point
	Negate() Point
	// Mul returns k⋅P, k is taken modulo the group order.
	Mul(k *uint256.Int) Point
	Equal(Point) bool
	IsIdentity() bool
	// Coordinates returns the affine coordinates, (0,0) for the identity.
	Coordinates() (x, y *uint256.Int)
	// Compress returns the 33 byte SEC1 encoding 0x02|0x03 ∥ x.
	Compress() []byte
	// CompressAlt returns x with its most significant bit set when y is odd.
	// This is the identifier under which the token contract stores commitments.
	CompressAlt() *uint256.Int
	Domain() string
}

// FromName returns the curve persisted under name.
func FromName(name string) (Curve, error) {
	switch name {
	case params.CurveBN256, "bn254", "alt_bn128":
		return BN254{}, nil
	case params.CurveSecp256k1:
		return Secp256k1{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
	}
}

// multiScalarMultiplier is implemented by curves with a dedicated multi-scalar multiplication.
type multiScalarMultiplier interface {
	multiScalarMul(points []Point, scalars []*uint256.Int) Point
}

// MultiScalarMul returns ∑ᵢ scalars[i]⋅points[i].
//
// It panics if the lengths differ or if the input is empty.
func MultiScalarMul(points []Point, scalars []*uint256.Int) Point {
	if len(points) != len(scalars) {
		panic(fmt.Sprintf("curve.MultiScalarMul: %d points but %d scalars", len(points), len(scalars)))
	}
	if len(points) == 0 {
		panic("curve.MultiScalarMul: empty input")
	}
	group := points[0].Curve()
	if msm, ok := group.(multiScalarMultiplier); ok {
		return msm.multiScalarMul(points, scalars)
	}
	result := group.NewPoint()
	for i := range points {
		result = result.Add(points[i].Mul(scalars[i]))
	}
	return result
}

var ecSignMask = new(uint256.Int).Lsh(uint256.NewInt(1), 255)

func compressAlt(x, y *uint256.Int) *uint256.Int {
	out := new(uint256.Int).Set(x)
	if y.Uint64()&1 == 1 {
		out.Or(out, ecSignMask)
	}
	return out
}

func compress(x, y *uint256.Int) []byte {
	out := make([]byte, params.BytesCompressedPoint)
	if x.IsZero() && y.IsZero() {
		return out
	}
	out[0] = 0x02 | byte(y.Uint64()&1)
	putWord(out[1:], x)
	return out
}

// putWord writes x as a 32 byte big-endian word at the start of dst.
func putWord(dst []byte, x *uint256.Int) {
	b := x.Bytes32()
	copy(dst, b[:])
}

// writeAffine writes x ∥ y as two 32 byte big-endian words.
func writeAffine(w io.Writer, x, y *uint256.Int) (int64, error) {
	n, err := w.Write(marshalAffine(x, y))
	return int64(n), err
}

func marshalAffine(x, y *uint256.Int) []byte {
	buf := make([]byte, params.BytesPoint)
	putWord(buf[:params.BytesCoordinate], x)
	putWord(buf[params.BytesCoordinate:], y)
	return buf
}

// unmarshalAffine decodes x ∥ y. The all zero encoding is the identity.
func unmarshalAffine(group Curve, data []byte) (Point, error) {
	if len(data) != params.BytesPoint {
		return nil, fmt.Errorf("curve.%s: invalid length for point: %d", group.Name(), len(data))
	}
	x := new(uint256.Int).SetBytes(data[:params.BytesCoordinate])
	y := new(uint256.Int).SetBytes(data[params.BytesCoordinate:])
	if x.IsZero() && y.IsZero() {
		return group.NewPoint(), nil
	}
	return group.PointFromCoordinates(x, y)
}

func checkCoordinates(group Curve, x, y *uint256.Int) error {
	p := group.FieldPrime()
	if !p.IsReduced(x) || !p.IsReduced(y) {
		return ErrCoordinateRange
	}
	return nil
}
