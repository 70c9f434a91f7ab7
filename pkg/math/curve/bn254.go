package curve

import (
	"fmt"
	"io"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
)

var (
	bn254Order = arith.ModulusFromUint256(uint256.MustFromBig(fr.Modulus()))
	bn254Prime = arith.ModulusFromUint256(uint256.MustFromBig(fp.Modulus()))
	bn254B     fp.Element
	fpOne      fp.Element
)

func init() {
	_, bn254B = bn254.CurveCoefficients()
	fpOne.SetOne()
}

// BN254 is the pairing friendly curve y² = x³ + 3 (alt_bn128), the one
// supported by the EVM precompiles. Its points carry every commitment and proof.
type BN254 struct{}

func (BN254) Name() string { return params.CurveBN256 }

func (BN254) Order() *arith.Modulus { return bn254Order }

func (BN254) FieldPrime() *arith.Modulus { return bn254Prime }

func (BN254) NewPoint() Point {
	return new(bn254Point)
}

func (BN254) NewBasePoint() Point {
	_, _, g1, _ := bn254.Generators()
	return &bn254Point{value: g1}
}

func (c BN254) PointFromCoordinates(x, y *uint256.Int) (Point, error) {
	if err := checkCoordinates(c, x, y); err != nil {
		return nil, err
	}
	var out bn254Point
	xb, yb := x.Bytes32(), y.Bytes32()
	out.value.X.SetBytes(xb[:])
	out.value.Y.SetBytes(yb[:])
	if out.value.IsInfinity() || !out.value.IsOnCurve() {
		return nil, ErrNotOnCurve
	}
	return &out, nil
}

// HashToPoint implements try-and-increment: starting from x = keccak256(data) mod p,
// x is incremented until x³ + 3 is a square, and y is its principal square root.
func (BN254) HashToPoint(data []byte) Point {
	seed := hashSeed(bn254Prime, data)
	var x, rhs, y fp.Element
	seedBytes := seed.Bytes32()
	x.SetBytes(seedBytes[:])
	for {
		// rhs = x³ + b
		rhs.Square(&x).Mul(&rhs, &x).Add(&rhs, &bn254B)
		if y.Sqrt(&rhs) != nil {
			break
		}
		x.Add(&x, &fpOne)
	}
	return &bn254Point{value: bn254.G1Affine{X: x, Y: y}}
}

func (BN254) multiScalarMul(points []Point, scalars []*uint256.Int) Point {
	affine := make([]bn254.G1Affine, len(points))
	exponents := make([]fr.Element, len(scalars))
	for i := range points {
		affine[i] = bn254CastPoint(points[i]).value
		b := scalars[i].Bytes32()
		exponents[i].SetBytes(b[:])
	}
	var out bn254Point
	if _, err := out.value.MultiExp(affine, exponents, ecc.MultiExpConfig{NbTasks: 1}); err != nil {
		panic(fmt.Sprintf("curve.BN254: multi-scalar multiplication: %v", err))
	}
	return &out
}

type bn254Point struct {
	value bn254.G1Affine
}

func bn254CastPoint(generic Point) *bn254Point {
	out, ok := generic.(*bn254Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to bn254Point: %v", generic))
	}
	return out
}

func (*bn254Point) Curve() Curve {
	return BN254{}
}

func (p *bn254Point) Add(that Point) Point {
	other := bn254CastPoint(that)
	out := new(bn254Point)
	out.value.Add(&p.value, &other.value)
	return out
}

func (p *bn254Point) Sub(that Point) Point {
	other := bn254CastPoint(that)
	out := new(bn254Point)
	out.value.Sub(&p.value, &other.value)
	return out
}

func (p *bn254Point) Negate() Point {
	out := new(bn254Point)
	if p.value.IsInfinity() {
		return out
	}
	out.value.Neg(&p.value)
	return out
}

func (p *bn254Point) Mul(k *uint256.Int) Point {
	out := new(bn254Point)
	out.value.ScalarMultiplication(&p.value, bn254Order.Reduce(k).ToBig())
	return out
}

func (p *bn254Point) Equal(that Point) bool {
	other, ok := that.(*bn254Point)
	if !ok {
		return false
	}
	return p.value.Equal(&other.value)
}

func (p *bn254Point) IsIdentity() bool {
	return p.value.IsInfinity()
}

func (p *bn254Point) Coordinates() (x, y *uint256.Int) {
	xb, yb := p.value.X.Bytes(), p.value.Y.Bytes()
	return new(uint256.Int).SetBytes(xb[:]), new(uint256.Int).SetBytes(yb[:])
}

func (p *bn254Point) Compress() []byte {
	return compress(p.Coordinates())
}

func (p *bn254Point) CompressAlt() *uint256.Int {
	return compressAlt(p.Coordinates())
}

// MarshalBinary implements encoding.BinaryMarshaler with the 64 byte x ∥ y encoding.
func (p *bn254Point) MarshalBinary() ([]byte, error) {
	return marshalAffine(p.Coordinates()), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, rejecting points off the curve.
func (p *bn254Point) UnmarshalBinary(data []byte) error {
	decoded, err := unmarshalAffine(BN254{}, data)
	if err != nil {
		return err
	}
	p.value = bn254CastPoint(decoded).value
	return nil
}

// WriteTo implements io.WriterTo with the same encoding as MarshalBinary.
func (p *bn254Point) WriteTo(w io.Writer) (int64, error) {
	x, y := p.Coordinates()
	return writeAffine(w, x, y)
}

// Domain implements hash.WriterToWithDomain.
func (*bn254Point) Domain() string {
	return "BN254 Point"
}

func (p *bn254Point) String() string {
	return p.value.String()
}
