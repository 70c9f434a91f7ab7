package curve

import (
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
)

var (
	secp256k1Order = arith.ModulusFromUint256(uint256.MustFromBig(secp256k1.S256().Params().N))
	secp256k1Prime = arith.ModulusFromUint256(uint256.MustFromBig(secp256k1.S256().Params().P))
)

// Secp256k1 is the curve y² = x³ + 7 of Ethereum accounts. It is only used for ECDH.
type Secp256k1 struct{}

func (Secp256k1) Name() string { return params.CurveSecp256k1 }

func (Secp256k1) Order() *arith.Modulus { return secp256k1Order }

func (Secp256k1) FieldPrime() *arith.Modulus { return secp256k1Prime }

func (Secp256k1) NewPoint() Point {
	return new(secp256k1Point)
}

func (Secp256k1) NewBasePoint() Point {
	var one secp256k1.ModNScalar
	one.SetInt(1)
	var out secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&one, &out)
	return newSecp256k1Point(&out)
}

func (c Secp256k1) PointFromCoordinates(x, y *uint256.Int) (Point, error) {
	if err := checkCoordinates(c, x, y); err != nil {
		return nil, err
	}
	var fx, fy secp256k1.FieldVal
	xb, yb := x.Bytes32(), y.Bytes32()
	fx.SetBytes(&xb)
	fy.SetBytes(&yb)
	if !secp256k1.NewPublicKey(&fx, &fy).IsOnCurve() {
		return nil, ErrNotOnCurve
	}
	var one secp256k1.FieldVal
	one.SetInt(1)
	return &secp256k1Point{value: secp256k1.MakeJacobianPoint(&fx, &fy, &one)}, nil
}

// HashToPoint implements try-and-increment: starting from x = keccak256(data) mod p,
// x is incremented until x³ + 7 is a square, and y is its principal square root.
func (Secp256k1) HashToPoint(data []byte) Point {
	seed := hashSeed(secp256k1Prime, data)
	var x, rhs, y secp256k1.FieldVal
	seedBytes := seed.Bytes32()
	x.SetBytes(&seedBytes)
	for {
		// rhs = x³ + b
		rhs.SquareVal(&x).Mul(&x).AddInt(7).Normalize()
		if y.SquareRootVal(&rhs) {
			y.Normalize()
			break
		}
		x.AddInt(1).Normalize()
	}
	var one secp256k1.FieldVal
	one.SetInt(1)
	return &secp256k1Point{value: secp256k1.MakeJacobianPoint(&x, &y, &one)}
}

// secp256k1Point is kept in affine form (Z = 1), or is the all zero identity.
type secp256k1Point struct {
	value secp256k1.JacobianPoint
}

func isSecp256k1Infinity(p *secp256k1.JacobianPoint) bool {
	return (p.X.IsZero() && p.Y.IsZero()) || p.Z.IsZero()
}

func newSecp256k1Point(p *secp256k1.JacobianPoint) *secp256k1Point {
	out := new(secp256k1Point)
	var affine secp256k1.JacobianPoint
	affine.Set(p)
	affine.X.Normalize()
	affine.Y.Normalize()
	affine.Z.Normalize()
	if isSecp256k1Infinity(&affine) {
		return out
	}
	affine.ToAffine()
	out.value = affine
	return out
}

func secp256k1CastPoint(generic Point) *secp256k1Point {
	out, ok := generic.(*secp256k1Point)
	if !ok {
		panic(fmt.Sprintf("failed to convert to secp256k1Point: %v", generic))
	}
	return out
}

func (*secp256k1Point) Curve() Curve {
	return Secp256k1{}
}

func (p *secp256k1Point) Add(that Point) Point {
	other := secp256k1CastPoint(that)
	var out secp256k1.JacobianPoint
	secp256k1.AddNonConst(&p.value, &other.value, &out)
	return newSecp256k1Point(&out)
}

func (p *secp256k1Point) Sub(that Point) Point {
	return p.Add(that.Negate())
}

func (p *secp256k1Point) Negate() Point {
	if p.IsIdentity() {
		return new(secp256k1Point)
	}
	out := &secp256k1Point{value: p.value}
	out.value.Y.Negate(1).Normalize()
	return out
}

func (p *secp256k1Point) Mul(k *uint256.Int) Point {
	var scalar secp256k1.ModNScalar
	kb := secp256k1Order.Reduce(k).Bytes32()
	scalar.SetBytes(&kb)
	var out secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&scalar, &p.value, &out)
	return newSecp256k1Point(&out)
}

func (p *secp256k1Point) Equal(that Point) bool {
	other, ok := that.(*secp256k1Point)
	if !ok {
		return false
	}
	if p.IsIdentity() || other.IsIdentity() {
		return p.IsIdentity() == other.IsIdentity()
	}
	return p.value.X.Equals(&other.value.X) && p.value.Y.Equals(&other.value.Y)
}

func (p *secp256k1Point) IsIdentity() bool {
	return isSecp256k1Infinity(&p.value)
}

func (p *secp256k1Point) Coordinates() (x, y *uint256.Int) {
	if p.IsIdentity() {
		return new(uint256.Int), new(uint256.Int)
	}
	xb, yb := p.value.X.Bytes(), p.value.Y.Bytes()
	return new(uint256.Int).SetBytes(xb[:]), new(uint256.Int).SetBytes(yb[:])
}

func (p *secp256k1Point) Compress() []byte {
	return compress(p.Coordinates())
}

func (p *secp256k1Point) CompressAlt() *uint256.Int {
	return compressAlt(p.Coordinates())
}

// MarshalBinary implements encoding.BinaryMarshaler with the 64 byte x ∥ y encoding.
func (p *secp256k1Point) MarshalBinary() ([]byte, error) {
	return marshalAffine(p.Coordinates()), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, rejecting points off the curve.
func (p *secp256k1Point) UnmarshalBinary(data []byte) error {
	decoded, err := unmarshalAffine(Secp256k1{}, data)
	if err != nil {
		return err
	}
	p.value = secp256k1CastPoint(decoded).value
	return nil
}

// WriteTo implements io.WriterTo with the same encoding as MarshalBinary.
func (p *secp256k1Point) WriteTo(w io.Writer) (int64, error) {
	x, y := p.Coordinates()
	return writeAffine(w, x, y)
}

// Domain implements hash.WriterToWithDomain.
func (*secp256k1Point) Domain() string {
	return "Secp256k1 Point"
}

func (p *secp256k1Point) String() string {
	if p.IsIdentity() {
		return "Point{Identity}"
	}
	return fmt.Sprintf("Point{X: %v, Y: %v}", p.value.X, p.value.Y)
}
