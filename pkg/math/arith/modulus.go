package arith

import (
	"fmt"

	"github.com/cronokirby/saferith"
	"github.com/holiman/uint256"
)

// Modulus represents ℤₙ for some n < 2²⁵⁶.
//
// Additions and multiplications are computed with fixed-width 256-bit words.
// Inversion and exponentiation are delegated to saferith.
// Every method returns a freshly allocated, fully reduced value and never
// modifies its arguments.
type Modulus struct {
	// represents modulus n
	n *uint256.Int
	// nat is n as a saferith.Modulus
	nat *saferith.Modulus
}

// ModulusFromUint256 creates a Modulus from n. The value is copied.
func ModulusFromUint256(n *uint256.Int) *Modulus {
	if n.IsZero() {
		panic("arith.Modulus: zero modulus")
	}
	nCopy := new(uint256.Int).Set(n)
	nNat := new(saferith.Nat).SetBytes(nCopy.Bytes())
	return &Modulus{
		n:   nCopy,
		nat: saferith.ModulusFromNat(nNat),
	}
}

// ModulusFromHex creates a Modulus from a 0x-prefixed hexadecimal string.
// It panics if s is malformed, so it should only be used for constants.
func ModulusFromHex(s string) *Modulus {
	return ModulusFromUint256(uint256.MustFromHex(s))
}

// Uint256 returns a copy of n.
func (m *Modulus) Uint256() *uint256.Int {
	return new(uint256.Int).Set(m.n)
}

// BitLen returns the bit length of n.
func (m *Modulus) BitLen() int {
	return m.n.BitLen()
}

// Equal returns true if both moduli represent the same n.
func (m *Modulus) Equal(other *Modulus) bool {
	return m.n.Eq(other.n)
}

// IsReduced returns true if 0 ≤ x < n.
func (m *Modulus) IsReduced(x *uint256.Int) bool {
	return x.Lt(m.n)
}

// Reduce returns x (mod n).
func (m *Modulus) Reduce(x *uint256.Int) *uint256.Int {
	return new(uint256.Int).Mod(x, m.n)
}

// SetBytes interprets b as a big-endian integer of at most 32 bytes and returns it (mod n).
func (m *Modulus) SetBytes(b []byte) *uint256.Int {
	if len(b) > 32 {
		panic(fmt.Sprintf("arith.Modulus: SetBytes: %d bytes exceed a 256-bit word", len(b)))
	}
	x := new(uint256.Int).SetBytes(b)
	return x.Mod(x, m.n)
}

// SetUint64 returns x (mod n).
func (m *Modulus) SetUint64(x uint64) *uint256.Int {
	return m.Reduce(uint256.NewInt(x))
}

// Add returns x + y (mod n).
func (m *Modulus) Add(x, y *uint256.Int) *uint256.Int {
	return new(uint256.Int).AddMod(x, y, m.n)
}

// Sub returns x - y (mod n).
func (m *Modulus) Sub(x, y *uint256.Int) *uint256.Int {
	a, b := m.Reduce(x), m.Reduce(y)
	z := new(uint256.Int).Sub(a, b)
	if a.Lt(b) {
		// wraps around 2²⁵⁶ back into [0, n)
		z.Add(z, m.n)
	}
	return z
}

// Neg returns -x (mod n).
func (m *Modulus) Neg(x *uint256.Int) *uint256.Int {
	return m.Sub(new(uint256.Int), x)
}

// Mul returns x⋅y (mod n).
func (m *Modulus) Mul(x, y *uint256.Int) *uint256.Int {
	return new(uint256.Int).MulMod(x, y, m.n)
}

// MulAdd returns x⋅y + z (mod n).
func (m *Modulus) MulAdd(x, y, z *uint256.Int) *uint256.Int {
	return m.Add(m.Mul(x, y), z)
}

// Square returns x² (mod n).
func (m *Modulus) Square(x *uint256.Int) *uint256.Int {
	return m.Mul(x, x)
}

// Inv returns x⁻¹ (mod n).
// n is assumed to be prime; inverting zero is a programming error and panics.
func (m *Modulus) Inv(x *uint256.Int) *uint256.Int {
	xr := m.Reduce(x)
	if xr.IsZero() {
		panic("arith.Modulus: Inv: zero has no inverse")
	}
	inv := new(saferith.Nat).ModInverse(m.toNat(xr), m.nat)
	return fromNat(inv)
}

// Exp returns xᵉ (mod n).
func (m *Modulus) Exp(x, e *uint256.Int) *uint256.Int {
	y := new(saferith.Nat).Exp(m.toNat(m.Reduce(x)), new(saferith.Nat).SetBytes(e.Bytes()), m.nat)
	return fromNat(y)
}

// ExpUint64 returns xᵉ (mod n).
func (m *Modulus) ExpUint64(x *uint256.Int, e uint64) *uint256.Int {
	return m.Exp(x, uint256.NewInt(e))
}

func (m *Modulus) toNat(x *uint256.Int) *saferith.Nat {
	return new(saferith.Nat).SetBytes(x.Bytes())
}

func fromNat(x *saferith.Nat) *uint256.Int {
	return new(uint256.Int).SetBytes(x.Bytes())
}
