// Package envelope encrypts the opening (value, blinding) of an output for its
// owner, so that it can be published next to the commitment.
//
// The key is the x coordinate of an ECDH exchange on secp256k1 between the
// sender and the recipient's account key. The payload is a fixed 64 byte block,
// encrypted with AES-256-CBC under a fresh IV, without padding or authentication.
// A wrong key decrypts to garbage, which is detected by recomputing the commitment.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pedersen"
)

type Error string

const (
	ErrInvalidPrivateKey Error = "private key must be a non-zero scalar of 32 bytes"
	ErrInvalidPublicKey  Error = "public key must be a secp256k1 point other than the identity"
	ErrInvalidKey        Error = "encryption key must have 32 bytes"
	ErrInvalidEnvelope   Error = "invalid envelope"
)

func (e Error) Error() string {
	return fmt.Sprintf("envelope: %s", string(e))
}

// Envelope is the encrypted opening of a commitment.
type Envelope struct {
	// Ciphertext is AES-CBC(value ∥ blinding), both as 32 byte big-endian words.
	Ciphertext [params.BytesEnvelope]byte
	IV         [params.BytesIV]byte
}

// SharedSecret returns the x coordinate of priv⋅pub on secp256k1, as 32 bytes.
//
// Both parties compute the same secret from their own private key and the
// other's public key.
func SharedSecret(priv []byte, pub curve.Point) ([]byte, error) {
	if err := checkPrivateKey(priv); err != nil {
		return nil, err
	}
	if pub == nil || pub.IsIdentity() || pub.Curve().Name() != params.CurveSecp256k1 {
		return nil, ErrInvalidPublicKey
	}

	x, y := pub.Coordinates()
	xb, yb := x.Bytes32(), y.Bytes32()
	var fx, fy secp256k1.FieldVal
	fx.SetBytes(&xb)
	fy.SetBytes(&yb)
	return secp256k1.GenerateSharedSecret(secp256k1.PrivKeyFromBytes(priv), secp256k1.NewPublicKey(&fx, &fy)), nil
}

// PublicKey returns priv⋅G on secp256k1.
func PublicKey(priv []byte) (curve.Point, error) {
	if err := checkPrivateKey(priv); err != nil {
		return nil, err
	}
	return curve.Secp256k1{}.NewBasePoint().Mul(new(uint256.Int).SetBytes(priv)), nil
}

func checkPrivateKey(priv []byte) error {
	if len(priv) != params.BytesScalar {
		return ErrInvalidPrivateKey
	}
	k := new(uint256.Int).SetBytes(priv)
	order := curve.Secp256k1{}.Order()
	if k.IsZero() || !order.IsReduced(k) {
		return ErrInvalidPrivateKey
	}
	return nil
}

// Seal encrypts (value, blinding) under key with a random IV.
func Seal(rand io.Reader, value, blinding *uint256.Int, key []byte) (*Envelope, error) {
	block, err := newCipher(key)
	if err != nil {
		return nil, err
	}
	env := new(Envelope)
	copy(env.IV[:], sample.Bytes(rand, params.BytesIV))

	var plaintext [params.BytesEnvelope]byte
	v, r := value.Bytes32(), blinding.Bytes32()
	copy(plaintext[:params.BytesScalar], v[:])
	copy(plaintext[params.BytesScalar:], r[:])

	cipher.NewCBCEncrypter(block, env.IV[:]).CryptBlocks(env.Ciphertext[:], plaintext[:])
	return env, nil
}

// Open decrypts the envelope. It only fails on malformed input: a wrong key
// yields an unrelated (value, blinding) pair.
func Open(key []byte, env *Envelope) (value, blinding *uint256.Int, err error) {
	if env == nil {
		return nil, nil, ErrInvalidEnvelope
	}
	block, err := newCipher(key)
	if err != nil {
		return nil, nil, err
	}
	var plaintext [params.BytesEnvelope]byte
	cipher.NewCBCDecrypter(block, env.IV[:]).CryptBlocks(plaintext[:], env.Ciphertext[:])
	value = new(uint256.Int).SetBytes(plaintext[:params.BytesScalar])
	blinding = new(uint256.Int).SetBytes(plaintext[params.BytesScalar:])
	return value, blinding, nil
}

func newCipher(key []byte) (cipher.Block, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}
	return aes.NewCipher(key)
}

// Words returns the triple [encValue, encBlinding, iv] published on-chain.
// The IV occupies the low 16 bytes of its word.
func (e *Envelope) Words() [3]*uint256.Int {
	return [3]*uint256.Int{
		new(uint256.Int).SetBytes(e.Ciphertext[:params.BytesScalar]),
		new(uint256.Int).SetBytes(e.Ciphertext[params.BytesScalar:]),
		new(uint256.Int).SetBytes(e.IV[:]),
	}
}

// FromWords parses the on-chain triple [encValue, encBlinding, iv].
func FromWords(words [3]*uint256.Int) (*Envelope, error) {
	for _, w := range words {
		if w == nil {
			return nil, ErrInvalidEnvelope
		}
	}
	if words[2].BitLen() > 8*params.BytesIV {
		return nil, fmt.Errorf("%w: iv exceeds %d bytes", ErrInvalidEnvelope, params.BytesIV)
	}
	env := new(Envelope)
	encValue, encBlinding, iv := words[0].Bytes32(), words[1].Bytes32(), words[2].Bytes32()
	copy(env.Ciphertext[:params.BytesScalar], encValue[:])
	copy(env.Ciphertext[params.BytesScalar:], encBlinding[:])
	copy(env.IV[:], iv[32-params.BytesIV:])
	return env, nil
}

// Verify recomputes the commitment to (value, blinding) and compares it with the
// published identifier, the CompressAlt encoding of the commitment.
//
// The blinding is taken modulo q: openings produced by other wallets may carry
// any 256 bit word. The value must be reduced.
func Verify(base *pedersen.Base, value, blinding, id *uint256.Int) bool {
	if value == nil || blinding == nil || id == nil {
		return false
	}
	q := base.Order()
	if !q.IsReduced(value) {
		return false
	}
	return base.Commit(value, q.Reduce(blinding)).CompressAlt().Eq(id)
}
