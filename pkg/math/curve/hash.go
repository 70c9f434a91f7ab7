package curve

import (
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"golang.org/x/crypto/sha3"
)

// hashSeed returns keccak256(data) mod p, the first x candidate of try-and-increment.
//
// Both supported curves have p ≡ 3 (mod 4), so a square root of a residue r is
// r^((p+1)/4) and the candidate loop terminates after two tries on average.
func hashSeed(p *arith.Modulus, data []byte) *uint256.Int {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write(data)
	return p.SetBytes(h.Sum(nil))
}
