// Package transcript derives Fiat-Shamir challenges the way the on-chain
// verifier does: keccak256 over fixed width big-endian words, reduced mod q.
//
// There is no running state. Every call hashes exactly the elements it is given,
// so callers pass the full set of prior messages relevant to a round.
package transcript

import (
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/arith"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"golang.org/x/crypto/sha3"
)

// Challenge returns keccak256(P₀.x ∥ P₀.y ∥ P₁.x ∥ …) mod q.
func Challenge(q *arith.Modulus, points ...curve.Point) *uint256.Int {
	h := sha3.NewLegacyKeccak256()
	for _, p := range points {
		// writing to a keccak state never fails
		_, _ = p.WriteTo(h)
	}
	return q.SetBytes(h.Sum(nil))
}

// ChallengeScalars returns keccak256(s₀ ∥ s₁ ∥ …) mod q, every scalar as a 32 byte word.
func ChallengeScalars(q *arith.Modulus, scalars ...*uint256.Int) *uint256.Int {
	h := sha3.NewLegacyKeccak256()
	buf := make([]byte, 0, len(scalars)*params.BytesScalar)
	for _, s := range scalars {
		word := s.Bytes32()
		buf = append(buf, word[:]...)
	}
	_, _ = h.Write(buf)
	return q.SetBytes(h.Sum(nil))
}
