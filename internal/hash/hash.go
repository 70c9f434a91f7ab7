package hash

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash fingerprints parameter sets and other long lived data.
//
// Internally, this is a wrapper around blake3.Hasher, whose output can be
// extended to any length through Digest.
// It is never used for Fiat-Shamir challenges, those must match the keccak
// transcript of the on-chain verifier.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash whose state is initialized with the given domain separated data.
func New(initialData ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, d := range initialData {
		_ = hash.WriteAny(d)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.ReadBytes: internal hash failure: %v", err))
	}
	return out
}

// WriteAny writes each argument to the hash state as its own frame.
//
// Supported types are []byte, string, uint64 and int, *uint256.Int and
// WriterToWithDomain. The first four are labeled with their Go type, the last
// one with its own domain. Any other type panics.
func (hash *Hash) WriteAny(data ...interface{}) error {
	for _, d := range data {
		var object WriterToWithDomain
		switch t := d.(type) {
		case []byte:
			object = Labeled{Label: "[]byte", Data: t}
		case string:
			object = Labeled{Label: "string", Data: []byte(t)}
		case int:
			if t < 0 {
				return fmt.Errorf("hash.Hash: write int: negative value %d", t)
			}
			object = Labeled{Label: "uint64", Data: binary.BigEndian.AppendUint64(nil, uint64(t))}
		case uint64:
			object = Labeled{Label: "uint64", Data: binary.BigEndian.AppendUint64(nil, t)}
		case *uint256.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *uint256.Int: nil")
			}
			word := t.Bytes32()
			object = Labeled{Label: "uint256.Int", Data: word[:]}
		case WriterToWithDomain:
			object = t
		default:
			panic(fmt.Sprintf("hash.Hash: unsupported type %T", d))
		}
		if err := writeFramed(hash.h, object); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", object.Domain(), err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
