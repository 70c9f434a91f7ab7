// Package transfer builds the outputs of confidential token operations: the
// commitments, their range proof, the encrypted openings and the identifiers
// under which the token contract stores them.
//
// Choosing which outputs to spend is left to the caller.
package transfer

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/ct-bulletproofs/pkg/envelope"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pedersen"
	zkrange "github.com/taurusgroup/ct-bulletproofs/pkg/zk/rangeproof"
)

type Error string

const (
	ErrNoInputs          Error = "no inputs to spend"
	ErrInsufficientFunds Error = "inputs do not cover the amount"
	ErrInvalidOpening    Error = "decrypted opening does not match the commitment"
	ErrValueTooLarge     Error = "value does not fit in 64 bits"
	ErrIncompleteInput   Error = "input lacks an identifier or a blinding factor"
)

func (e Error) Error() string {
	return fmt.Sprintf("transfer: %s", string(e))
}

// Opening is an output owned by the caller: its identifier and the secret opening of its commitment.
type Opening struct {
	ID       *uint256.Int
	Value    uint64
	Blinding *uint256.Int
}

// Output is a newly created output.
type Output struct {
	Witness *pedersen.Commitment
	// ID is the CompressAlt encoding of the commitment.
	ID       *uint256.Int
	Envelope *envelope.Envelope
}

// Opening returns the data the owner of the output needs to spend it later.
func (o *Output) Opening() *Opening {
	return &Opening{ID: o.ID, Value: o.Witness.Value().Uint64(), Blinding: o.Witness.Blinding()}
}

// Mint is a single output and its range proof.
type Mint struct {
	Proof  *zkrange.Proof
	Output *Output
}

// Spend consumes inputs into an output for the recipient and a change output for the sender.
type Spend struct {
	Proof     *zkrange.Proof
	Inputs    []*uint256.Int
	Recipient *Output
	Change    *Output
}

// EncryptedData returns the recipient triple followed by the change triple.
func (s *Spend) EncryptedData() [6]*uint256.Int {
	var out [6]*uint256.Int
	r, c := s.Recipient.Envelope.Words(), s.Change.Envelope.Words()
	copy(out[:3], r[:])
	copy(out[3:], c[:])
	return out
}

// Builder creates outputs for a fixed parameter set.
type Builder struct {
	Params *generators.Params
	// Rand defaults to crypto/rand.Reader.
	Rand io.Reader
	Log  zerolog.Logger
}

// NewBuilder returns a Builder using crypto/rand.Reader and no logging.
func NewBuilder(params *generators.Params) *Builder {
	return &Builder{
		Params: params,
		Rand:   rand.Reader,
		Log:    zerolog.Nop(),
	}
}

func (b *Builder) random() io.Reader {
	if b.Rand == nil {
		return rand.Reader
	}
	return b.Rand
}

// Mint creates a single output of the given amount with a random blinding factor,
// encrypted for recipientPub under the ECDH secret of senderPriv.
func (b *Builder) Mint(amount uint64, senderPriv []byte, recipientPub curve.Point) (*Mint, error) {
	start := time.Now()
	key, err := envelope.SharedSecret(senderPriv, recipientPub)
	if err != nil {
		return nil, fmt.Errorf("transfer: mint: %w", err)
	}
	totalBf := sample.Scalar(b.random(), b.Params.Curve().Order())
	witnesses, _, err := pedersen.GenerateMultiple(b.random(), b.Params.Base, []uint64{amount}, totalBf)
	if err != nil {
		return nil, fmt.Errorf("transfer: mint: %w", err)
	}
	proof, err := zkrange.Prove(b.random(), b.Params, witnesses)
	if err != nil {
		return nil, fmt.Errorf("transfer: mint: %w", err)
	}
	output, err := b.seal(witnesses[0], key)
	if err != nil {
		return nil, fmt.Errorf("transfer: mint: %w", err)
	}
	b.Log.Debug().
		Str("id", output.ID.Hex()).
		Int("bits", zkrange.BitsPerValue(b.Params, 1)).
		Dur("t", time.Since(start)).
		Msg("minted output")
	return &Mint{Proof: proof, Output: output}, nil
}

// Spend splits the inputs into amount for recipientPub and the remainder back to the sender.
//
// The blinding factors of the outputs sum to those of the inputs, so that the
// contract can check conservation on the commitments alone. The recipient output
// is encrypted under the ECDH secret, the change under the sender's private key.
func (b *Builder) Spend(inputs []*Opening, amount uint64, senderPriv []byte, recipientPub curve.Point) (*Spend, error) {
	start := time.Now()
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}
	q := b.Params.Curve().Order()
	var balance uint64
	totalBf := new(uint256.Int)
	ids := make([]*uint256.Int, len(inputs))
	for i, in := range inputs {
		if in == nil || in.ID == nil || in.Blinding == nil {
			return nil, fmt.Errorf("transfer: spend: input %d: %w", i, ErrIncompleteInput)
		}
		if in.Value > math.MaxUint64-balance {
			return nil, fmt.Errorf("transfer: spend: input %d: %w", i, ErrValueTooLarge)
		}
		balance += in.Value
		totalBf = q.Add(totalBf, in.Blinding)
		ids[i] = new(uint256.Int).Set(in.ID)
	}
	if amount > balance {
		return nil, fmt.Errorf("%w: %d inputs", ErrInsufficientFunds, len(inputs))
	}

	key, err := envelope.SharedSecret(senderPriv, recipientPub)
	if err != nil {
		return nil, fmt.Errorf("transfer: spend: %w", err)
	}
	witnesses, _, err := pedersen.GenerateMultiple(b.random(), b.Params.Base, []uint64{amount, balance - amount}, totalBf)
	if err != nil {
		return nil, fmt.Errorf("transfer: spend: %w", err)
	}
	proof, err := zkrange.Prove(b.random(), b.Params, witnesses)
	if err != nil {
		return nil, fmt.Errorf("transfer: spend: %w", err)
	}
	recipient, err := b.seal(witnesses[0], key)
	if err != nil {
		return nil, fmt.Errorf("transfer: spend: %w", err)
	}
	change, err := b.seal(witnesses[1], senderPriv)
	if err != nil {
		return nil, fmt.Errorf("transfer: spend: %w", err)
	}
	b.Log.Debug().
		Int("inputs", len(inputs)).
		Str("recipient", recipient.ID.Hex()).
		Str("change", change.ID.Hex()).
		Dur("t", time.Since(start)).
		Msg("spent outputs")
	return &Spend{Proof: proof, Inputs: ids, Recipient: recipient, Change: change}, nil
}

func (b *Builder) seal(witness *pedersen.Commitment, key []byte) (*Output, error) {
	env, err := envelope.Seal(b.random(), witness.Value(), witness.Blinding(), key)
	if err != nil {
		return nil, err
	}
	return &Output{Witness: witness, ID: witness.Commitment().CompressAlt(), Envelope: env}, nil
}

// Open decrypts the published triple of output id with key and checks it against the commitment.
//
// For a received output the key is the ECDH secret with the sender, for change it
// is the owner's private key.
func Open(params *generators.Params, key []byte, words [3]*uint256.Int, id *uint256.Int) (*Opening, error) {
	env, err := envelope.FromWords(words)
	if err != nil {
		return nil, fmt.Errorf("transfer: open: %w", err)
	}
	value, blinding, err := envelope.Open(key, env)
	if err != nil {
		return nil, fmt.Errorf("transfer: open: %w", err)
	}
	if !envelope.Verify(params.Base, value, blinding, id) {
		return nil, ErrInvalidOpening
	}
	if !value.IsUint64() {
		return nil, ErrValueTooLarge
	}
	return &Opening{ID: new(uint256.Int).Set(id), Value: value.Uint64(), Blinding: params.Curve().Order().Reduce(blinding)}, nil
}
