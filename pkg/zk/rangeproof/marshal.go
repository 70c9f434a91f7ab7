package zkrange

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	zkipa "github.com/taurusgroup/ct-bulletproofs/pkg/zk/ipa"
)

// EmptyProof creates an empty Proof with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{group: group}
}

type proofMarshal struct {
	A, S         []byte
	T            [][]byte
	Tx, TauX, Mu []byte
	IPA          cbor.RawMessage
	Commitments  [][]byte
}

func (p *Proof) MarshalBinary() ([]byte, error) {
	ipa, err := p.IPA.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("zkrange: %w", err)
	}
	pm := &proofMarshal{
		Tx:   word(p.Tx),
		TauX: word(p.TauX),
		Mu:   word(p.Mu),
		IPA:  ipa,
	}
	if pm.A, err = p.A.MarshalBinary(); err != nil {
		return nil, fmt.Errorf("zkrange: A: %w", err)
	}
	if pm.S, err = p.S.MarshalBinary(); err != nil {
		return nil, fmt.Errorf("zkrange: S: %w", err)
	}
	if pm.T, err = marshalPoints(p.T); err != nil {
		return nil, fmt.Errorf("zkrange: T%w", err)
	}
	if pm.Commitments, err = marshalPoints(p.Commitments); err != nil {
		return nil, fmt.Errorf("zkrange: Commitments%w", err)
	}
	return cbor.Marshal(pm)
}

func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.group == nil {
		return errors.New("zkrange: proof must be initialized using EmptyProof")
	}
	var pm proofMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("zkrange: %w", err)
	}
	for _, s := range [][]byte{pm.Tx, pm.TauX, pm.Mu} {
		if len(s) != params.BytesScalar {
			return errors.New("zkrange: invalid scalar length")
		}
	}
	A := p.group.NewPoint()
	if err := A.UnmarshalBinary(pm.A); err != nil {
		return fmt.Errorf("zkrange: A: %w", err)
	}
	S := p.group.NewPoint()
	if err := S.UnmarshalBinary(pm.S); err != nil {
		return fmt.Errorf("zkrange: S: %w", err)
	}
	T, err := unmarshalPoints(p.group, pm.T)
	if err != nil {
		return fmt.Errorf("zkrange: T%w", err)
	}
	commitments, err := unmarshalPoints(p.group, pm.Commitments)
	if err != nil {
		return fmt.Errorf("zkrange: Commitments%w", err)
	}
	ipa := zkipa.EmptyProof(p.group)
	if err = ipa.UnmarshalBinary(pm.IPA); err != nil {
		return fmt.Errorf("zkrange: %w", err)
	}
	*p = Proof{
		group:       p.group,
		A:           A,
		S:           S,
		T:           T,
		Tx:          new(uint256.Int).SetBytes(pm.Tx),
		TauX:        new(uint256.Int).SetBytes(pm.TauX),
		Mu:          new(uint256.Int).SetBytes(pm.Mu),
		IPA:         ipa,
		Commitments: commitments,
	}
	return nil
}

func marshalPoints(points []curve.Point) ([][]byte, error) {
	out := make([][]byte, len(points))
	for i, pt := range points {
		var err error
		if out[i], err = pt.MarshalBinary(); err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return out, nil
}

func unmarshalPoints(group curve.Curve, data [][]byte) ([]curve.Point, error) {
	out := make([]curve.Point, len(data))
	for i, d := range data {
		out[i] = group.NewPoint()
		if err := out[i].UnmarshalBinary(d); err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return out, nil
}

func word(x *uint256.Int) []byte {
	if x == nil {
		return nil
	}
	b := x.Bytes32()
	return b[:]
}

func appendCoordinates(out []*uint256.Int, points ...curve.Point) []*uint256.Int {
	for _, pt := range points {
		x, y := pt.Coordinates()
		out = append(out, x, y)
	}
	return out
}

// Calldata returns the five arrays consumed by the on-chain verifier, in order:
//
//	[V.x, V.y, …], [A.x, A.y, S.x, S.y, T₁.x, T₁.y, T₂.x, T₂.y], [τx, μ, t, a, b], [L.x, L.y, …], [R.x, R.y, …]
func (p *Proof) Calldata() [5][]*uint256.Int {
	var out [5][]*uint256.Int
	out[0] = appendCoordinates(make([]*uint256.Int, 0, 2*len(p.Commitments)), p.Commitments...)
	out[1] = appendCoordinates(make([]*uint256.Int, 0, 8), append([]curve.Point{p.A, p.S}, p.T...)...)
	out[2] = []*uint256.Int{
		new(uint256.Int).Set(p.TauX),
		new(uint256.Int).Set(p.Mu),
		new(uint256.Int).Set(p.Tx),
		new(uint256.Int).Set(p.IPA.A),
		new(uint256.Int).Set(p.IPA.B),
	}
	out[3] = appendCoordinates(make([]*uint256.Int, 0, 2*len(p.IPA.L)), p.IPA.L...)
	out[4] = appendCoordinates(make([]*uint256.Int, 0, 2*len(p.IPA.R)), p.IPA.R...)
	return out
}

// Meta packs the lengths of the calldata arrays into a single word, 64 bits each:
// bits, 2⋅|V|, 2⋅|L| and 2⋅|R| from the least significant field upwards.
func (p *Proof) Meta(bits int) *uint256.Int {
	fields := []uint64{uint64(bits), uint64(2 * len(p.Commitments)), uint64(2 * len(p.IPA.L)), uint64(2 * len(p.IPA.R))}
	out := new(uint256.Int)
	for i, f := range fields {
		out.Or(out, new(uint256.Int).Lsh(uint256.NewInt(f), uint(i*params.MetaFieldBits)))
	}
	return out
}
