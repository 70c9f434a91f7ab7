package zkipa

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/internal/params"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

// EmptyProof creates an empty Proof with a fixed group, ready for unmarshalling.
//
// This needs to be used for unmarshalling, otherwise the points on the curve can't
// be decoded.
func EmptyProof(group curve.Curve) *Proof {
	return &Proof{group: group}
}

type proofMarshal struct {
	L, R [][]byte
	A, B []byte
}

func (p *Proof) MarshalBinary() ([]byte, error) {
	pm := &proofMarshal{
		L: make([][]byte, len(p.L)),
		R: make([][]byte, len(p.R)),
		A: word(p.A),
		B: word(p.B),
	}
	var err error
	for i := range p.L {
		if pm.L[i], err = p.L[i].MarshalBinary(); err != nil {
			return nil, fmt.Errorf("zkipa: L[%d]: %w", i, err)
		}
	}
	for i := range p.R {
		if pm.R[i], err = p.R[i].MarshalBinary(); err != nil {
			return nil, fmt.Errorf("zkipa: R[%d]: %w", i, err)
		}
	}
	return cbor.Marshal(pm)
}

func (p *Proof) UnmarshalBinary(data []byte) error {
	if p.group == nil {
		return errors.New("zkipa: proof must be initialized using EmptyProof")
	}
	var pm proofMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("zkipa: %w", err)
	}
	if len(pm.A) != params.BytesScalar || len(pm.B) != params.BytesScalar {
		return errors.New("zkipa: invalid scalar length")
	}
	L, err := decodePoints(p.group, pm.L)
	if err != nil {
		return fmt.Errorf("zkipa: L%w", err)
	}
	R, err := decodePoints(p.group, pm.R)
	if err != nil {
		return fmt.Errorf("zkipa: R%w", err)
	}
	*p = Proof{
		group: p.group,
		L:     L,
		R:     R,
		A:     new(uint256.Int).SetBytes(pm.A),
		B:     new(uint256.Int).SetBytes(pm.B),
	}
	return nil
}

func decodePoints(group curve.Curve, data [][]byte) ([]curve.Point, error) {
	points := make([]curve.Point, len(data))
	for i, d := range data {
		points[i] = group.NewPoint()
		if err := points[i].UnmarshalBinary(d); err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
	}
	return points, nil
}

func word(x *uint256.Int) []byte {
	if x == nil {
		return nil
	}
	b := x.Bytes32()
	return b[:]
}
