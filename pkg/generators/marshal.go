package generators

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/holiman/uint256"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

// coordinate is encoded as bare lowercase hex digits without leading zeros, the
// format bn.js writes. Decoding also accepts a 0x prefix.
type coordinate struct {
	value *uint256.Int
}

func (c coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.value.ToBig().Text(16))
}

func (c *coordinate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("coordinate must be a hex string: %w", err)
	}
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, ok := new(big.Int).SetString(digits, 16)
	if !ok || digits == "" {
		return fmt.Errorf("invalid hex coordinate %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return fmt.Errorf("coordinate %q exceeds 256 bits", s)
	}
	c.value = v
	return nil
}

type pointJSON struct {
	X coordinate `json:"x"`
	Y coordinate `json:"y"`
}

type baseJSON struct {
	G pointJSON `json:"g"`
	H pointJSON `json:"h"`
}

type vectorBaseJSON struct {
	Gs []pointJSON `json:"gs"`
	Hs []pointJSON `json:"hs"`
}

type paramsJSON struct {
	Base       baseJSON       `json:"base"`
	VectorBase vectorBaseJSON `json:"vectorBase"`
}

func toPointJSON(p curve.Point) pointJSON {
	x, y := p.Coordinates()
	return pointJSON{X: coordinate{x}, Y: coordinate{y}}
}

func toPointsJSON(points []curve.Point) []pointJSON {
	out := make([]pointJSON, len(points))
	for i, p := range points {
		out[i] = toPointJSON(p)
	}
	return out
}

func (p pointJSON) decode(group curve.Curve, path string) (curve.Point, error) {
	if p.X.value == nil || p.Y.value == nil {
		return nil, fmt.Errorf("generators: %s: missing coordinate", path)
	}
	point, err := group.PointFromCoordinates(p.X.value, p.Y.value)
	if err != nil {
		return nil, fmt.Errorf("generators: %s: %w: %w", path, ErrPointNotOnCurve, err)
	}
	return point, nil
}

func decodePoints(group curve.Curve, points []pointJSON, path string) ([]curve.Point, error) {
	out := make([]curve.Point, len(points))
	for i, p := range points {
		var err error
		if out[i], err = p.decode(group, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MarshalJSON encodes the parameters in the format stored by the token contract:
//
//	{"base":{"g":{"x","y"},"h":{…}},"vectorBase":{"gs":[…],"hs":[…]}}
func (p *Params) MarshalJSON() ([]byte, error) {
	return json.Marshal(&paramsJSON{
		Base: baseJSON{
			G: toPointJSON(p.Base.G()),
			H: toPointJSON(p.Base.H()),
		},
		VectorBase: vectorBaseJSON{
			Gs: toPointsJSON(p.VectorBase.Gs.Points()),
			Hs: toPointsJSON(p.VectorBase.Hs.Points()),
		},
	})
}

// UnmarshalJSON validates every point against the curve of p, which must come from EmptyParams.
func (p *Params) UnmarshalJSON(data []byte) error {
	if p.group == nil {
		return ErrUninitialized
	}
	var pj paramsJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return fmt.Errorf("generators: %w", err)
	}
	g, err := pj.Base.G.decode(p.group, "base.g")
	if err != nil {
		return err
	}
	h, err := pj.Base.H.decode(p.group, "base.h")
	if err != nil {
		return err
	}
	gs, err := decodePoints(p.group, pj.VectorBase.Gs, "vectorBase.gs")
	if err != nil {
		return err
	}
	hs, err := decodePoints(p.group, pj.VectorBase.Hs, "vectorBase.hs")
	if err != nil {
		return err
	}
	return p.set(g, h, gs, hs)
}

type paramsMarshal struct {
	Curve  string
	G, H   []byte
	Gs, Hs [][]byte
}

func marshalPoints(points []curve.Point) ([][]byte, error) {
	out := make([][]byte, len(points))
	for i, p := range points {
		var err error
		if out[i], err = p.MarshalBinary(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func unmarshalPoint(group curve.Curve, data []byte, path string) (curve.Point, error) {
	p := group.NewPoint()
	if err := p.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("generators: %s: %w: %w", path, ErrPointNotOnCurve, err)
	}
	return p, nil
}

func unmarshalPoints(group curve.Curve, data [][]byte, path string) ([]curve.Point, error) {
	out := make([]curve.Point, len(data))
	for i, d := range data {
		var err error
		if out[i], err = unmarshalPoint(group, d, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// MarshalBinary implements encoding.BinaryMarshaler with a compact CBOR encoding.
func (p *Params) MarshalBinary() ([]byte, error) {
	g, err := p.Base.G().MarshalBinary()
	if err != nil {
		return nil, err
	}
	h, err := p.Base.H().MarshalBinary()
	if err != nil {
		return nil, err
	}
	gs, err := marshalPoints(p.VectorBase.Gs.Points())
	if err != nil {
		return nil, err
	}
	hs, err := marshalPoints(p.VectorBase.Hs.Points())
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(&paramsMarshal{Curve: p.group.Name(), G: g, H: h, Gs: gs, Hs: hs})
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler, p must come from EmptyParams.
func (p *Params) UnmarshalBinary(data []byte) error {
	if p.group == nil {
		return ErrUninitialized
	}
	var pm paramsMarshal
	if err := cbor.Unmarshal(data, &pm); err != nil {
		return fmt.Errorf("generators: %w", err)
	}
	if pm.Curve != p.group.Name() {
		return fmt.Errorf("generators: encoded for curve %q, expected %q", pm.Curve, p.group.Name())
	}
	g, err := unmarshalPoint(p.group, pm.G, "base.g")
	if err != nil {
		return err
	}
	h, err := unmarshalPoint(p.group, pm.H, "base.h")
	if err != nil {
		return err
	}
	gs, err := unmarshalPoints(p.group, pm.Gs, "vectorBase.gs")
	if err != nil {
		return err
	}
	hs, err := unmarshalPoints(p.group, pm.Hs, "vectorBase.hs")
	if err != nil {
		return err
	}
	return p.set(g, h, gs, hs)
}

func (p *Params) set(g, h curve.Point, gs, hs []curve.Point) error {
	if len(gs) != len(hs) {
		return ErrInvalidLength
	}
	for i := range gs {
		if gs[i].IsIdentity() || hs[i].IsIdentity() {
			return fmt.Errorf("generators: vectorBase[%d]: generator is the identity", i)
		}
	}
	out := newParams(p.group, g, h, gs, hs)
	if err := out.Validate(); err != nil {
		return err
	}
	*p = *out
	return nil
}
