package generators

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pool"
)

func TestGenerateKnownValues(t *testing.T) {
	params := Generate(curve.BN254{}, 16)
	require.Equal(t, 16, params.Len())

	x, y := params.VectorBase.Gs.Get(0).Coordinates()
	assert.Equal(t, "0x2ee9d9ac7c3c8401799229d12a921be0a53a94e947b8fe4ad53c10271589475b", x.Hex())
	assert.Equal(t, "0x27e30be9524ec86fa23ffd86df08f7534f873cfcd1c476acb06932f45e4b1aa3", y.Hex())

	x, y = params.VectorBase.Hs.Get(0).Coordinates()
	assert.Equal(t, "0x5b15e337abcece819885de2ed3156ffcabec15a950f964404243ac3fcc3bf14", x.Hex())
	assert.Equal(t, "0x113704c3c34b857f7597bc982ed9ca82ea0f3abf9806b8da6d72c18552e7d308", y.Hex())

	x, y = params.Base.G().Coordinates()
	assert.Equal(t, "0x77da99d806abd13c9f15ece5398525119d11e11e9836b2ee7d23f6159ad87d4", x.Hex())
	assert.Equal(t, "0x1485efa927f2ad41bff567eec88f32fb0a0f706588b4e41a8d587d008b7f875", y.Hex())

	assert.True(t, params.VectorBase.H.Equal(params.Base.H()))
	assert.NoError(t, params.Validate())
}

func TestGenerateDeterministic(t *testing.T) {
	pl := pool.NewPool(0)
	defer pl.TearDown()

	a := Generate(curve.BN254{}, 8)
	b := GenerateWithPool(pl, curve.BN254{}, 8)
	for i := 0; i < 8; i++ {
		assert.True(t, a.VectorBase.Gs.Get(i).Equal(b.VectorBase.Gs.Get(i)))
		assert.True(t, a.VectorBase.Hs.Get(i).Equal(b.VectorBase.Hs.Get(i)))
	}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), Generate(curve.BN254{}, 4).Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), Generate(curve.Secp256k1{}, 8).Fingerprint())

	assert.Panics(t, func() { Generate(curve.BN254{}, 6) })
}

func TestJSONRoundTrip(t *testing.T) {
	params := Generate(curve.BN254{}, 4)
	data, err := json.Marshal(params)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"vectorBase":{"gs":[{"x":"2ee9d9ac`)
	assert.NotContains(t, string(data), `"0x`)

	decoded := EmptyParams(curve.BN254{})
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, params.Fingerprint(), decoded.Fingerprint())

	assert.ErrorIs(t, json.Unmarshal(data, &Params{}), ErrUninitialized)
}

func TestJSONPrefixedHex(t *testing.T) {
	params := Generate(curve.BN254{}, 2)
	data, err := json.Marshal(params)
	require.NoError(t, err)

	// g.x has a zero leading nibble, which is not padded
	assert.Contains(t, string(data), `"g":{"x":"77da99d806abd13c9f15ece5398525119d11e11e9836b2ee7d23f6159ad87d4"`)

	prefixed := strings.ReplaceAll(string(data), `":"`, `":"0x`)
	decoded := EmptyParams(curve.BN254{})
	require.NoError(t, json.Unmarshal([]byte(prefixed), decoded))
	assert.True(t, bytes.Equal(params.Fingerprint(), decoded.Fingerprint()))
}

func TestJSONRejectsOffCurve(t *testing.T) {
	params := Generate(curve.BN254{}, 2)
	data, err := json.Marshal(params)
	require.NoError(t, err)

	x, _ := params.VectorBase.Hs.Get(1).Coordinates()
	original := `"x":"` + strings.TrimPrefix(x.Hex(), "0x") + `"`
	require.Contains(t, string(data), original)
	corrupted := strings.Replace(string(data), original, `"x":"1"`, 1)

	err = json.Unmarshal([]byte(corrupted), EmptyParams(curve.BN254{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPointNotOnCurve)
	assert.Contains(t, err.Error(), "vectorBase.hs[1]")

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["vectorBase"].(map[string]interface{})["hs"] = raw["vectorBase"].(map[string]interface{})["hs"].([]interface{})[:1]
	uneven, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.ErrorIs(t, json.Unmarshal(uneven, EmptyParams(curve.BN254{})), ErrInvalidLength)
}

func TestBinaryRoundTrip(t *testing.T) {
	params := Generate(curve.BN254{}, 8)
	data, err := params.MarshalBinary()
	require.NoError(t, err)

	decoded := EmptyParams(curve.BN254{})
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, params.Fingerprint(), decoded.Fingerprint())

	assert.Error(t, EmptyParams(curve.Secp256k1{}).UnmarshalBinary(data), "curve mismatch")
	assert.ErrorIs(t, new(Params).UnmarshalBinary(data), ErrUninitialized)
}
