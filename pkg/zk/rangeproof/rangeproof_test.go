package zkrange

import (
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pedersen"
	zkipa "github.com/taurusgroup/ct-bulletproofs/pkg/zk/ipa"
)

var testParams = generators.Generate(curve.BN254{}, 16)

func witnesses(t *testing.T, values ...uint64) []*pedersen.Commitment {
	q := testParams.Curve().Order()
	w, _, err := pedersen.GenerateMultiple(rand.Reader, testParams.Base, values, sample.Scalar(rand.Reader, q))
	require.NoError(t, err)
	return w
}

func prove(t *testing.T, values ...uint64) *Proof {
	proof, err := Prove(rand.Reader, testParams, witnesses(t, values...))
	require.NoError(t, err)
	return proof
}

func copyProof(p *Proof) *Proof {
	ipa := *p.IPA
	ipa.L = append([]curve.Point(nil), p.IPA.L...)
	ipa.R = append([]curve.Point(nil), p.IPA.R...)
	out := *p
	out.T = append([]curve.Point(nil), p.T...)
	out.Commitments = append([]curve.Point(nil), p.Commitments...)
	out.IPA = &ipa
	return &out
}

func TestRangePass(t *testing.T) {
	proof := prove(t, 210, 45)
	assert.NoError(t, proof.Verify(testParams), "failed passing test")
	assert.Len(t, proof.T, 2)
	assert.Len(t, proof.IPA.L, 4)

	// boundaries of [0, 2⁸)
	assert.NoError(t, prove(t, 0, 255).Verify(testParams))

	// a single value over 16 bits
	assert.NoError(t, prove(t, 40000).Verify(testParams))
	// 16 values of a single bit
	assert.NoError(t, prove(t, 1, 0, 1, 1, 0, 0, 1, 0, 1, 1, 1, 1, 0, 0, 0, 1).Verify(testParams))
}

func TestRangeCommitments(t *testing.T) {
	w := witnesses(t, 210, 45)
	proof, err := Prove(rand.Reader, testParams, w)
	require.NoError(t, err)
	for i := range w {
		assert.True(t, proof.Commitments[i].Equal(w[i].Commitment()))
	}
}

func TestRangeOutOfRange(t *testing.T) {
	_, err := Prove(rand.Reader, testParams, witnesses(t, 256, 45))
	assert.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = Prove(rand.Reader, testParams, witnesses(t, 1, 2, 3))
	assert.ErrorIs(t, err, ErrWitnessCount)

	_, err = Prove(rand.Reader, testParams, nil)
	assert.ErrorIs(t, err, ErrWitnessCount)

	// a negative value wraps around to a huge scalar
	q := testParams.Curve().Order()
	negative := testParams.Base.NewCommitment(q.Neg(uint256.NewInt(1)), sample.Scalar(rand.Reader, q))
	_, err = Prove(rand.Reader, testParams, []*pedersen.Commitment{negative, witnesses(t, 1)[0]})
	assert.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestRangeFail(t *testing.T) {
	proof := prove(t, 210, 45)
	require.NoError(t, proof.Verify(testParams))

	q := testParams.Curve().Order()
	one := uint256.NewInt(1)
	tweak := testParams.Curve().NewBasePoint()

	tampered := copyProof(proof)
	tampered.A = tampered.A.Add(tweak)
	assert.Error(t, tampered.Verify(testParams), "tampered A")

	tampered = copyProof(proof)
	tampered.S = tampered.S.Add(tweak)
	assert.Error(t, tampered.Verify(testParams), "tampered S")

	for i := range proof.T {
		tampered = copyProof(proof)
		tampered.T[i] = tampered.T[i].Add(tweak)
		assert.ErrorIs(t, tampered.Verify(testParams), ErrPolynomialIdentity, "tampered T[%d]", i)
	}

	tampered = copyProof(proof)
	tampered.TauX = q.Add(tampered.TauX, one)
	assert.ErrorIs(t, tampered.Verify(testParams), ErrPolynomialIdentity, "tampered τx")

	tampered = copyProof(proof)
	tampered.Tx = q.Add(tampered.Tx, one)
	assert.ErrorIs(t, tampered.Verify(testParams), ErrPolynomialIdentity, "tampered t")

	tampered = copyProof(proof)
	tampered.Mu = q.Add(tampered.Mu, one)
	assert.ErrorIs(t, tampered.Verify(testParams), ErrInnerProduct, "tampered μ")

	for i := range proof.IPA.L {
		tampered = copyProof(proof)
		tampered.IPA.L[i] = tampered.IPA.L[i].Add(tweak)
		assert.ErrorIs(t, tampered.Verify(testParams), ErrInnerProduct, "tampered L[%d]", i)
	}

	tampered = copyProof(proof)
	tampered.IPA.B = q.Add(tampered.IPA.B, one)
	assert.ErrorIs(t, tampered.Verify(testParams), ErrInnerProduct, "tampered b")
}

func TestRangeSwappedCommitment(t *testing.T) {
	proof := prove(t, 210, 45)
	unrelated := prove(t, 210, 45)

	tampered := copyProof(proof)
	tampered.Commitments[1] = unrelated.Commitments[1]
	assert.Error(t, tampered.Verify(testParams))

	tampered = copyProof(proof)
	tampered.Commitments[0], tampered.Commitments[1] = tampered.Commitments[1], tampered.Commitments[0]
	assert.Error(t, tampered.Verify(testParams))
}

func TestRangeMalformed(t *testing.T) {
	proof := prove(t, 210, 45)

	tampered := copyProof(proof)
	tampered.T = tampered.T[:1]
	assert.ErrorIs(t, tampered.Verify(testParams), ErrMalformedProof)

	tampered = copyProof(proof)
	tampered.Commitments = append(tampered.Commitments, tampered.Commitments[0])
	assert.ErrorIs(t, tampered.Verify(testParams), ErrMalformedProof)

	tampered = copyProof(proof)
	tampered.IPA = &zkipa.Proof{L: proof.IPA.L[:2], R: proof.IPA.R[:2], A: proof.IPA.A, B: proof.IPA.B}
	assert.ErrorIs(t, tampered.Verify(testParams), ErrInnerProduct)

	tampered = copyProof(proof)
	tampered.IPA = nil
	assert.ErrorIs(t, tampered.Verify(testParams), ErrMalformedProof)

	// proving with a 16 bit width and verifying with 8 bits per value
	single := prove(t, 300)
	assert.NoError(t, single.Verify(testParams))
	assert.Error(t, single.Verify(generators.Generate(curve.BN254{}, 8)))
}

func TestRangeMarshal(t *testing.T) {
	proof := prove(t, 210, 45)
	data, err := proof.MarshalBinary()
	require.NoError(t, err, "failed to marshal proof")

	proof2 := EmptyProof(curve.BN254{})
	require.NoError(t, proof2.UnmarshalBinary(data), "failed to unmarshal proof")
	assert.NoError(t, proof2.Verify(testParams))

	data2, err := proof2.MarshalBinary()
	require.NoError(t, err, "failed to marshal 2nd proof")
	assert.Equal(t, data, data2)

	assert.Error(t, new(Proof).UnmarshalBinary(data))
}

func TestRangeCalldata(t *testing.T) {
	proof := prove(t, 210, 45)
	calldata := proof.Calldata()

	require.Len(t, calldata[0], 4)
	vx, vy := proof.Commitments[1].Coordinates()
	assert.True(t, calldata[0][2].Eq(vx))
	assert.True(t, calldata[0][3].Eq(vy))

	require.Len(t, calldata[1], 8)
	t2x, t2y := proof.T[1].Coordinates()
	assert.True(t, calldata[1][6].Eq(t2x))
	assert.True(t, calldata[1][7].Eq(t2y))
	sx, _ := proof.S.Coordinates()
	assert.True(t, calldata[1][2].Eq(sx))

	require.Len(t, calldata[2], 5)
	assert.True(t, calldata[2][0].Eq(proof.TauX))
	assert.True(t, calldata[2][1].Eq(proof.Mu))
	assert.True(t, calldata[2][2].Eq(proof.Tx))
	assert.True(t, calldata[2][3].Eq(proof.IPA.A))
	assert.True(t, calldata[2][4].Eq(proof.IPA.B))

	assert.Len(t, calldata[3], 8)
	assert.Len(t, calldata[4], 8)

	// 8 | 4 << 64 | 8 << 128 | 8 << 192
	expected := new(uint256.Int).SetUint64(8)
	expected.Or(expected, new(uint256.Int).Lsh(uint256.NewInt(4), 64))
	expected.Or(expected, new(uint256.Int).Lsh(uint256.NewInt(8), 128))
	expected.Or(expected, new(uint256.Int).Lsh(uint256.NewInt(8), 192))
	assert.True(t, proof.Meta(BitsPerValue(testParams, len(proof.Commitments))).Eq(expected))
	assert.Equal(t, "0x8000000000000000800000000000000040000000000000008", proof.Meta(8).Hex())
}
