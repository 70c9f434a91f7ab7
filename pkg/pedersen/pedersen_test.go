package pedersen

import (
	"crypto/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
)

func testBase() *Base {
	group := curve.BN254{}
	return New(group.HashToPoint([]byte("G")), group.HashToPoint([]byte("H")))
}

func TestValidateParameters(t *testing.T) {
	group := curve.BN254{}
	g, h := group.HashToPoint([]byte("G")), group.HashToPoint([]byte("H"))
	assert.NoError(t, ValidateParameters(g, h))
	assert.ErrorIs(t, ValidateParameters(nil, h), ErrNilFields)
	assert.ErrorIs(t, ValidateParameters(g, g), ErrGeneratorsEqual)
	assert.ErrorIs(t, ValidateParameters(group.NewPoint(), h), ErrIdentity)
	assert.ErrorIs(t, ValidateParameters(g, curve.Secp256k1{}.NewBasePoint()), ErrCurveMismatch)
}

func TestCommitmentHomomorphism(t *testing.T) {
	base := testBase()
	q := base.Order()
	a := base.NewCommitment(sample.Scalar(rand.Reader, q), sample.Scalar(rand.Reader, q))
	b := base.NewCommitment(sample.Scalar(rand.Reader, q), sample.Scalar(rand.Reader, q))
	k := sample.Scalar(rand.Reader, q)

	assert.True(t, a.Add(b).Commitment().Equal(a.Commitment().Add(b.Commitment())))
	assert.True(t, a.Times(k).Commitment().Equal(a.Commitment().Mul(k)))
	assert.True(t, a.AddConstant(k).Commitment().Equal(a.Commitment().Add(base.G().Mul(k))))
	assert.True(t, base.Verify(a.Value(), a.Blinding(), a.Commitment()))
	assert.False(t, base.Verify(a.Value(), b.Blinding(), a.Commitment()))
}

func TestGenerateMultiple(t *testing.T) {
	base := testBase()
	q := base.Order()
	totalBf := sample.Scalar(rand.Reader, q)
	values := []uint64{5, 0, 1 << 40, 17}

	witnesses, commitments, err := GenerateMultiple(rand.Reader, base, values, totalBf)
	require.NoError(t, err)
	require.Len(t, witnesses, len(values))
	require.Len(t, commitments, len(values))

	sum := new(uint256.Int)
	for i, w := range witnesses {
		assert.True(t, w.Value().Eq(uint256.NewInt(values[i])))
		assert.True(t, w.Commitment().Equal(commitments[i]))
		sum = q.Add(sum, w.Blinding())
	}
	assert.True(t, sum.Eq(totalBf))

	_, _, err = GenerateMultiple(rand.Reader, base, nil, totalBf)
	assert.ErrorIs(t, err, ErrNoValues)
}

func TestGenerateMultipleTransfer(t *testing.T) {
	base := testBase()
	q := base.Order()
	witnesses, commitments, err := GenerateMultiple(rand.Reader, base, []uint64{210, 45}, uint256.NewInt(7))
	require.NoError(t, err)

	sum := q.Add(witnesses[0].Blinding(), witnesses[1].Blinding())
	assert.True(t, sum.Eq(uint256.NewInt(7)))

	// C₀⋅C₁ = g²⁵⁵⋅h⁷
	assert.True(t, commitments[0].Add(commitments[1]).Equal(base.Commit(uint256.NewInt(255), uint256.NewInt(7))))
}

func TestPolyCommitmentEvaluate(t *testing.T) {
	base := testBase()
	q := base.Order()
	c0 := sample.Scalar(rand.Reader, q)
	cs := []*uint256.Int{sample.Scalar(rand.Reader, q), sample.Scalar(rand.Reader, q)}
	poly := NewPolyCommitment(rand.Reader, base, c0, cs)
	nonPlaceholder := poly.NonPlaceholderCommitments()
	require.Len(t, nonPlaceholder, 2)

	// the placeholder carries no blinding
	assert.True(t, poly.Evaluate(new(uint256.Int)).Commitment().Equal(base.G().Mul(c0)))

	x := sample.Scalar(rand.Reader, q)
	evaluated := poly.Evaluate(x)

	// t(x) = c₀ + c₁⋅x + c₂⋅x²
	expected := q.Add(c0, q.Add(q.Mul(cs[0], x), q.Mul(cs[1], q.Square(x))))
	assert.True(t, evaluated.Value().Eq(expected))

	// ∏ Cᵢ^{xⁱ}
	expectedPoint := base.G().Mul(c0).
		Add(nonPlaceholder[0].Mul(x)).
		Add(nonPlaceholder[1].Mul(q.Square(x)))
	assert.True(t, evaluated.Commitment().Equal(expectedPoint))
}
