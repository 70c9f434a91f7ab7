package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// small parameters: 2 values of 4 bits
var testFlags = []string{"--bits", "4", "--values", "2", "--workers", "2", "--log-level", "error"}

func run(t *testing.T, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append(args, testFlags...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParamsProveVerify(t *testing.T) {
	dir := t.TempDir()
	paramsPath := filepath.Join(dir, "params.json")
	out, err := run(t, "params", "--out", paramsPath)
	require.NoError(t, err)
	var info struct {
		N           int    `json:"n"`
		Fingerprint string `json:"fingerprint"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, 8, info.N)

	// the stored file has the same fingerprint
	out, err = run(t, "params", "--params", paramsPath)
	require.NoError(t, err)
	assert.Contains(t, out, info.Fingerprint)

	proofPath := filepath.Join(dir, "proof.cbor")
	out, err = run(t, "prove", "--params", paramsPath, "--amounts", "15,3", "--out", proofPath)
	require.NoError(t, err)
	var proved proveResult
	require.NoError(t, json.Unmarshal([]byte(out), &proved))
	assert.Equal(t, proofPath, proved.Proof)
	assert.Len(t, proved.Commitments, 2)
	assert.Len(t, proved.Blindings, 2)

	// hex encoded proof printed on stdout
	out, err = run(t, "prove", "--amounts", "1,2")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &proved))
	hexPath := filepath.Join(dir, "proof.hex")
	require.NoError(t, os.WriteFile(hexPath, []byte(proved.Proof+"\n"), 0o600))

	out, err = run(t, "verify", proofPath, hexPath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, ": ok"))

	_, err = run(t, "prove", "--amounts", "16,3")
	assert.Error(t, err)
	_, err = run(t, "prove", "--amounts", "1")
	assert.Error(t, err)

	// a tampered proof is rejected
	data, err := os.ReadFile(proofPath)
	require.NoError(t, err)
	data[len(data)-1] ^= 1
	tampered := filepath.Join(dir, "tampered.cbor")
	require.NoError(t, os.WriteFile(tampered, data, 0o600))
	_, err = run(t, "verify", proofPath, tampered)
	assert.Error(t, err)

	// an unreadable file fails before anything is verified
	out, err = run(t, "verify", proofPath, filepath.Join(dir, "missing.cbor"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, out)
	garbage := filepath.Join(dir, "garbage.cbor")
	require.NoError(t, os.WriteFile(garbage, []byte("0xzz"), 0o600))
	_, err = run(t, "verify", garbage, proofPath)
	assert.ErrorContains(t, err, garbage)
}

func TestCalldata(t *testing.T) {
	dir := t.TempDir()
	proofPath := filepath.Join(dir, "proof.cbor")
	_, err := run(t, "prove", "--amounts", "7,9", "--out", proofPath)
	require.NoError(t, err)

	out, err := run(t, "calldata", proofPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "0xd7c54db7"))

	out, err = run(t, "calldata", "--flat", proofPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	// header, V, points, τx and μ, L, R, then a, b and t
	assert.Len(t, lines, 2+2*2+2*4+2+2*3+2*3+3)
	assert.Equal(t, "0x1", lines[0])
}

func TestBurn(t *testing.T) {
	out, err := run(t, "burn", "0x2a", "ff")
	require.NoError(t, err)
	data, err := hexutil.Decode(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Len(t, data, 4+32*4)
	assert.Equal(t, byte(0x2a), data[len(data)-33])
	assert.Equal(t, byte(0xff), data[len(data)-1])

	_, err = run(t, "burn", "0xnothex")
	assert.Error(t, err)
}

func TestMintOpen(t *testing.T) {
	sender, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	recipient, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	out, err := run(t, "mint",
		"--amount", "5",
		"--key", hexutil.Encode(sender.Serialize()),
		"--recipient", hexutil.Encode(recipient.PubKey().SerializeCompressed()),
		"--to", "0x00000000000000000000000000000000000000aa",
	)
	require.NoError(t, err)
	var minted mintResult
	require.NoError(t, json.Unmarshal([]byte(out), &minted))
	assert.True(t, strings.HasPrefix(minted.Mint, "0xfe23245a"))
	assert.True(t, strings.HasPrefix(minted.Verify, "0xd7c54db7"))
	require.Len(t, minted.Encrypted, 3)

	out, err = run(t, "open",
		"--key", hexutil.Encode(recipient.Serialize()),
		"--counterparty", hexutil.Encode(sender.PubKey().SerializeUncompressed()),
		"--id", minted.ID,
		"--words", strings.Join(minted.Encrypted, ","),
	)
	require.NoError(t, err)
	var opened openResult
	require.NoError(t, json.Unmarshal([]byte(out), &opened))
	assert.Equal(t, uint64(5), opened.Value)
	assert.Equal(t, minted.Blinding, opened.Blinding)

	// the recipient's key alone is not the envelope key
	_, err = run(t, "open",
		"--key", hexutil.Encode(recipient.Serialize()),
		"--id", minted.ID,
		"--words", strings.Join(minted.Encrypted, ","),
	)
	assert.Error(t, err)

	_, err = run(t, "mint", "--amount", "5", "--key", "0x01", "--recipient", "0x02", "--to", "0x1")
	assert.Error(t, err)
}

func TestParseWord(t *testing.T) {
	w, err := parseWord("0x00ff")
	require.NoError(t, err)
	assert.Equal(t, uint64(255), w.Uint64())
	w, err = parseWord("ff")
	require.NoError(t, err)
	assert.Equal(t, uint64(255), w.Uint64())
	_, err = parseWord("0x1" + strings.Repeat("0", 64))
	assert.Error(t, err)
	_, err = parseWord("xyz")
	assert.Error(t, err)
}
