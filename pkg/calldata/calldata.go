// Package calldata encodes proofs and transfer payloads as calls to the
// confidential token contract, following the Ethereum contract ABI.
package calldata

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	zkrange "github.com/taurusgroup/ct-bulletproofs/pkg/zk/rangeproof"
)

// TokenABI is the subset of the confidential token contract driven by this module.
const TokenABI = `[
	{"type":"function","name":"verifyPCRangeProof","inputs":[
		{"name":"commitments","type":"uint256[]"},
		{"name":"coords","type":"uint256[]"},
		{"name":"scalars","type":"uint256[]"},
		{"name":"ls","type":"uint256[]"},
		{"name":"rs","type":"uint256[]"}],"outputs":[{"name":"","type":"bool"}]},
	{"type":"function","name":"mint","inputs":[
		{"name":"to","type":"address"},
		{"name":"id","type":"uint256"},
		{"name":"encryptedData","type":"uint256[]"}],"outputs":[]},
	{"type":"function","name":"transfer","inputs":[
		{"name":"to","type":"address"},
		{"name":"idTo","type":"uint256"},
		{"name":"idChange","type":"uint256"},
		{"name":"inputs","type":"uint256[]"},
		{"name":"encryptedData","type":"uint256[]"}],"outputs":[]},
	{"type":"function","name":"withdraw","inputs":[
		{"name":"idTo","type":"uint256"},
		{"name":"idChange","type":"uint256"},
		{"name":"inputs","type":"uint256[]"},
		{"name":"encryptedData","type":"uint256[]"}],"outputs":[]},
	{"type":"function","name":"burn","inputs":[
		{"name":"ids","type":"uint256[]"}],"outputs":[]}
]`

const (
	MethodVerify   = "verifyPCRangeProof"
	MethodMint     = "mint"
	MethodTransfer = "transfer"
	MethodWithdraw = "withdraw"
	MethodBurn     = "burn"
)

var tokenABI = mustParse(TokenABI)

func mustParse(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(fmt.Sprintf("calldata: invalid contract ABI: %v", err))
	}
	return parsed
}

// ABI returns the parsed contract ABI.
func ABI() abi.ABI {
	return tokenABI
}

func toBig(words []*uint256.Int) []*big.Int {
	out := make([]*big.Int, len(words))
	for i, w := range words {
		out[i] = w.ToBig()
	}
	return out
}

// VerifyRangeProof returns the call to verifyPCRangeProof for the proof, with the
// five arrays in the order of zkrange.Proof.Calldata.
func VerifyRangeProof(proof *zkrange.Proof) ([]byte, error) {
	arrays := proof.Calldata()
	args := make([]interface{}, len(arrays))
	for i, a := range arrays {
		args[i] = toBig(a)
	}
	data, err := tokenABI.Pack(MethodVerify, args...)
	if err != nil {
		return nil, fmt.Errorf("calldata: pack %s: %w", MethodVerify, err)
	}
	return data, nil
}

// Mint returns the call crediting the output id to the account to, together with
// the encrypted opening [encValue, encBlinding, iv].
func Mint(to common.Address, id *uint256.Int, encrypted [3]*uint256.Int) ([]byte, error) {
	data, err := tokenABI.Pack(MethodMint, to, id.ToBig(), toBig(encrypted[:]))
	if err != nil {
		return nil, fmt.Errorf("calldata: pack %s: %w", MethodMint, err)
	}
	return data, nil
}

// Transfer returns the call spending inputs into the outputs idTo, credited to
// the account to, and idChange, credited back to the sender. encrypted holds the
// recipient triple followed by the change triple.
func Transfer(to common.Address, idTo, idChange *uint256.Int, inputs []*uint256.Int, encrypted [6]*uint256.Int) ([]byte, error) {
	data, err := tokenABI.Pack(MethodTransfer, to, idTo.ToBig(), idChange.ToBig(), toBig(inputs), toBig(encrypted[:]))
	if err != nil {
		return nil, fmt.Errorf("calldata: pack %s: %w", MethodTransfer, err)
	}
	return data, nil
}

// Withdraw is like Transfer, with the central bank of the contract as recipient.
func Withdraw(idTo, idChange *uint256.Int, inputs []*uint256.Int, encrypted [6]*uint256.Int) ([]byte, error) {
	data, err := tokenABI.Pack(MethodWithdraw, idTo.ToBig(), idChange.ToBig(), toBig(inputs), toBig(encrypted[:]))
	if err != nil {
		return nil, fmt.Errorf("calldata: pack %s: %w", MethodWithdraw, err)
	}
	return data, nil
}

// Burn returns the call destroying the outputs ids, redeeming their whole value.
func Burn(ids []*uint256.Int) ([]byte, error) {
	data, err := tokenABI.Pack(MethodBurn, toBig(ids))
	if err != nil {
		return nil, fmt.Errorf("calldata: pack %s: %w", MethodBurn, err)
	}
	return data, nil
}

// Flat serializes a single proof as one array, the layout used when several proofs
// are batched into one word stream:
//
//	[1, meta, V…, A, S, T₁, T₂, τx, μ, L…, R…, a, b, t]
func Flat(proof *zkrange.Proof, bits int) []*uint256.Int {
	arrays := proof.Calldata()
	scalars := arrays[2]
	out := make([]*uint256.Int, 0, 2+len(arrays[0])+len(arrays[1])+len(arrays[3])+len(arrays[4])+len(scalars))
	out = append(out, uint256.NewInt(1), proof.Meta(bits))
	out = append(out, arrays[0]...)
	out = append(out, arrays[1]...)
	// τx, μ
	out = append(out, scalars[0], scalars[1])
	out = append(out, arrays[3]...)
	out = append(out, arrays[4]...)
	// a, b, t
	out = append(out, scalars[3], scalars[4], scalars[2])
	return out
}
