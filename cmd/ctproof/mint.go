package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/ct-bulletproofs/pkg/calldata"
	"github.com/taurusgroup/ct-bulletproofs/pkg/transfer"
)

type mintResult struct {
	ID        string   `json:"id"`
	Blinding  string   `json:"blinding"`
	Encrypted []string `json:"encrypted"`
	// Verify is the verifyPCRangeProof call, Mint the mint call.
	Verify string `json:"verify"`
	Mint   string `json:"mint"`
}

func (a *app) mintCmd() *cobra.Command {
	var (
		amount    uint64
		key       string
		recipient string
		to        string
	)
	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Create a single output for a recipient and the calls crediting it",
		Args:  cobra.NoArgs,
		RunE: a.withPool(func(*cobra.Command, []string) error {
			if !common.IsHexAddress(to) {
				return fmt.Errorf("invalid address %q", to)
			}
			priv, err := parsePrivateKey(key)
			if err != nil {
				return err
			}
			pub, err := parsePublicKey(recipient)
			if err != nil {
				return err
			}
			p, err := a.loadParams()
			if err != nil {
				return err
			}

			b := transfer.NewBuilder(p)
			b.Log = a.log.With().Str("cmd", "mint").Logger()
			mint, err := b.Mint(amount, priv, pub)
			if err != nil {
				return err
			}
			verify, err := calldata.VerifyRangeProof(mint.Proof)
			if err != nil {
				return err
			}
			words := mint.Output.Envelope.Words()
			call, err := calldata.Mint(common.HexToAddress(to), mint.Output.ID, words)
			if err != nil {
				return err
			}
			return a.printJSON(mintResult{
				ID:        mint.Output.ID.Hex(),
				Blinding:  mint.Output.Witness.Blinding().Hex(),
				Encrypted: hexWords(words[:]),
				Verify:    hexutil.Encode(verify),
				Mint:      hexutil.Encode(call),
			})
		}),
	}
	f := cmd.Flags()
	f.Uint64Var(&amount, "amount", 0, "minted amount")
	f.StringVar(&key, "key", "", "hex private key of the sender")
	f.StringVar(&recipient, "recipient", "", "hex SEC1 public key of the recipient")
	f.StringVar(&to, "to", "", "account credited on the contract")
	for _, name := range []string{"key", "recipient", "to"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
