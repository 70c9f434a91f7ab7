package main

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/ct-bulletproofs/pkg/envelope"
	"github.com/taurusgroup/ct-bulletproofs/pkg/transfer"
)

var errWordCount = errors.New("expected the three words encValue,encBlinding,iv")

type openResult struct {
	Value    uint64 `json:"value"`
	Blinding string `json:"blinding"`
}

func (a *app) openCmd() *cobra.Command {
	var (
		key          string
		counterparty string
		id           string
		words        []string
	)
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Decrypt the opening of an output and check it against its identifier",
		Long: "Decrypts with --key, a 32 byte symmetric key. With --counterparty, --key is a " +
			"private key and the ECDH secret with the counterparty is used instead.",
		Args: cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if len(words) != 3 {
				return errWordCount
			}
			parsed, err := parseWords(words)
			if err != nil {
				return err
			}
			outputID, err := parseWord(id)
			if err != nil {
				return err
			}
			secret, err := parsePrivateKey(key)
			if err != nil {
				return err
			}
			if counterparty != "" {
				pub, err := parsePublicKey(counterparty)
				if err != nil {
					return err
				}
				if secret, err = envelope.SharedSecret(secret, pub); err != nil {
					return err
				}
			}
			p, err := a.loadParams()
			if err != nil {
				return err
			}
			opening, err := transfer.Open(p, secret, [3]*uint256.Int{parsed[0], parsed[1], parsed[2]}, outputID)
			if err != nil {
				return err
			}
			return a.printJSON(openResult{Value: opening.Value, Blinding: opening.Blinding.Hex()})
		},
	}
	f := cmd.Flags()
	f.StringVar(&key, "key", "", "hex symmetric key, or private key with --counterparty")
	f.StringVar(&counterparty, "counterparty", "", "hex SEC1 public key of the other party")
	f.StringVar(&id, "id", "", "hex identifier of the output")
	f.StringSliceVar(&words, "words", nil, "comma separated encValue,encBlinding,iv")
	for _, name := range []string{"key", "id", "words"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
