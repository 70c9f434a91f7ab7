package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/ct-bulletproofs/pkg/calldata"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
)

func (a *app) calldataCmd() *cobra.Command {
	var flat bool
	cmd := &cobra.Command{
		Use:   "calldata proof",
		Short: "Print the verifyPCRangeProof call for a proof",
		Long: "Prints the ABI encoded verifyPCRangeProof call, or with --flat the proof as " +
			"a single array of words, one per line.",
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			group, err := curve.FromName(a.cfg.Curve)
			if err != nil {
				return err
			}
			proof, err := readProof(group, args[0])
			if err != nil {
				return err
			}
			if flat {
				bits := a.cfg.Bits
				for _, w := range calldata.Flat(proof, bits) {
					fmt.Fprintln(a.out, w.Hex())
				}
				return nil
			}
			data, err := calldata.VerifyRangeProof(proof)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, hexutil.Encode(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&flat, "flat", false, "print the flat word layout")
	return cmd
}

func (a *app) burnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "burn id...",
		Short: "Print the burn call redeeming the given outputs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ids, err := parseWords(args)
			if err != nil {
				return err
			}
			data, err := calldata.Burn(ids)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, hexutil.Encode(data))
			return nil
		},
	}
}
