package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
)

func (a *app) paramsCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Derive or convert generators and print their fingerprint",
		Long: "Derives the generators for --bits⋅--values, or reads them from --params, " +
			"and writes them to --out as JSON (.json) or CBOR.",
		Args: cobra.NoArgs,
		RunE: a.withPool(func(*cobra.Command, []string) error {
			p, err := a.loadParams()
			if err != nil {
				return err
			}
			if out != "" {
				if err = writeParams(out, p); err != nil {
					return err
				}
				a.log.Info().Str("path", out).Int("n", p.Len()).Msg("wrote parameters")
			}
			return a.printJSON(struct {
				Curve       string `json:"curve"`
				N           int    `json:"n"`
				Fingerprint string `json:"fingerprint"`
			}{p.Curve().Name(), p.Len(), hexutil.Encode(p.Fingerprint())})
		}),
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}

func writeParams(path string, p *generators.Params) error {
	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = p.MarshalJSON()
	} else {
		data, err = p.MarshalBinary()
	}
	if err != nil {
		return err
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write parameters: %w", err)
	}
	return nil
}
