package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/ct-bulletproofs/internal/config"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pool"
)

type app struct {
	cfg  config.Config
	log  zerolog.Logger
	pool *pool.Pool
	out  io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{cfg: config.Default(), log: zerolog.Nop(), out: out}
	root := &cobra.Command{
		Use:          "ctproof",
		Short:        "Range proofs and envelopes for the confidential token contract",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			a.log = a.cfg.Logger(errOut)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	f := root.PersistentFlags()
	f.StringVar(&a.cfg.Curve, "curve", a.cfg.Curve, "curve of the commitments")
	f.IntVar(&a.cfg.Bits, "bits", a.cfg.Bits, "bit width of a single value")
	f.IntVar(&a.cfg.Values, "values", a.cfg.Values, "number of values proven together")
	f.StringVar(&a.cfg.ParamsPath, "params", "", "generators file, .json or CBOR (derived when empty)")
	f.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "trace, debug, info, warn or error")
	f.BoolVar(&a.cfg.JSONLog, "json-log", false, "log JSON instead of console output")
	f.IntVar(&a.cfg.Workers, "workers", 0, "worker pool size, 0 uses all CPUs")

	root.AddCommand(
		a.paramsCmd(),
		a.proveCmd(),
		a.verifyCmd(),
		a.calldataCmd(),
		a.burnCmd(),
		a.mintCmd(),
		a.openCmd(),
	)
	return root
}

// withPool runs f with a fresh worker pool.
func (a *app) withPool(f func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a.pool = a.cfg.Pool()
		defer func() {
			a.pool.TearDown()
			a.pool = nil
		}()
		return f(cmd, args)
	}
}

func (a *app) loadParams() (*generators.Params, error) {
	return a.cfg.LoadParams(a.pool, a.log)
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// parseWord accepts a hex number of at most 256 bits, with or without 0x prefix.
func parseWord(s string) (*uint256.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, ok := new(big.Int).SetString(digits, 16)
	if !ok || b.Sign() < 0 {
		return nil, fmt.Errorf("invalid hex word %q", s)
	}
	w, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("hex word %q exceeds 256 bits", s)
	}
	return w, nil
}

func parseWords(values []string) ([]*uint256.Int, error) {
	out := make([]*uint256.Int, len(values))
	for i, v := range values {
		w, err := parseWord(v)
		if err != nil {
			return nil, err
		}
		out[i] = w
	}
	return out, nil
}

func hexWords(words []*uint256.Int) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.Hex()
	}
	return out
}

// parsePrivateKey decodes a 32 byte secp256k1 private key.
func parsePrivateKey(s string) ([]byte, error) {
	key, err := hexutil.Decode(ensurePrefix(s))
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("private key: expected 32 bytes, got %d", len(key))
	}
	return key, nil
}

// parsePublicKey decodes a compressed or uncompressed SEC1 secp256k1 public key.
func parsePublicKey(s string) (curve.Point, error) {
	data, err := hexutil.Decode(ensurePrefix(s))
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	pk, err := secp256k1.ParsePubKey(data)
	if err != nil {
		return nil, fmt.Errorf("public key: %w", err)
	}
	x, _ := uint256.FromBig(pk.X())
	y, _ := uint256.FromBig(pk.Y())
	return curve.Secp256k1{}.PointFromCoordinates(x, y)
}

func ensurePrefix(s string) string {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return s
	}
	return "0x" + s
}
