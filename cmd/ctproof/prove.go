package main

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/taurusgroup/ct-bulletproofs/pkg/generators"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/curve"
	"github.com/taurusgroup/ct-bulletproofs/pkg/math/sample"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pedersen"
	"github.com/taurusgroup/ct-bulletproofs/pkg/pool"
	zkrange "github.com/taurusgroup/ct-bulletproofs/pkg/zk/rangeproof"
	"golang.org/x/sync/errgroup"
)

type proveResult struct {
	// Proof is the output path, or the hex CBOR encoding when no path is given.
	Proof       string   `json:"proof"`
	Commitments []string `json:"commitments"`
	Blindings   []string `json:"blindings"`
}

func (a *app) proveCmd() *cobra.Command {
	var (
		amounts []string
		total   string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "prove",
		Short: "Commit to amounts and prove that each fits in --bits bits",
		Args:  cobra.NoArgs,
		RunE: a.withPool(func(*cobra.Command, []string) error {
			if len(amounts) != a.cfg.Values {
				return fmt.Errorf("expected %d amounts, got %d", a.cfg.Values, len(amounts))
			}
			values := make([]uint64, len(amounts))
			for i, s := range amounts {
				v, err := strconv.ParseUint(s, 0, 64)
				if err != nil {
					return fmt.Errorf("amount %d: %w", i, err)
				}
				values[i] = v
			}
			p, err := a.loadParams()
			if err != nil {
				return err
			}
			q := p.Curve().Order()
			totalBf := sample.Scalar(rand.Reader, q)
			if total != "" {
				if totalBf, err = parseWord(total); err != nil {
					return err
				}
			}

			start := time.Now()
			witnesses, commitments, err := pedersen.GenerateMultiple(rand.Reader, p.Base, values, totalBf)
			if err != nil {
				return err
			}
			proof, err := zkrange.Prove(rand.Reader, p, witnesses)
			if err != nil {
				return err
			}
			data, err := proof.MarshalBinary()
			if err != nil {
				return err
			}
			a.log.Debug().Int("m", len(values)).Int("bytes", len(data)).Dur("t", time.Since(start)).Msg("proved")

			result := proveResult{Proof: hexutil.Encode(data)}
			if out != "" {
				if err = os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write proof: %w", err)
				}
				result.Proof = out
			}
			for i, c := range commitments {
				result.Commitments = append(result.Commitments, c.CompressAlt().Hex())
				result.Blindings = append(result.Blindings, witnesses[i].Blinding().Hex())
			}
			return a.printJSON(result)
		}),
	}
	cmd.Flags().StringSliceVar(&amounts, "amounts", nil, "comma separated amounts")
	cmd.Flags().StringVar(&total, "total-blinding", "", "hex sum of the blinding factors (random when empty)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file for the CBOR proof")
	_ = cmd.MarkFlagRequired("amounts")
	return cmd
}

// readProof decodes a proof from a CBOR file, or from a file holding its 0x hex encoding.
func readProof(group curve.Curve, path string) (*zkrange.Proof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if trimmed := bytes.TrimSpace(data); bytes.HasPrefix(trimmed, []byte("0x")) {
		if data, err = hexutil.Decode(string(trimmed)); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	proof := zkrange.EmptyProof(group)
	if err = proof.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return proof, nil
}

// readProofs decodes every file on the pool, failing on the first unreadable one.
func readProofs(pl *pool.Pool, group curve.Curve, paths []string) ([]*zkrange.Proof, error) {
	return pool.ParallelizeErr(pl, len(paths), func(i int) (*zkrange.Proof, error) {
		return readProof(group, paths[i])
	})
}

var errRejected = errors.New("proofs rejected")

func (a *app) verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify proof...",
		Short: "Verify range proofs against the generators",
		Args:  cobra.MinimumNArgs(1),
		RunE: a.withPool(func(_ *cobra.Command, paths []string) error {
			group, err := curve.FromName(a.cfg.Curve)
			if err != nil {
				return err
			}
			var (
				p      *generators.Params
				proofs []*zkrange.Proof
			)
			var g errgroup.Group
			g.Go(func() (err error) {
				p, err = a.loadParams()
				return err
			})
			g.Go(func() (err error) {
				proofs, err = readProofs(a.pool, group, paths)
				return err
			})
			if err = g.Wait(); err != nil {
				return err
			}
			start := time.Now()
			results := pool.Parallelize(a.pool, len(proofs), func(i int) error {
				return proofs[i].Verify(p)
			})
			rejected := 0
			for i, err := range results {
				if err != nil {
					rejected++
					fmt.Fprintf(a.out, "%s: %v\n", paths[i], err)
					continue
				}
				fmt.Fprintf(a.out, "%s: ok\n", paths[i])
			}
			a.log.Debug().Int("proofs", len(proofs)).Int("rejected", rejected).Dur("t", time.Since(start)).Msg("verified")
			if rejected > 0 {
				return fmt.Errorf("%d of %d %w", rejected, len(proofs), errRejected)
			}
			return nil
		}),
	}
}
