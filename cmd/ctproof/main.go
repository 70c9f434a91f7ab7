// Command ctproof generates parameters, proves and verifies aggregated range
// proofs, and prepares the calls of the confidential token contract.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
