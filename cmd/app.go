// Package cmd implements the CLI application to build and inspect the
// fiscal ledger.
package cmd

import (
	"fmt"
	"os"

	"github.com/etnz/criptofiscal"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&processCmd{}, "pipeline")
	c.Register(&checkCmd{}, "pipeline")

	c.Register(&informeCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&assistCmd{}, "reports")
}

// readLedger loads the canonical ledger produced by 'process'.
func readLedger(path string) ([]criptofiscal.Operation, []criptofiscal.Assessment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open ledger %q: %w", path, err)
	}
	defer f.Close()
	return criptofiscal.DecodeLedger(f)
}
