package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/criptofiscal"
	"github.com/etnz/criptofiscal/binance"
	"github.com/google/subcommands"
)

// checkCmd holds the flags for the 'check' subcommand.
type checkCmd struct {
	binanceFile string
	strict      bool
}

func (*checkCmd) Name() string     { return "check" }
func (*checkCmd) Synopsis() string { return "verifies amount conservation of an export file" }
func (*checkCmd) Usage() string {
	return `cft check -binance <csv> [-strict]

  Parses and normalizes the export without touching the network and reports
  per-asset drifts between raw and normalized amounts, typically legs the
  splitter could not pair. Drifts are warnings; -strict makes them a failure.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.binanceFile, "binance", "", "Binance transaction history CSV export.")
	f.BoolVar(&c.strict, "strict", false, "Exit with a failure on any drift.")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.binanceFile == "" {
		fmt.Fprintln(os.Stderr, "-binance is required")
		return subcommands.ExitUsageError
	}
	cfg := criptofiscal.LoadConfig()

	events, err := parseBinance(c.binanceFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	normalizer := criptofiscal.NewNormalizer(binance.Tracker)
	normalizer.Fiat = cfg.FiatSet()
	ops := normalizer.Normalize(events)

	mismatches := criptofiscal.CheckIntegrity(events, ops)
	for _, m := range mismatches {
		fmt.Fprintf(os.Stderr, "warning: %s balance drift, raw %s vs normalized %s (diff %s)\n",
			m.Asset, m.Raw, m.Normalized, m.Diff())
	}

	fmt.Printf("%d events, %d operations, %d drifting assets\n", len(events), len(ops), len(mismatches))
	if c.strict && len(mismatches) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
