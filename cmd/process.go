package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/criptofiscal"
	"github.com/etnz/criptofiscal/binance"
	"github.com/etnz/criptofiscal/coinbase"
	"github.com/google/subcommands"
)

// processCmd holds the flags for the 'process' subcommand.
type processCmd struct {
	binanceFile  string
	coinbaseFile string
	outputFile   string
}

func (*processCmd) Name() string { return "process" }
func (*processCmd) Synopsis() string {
	return "builds the canonical EUR ledger from exchange export files"
}
func (*processCmd) Usage() string {
	return `cft process [-binance <csv>] [-coinbase <csv>] [-o <ledger.csv>]

  Parses the export files, normalizes and classifies the operations, values
  every leg in EUR, assesses them against the FIFO book and writes the
  canonical ledger.
`
}

func (c *processCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.binanceFile, "binance", "", "Binance transaction history CSV export.")
	f.StringVar(&c.coinbaseFile, "coinbase", "", "Coinbase account statement CSV export.")
	f.StringVar(&c.outputFile, "o", "ledger.csv", "Canonical ledger output file.")
}

func (c *processCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.binanceFile == "" && c.coinbaseFile == "" {
		fmt.Fprintln(os.Stderr, "at least one of -binance or -coinbase is required")
		return subcommands.ExitUsageError
	}
	cfg := criptofiscal.LoadConfig()

	var ops []criptofiscal.Operation

	if c.binanceFile != "" {
		events, err := parseBinance(c.binanceFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		normalizer := criptofiscal.NewNormalizer(binance.Tracker)
		normalizer.Fiat = cfg.FiatSet()
		normalized := normalizer.Normalize(events)
		for _, m := range criptofiscal.CheckIntegrity(events, normalized) {
			fmt.Fprintf(os.Stderr, "warning: %s balance drift, raw %s vs normalized %s (diff %s)\n",
				m.Asset, m.Raw, m.Normalized, m.Diff())
		}
		ops = append(ops, normalized...)
	}

	if c.coinbaseFile != "" {
		cbOps, err := parseCoinbase(c.coinbaseFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		ops = append(ops, cbOps...)
	}

	criptofiscal.SortOperations(ops)

	var db *criptofiscal.PriceDB
	if cfg.CachePath != "" {
		var err error
		if db, err = criptofiscal.OpenPriceDB(cfg.CachePath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer db.Close()
	}

	valuer := criptofiscal.NewValuer(criptofiscal.NewOracle(cfg, db))
	valuer.Fiat = cfg.FiatSet()
	if missing := valuer.Value(ops); len(missing) > 0 {
		for _, err := range missing {
			fmt.Fprintln(os.Stderr, err)
		}
		fmt.Fprintf(os.Stderr, "%d legs could not be valued, ledger not written\n", len(missing))
		return subcommands.ExitFailure
	}

	assessments, err := criptofiscal.NewFIFO(cfg.Precision).Assess(ops)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	out, err := os.Create(c.outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create %q: %v\n", c.outputFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := criptofiscal.EncodeLedger(out, ops, assessments); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Wrote %d operations to %s\n", len(ops), c.outputFile)
	return subcommands.ExitSuccess
}

func parseBinance(path string) ([]criptofiscal.RawEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	events, warnings, err := binance.Parse(f)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", path, w)
	}
	return events, nil
}

func parseCoinbase(path string) ([]criptofiscal.Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()
	ops, warnings, err := coinbase.Parse(f)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", path, w)
	}
	return ops, nil
}
