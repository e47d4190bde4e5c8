package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/criptofiscal"
	"github.com/etnz/criptofiscal/renderer"
	"github.com/google/subcommands"
)

// informeCmd holds the flags for the 'informe' subcommand.
type informeCmd struct {
	ledgerFile string
	outputFile string
}

func (*informeCmd) Name() string     { return "informe" }
func (*informeCmd) Synopsis() string { return "per-year fiscal report from the canonical ledger" }
func (*informeCmd) Usage() string {
	return `cft informe [-l <ledger.csv>] [-o <informe.md>]

  Aggregates the declarable operations of the canonical ledger into per-year,
  per-asset fiscal buckets and renders the report.
`
}

func (c *informeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "ledger.csv", "Canonical ledger to report on.")
	f.StringVar(&c.outputFile, "o", "", "Also write the markdown report to this file.")
}

func (c *informeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ops, assessments, err := readLedger(c.ledgerFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	report := criptofiscal.Aggregate(ops, assessments)
	md := renderer.FiscalMarkdown(report)

	if c.outputFile != "" {
		if err := os.WriteFile(c.outputFile, []byte(md), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "cannot write %q: %v\n", c.outputFile, err)
			return subcommands.ExitFailure
		}
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
