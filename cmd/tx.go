package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/criptofiscal/renderer"
	"github.com/google/subcommands"
)

// txCmd holds the flags for the 'tx' subcommand.
type txCmd struct {
	ledgerFile string
	head       int
	tail       int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list the operations of the canonical ledger" }
func (*txCmd) Usage() string {
	return `cft tx [-l <ledger.csv>] [-head <n>] [-tail <n>]

  Lists ledger operations, with options for limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.ledgerFile, "l", "ledger.csv", "Canonical ledger to list.")
	f.IntVar(&p.head, "head", 0, "Show only the first N operations.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N operations.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	ops, assessments, err := readLedger(p.ledgerFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if p.head > 0 && len(ops) > p.head {
		ops, assessments = ops[:p.head], assessments[:p.head]
	}
	if p.tail > 0 && len(ops) > p.tail {
		ops, assessments = ops[len(ops)-p.tail:], assessments[len(assessments)-p.tail:]
	}

	printMarkdown(renderer.LedgerMarkdown(ops, assessments))
	return subcommands.ExitSuccess
}
