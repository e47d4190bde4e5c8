package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/criptofiscal"
	"github.com/etnz/criptofiscal/agent"
	"github.com/etnz/criptofiscal/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	ledgerFile string
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "interactive assistant over the fiscal report" }
func (*assistCmd) Usage() string {
	return `cft assist [-l <ledger.csv>] [question ...]

  Starts a chat session primed with the fiscal report built from the ledger.
  Requires the GEMINI_API_KEY environment variable.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledgerFile, "l", "ledger.csv", "Canonical ledger to discuss.")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ops, assessments, err := readLedger(c.ledgerFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	report := renderer.FiscalMarkdown(criptofiscal.Aggregate(ops, assessments))

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot create genai client: %v\n", err)
		return subcommands.ExitFailure
	}

	assistant := agent.New(os.Stdout, os.Stdin, report)
	if err := assistant.Run(ctx, client, f.Args()...); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
