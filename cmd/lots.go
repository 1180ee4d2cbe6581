package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

// lotsCmd displays the open lot inventory.
type lotsCmd struct {
	asset string
}

func (*lotsCmd) Name() string     { return "lots" }
func (*lotsCmd) Synopsis() string { return "open lot inventory" }
func (*lotsCmd) Usage() string {
	return `tlt lots [-asset <symbol>]

  Replays the ledger and displays the remaining open lots per asset, with
  their acquisition date, remaining quantity and cost basis per unit.
`
}

func (c *lotsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.asset, "asset", "", "Only show lots for this asset")
}

func (c *lotsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	transactions, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	processor := taxlot.NewProcessor(appConfig())
	results := processor.Process(transactions)
	for _, e := range results.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}

	ledger := processor.Ledger()
	if c.asset == "" {
		printMarkdown(renderer.LotsMarkdown(ledger))
		return subcommands.ExitSuccess
	}
	found := false
	for _, a := range ledger.Assets() {
		if a == c.asset {
			found = true
		}
	}
	if !found {
		fmt.Fprintf(os.Stderr, "Unknown asset %q\n", c.asset)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.LotsMarkdown(ledger, c.asset))
	return subcommands.ExitSuccess
}
