package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `tlt fmt

  Validates and formats the ledger file. This command reads all transactions,
  sorts them by timestamp and sequence, re-numbers the sequences, and writes
  them back in a canonical JSONL format.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	transactions, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(transactions) == 0 {
		fmt.Fprintln(os.Stderr, "Warning: no transactions to format.")
		return subcommands.ExitSuccess
	}

	canonical := taxlot.SortTransactions(transactions)

	// validate the canonical stream before overwriting anything
	results := taxlot.NewProcessor(appConfig()).Process(canonical)
	for _, e := range results.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}

	out, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := taxlot.EncodeTransactions(out, canonical); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d transactions.\n", len(canonical))
	return subcommands.ExitSuccess
}
