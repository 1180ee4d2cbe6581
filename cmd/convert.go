package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

// convertCmd holds the flags for the 'convert' subcommand.
type convertCmd struct {
	format  string
	records string
	output  string
	qif     bool

	mapping mappingFlags
}

// mappingFlags binds the field mapping to command line flags.
type mappingFlags struct {
	date, action, asset, quantity, price, fee, gas, memo string
}

func (m *mappingFlags) set(f *flag.FlagSet) {
	f.StringVar(&m.date, "date", "Date", "Source column or JSONPath for the transaction date")
	f.StringVar(&m.action, "action", "Action", "Source column or JSONPath for the action (buy, sell, ...)")
	f.StringVar(&m.asset, "asset", "Symbol", "Source column or JSONPath for the asset symbol")
	f.StringVar(&m.quantity, "quantity", "Quantity", "Source column or JSONPath for the quantity")
	f.StringVar(&m.price, "price", "Price", "Source column or JSONPath for the unit price")
	f.StringVar(&m.fee, "fee", "", "Source column or JSONPath for the commission")
	f.StringVar(&m.gas, "gas", "", "Source column or JSONPath for the network fee")
	f.StringVar(&m.memo, "memo", "", "Source column or JSONPath for a free-form memo")
}

func (m *mappingFlags) mapping() taxlot.Mapping {
	return taxlot.Mapping{
		Date:     m.date,
		Action:   m.action,
		Asset:    m.asset,
		Quantity: m.quantity,
		Price:    m.price,
		Fee:      m.fee,
		Gas:      m.gas,
		Memo:     m.memo,
		Currency: *defaultCurrency,
	}
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "converts a broker export into the ledger format" }
func (*convertCmd) Usage() string {
	return `tlt convert [-format csv|json] [-qif] [-o <file>] <export-file>

  Reads a broker or exchange export and converts it into the canonical JSONL
  ledger format, or into QIF with -qif. Column names (or JSONPath expressions
  with -format json) are given by the mapping flags.

Usage Examples:
# Convert a broker CSV using its column headers.
$ tlt convert -date "Trade Date" -action Type -asset Symbol export.csv

# Convert an exchange JSON export.
$ tlt convert -format json -records "$.trades" -date "$.executed" export.json
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "csv", "Input format: csv or json")
	f.StringVar(&c.records, "records", "$", "JSONPath expression selecting the record array (json format only)")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to stdout.")
	f.BoolVar(&c.qif, "qif", false, "Emit QIF instead of JSONL")
	c.mapping.set(f)
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "expected exactly one export file to convert")
		return subcommands.ExitUsageError
	}
	in, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export file: %v\n", err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	var transactions []taxlot.Transaction
	switch strings.ToLower(c.format) {
	case "csv":
		transactions, err = taxlot.ImportCSV(in, c.mapping.mapping())
	case "json":
		transactions, err = taxlot.ImportJSON(in, c.records, c.mapping.mapping())
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q, want csv or json\n", c.format)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting: %v\n", err)
		return subcommands.ExitFailure
	}

	var out io.Writer = os.Stdout
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			return subcommands.ExitFailure
		}
		defer f.Close()
		out = f
	}

	if c.qif {
		err = taxlot.EncodeQIF(out, transactions)
	} else {
		err = taxlot.EncodeTransactions(out, transactions)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Converted %d transactions.\n", len(transactions))
	return subcommands.ExitSuccess
}
