// Package cmd implements the CLI application to manage a tax-lot ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&convertCmd{}, "converting")

	c.Register(&buyCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&fmtCmd{}, "transactions")

	c.Register(&gainsCmd{}, "reporting")
	c.Register(&lotsCmd{}, "reporting")

	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "transactions.jsonl", "Path to the ledger file containing transactions (JSONL format)")
var defaultCurrency = flag.String("currency", "USD", "Default currency for prices and fees")
var Verbose = flag.Bool("v", false, "Enable verbose logging")

// appConfig assembles the engine configuration from the global flags.
func appConfig() *taxlot.Config {
	cfg := taxlot.DefaultConfig()
	cfg.Currency = *defaultCurrency
	return cfg
}

// DecodeLedgerFile reads the app ledger file as an ordered transaction
// stream. A missing file is an empty stream.
func DecodeLedgerFile() ([]taxlot.Transaction, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()
	return taxlot.DecodeTransactions(f)
}

// AppendTransaction appends a single transaction to the app ledger file.
func AppendTransaction(tx taxlot.Transaction) subcommands.ExitStatus {
	filename := *ledgerFile
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := taxlot.EncodeTransaction(f, tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Successfully appended transaction to %s\n", filename)
	return subcommands.ExitSuccess
}

// nextSeq returns a sequence number greater than every one in the stream.
func nextSeq(transactions []taxlot.Transaction) int64 {
	var max int64
	for _, tx := range transactions {
		if tx.Seq > max {
			max = tx.Seq
		}
	}
	return max + 1
}
