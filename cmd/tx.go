package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

// txFlags are the flags shared by the transaction-entry commands.
type txFlags struct {
	date     string
	asset    string
	quantity string
	price    string
	fee      string
	gas      string
	memo     string
}

func (c *txFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", taxlot.Today().String(), "Transaction date")
	f.StringVar(&c.asset, "a", "", "Asset symbol (required)")
	f.StringVar(&c.quantity, "q", "", "Quantity (required)")
	f.StringVar(&c.price, "p", "", "Unit price")
	f.StringVar(&c.fee, "fee", "", "Broker commission")
	f.StringVar(&c.gas, "gas", "", "Network fee")
	f.StringVar(&c.memo, "m", "", "Free-form memo")
}

// transaction builds the transaction from the flags, appending it after the
// current stream so the sequence number keeps the ledger ordered.
func (c *txFlags) transaction(action taxlot.Action) (taxlot.Transaction, error) {
	var tx taxlot.Transaction
	if c.asset == "" {
		return tx, fmt.Errorf("missing required -a asset")
	}
	if c.quantity == "" {
		return tx, fmt.Errorf("missing required -q quantity")
	}
	date, err := taxlot.ParseDate(c.date)
	if err != nil {
		return tx, err
	}
	quantity, err := taxlot.ParseQuantity(c.quantity)
	if err != nil {
		return tx, fmt.Errorf("invalid quantity: %w", err)
	}
	price := taxlot.M(0, *defaultCurrency)
	if c.price != "" {
		if price, err = taxlot.ParseMoney(c.price, *defaultCurrency); err != nil {
			return tx, fmt.Errorf("invalid price: %w", err)
		}
	}
	fee := taxlot.M(0, *defaultCurrency)
	if c.fee != "" {
		if fee, err = taxlot.ParseMoney(c.fee, *defaultCurrency); err != nil {
			return tx, fmt.Errorf("invalid fee: %w", err)
		}
	}
	gas := taxlot.M(0, *defaultCurrency)
	if c.gas != "" {
		if gas, err = taxlot.ParseMoney(c.gas, *defaultCurrency); err != nil {
			return tx, fmt.Errorf("invalid gas: %w", err)
		}
	}

	transactions, err := DecodeLedgerFile()
	if err != nil {
		return tx, err
	}
	return taxlot.Transaction{
		Asset:    strings.ToUpper(c.asset),
		Action:   action,
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
		Gas:      gas,
		Time:     date.Time(),
		Seq:      nextSeq(transactions),
		Memo:     c.memo,
	}, nil
}

type buyCmd struct{ txFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record an acquisition" }
func (*buyCmd) Usage() string {
	return `tlt buy -a <asset> -q <quantity> -p <price> [-fee <fee>] [-gas <gas>]

  Appends a buy transaction to the ledger file, opening a new tax lot.
`
}
func (c *buyCmd) SetFlags(f *flag.FlagSet) { c.set(f) }
func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction(taxlot.Buy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendTransaction(tx)
}

type sellCmd struct {
	txFlags
	lots string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a disposal" }
func (*sellCmd) Usage() string {
	return `tlt sell -a <asset> -q <quantity> -p <price> [-lots <id:qty,...>]

  Appends a sell transaction to the ledger file. Naming lots with -lots
  selects them explicitly instead of the default matching policy.
`
}
func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.lots, "lots", "", "Explicit lot picks, as comma-separated id:quantity pairs")
}
func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tx, err := c.transaction(taxlot.Sell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.lots != "" {
		if tx.Lots, err = parseLotPicks(c.lots); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	return AppendTransaction(tx)
}

type transferCmd struct {
	txFlags
	out bool
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "record an asset transfer in or out" }
func (*transferCmd) Usage() string {
	return `tlt transfer [-out] -a <asset> -q <quantity> [-p <basis>]

  Appends a transfer to the ledger file. Incoming transfers open a lot at the
  given basis; outgoing transfers consume lots without realizing a gain.
`
}
func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.BoolVar(&c.out, "out", false, "Transfer out instead of in")
}
func (c *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	action := taxlot.TransferIn
	if c.out {
		action = taxlot.TransferOut
	}
	tx, err := c.transaction(action)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return AppendTransaction(tx)
}

// parseLotPicks parses "1:10,3:2.5" into lot picks.
func parseLotPicks(s string) ([]taxlot.LotPick, error) {
	var picks []taxlot.LotPick
	for _, pair := range strings.Split(s, ",") {
		id, qty, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("invalid lot pick %q, want id:quantity", pair)
		}
		lotID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid lot id %q: %w", id, err)
		}
		quantity, err := taxlot.ParseQuantity(qty)
		if err != nil {
			return nil, fmt.Errorf("invalid lot quantity %q: %w", qty, err)
		}
		picks = append(picks, taxlot.LotPick{Lot: taxlot.LotID(lotID), Quantity: quantity})
	}
	return picks, nil
}
