package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// Transaction renders a one-line human description of a transaction.
func Transaction(tx taxlot.Transaction) string {
	switch tx.Action {
	case taxlot.Buy:
		return fmt.Sprintf("Bought %s %s at %s", tx.Quantity, tx.Asset, tx.Price)
	case taxlot.Sell:
		return fmt.Sprintf("Sold %s %s at %s", tx.Quantity, tx.Asset, tx.Price)
	case taxlot.TransferIn:
		return fmt.Sprintf("Transferred in %s %s", tx.Quantity, tx.Asset)
	case taxlot.TransferOut:
		return fmt.Sprintf("Transferred out %s %s", tx.Quantity, tx.Asset)
	default:
		return fmt.Sprintf("%s %s %s", tx.Action, tx.Quantity, tx.Asset)
	}
}

// Transactions renders a markdown table of transactions.
func Transactions(transactions []taxlot.Transaction) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Transactions\n\n")
	fmt.Fprintln(&b, "| Date | Asset | Action | Quantity | Price | Fee |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
	for _, tx := range transactions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			tx.Date(), tx.Asset, tx.Action, tx.Quantity, tx.Price, tx.Fee)
	}
	return b.String()
}
