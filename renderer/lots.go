package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/taxlot"
)

// LotsMarkdown renders the open lot inventory of a ledger, restricted to the
// given assets when any are named.
func LotsMarkdown(ledger *taxlot.Ledger, assets ...string) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Open Lots\n\n")

	if len(assets) == 0 {
		assets = ledger.Assets()
	}
	empty := true
	for _, asset := range assets {
		ConditionalBlock(&b, func(w io.Writer) bool {
			open := false
			fmt.Fprintf(w, "## %s\n\n", asset)
			fmt.Fprintln(w, "| Lot | Acquired | Remaining | Original | Cost/Unit | Basis |")
			fmt.Fprintln(w, "|---:|:---|---:|---:|---:|---:|")
			for lot := range ledger.OpenLotsFor(asset) {
				open = true
				fmt.Fprintf(w, "| %d | %s | %s | %s | %s | %s |\n",
					lot.ID(),
					taxlot.DateOf(lot.Acquired()),
					lot.Remaining(),
					lot.Original(),
					lot.CostPerUnit(),
					lot.CostPerUnit().Mul(lot.Remaining()),
				)
			}
			fmt.Fprintf(w, "\nTotal open: %s\n\n", ledger.OpenQuantity(asset))
			empty = empty && !open
			return open
		})
	}
	if empty {
		fmt.Fprintln(&b, "No open lots.")
	}
	return b.String()
}

// PendingMarkdown renders the still-pending wash-sale losses of the detector.
func PendingMarkdown(detector *taxlot.WashSaleDetector, assets []string) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		any := false
		fmt.Fprint(w, "## Pending Losses\n\n")
		fmt.Fprintln(w, "| Asset | Sale | Lot | Quantity | Loss | Window Ends |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|:---|")
		for _, asset := range assets {
			for _, p := range detector.Pending(asset) {
				any = true
				fmt.Fprintf(w, "| %s | %s | %d | %s | %s | %s |\n",
					p.Sale.Asset,
					taxlot.DateOf(p.Sale.Time),
					p.Lot,
					p.RemainingQty,
					p.RemainingLoss,
					p.WindowEnd,
				)
			}
		}
		return any
	})
	return b.String()
}
