package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/taxlot"
)

// GainsMarkdown renders a realized gains report to a markdown string.
func GainsMarkdown(report *taxlot.GainsReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Realized Gains from %s to %s\n\n", report.Range.From, report.Range.To)
	fmt.Fprintf(&b, "Matching policy: %s\n\n", report.Policy)

	fmt.Fprint(&b, "## Gains per Asset\n\n")
	fmt.Fprintln(&b, "| Asset | Quantity | Proceeds | Basis | Short Term | Long Term | Disallowed | Net |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")

	for _, g := range report.Assets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			g.Asset,
			g.Quantity,
			g.Proceeds,
			g.Basis,
			g.ShortGain.SignedString(),
			g.LongGain.SignedString(),
			g.Disallowed.SignedString(),
			g.Gain().SignedString(),
		)
	}
	fmt.Fprintf(&b, "| **Total** | %s | %s | %s | **%s** | **%s** | **%s** | **%s** |\n",
		report.Quantity,
		report.Proceeds,
		report.Basis,
		report.ShortGain.SignedString(),
		report.LongGain.SignedString(),
		report.Disallowed.SignedString(),
		report.Gain().SignedString(),
	)

	return b.String()
}

// AdjustmentsMarkdown renders the wash-sale adjustment history. It returns an
// empty string when there is nothing to show.
func AdjustmentsMarkdown(adjustments []taxlot.WashSaleAdjustment) string {
	var b strings.Builder
	ConditionalBlock(&b, func(w io.Writer) bool {
		if len(adjustments) == 0 {
			return false
		}
		fmt.Fprint(w, "## Wash Sale Adjustments\n\n")
		fmt.Fprintln(w, "| Asset | Sale | Lot | Replacement | Quantity | Disallowed |")
		fmt.Fprintln(w, "|:---|:---|---:|---:|---:|---:|")
		for _, adj := range adjustments {
			fmt.Fprintf(w, "| %s | %s | %d | %d | %s | %s |\n",
				adj.Sale.Asset,
				taxlot.DateOf(adj.Sale.Time),
				adj.Lot,
				adj.Replacement,
				adj.Quantity,
				adj.Disallowed,
			)
		}
		return true
	})
	return b.String()
}
