package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	period string
	start  string
	end    string
	policy string
	qif    bool
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "realized gain and loss report" }
func (*gainsCmd) Usage() string {
	return `tlt gains [-period <period>] [-s <date>] [-d <date>] [-policy <policy>] [-qif]

  Replays the ledger through the matching engine and reports realized gains
  and losses per asset over the period, split into short and long term, with
  wash-sale disallowed losses in their own column.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", taxlot.Yearly.String(), "Predefined period (day, week, month, quarter, year)")
	f.StringVar(&c.start, "s", "", "Start date of the reporting period")
	f.StringVar(&c.end, "d", taxlot.Today().String(), "End date of the reporting period")
	f.StringVar(&c.policy, "policy", taxlot.FIFO.String(), "Matching policy (fifo, lifo, highest-cost, lowest-cost)")
	f.BoolVar(&c.qif, "qif", false, "Emit the realized gains as QIF capital-gain records")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	endDate, err := taxlot.ParseDate(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	var period taxlot.Range
	if c.start != "" {
		startDate, err := taxlot.ParseDate(c.start)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
			return subcommands.ExitUsageError
		}
		period = taxlot.NewRange(startDate, endDate)
	} else {
		p, err := taxlot.ParsePeriod(c.period)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
			return subcommands.ExitUsageError
		}
		period = p.Range(endDate)
	}

	policy, err := taxlot.ParseMatchingPolicy(c.policy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing matching policy: %v\n", err)
		return subcommands.ExitUsageError
	}

	transactions, err := DecodeLedgerFile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	cfg := appConfig()
	cfg.DefaultPolicy = policy
	processor := taxlot.NewProcessor(cfg)
	results := processor.Process(transactions)
	for _, e := range results.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}
	processor.Detector().Resolve(time.Now())

	if c.qif {
		if err := taxlot.EncodeGainsQIF(os.Stdout, processor.Allocations()); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing QIF: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	report := processor.Report(period)
	md := renderer.GainsMarkdown(report)
	md += "\n" + renderer.AdjustmentsMarkdown(results.Adjustments)
	md += "\n" + renderer.PendingMarkdown(processor.Detector(), processor.Ledger().Assets())
	printMarkdown(md)

	return subcommands.ExitSuccess
}
