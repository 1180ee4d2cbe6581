package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/taxlot"
)

func day(n int) time.Time {
	return time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func processed(t *testing.T) *taxlot.Processor {
	t.Helper()
	p := taxlot.NewProcessor(nil)
	txs := []taxlot.Transaction{
		{Asset: "BTC", Action: taxlot.Buy, Quantity: taxlot.Q(10), Price: taxlot.M(100, "USD"), Time: day(0), Seq: 1},
		{Asset: "BTC", Action: taxlot.Sell, Quantity: taxlot.Q(4), Price: taxlot.M(130, "USD"), Time: day(5), Seq: 2},
	}
	if res := p.Process(txs); len(res.Errors) != 0 {
		t.Fatalf("process: %v", res.Errors)
	}
	return p
}

func TestGainsMarkdown(t *testing.T) {
	p := processed(t)
	rng := taxlot.NewRange(taxlot.MustParseDate("2025-01-01"), taxlot.MustParseDate("2025-12-31"))
	md := GainsMarkdown(p.Report(rng))

	for _, want := range []string{
		"# Realized Gains from 2025-01-01 to 2025-12-31",
		"Matching policy: fifo",
		"| BTC |",
		"+$120.00",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestLotsMarkdown(t *testing.T) {
	p := processed(t)
	md := LotsMarkdown(p.Ledger())

	for _, want := range []string{"## BTC", "| 1 | 2025-01-01 | 6 | 10 |", "Total open: 6"} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestLotsMarkdownEmpty(t *testing.T) {
	md := LotsMarkdown(taxlot.NewLedger(nil))
	if !strings.Contains(md, "No open lots.") {
		t.Errorf("empty ledger rendering:\n%s", md)
	}
}

func TestAdjustmentsMarkdownEmpty(t *testing.T) {
	if got := AdjustmentsMarkdown(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTransactionLine(t *testing.T) {
	tx := taxlot.Transaction{Asset: "BTC", Action: taxlot.Sell, Quantity: taxlot.Q(2), Price: taxlot.M(100, "USD")}
	if got := Transaction(tx); got != "Sold 2 BTC at $100.00" {
		t.Errorf("Transaction = %q", got)
	}
}
