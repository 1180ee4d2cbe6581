package taxlot

import (
	"testing"
	"time"
)

func yearRange(year int) Range {
	return Range{From: NewDate(year, time.January, 1), To: NewDate(year, time.December, 31)}
}

func TestGainsReportAggregation(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(sampleStream())
	if len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}

	report := p.Report(yearRange(2025))
	if len(report.Assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(report.Assets))
	}
	btc, eth := report.Assets[0], report.Assets[1]
	if btc.Asset != "BTC" || eth.Asset != "ETH" {
		t.Fatalf("asset order = %s, %s, want BTC, ETH", btc.Asset, eth.Asset)
	}

	// BTC: 15 sold at 130 (fee 2.50) then 5 sold at 90
	if !btc.Quantity.Equal(Q(20)) {
		t.Errorf("BTC quantity = %s, want 20", btc.Quantity)
	}
	if want := USD(2400); !btc.Proceeds.Equal(want) {
		t.Errorf("BTC proceeds = %s, want %s", btc.Proceeds, want)
	}
	// lots 10×100 + 5×110 + 5×110 plus the 2.50 fee
	if want := USD(2102.50); !btc.Basis.Equal(want) {
		t.Errorf("BTC basis = %s, want %s", btc.Basis, want)
	}
	if want := USD(297.50); !btc.Gain().Equal(want) {
		t.Errorf("BTC gain = %s, want %s", btc.Gain(), want)
	}

	// ETH: loss of 10 fully disallowed, so the allowed gain is zero
	if want := USD(10); !eth.Disallowed.Equal(want) {
		t.Errorf("ETH disallowed = %s, want %s", eth.Disallowed, want)
	}
	if !eth.Gain().IsZero() {
		t.Errorf("ETH allowed gain = %s, want 0", eth.Gain())
	}

	// report totals are the column sums
	if want := btc.Gain().Add(eth.Gain()); !report.Gain().Equal(want) {
		t.Errorf("total gain = %s, want %s", report.Gain(), want)
	}
	if !report.Disallowed.Equal(USD(10)) {
		t.Errorf("total disallowed = %s, want 10", report.Disallowed)
	}
}

func TestGainsReportRangeFilter(t *testing.T) {
	p := NewProcessor(nil)
	p.Process(sampleStream())

	report := p.Report(yearRange(2024))
	if len(report.Assets) != 0 {
		t.Errorf("2024 report has assets %v, want none", report.Assets)
	}
}

func TestGainsReportExcludesTransfers(t *testing.T) {
	txs := []Transaction{
		buy("BTC", day(0), 1, 10, 100),
	}
	out := sell("BTC", day(1), 2, 4, 130)
	out.Action = TransferOut
	txs = append(txs, out)

	p := NewProcessor(nil)
	if res := p.Process(txs); len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	report := p.Report(yearRange(2025))
	if len(report.Assets) != 0 {
		t.Errorf("transfer out showed up in gains: %v", report.Assets)
	}
}

func TestPeriodicGainsReports(t *testing.T) {
	p := NewProcessor(nil)
	p.Process(sampleStream())

	reports := PeriodicGainsReports(yearRange(2025), Monthly, FIFO, "USD", p.Allocations(), p.Detector().Adjustments())
	if len(reports) != 1 {
		t.Fatalf("got %d periodic reports, want 1 (all sales in January)", len(reports))
	}
	if got := reports[0].Range.From; got != NewDate(2025, time.January, 1) {
		t.Errorf("period start = %s, want 2025-01-01", got)
	}
}
