package taxlot

import (
	"time"
)

// Test helpers shared across the package tests.

func USD(v float64) Money { return M(v, "USD") }

// day returns a deterministic timestamp n days after 2025-01-01 UTC.
func day(n int) time.Time {
	return time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func buy(asset string, when time.Time, seq int64, qty, price float64) Transaction {
	return Transaction{
		Asset:    asset,
		Action:   Buy,
		Quantity: Q(qty),
		Price:    M(price, "USD"),
		Time:     when,
		Seq:      seq,
	}
}

func sell(asset string, when time.Time, seq int64, qty, price float64) Transaction {
	return Transaction{
		Asset:    asset,
		Action:   Sell,
		Quantity: Q(qty),
		Price:    M(price, "USD"),
		Time:     when,
		Seq:      seq,
	}
}

func testLedger() *Ledger { return NewLedger(DefaultConfig()) }

// mustOpen opens a lot from a transaction and fails the test on error.
func mustOpen(t interface{ Fatalf(string, ...any) }, l *Ledger, tx Transaction) *Lot {
	lot, err := l.OpenLot(tx)
	if err != nil {
		t.Fatalf("OpenLot(%s %s): %v", tx.Asset, tx.Quantity, err)
	}
	return lot
}

// mustDispose runs a disposal and fails the test on error.
func mustDispose(t interface{ Fatalf(string, ...any) }, l *Ledger, d Disposal) []Allocation {
	allocs, err := l.Dispose(d)
	if err != nil {
		t.Fatalf("Dispose(%s %s): %v", d.Asset, d.Quantity, err)
	}
	return allocs
}
