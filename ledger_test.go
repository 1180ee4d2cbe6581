package taxlot

import (
	"errors"
	"testing"
)

func TestOpenLotBasisIncludesFees(t *testing.T) {
	l := testLedger()
	tx := buy("BTC", day(0), 1, 10, 100)
	tx.Fee = USD(10)
	tx.Gas = USD(5)

	lot := mustOpen(t, l, tx)

	// (10×100 + 10 + 5) / 10 = 101.5 per unit
	if want := USD(101.5); !lot.CostPerUnit().Equal(want) {
		t.Errorf("CostPerUnit = %s, want %s", lot.CostPerUnit(), want)
	}
	if !lot.Remaining().Equal(Q(10)) {
		t.Errorf("Remaining = %s, want 10", lot.Remaining())
	}
	if !lot.Original().Equal(Q(10)) {
		t.Errorf("Original = %s, want 10", lot.Original())
	}
}

func TestOpenLotRejectsNonPositiveQuantity(t *testing.T) {
	l := testLedger()
	for _, q := range []float64{0, -3} {
		tx := buy("BTC", day(0), 1, q, 100)
		if _, err := l.OpenLot(tx); err == nil {
			t.Errorf("OpenLot(qty=%v): want error, got nil", q)
		} else {
			var iq *InvalidQuantityError
			if !errors.As(err, &iq) {
				t.Errorf("OpenLot(qty=%v): got %T, want *InvalidQuantityError", q, err)
			}
		}
	}
}

func TestOpenLotSequentialIDsPerAsset(t *testing.T) {
	l := testLedger()
	a := mustOpen(t, l, buy("BTC", day(0), 1, 1, 100))
	b := mustOpen(t, l, buy("ETH", day(0), 2, 1, 50))
	c := mustOpen(t, l, buy("BTC", day(1), 3, 1, 110))

	if a.ID() != 1 || c.ID() != 2 {
		t.Errorf("BTC lot ids = %d, %d, want 1, 2", a.ID(), c.ID())
	}
	if b.ID() != 1 {
		t.Errorf("ETH lot id = %d, want 1", b.ID())
	}
}

func TestLedgerRejectsOutOfOrderTransactions(t *testing.T) {
	l := testLedger()
	mustOpen(t, l, buy("BTC", day(5), 1, 1, 100))

	_, err := l.OpenLot(buy("BTC", day(3), 2, 1, 100))
	var ord *InvalidDateOrderError
	if !errors.As(err, &ord) {
		t.Fatalf("got %v, want *InvalidDateOrderError", err)
	}

	// same timestamp, lower sequence is also out of order
	_, err = l.OpenLot(buy("BTC", day(5), 0, 1, 100))
	if !errors.As(err, &ord) {
		t.Fatalf("got %v, want *InvalidDateOrderError", err)
	}

	// other assets keep their own clock
	if _, err := l.OpenLot(buy("ETH", day(3), 3, 1, 100)); err != nil {
		t.Fatalf("independent asset clock: %v", err)
	}
}

func TestConsumeOverconsumption(t *testing.T) {
	l := testLedger()
	lot := mustOpen(t, l, buy("BTC", day(0), 1, 10, 100))

	err := l.Consume("BTC", lot.ID(), Q(11))
	var oc *OverconsumptionError
	if !errors.As(err, &oc) {
		t.Fatalf("got %v, want *OverconsumptionError", err)
	}
	if !lot.Remaining().Equal(Q(10)) {
		t.Errorf("failed consume mutated lot: remaining = %s", lot.Remaining())
	}

	if err := l.Consume("BTC", lot.ID(), Q(10)); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if !lot.Closed() {
		t.Error("lot should be closed after full consumption")
	}
}

func TestOpenLotsForSkipsClosedLots(t *testing.T) {
	l := testLedger()
	first := mustOpen(t, l, buy("BTC", day(0), 1, 5, 100))
	mustOpen(t, l, buy("BTC", day(1), 2, 5, 110))

	if err := l.Consume("BTC", first.ID(), Q(5)); err != nil {
		t.Fatalf("Consume: %v", err)
	}

	var ids []LotID
	for lot := range l.OpenLotsFor("BTC") {
		ids = append(ids, lot.ID())
	}
	if len(ids) != 1 || ids[0] != 2 {
		t.Errorf("open lots = %v, want [2]", ids)
	}
}

func TestQuantityConservation(t *testing.T) {
	l := testLedger()
	mustOpen(t, l, buy("BTC", day(0), 1, 10, 100))
	mustOpen(t, l, buy("BTC", day(1), 2, 10, 110))
	mustOpen(t, l, buy("BTC", day(2), 3, 10, 120))

	allocs := mustDispose(t, l, DisposalOf(sell("BTC", day(3), 4, 15, 130), FIFO))

	var disposed Quantity
	for _, a := range allocs {
		disposed = disposed.Add(a.Quantity)
	}
	total := l.OpenQuantity("BTC").Add(disposed)
	if want := l.AcquiredQuantity("BTC"); !total.Equal(want) {
		t.Errorf("open+disposed = %s, acquired = %s", total, want)
	}
}

func TestQuantityRescaleByAssetScale(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AssetScale = map[string]int32{"BTC": 8}
	l := NewLedger(cfg)

	// more precision than the asset scale allows
	tx := buy("BTC", day(0), 1, 1, 100)
	tx.Quantity = Q("0.123456789")
	_, err := l.OpenLot(tx)
	var po *PrecisionOverflowError
	if !errors.As(err, &po) {
		t.Fatalf("got %v, want *PrecisionOverflowError", err)
	}

	// trailing zeros beyond the scale are not an overflow
	tx.Quantity = Q("0.1234567800")
	if _, err := l.OpenLot(tx); err != nil {
		t.Fatalf("OpenLot: %v", err)
	}
}

func TestAssetsSorted(t *testing.T) {
	l := testLedger()
	mustOpen(t, l, buy("ETH", day(0), 1, 1, 100))
	mustOpen(t, l, buy("BTC", day(0), 2, 1, 100))
	mustOpen(t, l, buy("ADA", day(0), 3, 1, 100))

	got := l.Assets()
	want := []string{"ADA", "BTC", "ETH"}
	if len(got) != len(want) {
		t.Fatalf("Assets() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Assets() = %v, want %v", got, want)
		}
	}
}
