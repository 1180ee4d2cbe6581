package taxlot

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func sampleStream() []Transaction {
	txs := []Transaction{
		buy("BTC", day(0), 1, 10, 100),
		buy("ETH", day(0), 2, 20, 10),
		buy("BTC", day(1), 3, 10, 110),
		sell("BTC", day(3), 4, 15, 130),
		sell("ETH", day(4), 5, 5, 8), // loss
		buy("ETH", day(10), 6, 5, 9), // replacement inside the window
		sell("BTC", day(20), 7, 5, 90),
	}
	txs[3].Fee = USD(2.50)
	return txs
}

func TestProcessMultiAsset(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(sampleStream())

	if len(res.Errors) != 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	// BTC allocations first (sorted assets), then ETH
	for i, a := range res.Allocations[:3] {
		if a.Sale.Asset != "BTC" {
			t.Errorf("allocation %d asset = %s, want BTC", i, a.Sale.Asset)
		}
	}
	if last := res.Allocations[len(res.Allocations)-1]; last.Sale.Asset != "ETH" {
		t.Errorf("last allocation asset = %s, want ETH", last.Sale.Asset)
	}

	// the ETH loss found its replacement
	if len(res.Adjustments) != 1 {
		t.Fatalf("adjustments = %v, want 1", res.Adjustments)
	}
	if res.Adjustments[0].Sale.Asset != "ETH" {
		t.Errorf("adjustment asset = %s, want ETH", res.Adjustments[0].Sale.Asset)
	}
}

// An identical stream replayed through a fresh processor yields byte-identical
// results, parallel workers notwithstanding.
func TestProcessDeterministic(t *testing.T) {
	encode := func() []byte {
		res := NewProcessor(nil).Process(sampleStream())
		b, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return b
	}
	first := encode()
	for i := 0; i < 5; i++ {
		if next := encode(); !bytes.Equal(first, next) {
			t.Fatalf("replay %d diverged:\n%s\n%s", i, first, next)
		}
	}
}

func TestProcessCollectsErrorsAndContinues(t *testing.T) {
	txs := []Transaction{
		buy("BTC", day(0), 1, 10, 100),
		sell("BTC", day(1), 2, 50, 130), // overselling
		sell("BTC", day(2), 3, 5, 130),  // still applies
		{Asset: "ETH", Action: "STAKE", Quantity: Q(1), Time: day(0), Seq: 4},
	}
	p := NewProcessor(nil)
	res := p.Process(txs)

	if len(res.Errors) != 2 {
		t.Fatalf("errors = %v, want 2", res.Errors)
	}
	var ins *InsufficientLotsError
	if !errors.As(res.Errors[0], &ins) {
		t.Errorf("first error = %v, want *InsufficientLotsError", res.Errors[0])
	}
	if res.Errors[0].Seq != 2 {
		t.Errorf("first error seq = %d, want 2", res.Errors[0].Seq)
	}

	// the valid sale after the failure still committed
	if !p.Ledger().OpenQuantity("BTC").Equal(Q(5)) {
		t.Errorf("open BTC = %s, want 5", p.Ledger().OpenQuantity("BTC"))
	}
}

func TestApplyUnknownAction(t *testing.T) {
	p := NewProcessor(nil)
	if _, err := p.Apply(Transaction{Asset: "BTC", Action: "AIRDROP", Quantity: Q(1), Time: day(0)}); err == nil {
		t.Fatal("want error for unsupported action")
	}
}

func TestApplyTransferInOpensLot(t *testing.T) {
	p := NewProcessor(nil)
	tx := buy("BTC", day(0), 1, 2, 100)
	tx.Action = TransferIn
	if _, err := p.Apply(tx); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !p.Ledger().OpenQuantity("BTC").Equal(Q(2)) {
		t.Errorf("open BTC = %s, want 2", p.Ledger().OpenQuantity("BTC"))
	}
}
