package cmd

import (
	"testing"

	"github.com/etnz/taxlot"
)

func TestParseLotPicks(t *testing.T) {
	picks, err := parseLotPicks("3:10, 1:2.5")
	if err != nil {
		t.Fatalf("parseLotPicks: %v", err)
	}
	if len(picks) != 2 {
		t.Fatalf("got %d picks, want 2", len(picks))
	}
	if picks[0].Lot != 3 || !picks[0].Quantity.Equal(taxlot.Q(10)) {
		t.Errorf("picks[0] = %+v", picks[0])
	}
	if picks[1].Lot != 1 || !picks[1].Quantity.Equal(taxlot.Q("2.5")) {
		t.Errorf("picks[1] = %+v", picks[1])
	}

	for _, bad := range []string{"3", "x:1", "3:banana"} {
		if _, err := parseLotPicks(bad); err == nil {
			t.Errorf("parseLotPicks(%q): want error", bad)
		}
	}
}

func TestNextSeq(t *testing.T) {
	if got := nextSeq(nil); got != 1 {
		t.Errorf("nextSeq(empty) = %d, want 1", got)
	}
	txs := []taxlot.Transaction{{Seq: 4}, {Seq: 2}}
	if got := nextSeq(txs); got != 5 {
		t.Errorf("nextSeq = %d, want 5", got)
	}
}
