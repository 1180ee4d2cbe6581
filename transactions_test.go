package taxlot

import (
	"testing"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		in   string
		want Action
	}{
		{"buy", Buy},
		{"BOUGHT", Buy},
		{"Purchase", Buy},
		{"sold", Sell},
		{"Sale", Sell},
		{"ShrsIn", TransferIn},
		{"transfer out", TransferOut},
		{"transfer-in", TransferIn},
	}
	for _, tc := range tests {
		got, err := ParseAction(tc.in)
		if err != nil {
			t.Errorf("ParseAction(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAction(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseAction("dividend"); err == nil {
		t.Error("ParseAction(dividend): want error")
	}
}

func TestSortTransactions(t *testing.T) {
	in := []Transaction{
		sell("BTC", day(3), 7, 1, 130),
		buy("BTC", day(0), 9, 1, 100),
		buy("BTC", day(0), 2, 1, 90),
	}
	out := SortTransactions(in)

	if out[0].Price.Equal(USD(100)) || !out[0].Price.Equal(USD(90)) {
		t.Errorf("out[0] = %+v, want the day-0 seq-2 buy first", out[0])
	}
	if out[2].Action != Sell {
		t.Errorf("out[2] = %+v, want the sale last", out[2])
	}
	for i, tx := range out {
		if tx.Seq != int64(i+1) {
			t.Errorf("out[%d].Seq = %d, want %d", i, tx.Seq, i+1)
		}
	}
	// the input order is untouched
	if in[0].Action != Sell || in[0].Seq != 7 {
		t.Errorf("input mutated: %+v", in[0])
	}
}
