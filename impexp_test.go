package taxlot

import (
	"strings"
	"testing"
)

var brokerMapping = Mapping{
	Date:     "Trade Date",
	Action:   "Type",
	Asset:    "Symbol",
	Quantity: "Shares",
	Price:    "Price",
	Fee:      "Commission",
	Memo:     "Description",
}

func TestImportCSV(t *testing.T) {
	in := `Trade Date,Type,Symbol,Shares,Price,Commission,Description
01/15/2025,Buy,AAPL,10,"1,234.56",4.95,first trade
2025-01-20,SOLD,AAPL,4,$1300.00,,trim position
`
	txs, err := ImportCSV(strings.NewReader(in), brokerMapping)
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}

	first := txs[0]
	if first.Action != Buy || first.Asset != "AAPL" {
		t.Errorf("first = %+v", first)
	}
	if !first.Quantity.Equal(Q(10)) {
		t.Errorf("quantity = %s, want 10", first.Quantity)
	}
	if !first.Price.Equal(USD(1234.56)) {
		t.Errorf("price = %s, want 1234.56", first.Price)
	}
	if !first.Fee.Equal(USD(4.95)) {
		t.Errorf("fee = %s, want 4.95", first.Fee)
	}
	if first.Memo != "first trade" {
		t.Errorf("memo = %q", first.Memo)
	}

	second := txs[1]
	if second.Action != Sell {
		t.Errorf("second action = %s, want SELL", second.Action)
	}
	if !second.Price.Equal(USD(1300)) {
		t.Errorf("second price = %s, want 1300", second.Price)
	}
	if second.Seq != 2 {
		t.Errorf("second seq = %d, want row order 2", second.Seq)
	}
}

func TestImportCSVSkipsBadRows(t *testing.T) {
	in := `Trade Date,Type,Symbol,Shares,Price
01/15/2025,Buy,AAPL,10,100
not a date,Buy,AAPL,10,100
01/16/2025,Buy,AAPL,banana,100
01/17/2025,Sell,AAPL,5,110
`
	txs, err := ImportCSV(strings.NewReader(in), Mapping{
		Date: "Trade Date", Action: "Type", Asset: "Symbol", Quantity: "Shares", Price: "Price",
	})
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2 (bad rows skipped)", len(txs))
	}
}

func TestImportCSVMissingRequiredMapping(t *testing.T) {
	_, err := ImportCSV(strings.NewReader("a,b\n"), Mapping{Date: "a"})
	if err == nil || !strings.Contains(err.Error(), "missing required field") {
		t.Fatalf("got %v, want missing-field error", err)
	}
}

func TestImportJSON(t *testing.T) {
	in := `{
	  "trades": [
	    {"executed": "2025-01-15T10:00:00Z", "side": "buy", "pair": {"base": "BTC"}, "amount": "0.5", "price": "60000", "fee": "12.34"},
	    {"executed": "2025-01-20T10:00:00Z", "side": "sell", "pair": {"base": "BTC"}, "amount": "0.2", "price": "65000"}
	  ]
	}`
	txs, err := ImportJSON(strings.NewReader(in), "$.trades", Mapping{
		Date:     "$.executed",
		Action:   "$.side",
		Asset:    "$.pair.base",
		Quantity: "$.amount",
		Price:    "$.price",
		Fee:      "$.fee",
	})
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].Action != Buy || txs[0].Asset != "BTC" || !txs[0].Quantity.Equal(Q(0.5)) {
		t.Errorf("first = %+v", txs[0])
	}
	if !txs[0].Fee.Equal(USD(12.34)) {
		t.Errorf("fee = %s, want 12.34", txs[0].Fee)
	}
	if txs[1].Action != Sell || !txs[1].Fee.IsZero() {
		t.Errorf("second = %+v", txs[1])
	}
}

func TestParseImportTimeFormats(t *testing.T) {
	for _, s := range []string{
		"2025-01-15",
		"2025-01-15 10:30:00",
		"01/15/2025",
		"1/5/2025",
		"2025/01/15",
		"2025-01-15T10:30:00Z",
	} {
		if _, err := parseImportTime(s); err != nil {
			t.Errorf("parseImportTime(%q): %v", s, err)
		}
	}
	if _, err := parseImportTime("yesterday"); err == nil {
		t.Error("parseImportTime(\"yesterday\"): want error")
	}
}
