package taxlot

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeQIF(t *testing.T) {
	tx := buy("AAPL", day(14), 1, 10, 123.4)
	tx.Fee = USD(4.95)
	tx.Memo = "first trade"

	var buf bytes.Buffer
	if err := EncodeQIF(&buf, []Transaction{tx}); err != nil {
		t.Fatalf("EncodeQIF: %v", err)
	}

	want := strings.Join([]string{
		"!Type:Invst",
		"D01/15/2025",
		"NBuy",
		"YAAPL",
		"I123.4000",
		"Q10",
		"O4.95",
		"T1234.00",
		"Mfirst trade",
		"^",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeQIFTransferActions(t *testing.T) {
	in := buy("BTC", day(0), 1, 2, 0)
	in.Action = TransferIn
	out := sell("BTC", day(1), 2, 1, 0)
	out.Action = TransferOut

	var buf bytes.Buffer
	if err := EncodeQIF(&buf, []Transaction{in, out}); err != nil {
		t.Fatalf("EncodeQIF: %v", err)
	}
	if !strings.Contains(buf.String(), "NShrsIn") || !strings.Contains(buf.String(), "NShrsOut") {
		t.Errorf("missing transfer actions:\n%s", buf.String())
	}
	// zero price carries no I or T line
	if strings.Contains(buf.String(), "\nI") || strings.Contains(buf.String(), "\nT") {
		t.Errorf("zero-price transfer should omit price lines:\n%s", buf.String())
	}
}

func TestEncodeGainsQIF(t *testing.T) {
	l := testLedger()
	mustOpen(t, l, buy("AAPL", day(0), 1, 10, 100))
	allocs := mustDispose(t, l, DisposalOf(sell("AAPL", day(400), 2, 10, 130), FIFO))

	var buf bytes.Buffer
	if err := EncodeGainsQIF(&buf, allocs); err != nil {
		t.Fatalf("EncodeGainsQIF: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "NCGLong") {
		t.Errorf("missing CGLong record:\n%s", out)
	}
	if !strings.Contains(out, "T300.00") {
		t.Errorf("missing gain amount:\n%s", out)
	}
	if !strings.Contains(out, "lot 1 acquired 01/01/2025") {
		t.Errorf("missing lot memo:\n%s", out)
	}
}

func TestEncodeGainsQIFSkipsTransfers(t *testing.T) {
	l := testLedger()
	mustOpen(t, l, buy("BTC", day(0), 1, 2, 100))
	tx := sell("BTC", day(1), 2, 1, 0)
	tx.Action = TransferOut
	allocs := mustDispose(t, l, DisposalOf(tx, FIFO))

	var buf bytes.Buffer
	if err := EncodeGainsQIF(&buf, allocs); err != nil {
		t.Fatalf("EncodeGainsQIF: %v", err)
	}
	if strings.Contains(buf.String(), "CG") {
		t.Errorf("transfer produced a gain record:\n%s", buf.String())
	}
}
