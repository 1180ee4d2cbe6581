package taxlot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON implements the json.Marshaler interface with a stable field
// order, so an encoded stream is canonical and diffs cleanly.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("asset", t.Asset)
	w.Append("action", t.Action)
	w.Append("quantity", t.Quantity)
	w.Append("price", t.Price)
	if !t.Fee.IsZero() {
		w.Append("fee", t.Fee)
	}
	if !t.Gas.IsZero() {
		w.Append("gas", t.Gas)
	}
	w.Append("time", t.Time)
	w.Append("seq", t.Seq)
	if len(t.Lots) > 0 {
		w.Append("lots", t.Lots)
	}
	w.Optional("memo", t.Memo)
	return w.MarshalJSON()
}

// EncodeTransaction writes a single transaction as one JSONL line.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	b, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	_, err = io.WriteString(w, "\n")
	return err
}

// EncodeTransactions writes transactions as a JSONL stream, one per line.
func EncodeTransactions(w io.Writer, transactions []Transaction) error {
	for _, tx := range transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTransactions reads a JSONL stream of transactions. Empty lines are
// skipped; a malformed line fails the whole decode with its content quoted.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var transactions []Transaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(line, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction line %q: %w", string(line), err)
		}
		transactions = append(transactions, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}
