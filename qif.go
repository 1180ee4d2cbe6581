package taxlot

import (
	"fmt"
	"io"
)

// this file contains the export side of the converter: emitting the QIF
// interchange format consumed by desktop finance tools. QIF investment
// records are line-oriented: one letter-coded field per line, a caret
// terminating each record.

// QIFType is a QIF account type header.
type QIFType string

const (
	QIFBank       QIFType = "!Type:Bank"
	QIFCash       QIFType = "!Type:Cash"
	QIFInvestment QIFType = "!Type:Invst"
)

// qifDateFormat is the MM/DD/YYYY form QIF consumers expect.
const qifDateFormat = "01/02/2006"

// qifAction maps an engine action to its QIF investment action code.
func qifAction(a Action) string {
	switch a {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case TransferIn:
		return "ShrsIn"
	case TransferOut:
		return "ShrsOut"
	default:
		return string(a)
	}
}

// qifRecord accumulates the lines of one record.
type qifRecord struct {
	lines []string
}

func (r *qifRecord) add(code byte, value string) {
	r.lines = append(r.lines, fmt.Sprintf("%c%s", code, value))
}

func (r *qifRecord) write(w io.Writer) error {
	for _, line := range r.lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "^")
	return err
}

// money2 renders a monetary value with two decimals, the fixed-point form
// QIF consumers expect.
func money2(m Money) string { return m.value.StringFixed(2) }

// EncodeQIF writes the transactions as a QIF investment section.
func EncodeQIF(w io.Writer, transactions []Transaction) error {
	if _, err := fmt.Fprintln(w, QIFInvestment); err != nil {
		return err
	}
	for _, tx := range transactions {
		var r qifRecord
		r.add('D', tx.Time.Format(qifDateFormat))
		r.add('N', qifAction(tx.Action))
		r.add('Y', tx.Asset)
		if !tx.Price.IsZero() {
			r.add('I', tx.Price.value.StringFixed(4))
		}
		r.add('Q', tx.Quantity.String())
		if !tx.Fee.IsZero() {
			r.add('O', money2(tx.Fee.Add(tx.Gas)))
		} else if !tx.Gas.IsZero() {
			r.add('O', money2(tx.Gas))
		}
		amount := tx.Price.Mul(tx.Quantity)
		if !amount.IsZero() {
			r.add('T', money2(amount))
		}
		if tx.Memo != "" {
			r.add('M', tx.Memo)
		}
		if err := r.write(w); err != nil {
			return err
		}
	}
	return nil
}

// EncodeGainsQIF writes realized allocations as QIF capital-gain records
// (CGShort/CGLong), suitable for import next to the transaction section.
func EncodeGainsQIF(w io.Writer, allocations []Allocation) error {
	if _, err := fmt.Fprintln(w, QIFInvestment); err != nil {
		return err
	}
	for _, a := range allocations {
		if !a.Realized {
			continue
		}
		var r qifRecord
		r.add('D', a.Sale.Time.Format(qifDateFormat))
		if a.Term == LongTerm {
			r.add('N', "CGLong")
		} else {
			r.add('N', "CGShort")
		}
		r.add('Y', a.Sale.Asset)
		r.add('Q', a.Quantity.String())
		r.add('T', money2(a.Gain))
		r.add('M', fmt.Sprintf("lot %d acquired %s", a.Lot, a.Acquired.Format(qifDateFormat)))
		if err := r.write(w); err != nil {
			return err
		}
	}
	return nil
}
