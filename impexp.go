package taxlot

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// this file contains the import side of the converter: turning broker and
// exchange exports (CSV, JSON) into the ordered Transaction stream the engine
// consumes. The engine itself never parses raw text.

// Mapping maps transaction fields to source locations: CSV column headers for
// ImportCSV, JSONPath expressions for ImportJSON. Date, Action, Asset and
// Quantity are required; the others default to empty.
type Mapping struct {
	Date     string
	Action   string
	Asset    string
	Quantity string
	Price    string
	Fee      string
	Gas      string
	Memo     string
	Currency string // a literal currency code, not a source location
}

// Validate reports the first missing required field.
func (m Mapping) Validate() error {
	required := []struct{ name, value string }{
		{"date", m.Date},
		{"action", m.Action},
		{"asset", m.Asset},
		{"quantity", m.Quantity},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("missing required field in mapping: %s", f.name)
		}
	}
	return nil
}

// importTimeLayouts are tried in order when parsing source dates. Broker
// exports disagree wildly on this.
var importTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2006/01/02",
}

func parseImportTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range importTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse time: %q", s)
}

// ImportCSV reads a broker CSV export using the mapping to locate fields.
// The first row must be a header. Rows that fail to parse are logged and
// skipped, matching the lenient behavior expected of converters fed years of
// hand-exported statements; sequence numbers follow row order.
func ImportCSV(r io.Reader, m Mapping) ([]Transaction, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(row []string, name string) string {
		if name == "" {
			return ""
		}
		i, ok := index[strings.ToLower(name)]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var transactions []Transaction
	var seq int64
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		seq++
		tx, err := buildTransaction(m, seq, func(name string) string { return field(row, name) })
		if err != nil {
			log.Printf("skipping row %d: %v", seq, err)
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// ImportJSON reads a JSON export. 'records' is a JSONPath expression
// selecting the array of records; the mapping fields are JSONPath
// expressions evaluated against each record.
func ImportJSON(r io.Reader, records string, m Mapping) ([]Transaction, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot parse JSON export: %w", err)
	}
	jrecords, err := jsonpath.Get(records, doc)
	if err != nil {
		return nil, fmt.Errorf("cannot select records %q: %w", records, err)
	}
	list, ok := jrecords.([]interface{})
	if !ok {
		return nil, fmt.Errorf("records %q: expected an array, got %T", records, jrecords)
	}

	var transactions []Transaction
	var seq int64
	for _, record := range list {
		seq++
		tx, err := buildTransaction(m, seq, func(path string) string {
			if path == "" {
				return ""
			}
			v, err := jsonpath.Get(path, record)
			if err != nil {
				return ""
			}
			// jsonpath is never clear about whether it returns a list of 1
			// answer, or a single answer
			if l, ok := v.([]interface{}); ok && len(l) == 1 {
				v = l[0]
			}
			return strings.TrimSpace(fmt.Sprint(v))
		})
		if err != nil {
			log.Printf("skipping record %d: %v", seq, err)
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, nil
}

// buildTransaction assembles one Transaction from a field lookup.
func buildTransaction(m Mapping, seq int64, field func(string) string) (Transaction, error) {
	at, err := parseImportTime(field(m.Date))
	if err != nil {
		return Transaction{}, err
	}
	action, err := ParseAction(field(m.Action))
	if err != nil {
		return Transaction{}, err
	}
	asset := field(m.Asset)
	if asset == "" {
		return Transaction{}, fmt.Errorf("missing asset")
	}
	quantity, err := ParseQuantity(cleanNumber(field(m.Quantity)))
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid quantity: %w", err)
	}

	currency := m.Currency
	if currency == "" {
		currency = "USD"
	}
	price, err := parseOptionalMoney(field(m.Price), currency)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid price: %w", err)
	}
	fee, err := parseOptionalMoney(field(m.Fee), currency)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid fee: %w", err)
	}
	gas, err := parseOptionalMoney(field(m.Gas), currency)
	if err != nil {
		return Transaction{}, fmt.Errorf("invalid gas fee: %w", err)
	}

	return Transaction{
		Asset:    asset,
		Action:   action,
		Quantity: quantity,
		Price:    price,
		Fee:      fee,
		Gas:      gas,
		Time:     at,
		Seq:      seq,
		Memo:     field(m.Memo),
	}, nil
}

func parseOptionalMoney(s, currency string) (Money, error) {
	if s == "" {
		return M(0, currency), nil
	}
	return ParseMoney(cleanNumber(s), currency)
}

// cleanNumber strips thousands separators and currency decorations commonly
// found in exports.
func cleanNumber(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimPrefix(s, "€")
	return s
}
