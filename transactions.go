package taxlot

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Action is a typed string identifying what a transaction does.
type Action string

// Actions understood by the engine.
const (
	Buy         Action = "BUY"
	Sell        Action = "SELL"
	TransferIn  Action = "TRANSFER_IN"
	TransferOut Action = "TRANSFER_OUT"
)

func normalizeAction(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}

// ParseAction parses a string into an Action. It accepts a few common
// broker-export spellings besides the canonical names.
func ParseAction(s string) (Action, error) {
	switch normalizeAction(s) {
	case "BUY", "PURCHASE", "BOUGHT":
		return Buy, nil
	case "SELL", "SALE", "SOLD":
		return Sell, nil
	case "TRANSFER_IN", "TRANSFERIN", "DEPOSIT", "RECEIVE", "SHRSIN":
		return TransferIn, nil
	case "TRANSFER_OUT", "TRANSFEROUT", "WITHDRAWAL", "SEND", "SHRSOUT":
		return TransferOut, nil
	default:
		return "", fmt.Errorf("unknown action: %q", s)
	}
}

// IsAcquisition reports whether the action opens a lot.
func (a Action) IsAcquisition() bool { return a == Buy || a == TransferIn }

// IsDisposal reports whether the action consumes lots.
func (a Action) IsDisposal() bool { return a == Sell || a == TransferOut }

// LotPick names one lot and the quantity to consume from it, for
// specific-lot disposals.
type LotPick struct {
	Lot      LotID    `json:"lot"`
	Quantity Quantity `json:"quantity"`
}

// Transaction is one immutable input record, supplied in order by the
// external ingester. The engine never parses raw text itself.
type Transaction struct {
	Asset    string    `json:"asset"`
	Action   Action    `json:"action"`
	Quantity Quantity  `json:"quantity"`
	Price    Money     `json:"price"`            // per unit
	Fee      Money     `json:"fee,omitempty"`    // trading fee for the whole transaction
	Gas      Money     `json:"gas,omitempty"`    // network fee, crypto transactions only
	Time     time.Time `json:"time"`             // ordering key, with Seq as tie-break
	Seq      int64     `json:"seq"`              // externally-supplied monotonic sequence
	Lots     []LotPick `json:"lots,omitempty"`   // explicit allocations, Specific policy only
	Memo     string    `json:"memo,omitempty"`
}

// Date returns the calendar day of the transaction.
func (t Transaction) Date() Date { return DateOf(t.Time) }

// before reports whether t orders strictly before u under the
// (timestamp, sequence) key.
func (t Transaction) before(u Transaction) bool {
	if t.Time.Equal(u.Time) {
		return t.Seq < u.Seq
	}
	return t.Time.Before(u.Time)
}

// SortTransactions returns a canonical copy of the stream: sorted by
// (timestamp, sequence) and re-numbered with consecutive sequences starting
// at 1. The input is left untouched.
func SortTransactions(transactions []Transaction) []Transaction {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b Transaction) int {
		if a.before(b) {
			return -1
		}
		if b.before(a) {
			return 1
		}
		return 0
	})
	for i := range sorted {
		sorted[i].Seq = int64(i + 1)
	}
	return sorted
}
