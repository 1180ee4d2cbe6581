package taxlot

import "time"

// LotID identifies a lot within its asset's book. IDs are assigned
// sequentially per asset so that replaying the same transaction stream
// reproduces them exactly.
type LotID int64

// Lot is a discrete quantity of an asset acquired at one point in time at one
// cost basis. Lots are owned exclusively by the Ledger: the matching engine
// and the wash sale detector mutate them only through ledger operations.
//
// A lot is never deleted, only closed (remaining zero), preserving the audit
// history.
type Lot struct {
	id           LotID
	asset        string
	acquired     time.Time
	seq          int64 // creation sequence, tie-break for same-timestamp lots
	original     Quantity
	remaining    Quantity
	costPerUnit  Money     // includes apportioned acquisition fees and gas
	holdingStart time.Time // acquired, pushed back by wash-sale carry-forward
	washAdjusted bool      // true once the lot absorbed a disallowed loss
}

func (l *Lot) ID() LotID           { return l.id }
func (l *Lot) Asset() string       { return l.asset }
func (l *Lot) Acquired() time.Time { return l.acquired }
func (l *Lot) Seq() int64          { return l.seq }
func (l *Lot) Original() Quantity  { return l.original }
func (l *Lot) Remaining() Quantity { return l.remaining }
func (l *Lot) CostPerUnit() Money  { return l.costPerUnit }
func (l *Lot) Closed() bool        { return l.remaining.IsZero() }

// HoldingStart is the effective acquisition date used for short/long-term
// classification. It equals Acquired unless a wash-sale adjustment extended
// the holding period.
func (l *Lot) HoldingStart() time.Time { return l.holdingStart }

// ordersBefore reports whether l precedes m in ledger order, ascending by
// (acquisition timestamp, creation sequence).
func (l *Lot) ordersBefore(m *Lot) bool {
	if l.acquired.Equal(m.acquired) {
		return l.seq < m.seq
	}
	return l.acquired.Before(m.acquired)
}
