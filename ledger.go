package taxlot

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// Ledger owns every lot, grouped per asset and ordered by
// (acquisition timestamp, creation sequence). All lot mutation goes through
// OpenLot, Consume and AdjustBasis so the quantity-conservation invariant is
// enforced in one place.
type Ledger struct {
	cfg   *Config
	books map[string]*assetBook
}

// assetBook is the per-asset state: the ordered lots plus the ordering
// watermark of the last applied transaction.
type assetBook struct {
	lots     []*Lot
	nextID   LotID
	lastTime time.Time
	lastSeq  int64
	acquired Quantity // sum of all acquisition quantities ever recorded
}

// NewLedger creates an empty ledger using the given configuration.
func NewLedger(cfg *Config) *Ledger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Ledger{cfg: cfg, books: make(map[string]*assetBook)}
}

func (l *Ledger) book(asset string) *assetBook {
	b, ok := l.books[asset]
	if !ok {
		b = &assetBook{nextID: 1}
		l.books[asset] = b
	}
	return b
}

// advance enforces strict (timestamp, sequence) order per asset.
func (b *assetBook) advance(asset string, at time.Time, seq int64) error {
	if at.Before(b.lastTime) || (at.Equal(b.lastTime) && seq < b.lastSeq) {
		return &InvalidDateOrderError{Asset: asset, Time: at, Last: b.lastTime}
	}
	b.lastTime, b.lastSeq = at, seq
	return nil
}

// OpenLot creates and stores a new lot from an acquisition transaction.
// The cost basis per unit is (price + apportioned fee + apportioned gas) per
// unit. It fails with an InvalidQuantityError if the quantity is not positive.
func (l *Ledger) OpenLot(tx Transaction) (*Lot, error) {
	if !tx.Quantity.IsPositive() {
		return nil, &InvalidQuantityError{Asset: tx.Asset, Quantity: tx.Quantity}
	}
	q, err := tx.Quantity.Rescale(tx.Asset, l.cfg.ScaleFor(tx.Asset))
	if err != nil {
		return nil, err
	}
	b := l.book(tx.Asset)
	if err := b.advance(tx.Asset, tx.Time, tx.Seq); err != nil {
		return nil, err
	}

	// fee and gas are paid once for the whole acquisition; fold them into the
	// per-unit basis.
	total := tx.Price.Mul(q).Add(tx.Fee).Add(tx.Gas)
	lot := &Lot{
		id:           b.nextID,
		asset:        tx.Asset,
		acquired:     tx.Time,
		seq:          tx.Seq,
		original:     q,
		remaining:    q,
		costPerUnit:  total.Div(q),
		holdingStart: tx.Time,
	}
	b.nextID++
	b.acquired = b.acquired.Add(q)

	// keep ledger order on out-of-order same-day sequences
	i, _ := slices.BinarySearchFunc(b.lots, lot, func(a, x *Lot) int {
		if a.ordersBefore(x) {
			return -1
		}
		if x.ordersBefore(a) {
			return 1
		}
		return 0
	})
	b.lots = slices.Insert(b.lots, i, lot)
	return lot, nil
}

// Consume reduces the remaining quantity of a lot. It fails with an
// OverconsumptionError when the quantity exceeds what the lot holds. A
// partial consumption keeps the lot open with its acquisition date and
// cost basis per unit unchanged.
func (l *Ledger) Consume(asset string, id LotID, quantity Quantity) error {
	lot, err := l.lot(asset, id)
	if err != nil {
		return err
	}
	if !quantity.IsPositive() {
		return &InvalidQuantityError{Asset: asset, Quantity: quantity}
	}
	if quantity.GreaterThan(lot.remaining) {
		return &OverconsumptionError{Asset: asset, Lot: id, Requested: quantity, Remaining: lot.remaining}
	}
	lot.remaining = lot.remaining.Sub(quantity)
	return nil
}

// AdjustBasis raises the cost basis of a lot by a total amount and optionally
// extends its effective holding start, as a wash-sale adjustment. The extra
// amount is spread over the lot's original quantity.
func (l *Ledger) AdjustBasis(asset string, id LotID, extra Money, holdingStart time.Time) error {
	lot, err := l.lot(asset, id)
	if err != nil {
		return err
	}
	lot.costPerUnit = lot.costPerUnit.Add(extra.Div(lot.original))
	if !holdingStart.IsZero() && holdingStart.Before(lot.holdingStart) {
		lot.holdingStart = holdingStart
	}
	lot.washAdjusted = true
	return nil
}

func (l *Ledger) lot(asset string, id LotID) (*Lot, error) {
	b, ok := l.books[asset]
	if !ok {
		return nil, fmt.Errorf("%s: unknown asset", asset)
	}
	for _, lot := range b.lots {
		if lot.id == id {
			return lot, nil
		}
	}
	return nil, fmt.Errorf("%s: unknown lot %d", asset, id)
}

// Lot returns a read-only copy of the identified lot.
func (l *Ledger) Lot(asset string, id LotID) (Lot, bool) {
	lot, err := l.lot(asset, id)
	if err != nil {
		return Lot{}, false
	}
	return *lot, true
}

// OpenLotsFor yields the open lots of an asset in ledger order. The sequence
// is lazy and restartable and does not mutate state; the matching engine uses
// it to build candidate sets.
func (l *Ledger) OpenLotsFor(asset string) iter.Seq[Lot] {
	return func(yield func(Lot) bool) {
		b, ok := l.books[asset]
		if !ok {
			return
		}
		for _, lot := range b.lots {
			if lot.Closed() {
				continue
			}
			if !yield(*lot) {
				return
			}
		}
	}
}

// AllLotsFor yields every lot of an asset, closed ones included, in ledger
// order. Used for audit views.
func (l *Ledger) AllLotsFor(asset string) iter.Seq[Lot] {
	return func(yield func(Lot) bool) {
		b, ok := l.books[asset]
		if !ok {
			return
		}
		for _, lot := range b.lots {
			if !yield(*lot) {
				return
			}
		}
	}
}

// Assets returns the assets with at least one lot, sorted.
func (l *Ledger) Assets() []string {
	assets := make([]string, 0, len(l.books))
	for a := range l.books {
		assets = append(assets, a)
	}
	slices.Sort(assets)
	return assets
}

// OpenQuantity returns the total remaining quantity over all open lots of an
// asset.
func (l *Ledger) OpenQuantity(asset string) Quantity {
	var total Quantity
	for lot := range l.OpenLotsFor(asset) {
		total = total.Add(lot.Remaining())
	}
	return total
}

// AcquiredQuantity returns the sum of all acquisition quantities ever
// recorded for an asset. With the sum of allocation quantities it verifies
// the conservation invariant.
func (l *Ledger) AcquiredQuantity(asset string) Quantity {
	if b, ok := l.books[asset]; ok {
		return b.acquired
	}
	return Quantity{}
}

// snapshot captures the mutable per-lot state of one asset so a failed
// disposal can roll back to it.
type snapshot struct {
	asset     string
	remaining []Quantity
	lastTime  time.Time
	lastSeq   int64
}

func (l *Ledger) snapshot(asset string) snapshot {
	b, ok := l.books[asset]
	if !ok {
		return snapshot{asset: asset}
	}
	s := snapshot{asset: asset, lastTime: b.lastTime, lastSeq: b.lastSeq}
	s.remaining = make([]Quantity, len(b.lots))
	for i, lot := range b.lots {
		s.remaining[i] = lot.remaining
	}
	return s
}

func (l *Ledger) restore(s snapshot) {
	b, ok := l.books[s.asset]
	if !ok {
		return
	}
	b.lastTime, b.lastSeq = s.lastTime, s.lastSeq
	for i := range s.remaining {
		b.lots[i].remaining = s.remaining[i]
	}
}
