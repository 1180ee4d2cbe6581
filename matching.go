package taxlot

import (
	"slices"
	"time"
)

// Disposal describes a request to dispose of a quantity of an asset against
// the ledger's open lots.
type Disposal struct {
	Asset    string
	Quantity Quantity
	Price    Money // proceeds per unit
	Fee      Money
	Gas      Money
	Time     time.Time
	Seq      int64
	Policy   MatchingPolicy
	Lots     []LotPick // explicit allocations, Specific policy only
	Realize  bool      // false for transfers: consume lots without realizing gain
}

// DisposalOf builds a Disposal from a disposal transaction. A transaction
// naming explicit lots always uses the Specific policy.
func DisposalOf(tx Transaction, policy MatchingPolicy) Disposal {
	if len(tx.Lots) > 0 {
		policy = Specific
	}
	return Disposal{
		Asset:    tx.Asset,
		Quantity: tx.Quantity,
		Price:    tx.Price,
		Fee:      tx.Fee,
		Gas:      tx.Gas,
		Time:     tx.Time,
		Seq:      tx.Seq,
		Policy:   policy,
		Lots:     tx.Lots,
		Realize:  tx.Action == Sell,
	}
}

// fragment pairs one candidate lot with the quantity to consume from it.
type fragment struct {
	lot      Lot
	quantity Quantity
}

// Dispose matches the disposal against the ledger under its policy and
// commits the resulting allocations. The disposal is atomic: either every
// allocation is committed, or the ledger is left byte-identical to before the
// attempt.
func (l *Ledger) Dispose(d Disposal) ([]Allocation, error) {
	if !d.Quantity.IsPositive() {
		return nil, &InvalidQuantityError{Asset: d.Asset, Quantity: d.Quantity}
	}
	quantity, err := d.Quantity.Rescale(d.Asset, l.cfg.ScaleFor(d.Asset))
	if err != nil {
		return nil, err
	}
	d.Quantity = quantity

	snap := l.snapshot(d.Asset)
	allocations, err := l.dispose(d)
	if err != nil {
		l.restore(snap)
		return nil, err
	}
	return allocations, nil
}

func (l *Ledger) dispose(d Disposal) ([]Allocation, error) {
	b := l.book(d.Asset)
	if err := b.advance(d.Asset, d.Time, d.Seq); err != nil {
		return nil, err
	}

	var frags []fragment
	var err error
	if d.Policy == Specific {
		frags, err = l.pickSpecific(d)
	} else {
		frags, err = l.pickByOrder(d)
	}
	if err != nil {
		return nil, err
	}

	for _, f := range frags {
		if err := l.Consume(d.Asset, f.lot.ID(), f.quantity); err != nil {
			return nil, err
		}
	}
	return l.buildAllocations(d, frags), nil
}

// pickByOrder allocates min(remaining, still needed) from each candidate lot
// in policy order until the disposal quantity is satisfied.
func (l *Ledger) pickByOrder(d Disposal) ([]fragment, error) {
	var candidates []Lot
	for lot := range l.OpenLotsFor(d.Asset) {
		candidates = append(candidates, lot)
	}
	orderCandidates(candidates, d.Policy)

	var frags []fragment
	needed := d.Quantity
	for _, lot := range candidates {
		if needed.IsZero() {
			break
		}
		take := lot.Remaining().Min(needed)
		frags = append(frags, fragment{lot: lot, quantity: take})
		needed = needed.Sub(take)
	}
	if !needed.IsZero() {
		return nil, &InsufficientLotsError{
			Asset:     d.Asset,
			Requested: d.Quantity,
			Available: l.OpenQuantity(d.Asset),
		}
	}
	return frags, nil
}

// orderCandidates sorts open lots for the given policy. Lots arrive in ledger
// order (ascending acquisition timestamp, sequence); cost-ordered policies
// sort stably so ties keep FIFO order.
func orderCandidates(candidates []Lot, policy MatchingPolicy) {
	switch policy {
	case FIFO:
		// ledger order already
	case LIFO:
		slices.Reverse(candidates)
	case HighestCost:
		slices.SortStableFunc(candidates, func(a, b Lot) int {
			return b.CostPerUnit().Cmp(a.CostPerUnit())
		})
	case LowestCost:
		slices.SortStableFunc(candidates, func(a, b Lot) int {
			return a.CostPerUnit().Cmp(b.CostPerUnit())
		})
	}
}

// pickSpecific validates the caller-supplied (lot, quantity) pairs: every
// named lot must hold the named quantity, and the pairs must sum to the
// disposal quantity exactly.
func (l *Ledger) pickSpecific(d Disposal) ([]fragment, error) {
	var frags []fragment
	var total Quantity
	for _, pick := range d.Lots {
		lot, ok := l.Lot(d.Asset, pick.Lot)
		if !ok || lot.Closed() {
			return nil, &OverconsumptionError{Asset: d.Asset, Lot: pick.Lot, Requested: pick.Quantity}
		}
		if pick.Quantity.GreaterThan(lot.Remaining()) {
			return nil, &OverconsumptionError{Asset: d.Asset, Lot: pick.Lot, Requested: pick.Quantity, Remaining: lot.Remaining()}
		}
		frags = append(frags, fragment{lot: lot, quantity: pick.Quantity})
		total = total.Add(pick.Quantity)
	}
	if !total.Equal(d.Quantity) {
		return nil, &AmbiguousSpecificLotError{Asset: d.Asset, Requested: d.Quantity, Specified: total}
	}
	return frags, nil
}
