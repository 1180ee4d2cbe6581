package taxlot

import (
	"slices"
	"time"
)

// WashSaleAdjustment links a disallowed-loss allocation to the replacement
// lot whose basis absorbed the disallowed amount.
type WashSaleAdjustment struct {
	Sale        SaleRef  `json:"sale"`
	Lot         LotID    `json:"lot"`         // the lot whose sale realized the loss
	Replacement LotID    `json:"replacement"` // the lot whose basis absorbed it
	Quantity    Quantity `json:"quantity"`    // matched replacement quantity
	Disallowed  Money    `json:"disallowed"`  // positive magnitude of the disallowed loss
}

// WashState is the lifecycle of one pending loss in the detector.
type WashState int

const (
	// LossPending: a loss-realizing sale occurred, the replacement window is
	// still open.
	LossPending WashState = iota
	// LossResolved: the window closed without a qualifying repurchase, the
	// loss stands.
	LossResolved
	// LossDisallowed: the loss was fully absorbed by replacement lots.
	LossDisallowed
)

func (s WashState) String() string {
	switch s {
	case LossPending:
		return "pending"
	case LossResolved:
		return "resolved"
	case LossDisallowed:
		return "disallowed"
	default:
		return "unknown"
	}
}

// PendingLoss tracks one loss allocation awaiting its replacement window.
type PendingLoss struct {
	Sale          SaleRef
	Lot           LotID
	State         WashState
	RemainingQty  Quantity // sold quantity not yet matched by a repurchase
	RemainingLoss Money    // positive magnitude still subject to disallowal
	HoldingStart  time.Time
	WindowEnd     Date // last calendar day on which a repurchase still matches
}

// washBook is the detector state for one asset. A single worker owns it, so
// mutating it never writes the detector's shared map.
type washBook struct {
	pending     []*PendingLoss
	used        map[LotID]Quantity // replacement capacity already consumed per lot
	adjustments []WashSaleAdjustment
}

// WashSaleDetector observes the per-asset stream of disposals and
// acquisitions and defers disallowed losses onto replacement lots.
//
// Each loss allocation becomes a pending entry; a repurchase of the same
// asset within the configurable window (default ±30 calendar days around the
// sale) absorbs a proportional share of the loss into the replacement lot's
// basis and extends that lot's effective holding period. Entries are purged
// once their window closes, so retention is bounded by the window size.
type WashSaleDetector struct {
	cfg    *Config
	ledger *Ledger
	books  map[string]*washBook
}

// NewWashSaleDetector creates a detector bound to the ledger whose lots it
// adjusts.
func NewWashSaleDetector(cfg *Config, ledger *Ledger) *WashSaleDetector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &WashSaleDetector{
		cfg:    cfg,
		ledger: ledger,
		books:  make(map[string]*washBook),
	}
}

// reserve pre-creates the per-asset book. The processor calls it for every
// asset before fanning out workers, so workers only ever read the map.
func (w *WashSaleDetector) reserve(asset string) *washBook {
	b, ok := w.books[asset]
	if !ok {
		b = &washBook{used: make(map[LotID]Quantity)}
		w.books[asset] = b
	}
	return b
}

// ObserveSale records the loss allocations of a committed sale and
// immediately matches them against replacement lots already acquired in the
// half-window before the sale.
func (w *WashSaleDetector) ObserveSale(allocations []Allocation) {
	for _, a := range allocations {
		if !a.IsLoss() {
			continue
		}
		b := w.reserve(a.Sale.Asset)
		p := &PendingLoss{
			Sale:          a.Sale,
			Lot:           a.Lot,
			State:         LossPending,
			RemainingQty:  a.Quantity,
			RemainingLoss: a.Gain.Neg(),
			HoldingStart:  a.HoldingStart,
			WindowEnd:     w.cfg.WashWindow(DateOf(a.Sale.Time)).To,
		}
		b.pending = append(b.pending, p)
		w.matchBackward(b, p)
	}
}

// matchBackward pairs a fresh pending loss with still-open lots acquired
// within the half-window preceding the sale. The window is measured in
// calendar days, inclusive of the boundary day. Capacity is limited to the
// unconsumed part of each lot so the sale cannot match the very shares it
// disposed of.
func (w *WashSaleDetector) matchBackward(b *washBook, p *PendingLoss) {
	windowStart := w.cfg.WashWindow(DateOf(p.Sale.Time)).From
	for lot := range w.ledger.OpenLotsFor(p.Sale.Asset) {
		if p.RemainingQty.IsZero() {
			return
		}
		if DateOf(lot.Acquired()).Before(windowStart) || !lot.Acquired().Before(p.Sale.Time) {
			continue
		}
		w.match(b, p, lot, lot.Remaining())
	}
}

// ObserveAcquisition matches a newly opened lot against the asset's pending
// losses whose window covers the acquisition. Multiple partial repurchases
// each trigger an independent proportional adjustment.
func (w *WashSaleDetector) ObserveAcquisition(lot Lot) {
	b := w.reserve(lot.Asset())
	for _, p := range b.pending {
		if p.RemainingQty.IsZero() {
			continue
		}
		if DateOf(lot.Acquired()).After(p.WindowEnd) {
			continue
		}
		w.match(b, p, lot, lot.Original())
	}
}

// match absorbs the proportional share of a pending loss into the
// replacement lot's basis. The final match of an entry takes the exact
// remaining loss, so the disallowed parts sum exactly to the original loss.
func (w *WashSaleDetector) match(b *washBook, p *PendingLoss, replacement Lot, capacity Quantity) {
	if replacement.ID() == p.Lot {
		return // a lot is never its own replacement
	}
	current, ok := w.ledger.Lot(replacement.Asset(), replacement.ID())
	if !ok {
		return
	}
	if current.washAdjusted && !w.cfg.ChainedWashSales {
		return
	}

	used := b.used[replacement.ID()]
	capacity = capacity.Sub(used)
	if !capacity.IsPositive() {
		return
	}

	matched := p.RemainingQty.Min(capacity)
	var disallowed Money
	if matched.Equal(p.RemainingQty) {
		disallowed = p.RemainingLoss
	} else {
		scale := currencyScale(p.RemainingLoss.Currency(), w.cfg.Currency)
		disallowed = p.RemainingLoss.Apportion(scale, matched, p.RemainingQty.Sub(matched))[0]
	}

	if err := w.ledger.AdjustBasis(replacement.Asset(), replacement.ID(), disallowed, p.HoldingStart); err != nil {
		return
	}

	b.used[replacement.ID()] = used.Add(matched)
	p.RemainingQty = p.RemainingQty.Sub(matched)
	p.RemainingLoss = p.RemainingLoss.Sub(disallowed)
	if p.RemainingQty.IsZero() {
		p.State = LossDisallowed
	}

	b.adjustments = append(b.adjustments, WashSaleAdjustment{
		Sale:        p.Sale,
		Lot:         p.Lot,
		Replacement: replacement.ID(),
		Quantity:    matched,
		Disallowed:  disallowed,
	})
}

// Resolve closes out pending entries whose last window day is past as of the
// given time, and purges entries that are no longer pending. Unresolved losses
// stay pending through the end of their last window day.
func (w *WashSaleDetector) Resolve(asOf time.Time) {
	day := DateOf(asOf)
	for _, b := range w.books {
		kept := b.pending[:0]
		for _, p := range b.pending {
			if p.State == LossPending && p.WindowEnd.Before(day) {
				p.State = LossResolved
			}
			if p.State == LossPending {
				kept = append(kept, p)
			}
		}
		b.pending = kept
	}
}

// Pending returns copies of the still-pending losses for an asset, in sale
// order.
func (w *WashSaleDetector) Pending(asset string) []PendingLoss {
	b, ok := w.books[asset]
	if !ok {
		return nil
	}
	out := make([]PendingLoss, 0, len(b.pending))
	for _, p := range b.pending {
		if p.State == LossPending {
			out = append(out, *p)
		}
	}
	return out
}

// Adjustments returns the full adjustment history, grouped by asset in
// sorted order and chronological within each asset.
func (w *WashSaleDetector) Adjustments() []WashSaleAdjustment {
	assets := make([]string, 0, len(w.books))
	for a := range w.books {
		assets = append(assets, a)
	}
	slices.Sort(assets)
	var out []WashSaleAdjustment
	for _, a := range assets {
		out = append(out, w.books[a].adjustments...)
	}
	return out
}
