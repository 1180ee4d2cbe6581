package taxlot

import (
	"time"

	"github.com/Rhymond/go-money"
)

// Term classifies a realized gain by holding period.
type Term int

const (
	ShortTerm Term = iota
	LongTerm
)

func (t Term) String() string {
	if t == LongTerm {
		return "long"
	}
	return "short"
}

// SaleRef identifies the disposal an allocation or adjustment came from.
type SaleRef struct {
	Asset string    `json:"asset"`
	Time  time.Time `json:"time"`
	Seq   int64     `json:"seq"`
}

// Allocation is the outcome of matching one disposal against one lot: the
// consumed quantity, its share of the disposal fees, and the realized
// gain/loss classified by holding period. Allocations are read-only once
// produced.
type Allocation struct {
	Sale            SaleRef   `json:"sale"`
	Lot             LotID     `json:"lot"`
	Quantity        Quantity  `json:"quantity"`
	ProceedsPerUnit Money     `json:"proceedsPerUnit"`
	CostPerUnit     Money     `json:"costPerUnit"`
	Fee             Money     `json:"fee"`     // apportioned share of the disposal fee
	Gas             Money     `json:"gas"`     // apportioned share of the network fee
	Acquired        time.Time `json:"acquired"`
	HoldingStart    time.Time `json:"holdingStart"`
	Term            Term      `json:"term"`
	Gain            Money     `json:"gain"`
	Realized        bool      `json:"realized"` // false for transfers out
}

// Proceeds returns the gross proceeds of the allocation.
func (a Allocation) Proceeds() Money { return a.ProceedsPerUnit.Mul(a.Quantity) }

// Basis returns the total cost basis consumed by the allocation.
func (a Allocation) Basis() Money { return a.CostPerUnit.Mul(a.Quantity) }

// IsLoss reports whether the allocation realized a loss.
func (a Allocation) IsLoss() bool { return a.Gain.IsNegative() }

// buildAllocations turns committed fragments into realized gain/loss records.
// realized gain = (proceedsPerUnit − costPerUnit) × quantity − apportioned
// fees − apportioned gas. The disposal fee and gas are split across the
// fragments proportionally to quantity, exactly: the parts are rounded
// half-even to the currency scale and the residual goes to the last part.
//
// For non-realizing disposals (transfers out), proceeds track basis so the
// lots are consumed without any gain.
func (l *Ledger) buildAllocations(d Disposal, frags []fragment) []Allocation {
	weights := make([]Quantity, len(frags))
	for i, f := range frags {
		weights[i] = f.quantity
	}
	scale := currencyScale(d.Fee.Currency(), l.cfg.Currency)
	fees := d.Fee.Apportion(scale, weights...)
	gas := d.Gas.Apportion(scale, weights...)

	threshold := l.cfg.HoldingThreshold()
	allocations := make([]Allocation, len(frags))
	for i, f := range frags {
		a := Allocation{
			Sale:            SaleRef{Asset: d.Asset, Time: d.Time, Seq: d.Seq},
			Lot:             f.lot.ID(),
			Quantity:        f.quantity,
			ProceedsPerUnit: d.Price,
			CostPerUnit:     f.lot.CostPerUnit(),
			Fee:             fees[i],
			Gas:             gas[i],
			Acquired:        f.lot.Acquired(),
			HoldingStart:    f.lot.HoldingStart(),
			Realized:        d.Realize,
		}
		if !d.Realize {
			a.ProceedsPerUnit = f.lot.CostPerUnit()
			a.Fee = M(0, fees[i].Currency())
			a.Gas = M(0, gas[i].Currency())
		}
		a.Gain = a.Proceeds().Sub(a.Basis()).Sub(a.Fee).Sub(a.Gas)
		if d.Time.Sub(a.HoldingStart) < threshold {
			a.Term = ShortTerm
		} else {
			a.Term = LongTerm
		}
		allocations[i] = a
	}
	return allocations
}

// currencyScale returns the fraction digits of the first non-empty currency
// code, falling back to 2.
func currencyScale(codes ...string) int32 {
	for _, code := range codes {
		if code == "" {
			continue
		}
		return int32(money.New(0, code).Currency().Fraction)
	}
	return 2
}
