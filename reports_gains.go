package taxlot

import "slices"

// AssetGains holds the aggregated disposal results for a single asset over a
// reporting range.
type AssetGains struct {
	Asset      string
	Quantity   Quantity // disposed quantity
	Proceeds   Money
	Basis      Money
	ShortGain  Money
	LongGain   Money
	Disallowed Money // losses deferred onto replacement lots
}

// Gain returns the total allowed gain for the asset.
func (g AssetGains) Gain() Money { return g.ShortGain.Add(g.LongGain) }

// GainsReport aggregates allocations into per-asset summaries over one
// reporting range. It is a read-only result record for the external emitter
// and UI layers.
type GainsReport struct {
	Range      Range
	Policy     MatchingPolicy
	Currency   string
	Assets     []AssetGains
	Quantity   Quantity
	Proceeds   Money
	Basis      Money
	ShortGain  Money
	LongGain   Money
	Disallowed Money
}

// Gain returns the total allowed gain of the report.
func (r *GainsReport) Gain() Money { return r.ShortGain.Add(r.LongGain) }

// NewGainsReport aggregates the realized allocations whose sale falls inside
// the range. Wash-sale adjustments move their disallowed amount out of the
// originating sale's loss (the allowed gain rises toward zero) and into the
// Disallowed column.
func NewGainsReport(rng Range, policy MatchingPolicy, currency string, allocations []Allocation, adjustments []WashSaleAdjustment) *GainsReport {
	report := &GainsReport{Range: rng, Policy: policy, Currency: currency}
	byAsset := make(map[string]*AssetGains)

	zero := M(0, currency)
	get := func(asset string) *AssetGains {
		g, ok := byAsset[asset]
		if !ok {
			g = &AssetGains{
				Asset:      asset,
				Proceeds:   zero,
				Basis:      zero,
				ShortGain:  zero,
				LongGain:   zero,
				Disallowed: zero,
			}
			byAsset[asset] = g
		}
		return g
	}

	// terms remembers the classification of each allocation so an adjustment
	// lands in the right bucket.
	type saleKey struct {
		sale SaleRef
		lot  LotID
	}
	terms := make(map[saleKey]Term)

	for _, a := range allocations {
		if !a.Realized || !rng.Contains(DateOf(a.Sale.Time)) {
			continue
		}
		terms[saleKey{a.Sale, a.Lot}] = a.Term
		g := get(a.Sale.Asset)
		g.Quantity = g.Quantity.Add(a.Quantity)
		g.Proceeds = g.Proceeds.Add(a.Proceeds())
		g.Basis = g.Basis.Add(a.Basis().Add(a.Fee).Add(a.Gas))
		if a.Term == ShortTerm {
			g.ShortGain = g.ShortGain.Add(a.Gain)
		} else {
			g.LongGain = g.LongGain.Add(a.Gain)
		}
	}

	for _, adj := range adjustments {
		if !rng.Contains(DateOf(adj.Sale.Time)) {
			continue
		}
		term, ok := terms[saleKey{adj.Sale, adj.Lot}]
		if !ok {
			continue // the adjusted sale is outside this report
		}
		g := get(adj.Sale.Asset)
		g.Disallowed = g.Disallowed.Add(adj.Disallowed)
		// the disallowed loss no longer counts against the period's gain
		if term == ShortTerm {
			g.ShortGain = g.ShortGain.Add(adj.Disallowed)
		} else {
			g.LongGain = g.LongGain.Add(adj.Disallowed)
		}
	}

	assets := make([]string, 0, len(byAsset))
	for a := range byAsset {
		assets = append(assets, a)
	}
	slices.Sort(assets)

	report.Proceeds, report.Basis = zero, zero
	report.ShortGain, report.LongGain, report.Disallowed = zero, zero, zero
	for _, a := range assets {
		g := byAsset[a]
		report.Assets = append(report.Assets, *g)
		report.Quantity = report.Quantity.Add(g.Quantity)
		report.Proceeds = report.Proceeds.Add(g.Proceeds)
		report.Basis = report.Basis.Add(g.Basis)
		report.ShortGain = report.ShortGain.Add(g.ShortGain)
		report.LongGain = report.LongGain.Add(g.LongGain)
		report.Disallowed = report.Disallowed.Add(g.Disallowed)
	}
	return report
}

// PeriodicGainsReports slices the range into standard periods and returns one
// report per period with at least one disposal.
func PeriodicGainsReports(rng Range, period Period, policy MatchingPolicy, currency string, allocations []Allocation, adjustments []WashSaleAdjustment) []*GainsReport {
	var reports []*GainsReport
	for sub := range rng.Periods(period) {
		r := NewGainsReport(sub, policy, currency, allocations, adjustments)
		if len(r.Assets) == 0 {
			continue
		}
		reports = append(reports, r)
	}
	return reports
}
