package taxlot

import (
	"fmt"
	"slices"
	"sync"
)

// Results collects everything a processed stream produced: the full
// allocation and adjustment history plus the per-transaction failures. All of
// it is read-only and deterministic: replaying an identical stream yields
// byte-identical results.
type Results struct {
	Allocations []Allocation
	Adjustments []WashSaleAdjustment
	Errors      []*TxError
}

// Processor drives an ordered transaction stream through the ledger, the
// matching engine and the wash sale detector.
//
// The model is single-writer-per-asset: transactions for different assets
// share no mutable state and run on parallel workers, while transactions for
// the same asset apply in strict (timestamp, sequence) order. Each
// transaction commits atomically, so a caller may stop feeding the stream at
// any transaction boundary without corrupting ledger state.
type Processor struct {
	cfg    *Config
	ledger *Ledger
	wash   *WashSaleDetector

	allocations []Allocation
	errs        []*TxError
}

// NewProcessor creates a processor with a fresh ledger and detector.
func NewProcessor(cfg *Config) *Processor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	ledger := NewLedger(cfg)
	return &Processor{
		cfg:    cfg,
		ledger: ledger,
		wash:   NewWashSaleDetector(cfg, ledger),
	}
}

// Ledger exposes the processor's ledger for read-only lot inventory views.
func (p *Processor) Ledger() *Ledger { return p.ledger }

// Detector exposes the wash sale detector for pending-loss views.
func (p *Processor) Detector() *WashSaleDetector { return p.wash }

// Apply commits a single transaction as one atomic unit of work: either the
// allocation computation and the ledger mutation both complete, or neither
// does. Errors reject only this transaction; the ledger is left unchanged.
func (p *Processor) Apply(tx Transaction) ([]Allocation, error) {
	switch {
	case tx.Action.IsAcquisition():
		lot, err := p.ledger.OpenLot(tx)
		if err != nil {
			return nil, err
		}
		p.wash.ObserveAcquisition(*lot)
		return nil, nil
	case tx.Action.IsDisposal():
		allocations, err := p.ledger.Dispose(DisposalOf(tx, p.cfg.DefaultPolicy))
		if err != nil {
			return nil, err
		}
		p.wash.ObserveSale(allocations)
		return allocations, nil
	default:
		return nil, fmt.Errorf("%s: unsupported action %q", tx.Asset, tx.Action)
	}
}

// Process applies the whole stream, fanning out one worker per asset.
// Per-transaction failures are collected and do not abort the remaining
// stream; callers inspect Results.Errors to decide whether to skip, halt or
// re-queue.
func (p *Processor) Process(transactions []Transaction) *Results {
	// split the stream per asset, preserving the given order
	perAsset := make(map[string][]Transaction)
	for _, tx := range transactions {
		perAsset[tx.Asset] = append(perAsset[tx.Asset], tx)
	}

	assets := make([]string, 0, len(perAsset))
	for asset := range perAsset {
		assets = append(assets, asset)
		// pre-create all shared per-asset state before the fan-out
		p.ledger.book(asset)
		p.wash.reserve(asset)
	}
	slices.Sort(assets)

	type assetResult struct {
		allocations []Allocation
		errs        []*TxError
	}
	results := make(map[string]*assetResult, len(assets))
	var wg sync.WaitGroup
	for _, asset := range assets {
		res := &assetResult{}
		results[asset] = res
		wg.Add(1)
		go func(txs []Transaction, res *assetResult) {
			defer wg.Done()
			for _, tx := range txs {
				allocations, err := p.Apply(tx)
				if err != nil {
					res.errs = append(res.errs, &TxError{Asset: tx.Asset, Seq: tx.Seq, Err: err})
					continue
				}
				res.allocations = append(res.allocations, allocations...)
			}
		}(perAsset[asset], res)
	}
	wg.Wait()

	// merge deterministically: assets in sorted order, then stream order
	out := &Results{}
	for _, asset := range assets {
		out.Allocations = append(out.Allocations, results[asset].allocations...)
		out.Errors = append(out.Errors, results[asset].errs...)
	}
	out.Adjustments = p.wash.Adjustments()
	p.allocations = append(p.allocations, out.Allocations...)
	p.errs = append(p.errs, out.Errors...)
	return out
}

// Allocations returns the allocation history of everything applied so far.
func (p *Processor) Allocations() []Allocation { return slices.Clone(p.allocations) }

// Report aggregates the processed allocations over a range.
func (p *Processor) Report(rng Range) *GainsReport {
	return NewGainsReport(rng, p.cfg.DefaultPolicy, p.cfg.Currency, p.allocations, p.wash.Adjustments())
}
