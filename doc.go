// Package taxlot implements a tax-lot ledger and sale-matching engine for
// investment and cryptocurrency disposals. It is designed to be auditable and
// exact: every acquisition opens a discrete lot, every disposal is matched
// against lots under a configurable methodology, and all quantity and basis
// arithmetic is fixed-point decimal.
//
// The core functionalities include:
//   - Lot Ledger: the sole owner of all lots per asset, supporting creation,
//     partial consumption and basis adjustment while preserving the full
//     audit history (lots are closed, never deleted).
//   - Matching Engine: allocates disposals against open lots under FIFO,
//     LIFO, specific-lot, highest-cost or lowest-cost policies, atomically.
//   - Wash Sale Detector: observes disposals and repurchases per asset and
//     defers disallowed losses onto replacement lots, extending their
//     holding period.
//   - Cost Basis Calculator and Reporter: turns allocations into realized
//     gain/loss records classified by holding period, aggregated per asset
//     and reporting period.
//   - Import/Export: reading broker CSV and JSON exports into the
//     transaction stream, and emitting QIF investment and capital-gain
//     records.
//
// This package serves as the foundational logic for the `tlt` command-line
// tool. The engine performs no I/O of its own; all parsing and emitting
// happens at the boundary.
package taxlot
