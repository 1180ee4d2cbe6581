package taxlot

import (
	"fmt"
	"time"
)

// All engine failures are value-level errors carrying the asset and enough
// transaction context to report them without the original record at hand.
// One transaction's failure never aborts the rest of the stream.

// InvalidQuantityError reports a non-positive quantity on an acquisition or
// disposal.
type InvalidQuantityError struct {
	Asset    string
	Quantity Quantity
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("%s: invalid quantity %s: must be positive", e.Asset, e.Quantity)
}

// OverconsumptionError reports an attempt to consume more than a lot holds.
// The matching engine validates allocations before committing them, so this
// surfacing past the engine indicates an engine bug.
type OverconsumptionError struct {
	Asset     string
	Lot       LotID
	Requested Quantity
	Remaining Quantity
}

func (e *OverconsumptionError) Error() string {
	return fmt.Sprintf("%s: lot %d holds %s, cannot consume %s", e.Asset, e.Lot, e.Remaining, e.Requested)
}

// InsufficientLotsError reports a disposal quantity exceeding the total open
// lot quantity for the asset. The transaction is rejected and the ledger left
// unchanged; there is no implicit short selling.
type InsufficientLotsError struct {
	Asset     string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientLotsError) Error() string {
	return fmt.Sprintf("%s: disposal of %s exceeds open quantity %s", e.Asset, e.Requested, e.Available)
}

// AmbiguousSpecificLotError reports a specific-lot allocation list that does
// not exactly cover the requested disposal quantity.
type AmbiguousSpecificLotError struct {
	Asset     string
	Requested Quantity
	Specified Quantity
}

func (e *AmbiguousSpecificLotError) Error() string {
	return fmt.Sprintf("%s: specific lots cover %s, disposal requests %s", e.Asset, e.Specified, e.Requested)
}

// PrecisionOverflowError reports an arithmetic operation that would lose
// precision beyond the asset's configured scale.
type PrecisionOverflowError struct {
	Asset string
	Value string
	Scale int32
}

func (e *PrecisionOverflowError) Error() string {
	return fmt.Sprintf("%s: value %s does not fit in %d decimal places", e.Asset, e.Value, e.Scale)
}

// InvalidDateOrderError reports a transaction whose timestamp precedes the
// last applied transaction for the same asset. Lot consumption and wash-sale
// state are order dependent, so out-of-order application is rejected.
type InvalidDateOrderError struct {
	Asset string
	Time  time.Time
	Last  time.Time
}

func (e *InvalidDateOrderError) Error() string {
	return fmt.Sprintf("%s: transaction at %s precedes last applied %s",
		e.Asset, e.Time.Format(time.RFC3339), e.Last.Format(time.RFC3339))
}

// TxError wraps a per-transaction failure with the position of the failing
// transaction in the stream.
type TxError struct {
	Asset string
	Seq   int64
	Err   error
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction %d (%s): %v", e.Seq, e.Asset, e.Err)
}

func (e *TxError) Unwrap() error { return e.Err }
