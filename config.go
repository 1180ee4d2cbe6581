package taxlot

import "time"

// Config holds the engine settings consumed by the ledger, the matching
// engine and the wash sale detector.
type Config struct {
	// DefaultPolicy is used for disposals that do not name specific lots.
	DefaultPolicy MatchingPolicy
	// HoldingPeriodDays separates short-term from long-term gains.
	HoldingPeriodDays int
	// WashSaleWindowDays is the half-width, in calendar days, of the window
	// around a loss sale in which a repurchase disallows the loss.
	WashSaleWindowDays int
	// ChainedWashSales permits a lot that already absorbed a disallowed loss
	// to serve again as replacement for a later loss sale.
	ChainedWashSales bool
	// Currency is the reporting currency for basis and proceeds.
	Currency string
	// AssetScale maps an asset to its number of decimal places.
	// Assets not listed use DefaultScale.
	AssetScale map[string]int32
	// DefaultScale applies to assets absent from AssetScale.
	DefaultScale int32
}

// DefaultConfig returns the engine defaults: FIFO, 365-day holding threshold,
// ±30-day wash sale window, chained wash sales on, USD reporting, 8 decimal
// places for unlisted assets.
func DefaultConfig() *Config {
	return &Config{
		DefaultPolicy:      FIFO,
		HoldingPeriodDays:  365,
		WashSaleWindowDays: 30,
		ChainedWashSales:   true,
		Currency:           "USD",
		DefaultScale:       8,
	}
}

// ScaleFor returns the number of decimal places configured for an asset.
func (c *Config) ScaleFor(asset string) int32 {
	if s, ok := c.AssetScale[asset]; ok {
		return s
	}
	return c.DefaultScale
}

// HoldingThreshold returns the short/long-term boundary as a duration.
func (c *Config) HoldingThreshold() time.Duration {
	return time.Duration(c.HoldingPeriodDays) * Day
}

// WashWindow returns the inclusive calendar-day window around a sale day in
// which a repurchase disallows the loss.
func (c *Config) WashWindow(sale Date) Range {
	return NewRange(sale.Add(-c.WashSaleWindowDays), sale.Add(c.WashSaleWindowDays))
}
