package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CalculatedPrice is the core's sole durable output: a priced decision,
// written by the Persister with a 2-hour TTL, consumed by an external
// publisher that is out of scope here.
type CalculatedPrice struct {
	ASIN              string          `json:"asin"`
	SKU               string          `json:"sku"`
	SellerID          string          `json:"seller_id"`
	Tier              string          `json:"tier,omitempty"`
	OldPrice          decimal.Decimal `json:"old_price"`
	NewPrice          decimal.Decimal `json:"new_price"`
	StrategyUsed      string          `json:"strategy_used"`
	StrategyID        string          `json:"strategy_id"`
	CompetitorPrice   decimal.Decimal `json:"competitor_price"`
	CalculatedAt      time.Time       `json:"calculated_at"`
	ProcessingTimeMS  float64         `json:"processing_time_ms"`
}

// PauseFlag marks a (seller_id, asin) pair as exempt from repricing.
// Presence, not value, is the signal; the timestamp records when it was set.
type PauseFlag struct {
	SellerID string    `json:"seller_id"`
	ASIN     string    `json:"asin"`
	SetAt    time.Time `json:"set_at"`
}
