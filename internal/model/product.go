// Package model holds the data types shared across the repricing pipeline:
// products, strategies, offer changes, calculated prices and reset rules.
package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ItemCondition mirrors the marketplace condition values, always uppercased.
type ItemCondition string

const (
	ConditionNew          ItemCondition = "NEW"
	ConditionUsed         ItemCondition = "USED"
	ConditionCollectible  ItemCondition = "COLLECTIBLE"
	ConditionRefurbished  ItemCondition = "REFURBISHED"
)

// ProductStatus is the listing lifecycle state.
type ProductStatus string

const (
	StatusActive     ProductStatus = "Active"
	StatusInactive   ProductStatus = "Inactive"
	StatusIncomplete ProductStatus = "Incomplete"
	StatusSuppressed ProductStatus = "Suppressed"
)

// PriceTier holds the per-quantity-tier bounds used by B2B business pricing.
type PriceTier struct {
	Min     *decimal.Decimal `json:"min,omitempty"`
	Max     *decimal.Decimal `json:"max,omitempty"`
	Default *decimal.Decimal `json:"default,omitempty"`
}

// Product is the seller's listing of an ASIN/SKU, owned entirely by the
// external listing-sync jobs (see internal/sync) and read-only to the core
// pipeline except for the default-price/pause writes the Reset Scheduler
// performs through the Store.
type Product struct {
	ASIN            string               `json:"asin"`
	SKU             string               `json:"sku"`
	SellerID        string               `json:"seller_id"`
	Marketplace     string               `json:"marketplace"`
	ListedPrice     decimal.Decimal      `json:"listed_price"`
	MinPrice        *decimal.Decimal     `json:"min_price,omitempty"`
	MaxPrice        *decimal.Decimal     `json:"max_price,omitempty"`
	DefaultPrice    *decimal.Decimal     `json:"default_price,omitempty"`
	ItemCondition   ItemCondition        `json:"item_condition"`
	Quantity        int64                `json:"quantity"`
	Status          ProductStatus        `json:"status"`
	RepricerEnabled bool                 `json:"repricer_enabled"`
	StrategyID      string               `json:"strategy_id"`
	IsB2B           bool                 `json:"is_b2b"`
	BusinessPricing map[string]PriceTier `json:"business_pricing,omitempty"`
	InventoryAge    int                  `json:"inventory_age"`
}

// Validate enforces the invariants spec.md §3 lists for Product.
func (p *Product) Validate() error {
	if p.MinPrice != nil && p.MaxPrice != nil && !p.MinPrice.LessThan(*p.MaxPrice) {
		return fmt.Errorf("product %s/%s/%s: min_price %s must be < max_price %s", p.ASIN, p.SellerID, p.SKU, p.MinPrice, p.MaxPrice)
	}
	if p.Quantity < 0 {
		return fmt.Errorf("product %s/%s/%s: quantity %d must be >= 0", p.ASIN, p.SellerID, p.SKU, p.Quantity)
	}
	return nil
}

// CompeteWith selects which competitor slot of a Summary a Strategy reacts to.
type CompeteWith string

const (
	CompeteLowestPrice    CompeteWith = "LOWEST_PRICE"
	CompeteLowestFBAPrice CompeteWith = "LOWEST_FBA_PRICE"
	CompeteMatchBuyBox    CompeteWith = "MATCH_BUYBOX"
)

// StrategyType is the seller's declared intent; the Strategy Engine may
// override it per event (spec.md §4.5).
type StrategyType string

const (
	StrategyWinBuyBox       StrategyType = "WIN_BUYBOX"
	StrategyMaximiseProfit  StrategyType = "MAXIMISE_PROFIT"
	StrategyOnlySeller      StrategyType = "ONLY_SELLER"
)

// BoundRule names one of the five rule actions applied when a bound is crossed.
type BoundRule string

const (
	RuleJumpToMin       BoundRule = "JUMP_TO_MIN"
	RuleJumpToMax       BoundRule = "JUMP_TO_MAX"
	RuleMatchCompetitor BoundRule = "MATCH_COMPETITOR"
	RuleDefaultPrice    BoundRule = "DEFAULT_PRICE"
	RuleDoNothing       BoundRule = "DO_NOTHING"
)

// Strategy configures how a product (or all of a seller's products, when
// ASIN is empty) gets repriced.
type Strategy struct {
	ID            string          `json:"id"`
	SellerID      string          `json:"seller_id"`
	ASIN          string          `json:"asin,omitempty"`
	Type          StrategyType    `json:"type"`
	CompeteWith   CompeteWith     `json:"compete_with"`
	BeatBy        decimal.Decimal `json:"beat_by"`
	MinPriceRule  BoundRule       `json:"min_price_rule"`
	MaxPriceRule  BoundRule       `json:"max_price_rule"`
	Enabled       bool            `json:"enabled"`
	Conditions    []ItemCondition `json:"conditions,omitempty"`
}

// ResetRuleSet is a seller's daily reset/resume window, time-of-day in the
// seller's marketplace zone (IANA name; empty means UTC per Design Notes §9(ii)).
type ResetRuleSet struct {
	SellerID        string        `json:"seller_id"`
	Marketplace     string        `json:"marketplace"`
	TimeZone        string        `json:"time_zone"`
	ResetTime       string        `json:"reset_time"`  // "HH:MM" wall clock
	ResumeTime      string        `json:"resume_time"` // "HH:MM" wall clock
	Enabled         bool          `json:"enabled"`
	ProductCondition ItemCondition `json:"product_condition,omitempty"`
}
