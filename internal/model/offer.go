package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform identifies which marketplace an OfferChange originated from.
type Platform string

const (
	PlatformAmazon  Platform = "AMAZON"
	PlatformWalmart Platform = "WALMART"
)

// Fulfillment distinguishes Amazon's FBA/FBM offers; Walmart offers always
// report FBM (the zero value is treated as FBM by the normalizer).
type Fulfillment string

const (
	FulfillmentFBA Fulfillment = "FBA"
	FulfillmentFBM Fulfillment = "FBM"
)

// Offer is a single competing seller's position on a listing, already
// normalized into our uniform shape regardless of source marketplace.
type Offer struct {
	SellerID      string          `json:"seller_id"`
	Price         decimal.Decimal `json:"price"`
	LandedPrice   *decimal.Decimal `json:"landed_price,omitempty"`
	Shipping      *decimal.Decimal `json:"shipping,omitempty"`
	Condition     ItemCondition   `json:"condition"`
	Fulfillment   Fulfillment     `json:"fulfillment"`
	IsBuyBoxWinner bool           `json:"is_buybox_winner"`
	IsPrime       bool            `json:"is_prime"`
	QuantityTier  string          `json:"quantity_tier,omitempty"`
}

// EffectivePrice is landed price when present, else listing price, per
// spec.md §4.2's landed-else-listing rule (Design Notes §9(i)).
func (o Offer) EffectivePrice() decimal.Decimal {
	if o.LandedPrice != nil {
		return *o.LandedPrice
	}
	return o.Price
}

// Summary is the derived, precomputed view over Offers used by the
// Eligibility Gate, Competitor Selector and Strategy Engine. For Amazon
// events each slot may legitimately point at our own seller_id, and the
// Eligibility Gate does the self-filtering; the Walmart normalizer already
// leaves our own offers out of the lowest-price/lowest-FBA slots.
type Summary struct {
	TotalOffers          int     `json:"total_offers"`
	LowestPriceCompetitor *Offer `json:"lowest_price_competitor,omitempty"`
	LowestFBACompetitor   *Offer `json:"lowest_fba_competitor,omitempty"`
	BuyBoxWinner          *Offer `json:"buybox_winner,omitempty"`
	// TierSummaries holds a per-quantity-tier Summary for B2B products,
	// keyed by QuantityTier, computed the same way as the top-level Summary
	// but scoped to offers carrying that tier.
	TierSummaries map[string]*Summary `json:"tier_summaries,omitempty"`
}

// OfferChange is the transient, uniform record produced by normalization
// from either an Amazon queue message or a Walmart webhook payload.
type OfferChange struct {
	ProductID     string        `json:"product_id"` // ASIN, or Walmart item id
	SellerID      string        `json:"seller_id"`
	Marketplace   string        `json:"marketplace"`
	Platform      Platform      `json:"platform"`
	EventTime     time.Time     `json:"event_time"`
	ItemCondition ItemCondition `json:"item_condition"`
	Offers        []Offer       `json:"offers"`
	Summary       Summary       `json:"summary"`
}
