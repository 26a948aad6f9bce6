// Package strategy implements C5: dynamic strategy selection and candidate
// price computation, grounded on original_source's repricing_engine.py
// (_select_strategy_class) and tests/test_strategies_fixed.py. Per Design
// Notes §9, the source's class hierarchy (ChaseBuyBox/OnlySeller/
// MaximiseProfit) is mapped to a tagged Kind plus one Compute function per
// variant, rather than a dynamic-dispatch interface.
package strategy

import (
	"github.com/shopspring/decimal"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/model"
)

// Kind names which of the three strategies actually ran for an event; it
// may differ from the product's stored Strategy.Type, since selection is
// dynamic (spec.md §4.5).
type Kind string

const (
	KindOnlySeller     Kind = "OnlySeller"
	KindMaximiseProfit Kind = "MaximiseProfit"
	KindChaseBuyBox    Kind = "ChaseBuyBox"
)

// Select chooses the strategy Kind for this event based on market position,
// per spec.md §4.5: the stored strategy on the product is advisory only.
func Select(totalOffers int, weHoldBuyBox bool) Kind {
	switch {
	case totalOffers == 1:
		return KindOnlySeller
	case weHoldBuyBox:
		return KindMaximiseProfit
	default:
		return KindChaseBuyBox
	}
}

// Candidate is the result of computing a strategy's pre-bounds price.
type Candidate struct {
	Price           decimal.Decimal
	CompetitorPrice decimal.Decimal
}

// Compute dispatches to the selected strategy's pricing function. product
// is the full product record (for min/max/default); competitor is the
// offer chosen by C4 (nil only for OnlySeller, which ignores it).
func Compute(kind Kind, product *model.Product, competitor *model.Offer, beatBy decimal.Decimal) (Candidate, rerrors.Outcome) {
	switch kind {
	case KindOnlySeller:
		return computeOnlySeller(product)
	case KindMaximiseProfit:
		return computeMaximiseProfit(product, competitor)
	case KindChaseBuyBox:
		return computeChaseBuyBox(product, competitor, beatBy)
	default:
		return Candidate{}, rerrors.Skipped("unknown-strategy")
	}
}

// computeOnlySeller: candidate = default_price if set, else the mean of
// min/max. Skip if neither is available, per spec.md §4.5 and
// tests/test_strategies_fixed.py's test_only_seller_bounds_validation.
func computeOnlySeller(product *model.Product) (Candidate, rerrors.Outcome) {
	if product.DefaultPrice != nil {
		return Candidate{Price: *product.DefaultPrice}, rerrors.Outcome{}
	}
	if product.MinPrice != nil && product.MaxPrice != nil {
		mean := product.MinPrice.Add(*product.MaxPrice).Div(decimal.NewFromInt(2))
		return Candidate{Price: mean}, rerrors.Outcome{}
	}
	return Candidate{}, rerrors.Skipped("no-default-or-bounds")
}

// computeMaximiseProfit: we already hold the buy box. Move up toward the
// competitor without crossing; refuse to lower price, per
// test_maximize_profit_bounds_validation's "skip when competitor price is lower."
func computeMaximiseProfit(product *model.Product, competitor *model.Offer) (Candidate, rerrors.Outcome) {
	if competitor == nil {
		return Candidate{}, rerrors.Skipped("no-competitor")
	}
	competitorPrice := competitor.EffectivePrice()
	if competitorPrice.LessThanOrEqual(product.ListedPrice) {
		return Candidate{}, rerrors.Skipped("competitor not higher")
	}
	return Candidate{Price: competitorPrice, CompetitorPrice: competitorPrice}, rerrors.Outcome{}
}

// computeChaseBuyBox: candidate = competitor effective price + signed beat_by.
func computeChaseBuyBox(product *model.Product, competitor *model.Offer, beatBy decimal.Decimal) (Candidate, rerrors.Outcome) {
	if competitor == nil {
		return Candidate{}, rerrors.Skipped("no-competitor")
	}
	competitorPrice := competitor.EffectivePrice()
	candidate := competitorPrice.Add(beatBy)
	return Candidate{Price: candidate, CompetitorPrice: competitorPrice}, rerrors.Outcome{}
}
