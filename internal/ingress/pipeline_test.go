package ingress

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

func seedPipelineFixture(t *testing.T) (*store.MemoryStore, *model.Product) {
	t.Helper()
	s := store.NewMemoryStore()
	strat := &model.Strategy{
		ID:           "strat-1",
		SellerID:     "SELLER1",
		CompeteWith:  model.CompeteLowestPrice,
		MinPriceRule: model.RuleDoNothing,
		MaxPriceRule: model.RuleDoNothing,
		Enabled:      true,
	}
	s.PutStrategy(strat)
	min := decimal.NewFromInt(10)
	max := decimal.NewFromInt(50)
	product := &model.Product{
		ASIN:        "ASIN1",
		SKU:         "SKU1",
		SellerID:    "SELLER1",
		ListedPrice: decimal.NewFromInt(20),
		MinPrice:    &min,
		MaxPrice:    &max,
		Quantity:    5,
		Status:      model.StatusActive,
		StrategyID:  strat.ID,
	}
	s.PutProduct(product)
	return s, product
}

func TestPipeline_Process_PricesOnCompetitorUndercut(t *testing.T) {
	s, _ := seedPipelineFixture(t)
	p := NewPipeline(s)
	oc := &model.OfferChange{
		ProductID: "ASIN1",
		SellerID:  "SELLER1",
		Summary: model.Summary{
			TotalOffers:           2,
			LowestPriceCompetitor: &model.Offer{SellerID: "RIVAL", Price: decimal.NewFromInt(18)},
		},
	}
	result := p.Process(context.Background(), oc)
	require.True(t, result.Outcome.IsPriced())
	require.NotNil(t, result.Price)
	assert.True(t, result.Price.NewPrice.Equal(decimal.NewFromInt(18)))
}

func TestPipeline_Process_SkipsWhenProductNotFound(t *testing.T) {
	s := store.NewMemoryStore()
	p := NewPipeline(s)
	oc := &model.OfferChange{ProductID: "MISSING", SellerID: "SELLER1"}
	result := p.Process(context.Background(), oc)
	assert.True(t, result.Outcome.IsSkipped())
	assert.Nil(t, result.Price)
}

func TestPipeline_Process_SkipsWhenUnchanged(t *testing.T) {
	s, _ := seedPipelineFixture(t)
	p := NewPipeline(s)
	oc := &model.OfferChange{
		ProductID: "ASIN1",
		SellerID:  "SELLER1",
		Summary: model.Summary{
			TotalOffers:           2,
			LowestPriceCompetitor: &model.Offer{SellerID: "RIVAL", Price: decimal.NewFromInt(20)},
		},
	}
	result := p.Process(context.Background(), oc)
	assert.True(t, result.Outcome.IsSkipped())
	assert.Equal(t, "unchanged", result.Outcome.Reason)
}

func TestPipeline_Process_SkipsWhenNoCompetitor(t *testing.T) {
	s, _ := seedPipelineFixture(t)
	p := NewPipeline(s)
	oc := &model.OfferChange{
		ProductID: "ASIN1",
		SellerID:  "SELLER1",
		Summary:   model.Summary{TotalOffers: 1},
	}
	result := p.Process(context.Background(), oc)
	assert.True(t, result.Outcome.IsSkipped())
	assert.Equal(t, "no-competitor", result.Outcome.Reason)
}

func TestPipeline_Process_B2BRepricesEachTierAgainstItsOwnBounds(t *testing.T) {
	s, product := seedPipelineFixture(t)
	product.IsB2B = true
	tier10Min := decimal.NewFromInt(12)
	tier10Max := decimal.NewFromInt(40)
	tier50Min := decimal.NewFromInt(8)
	tier50Max := decimal.NewFromInt(30)
	product.BusinessPricing = map[string]model.PriceTier{
		"10": {Min: &tier10Min, Max: &tier10Max},
		"50": {Min: &tier50Min, Max: &tier50Max},
	}
	s.PutProduct(product)
	p := NewPipeline(s)

	oc := &model.OfferChange{
		ProductID: "ASIN1",
		SellerID:  "SELLER1",
		Summary: model.Summary{
			TotalOffers:           2,
			LowestPriceCompetitor: &model.Offer{SellerID: "RIVAL", Price: decimal.NewFromInt(18)},
			TierSummaries: map[string]*model.Summary{
				"10": {TotalOffers: 1, LowestPriceCompetitor: &model.Offer{SellerID: "RIVAL", Price: decimal.NewFromInt(15)}},
				// Undercuts tier "50"'s own max (30), so JUMP-free bounds clamp
				// never triggers here; this tier's competitor sits below its min.
				"50": {TotalOffers: 1, LowestPriceCompetitor: &model.Offer{SellerID: "RIVAL", Price: decimal.NewFromInt(5)}},
			},
		},
	}
	result := p.Process(context.Background(), oc)
	require.NotNil(t, result.Tiers)
	require.Len(t, result.Tiers, 2)

	tier10 := result.Tiers["10"]
	require.True(t, tier10.Outcome.IsPriced())
	require.NotNil(t, tier10.Price)
	assert.True(t, tier10.Price.NewPrice.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "10", tier10.Price.Tier)

	// Tier "50"'s competitor price (5) falls below that tier's own min (8);
	// RuleDoNothing skips rather than clamping.
	tier50 := result.Tiers["50"]
	assert.True(t, tier50.Outcome.IsSkipped())
}
