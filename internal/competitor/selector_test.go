package competitor

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iaros/repricer-engine/internal/model"
)

func TestSelect_LowestPrice(t *testing.T) {
	offer := &model.Offer{SellerID: "X", Price: decimal.NewFromInt(10)}
	summary := model.Summary{LowestPriceCompetitor: offer}
	got, reason := Select(model.CompeteLowestPrice, summary, "")
	assert.Empty(t, reason)
	assert.Same(t, offer, got)
}

func TestSelect_LowestPrice_NoCompetitor(t *testing.T) {
	_, reason := Select(model.CompeteLowestPrice, model.Summary{}, "")
	assert.Equal(t, "no-competitor", reason)
}

func TestSelect_MatchBuyBox_NoBuyBox(t *testing.T) {
	_, reason := Select(model.CompeteMatchBuyBox, model.Summary{}, "")
	assert.Equal(t, "no-buybox", reason)
}

func TestSelect_UnknownCompeteWith(t *testing.T) {
	_, reason := Select(model.CompeteWith("BOGUS"), model.Summary{}, "")
	assert.Equal(t, "unknown-compete-with", reason)
}

func TestSelect_TierScoped(t *testing.T) {
	tierOffer := &model.Offer{SellerID: "Y", Price: decimal.NewFromInt(8)}
	summary := model.Summary{
		TierSummaries: map[string]*model.Summary{
			"10": {LowestPriceCompetitor: tierOffer},
		},
	}
	got, reason := Select(model.CompeteLowestPrice, summary, "10")
	assert.Empty(t, reason)
	assert.Same(t, tierOffer, got)
}

func TestSelect_TierMissing(t *testing.T) {
	_, reason := Select(model.CompeteLowestPrice, model.Summary{}, "10")
	assert.Equal(t, "no-tier-offers", reason)
}

func TestTiers_EnumeratesPresentTiers(t *testing.T) {
	summary := model.Summary{
		TierSummaries: map[string]*model.Summary{"5": {}, "10": {}},
	}
	tiers := Tiers(summary)
	assert.Len(t, tiers, 2)
}
