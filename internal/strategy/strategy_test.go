package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/iaros/repricer-engine/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestSelect_SingleOffer_OnlySeller(t *testing.T) {
	assert.Equal(t, KindOnlySeller, Select(1, false))
}

func TestSelect_HoldingBuyBox_MaximiseProfit(t *testing.T) {
	assert.Equal(t, KindMaximiseProfit, Select(3, true))
}

func TestSelect_NotHoldingBuyBox_ChaseBuyBox(t *testing.T) {
	assert.Equal(t, KindChaseBuyBox, Select(3, false))
}

func TestComputeOnlySeller_UsesDefaultPrice(t *testing.T) {
	def := dec("19.99")
	product := &model.Product{DefaultPrice: &def}
	candidate, outcome := Compute(KindOnlySeller, product, nil, decimal.Zero)
	assert.False(t, outcome.IsSkipped())
	assert.True(t, candidate.Price.Equal(def))
}

func TestComputeOnlySeller_FallsBackToMeanOfBounds(t *testing.T) {
	min := dec("10.00")
	max := dec("20.00")
	product := &model.Product{MinPrice: &min, MaxPrice: &max}
	candidate, outcome := Compute(KindOnlySeller, product, nil, decimal.Zero)
	assert.False(t, outcome.IsSkipped())
	assert.True(t, candidate.Price.Equal(dec("15")))
}

func TestComputeOnlySeller_NoDefaultOrBounds_Skips(t *testing.T) {
	product := &model.Product{}
	_, outcome := Compute(KindOnlySeller, product, nil, decimal.Zero)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, "no-default-or-bounds", outcome.Reason)
}

func TestComputeMaximiseProfit_CompetitorHigher_MovesUp(t *testing.T) {
	product := &model.Product{ListedPrice: dec("15.00")}
	competitor := &model.Offer{Price: dec("18.00")}
	candidate, outcome := Compute(KindMaximiseProfit, product, competitor, decimal.Zero)
	assert.False(t, outcome.IsSkipped())
	assert.True(t, candidate.Price.Equal(dec("18.00")))
}

func TestComputeMaximiseProfit_CompetitorNotHigher_Skips(t *testing.T) {
	product := &model.Product{ListedPrice: dec("15.00")}
	competitor := &model.Offer{Price: dec("12.00")}
	_, outcome := Compute(KindMaximiseProfit, product, competitor, decimal.Zero)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, "competitor not higher", outcome.Reason)
}

func TestComputeMaximiseProfit_NoCompetitor_Skips(t *testing.T) {
	product := &model.Product{ListedPrice: dec("15.00")}
	_, outcome := Compute(KindMaximiseProfit, product, nil, decimal.Zero)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, "no-competitor", outcome.Reason)
}

func TestComputeChaseBuyBox_AddsBeatBy(t *testing.T) {
	product := &model.Product{ListedPrice: dec("15.00")}
	competitor := &model.Offer{Price: dec("18.00")}
	candidate, outcome := Compute(KindChaseBuyBox, product, competitor, dec("-0.01"))
	assert.False(t, outcome.IsSkipped())
	assert.True(t, candidate.Price.Equal(dec("17.99")))
}

func TestComputeChaseBuyBox_UsesLandedPrice(t *testing.T) {
	landed := dec("19.50")
	competitor := &model.Offer{Price: dec("18.00"), LandedPrice: &landed}
	product := &model.Product{ListedPrice: dec("15.00")}
	candidate, _ := Compute(KindChaseBuyBox, product, competitor, decimal.Zero)
	assert.True(t, candidate.Price.Equal(landed))
}
