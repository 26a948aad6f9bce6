package normalizer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
)

func TestMarketplaceForID_KnownAndUnknown(t *testing.T) {
	assert.Equal(t, "DE", MarketplaceForID("A1PA6795UKMFR9"))
	assert.Equal(t, "US", MarketplaceForID("ATVPDKIKX0DER"))
	assert.Equal(t, "US", MarketplaceForID("SOMETHING_UNMAPPED"))
}

func TestParseTimestamp_HandlesTrailingZ(t *testing.T) {
	ts, ok := ParseTimestamp("2026-01-01T12:00:00Z")
	assert.True(t, ok)
	assert.Equal(t, 2026, ts.Year())
}

func TestParseTimestamp_FallsBackOnGarbage(t *testing.T) {
	_, ok := ParseTimestamp("not-a-timestamp")
	assert.False(t, ok)
}

func TestComputeSummary_PicksLowestPriceAndBuyBox(t *testing.T) {
	offers := []model.Offer{
		{SellerID: "A", Price: decimalOf("15.00"), Condition: model.ConditionNew},
		{SellerID: "B", Price: decimalOf("12.00"), Condition: model.ConditionNew, IsBuyBoxWinner: true},
		{SellerID: "C", Price: decimalOf("20.00"), Condition: model.ConditionUsed},
	}
	summary := ComputeSummary(offers, model.ConditionNew, "")
	assert.Equal(t, 3, summary.TotalOffers)
	assert.Equal(t, "B", summary.LowestPriceCompetitor.SellerID)
	assert.Equal(t, "B", summary.BuyBoxWinner.SellerID)
}

func TestComputeSummary_ExcludesOwnSellerFromLowestPrice(t *testing.T) {
	offers := []model.Offer{
		{SellerID: "US1", Price: decimalOf("24.98"), Condition: model.ConditionNew, IsBuyBoxWinner: true},
		{SellerID: "WM_C1", Price: decimalOf("24.99"), Condition: model.ConditionNew},
		{SellerID: "WM_C2", Price: decimalOf("26.50"), Condition: model.ConditionNew},
	}
	summary := ComputeSummary(offers, model.ConditionNew, "US1")
	require.NotNil(t, summary.LowestPriceCompetitor)
	assert.Equal(t, "WM_C1", summary.LowestPriceCompetitor.SellerID)
	// Buy-box winner is left unfiltered: we may legitimately hold it ourselves.
	require.NotNil(t, summary.BuyBoxWinner)
	assert.Equal(t, "US1", summary.BuyBoxWinner.SellerID)
}

func TestComputeSummary_LowestFBAOnlyConsidersFBA(t *testing.T) {
	offers := []model.Offer{
		{SellerID: "A", Price: decimalOf("10.00"), Condition: model.ConditionNew, Fulfillment: model.FulfillmentFBM},
		{SellerID: "B", Price: decimalOf("15.00"), Condition: model.ConditionNew, Fulfillment: model.FulfillmentFBA},
	}
	summary := ComputeSummary(offers, model.ConditionNew, "")
	assert.Equal(t, "A", summary.LowestPriceCompetitor.SellerID)
	assert.Equal(t, "B", summary.LowestFBACompetitor.SellerID)
}

func TestComputeSummary_TierSummariesComputedPerTier(t *testing.T) {
	offers := []model.Offer{
		{SellerID: "A", Price: decimalOf("10.00"), Condition: model.ConditionNew, QuantityTier: "10"},
		{SellerID: "B", Price: decimalOf("9.00"), Condition: model.ConditionNew, QuantityTier: "10"},
	}
	summary := ComputeSummary(offers, model.ConditionNew, "")
	tierSummary := summary.TierSummaries["10"]
	assert.NotNil(t, tierSummary)
	assert.Equal(t, "B", tierSummary.LowestPriceCompetitor.SellerID)
}

func decimalOf(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
