package sync

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
)

func TestListedProduct_ToModel_ConvertsFloatsToDecimal(t *testing.T) {
	min := 10.5
	max := 25.0
	row := listedProduct{
		ASIN: "A1", SKU: "SKU1", SellerID: "S1", Marketplace: "US",
		ListedPrice: 19.99, MinPrice: &min, MaxPrice: &max,
		ItemCondition: "NEW", Quantity: 4, Status: "Active", StrategyID: "strat-1",
	}
	product := row.toModel()
	assert.True(t, product.ListedPrice.Equal(decimal.NewFromFloat(19.99)))
	require.NotNil(t, product.MinPrice)
	assert.True(t, product.MinPrice.Equal(decimal.NewFromFloat(10.5)))
	assert.Nil(t, product.DefaultPrice)
	assert.Equal(t, model.StatusActive, product.Status)
}

func TestListedStrategy_ToModel_ConvertsFields(t *testing.T) {
	row := listedStrategy{
		ID: "strat-1", SellerID: "S1", Type: "MAXIMISE_PROFIT", CompeteWith: "LOWEST_PRICE",
		BeatBy: -0.01, MinPriceRule: "JUMP_TO_MIN", MaxPriceRule: "JUMP_TO_MAX", Enabled: true,
	}
	strat := row.toModel()
	assert.Equal(t, model.StrategyMaximiseProfit, strat.Type)
	assert.Equal(t, model.CompeteLowestPrice, strat.CompeteWith)
	assert.True(t, strat.BeatBy.Equal(decimal.NewFromFloat(-0.01)))
	assert.True(t, strat.Enabled)
}

func TestFloatPtrToDecimal_NilReturnsNil(t *testing.T) {
	assert.Nil(t, floatPtrToDecimal(nil))
}

func TestFloatPtrToDecimal_ConvertsValue(t *testing.T) {
	v := 42.5
	d := floatPtrToDecimal(&v)
	require.NotNil(t, d)
	assert.True(t, d.Equal(decimal.NewFromFloat(42.5)))
}
