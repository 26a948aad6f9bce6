package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
)

func TestWalmartWebhookPayload_Validate_RequiresItemAndSeller(t *testing.T) {
	assert.Error(t, WalmartWebhookPayload{}.Validate())
	assert.Error(t, WalmartWebhookPayload{ItemID: "I1"}.Validate())
	assert.NoError(t, WalmartWebhookPayload{ItemID: "I1", SellerID: "S1"}.Validate())
}

func TestParseWalmartWebhook_DefaultsMarketplaceAndCondition(t *testing.T) {
	p := WalmartWebhookPayload{ItemID: "I1", SellerID: "S1"}
	oc := ParseWalmartWebhook(p)
	assert.Equal(t, "US", oc.Marketplace)
	assert.Equal(t, model.ConditionNew, oc.ItemCondition)
	assert.Equal(t, model.PlatformWalmart, oc.Platform)
}

func TestParseWalmartWebhook_ParsesOffersAndBuyBox(t *testing.T) {
	p := WalmartWebhookPayload{
		ItemID:   "I1",
		SellerID: "S1",
		Offers: []map[string]interface{}{
			{"sellerId": "S1", "price": 10.5},
			{"sellerId": "S2", "price": 9.25, "shipping": 1.0},
		},
		CurrentBuyboxWinner: "S2",
	}
	oc := ParseWalmartWebhook(p)
	require.Len(t, oc.Offers, 2)
	require.NotNil(t, oc.Summary.BuyBoxWinner)
	assert.Equal(t, "S2", oc.Summary.BuyBoxWinner.SellerID)
	require.NotNil(t, oc.Offers[1].LandedPrice)
	assert.True(t, oc.Offers[1].LandedPrice.Equal(oc.Offers[1].Price.Add(*oc.Offers[1].Shipping)))
}

func TestParseWalmartWebhook_BuyBoxWinnerOutOfBand(t *testing.T) {
	p := WalmartWebhookPayload{
		ItemID:   "I1",
		SellerID: "S1",
		Offers: []map[string]interface{}{
			{"sellerId": "S3", "price": 5.0},
		},
		CurrentBuyboxWinner: "S3",
	}
	oc := ParseWalmartWebhook(p)
	require.NotNil(t, oc.Summary.BuyBoxWinner)
	assert.Equal(t, "S3", oc.Summary.BuyBoxWinner.SellerID)
	assert.True(t, oc.Offers[0].IsBuyBoxWinner)
}
