package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
)

const directPayload = `{
	"Payload": {
		"AnyOfferChangedNotification": {
			"ASIN": "B000TEST01",
			"SellerId": "SELLER1",
			"MarketplaceId": "ATVPDKIKX0DER",
			"ItemCondition": "New",
			"TimeOfOfferChange": "2026-01-01T12:00:00Z",
			"Offers": [
				{"sellerId": "SELLER2", "listingPrice": {"amount": 19.99}, "shipping": {"amount": 0}, "isBuyBoxWinner": true},
				{"SellerId": "SELLER3", "ListingPrice": {"Amount": 21.50}, "IsFulfilledByAmazon": true}
			]
		}
	}
}`

const snsEnvelope = `{
	"Type": "Notification",
	"Message": "{\"payload\":{\"anyOfferChangedNotification\":{\"asin\":\"B000TEST02\",\"sellerId\":\"SELLER9\",\"marketplaceId\":\"A1PA6795UKMFR9\",\"offers\":[]}}}"
}`

func TestParseAmazonMessage_DirectPayload(t *testing.T) {
	oc, err := ParseAmazonMessage(AmazonQueueMessage{Body: directPayload})
	require.NoError(t, err)
	assert.Equal(t, "B000TEST01", oc.ProductID)
	assert.Equal(t, "SELLER1", oc.SellerID)
	assert.Equal(t, "US", oc.Marketplace)
	assert.Equal(t, model.ConditionNew, oc.ItemCondition)
	assert.Len(t, oc.Offers, 2)
	assert.Equal(t, "SELLER2", oc.Summary.BuyBoxWinner.SellerID)
}

func TestParseAmazonMessage_SNSEnvelope(t *testing.T) {
	oc, err := ParseAmazonMessage(AmazonQueueMessage{Body: snsEnvelope})
	require.NoError(t, err)
	assert.Equal(t, "B000TEST02", oc.ProductID)
	assert.Equal(t, "DE", oc.Marketplace)
}

func TestParseAmazonMessage_MissingASIN_Malformed(t *testing.T) {
	_, err := ParseAmazonMessage(AmazonQueueMessage{Body: `{"Payload":{"AnyOfferChangedNotification":{"SellerId":"S1"}}}`})
	assert.Error(t, err)
}

func TestParseAmazonMessage_InvalidJSON(t *testing.T) {
	_, err := ParseAmazonMessage(AmazonQueueMessage{Body: "not json"})
	assert.Error(t, err)
}

func TestParseAmazonOffer_ComputesLandedPrice(t *testing.T) {
	oc, err := ParseAmazonMessage(AmazonQueueMessage{Body: directPayload})
	require.NoError(t, err)
	offer := oc.Offers[0]
	require.NotNil(t, offer.LandedPrice)
	assert.True(t, offer.LandedPrice.Equal(offer.Price))
}

func TestParseAmazonOffer_FBAFlag(t *testing.T) {
	oc, err := ParseAmazonMessage(AmazonQueueMessage{Body: directPayload})
	require.NoError(t, err)
	assert.Equal(t, model.FulfillmentFBA, oc.Offers[1].Fulfillment)
}
