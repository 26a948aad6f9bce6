package normalizer

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/model"
)

// AmazonQueueMessage is the raw envelope read off the offer-change queue, per
// spec.md §6's "Ingress — queue message (Amazon path)."
type AmazonQueueMessage struct {
	Body                  string
	MessageID             string
	ApproximateReceiveCount int
}

// ParseAmazonMessage accepts a queue message whose body is either a direct
// AnyOfferChanged payload or an SNS envelope wrapping one, with PascalCase
// and camelCase fields intermixed at every level, per spec.md §4.2.
func ParseAmazonMessage(msg AmazonQueueMessage) (*model.OfferChange, error) {
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(msg.Body), &body); err != nil {
		return nil, rerrors.Malformed("amazon queue message body is not valid JSON", err)
	}

	notification := body
	if stringField(body, "Type", "type") == "Notification" {
		inner := stringField(body, "Message", "message")
		if inner != "" {
			if err := json.Unmarshal([]byte(inner), &notification); err != nil {
				return nil, rerrors.Malformed("amazon SNS envelope Message is not valid JSON", err)
			}
		}
	}

	payload := mapField(notification, "Payload", "payload")
	if payload == nil {
		return nil, rerrors.Malformed("amazon notification missing Payload", nil)
	}
	offerChange := mapField(payload, "AnyOfferChangedNotification", "anyOfferChangedNotification")
	if offerChange == nil {
		return nil, rerrors.Malformed("amazon payload missing AnyOfferChangedNotification", nil)
	}

	asin := stringField(offerChange, "ASIN", "asin")
	sellerID := stringField(offerChange, "SellerId", "sellerId")
	if asin == "" || sellerID == "" {
		return nil, rerrors.Malformed("amazon offer change missing ASIN or SellerId", nil)
	}

	marketplaceID := stringField(offerChange, "MarketplaceId", "marketplaceId")
	condition := stringField(offerChange, "ItemCondition", "itemCondition")
	if condition == "" {
		condition = "NEW"
	}
	eventTimeRaw := stringField(offerChange, "TimeOfOfferChange", "timeOfOfferChange")
	eventTime, _ := ParseTimestamp(eventTimeRaw)

	summaryMap := mapField(offerChange, "Summary", "summary")
	offersRaw := sliceField(offerChange, "Offers", "offers")

	offers := make([]model.Offer, 0, len(offersRaw))
	for _, raw := range offersRaw {
		offerMap, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		offers = append(offers, parseAmazonOffer(offerMap))
	}
	// Amazon's Summary.BuyBoxPrices/LowestPrices also contribute synthetic
	// offers when not already present among Offers[], so a buy-box-only
	// notification (no full offer list) still yields a usable summary.
	if summaryMap != nil {
		listed := len(offers)
		for _, so := range extractSummaryOffers(summaryMap) {
			present := false
			for _, o := range offers[:listed] {
				if (so.SellerID == "" || o.SellerID == so.SellerID) && o.Condition == so.Condition &&
					o.EffectivePrice().Equal(so.EffectivePrice()) {
					present = true
					break
				}
			}
			if !present {
				offers = append(offers, so)
			}
		}
	}

	oc := &model.OfferChange{
		ProductID:     asin,
		SellerID:      sellerID,
		Marketplace:   MarketplaceForID(marketplaceID),
		Platform:      model.PlatformAmazon,
		EventTime:     eventTime,
		ItemCondition: model.ItemCondition(strings.ToUpper(condition)),
		Offers:        offers,
	}
	// The Amazon summary keeps our own offers in every slot; the Eligibility
	// Gate's self-competition check reads them from there.
	oc.Summary = ComputeSummary(offers, oc.ItemCondition, "")
	return oc, nil
}

func parseAmazonOffer(m map[string]interface{}) model.Offer {
	sellerID := stringField(m, "SellerId", "sellerId")
	condition := stringField(m, "SubCondition", "subCondition", "Condition", "condition")
	if condition == "" {
		condition = "NEW"
	}

	listingPrice := decimalField(mapField(m, "ListingPrice", "listingPrice"), "Amount", "amount")
	shipping := decimalFieldPtr(mapField(m, "Shipping", "shipping"), "Amount", "amount")

	var landed *decimal.Decimal
	if shipping != nil {
		sum := listingPrice.Add(*shipping)
		landed = &sum
	}

	fulfillment := model.FulfillmentFBM
	if boolField(m, "IsFulfilledByAmazon", "isFulfilledByAmazon") {
		fulfillment = model.FulfillmentFBA
	}

	return model.Offer{
		SellerID:       sellerID,
		Price:          listingPrice,
		LandedPrice:    landed,
		Shipping:       shipping,
		Condition:      model.ItemCondition(strings.ToUpper(condition)),
		Fulfillment:    fulfillment,
		IsBuyBoxWinner: boolField(m, "IsBuyBoxWinner", "isBuyBoxWinner"),
		IsPrime:        boolField(m, "PrimeInformation", "primeInformation") || boolField(m, "IsPrime", "isPrime"),
	}
}

// extractSummaryOffers turns Summary.BuyBoxPrices/LowestPrices entries into
// synthetic Offer records so a payload carrying only the summary (no full
// Offers[] array) still yields usable competitor data.
func extractSummaryOffers(summary map[string]interface{}) []model.Offer {
	var out []model.Offer
	for _, key := range []string{"BuyBoxPrices", "buyBoxPrices", "LowestPrices", "lowestPrices"} {
		entries, ok := summary[key]
		if !ok {
			continue
		}
		list, ok := entries.([]interface{})
		if !ok {
			continue
		}
		isBuyBox := strings.Contains(key, "BuyBox") || strings.Contains(key, "buyBox")
		for _, raw := range list {
			m, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			condition := stringField(m, "condition", "Condition")
			if condition == "" {
				condition = "NEW"
			}
			price := decimalField(mapField(m, "ListingPrice", "listingPrice"), "Amount", "amount")
			shipping := decimalFieldPtr(mapField(m, "Shipping", "shipping"), "Amount", "amount")
			var landed *decimal.Decimal
			if shipping != nil {
				sum := price.Add(*shipping)
				landed = &sum
			}
			fulfillment := model.FulfillmentFBM
			if stringField(m, "fulfillmentChannel", "FulfillmentChannel") == "Amazon" {
				fulfillment = model.FulfillmentFBA
			}
			out = append(out, model.Offer{
				SellerID:       stringField(m, "sellerId", "SellerId"),
				Price:          price,
				LandedPrice:    landed,
				Shipping:       shipping,
				Condition:      model.ItemCondition(strings.ToUpper(condition)),
				Fulfillment:    fulfillment,
				IsBuyBoxWinner: isBuyBox,
			})
		}
	}
	return out
}

func decimalField(m map[string]interface{}, candidates ...string) decimal.Decimal {
	if d := decimalFieldPtr(m, candidates...); d != nil {
		return *d
	}
	return decimal.Zero
}

func decimalFieldPtr(m map[string]interface{}, candidates ...string) *decimal.Decimal {
	if m == nil {
		return nil
	}
	v, ok := field(m, candidates...)
	if !ok {
		return nil
	}
	switch val := v.(type) {
	case float64:
		d := decimal.NewFromFloat(val)
		return &d
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return nil
		}
		return &d
	default:
		return nil
	}
}

func boolField(m map[string]interface{}, candidates ...string) bool {
	v, ok := field(m, candidates...)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}
