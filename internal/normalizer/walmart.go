package normalizer

import (
	"strings"

	"github.com/shopspring/decimal"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/model"
)

// WalmartWebhookPayload is the decoded body of a POST to /walmart/webhook,
// per spec.md §6.
type WalmartWebhookPayload struct {
	EventType           string                   `json:"eventType"`
	ItemID              string                   `json:"itemId"`
	SellerID            string                   `json:"sellerId"`
	Marketplace         string                   `json:"marketplace"`
	EventTime           string                   `json:"eventTime"`
	CurrentBuyboxPrice  *float64                 `json:"currentBuyboxPrice"`
	CurrentBuyboxWinner string                   `json:"currentBuyboxWinner"`
	Offers              []map[string]interface{} `json:"offers"`
}

// Validate enforces the webhook's required-field check (spec.md §6): itemId
// and sellerId must both be present.
func (p WalmartWebhookPayload) Validate() error {
	if p.ItemID == "" {
		return rerrors.Malformed("itemId is required", nil)
	}
	if p.SellerID == "" {
		return rerrors.Malformed("sellerId is required", nil)
	}
	return nil
}

// ParseWalmartWebhook normalizes a validated webhook payload into an
// OfferChange, per spec.md §4.2's Walmart path. Item condition defaults
// to NEW, as Walmart's webhook never reports it.
func ParseWalmartWebhook(p WalmartWebhookPayload) *model.OfferChange {
	marketplace := p.Marketplace
	if marketplace == "" {
		marketplace = "US"
	}
	eventTime, _ := ParseTimestamp(p.EventTime)

	offers := make([]model.Offer, 0, len(p.Offers))
	for _, raw := range p.Offers {
		offers = append(offers, parseWalmartOffer(raw, p.CurrentBuyboxWinner))
	}

	oc := &model.OfferChange{
		ProductID:     p.ItemID,
		SellerID:      p.SellerID,
		Marketplace:   marketplace,
		Platform:      model.PlatformWalmart,
		EventTime:     eventTime,
		ItemCondition: model.ConditionNew,
		Offers:        offers,
	}
	oc.Summary = ComputeSummary(offers, oc.ItemCondition, p.SellerID)

	// If no buy-box winner was flagged on any offer but Walmart reported one
	// out-of-band, mark the matching offer after the fact.
	if oc.Summary.BuyBoxWinner == nil && p.CurrentBuyboxWinner != "" {
		for i := range oc.Offers {
			if oc.Offers[i].SellerID == p.CurrentBuyboxWinner {
				oc.Offers[i].IsBuyBoxWinner = true
				oc.Summary.BuyBoxWinner = &oc.Offers[i]
				break
			}
		}
	}
	return oc
}

func parseWalmartOffer(m map[string]interface{}, buyboxWinner string) model.Offer {
	sellerID := stringField(m, "sellerId")
	price := decimalFromAny(m["price"])
	shipping := decimalPtrFromAny(m["shipping"])

	var landed *decimal.Decimal
	if shipping != nil {
		sum := price.Add(*shipping)
		landed = &sum
	}

	condition := stringField(m, "condition")
	if condition == "" {
		condition = "NEW"
	}

	return model.Offer{
		SellerID:       sellerID,
		Price:          price,
		LandedPrice:    landed,
		Shipping:       shipping,
		Condition:      model.ItemCondition(strings.ToUpper(condition)),
		Fulfillment:    model.FulfillmentFBM,
		IsBuyBoxWinner: sellerID != "" && sellerID == buyboxWinner,
	}
}

func decimalFromAny(v interface{}) decimal.Decimal {
	if d := decimalPtrFromAny(v); d != nil {
		return *d
	}
	return decimal.Zero
}

func decimalPtrFromAny(v interface{}) *decimal.Decimal {
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
