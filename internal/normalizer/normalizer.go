// Package normalizer implements C2: parsing marketplace-specific payloads
// into the uniform OfferChange record, grounded on
// original_source/src/services/message_processor.py.
package normalizer

import (
	"strings"
	"time"

	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/model"
)

// field reads the first present key among candidates from a loosely-typed
// JSON map, implementing the single alias-normalizing layer Design Notes
// §9(iii) calls for instead of per-field fallbacks scattered through the code.
func field(m map[string]interface{}, candidates ...string) (interface{}, bool) {
	for _, c := range candidates {
		if v, ok := m[c]; ok {
			return v, true
		}
	}
	return nil, false
}

func stringField(m map[string]interface{}, candidates ...string) string {
	if v, ok := field(m, candidates...); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func mapField(m map[string]interface{}, candidates ...string) map[string]interface{} {
	if v, ok := field(m, candidates...); ok {
		if mm, ok := v.(map[string]interface{}); ok {
			return mm
		}
	}
	return nil
}

func sliceField(m map[string]interface{}, candidates ...string) []interface{} {
	if v, ok := field(m, candidates...); ok {
		if s, ok := v.([]interface{}); ok {
			return s
		}
	}
	return nil
}

// marketplaceMapping is the fixed Amazon marketplaceId -> region table from
// spec.md §4.2. Unmapped IDs default to US.
var marketplaceMapping = map[string]string{
	"ATVPDKIKX0DER":  "US",
	"A1PA6795UKMFR9": "DE",
	"A1RKKUPIHCS9HS": "ES",
	"A13V1IB3VIYZZH": "FR",
	"A21TJRUUN4KGV":  "IN",
	"APJ6JRA9NG5V4":  "IT",
	"A1F83G8C2ARO7P": "UK",
	"A2Q3Y263D00KWC": "BR",
	"A2EUQ1WTGCTBG2": "CA",
	"A1AM78C64UM0Y8": "MX",
	"A39IBJ37TRP1C6": "AU",
	"A17E79C6D8DWNP": "SA",
	"ARBP9OOSHTCHU":  "EG",
	"A33AVAJ2PDY3EV": "TR",
	"A19VAU5U5O7RUS": "SG",
	"A2VIGQ35RCS4UG": "AE",
	"A1805IZSGTT6HS": "NL",
	"A1C3SOZRARQ6R3": "PL",
}

// MarketplaceForID is a total function on the fixed ID set, defaulting
// unknown IDs to US per spec.md's testable invariant.
func MarketplaceForID(id string) string {
	if region, ok := marketplaceMapping[id]; ok {
		return region
	}
	return "US"
}

// ParseTimestamp parses ISO-8601 tolerantly: trailing Z, explicit offset, or
// no zone. On failure it returns the current UTC time and logs one warning.
func ParseTimestamp(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now().UTC(), false
	}
	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	candidate := raw
	if strings.HasSuffix(candidate, "Z") {
		candidate = strings.TrimSuffix(candidate, "Z") + "+00:00"
	} else if strings.HasSuffix(candidate, "UTC") {
		candidate = strings.TrimSuffix(candidate, "UTC") + "+00:00"
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.UTC(), true
		}
	}
	logging.Global().Warn("unparseable timestamp, substituting current UTC")
	return time.Now().UTC(), false
}

// ComputeSummary derives the lowest-price/lowest-FBA/buybox-winner slots
// from a normalized offer list, per spec.md §4.2's "Derived summary."
// A non-empty ourSellerID excludes our own listing from the lowest-price/
// lowest-FBA competitor slots (an empty one excludes nothing; the Walmart
// normalizer passes our seller ID, the Amazon one passes ""), the way
// _extract_walmart_competitor_price filters
// sellerId != offer_change.seller_id before picking a competitor; the
// buy-box winner slot is left unfiltered since the Strategy Engine needs
// to know when we are the one currently holding it.
func ComputeSummary(offers []model.Offer, condition model.ItemCondition, ourSellerID string) model.Summary {
	summary := model.Summary{TotalOffers: len(offers)}

	var lowestPrice, lowestFBA, buyBox *model.Offer
	for i := range offers {
		o := &offers[i]
		if !strings.EqualFold(string(o.Condition), string(condition)) {
			continue
		}
		if o.IsBuyBoxWinner {
			buyBox = o
		}
		if ourSellerID != "" && o.SellerID == ourSellerID {
			continue
		}
		if lowestPrice == nil || o.EffectivePrice().LessThan(lowestPrice.EffectivePrice()) {
			lowestPrice = o
		}
		if o.Fulfillment == model.FulfillmentFBA {
			if lowestFBA == nil || o.EffectivePrice().LessThan(lowestFBA.EffectivePrice()) {
				lowestFBA = o
			}
		}
	}

	summary.LowestPriceCompetitor = lowestPrice
	summary.LowestFBACompetitor = lowestFBA
	summary.BuyBoxWinner = buyBox

	tiers := map[string][]model.Offer{}
	for _, o := range offers {
		if o.QuantityTier != "" {
			tiers[o.QuantityTier] = append(tiers[o.QuantityTier], o)
		}
	}
	if len(tiers) > 0 {
		summary.TierSummaries = map[string]*model.Summary{}
		for tier, tierOffers := range tiers {
			s := ComputeSummary(tierOffers, condition, ourSellerID)
			summary.TierSummaries[tier] = &s
		}
	}

	return summary
}
