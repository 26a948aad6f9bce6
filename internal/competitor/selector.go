// Package competitor implements C4: picking exactly one competitor offer
// from an OfferChange's summary per the strategy's compete_with mode,
// per spec.md §4.4.
package competitor

import (
	"github.com/iaros/repricer-engine/internal/model"
)

// Select picks the competitor slot spec.md §4.4's table names. An empty
// tier selects the top-level summary; a non-empty tier (B2B) selects the
// matching TierSummaries entry, repeating the same slot logic. skipReason
// is empty on success.
func Select(competeWith model.CompeteWith, summary model.Summary, tier string) (offer *model.Offer, skipReason string) {
	target := &summary
	if tier != "" {
		tierSummary, ok := summary.TierSummaries[tier]
		if !ok {
			return nil, "no-tier-offers"
		}
		target = tierSummary
	}

	switch competeWith {
	case model.CompeteLowestPrice:
		if target.LowestPriceCompetitor == nil {
			return nil, "no-competitor"
		}
		return target.LowestPriceCompetitor, ""
	case model.CompeteLowestFBAPrice:
		if target.LowestFBACompetitor == nil {
			return nil, "no-competitor"
		}
		return target.LowestFBACompetitor, ""
	case model.CompeteMatchBuyBox:
		if target.BuyBoxWinner == nil {
			return nil, "no-buybox"
		}
		return target.BuyBoxWinner, ""
	default:
		return nil, "unknown-compete-with"
	}
}

// Tiers returns the set of quantity tiers present in a summary, for
// iterating B2B business-pricing selections one tier at a time.
func Tiers(summary model.Summary) []string {
	tiers := make([]string, 0, len(summary.TierSummaries))
	for t := range summary.TierSummaries {
		tiers = append(tiers, t)
	}
	return tiers
}
