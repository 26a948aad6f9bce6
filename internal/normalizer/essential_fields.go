package normalizer

import "github.com/iaros/repricer-engine/internal/model"

// EssentialFields returns a trimmed projection of an OfferChange for
// high-volume logging and metrics without paying full-struct serialization
// cost, grounded on message_processor.py's MessageExtractor.extract_essential_fields.
func EssentialFields(oc *model.OfferChange) map[string]interface{} {
	fields := map[string]interface{}{
		"product_id":  oc.ProductID,
		"seller_id":   oc.SellerID,
		"platform":    string(oc.Platform),
		"marketplace": oc.Marketplace,
		"event_time":  oc.EventTime,
		"condition":   string(oc.ItemCondition),
		"total_offers": oc.Summary.TotalOffers,
	}
	if oc.Summary.BuyBoxWinner != nil {
		fields["buybox_winner"] = oc.Summary.BuyBoxWinner.SellerID
	}
	return fields
}
