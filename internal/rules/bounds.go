// Package rules implements C6: min/max rule application and the hard
// bounds check, per spec.md §4.6, generalized from RulesEngine.go's
// decimal.Decimal bounds comparisons (GlobalPricingBounds/ApplyPricingBounds).
package rules

import (
	"github.com/shopspring/decimal"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/model"
)

const oneCent = "0.01"

// Apply takes the strategy's candidate price and produces the final price,
// applying the violated bound's rule then the hard bounds check, per
// spec.md §4.6. The change-only comparison against the listed price is made
// by the caller (the ingress pipeline, via Unchanged), not here.
func Apply(candidate decimal.Decimal, product *model.Product, competitorPrice decimal.Decimal, minRule, maxRule model.BoundRule) (decimal.Decimal, rerrors.Outcome) {
	final := candidate

	if product.MinPrice != nil && final.LessThan(*product.MinPrice) {
		adjusted, outcome := applyRule(minRule, *product.MinPrice, product, competitorPrice)
		if outcome.IsSkipped() {
			return decimal.Zero, outcome
		}
		final = adjusted
	}

	if product.MaxPrice != nil && final.GreaterThan(*product.MaxPrice) {
		adjusted, outcome := applyRule(maxRule, *product.MaxPrice, product, competitorPrice)
		if outcome.IsSkipped() {
			return decimal.Zero, outcome
		}
		final = adjusted
	}

	final = roundHalfUp(final)

	if outcome := checkHardBounds(final, product); outcome.IsSkipped() || outcome.IsErrored() {
		return decimal.Zero, outcome
	}

	return final, rerrors.Outcome{}
}

func applyRule(rule model.BoundRule, bound decimal.Decimal, product *model.Product, competitorPrice decimal.Decimal) (decimal.Decimal, rerrors.Outcome) {
	switch rule {
	case model.RuleJumpToMin, model.RuleJumpToMax:
		return bound, rerrors.Outcome{}
	case model.RuleMatchCompetitor:
		return competitorPrice, rerrors.Outcome{}
	case model.RuleDefaultPrice:
		if product.DefaultPrice == nil || !product.DefaultPrice.GreaterThan(decimal.Zero) {
			return decimal.Zero, rerrors.Skipped("default-price-unavailable")
		}
		return *product.DefaultPrice, rerrors.Outcome{}
	case model.RuleDoNothing:
		return decimal.Zero, rerrors.Skipped("do-nothing-rule")
	default:
		return bound, rerrors.Outcome{}
	}
}

// checkHardBounds runs after rule application: if both bounds are set and
// the final price falls outside them, skip with PriceBoundsError. An unset
// bound omits that side of the check, per spec.md §4.6.
func checkHardBounds(final decimal.Decimal, product *model.Product) rerrors.Outcome {
	if product.MinPrice != nil && final.LessThan(*product.MinPrice) {
		return boundsError(final, product.MinPrice, product.MaxPrice)
	}
	if product.MaxPrice != nil && final.GreaterThan(*product.MaxPrice) {
		return boundsError(final, product.MinPrice, product.MaxPrice)
	}
	return rerrors.Outcome{}
}

func boundsError(final decimal.Decimal, min, max *decimal.Decimal) rerrors.Outcome {
	minStr, maxStr := "-", "-"
	if min != nil {
		minStr = min.String()
	}
	if max != nil {
		maxStr = max.String()
	}
	bounds := rerrors.PriceBounds{Candidate: final.String(), Min: minStr, Max: maxStr}
	err := rerrors.RepricerError{
		Kind:      rerrors.KindPriceBoundsError,
		Reason:    bounds.Error(),
		Retryable: false,
		Cause:     bounds,
	}
	return rerrors.Skipped(err.Reason)
}

// roundHalfUp rounds to two decimal places, half away from zero, per
// spec.md §4.6's rounding rule.
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Unchanged reports whether final equals listed price within one cent —
// spec.md §4.6's change-only contract.
func Unchanged(final, listed decimal.Decimal) bool {
	threshold, _ := decimal.NewFromString(oneCent)
	return final.Sub(listed).Abs().LessThan(threshold) || final.Sub(listed).Abs().Equal(decimal.Zero)
}
