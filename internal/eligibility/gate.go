// Package eligibility implements C3: the skip-rule chain that decides
// whether repricing proceeds for a given OfferChange, per spec.md §4.3.
package eligibility

import (
	"context"
	"strings"
	"time"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

// Result carries the resolved product/strategy alongside the decision, so
// downstream stages (C4-C6) don't re-fetch what the gate already loaded.
// Eligible is true only when every check passed and the pipeline should
// proceed to competitor selection; otherwise Outcome carries the skip
// reason or error.
type Result struct {
	Eligible bool
	Outcome  rerrors.Outcome
	Product  *model.Product
	Strategy *model.Strategy
	SKU      string
}

// Gate evaluates the checks of spec.md §4.3 in order; the first hit
// short-circuits with a reason string. It never mutates state.
type Gate struct {
	Store store.Store
	Now   func() time.Time
}

func New(s store.Store) *Gate {
	return &Gate{Store: s, Now: time.Now}
}

// Evaluate runs the full check chain for a single OfferChange. inResetWindow
// carries the (already resolved) reset-window check result so that C9's
// pause-window logic is not duplicated here beyond the simple flag read.
func (g *Gate) Evaluate(ctx context.Context, oc *model.OfferChange, inResetWindow bool) Result {
	if inResetWindow {
		return Result{Outcome: rerrors.Skipped("reset-window")}
	}

	asin := oc.ProductID
	sellerID := oc.SellerID

	sku, found, err := g.Store.FindSKU(ctx, asin, sellerID)
	if err != nil {
		return errResult(err)
	}
	if !found {
		return Result{Outcome: rerrors.Skipped("product-not-found")}
	}

	paused, err := g.Store.IsPaused(ctx, sellerID, asin)
	if err != nil {
		return errResult(err)
	}
	if paused {
		return Result{Outcome: rerrors.Skipped("paused"), SKU: sku}
	}

	product, err := g.Store.GetProduct(ctx, asin, sellerID, sku)
	if err != nil {
		return errResult(err)
	}
	if product == nil {
		return Result{Outcome: rerrors.Skipped("product-not-found")}
	}

	if product.Quantity <= 0 {
		return Result{Outcome: rerrors.Skipped("out-of-stock"), Product: product, SKU: sku}
	}

	if !strings.EqualFold(string(product.Status), string(model.StatusActive)) {
		return Result{Outcome: rerrors.Skipped("inactive"), Product: product, SKU: sku}
	}

	strategy, err := g.Store.GetStrategy(ctx, product.StrategyID)
	if err != nil {
		return errResult(err)
	}
	if strategy == nil {
		return Result{Outcome: rerrors.Skipped("strategy-not-found"), Product: product, SKU: sku}
	}

	if selfCompeting(product.SellerID, strategy.CompeteWith, oc.Summary) {
		return Result{Outcome: rerrors.Skipped("self-competition"), Product: product, Strategy: strategy, SKU: sku}
	}

	return Result{
		Eligible: true,
		Product:  product,
		Strategy: strategy,
		SKU:      sku,
	}
}

// selfCompeting implements spec.md §4.3's strategy-aware self-competition rule.
func selfCompeting(ourSellerID string, competeWith model.CompeteWith, summary model.Summary) bool {
	switch competeWith {
	case model.CompeteLowestPrice:
		return summary.LowestPriceCompetitor != nil && summary.LowestPriceCompetitor.SellerID == ourSellerID
	case model.CompeteLowestFBAPrice:
		return summary.LowestFBACompetitor != nil && summary.LowestFBACompetitor.SellerID == ourSellerID
	case model.CompeteMatchBuyBox:
		return summary.BuyBoxWinner != nil && summary.BuyBoxWinner.SellerID == ourSellerID
	default:
		return false
	}
}

func errResult(err error) Result {
	if rerr, ok := err.(*rerrors.RepricerError); ok {
		return Result{Outcome: rerrors.Errored(rerr)}
	}
	return Result{Outcome: rerrors.Errored(rerrors.Transient("store error in eligibility gate", err))}
}

// InResetWindow evaluates whether "now" in the seller's marketplace zone
// falls in [reset_time, resume_time) for an enabled ResetRuleSet, per
// spec.md §4.3 item 1. Used by the pipeline glue before calling Evaluate.
func InResetWindow(rules *model.ResetRuleSet, now time.Time) bool {
	if rules == nil || !rules.Enabled {
		return false
	}
	loc := time.UTC
	if rules.TimeZone != "" {
		if l, err := time.LoadLocation(rules.TimeZone); err == nil {
			loc = l
		}
	}
	localNow := now.In(loc)
	resetT, okReset := parseClock(rules.ResetTime, localNow)
	resumeT, okResume := parseClock(rules.ResumeTime, localNow)
	if !okReset || !okResume {
		return false
	}
	if resetT.Before(resumeT) {
		return !localNow.Before(resetT) && localNow.Before(resumeT)
	}
	// Window wraps past midnight.
	return !localNow.Before(resetT) || localNow.Before(resumeT)
}

func parseClock(hhmm string, ref time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation("15:04", hhmm, ref.Location())
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), true
}
