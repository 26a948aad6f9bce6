// Package ingress implements C8: the queue consumer, webhook server, and
// the pipeline glue that wires the Normalizer through the Persister for a
// single event, grounded on order_service/main.go's handler-composition
// style and PricingController.go's request/response shape.
package ingress

import (
	"context"
	"time"

	"github.com/google/uuid"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/competitor"
	"github.com/iaros/repricer-engine/internal/eligibility"
	"github.com/iaros/repricer-engine/internal/events"
	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/metrics"
	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/persist"
	"github.com/iaros/repricer-engine/internal/rules"
	"github.com/iaros/repricer-engine/internal/store"
	"github.com/iaros/repricer-engine/internal/strategy"
)

// Pipeline runs C3 through C7 for a single normalized OfferChange.
type Pipeline struct {
	Store     store.Store
	Gate      *eligibility.Gate
	Persister *persist.Persister
	Events    *events.Publisher
	Now       func() time.Time
}

func NewPipeline(s store.Store) *Pipeline {
	return &Pipeline{
		Store:     s,
		Gate:      eligibility.New(s),
		Persister: persist.New(s),
		Now:       time.Now,
	}
}

// Result is the terminal disposition of one event, returned for logging,
// metrics, and (for the webhook's synchronous manual-reprice path) the
// HTTP response body. Tiers holds one entry per quantity tier for a B2B
// product (spec.md §4.4/§4.5); it is empty for a non-B2B event, in which
// case Outcome/Price describe the single top-level result directly.
type Result struct {
	Outcome rerrors.Outcome
	Price   *model.CalculatedPrice
	Tiers   map[string]Result
}

// Process runs one OfferChange through eligibility, competitor selection,
// strategy computation, bounds/rules, and persistence, in that order,
// per spec.md §4's pipeline ordering.
func (p *Pipeline) Process(ctx context.Context, oc *model.OfferChange) (result Result) {
	started := p.Now()
	defer func() { metrics.RecordOutcome(result.Outcome, p.Now().Sub(started)) }()
	eventID := uuid.NewString()
	log := logging.Global().WithEventID(eventID).WithProduct(oc.ProductID, oc.SellerID, "")

	resetRules, err := p.Store.GetResetRules(ctx, oc.SellerID, oc.Marketplace)
	if err != nil {
		return errResult(err)
	}
	inWindow := eligibility.InResetWindow(resetRules, p.Now())

	gateResult := p.Gate.Evaluate(ctx, oc, inWindow)
	if !gateResult.Eligible {
		log.LogEligibilitySkip("eligibility", gateResult.Outcome.Reason)
		return Result{Outcome: gateResult.Outcome}
	}

	product := gateResult.Product
	strat := gateResult.Strategy

	// For B2B products, spec.md §4.4/§4.5 repeats the whole selection ->
	// strategy -> bounds -> persist chain once per quantity tier against
	// business_pricing[tier], instead of once against the top-level summary.
	if product.IsB2B {
		if tiers := competitor.Tiers(oc.Summary); len(tiers) > 0 {
			return p.processTiers(ctx, product, strat, oc.Summary, tiers, started, log)
		}
	}

	result = p.priceOne(ctx, product, strat, oc.Summary, "", started, log)
	if result.Outcome.IsPriced() {
		p.Events.Publish(result.Price)
	}
	return
}

// processTiers runs priceOne once per B2B quantity tier and folds the
// per-tier outcomes into a single Result, so a partial failure in one tier
// never blocks the others (spec.md §4.9's "a single product's failure
// never stops the sweep" applies equally here at tier granularity).
func (p *Pipeline) processTiers(ctx context.Context, product *model.Product, strat *model.Strategy, summary model.Summary, tiers []string, started time.Time, log *logging.Logger) Result {
	tierResults := make(map[string]Result, len(tiers))
	pricedAny := false
	for _, tier := range tiers {
		r := p.priceOne(ctx, product, strat, summary, tier, started, log)
		if r.Outcome.IsPriced() {
			pricedAny = true
			p.Events.Publish(r.Price)
		}
		tierResults[tier] = r
	}
	outcome := rerrors.Skipped("all-tiers-skipped")
	if pricedAny {
		outcome = rerrors.Priced()
	}
	return Result{Outcome: outcome, Tiers: tierResults}
}

// priceOne runs competitor selection through persistence for a single
// selection: the top-level summary when tier is empty, or a B2B tier's
// bounds and tier-filtered competitor when tier is non-empty.
func (p *Pipeline) priceOne(ctx context.Context, product *model.Product, strat *model.Strategy, summary model.Summary, tier string, started time.Time, log *logging.Logger) Result {
	bounds := product
	if tier != "" {
		tierBounds, ok := product.BusinessPricing[tier]
		if !ok {
			return Result{Outcome: rerrors.Skipped("no-tier-pricing")}
		}
		scoped := *product
		scoped.MinPrice = tierBounds.Min
		scoped.MaxPrice = tierBounds.Max
		scoped.DefaultPrice = tierBounds.Default
		bounds = &scoped
	}

	offer, skipReason := competitor.Select(strat.CompeteWith, summary, tier)
	if skipReason != "" {
		log.LogEligibilitySkip("competitor-selection", skipReason)
		return Result{Outcome: rerrors.Skipped(skipReason)}
	}

	kind := strategy.Select(summary.TotalOffers, summary.BuyBoxWinner != nil && summary.BuyBoxWinner.SellerID == product.SellerID)
	candidate, outcome := strategy.Compute(kind, bounds, offer, strat.BeatBy)
	if outcome.IsSkipped() || outcome.IsErrored() {
		log.LogEligibilitySkip("strategy", outcome.Reason)
		return Result{Outcome: outcome}
	}

	final, boundsOutcome := rules.Apply(candidate.Price, bounds, candidate.CompetitorPrice, strat.MinPriceRule, strat.MaxPriceRule)
	if boundsOutcome.IsSkipped() || boundsOutcome.IsErrored() {
		log.LogEligibilitySkip("bounds", boundsOutcome.Reason)
		return Result{Outcome: boundsOutcome}
	}

	if rules.Unchanged(final, product.ListedPrice) {
		log.LogEligibilitySkip("bounds", "unchanged")
		return Result{Outcome: rerrors.Skipped("unchanged")}
	}

	cp, err := p.Persister.Save(ctx, product, string(kind), strat.ID, final, candidate.CompetitorPrice, started)
	if err != nil {
		return errResult(err)
	}
	cp.Tier = tier

	log.LogPriceCalculated(string(kind), product.ListedPrice.String(), final.String())
	return Result{Outcome: rerrors.Priced(), Price: cp}
}

func errResult(err error) Result {
	if rerr, ok := err.(*rerrors.RepricerError); ok {
		return Result{Outcome: rerrors.Errored(rerr)}
	}
	return Result{Outcome: rerrors.Errored(rerrors.Transient("pipeline error", err))}
}
