// Package scheduler implements C9: the hourly sweep that resets products
// to their default price and flips pause flags at each seller's configured
// reset/resume time, per spec.md §4.9, driven by robfig/cron/v3 for
// wall-clock-aligned firing instead of order_service/main.go's drifting
// time.NewTicker(1*time.Hour).
package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/metrics"
	"github.com/iaros/repricer-engine/internal/persist"
	"github.com/iaros/repricer-engine/internal/store"
)

// Scheduler runs the reset/resume sweep once per hour at minute 0.
type Scheduler struct {
	Store     store.Store
	Persister *persist.Persister
	cron      *cron.Cron
	Now       func() time.Time
}

func New(s store.Store) *Scheduler {
	return &Scheduler{
		Store:     s,
		Persister: persist.New(s),
		cron:      cron.New(),
		Now:       time.Now,
	}
}

// Start schedules the sweep at minute 0 of every hour and begins running it.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		s.Sweep(ctx)
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

// Sweep iterates every seller with an enabled ResetRuleSet and checks two
// independent one-hour action windows, per spec.md §4.9: a product's price
// is reset to default and paused once, during [reset_time, reset_time+1h),
// and its pause flag is cleared once, during [resume_time, resume_time+1h).
// A cron tick outside both windows touches nothing, so a sweep that runs
// every hour on the hour fires each action exactly once per day rather than
// re-persisting the default price on every tick between reset and resume.
// A single product's failure never stops the sweep.
func (s *Scheduler) Sweep(ctx context.Context) {
	now := s.Now()
	log := logging.Global()

	sellerIDs, err := s.Store.AllSellerIDs(ctx)
	if err != nil {
		log.Warn("reset sweep: failed to enumerate sellers")
		return
	}

	for _, sellerID := range sellerIDs {
		rules, err := s.Store.GetResetRules(ctx, sellerID, inferMarketplace(sellerID))
		if err != nil || rules == nil || !rules.Enabled {
			continue
		}
		if rules.TimeZone == "" {
			log.LogUnmappedTimezone(sellerID, rules.Marketplace)
		}

		loc := resolveLocation(rules.TimeZone)
		localNow := now.In(loc)
		resetWindow := inOneHourWindow(rules.ResetTime, localNow)
		resumeWindow := inOneHourWindow(rules.ResumeTime, localNow)
		if !resetWindow && !resumeWindow {
			continue
		}

		keys, err := s.Store.ProductsForSeller(ctx, sellerID)
		if err != nil {
			log.Warn("reset sweep: failed to enumerate products for seller")
			continue
		}

		for _, key := range keys {
			s.sweepProduct(ctx, sellerID, key, resetWindow, resumeWindow)
		}
	}
}

func (s *Scheduler) sweepProduct(ctx context.Context, sellerID string, key store.ProductKey, resetWindow, resumeWindow bool) {
	if resetWindow {
		product, err := s.Store.GetProduct(ctx, key.ASIN, sellerID, key.SKU)
		if err != nil || product == nil || product.DefaultPrice == nil {
			metrics.ResetSweepProducts.WithLabelValues("no-default-price").Inc()
			return
		}
		if err := s.Store.SetPaused(ctx, sellerID, key.ASIN, true); err != nil {
			metrics.ResetSweepProducts.WithLabelValues("pause-flag-failed").Inc()
			return
		}
		// Bypasses the change-only contract: a reset always writes the
		// default price, even if it equals the currently listed price.
		if _, err := s.Persister.Save(ctx, product, "ResetSweep", "", *product.DefaultPrice, *product.DefaultPrice, s.Now()); err != nil {
			metrics.ResetSweepProducts.WithLabelValues("persist-failed").Inc()
			return
		}
		metrics.ResetSweepProducts.WithLabelValues("reset").Inc()
		return
	}

	if resumeWindow {
		if err := s.Store.SetPaused(ctx, sellerID, key.ASIN, false); err != nil {
			metrics.ResetSweepProducts.WithLabelValues("pause-flag-failed").Inc()
			return
		}
		metrics.ResetSweepProducts.WithLabelValues("resumed").Inc()
	}
}

// resolveLocation loads the seller's IANA zone, defaulting to UTC when
// unset or unrecognized, matching eligibility.InResetWindow's fallback.
func resolveLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	return time.UTC
}

// inOneHourWindow reports whether localNow falls in [hhmm, hhmm+1h), the
// single action window a reset or resume time defines per spec.md §4.9,
// handling the case where the window wraps past midnight.
func inOneHourWindow(hhmm string, localNow time.Time) bool {
	start, ok := parseClock(hhmm, localNow)
	if !ok {
		return false
	}
	end := start.Add(time.Hour)
	if end.Day() != start.Day() {
		return !localNow.Before(start) || localNow.Before(end.Add(-24*time.Hour))
	}
	return !localNow.Before(start) && localNow.Before(end)
}

func parseClock(hhmm string, ref time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation("15:04", hhmm, ref.Location())
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), t.Hour(), t.Minute(), 0, 0, ref.Location()), true
}

// inferMarketplace falls back to inferring a seller's marketplace region
// from conventional seller-ID prefixes when no explicit mapping is on
// file, per SPEC_FULL.md's Supplemented Feature #2 (grounded on
// price_reset_utils.py's marketplace-from-seller-id heuristic).
func inferMarketplace(sellerID string) string {
	upper := strings.ToUpper(sellerID)
	switch {
	case strings.HasPrefix(upper, "DE-"):
		return "DE"
	case strings.HasPrefix(upper, "UK-"), strings.HasPrefix(upper, "GB-"):
		return "UK"
	case strings.HasPrefix(upper, "FR-"):
		return "FR"
	case strings.HasPrefix(upper, "IN-"):
		return "IN"
	case strings.HasPrefix(upper, "CA-"):
		return "CA"
	default:
		return "US"
	}
}
