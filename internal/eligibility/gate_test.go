package eligibility

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

func seedProduct(t *testing.T, s *store.MemoryStore) *model.Product {
	t.Helper()
	strat := &model.Strategy{ID: "strat-1", SellerID: "SELLER1", CompeteWith: model.CompeteLowestPrice, Enabled: true}
	s.PutStrategy(strat)
	product := &model.Product{
		ASIN:        "ASIN1",
		SKU:         "SKU1",
		SellerID:    "SELLER1",
		ListedPrice: decimal.NewFromInt(20),
		Quantity:    5,
		Status:      model.StatusActive,
		StrategyID:  strat.ID,
	}
	s.PutProduct(product)
	return product
}

func offerChange(asin, sellerID string) *model.OfferChange {
	return &model.OfferChange{ProductID: asin, SellerID: sellerID}
}

func TestEvaluate_HappyPath_Eligible(t *testing.T) {
	s := store.NewMemoryStore()
	seedProduct(t, s)
	gate := New(s)
	result := gate.Evaluate(context.Background(), offerChange("ASIN1", "SELLER1"), false)
	require.True(t, result.Eligible)
	assert.NotNil(t, result.Product)
	assert.NotNil(t, result.Strategy)
}

func TestEvaluate_ResetWindow_Skips(t *testing.T) {
	s := store.NewMemoryStore()
	seedProduct(t, s)
	gate := New(s)
	result := gate.Evaluate(context.Background(), offerChange("ASIN1", "SELLER1"), true)
	assert.False(t, result.Eligible)
	assert.True(t, result.Outcome.IsSkipped())
	assert.Equal(t, "reset-window", result.Outcome.Reason)
}

func TestEvaluate_ProductNotFound_Skips(t *testing.T) {
	s := store.NewMemoryStore()
	gate := New(s)
	result := gate.Evaluate(context.Background(), offerChange("UNKNOWN", "SELLER1"), false)
	assert.False(t, result.Eligible)
	assert.Equal(t, "product-not-found", result.Outcome.Reason)
}

func TestEvaluate_Paused_Skips(t *testing.T) {
	s := store.NewMemoryStore()
	seedProduct(t, s)
	require.NoError(t, s.SetPaused(context.Background(), "SELLER1", "ASIN1", true))
	gate := New(s)
	result := gate.Evaluate(context.Background(), offerChange("ASIN1", "SELLER1"), false)
	assert.Equal(t, "paused", result.Outcome.Reason)
}

func TestEvaluate_OutOfStock_Skips(t *testing.T) {
	s := store.NewMemoryStore()
	product := seedProduct(t, s)
	product.Quantity = 0
	s.PutProduct(product)
	gate := New(s)
	result := gate.Evaluate(context.Background(), offerChange("ASIN1", "SELLER1"), false)
	assert.Equal(t, "out-of-stock", result.Outcome.Reason)
}

func TestEvaluate_Inactive_Skips(t *testing.T) {
	s := store.NewMemoryStore()
	product := seedProduct(t, s)
	product.Status = model.StatusInactive
	s.PutProduct(product)
	gate := New(s)
	result := gate.Evaluate(context.Background(), offerChange("ASIN1", "SELLER1"), false)
	assert.Equal(t, "inactive", result.Outcome.Reason)
}

func TestEvaluate_SelfCompetition_Skips(t *testing.T) {
	s := store.NewMemoryStore()
	seedProduct(t, s)
	gate := New(s)
	oc := offerChange("ASIN1", "SELLER1")
	oc.Summary = model.Summary{LowestPriceCompetitor: &model.Offer{SellerID: "SELLER1"}}
	result := gate.Evaluate(context.Background(), oc, false)
	assert.Equal(t, "self-competition", result.Outcome.Reason)
}

func TestInResetWindow_SameDayWindow(t *testing.T) {
	rules := &model.ResetRuleSet{Enabled: true, TimeZone: "UTC", ResetTime: "09:00", ResumeTime: "17:00"}
	noon := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, InResetWindow(rules, noon))

	evening := time.Date(2026, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.False(t, InResetWindow(rules, evening))
}

func TestInResetWindow_WrapsMidnight(t *testing.T) {
	rules := &model.ResetRuleSet{Enabled: true, TimeZone: "UTC", ResetTime: "22:00", ResumeTime: "04:00"}
	lateNight := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)
	assert.True(t, InResetWindow(rules, lateNight))

	earlyMorning := time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC)
	assert.True(t, InResetWindow(rules, earlyMorning))

	afternoon := time.Date(2026, 1, 1, 14, 0, 0, 0, time.UTC)
	assert.False(t, InResetWindow(rules, afternoon))
}

func TestInResetWindow_Disabled(t *testing.T) {
	rules := &model.ResetRuleSet{Enabled: false}
	assert.False(t, InResetWindow(rules, time.Now()))
}
