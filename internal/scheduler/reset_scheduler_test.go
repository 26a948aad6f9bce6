package scheduler

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

func TestSweep_ResetsDefaultPriceInResetWindow(t *testing.T) {
	s := store.NewMemoryStore()
	s.PutResetRules(&model.ResetRuleSet{
		SellerID: "SELLER1", Marketplace: "US", TimeZone: "UTC",
		ResetTime: "02:00", ResumeTime: "10:00", Enabled: true,
	})
	def := decimal.NewFromInt(25)
	product := &model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "SELLER1", ListedPrice: decimal.NewFromInt(20), DefaultPrice: &def}
	s.PutProduct(product)

	sched := New(s)
	fixed := time.Date(2026, 1, 1, 2, 30, 0, 0, time.UTC) // inside [02:00,03:00)
	sched.Now = func() time.Time { return fixed }

	sched.Sweep(context.Background())

	paused, err := s.IsPaused(context.Background(), "SELLER1", "A1")
	require.NoError(t, err)
	assert.True(t, paused)

	cp := s.GetCalculatedPrice("SELLER1", "SKU1")
	require.NotNil(t, cp)
	assert.True(t, cp.NewPrice.Equal(def))
}

func TestSweep_DoesNotRepersistMidwayThroughPauseWindow(t *testing.T) {
	s := store.NewMemoryStore()
	s.PutResetRules(&model.ResetRuleSet{
		SellerID: "SELLER1", Marketplace: "US", TimeZone: "UTC",
		ResetTime: "02:00", ResumeTime: "10:00", Enabled: true,
	})
	def := decimal.NewFromInt(25)
	product := &model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "SELLER1", ListedPrice: decimal.NewFromInt(20), DefaultPrice: &def}
	s.PutProduct(product)

	sched := New(s)
	// Well past the reset_time+1h window but before resume_time: neither
	// action window is active, so the default price must not be re-persisted.
	fixed := time.Date(2026, 1, 1, 6, 0, 0, 0, time.UTC)
	sched.Now = func() time.Time { return fixed }

	sched.Sweep(context.Background())

	assert.Nil(t, s.GetCalculatedPrice("SELLER1", "SKU1"))
}

func TestSweep_ClearsPauseInResumeWindow(t *testing.T) {
	s := store.NewMemoryStore()
	s.PutResetRules(&model.ResetRuleSet{
		SellerID: "SELLER1", Marketplace: "US", TimeZone: "UTC",
		ResetTime: "02:00", ResumeTime: "10:00", Enabled: true,
	})
	product := &model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "SELLER1", ListedPrice: decimal.NewFromInt(20)}
	s.PutProduct(product)
	require.NoError(t, s.SetPaused(context.Background(), "SELLER1", "A1", true))

	sched := New(s)
	fixed := time.Date(2026, 1, 1, 10, 30, 0, 0, time.UTC) // inside [10:00,11:00)
	sched.Now = func() time.Time { return fixed }

	sched.Sweep(context.Background())

	paused, err := s.IsPaused(context.Background(), "SELLER1", "A1")
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestSweep_SkipsDisabledRules(t *testing.T) {
	s := store.NewMemoryStore()
	s.PutResetRules(&model.ResetRuleSet{SellerID: "SELLER1", Enabled: false})
	product := &model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "SELLER1", ListedPrice: decimal.NewFromInt(20)}
	s.PutProduct(product)

	sched := New(s)
	sched.Sweep(context.Background())

	paused, err := s.IsPaused(context.Background(), "SELLER1", "A1")
	require.NoError(t, err)
	assert.False(t, paused)
}

func TestInOneHourWindow_WrapsPastMidnight(t *testing.T) {
	ref := time.Date(2026, 1, 1, 0, 20, 0, 0, time.UTC)
	assert.True(t, inOneHourWindow("23:30", ref))
	assert.False(t, inOneHourWindow("01:00", ref))
}

func TestInferMarketplace_PrefixHeuristics(t *testing.T) {
	assert.Equal(t, "DE", inferMarketplace("DE-SELLER1"))
	assert.Equal(t, "UK", inferMarketplace("UK-SELLER1"))
	assert.Equal(t, "UK", inferMarketplace("GB-SELLER1"))
	assert.Equal(t, "US", inferMarketplace("SELLER1"))
}
