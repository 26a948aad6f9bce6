package rules

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iaros/repricer-engine/internal/model"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func productWithBounds(t *testing.T, min, max string) *model.Product {
	minD := mustDecimal(t, min)
	maxD := mustDecimal(t, max)
	return &model.Product{
		ASIN:        "ASIN1",
		SellerID:    "SELLER1",
		ListedPrice: mustDecimal(t, "20.00"),
		MinPrice:    &minD,
		MaxPrice:    &maxD,
	}
}

func TestApply_WithinBounds_NoRuleTriggered(t *testing.T) {
	product := productWithBounds(t, "10.00", "30.00")
	final, outcome := Apply(mustDecimal(t, "22.50"), product, decimal.Zero, model.RuleDoNothing, model.RuleDoNothing)
	assert.False(t, outcome.IsSkipped())
	assert.False(t, outcome.IsErrored())
	assert.True(t, final.Equal(mustDecimal(t, "22.50")))
}

func TestApply_BelowMin_JumpToMin(t *testing.T) {
	product := productWithBounds(t, "10.00", "30.00")
	final, outcome := Apply(mustDecimal(t, "5.00"), product, decimal.Zero, model.RuleJumpToMin, model.RuleDoNothing)
	assert.False(t, outcome.IsSkipped())
	assert.True(t, final.Equal(mustDecimal(t, "10.00")))
}

func TestApply_AboveMax_MatchCompetitor(t *testing.T) {
	product := productWithBounds(t, "10.00", "30.00")
	competitor := mustDecimal(t, "28.00")
	final, outcome := Apply(mustDecimal(t, "40.00"), product, competitor, model.RuleDoNothing, model.RuleMatchCompetitor)
	assert.False(t, outcome.IsSkipped())
	assert.True(t, final.Equal(mustDecimal(t, "28.00")))
}

func TestApply_DefaultPriceRule_MissingDefault_Skips(t *testing.T) {
	product := productWithBounds(t, "10.00", "30.00")
	_, outcome := Apply(mustDecimal(t, "5.00"), product, decimal.Zero, model.RuleDefaultPrice, model.RuleDoNothing)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, "default-price-unavailable", outcome.Reason)
}

func TestApply_DoNothingRule_Skips(t *testing.T) {
	product := productWithBounds(t, "10.00", "30.00")
	_, outcome := Apply(mustDecimal(t, "5.00"), product, decimal.Zero, model.RuleDoNothing, model.RuleDoNothing)
	assert.True(t, outcome.IsSkipped())
	assert.Equal(t, "do-nothing-rule", outcome.Reason)
}

func TestApply_JumpToMinStillOutsideHardBounds_PriceBoundsError(t *testing.T) {
	// min_price_rule clamps to min, but min itself somehow exceeds max
	// (pathological but must not panic): hard bounds check catches it.
	product := productWithBounds(t, "35.00", "30.00")
	_, outcome := Apply(mustDecimal(t, "5.00"), product, decimal.Zero, model.RuleJumpToMin, model.RuleJumpToMax)
	assert.True(t, outcome.IsSkipped())
	assert.Contains(t, outcome.Reason, "outside bounds")
}

func TestUnchanged_WithinOneCent(t *testing.T) {
	assert.True(t, Unchanged(mustDecimal(t, "19.995"), mustDecimal(t, "20.00")))
	assert.False(t, Unchanged(mustDecimal(t, "19.00"), mustDecimal(t, "20.00")))
}

func TestApply_RoundsHalfUpToTwoDecimals(t *testing.T) {
	product := productWithBounds(t, "0.00", "100.00")
	final, outcome := Apply(mustDecimal(t, "22.455"), product, decimal.Zero, model.RuleDoNothing, model.RuleDoNothing)
	assert.False(t, outcome.IsSkipped())
	assert.True(t, final.Equal(mustDecimal(t, "22.46")))
}
