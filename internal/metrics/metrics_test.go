package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestOutcome_PricedIncrementsCounters(t *testing.T) {
	before := testutil.ToFloat64(PricesCalculated)
	Outcome("amazon", false, false, "", "")
	assert.Equal(t, before+1, testutil.ToFloat64(PricesCalculated))
}

func TestOutcome_SkippedIncrementsByReason(t *testing.T) {
	before := testutil.ToFloat64(EventsSkipped.WithLabelValues("unchanged"))
	Outcome("amazon", true, false, "unchanged", "")
	assert.Equal(t, before+1, testutil.ToFloat64(EventsSkipped.WithLabelValues("unchanged")))
}

func TestOutcome_ErroredIncrementsByKind(t *testing.T) {
	before := testutil.ToFloat64(EventsErrored.WithLabelValues("Transient"))
	Outcome("amazon", false, true, "", "Transient")
	assert.Equal(t, before+1, testutil.ToFloat64(EventsErrored.WithLabelValues("Transient")))
}
