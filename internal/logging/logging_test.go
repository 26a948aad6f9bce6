package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DefaultsApplyWhenConfigOmitted(t *testing.T) {
	l := New("test-service")
	assert.NotNil(t, l.Logger)
}

func TestWithEventID_ChainsWithoutMutatingReceiver(t *testing.T) {
	base := New("test-service")
	derived := base.WithEventID("evt-1")
	assert.NotSame(t, base, derived)
}

func TestWithProduct_ReturnsNewLogger(t *testing.T) {
	base := New("test-service")
	derived := base.WithProduct("ASIN1", "SELLER1", "SKU1")
	assert.NotNil(t, derived)
}

func TestWithError_ReturnsNewLogger(t *testing.T) {
	base := New("test-service")
	derived := base.WithError(errors.New("boom"))
	assert.NotNil(t, derived)
}

func TestGlobal_LazilyInitializes(t *testing.T) {
	global = nil
	l := Global()
	assert.NotNil(t, l)
	assert.Same(t, l, Global())
}

func TestInitGlobal_SetsPackageLogger(t *testing.T) {
	InitGlobal("svc", Config{Level: "debug"})
	assert.NotNil(t, Global())
}

func TestDomainHelpers_DoNotPanic(t *testing.T) {
	l := New("test-service")
	assert.NotPanics(t, func() {
		l.LogEligibilitySkip("eligibility", "paused")
		l.LogPriceCalculated("ChaseBuyBox", "20.00", "18.00")
		l.LogStoreCall("get_product", true, nil)
		l.LogStoreCall("get_product", false, errors.New("redis down"))
		l.LogIngress("amazon", "priced")
		l.LogUnmappedTimezone("SELLER1", "US")
	})
}
