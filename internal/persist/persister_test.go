package persist

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

func TestSave_PersistsCalculatedPrice(t *testing.T) {
	s := store.NewMemoryStore()
	product := &model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "SELLER1", ListedPrice: decimal.NewFromInt(20)}
	s.PutProduct(product)

	p := New(s)
	started := time.Now().Add(-5 * time.Millisecond)
	cp, err := p.Save(context.Background(), product, "MAXIMISE_PROFIT", "strat-1", decimal.NewFromInt(22), decimal.NewFromInt(25), started)
	require.NoError(t, err)
	require.NotNil(t, cp)
	assert.True(t, cp.NewPrice.Equal(decimal.NewFromInt(22)))
	assert.True(t, cp.OldPrice.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "MAXIMISE_PROFIT", cp.StrategyUsed)
	assert.GreaterOrEqual(t, cp.ProcessingTimeMS, 0.0)

	stored := s.GetCalculatedPrice("SELLER1", "SKU1")
	require.NotNil(t, stored)
	assert.True(t, stored.NewPrice.Equal(decimal.NewFromInt(22)))
}

func TestSave_PropagatesStoreError(t *testing.T) {
	s := &erroringStore{MemoryStore: store.NewMemoryStore()}
	product := &model.Product{ASIN: "A1", SKU: "SKU1", SellerID: "SELLER1", ListedPrice: decimal.NewFromInt(20)}
	p := New(s)
	_, err := p.Save(context.Background(), product, "ONLY_SELLER", "strat-1", decimal.NewFromInt(20), decimal.Zero, time.Now())
	assert.Error(t, err)
}

type erroringStore struct {
	*store.MemoryStore
}

func (e *erroringStore) SaveCalculatedPrice(ctx context.Context, asin, sellerID, sku string, cp *model.CalculatedPrice) (bool, error) {
	return false, assertErr
}

var assertErr = errWrite{}

type errWrite struct{}

func (errWrite) Error() string { return "store write failed" }
