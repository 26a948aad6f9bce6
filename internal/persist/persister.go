// Package persist implements C7: writing a computed price to the Store and
// reporting success only once the Store has acknowledged, grounded on
// PricingController.go's pattern of wrapping an engine call with a
// success/failure result struct.
package persist

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

// Persister writes CalculatedPrice records through the Store.
type Persister struct {
	Store store.Store
	Now   func() time.Time
}

func New(s store.Store) *Persister {
	return &Persister{Store: s, Now: time.Now}
}

// Save builds a CalculatedPrice from the pipeline's intermediate values and
// persists it. It does not apply the change-only contract; callers decide
// whether to skip the write before calling Save.
func (p *Persister) Save(ctx context.Context, product *model.Product, strategyUsed, strategyID string, newPrice, competitorPrice decimal.Decimal, started time.Time) (*model.CalculatedPrice, error) {
	cp := &model.CalculatedPrice{
		ASIN:             product.ASIN,
		SKU:              product.SKU,
		SellerID:         product.SellerID,
		OldPrice:         product.ListedPrice,
		NewPrice:         newPrice,
		CompetitorPrice:  competitorPrice,
		StrategyUsed:     strategyUsed,
		StrategyID:       strategyID,
		CalculatedAt:     p.Now(),
		ProcessingTimeMS: float64(p.Now().Sub(started).Microseconds()) / 1000.0,
	}

	saved, err := p.Store.SaveCalculatedPrice(ctx, product.ASIN, product.SellerID, product.SKU, cp)
	if err != nil {
		logging.Global().LogStoreCall("save_calculated_price", false, err)
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return nil, rerr
		}
		return nil, rerrors.Transient("failed to persist calculated price", err)
	}
	if !saved {
		logging.Global().LogStoreCall("save_calculated_price", false, nil)
		return nil, rerrors.Transient("store declined calculated price write", nil)
	}

	logging.Global().LogStoreCall("save_calculated_price", true, nil)
	return cp, nil
}
