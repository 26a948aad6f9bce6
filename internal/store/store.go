// Package store implements C1: a typed facade over the key-value store
// holding product records, strategies, calculated-price outputs, pause
// flags and reset-rule sets, per spec.md §4.1 and the store layout of §6.
package store

import (
	"context"

	"github.com/iaros/repricer-engine/internal/model"
)

// Store is the capability surface the rest of the pipeline depends on.
// Implementations must surface failures as errors.Transient (retryable)
// or errors.Malformed (fatal for the event), per spec.md §4.1.
type Store interface {
	GetProduct(ctx context.Context, asin, sellerID, sku string) (*model.Product, error)
	FindSKU(ctx context.Context, asin, sellerID string) (string, bool, error)
	GetStock(ctx context.Context, asin, sellerID, sku string) (int64, bool, error)
	GetStrategy(ctx context.Context, id string) (*model.Strategy, error)

	// SaveCalculatedPrice writes unconditionally; change-only enforcement
	// happens in the caller (C6/C7), per spec.md §4.1.
	SaveCalculatedPrice(ctx context.Context, asin, sellerID, sku string, price *model.CalculatedPrice) (bool, error)

	IsPaused(ctx context.Context, sellerID, asin string) (bool, error)
	SetPaused(ctx context.Context, sellerID, asin string, paused bool) error

	GetResetRules(ctx context.Context, sellerID, marketplace string) (*model.ResetRuleSet, error)

	// AllSellerIDs enumerates sellers with any ResetRuleSet, enabled or not, for
	// C9's sweep (which skips disabled rule sets itself).
	AllSellerIDs(ctx context.Context) ([]string, error)
	// ProductsForSeller enumerates every (asin, sku) pair under a seller, for C9's sweep.
	ProductsForSeller(ctx context.Context, sellerID string) ([]ProductKey, error)

	// ClearCalculatedPrice drops a stale price before its TTL, an operator
	// escape hatch supplementing spec.md per SPEC_FULL.md's feature #4.
	ClearCalculatedPrice(ctx context.Context, sellerID, sku string) error
}

// ProductKey identifies a product tuple without fetching the full record.
type ProductKey struct {
	ASIN string
	SKU  string
}
