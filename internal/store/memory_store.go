package store

import (
	"context"
	"sync"

	"github.com/iaros/repricer-engine/internal/model"
)

// MemoryStore is an in-memory Store implementation used by package tests
// across the pipeline instead of a mock framework, matching the teacher's
// no-mock-library testing style (pricing_service/tests use plain structs,
// not a generated mock).
type MemoryStore struct {
	mu          sync.Mutex
	products    map[string]*model.Product
	strategies  map[string]*model.Strategy
	paused      map[string]bool
	resetRules  map[string]*model.ResetRuleSet
	calculated  map[string]map[string]*model.CalculatedPrice
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:   map[string]*model.Product{},
		strategies: map[string]*model.Strategy{},
		paused:     map[string]bool{},
		resetRules: map[string]*model.ResetRuleSet{},
		calculated: map[string]map[string]*model.CalculatedPrice{},
	}
}

func productKey(asin, sellerID, sku string) string { return asin + "|" + sellerID + "|" + sku }
func pauseKey(sellerID, asin string) string         { return sellerID + "|" + asin }

func (m *MemoryStore) PutProduct(p *model.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[productKey(p.ASIN, p.SellerID, p.SKU)] = p
}

func (m *MemoryStore) PutStrategy(s *model.Strategy) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.strategies[s.ID] = s
}

func (m *MemoryStore) PutResetRules(r *model.ResetRuleSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetRules[r.SellerID] = r
}

func (m *MemoryStore) GetProduct(ctx context.Context, asin, sellerID, sku string) (*model.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.products[productKey(asin, sellerID, sku)], nil
}

func (m *MemoryStore) FindSKU(ctx context.Context, asin, sellerID string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.products {
		if p.ASIN == asin && p.SellerID == sellerID {
			return p.SKU, true, nil
		}
	}
	return "", false, nil
}

func (m *MemoryStore) GetStock(ctx context.Context, asin, sellerID, sku string) (int64, bool, error) {
	p, err := m.GetProduct(ctx, asin, sellerID, sku)
	if err != nil || p == nil {
		return 0, false, err
	}
	return p.Quantity, true, nil
}

func (m *MemoryStore) GetStrategy(ctx context.Context, id string) (*model.Strategy, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.strategies[id], nil
}

func (m *MemoryStore) SaveCalculatedPrice(ctx context.Context, asin, sellerID, sku string, price *model.CalculatedPrice) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calculated[sellerID] == nil {
		m.calculated[sellerID] = map[string]*model.CalculatedPrice{}
	}
	m.calculated[sellerID][sku] = price
	return true, nil
}

func (m *MemoryStore) GetCalculatedPrice(sellerID, sku string) *model.CalculatedPrice {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calculated[sellerID] == nil {
		return nil
	}
	return m.calculated[sellerID][sku]
}

func (m *MemoryStore) IsPaused(ctx context.Context, sellerID, asin string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.paused[pauseKey(sellerID, asin)], nil
}

func (m *MemoryStore) SetPaused(ctx context.Context, sellerID, asin string, paused bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if paused {
		m.paused[pauseKey(sellerID, asin)] = true
	} else {
		delete(m.paused, pauseKey(sellerID, asin))
	}
	return nil
}

func (m *MemoryStore) GetResetRules(ctx context.Context, sellerID, marketplace string) (*model.ResetRuleSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resetRules[sellerID], nil
}

func (m *MemoryStore) AllSellerIDs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.resetRules))
	for id := range m.resetRules {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *MemoryStore) ProductsForSeller(ctx context.Context, sellerID string) ([]ProductKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []ProductKey
	for _, p := range m.products {
		if p.SellerID == sellerID {
			keys = append(keys, ProductKey{ASIN: p.ASIN, SKU: p.SKU})
		}
	}
	return keys, nil
}

func (m *MemoryStore) ClearCalculatedPrice(ctx context.Context, sellerID, sku string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calculated[sellerID] != nil {
		delete(m.calculated[sellerID], sku)
	}
	return nil
}
