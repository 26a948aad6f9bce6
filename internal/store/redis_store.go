package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	rerrors "github.com/iaros/repricer-engine/internal/errors"
	"github.com/iaros/repricer-engine/internal/model"
)

const calculatedPriceTTL = 2 * time.Hour

// RedisStore implements Store over the key layout spec.md §6 describes:
//
//	ASIN_{asin}                      hash  "{seller_id}:{sku}" -> product JSON
//	CALCULATED_PRICES:{seller_id}    hash  "{sku}" -> calculated price JSON, TTL 2h
//	repricing_paused:{seller_id}:{asin}     string, presence = paused
//	strategy:{id}                    hash/string -> strategy JSON
//	reset_rules:{seller_id}          string -> ResetRuleSet JSON
//
// It wraps every round-trip in a gobreaker circuit breaker the way
// DynamicPricingEngine.go wraps its market-data clients, and fronts reads
// with a short-TTL patrickmn/go-cache layer since get_product/get_strategy
// sit on the hot path under the 1-second store-op budget of spec.md §5.
type RedisStore struct {
	client  *redis.Client
	breaker *gobreaker.CircuitBreaker
	cache   *cache.Cache
}

// NewRedisStore builds a RedisStore, matching order_service/main.go's
// initRedis connection-test-on-boot pattern.
func NewRedisStore(client *redis.Client) *RedisStore {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-store",
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
	})
	return &RedisStore{
		client:  client,
		breaker: breaker,
		cache:   cache.New(5*time.Second, 30*time.Second),
	}
}

func (s *RedisStore) withBreaker(ctx context.Context, op string, fn func() (interface{}, error)) (interface{}, error) {
	result, err := s.breaker.Execute(fn)
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, rerrors.Transient(fmt.Sprintf("store circuit open during %s", op), err)
		}
		return nil, rerrors.Transient(fmt.Sprintf("store call %s failed", op), err)
	}
	return result, nil
}

func asinKey(asin string) string { return "ASIN_" + asin }
func strategyKey(id string) string { return "strategy:" + id }
func pausedKey(sellerID, asin string) string { return fmt.Sprintf("repricing_paused:%s:%s", sellerID, asin) }
func calculatedPricesKey(sellerID string) string { return "CALCULATED_PRICES:" + sellerID }
func resetRulesKey(sellerID string) string { return "reset_rules:" + sellerID }
func productCacheKey(asin, sellerID, sku string) string { return asin + "|" + sellerID + "|" + sku }

func (s *RedisStore) GetProduct(ctx context.Context, asin, sellerID, sku string) (*model.Product, error) {
	cacheKey := productCacheKey(asin, sellerID, sku)
	if cached, ok := s.cache.Get(cacheKey); ok {
		p, _ := cached.(*model.Product)
		return p, nil
	}

	field := sellerID + ":" + sku
	raw, err := s.withBreaker(ctx, "get_product", func() (interface{}, error) {
		return s.client.HGet(ctx, asinKey(asin), field).Result()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return nil, rerr
		}
		return nil, err
	}
	str, ok := raw.(string)
	if !ok || str == "" {
		return nil, nil
	}

	var product model.Product
	if err := json.Unmarshal([]byte(str), &product); err != nil {
		return nil, rerrors.Malformed("product record not valid JSON", err)
	}
	s.cache.Set(cacheKey, &product, cache.DefaultExpiration)
	return &product, nil
}

func (s *RedisStore) FindSKU(ctx context.Context, asin, sellerID string) (string, bool, error) {
	raw, err := s.withBreaker(ctx, "find_sku", func() (interface{}, error) {
		return s.client.HKeys(ctx, asinKey(asin)).Result()
	})
	if err != nil {
		if raw == nil && err == redis.Nil {
			return "", false, nil
		}
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return "", false, rerr
		}
		return "", false, err
	}
	fields, _ := raw.([]string)
	prefix := sellerID + ":"
	for _, field := range fields {
		if len(field) > len(prefix) && field[:len(prefix)] == prefix {
			return field[len(prefix):], true, nil
		}
	}
	return "", false, nil
}

func (s *RedisStore) GetStock(ctx context.Context, asin, sellerID, sku string) (int64, bool, error) {
	product, err := s.GetProduct(ctx, asin, sellerID, sku)
	if err != nil {
		return 0, false, err
	}
	if product == nil {
		return 0, false, nil
	}
	return product.Quantity, true, nil
}

func (s *RedisStore) GetStrategy(ctx context.Context, id string) (*model.Strategy, error) {
	cacheKey := "strategy|" + id
	if cached, ok := s.cache.Get(cacheKey); ok {
		st, _ := cached.(*model.Strategy)
		return st, nil
	}

	raw, err := s.withBreaker(ctx, "get_strategy", func() (interface{}, error) {
		return s.client.Get(ctx, strategyKey(id)).Result()
	})
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			if rerr.Cause == redis.Nil {
				return nil, nil
			}
			return nil, rerr
		}
		return nil, err
	}
	str, ok := raw.(string)
	if !ok || str == "" {
		return nil, nil
	}
	var strategy model.Strategy
	if err := json.Unmarshal([]byte(str), &strategy); err != nil {
		return nil, rerrors.Malformed("strategy record not valid JSON", err)
	}
	s.cache.Set(cacheKey, &strategy, cache.DefaultExpiration)
	return &strategy, nil
}

// SaveCalculatedPrice pipelines the hash write and TTL refresh so a crash
// between them leaves either both or neither, per spec.md §5's atomicity
// requirement.
func (s *RedisStore) SaveCalculatedPrice(ctx context.Context, asin, sellerID, sku string, price *model.CalculatedPrice) (bool, error) {
	payload, err := json.Marshal(price)
	if err != nil {
		return false, rerrors.Fatal("failed to marshal calculated price", err)
	}

	key := calculatedPricesKey(sellerID)
	_, err = s.withBreaker(ctx, "save_calculated_price", func() (interface{}, error) {
		pipe := s.client.TxPipeline()
		pipe.HSet(ctx, key, sku, payload)
		pipe.Expire(ctx, key, calculatedPriceTTL)
		_, err := pipe.Exec(ctx)
		return nil, err
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return false, rerr
		}
		return false, err
	}
	return true, nil
}

func (s *RedisStore) IsPaused(ctx context.Context, sellerID, asin string) (bool, error) {
	raw, err := s.withBreaker(ctx, "is_paused", func() (interface{}, error) {
		return s.client.Exists(ctx, pausedKey(sellerID, asin)).Result()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return false, rerr
		}
		return false, err
	}
	count, _ := raw.(int64)
	return count > 0, nil
}

func (s *RedisStore) SetPaused(ctx context.Context, sellerID, asin string, paused bool) error {
	key := pausedKey(sellerID, asin)
	_, err := s.withBreaker(ctx, "set_paused", func() (interface{}, error) {
		if paused {
			return nil, s.client.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), 0).Err()
		}
		return nil, s.client.Del(ctx, key).Err()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return rerr
		}
		return err
	}
	return nil
}

func (s *RedisStore) GetResetRules(ctx context.Context, sellerID, marketplace string) (*model.ResetRuleSet, error) {
	raw, err := s.withBreaker(ctx, "get_reset_rules", func() (interface{}, error) {
		return s.client.Get(ctx, resetRulesKey(sellerID)).Result()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			if rerr.Cause == redis.Nil {
				return nil, nil
			}
			return nil, rerr
		}
		return nil, err
	}
	str, ok := raw.(string)
	if !ok || str == "" {
		return nil, nil
	}
	var rules model.ResetRuleSet
	if err := json.Unmarshal([]byte(str), &rules); err != nil {
		return nil, rerrors.Malformed("reset rule set not valid JSON", err)
	}
	return &rules, nil
}

func (s *RedisStore) AllSellerIDs(ctx context.Context) ([]string, error) {
	raw, err := s.withBreaker(ctx, "all_seller_ids", func() (interface{}, error) {
		return s.client.Keys(ctx, "reset_rules:*").Result()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return nil, rerr
		}
		return nil, err
	}
	keys, _ := raw.([]string)
	prefix := len("reset_rules:")
	sellerIDs := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) > prefix {
			sellerIDs = append(sellerIDs, k[prefix:])
		}
	}
	return sellerIDs, nil
}

func (s *RedisStore) ProductsForSeller(ctx context.Context, sellerID string) ([]ProductKey, error) {
	raw, err := s.withBreaker(ctx, "products_for_seller", func() (interface{}, error) {
		return s.client.Keys(ctx, "ASIN_*").Result()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return nil, rerr
		}
		return nil, err
	}
	asinKeys, _ := raw.([]string)
	prefix := sellerID + ":"
	var keys []ProductKey
	for _, ak := range asinKeys {
		asin := ak[len("ASIN_"):]
		fields, err := s.client.HKeys(ctx, ak).Result()
		if err != nil {
			continue
		}
		for _, field := range fields {
			if len(field) > len(prefix) && field[:len(prefix)] == prefix {
				keys = append(keys, ProductKey{ASIN: asin, SKU: field[len(prefix):]})
			}
		}
	}
	return keys, nil
}

func (s *RedisStore) ClearCalculatedPrice(ctx context.Context, sellerID, sku string) error {
	_, err := s.withBreaker(ctx, "clear_calculated_price", func() (interface{}, error) {
		return nil, s.client.HDel(ctx, calculatedPricesKey(sellerID), sku).Err()
	})
	if err != nil {
		if rerr, ok := err.(*rerrors.RepricerError); ok {
			return rerr
		}
		return err
	}
	return nil
}

// SaveProduct is a convenience used by internal/sync and tests to seed the
// Store's product hash the way an external listing-sync job would.
func (s *RedisStore) SaveProduct(ctx context.Context, p *model.Product) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	field := p.SellerID + ":" + p.SKU
	return s.client.HSet(ctx, asinKey(p.ASIN), field, payload).Err()
}

// SaveStrategy is the sync-side counterpart to GetStrategy.
func (s *RedisStore) SaveStrategy(ctx context.Context, strat *model.Strategy) error {
	payload, err := json.Marshal(strat)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, strategyKey(strat.ID), payload, 0).Err()
}

// SaveResetRules is the sync-side counterpart to GetResetRules.
func (s *RedisStore) SaveResetRules(ctx context.Context, rules *model.ResetRuleSet) error {
	payload, err := json.Marshal(rules)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, resetRulesKey(rules.SellerID), payload, 0).Err()
}
