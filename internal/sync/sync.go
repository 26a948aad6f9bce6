// Package sync implements the external listing-sync job spec.md §3 places
// out of the core pipeline's scope: a periodic pull from a Postgres
// products/strategies system of record into the Store's Redis hashes,
// adapted from order_service/src/database/connection.go's gorm/postgres
// connection-and-migrate pattern.
package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/shopspring/decimal"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/iaros/repricer-engine/internal/logging"
	"github.com/iaros/repricer-engine/internal/model"
	"github.com/iaros/repricer-engine/internal/store"
)

// listedProduct mirrors the external system-of-record's products table;
// field names follow its column naming, not the Store's JSON shape.
type listedProduct struct {
	ASIN            string  `gorm:"column:asin"`
	SKU             string  `gorm:"column:sku"`
	SellerID        string  `gorm:"column:seller_id"`
	Marketplace     string  `gorm:"column:marketplace"`
	ListedPrice     float64 `gorm:"column:listed_price"`
	MinPrice        *float64 `gorm:"column:min_price"`
	MaxPrice        *float64 `gorm:"column:max_price"`
	DefaultPrice    *float64 `gorm:"column:default_price"`
	ItemCondition   string  `gorm:"column:item_condition"`
	Quantity        int64   `gorm:"column:quantity"`
	Status          string  `gorm:"column:status"`
	StrategyID      string  `gorm:"column:strategy_id"`
}

func (listedProduct) TableName() string { return "products" }

type listedStrategy struct {
	ID           string  `gorm:"column:id"`
	SellerID     string  `gorm:"column:seller_id"`
	ASIN         string  `gorm:"column:asin"`
	Type         string  `gorm:"column:type"`
	CompeteWith  string  `gorm:"column:compete_with"`
	BeatBy       float64 `gorm:"column:beat_by"`
	MinPriceRule string  `gorm:"column:min_price_rule"`
	MaxPriceRule string  `gorm:"column:max_price_rule"`
	Enabled      bool    `gorm:"column:enabled"`
}

func (listedStrategy) TableName() string { return "strategies" }

// Job periodically mirrors products/strategies rows from Postgres into the
// Store, the way an external listing-sync system would feed the pipeline.
type Job struct {
	db    *gorm.DB
	store *store.RedisStore
}

// Connect opens the Postgres connection and applies pending migrations
// from migrationsPath, following order_service's Connect/AutoMigrate split
// (here via golang-migrate rather than gorm.AutoMigrate, since this schema
// is owned by the external system, not generated from our structs).
func Connect(dsn, migrationsPath string, s *store.RedisStore) (*Job, error) {
	gormLogger := logger.Default.LogMode(logger.Warn)
	db, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("sync: failed to connect to postgres: %w", err)
	}

	if migrationsPath != "" {
		if err := applyMigrations(dsn, migrationsPath); err != nil {
			return nil, fmt.Errorf("sync: failed to apply migrations: %w", err)
		}
	}

	return &Job{db: db, store: s}, nil
}

func applyMigrations(dsn, migrationsPath string) error {
	sqlDB, err := gorm.Open(gormpg.Open(dsn), &gorm.Config{})
	if err != nil {
		return err
	}
	conn, err := sqlDB.DB()
	if err != nil {
		return err
	}
	driver, err := migratepg.WithInstance(conn, &migratepg.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Run performs one sync pass: every products/strategies row is read and
// upserted into the Store. Errors on individual rows are logged and
// skipped so one bad row doesn't abort the whole sync.
func (j *Job) Run(ctx context.Context) error {
	var products []listedProduct
	if err := j.db.WithContext(ctx).Find(&products).Error; err != nil {
		return fmt.Errorf("sync: failed to read products: %w", err)
	}
	for _, row := range products {
		if err := j.store.SaveProduct(ctx, row.toModel()); err != nil {
			logging.Global().Warn("sync: failed to save product")
		}
	}

	var strategies []listedStrategy
	if err := j.db.WithContext(ctx).Find(&strategies).Error; err != nil {
		return fmt.Errorf("sync: failed to read strategies: %w", err)
	}
	for _, row := range strategies {
		if err := j.store.SaveStrategy(ctx, row.toModel()); err != nil {
			logging.Global().Warn("sync: failed to save strategy")
		}
	}

	return nil
}

// RunPeriodically calls Run on the given interval until ctx is cancelled,
// logging (not aborting on) per-pass failures.
func (j *Job) RunPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				logging.Global().Warn("sync: pass failed")
			}
		}
	}
}

func floatPtrToDecimal(f *float64) *decimal.Decimal {
	if f == nil {
		return nil
	}
	d := decimal.NewFromFloat(*f)
	return &d
}

func (row listedProduct) toModel() *model.Product {
	return &model.Product{
		ASIN:          row.ASIN,
		SKU:           row.SKU,
		SellerID:      row.SellerID,
		Marketplace:   row.Marketplace,
		ListedPrice:   decimal.NewFromFloat(row.ListedPrice),
		MinPrice:      floatPtrToDecimal(row.MinPrice),
		MaxPrice:      floatPtrToDecimal(row.MaxPrice),
		DefaultPrice:  floatPtrToDecimal(row.DefaultPrice),
		ItemCondition: model.ItemCondition(row.ItemCondition),
		Quantity:      row.Quantity,
		Status:        model.ProductStatus(row.Status),
		StrategyID:    row.StrategyID,
	}
}

func (row listedStrategy) toModel() *model.Strategy {
	return &model.Strategy{
		ID:           row.ID,
		SellerID:     row.SellerID,
		ASIN:         row.ASIN,
		Type:         model.StrategyType(row.Type),
		CompeteWith:  model.CompeteWith(row.CompeteWith),
		BeatBy:       decimal.NewFromFloat(row.BeatBy),
		MinPriceRule: model.BoundRule(row.MinPriceRule),
		MaxPriceRule: model.BoundRule(row.MaxPriceRule),
		Enabled:      row.Enabled,
	}
}
