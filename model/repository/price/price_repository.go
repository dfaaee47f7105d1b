package price

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cardmarket.GO/config"
)

// PriceInfo is the canonical answer to "what does this unit cost right now".
// Any price a client sends is at most a hint for tamper logging; this struct
// is the only value ever charged.
type PriceInfo struct {
	InventoryID    uint      `json:"inventory_id"`
	Price          float64   `json:"price"`
	PriceSource    string    `json:"price_source"`
	LastUpdated    time.Time `json:"last_updated"`
	StaleAfterDays int       `json:"stale_after_days"`
	Stale          bool      `json:"stale"`
}

type PriceRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
	cache *redis.Client
}

func NewPriceRepository(db *gorm.DB) (*PriceRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &PriceRepository{db: db, sqlDB: sqlDB, cache: config.RedisClient}, nil
}

const cacheTTL = 60 * time.Second

func cacheKey(inventoryID uint) string {
	return fmt.Sprintf("price:%d", inventoryID)
}

// Resolve returns the canonical unit price and its provenance, read through
// the redis cache when one is configured.
func (r *PriceRepository) Resolve(inventoryID uint) (*PriceInfo, error) {
	if r.cache != nil {
		if raw, err := r.cache.Get(config.RedisCtx(), cacheKey(inventoryID)).Bytes(); err == nil {
			var info PriceInfo
			if json.Unmarshal(raw, &info) == nil {
				info.Stale = r.isStale(info.LastUpdated)
				return &info, nil
			}
		}
	}

	info, err := r.resolveFromDB(inventoryID)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		if raw, err := json.Marshal(info); err == nil {
			r.cache.Set(config.RedisCtx(), cacheKey(inventoryID), raw, cacheTTL)
		}
	}
	return info, nil
}

// resolveFromDB reads the price row directly.
// Uses raw SQL for minimal overhead
func (r *PriceRepository) resolveFromDB(inventoryID uint) (*PriceInfo, error) {
	const query = `SELECT price, price_source, last_price_update FROM inventory_record WHERE inventory_id = ? LIMIT 1`
	var (
		p       sql.NullFloat64
		src     sql.NullString
		updated sql.NullTime
	)
	if err := r.sqlDB.QueryRow(query, inventoryID).Scan(&p, &src, &updated); err != nil {
		return nil, err
	}
	info := &PriceInfo{
		InventoryID:    inventoryID,
		Price:          p.Float64,
		PriceSource:    src.String,
		LastUpdated:    updated.Time,
		StaleAfterDays: r.staleAfterDays(),
	}
	info.Stale = r.isStale(info.LastUpdated)
	return info, nil
}

// Invalidate drops cached prices after a write path touched them.
func (r *PriceRepository) Invalidate(inventoryIDs ...uint) {
	if r.cache == nil || len(inventoryIDs) == 0 {
		return
	}
	keys := make([]string, len(inventoryIDs))
	for i, id := range inventoryIDs {
		keys[i] = cacheKey(id)
	}
	r.cache.Del(config.RedisCtx(), keys...)
}

// InvalidateBySKUs drops cached prices for records addressed by SKU (bulk
// correction path).
func (r *PriceRepository) InvalidateBySKUs(skus []string) {
	if r.cache == nil || len(skus) == 0 {
		return
	}
	var ids []uint
	if err := r.db.Table("inventory_record").Where("sku IN ?", skus).Pluck("inventory_id", &ids).Error; err != nil {
		return
	}
	r.Invalidate(ids...)
}

func (r *PriceRepository) staleAfterDays() int {
	if config.AppConfig != nil && config.AppConfig.PriceStaleDays > 0 {
		return config.AppConfig.PriceStaleDays
	}
	return 7
}

func (r *PriceRepository) isStale(lastUpdated time.Time) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return time.Since(lastUpdated) > time.Duration(r.staleAfterDays())*24*time.Hour
}
