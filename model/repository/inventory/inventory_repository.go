package inventory

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventoryEntity "cardmarket.GO/model/entity/inventory"
)

type InventoryRepository struct {
	db    *gorm.DB
	sqlDB *sql.DB
}

func NewInventoryRepository(db *gorm.DB) (*InventoryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &InventoryRepository{db: db, sqlDB: sqlDB}, nil
}

// GetByID returns a single inventory record.
func (r *InventoryRepository) GetByID(id uint) (*inventoryEntity.InventoryRecord, error) {
	var rec inventoryEntity.InventoryRecord
	if err := r.db.First(&rec, "inventory_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetBySKU returns a record by its stable external identifier.
func (r *InventoryRepository) GetBySKU(sku string) (*inventoryEntity.InventoryRecord, error) {
	var rec inventoryEntity.InventoryRecord
	if err := r.db.Where("sku = ?", sku).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetAllByCard returns every sellable unit of a card.
func (r *InventoryRepository) GetAllByCard(cardID uint) ([]inventoryEntity.InventoryRecord, error) {
	var recs []inventoryEntity.InventoryRecord
	err := r.db.Where("card_id = ?", cardID).Order("quality ASC, foil ASC").Find(&recs).Error
	return recs, err
}

// GetQuantityBySKU returns stock quantity for a SKU.
// Uses raw SQL for minimal overhead
func (r *InventoryRepository) GetQuantityBySKU(sku string) (int, bool) {
	const query = `SELECT stock_quantity FROM inventory_record WHERE sku = ? LIMIT 1`
	var qty sql.NullInt64
	if err := r.sqlDB.QueryRow(query, sku).Scan(&qty); err != nil || !qty.Valid {
		return 0, false
	}
	return int(qty.Int64), true
}

// LockByIDs loads and row-locks the given records inside tx. The ids are
// locked in ascending order so concurrent multi-item checkouts never acquire
// the same pair of rows in opposite order.
func (r *InventoryRepository) LockByIDs(tx *gorm.DB, ids []uint) ([]inventoryEntity.InventoryRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	sorted := make([]uint, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	q := tx.Where("inventory_id IN ?", sorted).Order("inventory_id ASC")
	// sqlite (tests) has no row locks; its writer lock serializes transactions
	// and the conditional decrement below stays the stock guard.
	if tx.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var recs []inventoryEntity.InventoryRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, err
	}
	return recs, nil
}

// DeductStock decrements stock inside tx. The stock_quantity >= qty predicate
// keeps the column non-negative on every engine; a zero row count means the
// stock was insufficient at write time.
func (r *InventoryRepository) DeductStock(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&inventoryEntity.InventoryRecord{}).
		Where("inventory_id = ? AND stock_quantity >= ?", id, qty).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	return res.RowsAffected > 0, res.Error
}

// RestoreStock increments stock inside tx (compensation for cancelled
// orders). Returns false when the inventory row no longer exists.
func (r *InventoryRepository) RestoreStock(tx *gorm.DB, id uint, qty int) (bool, error) {
	res := tx.Model(&inventoryEntity.InventoryRecord{}).
		Where("inventory_id = ?", id).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	return res.RowsAffected > 0, res.Error
}

// correctionColumns is the fixed allow-list for UpdateBySKU. Caller-supplied
// column names outside this set are rejected, never interpolated.
var correctionColumns = map[string]bool{
	"stock_quantity":    true,
	"price":             true,
	"price_source":      true,
	"last_price_update": true,
}

// UpdateBySKU applies a single atomic correction statement to one record.
// Returns false when no record matches the SKU.
func (r *InventoryRepository) UpdateBySKU(sku string, fields map[string]interface{}) (bool, error) {
	if len(fields) == 0 {
		return false, nil
	}
	for col := range fields {
		if !correctionColumns[col] {
			return false, fmt.Errorf("column %q not updatable", col)
		}
	}
	res := r.db.Model(&inventoryEntity.InventoryRecord{}).Where("sku = ?", sku).Updates(fields)
	return res.RowsAffected > 0, res.Error
}

// Create inserts a new sellable unit, stamping the price provenance time.
func (r *InventoryRepository) Create(rec *inventoryEntity.InventoryRecord) error {
	if rec.LastPriceUpdate.IsZero() {
		rec.LastPriceUpdate = time.Now()
	}
	return r.db.Create(rec).Error
}

// BatchGetBySKUs fetches records for multiple SKUs in one query.
func (r *InventoryRepository) BatchGetBySKUs(skus []string) (map[string]inventoryEntity.InventoryRecord, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	var recs []inventoryEntity.InventoryRecord
	if err := r.db.Where("sku IN ?", skus).Find(&recs).Error; err != nil {
		return nil, err
	}
	m := make(map[string]inventoryEntity.InventoryRecord, len(recs))
	for _, rec := range recs {
		m[rec.SKU] = rec
	}
	return m, nil
}
