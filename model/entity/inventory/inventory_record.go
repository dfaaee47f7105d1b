package inventory

import "time"

// Price provenance values for InventoryRecord.PriceSource.
const (
	PriceSourceManual     = "manual"
	PriceSourceAPI        = "api"
	PriceSourceCalculated = "calculated"
)

// Quality grades accepted for sellable units.
const (
	QualityNearMint        = "NM"
	QualityLightlyPlayed   = "LP"
	QualityModeratelyPlayed = "MP"
	QualityHeavilyPlayed   = "HP"
	QualityDamaged         = "DMG"
)

// InventoryRecord is one sellable unit: a card in a specific quality, finish
// and language. stock_quantity is the only shared mutable resource in the
// system; it changes only inside the order placement, lifecycle and bulk
// correction transactions.
type InventoryRecord struct {
	InventoryID     uint      `gorm:"column:inventory_id;primaryKey;autoIncrement" json:"inventory_id,omitempty"`
	CardID          uint      `gorm:"column:card_id;not null;uniqueIndex:idx_inventory_unq,priority:1" json:"card_id"`
	Quality         string    `gorm:"column:quality;type:varchar(8);not null;uniqueIndex:idx_inventory_unq,priority:2" json:"quality"`
	Foil            string    `gorm:"column:foil;type:varchar(32);not null;default:'Normal';uniqueIndex:idx_inventory_unq,priority:3" json:"foil"`
	Language        string    `gorm:"column:language;type:varchar(16);not null;default:'English';uniqueIndex:idx_inventory_unq,priority:4" json:"language"`
	SKU             string    `gorm:"column:sku;type:varchar(64);not null;uniqueIndex" json:"sku"`
	StockQuantity   int       `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	Price           float64   `gorm:"column:price;type:decimal(12,4);not null;default:0" json:"price"`
	PriceSource     string    `gorm:"column:price_source;type:varchar(16);not null;default:'manual'" json:"price_source"`
	LastPriceUpdate time.Time `gorm:"column:last_price_update" json:"last_price_update"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InventoryRecord) TableName() string {
	return "inventory_record"
}
