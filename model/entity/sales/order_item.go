package sales

import "time"

// OrderItem is a purchase-time snapshot of one line. InventoryID is a weak
// back-reference: the inventory row may change price or be depleted later
// without touching the snapshot here. Invariant: TotalPrice = UnitPrice * Quantity.
type OrderItem struct {
	ItemID      uint      `gorm:"column:item_id;primaryKey;autoIncrement" json:"item_id,omitempty"`
	OrderID     uint      `gorm:"column:order_id;not null;index" json:"order_id"`
	InventoryID uint      `gorm:"column:inventory_id;not null;index" json:"inventory_id"`
	CardName    string    `gorm:"column:card_name;type:varchar(255);not null" json:"card_name"`
	Quality     string    `gorm:"column:quality;type:varchar(8);not null" json:"quality"`
	UnitPrice   float64   `gorm:"column:unit_price;type:decimal(12,4);not null" json:"unit_price"`
	Quantity    int       `gorm:"column:quantity;not null" json:"quantity"`
	TotalPrice  float64   `gorm:"column:total_price;type:decimal(12,4);not null" json:"total_price"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "sales_order_item"
}
