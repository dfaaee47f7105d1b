package sales

import (
	"time"

	"gorm.io/datatypes"
)

// Order status values. The lifecycle state machine in service/sales is the
// only writer of the status column.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Order is an immutable customer snapshot plus monetary totals. Orders are
// never physically deleted (audit retention); cancellation is a status.
// Invariant: Total = Subtotal + Tax + Shipping.
type Order struct {
	OrderID       uint           `gorm:"column:order_id;primaryKey;autoIncrement" json:"order_id,omitempty"`
	CustomerEmail string         `gorm:"column:customer_email;type:varchar(128);not null;index" json:"customer_email"`
	Customer      datatypes.JSON `gorm:"column:customer;type:json" json:"customer"`
	Subtotal      float64        `gorm:"column:subtotal;type:decimal(12,4);not null;default:0" json:"subtotal"`
	Tax           float64        `gorm:"column:tax;type:decimal(12,4);not null;default:0" json:"tax"`
	Shipping      float64        `gorm:"column:shipping;type:decimal(12,4);not null;default:0" json:"shipping"`
	Total         float64        `gorm:"column:total;type:decimal(12,4);not null;default:0" json:"total"`
	Currency      string         `gorm:"column:currency;type:char(3);not null;default:'USD'" json:"currency"`
	Status        string         `gorm:"column:status;type:varchar(16);not null;default:'pending';index" json:"status"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "sales_order"
}
