package sales

import (
	"gorm.io/gorm"

	salesEntity "cardmarket.GO/model/entity/sales"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems persists an order and its line items inside tx.
func (r *OrderRepository) CreateWithItems(tx *gorm.DB, order *salesEntity.Order, items []salesEntity.OrderItem) error {
	if err := tx.Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.OrderID
	}
	if err := tx.Create(&items).Error; err != nil {
		return err
	}
	order.Items = items
	return nil
}

// FindByID returns an order with its items.
func (r *OrderRepository) FindByID(id uint) (*salesEntity.Order, error) {
	var o salesEntity.Order
	if err := r.db.Preload("Items").First(&o, "order_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByIDTx is FindByID bound to a transaction.
func (r *OrderRepository) FindByIDTx(tx *gorm.DB, id uint) (*salesEntity.Order, error) {
	var o salesEntity.Order
	if err := tx.Preload("Items").First(&o, "order_id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus writes the status column inside tx.
func (r *OrderRepository) UpdateStatus(tx *gorm.DB, id uint, status string) error {
	return tx.Model(&salesEntity.Order{}).Where("order_id = ?", id).Update("status", status).Error
}

// ListByEmail returns a customer's orders, newest first.
func (r *OrderRepository) ListByEmail(email string, limit, offset int) ([]salesEntity.Order, int64, error) {
	q := r.db.Model(&salesEntity.Order{}).Where("customer_email = ?", email)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []salesEntity.Order
	err := q.Preload("Items").Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}
