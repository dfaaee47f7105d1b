package sales

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"

	salesEntity "cardmarket.GO/model/entity/sales"
)

// GetOrder returns an order with its items.
func (s *Service) GetOrder(id uint) (*salesEntity.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// SetStatus drives the order lifecycle state machine. Transitions crossing
// the cancelled state carry stock side effects; every other transition is a
// plain status write. The whole transition, stock effects included, is one
// transaction.
func (s *Service) SetStatus(ctx context.Context, orderID uint, newStatus string) (*salesEntity.Order, error) {
	if !salesEntity.ValidStatus(newStatus) {
		return nil, &ValidationError{Msg: "unknown status: " + newStatus}
	}

	var updated *salesEntity.Order

	err := s.runner.InTx(ctx, func(tx *gorm.DB) error {
		order, err := s.orders.FindByIDTx(tx, orderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		switch {
		case order.Status == newStatus:
			// No-op transition.

		case newStatus == salesEntity.StatusCancelled:
			if err := s.releaseStock(tx, order); err != nil {
				return err
			}

		case order.Status == salesEntity.StatusCancelled:
			if err := s.reReserveStock(tx, order, newStatus); err != nil {
				return err
			}
		}

		if err := s.orders.UpdateStatus(tx, orderID, newStatus); err != nil {
			return err
		}
		order.Status = newStatus
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// releaseStock restores each item's quantity onto its inventory row. A row
// that no longer exists is skipped: the cancellation still completes, the
// missing restoration is only logged.
func (s *Service) releaseStock(tx *gorm.DB, order *salesEntity.Order) error {
	for _, item := range order.Items {
		ok, err := s.inventory.RestoreStock(tx, item.InventoryID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			log.Printf("order %d cancel: inventory %d gone, skipping restore of %d unit(s)",
				order.OrderID, item.InventoryID, item.Quantity)
		}
	}
	return nil
}

// reReserveStock re-locks the referenced inventory rows and re-validates the
// original quantities before decrementing again. Any failure rejects the
// whole transition; there is no partial reversal.
func (s *Service) reReserveStock(tx *gorm.DB, order *salesEntity.Order, newStatus string) error {
	ids := make([]uint, 0, len(order.Items))
	need := make(map[uint]int, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.InventoryID)
		need[item.InventoryID] += item.Quantity
	}

	locked, err := s.inventory.LockByIDs(tx, ids)
	if err != nil {
		return err
	}
	have := make(map[uint]int, len(locked))
	for _, rec := range locked {
		have[rec.InventoryID] = rec.StockQuantity
	}

	var shortfalls []Shortfall
	for id, qty := range need {
		avail, exists := have[id]
		if !exists || avail < qty {
			shortfalls = append(shortfalls, Shortfall{InventoryID: id, Requested: qty, Available: avail})
		}
	}
	if len(shortfalls) > 0 {
		return &InvalidTransitionError{From: order.Status, To: newStatus, Shortfalls: shortfalls}
	}

	for id, qty := range need {
		ok, err := s.inventory.DeductStock(tx, id, qty)
		if err != nil {
			return err
		}
		if !ok {
			return &InvalidTransitionError{From: order.Status, To: newStatus, Shortfalls: []Shortfall{
				{InventoryID: id, Requested: qty, Available: have[id]},
			}}
		}
	}
	return nil
}
