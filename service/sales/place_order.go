package sales

import (
	"context"
	"encoding/json"
	"log"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cardmarket.GO/config"
	"cardmarket.GO/core/txn"
	salesEntity "cardmarket.GO/model/entity/sales"
	inventoryRepo "cardmarket.GO/model/repository/inventory"
	priceRepo "cardmarket.GO/model/repository/price"
	salesRepo "cardmarket.GO/model/repository/sales"
)

const (
	maxOrderLines   = 100
	maxLineQuantity = 50
)

// Customer is the sanitized customer payload handed in by the outer
// validation layer. It is stored verbatim as the order's snapshot.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Zip     string `json:"zip"`
}

// LineItem references a sellable unit and a requested quantity.
type LineItem struct {
	InventoryID uint `json:"inventory_id"`
	Quantity    int  `json:"quantity"`
}

// PlaceOrderInput is the checkout request. DeclaredTotal is the total the
// client displayed; it is never charged, only compared for tamper logging.
type PlaceOrderInput struct {
	Customer      Customer   `json:"customer"`
	Items         []LineItem `json:"items"`
	DeclaredTotal float64    `json:"declared_total"`
	Currency      string     `json:"currency"`
}

// PlaceOrderResult is the successful outcome.
type PlaceOrderResult struct {
	OrderID uint    `json:"order_id"`
	Total   float64 `json:"total"`
}

// Service coordinates order placement and lifecycle transitions.
type Service struct {
	runner    txn.Runner
	inventory *inventoryRepo.InventoryRepository
	orders    *salesRepo.OrderRepository
	prices    *priceRepo.PriceRepository
	notifier  Dispatcher
}

func NewService(db *gorm.DB, notifier Dispatcher) (*Service, error) {
	inv, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	prices, err := priceRepo.NewPriceRepository(db)
	if err != nil {
		return nil, err
	}
	if notifier == nil {
		notifier = NewDispatcher()
	}
	return &Service{
		runner:    txn.NewRunner(db),
		inventory: inv,
		orders:    salesRepo.NewOrderRepository(db),
		prices:    prices,
		notifier:  notifier,
	}, nil
}

// PlaceOrder runs the checkout transaction: lock the referenced inventory
// rows in ascending id order, validate every line against stock, resolve
// unit prices from the locked rows, persist the order and decrement stock.
// All-or-nothing: any shortfall rolls the whole transaction back.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	lines, err := validateLines(in.Items)
	if err != nil {
		return nil, err
	}

	currency := in.Currency
	if currency == "" {
		currency = config.AppConfig.Currency
	}

	ids := make([]uint, 0, len(lines))
	for id := range lines {
		ids = append(ids, id)
	}

	var order *salesEntity.Order

	err = s.runner.InTx(ctx, func(tx *gorm.DB) error {
		locked, err := s.inventory.LockByIDs(tx, ids)
		if err != nil {
			return err
		}

		byID := make(map[uint]int, len(locked))
		for i := range locked {
			byID[locked[i].InventoryID] = i
		}

		var missing []uint
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing = append(missing, id)
			}
		}
		if len(missing) > 0 {
			return &ItemNotFoundError{InventoryIDs: missing}
		}

		// Collect every shortfall before failing so the caller sees the
		// complete list, not just the first hit.
		var shortfalls []Shortfall
		for _, rec := range locked {
			want := lines[rec.InventoryID]
			if rec.StockQuantity < want {
				shortfalls = append(shortfalls, Shortfall{
					InventoryID: rec.InventoryID,
					Requested:   want,
					Available:   rec.StockQuantity,
				})
			}
		}
		if len(shortfalls) > 0 {
			return &InsufficientStockError{Shortfalls: shortfalls}
		}

		items := make([]salesEntity.OrderItem, 0, len(locked))
		subtotal := 0.0
		for _, rec := range locked {
			qty := lines[rec.InventoryID]
			// Price comes from the locked row, never from the request.
			items = append(items, salesEntity.OrderItem{
				InventoryID: rec.InventoryID,
				CardName:    cardNameFor(tx, rec.CardID),
				Quality:     rec.Quality,
				UnitPrice:   rec.Price,
				Quantity:    qty,
				TotalPrice:  round4(rec.Price * float64(qty)),
			})
			subtotal += rec.Price * float64(qty)
		}

		subtotal = round4(subtotal)
		tax := round4(subtotal * config.AppConfig.TaxRate)
		shipping := config.AppConfig.ShippingFlat

		snapshot, err := json.Marshal(in.Customer)
		if err != nil {
			return err
		}

		order = &salesEntity.Order{
			CustomerEmail: in.Customer.Email,
			Customer:      snapshot,
			Subtotal:      subtotal,
			Tax:           tax,
			Shipping:      shipping,
			Total:         round4(subtotal + tax + shipping),
			Currency:      currency,
			Status:        salesEntity.StatusPending,
		}
		if err := s.orders.CreateWithItems(tx, order, items); err != nil {
			return err
		}

		for _, rec := range locked {
			ok, err := s.inventory.DeductStock(tx, rec.InventoryID, lines[rec.InventoryID])
			if err != nil {
				return err
			}
			if !ok {
				return &InsufficientStockError{Shortfalls: []Shortfall{{
					InventoryID: rec.InventoryID,
					Requested:   lines[rec.InventoryID],
					Available:   rec.StockQuantity,
				}}}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if in.DeclaredTotal > 0 && math.Abs(in.DeclaredTotal-order.Total) > 0.005 {
		log.Printf("order %d: client declared total %.4f, charged %.4f (correlation %s)",
			order.OrderID, in.DeclaredTotal, order.Total, uuid.NewString())
	}

	// Best-effort, after commit only. A failed notification never unwinds a
	// placed order.
	go s.notifier.OrderPlaced(order)

	return &PlaceOrderResult{OrderID: order.OrderID, Total: order.Total}, nil
}

// validateLines enforces the request shape and merges duplicate inventory
// references into one line so each row is locked exactly once.
func validateLines(items []LineItem) (map[uint]int, error) {
	if len(items) == 0 {
		return nil, &ValidationError{Msg: "order has no items"}
	}
	if len(items) > maxOrderLines {
		return nil, &ValidationError{Msg: "order exceeds 100 line items"}
	}
	lines := make(map[uint]int, len(items))
	for _, it := range items {
		if it.InventoryID == 0 {
			return nil, &ValidationError{Msg: "inventory_id is required"}
		}
		if it.Quantity < 1 || it.Quantity > maxLineQuantity {
			return nil, &ValidationError{Msg: "quantity must be between 1 and 50"}
		}
		lines[it.InventoryID] += it.Quantity
	}
	return lines, nil
}

// cardNameFor resolves the display name snapshotted onto the line item.
func cardNameFor(tx *gorm.DB, cardID uint) string {
	var name string
	tx.Table("card").Where("card_id = ?", cardID).Pluck("name", &name)
	return name
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
