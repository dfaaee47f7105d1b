package sales

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"cardmarket.GO/config"
	cardEntity "cardmarket.GO/model/entity/card"
	inventoryEntity "cardmarket.GO/model/entity/inventory"
	salesEntity "cardmarket.GO/model/entity/sales"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.LoadAppConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// :memory: gives each connection its own database; pin the pool to one.
	sqldb, err := db.DB()
	if err != nil {
		t.Fatalf("db instance: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&cardEntity.Card{},
		&inventoryEntity.InventoryRecord{},
		&salesEntity.Order{},
		&salesEntity.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUnit(t *testing.T, db *gorm.DB, sku string, stock int, price float64) uint {
	t.Helper()
	card := &cardEntity.Card{
		Game:    "pokemon",
		SetCode: "base1",
		Number:  sku,
		Name:    "Card " + sku,
	}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	rec := &inventoryEntity.InventoryRecord{
		CardID:          card.CardID,
		Quality:         inventoryEntity.QualityNearMint,
		SKU:             sku,
		StockQuantity:   stock,
		Price:           price,
		PriceSource:     inventoryEntity.PriceSourceManual,
		LastPriceUpdate: time.Now(),
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return rec.InventoryID
}

func newTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	svc, err := NewService(db, &logDispatcher{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var rec inventoryEntity.InventoryRecord
	if err := db.First(&rec, "inventory_id = ?", id).Error; err != nil {
		t.Fatalf("read inventory %d: %v", id, err)
	}
	return rec.StockQuantity
}

func testCustomer() Customer {
	return Customer{Name: "Ash K", Email: "ash@example.com", Address: "1 Pallet Town", City: "Pallet", Country: "JP", Zip: "00001"}
}

func TestPlaceOrder_Success(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id1 := seedUnit(t, db, "PKM-001", 10, 4.50)
	id2 := seedUnit(t, db, "PKM-002", 3, 12.00)

	res, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: testCustomer(),
		Items: []LineItem{
			{InventoryID: id1, Quantity: 2},
			{InventoryID: id2, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if res.OrderID == 0 {
		t.Fatal("OrderID not set")
	}

	if got := stockOf(t, db, id1); got != 8 {
		t.Errorf("stock %d = %d, want 8", id1, got)
	}
	if got := stockOf(t, db, id2); got != 2 {
		t.Errorf("stock %d = %d, want 2", id2, got)
	}

	order, err := svc.GetOrder(res.OrderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Status != salesEntity.StatusPending {
		t.Errorf("status = %q, want pending", order.Status)
	}
	if len(order.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(order.Items))
	}
	wantSubtotal := 2*4.50 + 12.00
	if order.Subtotal != wantSubtotal {
		t.Errorf("subtotal = %.4f, want %.4f", order.Subtotal, wantSubtotal)
	}
	if order.Total != order.Subtotal+order.Tax+order.Shipping {
		t.Errorf("total %.4f != subtotal %.4f + tax %.4f + shipping %.4f",
			order.Total, order.Subtotal, order.Tax, order.Shipping)
	}
}

func TestPlaceOrder_SnapshotsPriceFromInventory(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id := seedUnit(t, db, "PKM-010", 5, 99.99)

	// Declared total is a client hint; charged price must come from the row.
	res, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer:      testCustomer(),
		Items:         []LineItem{{InventoryID: id, Quantity: 1}},
		DeclaredTotal: 0.01,
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}

	order, err := svc.GetOrder(res.OrderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if order.Items[0].UnitPrice != 99.99 {
		t.Errorf("unit price = %.4f, want 99.99", order.Items[0].UnitPrice)
	}
	if order.Items[0].CardName == "" {
		t.Error("card name not snapshotted")
	}
}

func TestPlaceOrder_MergesDuplicateLines(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id := seedUnit(t, db, "PKM-020", 10, 1.00)

	res, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: testCustomer(),
		Items: []LineItem{
			{InventoryID: id, Quantity: 2},
			{InventoryID: id, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	order, err := svc.GetOrder(res.OrderID)
	if err != nil {
		t.Fatalf("GetOrder: %v", err)
	}
	if len(order.Items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(order.Items))
	}
	if order.Items[0].Quantity != 5 {
		t.Errorf("quantity = %d, want 5", order.Items[0].Quantity)
	}
	if got := stockOf(t, db, id); got != 5 {
		t.Errorf("stock = %d, want 5", got)
	}
}

func TestPlaceOrder_ExactStock(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id := seedUnit(t, db, "PKM-030", 4, 2.00)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: testCustomer(),
		Items:    []LineItem{{InventoryID: id, Quantity: 4}},
	})
	if err != nil {
		t.Fatalf("PlaceOrder: %v", err)
	}
	if got := stockOf(t, db, id); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestPlaceOrder_InsufficientStock_AllOrNothing(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id1 := seedUnit(t, db, "PKM-040", 10, 1.00)
	id2 := seedUnit(t, db, "PKM-041", 1, 1.00)
	id3 := seedUnit(t, db, "PKM-042", 0, 1.00)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: testCustomer(),
		Items: []LineItem{
			{InventoryID: id1, Quantity: 5},
			{InventoryID: id2, Quantity: 2},
			{InventoryID: id3, Quantity: 1},
		},
	})
	var insufficientErr *InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	// Every failing line reported, not just the first.
	if len(insufficientErr.Shortfalls) != 2 {
		t.Fatalf("shortfalls = %d, want 2", len(insufficientErr.Shortfalls))
	}

	// No partial deduction, no order row.
	if got := stockOf(t, db, id1); got != 10 {
		t.Errorf("stock %d = %d, want 10 after rollback", id1, got)
	}
	var count int64
	db.Model(&salesEntity.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("orders = %d, want 0", count)
	}
}

func TestPlaceOrder_UnknownInventory(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id := seedUnit(t, db, "PKM-050", 5, 1.00)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
		Customer: testCustomer(),
		Items: []LineItem{
			{InventoryID: id, Quantity: 1},
			{InventoryID: 99999, Quantity: 1},
		},
	})
	var notFound *ItemNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want ItemNotFoundError", err)
	}
	if len(notFound.InventoryIDs) != 1 || notFound.InventoryIDs[0] != 99999 {
		t.Errorf("missing ids = %v, want [99999]", notFound.InventoryIDs)
	}
	if got := stockOf(t, db, id); got != 5 {
		t.Errorf("stock = %d, want 5 untouched", got)
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)

	cases := []struct {
		name  string
		items []LineItem
	}{
		{"empty", nil},
		{"zero quantity", []LineItem{{InventoryID: 1, Quantity: 0}}},
		{"quantity over max", []LineItem{{InventoryID: 1, Quantity: 51}}},
		{"missing inventory id", []LineItem{{InventoryID: 0, Quantity: 1}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: testCustomer(), Items: tc.items})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}

	tooMany := make([]LineItem, 101)
	for i := range tooMany {
		tooMany[i] = LineItem{InventoryID: uint(i + 1), Quantity: 1}
	}
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{Customer: testCustomer(), Items: tooMany})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError for >100 lines", err)
	}
}

// Two buyers race for the last copy: exactly one order may win.
func TestPlaceOrder_CompetingForLastCopy(t *testing.T) {
	db := testDB(t)
	svc := newTestService(t, db)
	id := seedUnit(t, db, "PKM-060", 1, 25.00)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), PlaceOrderInput{
				Customer: testCustomer(),
				Items:    []LineItem{{InventoryID: id, Quantity: 1}},
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		var insufficientErr *InsufficientStockError
		if !errors.As(err, &insufficientErr) {
			t.Fatalf("loser err = %v, want InsufficientStockError", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want exactly 1", wins)
	}
	if got := stockOf(t, db, id); got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
	var count int64
	db.Model(&salesEntity.Order{}).Count(&count)
	if count != 1 {
		t.Errorf("orders = %d, want 1", count)
	}
}
