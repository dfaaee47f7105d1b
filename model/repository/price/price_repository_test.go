package price

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"cardmarket.GO/config"
	cardEntity "cardmarket.GO/model/entity/card"
	inventoryEntity "cardmarket.GO/model/entity/inventory"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	config.LoadAppConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb, err := db.DB()
	if err != nil {
		t.Fatalf("db instance: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&cardEntity.Card{}, &inventoryEntity.InventoryRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUnit(t *testing.T, db *gorm.DB, sku string, price float64, lastUpdate time.Time) uint {
	t.Helper()
	card := &cardEntity.Card{Game: "pokemon", SetCode: "base1", Number: sku, Name: "Card " + sku}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	rec := &inventoryEntity.InventoryRecord{
		CardID:          card.CardID,
		Quality:         inventoryEntity.QualityNearMint,
		SKU:             sku,
		StockQuantity:   1,
		Price:           price,
		PriceSource:     inventoryEntity.PriceSourceManual,
		LastPriceUpdate: lastUpdate,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return rec.InventoryID
}

func TestResolve_FreshPrice(t *testing.T) {
	db := testDB(t)
	repo, err := NewPriceRepository(db)
	if err != nil {
		t.Fatalf("NewPriceRepository: %v", err)
	}
	id := seedUnit(t, db, "PRC-001", 15.50, time.Now())

	info, err := repo.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if info.Price != 15.50 {
		t.Errorf("price = %.4f, want 15.50", info.Price)
	}
	if info.PriceSource != inventoryEntity.PriceSourceManual {
		t.Errorf("source = %q, want manual", info.PriceSource)
	}
	if info.Stale {
		t.Error("fresh price reported stale")
	}
}

func TestResolve_StalePrice(t *testing.T) {
	db := testDB(t)
	repo, err := NewPriceRepository(db)
	if err != nil {
		t.Fatalf("NewPriceRepository: %v", err)
	}
	days := repo.staleAfterDays()
	id := seedUnit(t, db, "PRC-002", 1.00, time.Now().AddDate(0, 0, -(days+3)))

	info, err := repo.Resolve(id)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !info.Stale {
		t.Errorf("price last updated %d days ago not reported stale", days+3)
	}
	if info.StaleAfterDays != days {
		t.Errorf("stale_after_days = %d, want %d", info.StaleAfterDays, days)
	}
}

func TestResolve_UnknownID(t *testing.T) {
	db := testDB(t)
	repo, err := NewPriceRepository(db)
	if err != nil {
		t.Fatalf("NewPriceRepository: %v", err)
	}

	if _, err := repo.Resolve(99999); err == nil {
		t.Fatal("want error for unknown inventory id")
	}
}
