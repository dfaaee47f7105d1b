package inventory

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cardmarket.GO/config"
	cardEntity "cardmarket.GO/model/entity/card"
	inventoryEntity "cardmarket.GO/model/entity/inventory"
)

func inventoryTestDB(t *testing.T) *gorm.DB {
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

func inventoryTestServer(t *testing.T, db *gorm.DB) *echo.Echo {
	t.Helper()
	e := echo.New()
	apiGroup := e.Group("/api")
	RegisterInventoryRoutes(apiGroup, db)
	return e
}

func seedRecord(t *testing.T, db *gorm.DB, sku string, stock int) {
	t.Helper()
	card := &cardEntity.Card{Game: "pokemon", SetCode: "base1", Number: sku, Name: "Card " + sku}
	if err := db.Create(card).Error; err != nil {
		t.Fatalf("seed card: %v", err)
	}
	rec := &inventoryEntity.InventoryRecord{
		CardID:        card.CardID,
		Quality:       inventoryEntity.QualityNearMint,
		SKU:           sku,
		StockQuantity: stock,
		Price:         1.00,
	}
	if err := db.Create(rec).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
}

func TestCorrectionsAPI(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)
	seedRecord(t, db, "COR-001", 5)

	body := map[string]interface{}{
		"rows": []map[string]interface{}{
			{"sku": "COR-001", "stock_quantity": 12},
			{"sku": "COR-MISSING", "stock_quantity": 1},
		},
	}
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/corrections", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Request-Duration-ms") == "" {
		t.Error("missing X-Request-Duration-ms header")
	}
	var resp struct {
		Succeeded int      `json:"succeeded"`
		Errors    []string `json:"errors"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Succeeded != 1 {
		t.Errorf("succeeded = %d, want 1", resp.Succeeded)
	}
	if len(resp.Errors) != 1 {
		t.Errorf("errors = %v, want 1", resp.Errors)
	}

	var after inventoryEntity.InventoryRecord
	if err := db.First(&after, "sku = ?", "COR-001").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.StockQuantity != 12 {
		t.Errorf("stock = %d, want 12", after.StockQuantity)
	}
}

func TestCorrectionsAPI_EmptyRows(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/corrections", bytes.NewReader([]byte(`{"rows":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestImportAPI_CSVUpload(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)
	seedRecord(t, db, "CSV-API-1", 5)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "corrections.csv")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	fw.Write([]byte("sku,stock_quantity\nCSV-API-1,9\n"))
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/import", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rec.Code, rec.Body.String())
	}
	var after inventoryEntity.InventoryRecord
	if err := db.First(&after, "sku = ?", "CSV-API-1").Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if after.StockQuantity != 9 {
		t.Errorf("stock = %d, want 9", after.StockQuantity)
	}
}

func TestImportAPI_MissingFile(t *testing.T) {
	db := inventoryTestDB(t)
	e := inventoryTestServer(t, db)

	req := httptest.NewRequest(http.MethodPost, "/api/inventory/import", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
