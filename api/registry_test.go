package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"cardmarket.GO/core/registry"
)

func TestRegisterGET_ApplyRoutes(t *testing.T) {
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryRoutes)
	defer registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)

	RegisterGET("/mock/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "ok",
			"mock":   true,
		})
	})

	e := echo.New()
	ApplyRoutes(e, nil)

	req := httptest.NewRequest(http.MethodGet, "/mock/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /mock/health status = %d, want 200", rec.Code)
	}
	var resp map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
}

func TestRegisterModule_ApplyModules(t *testing.T) {
	registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryAPI)
	defer registry.GlobalRegistry.Lock(registry.KeyRegistryAPI)

	called := false
	RegisterModule(func(g *echo.Group, db *gorm.DB) {
		called = true
		g.GET("/mock/module", func(c echo.Context) error {
			return c.String(http.StatusOK, "module")
		})
	})

	e := echo.New()
	ApplyModules(e.Group("/api"), nil)
	if !called {
		t.Fatal("module func not called by ApplyModules")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/mock/module", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestRegisterRoute_LockedPanics(t *testing.T) {
	registry.GlobalRegistry.Lock(registry.KeyRegistryRoutes)
	defer registry.GlobalRegistry.UnlockForTesting(registry.KeyRegistryRoutes)

	defer func() {
		if recover() == nil {
			t.Error("RegisterRoute on locked registry did not panic")
		}
	}()
	RegisterGET("/mock/late", func(c echo.Context) error { return nil })
}
