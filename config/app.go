package config

import (
	"os"
	"strconv"
	"sync"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	AppName  string
	Port     string
	Env      string
	Debug    bool
	Currency string
	MediaUrl string

	// Order pricing knobs. Tax is a flat rate applied to the subtotal,
	// shipping is a flat amount per order.
	TaxRate      float64
	ShippingFlat float64

	// Prices older than this many days are reported as stale.
	PriceStaleDays int

	// Bulk corrections flag stock deltas larger than this for review.
	StockDeltaWarn int
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		AppConfig = &Config{
			AppName:        os.Getenv("APP_NAME"),
			Port:           os.Getenv("PORT"),
			Env:            os.Getenv("APP_ENV"),
			Debug:          os.Getenv("DEBUG") == "true",
			Currency:       envOr("CURRENCY", "USD"),
			MediaUrl:       envOr("MEDIA_URL", "https://cdn.cardmarket.link/media/cards/"),
			TaxRate:        envFloat("TAX_RATE", 0),
			ShippingFlat:   envFloat("SHIPPING_FLAT", 0),
			PriceStaleDays: envInt("PRICE_STALE_DAYS", 7),
			StockDeltaWarn: envInt("STOCK_DELTA_WARN", 100),
		}
	})
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
