package models

import (
	gql "github.com/graph-gophers/graphql-go"
)

// --- Card ---

type Card struct {
	CardID    gql.ID             `json:"card_id" mapstructure:"card_id"`
	Game      string             `json:"game" mapstructure:"game"`
	SetCode   string             `json:"set_code" mapstructure:"set_code"`
	SetName   *string            `json:"set_name,omitempty" mapstructure:"set_name"`
	Number    string             `json:"number" mapstructure:"number"`
	Name      string             `json:"name" mapstructure:"name"`
	Rarity    *string            `json:"rarity,omitempty" mapstructure:"rarity"`
	ImagePath *string            `json:"image_path,omitempty" mapstructure:"image_path"`
	Inventory *[]*InventoryEntry `json:"inventory,omitempty" mapstructure:"-"`
}

// --- Inventory ---

type InventoryEntry struct {
	InventoryID     gql.ID  `json:"inventory_id" mapstructure:"inventory_id"`
	SKU             string  `json:"sku" mapstructure:"sku"`
	Quality         string  `json:"quality" mapstructure:"quality"`
	Foil            string  `json:"foil" mapstructure:"foil"`
	Language        string  `json:"language" mapstructure:"language"`
	StockQuantity   int32   `json:"stock_quantity" mapstructure:"stock_quantity"`
	Price           float64 `json:"price" mapstructure:"price"`
	PriceSource     string  `json:"price_source" mapstructure:"price_source"`
	LastPriceUpdate *string `json:"last_price_update,omitempty" mapstructure:"last_price_update"`
}

// --- Search ---

type CardSearchResult struct {
	Items      []*Card   `json:"items"`
	TotalCount int32     `json:"total_count"`
	PageInfo   *PageInfo `json:"page_info"`
}

type PageInfo struct {
	PageSize    int32 `json:"page_size"`
	CurrentPage int32 `json:"current_page"`
	TotalPages  int32 `json:"total_pages"`
}
