package inventory

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"cardmarket.GO/config"
	inventoryEntity "cardmarket.GO/model/entity/inventory"
	inventoryRepo "cardmarket.GO/model/repository/inventory"
	priceRepo "cardmarket.GO/model/repository/price"
)

// CorrectionRow is one stock/price correction keyed by SKU. Nil fields are
// left untouched.
type CorrectionRow struct {
	SKU           string   `json:"sku"`
	StockQuantity *int     `json:"stock_quantity,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// ReconcileResult holds counters from a correction batch.
type ReconcileResult struct {
	TotalRows int           `json:"total_rows"`
	Succeeded int           `json:"succeeded"`
	Warnings  []string      `json:"warnings"`
	Errors    []string      `json:"errors"`
	TotalTime time.Duration `json:"-"`
}

// Processor applies batched stock/price corrections. Each row is processed
// independently: a failed row lands in Errors and the batch continues. The
// opposite policy from order placement, on purpose.
type Processor struct {
	inventory *inventoryRepo.InventoryRepository
	prices    *priceRepo.PriceRepository
	deltaWarn int
}

func NewProcessor(db *gorm.DB) (*Processor, error) {
	inv, err := inventoryRepo.NewInventoryRepository(db)
	if err != nil {
		return nil, err
	}
	prices, err := priceRepo.NewPriceRepository(db)
	if err != nil {
		return nil, err
	}
	deltaWarn := 100
	if config.AppConfig != nil && config.AppConfig.StockDeltaWarn > 0 {
		deltaWarn = config.AppConfig.StockDeltaWarn
	}
	return &Processor{inventory: inv, prices: prices, deltaWarn: deltaWarn}, nil
}

// ApplyCorrections processes the batch. Every row is one atomic UPDATE; no
// cross-row invariant is enforced within a batch.
func (p *Processor) ApplyCorrections(rows []CorrectionRow) (*ReconcileResult, error) {
	start := time.Now()
	result := &ReconcileResult{TotalRows: len(rows)}

	skus := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.SKU != "" {
			skus = append(skus, row.SKU)
		}
	}
	existing, err := p.inventory.BatchGetBySKUs(skus)
	if err != nil {
		return nil, fmt.Errorf("lookup SKUs: %w", err)
	}

	var priceChanged []string
	for i, row := range rows {
		if err := p.applyRow(row, existing, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d (%s): %v", i+1, row.SKU, err))
			continue
		}
		result.Succeeded++
		if row.Price != nil {
			priceChanged = append(priceChanged, row.SKU)
		}
	}

	p.prices.InvalidateBySKUs(priceChanged)

	result.TotalTime = time.Since(start)
	return result, nil
}

func (p *Processor) applyRow(row CorrectionRow, existing map[string]inventoryEntity.InventoryRecord, result *ReconcileResult) error {
	if row.SKU == "" {
		return fmt.Errorf("missing sku")
	}
	if row.StockQuantity == nil && row.Price == nil {
		return fmt.Errorf("no correction fields")
	}

	current, ok := existing[row.SKU]
	if !ok {
		return fmt.Errorf("sku not found")
	}

	fields := make(map[string]interface{}, 4)

	if row.StockQuantity != nil {
		if *row.StockQuantity < 0 {
			return fmt.Errorf("negative stock_quantity %d", *row.StockQuantity)
		}
		delta := *row.StockQuantity - current.StockQuantity
		if delta > p.deltaWarn || delta < -p.deltaWarn {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("sku %s: stock delta %+d exceeds %d, flagged for review", row.SKU, delta, p.deltaWarn))
		}
		fields["stock_quantity"] = *row.StockQuantity
	}

	if row.Price != nil {
		if *row.Price < 0 {
			return fmt.Errorf("negative price %.4f", *row.Price)
		}
		source := row.Source
		if source == "" {
			source = inventoryEntity.PriceSourceManual
		}
		fields["price"] = *row.Price
		fields["price_source"] = source
		fields["last_price_update"] = time.Now()
	}

	ok, err := p.inventory.UpdateBySKU(row.SKU, fields)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("sku not found")
	}
	return nil
}
