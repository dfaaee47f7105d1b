package sales

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOrderNotFound is returned when a lifecycle operation references an
	// unknown order id.
	ErrOrderNotFound = errors.New("order not found")
)

// ValidationError is raised at the service boundary before any transaction
// begins.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ItemNotFoundError reports referenced inventory ids that do not exist.
type ItemNotFoundError struct {
	InventoryIDs []uint
}

func (e *ItemNotFoundError) Error() string {
	parts := make([]string, len(e.InventoryIDs))
	for i, id := range e.InventoryIDs {
		parts[i] = fmt.Sprint(id)
	}
	return "inventory records not found: " + strings.Join(parts, ", ")
}

// Shortfall itemizes one line whose requested quantity exceeds stock.
type Shortfall struct {
	InventoryID uint   `json:"inventory_id"`
	CardName    string `json:"card_name,omitempty"`
	Requested   int    `json:"requested"`
	Available   int    `json:"available"`
}

// InsufficientStockError carries the full shortfall list. Placement is
// all-or-nothing: one shortfall fails the whole order.
type InsufficientStockError struct {
	Shortfalls []Shortfall
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Shortfalls))
}

// InvalidTransitionError reports a rejected lifecycle transition. Shortfalls
// is set when un-cancelling failed to re-reserve stock.
type InvalidTransitionError struct {
	From       string
	To         string
	Shortfalls []Shortfall
}

func (e *InvalidTransitionError) Error() string {
	if len(e.Shortfalls) > 0 {
		return fmt.Sprintf("cannot transition %s -> %s: %d item(s) no longer in stock", e.From, e.To, len(e.Shortfalls))
	}
	return fmt.Sprintf("cannot transition %s -> %s", e.From, e.To)
}
