/*
Package ledger is the core reconciliation engine for the Already Dead
operations console.

PURPOSE:
  Contains the pure rules that keep inventory quantities, sale records, and
  derived financial metrics consistent as records are created, edited, and
  deleted. Everything in this package is a synchronous function over
  already-materialized slices: no I/O, no goroutines, no shared state.

KEY CONCEPTS IN THIS FILE (types.go):
  - InventoryItem: a catalog entry with on-hand quantity and cost basis
  - Sale: a single sale line (the flat model treats the sale as the line)
  - InventoryDelta: a signed quantity change paired with a sale write
  - Seller/Client/Shipment: reference records that tag sales and shipments

DESIGN PRINCIPLES:
  1. Precision: money is decimal.Decimal, never float64
  2. Degradation: malformed input normalizes to zero, missing items no-op
  3. Purity: callers fetch records, call in, and persist what comes back

USAGE:
  items, _ := st.ListItems(ctx)
  res := ledger.RecordSale(input, items)
  err := st.CreateSaleWithDelta(ctx, res.Sale, res.Delta)

SEE ALSO:
  - numeric.go: boundary coercion of untyped values
  - inventory.go: quantity adjustment and name lookup
  - sale.go: sale recording and deletion with paired deltas
  - profit.go: the canonical profit formula and rollups
  - summary.go: low-stock flags and dashboard projections
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INVENTORY ITEM
// =============================================================================

// InventoryItem is a catalog entry. Qty is the count on hand and is never
// negative: any delta that would drive it below zero clamps to zero.
//
// Name doubles as the lookup key for legacy sale-to-item linkage
// (case-insensitive, first match, silent no-op when absent). The engine
// never hard-deletes items; deletion is a persistence concern.
type InventoryItem struct {
	ID          string
	Name        string
	Category    string
	Qty         int
	UnitCost    decimal.Decimal // acquisition cost per unit
	ResalePrice decimal.Decimal // expected resale price per unit
	Notes       string
	CreatedAt   time.Time
}

// =============================================================================
// SALE - One record per line
// =============================================================================

// Sale is a single sale line. Price is the line revenue as entered, already
// aggregate - it is NOT unit price times quantity unless the caller
// multiplied before writing.
//
// UnitCost is the cost snapshot taken from the catalog when the sale was
// recorded. Zero means "no snapshot" (imported or legacy rows), in which
// case profit falls back to a current-catalog lookup by name. Snapshotting
// keeps historical profit stable when the catalog cost is later edited.
type Sale struct {
	ID        string
	DateISO   string // calendar date, "2006-01-02"
	ItemID    string // empty for legacy rows linked by name only
	ItemName  string
	SellerID  string // optional grouping tag
	ClientID  string // optional reference tag
	Qty       int
	Price     decimal.Decimal // line revenue
	Fees      decimal.Decimal // deducted from profit
	UnitCost  decimal.Decimal // cost snapshot; zero = unknown
	CreatedAt time.Time
}

// MonthKey returns the "2006-01" prefix of the sale date, the bucket key
// for all monthly rollups. Empty when the date is malformed.
func (s Sale) MonthKey() string {
	if len(s.DateISO) < 7 {
		return ""
	}
	return s.DateISO[:7]
}

// =============================================================================
// SALE INPUT / RESULT - Recorder contract
// =============================================================================

// SaleInput is what the recorder needs to produce a Sale. Qty must already
// be validated as > 0 by the caller; the recorder does not re-check.
type SaleInput struct {
	DateISO  string
	ItemName string
	SellerID string
	ClientID string
	Qty      int
	Price    decimal.Decimal
	Fees     decimal.Decimal
}

// InventoryDelta is a signed quantity change paired with a sale write.
// The two form one logical transaction: stores apply both or neither.
//
// An empty ItemID with a non-empty ItemName means "resolve by name at apply
// time"; both empty (or Delta zero) means the inventory side is a no-op.
type InventoryDelta struct {
	ItemID   string
	ItemName string
	Delta    int
}

// IsNoop reports whether applying this delta changes nothing.
func (d InventoryDelta) IsNoop() bool {
	return d.Delta == 0 || (d.ItemID == "" && d.ItemName == "")
}

// SaleResult pairs a newly recorded sale with its stock deduction.
type SaleResult struct {
	Sale  Sale
	Delta InventoryDelta
}

// =============================================================================
// REFERENCE RECORDS - No ledger-affecting behavior
// =============================================================================

// Seller tags a sale for grouping in rollups. Nothing more.
type Seller struct {
	ID   string
	Name string
}

// Client is pure contact reference data.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
}

// Shipment is a tracking-number book entry, optionally linked to a client
// and a sale.
type Shipment struct {
	ID             string
	Carrier        string
	TrackingNumber string
	ClientID       string
	SaleID         string
	Status         string
	ShippedAt      string // "2006-01-02", empty until shipped
	Notes          string
}
