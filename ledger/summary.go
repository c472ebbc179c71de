/*
summary.go - Low-stock flags and dashboard projections

PURPOSE:
  Derives the dashboard-level numbers from the catalog and the sale
  history: total cost basis, resale value, potential profit, and monthly
  profit buckets over a trailing window.

MONTHLY BUCKETS:
  Buckets are keyed by the "2006-01" prefix of the sale date. The window
  is a parameter (pages use 6 or 12 months), every month in the window is
  present even when empty, and the result ascends chronologically ending
  at the current month. Sales outside the window are dropped.
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the fixed boundary below which an item is flagged.
// Exclusive: qty 4 is low, qty 5 is not.
const LowStockThreshold = 5

// IsLowStock reports whether an item's on-hand count is below threshold.
func IsLowStock(item InventoryItem) bool {
	return item.Qty < LowStockThreshold
}

// LowStockItems filters the catalog down to flagged items.
func LowStockItems(items []InventoryItem) []InventoryItem {
	var out []InventoryItem
	for _, it := range items {
		if IsLowStock(it) {
			out = append(out, it)
		}
	}
	return out
}

// CostBasis is the total acquisition cost of on-hand inventory,
// sum of qty*unitCost.
func CostBasis(items []InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// ResaleValue is the sum of qty*resalePrice over the catalog.
func ResaleValue(items []InventoryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ResalePrice.Mul(decimal.NewFromInt(int64(it.Qty))))
	}
	return total
}

// PotentialProfit is resale value minus cost basis: the profit if every
// on-hand unit sold at its listed resale price.
func PotentialProfit(items []InventoryItem) decimal.Decimal {
	return ResaleValue(items).Sub(CostBasis(items))
}

// MonthBucket is one month of the trailing profit window.
type MonthBucket struct {
	Month  string // "2006-01"
	Profit decimal.Decimal
	Count  int
}

// MonthlyProfitBuckets buckets sales into a trailing monthsBack window
// ending at now's month. Missing months appear with zero profit; only
// months inside the window are returned, ascending.
func MonthlyProfitBuckets(sales []Sale, items []InventoryItem, monthsBack int, now time.Time) []MonthBucket {
	if monthsBack <= 0 {
		return nil
	}

	// Anchor at the first of the current month so AddDate arithmetic
	// cannot skip short months.
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]MonthBucket, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := 0; i < monthsBack; i++ {
		m := anchor.AddDate(0, i-(monthsBack-1), 0)
		key := m.Format("2006-01")
		buckets[i] = MonthBucket{Month: key, Profit: decimal.Zero}
		index[key] = i
	}

	for _, s := range sales {
		i, ok := index[s.MonthKey()]
		if !ok {
			continue
		}
		buckets[i].Profit = buckets[i].Profit.Add(LineProfit(s, ResolveUnitCost(s, items)))
		buckets[i].Count++
	}
	return buckets
}
