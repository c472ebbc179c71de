/*
profit.go - The canonical profit formula and its rollups

PURPOSE:
  One formula, many groupings. Line profit is

      price - fees - unitCost * qty

  and every rollup (per-sale, per-seller, per-month, all-time) is a sum of
  that value over a filtered set of sales. Keeping a single formula is what
  makes the rollups commute: per-seller totals summed across all sellers
  (plus unassigned) equal the all-time total over the same sale set.

NUMERIC SEMANTICS:
  All accumulation happens in decimal. Rounding is a display concern only
  (two places in DTOs and CSV); rounding during accumulation would compound
  error across many summed lines.

ORDERING:
  Per-seller breakdowns sort descending by total profit. Month buckets sort
  chronologically ascending. Nothing else is ordered.
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LineProfit computes price - fees - unitCost*qty for a single sale line.
// Every other profit number in the system is a sum of this.
func LineProfit(sale Sale, unitCost decimal.Decimal) decimal.Decimal {
	cost := unitCost.Mul(decimal.NewFromInt(int64(sale.Qty)))
	return sale.Price.Sub(sale.Fees).Sub(cost)
}

// ResolveUnitCost returns the cost basis for a sale: the snapshot taken at
// recording time when present, otherwise a current-catalog lookup by name.
// Unknown items cost zero.
func ResolveUnitCost(sale Sale, items []InventoryItem) decimal.Decimal {
	if !sale.UnitCost.IsZero() {
		return sale.UnitCost
	}
	if item, ok := LookupByName(items, sale.ItemName); ok {
		return item.UnitCost
	}
	return decimal.Zero
}

// Totals accumulates one group of sales.
type Totals struct {
	Count      int
	Profit     decimal.Decimal
	Revenue    decimal.Decimal
	Fees       decimal.Decimal
	Cost       decimal.Decimal
	ItemsTotal int // sum of quantities, for avg-items-per-sale
}

func zeroTotals() Totals {
	return Totals{
		Profit:  decimal.Zero,
		Revenue: decimal.Zero,
		Fees:    decimal.Zero,
		Cost:    decimal.Zero,
	}
}

func (t Totals) add(sale Sale, unitCost decimal.Decimal) Totals {
	t.Count++
	t.ItemsTotal += sale.Qty
	t.Revenue = t.Revenue.Add(sale.Price)
	t.Fees = t.Fees.Add(sale.Fees)
	t.Cost = t.Cost.Add(unitCost.Mul(decimal.NewFromInt(int64(sale.Qty))))
	t.Profit = t.Profit.Add(LineProfit(sale, unitCost))
	return t
}

// Aggregate groups sales by an arbitrary key (seller id, month, "all") and
// sums each group's revenue, fees, cost, profit, and item count. Cost is
// resolved per sale via ResolveUnitCost against the given catalog.
func Aggregate(sales []Sale, items []InventoryItem, keyFn func(Sale) string) map[string]Totals {
	out := make(map[string]Totals)
	for _, s := range sales {
		k := keyFn(s)
		t, ok := out[k]
		if !ok {
			t = zeroTotals()
		}
		out[k] = t.add(s, ResolveUnitCost(s, items))
	}
	return out
}

// AllTimeTotals is Aggregate with a single "all" bucket.
func AllTimeTotals(sales []Sale, items []InventoryItem) Totals {
	t := zeroTotals()
	for _, s := range sales {
		t = t.add(s, ResolveUnitCost(s, items))
	}
	return t
}

// Average returns total/count, or zero when count is zero. Never divides
// by zero, never returns a non-finite value.
func Average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count)))
}

// SellerTotals is one row of the per-seller breakdown. SellerID is empty
// for sales with no seller tag ("unassigned").
type SellerTotals struct {
	SellerID string
	Totals
}

// SellerBreakdown aggregates by seller id and sorts descending by profit.
// Ties break by seller id so the order is stable.
func SellerBreakdown(sales []Sale, items []InventoryItem) []SellerTotals {
	groups := Aggregate(sales, items, func(s Sale) string { return s.SellerID })

	out := make([]SellerTotals, 0, len(groups))
	for id, t := range groups {
		out = append(out, SellerTotals{SellerID: id, Totals: t})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Profit.Equal(out[j].Profit) {
			return out[i].Profit.GreaterThan(out[j].Profit)
		}
		return out[i].SellerID < out[j].SellerID
	})
	return out
}
