/*
inventory.go - Quantity adjustment and name lookup

PURPOSE:
  The two primitives every stock mutation goes through. Both are pure:
  AdjustQuantity returns a new item, LookupByName never throws. The caller
  owns persistence.

INVARIANTS:
  - Qty never goes negative: deltas clamp at zero
  - Name lookup is case-insensitive exact match, first match wins
  - A missing item degrades to "not found", and quantity changes against
    unknown items silently skip (legacy flows rely on the silent skip)
*/
package ledger

import "strings"

// AdjustQuantity returns item with Qty = max(0, Qty+delta). No side
// effects; the caller persists the returned value.
func AdjustQuantity(item InventoryItem, delta int) InventoryItem {
	q := item.Qty + delta
	if q < 0 {
		q = 0
	}
	item.Qty = q
	return item
}

// LookupByName finds an item by case-insensitive exact name match.
// Returns the first match; ok is false when absent.
func LookupByName(items []InventoryItem, name string) (InventoryItem, bool) {
	for _, it := range items {
		if strings.EqualFold(it.Name, name) {
			return it, true
		}
	}
	return InventoryItem{}, false
}
