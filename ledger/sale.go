/*
sale.go - Sale recording and deletion with paired inventory deltas

PURPOSE:
  Creating a sale and deducting stock are one logical transaction; so are
  deleting a sale and restoring stock. The recorder computes both halves
  and hands them to the caller as a pair - the store applies both or
  neither.

CONTRACTS:
  RecordSale assumes Qty > 0; the API layer validates before calling.
  DeleteSale restores using the sale's own stored Qty, never a recomputed
  value, so restoration is exact even if the catalog moved underneath.

COST SNAPSHOT:
  RecordSale copies the matched item's UnitCost onto the sale. Historical
  profit therefore survives later catalog edits. Rows without a snapshot
  (imports, legacy data) resolve cost from the current catalog at read
  time - see profit.go.

EDGE CASES:
  - Unknown item name: the sale is still recorded (UnitCost zero) and the
    delta is a no-op. Same asymmetry on delete: restoring stock for an
    item that no longer exists silently skips, the deletion succeeds.
*/
package ledger

import (
	"time"

	"github.com/google/uuid"
)

// RecordSale produces a new Sale with a generated id and the paired
// instruction to deduct input.Qty units from the matching item.
func RecordSale(input SaleInput, items []InventoryItem) SaleResult {
	sale := Sale{
		ID:        uuid.NewString(),
		DateISO:   input.DateISO,
		ItemName:  input.ItemName,
		SellerID:  input.SellerID,
		ClientID:  input.ClientID,
		Qty:       input.Qty,
		Price:     input.Price,
		Fees:      input.Fees,
		CreatedAt: time.Now().UTC(),
	}
	if sale.DateISO == "" {
		sale.DateISO = sale.CreatedAt.Format("2006-01-02")
	}

	delta := InventoryDelta{ItemName: input.ItemName, Delta: -input.Qty}
	if item, ok := LookupByName(items, input.ItemName); ok {
		sale.ItemID = item.ID
		sale.UnitCost = item.UnitCost
		delta.ItemID = item.ID
	}

	return SaleResult{Sale: sale, Delta: delta}
}

// DeleteSale returns the exact inverse of the deduction applied when the
// sale was recorded: +Qty against the same item reference.
func DeleteSale(sale Sale) InventoryDelta {
	return InventoryDelta{
		ItemID:   sale.ItemID,
		ItemName: sale.ItemName,
		Delta:    sale.Qty,
	}
}
