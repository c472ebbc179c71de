/*
Package importer is the spreadsheet import/export collaborator.

PURPOSE:
  Parses tabular CSV files into catalog- and sale-shaped records via a
  fixed header-name mapping, and writes the reverse exports. The mapping
  is a static table - the ledger engine never sees headers, only records
  that already conform to its data model.

HEADER MAPPING (case-insensitive, surrounding whitespace ignored):
  Inventory: "Item name"/"Name" -> Name, "Category" -> Category,
             "QTY"/"Quantity" -> Qty, "Cost"/"Unit cost" -> UnitCost,
             "Used Sell"/"Resale"/"Resale price" -> ResalePrice,
             "Notes" -> Notes
  Sales:     "Date" -> DateISO, "Item name"/"Item" -> ItemName,
             "QTY"/"Quantity" -> Qty, "Price" -> Price, "Fees" -> Fees,
             "Seller" -> SellerID, "Client" -> ClientID

CELL VALUES:
  Every numeric cell runs through the ledger's boundary coercion, so
  "$1,234.50" imports cleanly and garbage imports as zero. Inventory rows
  without a name are skipped; sale rows with qty <= 0 are skipped.

EXPORT:
  Money formats with two decimal places - display rounding happens here,
  never during accumulation.
*/
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
)

// =============================================================================
// HEADER MAPPING
// =============================================================================

var inventoryHeaders = map[string]string{
	"item name":    "name",
	"name":         "name",
	"category":     "category",
	"qty":          "qty",
	"quantity":     "qty",
	"cost":         "unit_cost",
	"unit cost":    "unit_cost",
	"used sell":    "resale_price",
	"resale":       "resale_price",
	"resale price": "resale_price",
	"notes":        "notes",
}

var saleHeaders = map[string]string{
	"date":      "date",
	"item name": "item_name",
	"item":      "item_name",
	"qty":       "qty",
	"quantity":  "qty",
	"price":     "price",
	"fees":      "fees",
	"seller":    "seller_id",
	"client":    "client_id",
}

// readRows parses a CSV stream into maps keyed by the canonical field
// names from the given header table. Unknown columns are ignored.
func readRows(r io.Reader, headers map[string]string) ([]map[string]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // spreadsheets export ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = headers[strings.ToLower(strings.TrimSpace(h))]
	}

	var rows []map[string]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(rows)+2, err)
		}
		row := make(map[string]string)
		for i, cell := range record {
			if i < len(cols) && cols[i] != "" {
				row[cols[i]] = strings.TrimSpace(cell)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// ReadInventoryCSV parses catalog rows. Rows without a name are skipped.
// Each record gets a fresh id; the caller persists.
func ReadInventoryCSV(r io.Reader) ([]ledger.InventoryItem, error) {
	rows, err := readRows(r, inventoryHeaders)
	if err != nil {
		return nil, err
	}

	var items []ledger.InventoryItem
	for _, row := range rows {
		name := row["name"]
		if name == "" {
			continue
		}
		items = append(items, ledger.InventoryItem{
			ID:          uuid.NewString(),
			Name:        name,
			Category:    row["category"],
			Qty:         clampNonNegative(ledger.ToInt(row["qty"])),
			UnitCost:    ledger.ToDecimal(row["unit_cost"]),
			ResalePrice: ledger.ToDecimal(row["resale_price"]),
			Notes:       row["notes"],
			CreatedAt:   time.Now().UTC(),
		})
	}
	return items, nil
}

// ReadSalesCSV parses historical sale rows. Rows with qty <= 0 are
// skipped. Imported rows carry no cost snapshot; profit resolves from the
// current catalog at read time, matching how legacy data behaved.
func ReadSalesCSV(r io.Reader) ([]ledger.Sale, error) {
	rows, err := readRows(r, saleHeaders)
	if err != nil {
		return nil, err
	}

	var sales []ledger.Sale
	for _, row := range rows {
		qty := ledger.ToInt(row["qty"])
		if qty <= 0 || row["item_name"] == "" {
			continue
		}
		sales = append(sales, ledger.Sale{
			ID:        uuid.NewString(),
			DateISO:   row["date"],
			ItemName:  row["item_name"],
			SellerID:  row["seller_id"],
			ClientID:  row["client_id"],
			Qty:       qty,
			Price:     ledger.ToDecimal(row["price"]),
			Fees:      ledger.ToDecimal(row["fees"]),
			CreatedAt: time.Now().UTC(),
		})
	}
	return sales, nil
}

func clampNonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// =============================================================================
// EXPORT
// =============================================================================

// WriteInventoryCSV writes the catalog with two-decimal money.
func WriteInventoryCSV(w io.Writer, items []ledger.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Item name", "Category", "QTY", "Cost", "Used Sell", "Notes"}); err != nil {
		return err
	}
	for _, it := range items {
		record := []string{
			it.Name,
			it.Category,
			fmt.Sprintf("%d", it.Qty),
			it.UnitCost.StringFixed(2),
			it.ResalePrice.StringFixed(2),
			it.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSalesCSV writes the sale history with per-line profit, resolving
// cost the same way the aggregator does.
func WriteSalesCSV(w io.Writer, sales []ledger.Sale, items []ledger.InventoryItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Item name", "QTY", "Price", "Fees", "Profit"}); err != nil {
		return err
	}
	for _, s := range sales {
		profit := ledger.LineProfit(s, ledger.ResolveUnitCost(s, items))
		record := []string{
			s.DateISO,
			s.ItemName,
			fmt.Sprintf("%d", s.Qty),
			s.Price.StringFixed(2),
			s.Fees.StringFixed(2),
			profit.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
