/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain records
  from the external contract. Money renders as strings with two decimal
  places - display rounding happens here and in CSV export only, never
  while accumulating.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients

UNTYPED NUMERIC FIELDS:
  Quantity and money fields on requests are `any` on purpose: form and
  spreadsheet frontends send them as numbers or strings interchangeably,
  and every one of them runs through the ledger's boundary coercion in
  the handler. Structural validation (required fields, date and email
  formats) uses validator tags; the qty > 0 gate is checked after
  coercion.

SEE ALSO:
  - handlers.go: coercion, validation, and endpoint wiring
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
)

// =============================================================================
// COMMON
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func moneyStr(d decimal.Decimal) string { return d.StringFixed(2) }

// =============================================================================
// INVENTORY
// =============================================================================

type ItemDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Qty         int    `json:"qty"`
	UnitCost    string `json:"unit_cost"`
	ResalePrice string `json:"resale_price"`
	Notes       string `json:"notes,omitempty"`
	LowStock    bool   `json:"low_stock"`
	CreatedAt   string `json:"created_at,omitempty"`
}

func toItemDTO(it ledger.InventoryItem) ItemDTO {
	dto := ItemDTO{
		ID:          it.ID,
		Name:        it.Name,
		Category:    it.Category,
		Qty:         it.Qty,
		UnitCost:    moneyStr(it.UnitCost),
		ResalePrice: moneyStr(it.ResalePrice),
		Notes:       it.Notes,
		LowStock:    ledger.IsLowStock(it),
	}
	if !it.CreatedAt.IsZero() {
		dto.CreatedAt = it.CreatedAt.Format("2006-01-02")
	}
	return dto
}

func toItemDTOs(items []ledger.InventoryItem) []ItemDTO {
	dtos := make([]ItemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	return dtos
}

type ItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Category    string `json:"category"`
	Qty         any    `json:"qty"`
	UnitCost    any    `json:"unit_cost"`
	ResalePrice any    `json:"resale_price"`
	Notes       string `json:"notes"`
}

type AdjustQuantityRequest struct {
	Delta any `json:"delta"`
}

type SummaryDTO struct {
	ItemCount       int       `json:"item_count"`
	UnitCount       int       `json:"unit_count"`
	CostBasis       string    `json:"cost_basis"`
	ResaleValue     string    `json:"resale_value"`
	PotentialProfit string    `json:"potential_profit"`
	LowStock        []ItemDTO `json:"low_stock"`
}

// =============================================================================
// SALES
// =============================================================================

type SaleDTO struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	ItemID   string `json:"item_id,omitempty"`
	ItemName string `json:"item_name"`
	SellerID string `json:"seller_id,omitempty"`
	ClientID string `json:"client_id,omitempty"`
	Qty      int    `json:"qty"`
	Price    string `json:"price"`
	Fees     string `json:"fees"`
	Profit   string `json:"profit"`
}

func toSaleDTO(s ledger.Sale, items []ledger.InventoryItem) SaleDTO {
	profit := ledger.LineProfit(s, ledger.ResolveUnitCost(s, items))
	return SaleDTO{
		ID:       s.ID,
		Date:     s.DateISO,
		ItemID:   s.ItemID,
		ItemName: s.ItemName,
		SellerID: s.SellerID,
		ClientID: s.ClientID,
		Qty:      s.Qty,
		Price:    moneyStr(s.Price),
		Fees:     moneyStr(s.Fees),
		Profit:   moneyStr(profit),
	}
}

func toSaleDTOs(sales []ledger.Sale, items []ledger.InventoryItem) []SaleDTO {
	dtos := make([]SaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toSaleDTO(s, items)
	}
	return dtos
}

type SaleRequest struct {
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	ItemName string `json:"item_name" validate:"required"`
	SellerID string `json:"seller_id"`
	ClientID string `json:"client_id"`
	Qty      any    `json:"qty"`
	Price    any    `json:"price"`
	Fees     any    `json:"fees"`
}

type TotalsDTO struct {
	Count      int    `json:"count"`
	Revenue    string `json:"revenue"`
	Fees       string `json:"fees"`
	Cost       string `json:"cost"`
	Profit     string `json:"profit"`
	ItemsTotal int    `json:"items_total"`
}

func toTotalsDTO(t ledger.Totals) TotalsDTO {
	return TotalsDTO{
		Count:      t.Count,
		Revenue:    moneyStr(t.Revenue),
		Fees:       moneyStr(t.Fees),
		Cost:       moneyStr(t.Cost),
		Profit:     moneyStr(t.Profit),
		ItemsTotal: t.ItemsTotal,
	}
}

type SellerTotalsDTO struct {
	SellerID   string `json:"seller_id"` // empty = unassigned
	SellerName string `json:"seller_name,omitempty"`
	TotalsDTO
}

type MonthBucketDTO struct {
	Month  string `json:"month"` // "2006-01"
	Profit string `json:"profit"`
	Count  int    `json:"count"`
}

func toMonthBucketDTOs(buckets []ledger.MonthBucket) []MonthBucketDTO {
	dtos := make([]MonthBucketDTO, len(buckets))
	for i, b := range buckets {
		dtos[i] = MonthBucketDTO{Month: b.Month, Profit: moneyStr(b.Profit), Count: b.Count}
	}
	return dtos
}

type MetricsDTO struct {
	AllTime          TotalsDTO         `json:"all_time"`
	AvgProfitPerSale string            `json:"avg_profit_per_sale"`
	AvgItemsPerSale  string            `json:"avg_items_per_sale"`
	Sellers          []SellerTotalsDTO `json:"sellers"`
	Months           []MonthBucketDTO  `json:"months"`
}

// =============================================================================
// CLIENTS / SELLERS / SHIPMENTS
// =============================================================================

type ClientDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func toClientDTO(c ledger.Client) ClientDTO {
	dto := ClientDTO{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Notes: c.Notes}
	if !c.CreatedAt.IsZero() {
		dto.CreatedAt = c.CreatedAt.Format("2006-01-02")
	}
	return dto
}

type ClientRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type ClientListDTO struct {
	Clients []ClientDTO `json:"clients"`
	Total   int         `json:"total"`
	Offset  int         `json:"offset"`
	Limit   int         `json:"limit"`
}

type SellerDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SellerRequest struct {
	Name string `json:"name" validate:"required"`
}

type ShipmentDTO struct {
	ID             string `json:"id"`
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number"`
	ClientID       string `json:"client_id,omitempty"`
	SaleID         string `json:"sale_id,omitempty"`
	Status         string `json:"status,omitempty"`
	ShippedAt      string `json:"shipped_at,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

func toShipmentDTO(s ledger.Shipment) ShipmentDTO {
	return ShipmentDTO{
		ID:             s.ID,
		Carrier:        s.Carrier,
		TrackingNumber: s.TrackingNumber,
		ClientID:       s.ClientID,
		SaleID:         s.SaleID,
		Status:         s.Status,
		ShippedAt:      s.ShippedAt,
		Notes:          s.Notes,
	}
}

type ShipmentRequest struct {
	Carrier        string `json:"carrier"`
	TrackingNumber string `json:"tracking_number" validate:"required"`
	ClientID       string `json:"client_id"`
	SaleID         string `json:"sale_id"`
	Status         string `json:"status"`
	ShippedAt      string `json:"shipped_at" validate:"omitempty,datetime=2006-01-02"`
	Notes          string `json:"notes"`
}

// =============================================================================
// CALENDAR / DASHBOARD / IMPORT
// =============================================================================

type CalendarDayDTO struct {
	Date    string `json:"date"` // "2006-01-02"
	Count   int    `json:"count"`
	Revenue string `json:"revenue"`
	Profit  string `json:"profit"`
}

type CalendarDTO struct {
	Month string           `json:"month"`
	Days  []CalendarDayDTO `json:"days"`
}

type DashboardDTO struct {
	Summary     SummaryDTO       `json:"summary"`
	Months      []MonthBucketDTO `json:"months"`
	RecentSales []SaleDTO        `json:"recent_sales"`
}

type ImportResultDTO struct {
	Imported int `json:"imported"`
}
