/*
handlers.go - HTTP API handlers for the operations console

PURPOSE:
  Exposes the console over REST. Handlers parse and validate input, fetch
  records from the store, call the pure ledger functions, and write
  results back. No business arithmetic lives here.

ENDPOINTS:
  Inventory:
    GET    /api/inventory               List catalog (?low_stock=true)
    POST   /api/inventory               Create item
    GET    /api/inventory/summary       Cost basis / resale / potential profit
    GET    /api/inventory/{id}          Get item
    PUT    /api/inventory/{id}          Update item
    DELETE /api/inventory/{id}          Delete item
    POST   /api/inventory/{id}/adjust   Manual quantity delta

  Sales:
    GET    /api/sales                   List (?month=2006-01, ?seller_id=)
    POST   /api/sales                   Record sale + deduct stock
    GET    /api/sales/metrics           Totals, per-seller, monthly (?months=N)
    DELETE /api/sales/{id}              Delete sale + restore stock

  Clients:    GET/POST /api/clients, GET/PUT/DELETE /api/clients/{id}
  Sellers:    GET/POST /api/sellers, DELETE /api/sellers/{id}
  Shipments:  GET/POST /api/shipments, PUT/DELETE /api/shipments/{id}
  Calendar:   GET /api/calendar (?month=2006-01)
  Import:     POST /api/import/inventory, POST /api/import/sales
  Export:     GET /api/export/inventory.csv, GET /api/export/sales.csv
  Dashboard:  GET /api/dashboard

VALIDATION:
  The qty > 0 and item-selected gates for sales live HERE, before the
  recorder runs - the recorder assumes valid input. Structural checks use
  validator tags on the request DTOs; numeric fields coerce through the
  ledger's boundary normalizer first.

ERROR HANDLING:
  400 validation, 404 missing record, 500 store faults. Store faults are
  surfaced in the response body and never retried or buffered; a failed
  write is the client's signal to refetch.

SEE ALSO:
  - dto.go: request/response structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mccnalreadydead/DreamRoom-sub000/importer"
	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
	"github.com/mccnalreadydead/DreamRoom-sub000/store"
)

// maxImportBytes bounds spreadsheet uploads.
const maxImportBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    store.Store
	validate *validator.Validate

	// now is swappable so calendar/metrics tests can pin the clock.
	now func() time.Time
}

// NewHandler creates a handler over the given store.
func NewHandler(st store.Store) *Handler {
	return &Handler{
		Store:    st,
		validate: validator.New(),
		now:      time.Now,
	}
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// =============================================================================
// INVENTORY HANDLERS
// =============================================================================

// ListInventory returns the catalog, optionally filtered to low stock.
func (h *Handler) ListInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}
	if r.URL.Query().Get("low_stock") == "true" {
		items = ledger.LowStockItems(items)
	}
	writeJSON(w, http.StatusOK, toItemDTOs(items))
}

func (h *Handler) itemFromRequest(id string, req ItemRequest, createdAt time.Time) ledger.InventoryItem {
	qty := ledger.ToInt(req.Qty)
	if qty < 0 {
		qty = 0
	}
	return ledger.InventoryItem{
		ID:          id,
		Name:        req.Name,
		Category:    req.Category,
		Qty:         qty,
		UnitCost:    ledger.ToDecimal(req.UnitCost),
		ResalePrice: ledger.ToDecimal(req.ResalePrice),
		Notes:       req.Notes,
		CreatedAt:   createdAt,
	}
}

// CreateItem adds a catalog entry.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	item := h.itemFromRequest(uuid.NewString(), req, h.now().UTC())
	if err := h.Store.SaveItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemDTO(item))
}

// GetItem returns a single catalog entry.
func (h *Handler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.Store.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(*item))
}

// UpdateItem replaces a catalog entry's fields.
func (h *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get item", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}

	var req ItemRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	item := h.itemFromRequest(id, req, existing.CreatedAt)
	if err := h.Store.SaveItem(r.Context(), item); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update item", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(item))
}

// DeleteItem removes a catalog entry. Sales referencing it stay; their
// cost resolves from the snapshot, and stock restoration for them
// becomes a silent skip.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteItem(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ledger.ErrItemNotFound) {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// AdjustItemQuantity applies a manual signed delta, clamped at zero.
func (h *Handler) AdjustItemQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	item, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get item", err)
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found", nil)
		return
	}

	var req AdjustQuantityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	adjusted := ledger.AdjustQuantity(*item, ledger.ToInt(req.Delta))
	if err := h.Store.SaveItem(r.Context(), adjusted); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to adjust quantity", err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDTO(adjusted))
}

func (h *Handler) summarize(items []ledger.InventoryItem) SummaryDTO {
	units := 0
	for _, it := range items {
		units += it.Qty
	}
	low := toItemDTOs(ledger.LowStockItems(items))
	if low == nil {
		low = []ItemDTO{}
	}
	return SummaryDTO{
		ItemCount:       len(items),
		UnitCount:       units,
		CostBasis:       moneyStr(ledger.CostBasis(items)),
		ResaleValue:     moneyStr(ledger.ResaleValue(items)),
		PotentialProfit: moneyStr(ledger.PotentialProfit(items)),
		LowStock:        low,
	}
}

// InventorySummary returns the dashboard-level catalog aggregates.
func (h *Handler) InventorySummary(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}
	writeJSON(w, http.StatusOK, h.summarize(items))
}

// =============================================================================
// SALES HANDLERS
// =============================================================================

// ListSales returns sale history, newest first, with optional month and
// seller filters.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sales", err)
		return
	}
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}

	month := normalizeMonth(r.URL.Query().Get("month"))
	sellerID := r.URL.Query().Get("seller_id")
	var filtered []ledger.Sale
	for _, s := range sales {
		if month != "" && s.MonthKey() != month {
			continue
		}
		if sellerID != "" && s.SellerID != sellerID {
			continue
		}
		filtered = append(filtered, s)
	}
	writeJSON(w, http.StatusOK, toSaleDTOs(filtered, items))
}

// CreateSale records a sale and deducts stock as one unit. This is the
// validation gate the recorder relies on: qty must coerce to > 0 and an
// item name must be present before the recorder runs.
func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	qty := ledger.ToInt(req.Qty)
	if qty <= 0 {
		writeError(w, http.StatusBadRequest, "Quantity must be greater than zero", ledger.ErrInvalidQuantity)
		return
	}
	fees := ledger.ToDecimal(req.Fees)
	if fees.IsNegative() {
		writeError(w, http.StatusBadRequest, "Fees cannot be negative", nil)
		return
	}

	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}

	res := ledger.RecordSale(ledger.SaleInput{
		DateISO:  req.Date,
		ItemName: req.ItemName,
		SellerID: req.SellerID,
		ClientID: req.ClientID,
		Qty:      qty,
		Price:    ledger.ToDecimal(req.Price),
		Fees:     fees,
	}, items)

	if err := h.Store.CreateSaleWithDelta(r.Context(), res.Sale, res.Delta); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record sale", err)
		return
	}
	writeJSON(w, http.StatusCreated, toSaleDTO(res.Sale, items))
}

// DeleteSale removes a sale and restores its quantity as one unit.
func (h *Handler) DeleteSale(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sale, err := h.Store.GetSale(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get sale", err)
		return
	}
	if sale == nil {
		writeError(w, http.StatusNotFound, "Sale not found", nil)
		return
	}

	delta := ledger.DeleteSale(*sale)
	if err := h.Store.DeleteSaleWithDelta(r.Context(), id, delta); err != nil {
		if errors.Is(err, ledger.ErrSaleNotFound) {
			writeError(w, http.StatusNotFound, "Sale not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete sale", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true, "restored_qty": delta.Delta})
}

// SalesMetrics returns all-time totals, the per-seller breakdown, and
// the trailing monthly profit buckets.
func (h *Handler) SalesMetrics(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sales", err)
		return
	}
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}

	months := 6
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 60 {
			writeError(w, http.StatusBadRequest, "months must be between 1 and 60", nil)
			return
		}
		months = n
	}

	sellerNames := map[string]string{}
	if sellers, err := h.Store.ListSellers(r.Context()); err == nil {
		for _, s := range sellers {
			sellerNames[s.ID] = s.Name
		}
	}

	all := ledger.AllTimeTotals(sales, items)
	breakdown := ledger.SellerBreakdown(sales, items)
	sellerDTOs := make([]SellerTotalsDTO, len(breakdown))
	for i, row := range breakdown {
		sellerDTOs[i] = SellerTotalsDTO{
			SellerID:   row.SellerID,
			SellerName: sellerNames[row.SellerID],
			TotalsDTO:  toTotalsDTO(row.Totals),
		}
	}

	writeJSON(w, http.StatusOK, MetricsDTO{
		AllTime:          toTotalsDTO(all),
		AvgProfitPerSale: moneyStr(ledger.Average(all.Profit, all.Count)),
		AvgItemsPerSale:  moneyStr(ledger.Average(decimal.NewFromInt(int64(all.ItemsTotal)), all.Count)),
		Sellers:          sellerDTOs,
		Months:           toMonthBucketDTOs(ledger.MonthlyProfitBuckets(sales, items, months, h.now())),
	})
}

// =============================================================================
// CLIENT HANDLERS
// =============================================================================

// ListClients supports substring search and pagination for the contact
// book; without parameters it returns everything.
func (h *Handler) ListClients(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := q.Get("q")
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	clients, total, err := h.Store.QueryClients(r.Context(), filter, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list clients", err)
		return
	}

	dtos := make([]ClientDTO, len(clients))
	for i, c := range clients {
		dtos[i] = toClientDTO(c)
	}
	writeJSON(w, http.StatusOK, ClientListDTO{Clients: dtos, Total: total, Offset: offset, Limit: limit})
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c := ledger.Client{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: h.now().UTC(),
	}
	if err := h.Store.SaveClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create client", err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientDTO(c))
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(*c))
}

func (h *Handler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetClient(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get client", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}

	var req ClientRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	c := ledger.Client{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Notes:     req.Notes,
		CreatedAt: existing.CreatedAt,
	}
	if err := h.Store.SaveClient(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update client", err)
		return
	}
	writeJSON(w, http.StatusOK, toClientDTO(c))
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteClient(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ledger.ErrClientNotFound) {
		writeError(w, http.StatusNotFound, "Client not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete client", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// =============================================================================
// SELLER HANDLERS
// =============================================================================

func (h *Handler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.Store.ListSellers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sellers", err)
		return
	}
	dtos := make([]SellerDTO, len(sellers))
	for i, s := range sellers {
		dtos[i] = SellerDTO{ID: s.ID, Name: s.Name}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateSeller(w http.ResponseWriter, r *http.Request) {
	var req SellerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	s := ledger.Seller{ID: uuid.NewString(), Name: req.Name}
	if err := h.Store.SaveSeller(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create seller", err)
		return
	}
	writeJSON(w, http.StatusCreated, SellerDTO{ID: s.ID, Name: s.Name})
}

func (h *Handler) DeleteSeller(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteSeller(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ledger.ErrSellerNotFound) {
		writeError(w, http.StatusNotFound, "Seller not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete seller", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// =============================================================================
// SHIPMENT HANDLERS
// =============================================================================

func (h *Handler) ListShipments(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.Store.ListShipments(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shipments", err)
		return
	}
	dtos := make([]ShipmentDTO, len(shipments))
	for i, s := range shipments {
		dtos[i] = toShipmentDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) shipmentFromRequest(id string, req ShipmentRequest) ledger.Shipment {
	return ledger.Shipment{
		ID:             id,
		Carrier:        req.Carrier,
		TrackingNumber: req.TrackingNumber,
		ClientID:       req.ClientID,
		SaleID:         req.SaleID,
		Status:         req.Status,
		ShippedAt:      req.ShippedAt,
		Notes:          req.Notes,
	}
}

func (h *Handler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	var req ShipmentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	s := h.shipmentFromRequest(uuid.NewString(), req)
	if err := h.Store.SaveShipment(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create shipment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toShipmentDTO(s))
}

func (h *Handler) UpdateShipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	existing, err := h.Store.GetShipment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get shipment", err)
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "Shipment not found", nil)
		return
	}

	var req ShipmentRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	s := h.shipmentFromRequest(id, req)
	if err := h.Store.SaveShipment(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update shipment", err)
		return
	}
	writeJSON(w, http.StatusOK, toShipmentDTO(s))
}

func (h *Handler) DeleteShipment(w http.ResponseWriter, r *http.Request) {
	err := h.Store.DeleteShipment(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ledger.ErrShipmentNotFound) {
		writeError(w, http.StatusNotFound, "Shipment not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete shipment", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// =============================================================================
// CALENDAR
// =============================================================================

// Calendar returns per-day sale rollups for one month, for the grid view.
// Only days with at least one sale appear.
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	month := normalizeMonth(r.URL.Query().Get("month"))
	if month == "" {
		month = h.now().UTC().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sales", err)
		return
	}
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}

	type dayAgg struct {
		count   int
		revenue decimal.Decimal
		profit  decimal.Decimal
	}
	days := map[string]dayAgg{}
	for _, s := range sales {
		if s.MonthKey() != month {
			continue
		}
		agg, ok := days[s.DateISO]
		if !ok {
			agg = dayAgg{revenue: decimal.Zero, profit: decimal.Zero}
		}
		agg.count++
		agg.revenue = agg.revenue.Add(s.Price)
		agg.profit = agg.profit.Add(ledger.LineProfit(s, ledger.ResolveUnitCost(s, items)))
		days[s.DateISO] = agg
	}

	dtos := make([]CalendarDayDTO, 0, len(days))
	for date, agg := range days {
		dtos = append(dtos, CalendarDayDTO{
			Date:    date,
			Count:   agg.count,
			Revenue: moneyStr(agg.revenue),
			Profit:  moneyStr(agg.profit),
		})
	}
	sortCalendarDays(dtos)
	writeJSON(w, http.StatusOK, CalendarDTO{Month: month, Days: dtos})
}

func sortCalendarDays(days []CalendarDayDTO) {
	for i := 1; i < len(days); i++ {
		for j := i; j > 0 && days[j].Date < days[j-1].Date; j-- {
			days[j], days[j-1] = days[j-1], days[j]
		}
	}
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

func importFile(w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Expected multipart form upload", err)
		return nil, false
	}
	f, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing 'file' form field", err)
		return nil, false
	}
	return f, true
}

// ImportInventory uploads a catalog spreadsheet and inserts every parsed
// row as a new item.
func (h *Handler) ImportInventory(w http.ResponseWriter, r *http.Request) {
	file, ok := importFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	items, err := importer.ReadInventoryCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse CSV", err)
		return
	}
	for _, it := range items {
		if err := h.Store.SaveItem(r.Context(), it); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save imported item", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{Imported: len(items)})
}

// ImportSales uploads historical sale rows. Backfill does NOT touch
// stock: the units left the shelf long before the spreadsheet arrived.
func (h *Handler) ImportSales(w http.ResponseWriter, r *http.Request) {
	file, ok := importFile(w, r)
	if !ok {
		return
	}
	defer file.Close()

	sales, err := importer.ReadSalesCSV(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse CSV", err)
		return
	}
	for _, s := range sales {
		if err := h.Store.CreateSaleWithDelta(r.Context(), s, ledger.InventoryDelta{}); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save imported sale", err)
			return
		}
	}
	writeJSON(w, http.StatusOK, ImportResultDTO{Imported: len(sales)})
}

// ExportInventoryCSV streams the catalog as a spreadsheet.
func (h *Handler) ExportInventoryCSV(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	if err := importer.WriteInventoryCSV(w, items); err != nil {
		// Headers are gone; all we can do is log via the middleware.
		fmt.Fprintln(w, "export failed:", err)
	}
}

// ExportSalesCSV streams the sale history as a spreadsheet.
func (h *Handler) ExportSalesCSV(w http.ResponseWriter, r *http.Request) {
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sales", err)
		return
	}
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
	if err := importer.WriteSalesCSV(w, sales, items); err != nil {
		fmt.Fprintln(w, "export failed:", err)
	}
}

// =============================================================================
// DASHBOARD
// =============================================================================

// Dashboard bundles the landing-page numbers into one response.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	items, err := h.Store.ListItems(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list inventory", err)
		return
	}
	sales, err := h.Store.ListSales(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list sales", err)
		return
	}

	recent := sales
	if len(recent) > 5 {
		recent = recent[:5]
	}

	writeJSON(w, http.StatusOK, DashboardDTO{
		Summary:     h.summarize(items),
		Months:      toMonthBucketDTOs(ledger.MonthlyProfitBuckets(sales, items, 12, h.now())),
		RecentSales: toSaleDTOs(recent, items),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// normalizeMonth turns "2026-8" style sloppiness into "2026-08"; empty
// input stays empty.
func normalizeMonth(s string) string {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return s
	}
	if len(parts[1]) == 1 {
		return parts[0] + "-0" + parts[1]
	}
	return s
}
