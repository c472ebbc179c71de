/*
handlers_test.go - HTTP-level tests for the API

Tests exercise the full router over the in-memory store: request
decoding and validation, the sale/stock round trip, the dashboard
numbers, and CSV import/export.
*/
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mccnalreadydead/DreamRoom-sub000/store"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	h := NewHandler(store.NewMemory())
	// Pin the clock so monthly buckets and default dates are stable.
	h.now = func() time.Time {
		return time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)
	}
	srv := httptest.NewServer(NewRouter(h))
	t.Cleanup(srv.Close)
	return &testAPI{t: t, server: srv}
}

func (a *testAPI) do(method, path string, body any) (*http.Response, map[string]any) {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *testAPI) doList(method, path string) (*http.Response, []map[string]any) {
	a.t.Helper()
	resp, err := http.Get(a.server.URL + path)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	var decoded []map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (a *testAPI) createItem(name string, qty int, unitCost, resale string) string {
	a.t.Helper()
	resp, body := a.do("POST", "/api/inventory", map[string]any{
		"name": name, "qty": qty, "unit_cost": unitCost, "resale_price": resale,
	})
	require.Equal(a.t, http.StatusCreated, resp.StatusCode)
	return body["id"].(string)
}

// =============================================================================
// INVENTORY
// =============================================================================

func TestInventory_CreateAndGet(t *testing.T) {
	api := newTestAPI(t)

	// WHEN: creating an item with string-typed numerics, as spreadsheet
	// frontends send them
	resp, body := api.do("POST", "/api/inventory", map[string]any{
		"name": "Vintage Jacket", "category": "apparel",
		"qty": "7", "unit_cost": "$30.50", "resale_price": 80,
	})

	// THEN: the item persists with coerced values
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Vintage Jacket", body["name"])
	assert.Equal(t, float64(7), body["qty"])
	assert.Equal(t, "30.50", body["unit_cost"])
	assert.Equal(t, "80.00", body["resale_price"])

	resp, got := api.do("GET", "/api/inventory/"+body["id"].(string), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Vintage Jacket", got["name"])
}

func TestInventory_CreateRequiresName(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do("POST", "/api/inventory", map[string]any{"qty": 3})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventory_LowStockFilter(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Scarce", 4, "10", "20")
	api.createItem("Plenty", 5, "10", "20")

	resp, items := api.doList("GET", "/api/inventory?low_stock=true")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, items, 1)
	assert.Equal(t, "Scarce", items[0]["name"])
	assert.Equal(t, true, items[0]["low_stock"])
}

func TestInventory_AdjustClampsAtZero(t *testing.T) {
	api := newTestAPI(t)
	id := api.createItem("Patch", 3, "1", "4")

	resp, body := api.do("POST", "/api/inventory/"+id+"/adjust", map[string]any{"delta": -10})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["qty"])
}

func TestInventory_Summary(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Jacket", 2, "30", "80")
	api.createItem("Console", 1, "100", "150")

	resp, body := api.do("GET", "/api/inventory/summary", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["item_count"])
	assert.Equal(t, float64(3), body["unit_count"])
	assert.Equal(t, "160.00", body["cost_basis"])       // 2*30 + 1*100
	assert.Equal(t, "310.00", body["resale_value"])     // 2*80 + 1*150
	assert.Equal(t, "150.00", body["potential_profit"]) // 310 - 160
}

func TestInventory_GetMissingIs404(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do("GET", "/api/inventory/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// SALES
// =============================================================================

func TestSales_CreateDeductsStock(t *testing.T) {
	api := newTestAPI(t)
	itemID := api.createItem("Console", 10, "80", "150")

	// WHEN: recording a sale of 3 units
	resp, sale := api.do("POST", "/api/sales", map[string]any{
		"date": "2026-08-20", "item_name": "console", "qty": 3,
		"price": "260", "fees": "10",
	})

	// THEN: the sale reports snapshot-based profit and stock drops
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, itemID, sale["item_id"], "name match is case-insensitive")
	assert.Equal(t, "10.00", sale["profit"]) // 260 - 10 - 80*3

	_, item := api.do("GET", "/api/inventory/"+itemID, nil)
	assert.Equal(t, float64(7), item["qty"])
}

func TestSales_CreateRejectsZeroQty(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Console", 10, "80", "150")

	resp, _ := api.do("POST", "/api/sales", map[string]any{
		"item_name": "Console", "qty": 0, "price": 50,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = api.do("POST", "/api/sales", map[string]any{
		"item_name": "Console", "qty": "garbage", "price": 50,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "unparseable qty coerces to zero and is rejected")
}

func TestSales_CreateRejectsNegativeFees(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do("POST", "/api/sales", map[string]any{
		"item_name": "Console", "qty": 1, "price": 50, "fees": -5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSales_UnknownItemStillRecords(t *testing.T) {
	api := newTestAPI(t)

	resp, sale := api.do("POST", "/api/sales", map[string]any{
		"item_name": "Mystery Box", "qty": 1, "price": 40, "fees": 0,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Empty(t, sale["item_id"])
	assert.Equal(t, "40.00", sale["profit"], "no catalog match means zero cost")
}

func TestSales_DeleteRestoresStock(t *testing.T) {
	api := newTestAPI(t)
	itemID := api.createItem("Console", 10, "80", "150")

	_, sale := api.do("POST", "/api/sales", map[string]any{
		"item_name": "Console", "qty": 3, "price": 260, "fees": 10,
	})
	saleID := sale["id"].(string)

	resp, body := api.do("DELETE", "/api/sales/"+saleID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["restored_qty"])

	_, item := api.do("GET", "/api/inventory/"+itemID, nil)
	assert.Equal(t, float64(10), item["qty"])

	resp, _ = api.do("DELETE", "/api/sales/"+saleID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSales_MonthFilter(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Console", 10, "80", "150")
	api.do("POST", "/api/sales", map[string]any{"date": "2026-07-15", "item_name": "Console", "qty": 1, "price": 100})
	api.do("POST", "/api/sales", map[string]any{"date": "2026-08-01", "item_name": "Console", "qty": 1, "price": 120})

	resp, sales := api.doList("GET", "/api/sales?month=2026-07")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, sales, 1)
	assert.Equal(t, "2026-07-15", sales[0]["date"])

	// Single-digit month normalizes
	_, sales = api.doList("GET", "/api/sales?month=2026-7")
	require.Len(t, sales, 1)
}

func TestSales_Metrics(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Console", 10, "80", "150")

	_, seller := api.do("POST", "/api/sellers", map[string]any{"name": "Dana"})
	sellerID := seller["id"].(string)

	api.do("POST", "/api/sales", map[string]any{
		"date": "2026-08-01", "item_name": "Console", "qty": 1,
		"price": 150, "fees": 10, "seller_id": sellerID,
	})
	api.do("POST", "/api/sales", map[string]any{
		"date": "2026-06-01", "item_name": "Console", "qty": 2,
		"price": 300, "fees": 0,
	})

	resp, err := http.Get(api.server.URL + "/api/sales/metrics?months=6")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var m struct {
		AllTime struct {
			Count   int    `json:"count"`
			Profit  string `json:"profit"`
			Revenue string `json:"revenue"`
		} `json:"all_time"`
		AvgProfitPerSale string `json:"avg_profit_per_sale"`
		Sellers          []struct {
			SellerID   string `json:"seller_id"`
			SellerName string `json:"seller_name"`
			Profit     string `json:"profit"`
		} `json:"sellers"`
		Months []struct {
			Month  string `json:"month"`
			Profit string `json:"profit"`
		} `json:"months"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))

	// Sale 1: 150-10-80 = 60. Sale 2: 300-0-160 = 140. Total 200.
	assert.Equal(t, 2, m.AllTime.Count)
	assert.Equal(t, "200.00", m.AllTime.Profit)
	assert.Equal(t, "450.00", m.AllTime.Revenue)
	assert.Equal(t, "100.00", m.AvgProfitPerSale)

	require.Len(t, m.Sellers, 2)
	assert.Equal(t, "", m.Sellers[0].SellerID, "unassigned bucket leads with higher profit")
	assert.Equal(t, "140.00", m.Sellers[0].Profit)
	assert.Equal(t, "Dana", m.Sellers[1].SellerName)

	require.Len(t, m.Months, 6)
	assert.Equal(t, "2026-03", m.Months[0].Month)
	assert.Equal(t, "2026-08", m.Months[5].Month)
	assert.Equal(t, "0.00", m.Months[2].Profit, "month without sales is an explicit zero")
	assert.Equal(t, "140.00", m.Months[3].Profit)
}

func TestSales_MetricsRejectsBadMonths(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do("GET", "/api/sales/metrics?months=0", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// CLIENTS
// =============================================================================

func TestClients_SearchAndPagination(t *testing.T) {
	api := newTestAPI(t)
	for i := 0; i < 5; i++ {
		resp, _ := api.do("POST", "/api/clients", map[string]any{
			"name": fmt.Sprintf("Buyer %d", i), "email": fmt.Sprintf("b%d@shop.test", i),
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	api.do("POST", "/api/clients", map[string]any{"name": "Window Shopper"})

	resp, body := api.do("GET", "/api/clients?q=buyer&offset=2&limit=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(5), body["total"])
	clients := body["clients"].([]any)
	require.Len(t, clients, 2)
	assert.Equal(t, "Buyer 2", clients[0].(map[string]any)["name"])
}

func TestClients_InvalidEmailRejected(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do("POST", "/api/clients", map[string]any{"name": "X", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// SHIPMENTS
// =============================================================================

func TestShipments_CRUDAndClientFilter(t *testing.T) {
	api := newTestAPI(t)
	_, client := api.do("POST", "/api/clients", map[string]any{"name": "Buyer"})
	clientID := client["id"].(string)

	resp, created := api.do("POST", "/api/shipments", map[string]any{
		"carrier": "USPS", "tracking_number": "9400TEST", "client_id": clientID,
		"status": "shipped", "shipped_at": "2026-08-21",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := created["id"].(string)

	resp, list := api.doList("GET", "/api/shipments?client_id="+clientID)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)

	_, list = api.doList("GET", "/api/shipments?client_id=someone-else")
	assert.Empty(t, list)

	resp, updated := api.do("PUT", "/api/shipments/"+id, map[string]any{
		"carrier": "USPS", "tracking_number": "9400TEST", "client_id": clientID,
		"status": "delivered",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "delivered", updated["status"])

	resp, _ = api.do("DELETE", "/api/shipments/"+id, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// =============================================================================
// CALENDAR
// =============================================================================

func TestCalendar_GroupsByDay(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Console", 10, "80", "150")
	api.do("POST", "/api/sales", map[string]any{"date": "2026-08-01", "item_name": "Console", "qty": 1, "price": 150, "fees": 10})
	api.do("POST", "/api/sales", map[string]any{"date": "2026-08-01", "item_name": "Console", "qty": 1, "price": 120, "fees": 0})
	api.do("POST", "/api/sales", map[string]any{"date": "2026-08-15", "item_name": "Console", "qty": 1, "price": 100, "fees": 0})
	api.do("POST", "/api/sales", map[string]any{"date": "2026-07-01", "item_name": "Console", "qty": 1, "price": 99, "fees": 0})

	resp, body := api.do("GET", "/api/calendar?month=2026-08", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "2026-08", body["month"])

	days := body["days"].([]any)
	require.Len(t, days, 2, "only days with sales appear")

	first := days[0].(map[string]any)
	assert.Equal(t, "2026-08-01", first["date"])
	assert.Equal(t, float64(2), first["count"])
	assert.Equal(t, "270.00", first["revenue"])
	assert.Equal(t, "100.00", first["profit"]) // (150-10-80) + (120-0-80)
}

func TestCalendar_RejectsBadMonth(t *testing.T) {
	api := newTestAPI(t)
	resp, _ := api.do("GET", "/api/calendar?month=august", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// IMPORT / EXPORT
// =============================================================================

func (a *testAPI) upload(path, filename, content string) (*http.Response, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(a.t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req, err := http.NewRequest("POST", a.server.URL+path, &buf)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestImportInventory(t *testing.T) {
	api := newTestAPI(t)

	csvData := "Item name,QTY,Cost,Used Sell\nJacket,7,\"$30.50\",80\n,5,1,2\n"
	resp, body := api.upload("/api/import/inventory", "inv.csv", csvData)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["imported"], "nameless row skipped")

	_, items := api.doList("GET", "/api/inventory")
	require.Len(t, items, 1)
	assert.Equal(t, "30.50", items[0]["unit_cost"])
}

func TestImportSales_DoesNotTouchStock(t *testing.T) {
	api := newTestAPI(t)
	itemID := api.createItem("Console", 10, "80", "150")

	csvData := "Date,Item name,QTY,Price,Fees\n2026-05-01,Console,2,260,10\n"
	resp, body := api.upload("/api/import/sales", "sales.csv", csvData)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["imported"])

	// Backfilled history never deducts current stock.
	_, item := api.do("GET", "/api/inventory/"+itemID, nil)
	assert.Equal(t, float64(10), item["qty"])

	_, sales := api.doList("GET", "/api/sales")
	require.Len(t, sales, 1)
	assert.Equal(t, "90.00", sales[0]["profit"], "cost resolves from catalog for imported rows")
}

func TestExportSalesCSV(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Console", 10, "80", "150")
	api.do("POST", "/api/sales", map[string]any{"date": "2026-08-01", "item_name": "Console", "qty": 2, "price": 260, "fees": 10})

	resp, err := http.Get(api.server.URL + "/api/export/sales.csv")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "sales.csv")

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "2026-08-01,Console,2,260.00,10.00,90.00", lines[1])
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard(t *testing.T) {
	api := newTestAPI(t)
	api.createItem("Console", 3, "80", "150")
	api.do("POST", "/api/sales", map[string]any{"date": "2026-08-10", "item_name": "Console", "qty": 1, "price": 150, "fees": 10})

	resp, body := api.do("GET", "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := body["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["item_count"])
	assert.Equal(t, float64(2), summary["unit_count"], "sale already deducted")
	assert.Len(t, summary["low_stock"].([]any), 1)

	months := body["months"].([]any)
	assert.Len(t, months, 12)

	recent := body["recent_sales"].([]any)
	require.Len(t, recent, 1)
	assert.Equal(t, "60.00", recent[0].(map[string]any)["profit"])
}
