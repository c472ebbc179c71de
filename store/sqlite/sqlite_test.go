package sqlite_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
	"github.com/mccnalreadydead/DreamRoom-sub000/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:", sqlite.DefaultTables())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_ItemRoundTripKeepsDecimalsExact(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	item := ledger.InventoryItem{
		ID:          "i1",
		Name:        "Vintage Jacket",
		Category:    "apparel",
		Qty:         7,
		UnitCost:    decimal.RequireFromString("30.55"),
		ResalePrice: decimal.RequireFromString("80.99"),
		Notes:       "1990s",
	}
	require.NoError(t, s.SaveItem(ctx, item))

	got, err := s.GetItem(ctx, "i1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.UnitCost.Equal(item.UnitCost), "unit cost must round-trip exactly")
	assert.True(t, got.ResalePrice.Equal(item.ResalePrice))
	assert.Equal(t, 7, got.Qty)

	// Upsert on the same id updates in place.
	item.Qty = 9
	require.NoError(t, s.SaveItem(ctx, item))
	got, _ = s.GetItem(ctx, "i1")
	assert.Equal(t, 9, got.Qty)
}

func TestSQLite_SaleCreateDeductsAndDeleteRestores(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveItem(ctx, ledger.InventoryItem{
		ID: "i1", Name: "Console", Qty: 10,
		UnitCost: decimal.NewFromInt(80), ResalePrice: decimal.NewFromInt(150),
	}))

	sale := ledger.Sale{
		ID: "s1", DateISO: "2026-08-01", ItemID: "i1", ItemName: "Console",
		Qty: 3, Price: decimal.NewFromInt(260), Fees: decimal.NewFromInt(10),
		UnitCost: decimal.NewFromInt(80),
	}
	require.NoError(t, s.CreateSaleWithDelta(ctx, sale,
		ledger.InventoryDelta{ItemID: "i1", ItemName: "Console", Delta: -3}))

	it, _ := s.GetItem(ctx, "i1")
	assert.Equal(t, 7, it.Qty)

	require.NoError(t, s.DeleteSaleWithDelta(ctx, "s1", ledger.DeleteSale(sale)))
	it, _ = s.GetItem(ctx, "i1")
	assert.Equal(t, 10, it.Qty, "delete must restore the exact quantity")

	gone, err := s.GetSale(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestSQLite_DeltaClampsAtZeroInSQL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveItem(ctx, ledger.InventoryItem{ID: "i1", Name: "Console", Qty: 2}))
	require.NoError(t, s.ApplyDelta(ctx, ledger.InventoryDelta{ItemID: "i1", Delta: -5}))

	it, _ := s.GetItem(ctx, "i1")
	assert.Equal(t, 0, it.Qty)
}

func TestSQLite_DeltaByNameIsCaseInsensitiveAndSkipsMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveItem(ctx, ledger.InventoryItem{ID: "i1", Name: "Vintage Jacket", Qty: 6}))

	require.NoError(t, s.ApplyDelta(ctx, ledger.InventoryDelta{ItemName: "VINTAGE JACKET", Delta: -2}))
	it, _ := s.GetItem(ctx, "i1")
	assert.Equal(t, 4, it.Qty)

	// Missing item: silent skip, not a fault.
	assert.NoError(t, s.ApplyDelta(ctx, ledger.InventoryDelta{ItemName: "Ghost", Delta: -1}))
}

func TestSQLite_DeleteMissingSaleAppliesNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveItem(ctx, ledger.InventoryItem{ID: "i1", Name: "Console", Qty: 5}))

	err := s.DeleteSaleWithDelta(ctx, "nope", ledger.InventoryDelta{ItemID: "i1", Delta: 99})
	assert.ErrorIs(t, err, ledger.ErrSaleNotFound)

	it, _ := s.GetItem(ctx, "i1")
	assert.Equal(t, 5, it.Qty, "rollback must leave stock untouched")
}

func TestSQLite_QueryClientsFilterAndPagination(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SaveClient(ctx, ledger.Client{ID: "c1", Name: "Alice Johnson", Email: "alice@example.com"}))
	require.NoError(t, s.SaveClient(ctx, ledger.Client{ID: "c2", Name: "Bob Johnson", Email: "bob@example.com"}))
	require.NoError(t, s.SaveClient(ctx, ledger.Client{ID: "c3", Name: "Cara", Email: "cara@shop.io"}))

	page, total, err := s.QueryClients(ctx, "johnson", 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Alice Johnson", page[0].Name)

	page, total, err = s.QueryClients(ctx, "johnson", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, "Bob Johnson", page[0].Name)
}

func TestSQLite_RejectsInvalidTableNames(t *testing.T) {
	tables := sqlite.DefaultTables()
	tables.Sales = "sales; DROP TABLE inventory"
	_, err := sqlite.New(":memory:", tables)
	assert.Error(t, err)
}

func TestSQLite_ShipmentCRUD(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	sh := ledger.Shipment{
		ID: "sh1", Carrier: "USPS", TrackingNumber: "9400100000000000000000",
		ClientID: "c1", Status: "in_transit", ShippedAt: "2026-08-10",
	}
	require.NoError(t, s.SaveShipment(ctx, sh))

	list, err := s.ListShipments(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "USPS", list[0].Carrier)

	list, err = s.ListShipments(ctx, "other-client")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.DeleteShipment(ctx, "sh1"))
	assert.ErrorIs(t, s.DeleteShipment(ctx, "sh1"), ledger.ErrShipmentNotFound)
}
