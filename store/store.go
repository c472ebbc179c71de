/*
Package store defines the persistence collaborator for the console.

PURPOSE:
  The ledger engine is pure: callers fetch records from a Store, pass them
  into engine functions, then write results back through the Store. This
  package owns the interface plus the in-memory implementation used for
  "local mode" and for tests. The SQLite implementation lives in
  store/sqlite.

PAIRED WRITES:
  Creating a sale and deducting stock (and the inverse on delete) are one
  logical transaction. CreateSaleWithDelta / DeleteSaleWithDelta apply the
  sale write and the quantity delta both-or-neither: SQLite uses a database
  transaction, the memory store a single mutex hold.

DELTA RESOLUTION:
  A quantity delta references its item by id when known, otherwise by name
  (case-insensitive, first match). A delta against a missing item is a
  silent no-op - the legacy linkage behavior existing flows rely on.

SEE ALSO:
  - memory.go: in-memory implementation with change notification
  - store/sqlite/sqlite.go: relational implementation
*/
package store

import (
	"context"

	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
)

// =============================================================================
// STORE - Persistence interface, one method group per collection
// =============================================================================

// Store is the persistence collaborator. Get* returns (nil, nil) for a
// missing record; Delete* returns the matching ledger.Err*NotFound.
type Store interface {
	// Inventory
	ListItems(ctx context.Context) ([]ledger.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*ledger.InventoryItem, error)
	SaveItem(ctx context.Context, item ledger.InventoryItem) error
	DeleteItem(ctx context.Context, id string) error

	// ApplyDelta adjusts an item's quantity, clamped at zero. Missing
	// items (and no-op deltas) silently skip and return nil.
	ApplyDelta(ctx context.Context, delta ledger.InventoryDelta) error

	// Sales. The *WithDelta operations apply the sale write and the
	// quantity delta atomically: both or neither.
	ListSales(ctx context.Context) ([]ledger.Sale, error)
	GetSale(ctx context.Context, id string) (*ledger.Sale, error)
	CreateSaleWithDelta(ctx context.Context, sale ledger.Sale, delta ledger.InventoryDelta) error
	DeleteSaleWithDelta(ctx context.Context, saleID string, delta ledger.InventoryDelta) error

	// Clients. QueryClients filters by substring on name/email and
	// paginates; it returns the page plus the total match count.
	ListClients(ctx context.Context) ([]ledger.Client, error)
	QueryClients(ctx context.Context, filter string, offset, limit int) ([]ledger.Client, int, error)
	GetClient(ctx context.Context, id string) (*ledger.Client, error)
	SaveClient(ctx context.Context, c ledger.Client) error
	DeleteClient(ctx context.Context, id string) error

	// Sellers
	ListSellers(ctx context.Context) ([]ledger.Seller, error)
	SaveSeller(ctx context.Context, s ledger.Seller) error
	DeleteSeller(ctx context.Context, id string) error

	// Shipments. Empty clientID lists all.
	ListShipments(ctx context.Context, clientID string) ([]ledger.Shipment, error)
	GetShipment(ctx context.Context, id string) (*ledger.Shipment, error)
	SaveShipment(ctx context.Context, s ledger.Shipment) error
	DeleteShipment(ctx context.Context, id string) error

	Close() error
}

// =============================================================================
// CHANGE NOTIFICATION - Local-mode stores broadcast writes
// =============================================================================

// Change describes one persisted mutation, for callers that re-render on
// write (the local-mode UI).
type Change struct {
	Collection string // "inventory", "sales", "clients", "sellers", "shipments"
	Action     string // "insert", "update", "delete"
	ID         string
}

// Notifier is implemented by stores that can announce changes in-process.
// The SQLite store does not implement it; the hosted database is polled.
type Notifier interface {
	Subscribe(fn func(Change))
}
