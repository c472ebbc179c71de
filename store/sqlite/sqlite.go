/*
Package sqlite provides the SQLite-backed implementation of store.Store.

PURPOSE:
  The relational backend for the console. The same patterns apply to a
  hosted PostgreSQL - only minor SQL dialect differences.

KEY TABLES (names come from config, one per logical collection - there is
no runtime table probing):
  inventory:  catalog entries with on-hand quantity
  sales:      one row per sale line, with the unit-cost snapshot
  clients:    contact book
  sellers:    grouping tags for sales
  shipments:  tracking-number book

PAIRED WRITES:
  CreateSaleWithDelta and DeleteSaleWithDelta run inside a database
  transaction so the sale write and the stock adjustment land both or
  neither. The adjustment itself clamps at zero in SQL
  (qty = MAX(0, qty + delta)) and silently affects zero rows when the
  referenced item is gone.

WAL MODE:
  SQLite is opened with WAL for better concurrency: multiple readers
  don't block and crash recovery is cleaner.

MONEY:
  Decimals are stored as TEXT and parsed back with shopspring/decimal, so
  no precision is lost round-tripping through the database.

MIGRATION:
  Schema is created on New(). For production, use a proper migration tool
  with versioned migrations.

SEE ALSO:
  - store/store.go: interface definition
  - store/memory.go: in-memory implementation for local mode and tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
	"github.com/mccnalreadydead/DreamRoom-sub000/store"
)

// Tables maps each logical collection to its resolved table name. Resolved
// once at startup from config; replaces the legacy probe-until-found
// behavior.
type Tables struct {
	Inventory string
	Sales     string
	Clients   string
	Sellers   string
	Shipments string
}

// DefaultTables returns the standard table names.
func DefaultTables() Tables {
	return Tables{
		Inventory: "inventory",
		Sales:     "sales",
		Clients:   "clients",
		Sellers:   "sellers",
		Shipments: "shipments",
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func (t Tables) validate() error {
	for _, name := range []string{t.Inventory, t.Sales, t.Clients, t.Sellers, t.Shipments} {
		if !identRe.MatchString(name) {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}

// Store implements store.Store on SQLite.
type Store struct {
	db     *sql.DB
	tables Tables
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string, tables Tables) (*Store, error) {
	if err := tables.validate(); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, tables: tables}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		qty INTEGER NOT NULL DEFAULT 0,
		unit_cost TEXT NOT NULL DEFAULT '0',
		resale_price TEXT NOT NULL DEFAULT '0',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%[1]s_name ON %[1]s(name COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS %[2]s (
		id TEXT PRIMARY KEY,
		date_iso TEXT NOT NULL,
		item_id TEXT NOT NULL DEFAULT '',
		item_name TEXT NOT NULL DEFAULT '',
		seller_id TEXT NOT NULL DEFAULT '',
		client_id TEXT NOT NULL DEFAULT '',
		qty INTEGER NOT NULL,
		price TEXT NOT NULL DEFAULT '0',
		fees TEXT NOT NULL DEFAULT '0',
		unit_cost TEXT NOT NULL DEFAULT '0',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%[2]s_date ON %[2]s(date_iso DESC);
	CREATE INDEX IF NOT EXISTS idx_%[2]s_seller ON %[2]s(seller_id);

	CREATE TABLE IF NOT EXISTS %[3]s (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_%[3]s_name ON %[3]s(name COLLATE NOCASE);

	CREATE TABLE IF NOT EXISTS %[4]s (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS %[5]s (
		id TEXT PRIMARY KEY,
		carrier TEXT NOT NULL DEFAULT '',
		tracking_number TEXT NOT NULL DEFAULT '',
		client_id TEXT NOT NULL DEFAULT '',
		sale_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		shipped_at TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_%[5]s_client ON %[5]s(client_id);
	`, s.tables.Inventory, s.tables.Sales, s.tables.Clients, s.tables.Sellers, s.tables.Shipments)

	_, err := s.db.Exec(schema)
	return err
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// =============================================================================
// INVENTORY
// =============================================================================

func (s *Store) scanItems(rows *sql.Rows) ([]ledger.InventoryItem, error) {
	defer rows.Close()
	var out []ledger.InventoryItem
	for rows.Next() {
		var it ledger.InventoryItem
		var unitCost, resale, createdAt string
		if err := rows.Scan(&it.ID, &it.Name, &it.Category, &it.Qty, &unitCost, &resale, &it.Notes, &createdAt); err != nil {
			return nil, err
		}
		it.UnitCost = dec(unitCost)
		it.ResalePrice = dec(resale)
		it.CreatedAt = parseTime(createdAt)
		out = append(out, it)
	}
	return out, rows.Err()
}

const itemCols = "id, name, category, qty, unit_cost, resale_price, notes, created_at"

func (s *Store) ListItems(ctx context.Context) ([]ledger.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY name COLLATE NOCASE", itemCols, s.tables.Inventory))
	if err != nil {
		return nil, err
	}
	return s.scanItems(rows)
}

func (s *Store) GetItem(ctx context.Context, id string) (*ledger.InventoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", itemCols, s.tables.Inventory), id)
	if err != nil {
		return nil, err
	}
	items, err := s.scanItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *Store) SaveItem(ctx context.Context, item ledger.InventoryItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			qty = excluded.qty,
			unit_cost = excluded.unit_cost,
			resale_price = excluded.resale_price,
			notes = excluded.notes`, s.tables.Inventory, itemCols),
		item.ID, item.Name, item.Category, item.Qty,
		item.UnitCost.String(), item.ResalePrice.String(), item.Notes,
		item.CreatedAt.Format(time.RFC3339Nano))
	return err
}

func (s *Store) DeleteItem(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tables.Inventory), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrItemNotFound
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// applyDelta clamps at zero in SQL and resolves by id first, then by
// case-insensitive name. Zero rows affected is fine: missing items skip.
func (s *Store) applyDelta(ctx context.Context, ex execer, delta ledger.InventoryDelta) error {
	if delta.IsNoop() {
		return nil
	}

	if delta.ItemID != "" {
		res, err := ex.ExecContext(ctx,
			fmt.Sprintf("UPDATE %s SET qty = MAX(0, qty + ?) WHERE id = ?", s.tables.Inventory),
			delta.Delta, delta.ItemID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
	}
	if delta.ItemName != "" {
		_, err := ex.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %[1]s SET qty = MAX(0, qty + ?)
			WHERE id = (SELECT id FROM %[1]s WHERE name = ? COLLATE NOCASE
			            ORDER BY name COLLATE NOCASE LIMIT 1)`, s.tables.Inventory),
			delta.Delta, delta.ItemName)
		return err
	}
	return nil
}

func (s *Store) ApplyDelta(ctx context.Context, delta ledger.InventoryDelta) error {
	return s.applyDelta(ctx, s.db, delta)
}

// =============================================================================
// SALES
// =============================================================================

const saleCols = "id, date_iso, item_id, item_name, seller_id, client_id, qty, price, fees, unit_cost, created_at"

func (s *Store) scanSales(rows *sql.Rows) ([]ledger.Sale, error) {
	defer rows.Close()
	var out []ledger.Sale
	for rows.Next() {
		var sa ledger.Sale
		var price, fees, unitCost, createdAt string
		if err := rows.Scan(&sa.ID, &sa.DateISO, &sa.ItemID, &sa.ItemName, &sa.SellerID,
			&sa.ClientID, &sa.Qty, &price, &fees, &unitCost, &createdAt); err != nil {
			return nil, err
		}
		sa.Price = dec(price)
		sa.Fees = dec(fees)
		sa.UnitCost = dec(unitCost)
		sa.CreatedAt = parseTime(createdAt)
		out = append(out, sa)
	}
	return out, rows.Err()
}

func (s *Store) ListSales(ctx context.Context) ([]ledger.Sale, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY date_iso DESC, created_at DESC", saleCols, s.tables.Sales))
	if err != nil {
		return nil, err
	}
	return s.scanSales(rows)
}

func (s *Store) GetSale(ctx context.Context, id string) (*ledger.Sale, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", saleCols, s.tables.Sales), id)
	if err != nil {
		return nil, err
	}
	sales, err := s.scanSales(rows)
	if err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return nil, nil
	}
	return &sales[0], nil
}

func (s *Store) insertSale(ctx context.Context, ex execer, sale ledger.Sale) error {
	_, err := ex.ExecContext(ctx,
		fmt.Sprintf("INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", s.tables.Sales, saleCols),
		sale.ID, sale.DateISO, sale.ItemID, sale.ItemName, sale.SellerID, sale.ClientID,
		sale.Qty, sale.Price.String(), sale.Fees.String(), sale.UnitCost.String(),
		sale.CreatedAt.Format(time.RFC3339Nano))
	return err
}

// CreateSaleWithDelta writes the sale and applies the stock deduction in
// one database transaction.
func (s *Store) CreateSaleWithDelta(ctx context.Context, sale ledger.Sale, delta ledger.InventoryDelta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.insertSale(ctx, tx, sale); err != nil {
		return err
	}
	if err := s.applyDelta(ctx, tx, delta); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteSaleWithDelta removes the sale and restores stock in one database
// transaction. A missing sale returns ErrSaleNotFound with nothing applied.
func (s *Store) DeleteSaleWithDelta(ctx context.Context, saleID string, delta ledger.InventoryDelta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tables.Sales), saleID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrSaleNotFound
	}
	if err := s.applyDelta(ctx, tx, delta); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// CLIENTS
// =============================================================================

const clientCols = "id, name, email, phone, notes, created_at"

func (s *Store) scanClients(rows *sql.Rows) ([]ledger.Client, error) {
	defer rows.Close()
	var out []ledger.Client
	for rows.Next() {
		var c ledger.Client
		var createdAt string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Notes, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = parseTime(createdAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) ListClients(ctx context.Context) ([]ledger.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY name COLLATE NOCASE", clientCols, s.tables.Clients))
	if err != nil {
		return nil, err
	}
	return s.scanClients(rows)
}

func (s *Store) QueryClients(ctx context.Context, filter string, offset, limit int) ([]ledger.Client, int, error) {
	where := ""
	args := []any{}
	if f := strings.TrimSpace(filter); f != "" {
		where = "WHERE name LIKE ? COLLATE NOCASE OR email LIKE ? COLLATE NOCASE"
		pat := "%" + f + "%"
		args = append(args, pat, pat)
	}

	var total int
	countQ := fmt.Sprintf("SELECT COUNT(*) FROM %s %s", s.tables.Clients, where)
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	if offset < 0 {
		offset = 0
	}
	q := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY name COLLATE NOCASE LIMIT ? OFFSET ?",
		clientCols, s.tables.Clients, where)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	clients, err := s.scanClients(rows)
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (s *Store) GetClient(ctx context.Context, id string) (*ledger.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", clientCols, s.tables.Clients), id)
	if err != nil {
		return nil, err
	}
	clients, err := s.scanClients(rows)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return nil, nil
	}
	return &clients[0], nil
}

func (s *Store) SaveClient(ctx context.Context, c ledger.Client) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			phone = excluded.phone,
			notes = excluded.notes`, s.tables.Clients, clientCols),
		c.ID, c.Name, c.Email, c.Phone, c.Notes, c.CreatedAt.Format(time.RFC3339Nano))
	return err
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tables.Clients), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrClientNotFound
	}
	return nil
}

// =============================================================================
// SELLERS
// =============================================================================

func (s *Store) ListSellers(ctx context.Context) ([]ledger.Seller, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT id, name FROM %s ORDER BY name COLLATE NOCASE", s.tables.Sellers))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Seller
	for rows.Next() {
		var sel ledger.Seller
		if err := rows.Scan(&sel.ID, &sel.Name); err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, rows.Err()
}

func (s *Store) SaveSeller(ctx context.Context, sel ledger.Seller) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`, s.tables.Sellers),
		sel.ID, sel.Name)
	return err
}

func (s *Store) DeleteSeller(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tables.Sellers), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrSellerNotFound
	}
	return nil
}

// =============================================================================
// SHIPMENTS
// =============================================================================

const shipmentCols = "id, carrier, tracking_number, client_id, sale_id, status, shipped_at, notes"

func (s *Store) scanShipments(rows *sql.Rows) ([]ledger.Shipment, error) {
	defer rows.Close()
	var out []ledger.Shipment
	for rows.Next() {
		var sh ledger.Shipment
		if err := rows.Scan(&sh.ID, &sh.Carrier, &sh.TrackingNumber, &sh.ClientID,
			&sh.SaleID, &sh.Status, &sh.ShippedAt, &sh.Notes); err != nil {
			return nil, err
		}
		out = append(out, sh)
	}
	return out, rows.Err()
}

func (s *Store) ListShipments(ctx context.Context, clientID string) ([]ledger.Shipment, error) {
	q := fmt.Sprintf("SELECT %s FROM %s", shipmentCols, s.tables.Shipments)
	args := []any{}
	if clientID != "" {
		q += " WHERE client_id = ?"
		args = append(args, clientID)
	}
	q += " ORDER BY shipped_at DESC, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return s.scanShipments(rows)
}

func (s *Store) GetShipment(ctx context.Context, id string) (*ledger.Shipment, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", shipmentCols, s.tables.Shipments), id)
	if err != nil {
		return nil, err
	}
	shipments, err := s.scanShipments(rows)
	if err != nil {
		return nil, err
	}
	if len(shipments) == 0 {
		return nil, nil
	}
	return &shipments[0], nil
}

func (s *Store) SaveShipment(ctx context.Context, sh ledger.Shipment) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			carrier = excluded.carrier,
			tracking_number = excluded.tracking_number,
			client_id = excluded.client_id,
			sale_id = excluded.sale_id,
			status = excluded.status,
			shipped_at = excluded.shipped_at,
			notes = excluded.notes`, s.tables.Shipments, shipmentCols),
		sh.ID, sh.Carrier, sh.TrackingNumber, sh.ClientID, sh.SaleID, sh.Status, sh.ShippedAt, sh.Notes)
	return err
}

func (s *Store) DeleteShipment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.tables.Shipments), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrShipmentNotFound
	}
	return nil
}
