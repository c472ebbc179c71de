package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mccnalreadydead/DreamRoom-sub000/ledger"
)

// =============================================================================
// MEMORY STORE - Local-mode implementation (and the test double)
// =============================================================================

// Memory keeps every collection in mutex-guarded maps. It is the "local
// mode" backend: same contract as SQLite, plus in-process change
// notification via Subscribe.
type Memory struct {
	mu        sync.RWMutex
	items     map[string]ledger.InventoryItem
	sales     map[string]ledger.Sale
	clients   map[string]ledger.Client
	sellers   map[string]ledger.Seller
	shipments map[string]ledger.Shipment

	subMu       sync.Mutex
	subscribers []func(Change)
}

var _ Store = (*Memory)(nil)
var _ Notifier = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		items:     make(map[string]ledger.InventoryItem),
		sales:     make(map[string]ledger.Sale),
		clients:   make(map[string]ledger.Client),
		sellers:   make(map[string]ledger.Seller),
		shipments: make(map[string]ledger.Shipment),
	}
}

// Subscribe registers a callback invoked after every persisted mutation.
func (m *Memory) Subscribe(fn func(Change)) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// notify runs outside the data lock so subscribers can read back.
func (m *Memory) notify(changes ...Change) {
	m.subMu.Lock()
	subs := make([]func(Change), len(m.subscribers))
	copy(subs, m.subscribers)
	m.subMu.Unlock()

	for _, c := range changes {
		for _, fn := range subs {
			fn(c)
		}
	}
}

func (m *Memory) Close() error { return nil }

// =============================================================================
// INVENTORY
// =============================================================================

func (m *Memory) ListItems(_ context.Context) ([]ledger.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.InventoryItem, 0, len(m.items))
	for _, it := range m.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *Memory) GetItem(_ context.Context, id string) (*ledger.InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (m *Memory) SaveItem(_ context.Context, item ledger.InventoryItem) error {
	m.mu.Lock()
	_, existed := m.items[item.ID]
	m.items[item.ID] = item
	m.mu.Unlock()

	m.notify(Change{Collection: "inventory", Action: upsertAction(existed), ID: item.ID})
	return nil
}

func (m *Memory) DeleteItem(_ context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.items[id]
	if ok {
		delete(m.items, id)
	}
	m.mu.Unlock()

	if !ok {
		return ledger.ErrItemNotFound
	}
	m.notify(Change{Collection: "inventory", Action: "delete", ID: id})
	return nil
}

func (m *Memory) ApplyDelta(_ context.Context, delta ledger.InventoryDelta) error {
	m.mu.Lock()
	id, applied := m.applyDeltaLocked(delta)
	m.mu.Unlock()

	if applied {
		m.notify(Change{Collection: "inventory", Action: "update", ID: id})
	}
	return nil
}

// applyDeltaLocked resolves the delta's item by id, then by name, and
// clamps the adjusted quantity at zero. Missing item: silent skip.
func (m *Memory) applyDeltaLocked(delta ledger.InventoryDelta) (string, bool) {
	if delta.IsNoop() {
		return "", false
	}

	if delta.ItemID != "" {
		if it, ok := m.items[delta.ItemID]; ok {
			m.items[it.ID] = ledger.AdjustQuantity(it, delta.Delta)
			return it.ID, true
		}
		// Fall through to the name path: the id may reference a
		// since-deleted item that was re-imported under a new id.
	}
	if delta.ItemName != "" {
		// Deterministic first match: scan in list order (name asc).
		ids := make([]string, 0, len(m.items))
		for id := range m.items {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool {
			return strings.ToLower(m.items[ids[i]].Name) < strings.ToLower(m.items[ids[j]].Name)
		})
		for _, id := range ids {
			if strings.EqualFold(m.items[id].Name, delta.ItemName) {
				m.items[id] = ledger.AdjustQuantity(m.items[id], delta.Delta)
				return id, true
			}
		}
	}
	return "", false
}

// =============================================================================
// SALES - Paired writes under one lock hold
// =============================================================================

func (m *Memory) ListSales(_ context.Context) ([]ledger.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		out = append(out, s)
	}
	// Most recent first; CreatedAt breaks same-day ties.
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateISO != out[j].DateISO {
			return out[i].DateISO > out[j].DateISO
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) GetSale(_ context.Context, id string) (*ledger.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) CreateSaleWithDelta(_ context.Context, sale ledger.Sale, delta ledger.InventoryDelta) error {
	m.mu.Lock()
	m.sales[sale.ID] = sale
	itemID, applied := m.applyDeltaLocked(delta)
	m.mu.Unlock()

	changes := []Change{{Collection: "sales", Action: "insert", ID: sale.ID}}
	if applied {
		changes = append(changes, Change{Collection: "inventory", Action: "update", ID: itemID})
	}
	m.notify(changes...)
	return nil
}

func (m *Memory) DeleteSaleWithDelta(_ context.Context, saleID string, delta ledger.InventoryDelta) error {
	m.mu.Lock()
	_, ok := m.sales[saleID]
	var itemID string
	var applied bool
	if ok {
		delete(m.sales, saleID)
		itemID, applied = m.applyDeltaLocked(delta)
	}
	m.mu.Unlock()

	if !ok {
		return ledger.ErrSaleNotFound
	}
	changes := []Change{{Collection: "sales", Action: "delete", ID: saleID}}
	if applied {
		changes = append(changes, Change{Collection: "inventory", Action: "update", ID: itemID})
	}
	m.notify(changes...)
	return nil
}

// =============================================================================
// CLIENTS
// =============================================================================

func (m *Memory) ListClients(_ context.Context) ([]ledger.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sortedClientsLocked(""), nil
}

func (m *Memory) QueryClients(_ context.Context, filter string, offset, limit int) ([]ledger.Client, int, error) {
	m.mu.RLock()
	matches := m.sortedClientsLocked(filter)
	m.mu.RUnlock()

	total := len(matches)
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return matches[offset:end], total, nil
}

func (m *Memory) sortedClientsLocked(filter string) []ledger.Client {
	f := strings.ToLower(strings.TrimSpace(filter))
	out := make([]ledger.Client, 0, len(m.clients))
	for _, c := range m.clients {
		if f != "" &&
			!strings.Contains(strings.ToLower(c.Name), f) &&
			!strings.Contains(strings.ToLower(c.Email), f) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (m *Memory) GetClient(_ context.Context, id string) (*ledger.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (m *Memory) SaveClient(_ context.Context, c ledger.Client) error {
	m.mu.Lock()
	_, existed := m.clients[c.ID]
	m.clients[c.ID] = c
	m.mu.Unlock()

	m.notify(Change{Collection: "clients", Action: upsertAction(existed), ID: c.ID})
	return nil
}

func (m *Memory) DeleteClient(_ context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.clients[id]
	if ok {
		delete(m.clients, id)
	}
	m.mu.Unlock()

	if !ok {
		return ledger.ErrClientNotFound
	}
	m.notify(Change{Collection: "clients", Action: "delete", ID: id})
	return nil
}

// =============================================================================
// SELLERS
// =============================================================================

func (m *Memory) ListSellers(_ context.Context) ([]ledger.Seller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Seller, 0, len(m.sellers))
	for _, s := range m.sellers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *Memory) SaveSeller(_ context.Context, s ledger.Seller) error {
	m.mu.Lock()
	_, existed := m.sellers[s.ID]
	m.sellers[s.ID] = s
	m.mu.Unlock()

	m.notify(Change{Collection: "sellers", Action: upsertAction(existed), ID: s.ID})
	return nil
}

func (m *Memory) DeleteSeller(_ context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.sellers[id]
	if ok {
		delete(m.sellers, id)
	}
	m.mu.Unlock()

	if !ok {
		return ledger.ErrSellerNotFound
	}
	m.notify(Change{Collection: "sellers", Action: "delete", ID: id})
	return nil
}

// =============================================================================
// SHIPMENTS
// =============================================================================

func (m *Memory) ListShipments(_ context.Context, clientID string) ([]ledger.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ledger.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		if clientID != "" && s.ClientID != clientID {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ShippedAt != out[j].ShippedAt {
			return out[i].ShippedAt > out[j].ShippedAt
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetShipment(_ context.Context, id string) (*ledger.Shipment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.shipments[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) SaveShipment(_ context.Context, s ledger.Shipment) error {
	m.mu.Lock()
	_, existed := m.shipments[s.ID]
	m.shipments[s.ID] = s
	m.mu.Unlock()

	m.notify(Change{Collection: "shipments", Action: upsertAction(existed), ID: s.ID})
	return nil
}

func (m *Memory) DeleteShipment(_ context.Context, id string) error {
	m.mu.Lock()
	_, ok := m.shipments[id]
	if ok {
		delete(m.shipments, id)
	}
	m.mu.Unlock()

	if !ok {
		return ledger.ErrShipmentNotFound
	}
	m.notify(Change{Collection: "shipments", Action: "delete", ID: id})
	return nil
}

func upsertAction(existed bool) string {
	if existed {
		return "update"
	}
	return "insert"
}
