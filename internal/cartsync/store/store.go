// Package store holds the authoritative in-process cart and its dirty flag,
// persisting every mutation so the cart survives restarts.
package store

import (
	"sync"

	"storefront/internal/domain"
)

const (
	itemsKey = "cart/items"
	dirtyKey = "cart/dirty"
)

// KV is the persistence contract the store writes through. Satisfied by
// localstore.Store.
type KV interface {
	Get(key string, v any) (bool, error)
	Set(key string, v any) error
}

// Store is a mutable cart snapshot with explicit state-transition operations.
// All mutations set the dirty flag; only ClearDirty clears it.
type Store struct {
	mu    sync.Mutex
	items []domain.CartItem
	dirty bool
	kv    KV
}

// New loads the persisted snapshot, if any. A nil kv keeps the cart
// memory-only.
func New(kv KV) (*Store, error) {
	s := &Store{kv: kv}
	if kv == nil {
		return s, nil
	}
	if _, err := kv.Get(itemsKey, &s.items); err != nil {
		return nil, err
	}
	if _, err := kv.Get(dirtyKey, &s.dirty); err != nil {
		return nil, err
	}
	return s, nil
}

// Add puts one unit of the product in the cart, incrementing quantity when
// the product is already present.
func (s *Store) Add(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == p.ID {
			s.items[i].Quantity++
			s.markDirty()
			return
		}
	}
	s.items = append(s.items, domain.CartItem{
		ID:          p.ID,
		Name:        p.Name,
		PriceCents:  p.PriceCents,
		Description: p.Description,
		Quantity:    1,
	})
	s.markDirty()
}

// Remove drops the item; absent ids are a no-op but still mark dirty.
func (s *Store) Remove(productID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
	s.markDirty()
}

// SetQuantity updates the item's quantity; qty <= 0 behaves as Remove.
func (s *Store) SetQuantity(productID int64, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if qty <= 0 {
		s.removeLocked(productID)
		s.markDirty()
		return
	}
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = qty
			break
		}
	}
	s.markDirty()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.markDirty()
}

// ReplaceAll overwrites the whole snapshot (login-time merge result).
func (s *Store) ReplaceAll(items []domain.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]domain.CartItem(nil), items...)
	s.markDirty()
}

// Items returns a copy of the current snapshot.
func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.CartItem(nil), s.items...)
}

// ItemCount is the sum of quantities over current items.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPriceCents is the sum of price times quantity over current items.
func (s *Store) TotalPriceCents() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.items {
		total += item.PriceCents * int64(item.Quantity)
	}
	return total
}

// Dirty reports whether the cart has mutations not yet pushed to the server.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// ClearDirty marks the snapshot as committed. Call only after a successful
// push.
func (s *Store) ClearDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
	s.persist()
}

func (s *Store) removeLocked(productID int64) {
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *Store) markDirty() {
	s.dirty = true
	s.persist()
}

// persist is best-effort: a failed write leaves the in-memory state
// authoritative for this process, matching how browser storage quota
// failures are tolerated.
func (s *Store) persist() {
	if s.kv == nil {
		return
	}
	items := s.items
	if items == nil {
		items = []domain.CartItem{}
	}
	_ = s.kv.Set(itemsKey, items)
	_ = s.kv.Set(dirtyKey, s.dirty)
}
