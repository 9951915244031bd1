// Package cart holds the client-local cart and persists it through a fiber.Storage.
package cart

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/example/footwear-wholesale/domain/product"
	"github.com/gofiber/fiber/v2"
)

// StorageKey is the key the whole cart is stored under.
const StorageKey = "cart-storage"

// DefaultFloor is the smallest quantity a line may keep after a decrement.
const DefaultFloor = 1

// ErrInvalidQuantity is returned for a non-positive quantity or step.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Item is one cart line: a product snapshot, a quantity and the selected color.
// Lines are identified by product id and color.
type Item struct {
	Product       product.Product `json:"product"`
	Quantity      int             `json:"quantity"`
	SelectedColor string          `json:"selected_color,omitempty"`
}

// LineTotal returns price times quantity.
func (i Item) LineTotal() int {
	return i.Product.Price * i.Quantity
}

type snapshot struct {
	Items []Item `json:"items"`
}

// Store is the cart state container. Every mutation is written through to storage.
type Store struct {
	mu      sync.RWMutex
	items   []Item
	storage fiber.Storage
	floor   int
}

// Option configures a Store.
type Option func(*Store)

// WithFloor sets the decrement floor. Values below 1 are ignored.
func WithFloor(floor int) Option {
	return func(s *Store) {
		if floor >= 1 {
			s.floor = floor
		}
	}
}

// New creates an empty cart. A nil storage keeps the cart in memory only.
// Call Hydrate to load a previously persisted cart.
func New(storage fiber.Storage, opts ...Option) *Store {
	s := &Store{
		items:   []Item{},
		storage: storage,
		floor:   DefaultFloor,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hydrate replaces the in-memory cart with the persisted one, if any.
func (s *Store) Hydrate() error {
	if s.storage == nil {
		return nil
	}
	data, err := s.storage.Get(StorageKey)
	if err != nil {
		return fmt.Errorf("failed to load cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(data) == 0 {
		s.items = []Item{}
		return nil
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("failed to decode cart: %w", err)
	}
	items := make([]Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		if it.Quantity >= 1 {
			items = append(items, it)
		}
	}
	s.items = items
	return nil
}

// Add merges qty into the line for (p.ID, color) or appends a new line.
func (s *Store) Add(p product.Product, qty int, color string) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(p.ID, color); i >= 0 {
		s.items[i].Quantity += qty
	} else {
		s.items = append(s.items, Item{Product: p, Quantity: qty, SelectedColor: color})
	}
	return s.persist()
}

// RemoveLine drops the line for (productID, color). A missing line is a no-op.
func (s *Store) RemoveLine(productID, color string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID, color)
	if i < 0 {
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return s.persist()
}

// DecrementQuantity lowers the line by step. The line is removed once its
// quantity would fall below the floor.
func (s *Store) DecrementQuantity(productID string, step int, color string) error {
	if step < 1 {
		return ErrInvalidQuantity
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(productID, color)
	if i < 0 {
		return nil
	}
	if remaining := s.items[i].Quantity - step; remaining < s.floor {
		s.items = append(s.items[:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity = remaining
	}
	return s.persist()
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []Item{}
	if s.storage == nil {
		return nil
	}
	if err := s.storage.Delete(StorageKey); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Items returns a copy of the current lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of lines.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// TotalQuantity returns the sum of line quantities.
func (s *Store) TotalQuantity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice returns the sum of price times quantity over all lines.
func (s *Store) TotalPrice() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, it := range s.items {
		total += it.LineTotal()
	}
	return total
}

func (s *Store) indexOf(productID, color string) int {
	for i, it := range s.items {
		if it.Product.ID == productID && it.SelectedColor == color {
			return i
		}
	}
	return -1
}

// persist must be called with the lock held.
func (s *Store) persist() error {
	if s.storage == nil {
		return nil
	}
	data, err := json.Marshal(snapshot{Items: s.items})
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.storage.Set(StorageKey, data, 0); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}
