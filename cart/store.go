// Package cart holds session carts in memory.
package cart

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/brianmwiruki/Thrills/models"
)

// MaxQuantity is the largest quantity a single line may hold.
const MaxQuantity = 999

var (
	ErrInvalidSelection = errors.New("cart: invalid selection")
	ErrInvalidQuantity  = errors.New("cart: quantity must be between 1 and 999")
)

// Selection is what the shopper picked on a product page.
type Selection struct {
	Product models.Product
	Variant *models.Variant
	Color   string
	Size    string
}

// ItemKey is the exact-match key of a line: product id plus variant id.
// Two variants of the same product are two lines.
func ItemKey(productID string, variantID int64) string {
	if variantID == 0 {
		return productID
	}
	return productID + ":" + strconv.FormatInt(variantID, 10)
}

// Snapshot is the published state of a cart after a change.
type Snapshot struct {
	Items      []models.LineItem `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPrice models.Cents      `json:"total_price"`
	Version    uint64            `json:"version"`
}

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Store owns the line items of one session. Every method holds the store
// mutex for its whole duration, so mutations never interleave.
type Store struct {
	mu      sync.Mutex
	clock   Clock
	items   []models.LineItem
	version uint64
	touched time.Time
	nextSub int
	subs    map[int]chan Snapshot
}

func NewStore() *Store {
	return NewStoreWithClock(systemClock{})
}

// NewStoreWithClock is useful for tests.
func NewStoreWithClock(clock Clock) *Store {
	if clock == nil {
		clock = systemClock{}
	}
	return &Store{clock: clock, touched: clock.Now(), subs: map[int]chan Snapshot{}}
}

// AddItem adds one unit of sel. A line with the same product and variant id
// is incremented instead of duplicated.
func (s *Store) AddItem(sel Selection) error {
	return s.AddItems(sel, 1)
}

// AddItems adds n units of sel in a single mutation.
func (s *Store) AddItems(sel Selection, n int) error {
	if sel.Product.ID == "" {
		return ErrInvalidSelection
	}
	if n <= 0 || n > MaxQuantity {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var variantID int64
	if sel.Variant != nil {
		variantID = sel.Variant.ID
	}
	key := ItemKey(sel.Product.ID, variantID)

	if idx := s.indexOf(key); idx >= 0 {
		if s.items[idx].Quantity > MaxQuantity-n {
			return ErrInvalidQuantity
		}
		s.items[idx].Quantity += n
		s.changed()
		return nil
	}

	line := models.LineItem{
		Key:           key,
		ProductID:     sel.Product.ID,
		ProductName:   sel.Product.Name,
		Image:         sel.Product.PrimaryImage(),
		SelectedColor: sel.Color,
		SelectedSize:  sel.Size,
		UnitPrice:     sel.Product.Price,
		Quantity:      n,
		AddedAt:       s.clock.Now(),
	}
	if sel.Variant != nil {
		line.VariantID = sel.Variant.ID
		line.VariantTitle = sel.Variant.Title
		line.UnitPrice = sel.Variant.Price
	}
	s.items = append(s.items, line)
	s.changed()
	return nil
}

// UpdateQuantity sets the quantity of key. A quantity <= 0 removes the line;
// one above MaxQuantity is rejected and leaves the line unchanged.
func (s *Store) UpdateQuantity(key string, quantity int) error {
	if quantity > MaxQuantity {
		return ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(key)
	if idx < 0 {
		return nil
	}
	if quantity <= 0 {
		s.removeAt(idx)
	} else {
		if s.items[idx].Quantity == quantity {
			return nil
		}
		s.items[idx].Quantity = quantity
	}
	s.changed()
	return nil
}

// RemoveItem deletes the line for key; an absent key is a no-op.
func (s *Store) RemoveItem(key string) {
	_ = s.UpdateQuantity(key, 0)
}

// ClearCart empties the cart. Clearing an empty cart changes nothing.
func (s *Store) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return
	}
	s.items = nil
	s.changed()
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Item returns the line for key.
func (s *Store) Item(key string) (models.LineItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexOf(key); idx >= 0 {
		return s.items[idx], true
	}
	return models.LineItem{}, false
}

func (s *Store) GetTotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// GetTotalPrice sums the prices captured at add time.
func (s *Store) GetTotalPrice() models.Cents {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// LastActivity is the time of the last mutation.
func (s *Store) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Subscribe returns a channel receiving a snapshot after every change. A slow
// reader only ever sees the latest snapshot. cancel closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
	return ch, cancel
}

func (s *Store) hasSubscribers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs) > 0
}

func (s *Store) indexOf(key string) int {
	for i := range s.items {
		if s.items[i].Key == key {
			return i
		}
	}
	return -1
}

func (s *Store) removeAt(idx int) {
	s.items = append(s.items[:idx], s.items[idx+1:]...)
}

func (s *Store) copyItems() []models.LineItem {
	out := make([]models.LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{
		Items:      s.copyItems(),
		TotalItems: totalItems(s.items),
		TotalPrice: totalPrice(s.items),
		Version:    s.version,
	}
}

// changed must be called with mu held.
func (s *Store) changed() {
	s.version++
	s.touched = s.clock.Now()
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshot()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// replace the stale snapshot
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
}

func totalItems(items []models.LineItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func totalPrice(items []models.LineItem) models.Cents {
	var sum models.Cents
	for _, it := range items {
		sum += it.LineTotal()
	}
	return sum
}
