// internal/domain/cart/store.go
package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/fashion-storefront/internal/pkg/metrics"
)

// StoreConfig holds the quantity policy of a cart
type StoreConfig struct {
	MaxQuantity int
	// ClampMerged caps a merged line at MaxQuantity instead of letting it grow
	ClampMerged bool
}

// Store is the cart of one authenticated user. Its in-memory state is
// authoritative; every mutation is written through to the persister.
type Store struct {
	userID    string
	cfg       StoreConfig
	persister Persister
	logger    logrus.FieldLogger
	metrics   *metrics.Metrics

	mu        sync.Mutex
	items     []LineItem
	updatedAt time.Time
	// pending is set until the saved cart has been read; saves are refused
	pending     bool
	dirty       bool
	checkingOut bool
	lastUsed    time.Time
}

func newStore(userID string, cfg StoreConfig, p Persister, logger logrus.FieldLogger, m *metrics.Metrics) *Store {
	return &Store{
		userID:    userID,
		cfg:       cfg,
		persister: p,
		logger:    logger.WithField("user_id", userID),
		metrics:   m,
		items:     []LineItem{},
	}
}

// UserID returns the owner of the cart
func (s *Store) UserID() string {
	return s.userID
}

// AddItem adds a product variant. An existing line with the same product,
// size and color has its quantity increased instead of a new line being added.
func (s *Store) AddItem(ctx context.Context, in ItemInput) (LineItem, error) {
	if err := s.validateInput(in); err != nil {
		s.metrics.CartOperation("add", err)
		return LineItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.mergeLocked(LineItem{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Name:      in.Name,
		Image:     in.Image,
		UnitPrice: in.UnitPrice,
		Size:      in.Size,
		Color:     in.Color,
		Quantity:  in.Quantity,
		AddedAt:   time.Now().UTC(),
	})
	line := s.items[i]

	err := s.persistLocked(ctx, "add")
	return line, err
}

// RemoveItem removes the line with the given id. Unknown ids are ignored.
func (s *Store) RemoveItem(ctx context.Context, lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.removeLocked(lineID) {
		return nil
	}
	return s.persistLocked(ctx, "remove")
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
// Lines are never merged by an update. Unknown ids are ignored.
// A merged line may have grown past the maximum, so lowering it is always
// allowed; only raising a line above the maximum is rejected.
func (s *Store) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		if !s.removeLocked(lineID) {
			return nil
		}
		return s.persistLocked(ctx, "update")
	}

	for i := range s.items {
		if s.items[i].ID != lineID {
			continue
		}
		if quantity > s.cfg.MaxQuantity && quantity > s.items[i].Quantity {
			err := &ValidationError{
				Field:   "quantity",
				Message: fmt.Sprintf("Quantity must be between 1 and %d", s.cfg.MaxQuantity),
			}
			s.metrics.CartOperation("update", err)
			return err
		}
		s.items[i].Quantity = quantity
		return s.persistLocked(ctx, "update")
	}
	return nil
}

// Clear empties the cart and persists the empty state
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []LineItem{}
	return s.persistLocked(ctx, "clear")
}

// BeginCheckout returns the lines to be ordered and marks the cart as being
// checked out until EndCheckout. A second submit gets ErrCheckoutInProgress.
func (s *Store) BeginCheckout() ([]LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending {
		return nil, ErrCartNotLoaded
	}
	if s.checkingOut {
		return nil, ErrCheckoutInProgress
	}
	s.checkingOut = true

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	return items, nil
}

// EndCheckout releases the mark set by BeginCheckout
func (s *Store) EndCheckout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkingOut = false
}

// RemoveOrdered takes the ordered quantities out of the cart. Lines added,
// or quantity added to a line, while the order was placed stay in the cart.
func (s *Store) RemoveOrdered(ctx context.Context, ordered []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, o := range ordered {
		for i := range s.items {
			if s.items[i].ID != o.ID {
				continue
			}
			if s.items[i].Quantity > o.Quantity {
				s.items[i].Quantity -= o.Quantity
			} else {
				s.removeLocked(o.ID)
			}
			changed = true
			break
		}
	}

	if !changed {
		return nil
	}
	return s.persistLocked(ctx, "checkout")
}

// Items returns a copy of the line items in insertion order
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is the sum of all quantities
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, li := range s.items {
		total += li.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity over all lines
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalPrice(s.items)
}

// View returns the items and totals read under one lock
func (s *Store) View() *CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]LineItem, len(s.items))
	copy(items, s.items)

	count := 0
	for _, li := range items {
		count += li.Quantity
	}

	return &CartResponse{
		Items:      items,
		TotalItems: count,
		TotalPrice: totalPrice(items),
		UpdatedAt:  s.updatedAt,
	}
}

func (s *Store) validateInput(in ItemInput) error {
	if in.ProductID == "" {
		return &ValidationError{Field: "product_id", Message: "Product is required"}
	}
	if in.Size == "" {
		return &ValidationError{Field: "size", Message: "Please select a size"}
	}
	if in.Color == "" {
		return &ValidationError{Field: "color", Message: "Please select a color"}
	}
	if in.Quantity < 1 || in.Quantity > s.cfg.MaxQuantity {
		return &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("Quantity must be between 1 and %d", s.cfg.MaxQuantity),
		}
	}
	return nil
}

// mergeLocked adds li to the matching variant line, or appends it, and
// returns the index of the line that holds it
func (s *Store) mergeLocked(li LineItem) int {
	for i := range s.items {
		if !s.items[i].sameVariant(li) {
			continue
		}
		qty := s.items[i].Quantity + li.Quantity
		if s.cfg.ClampMerged && qty > s.cfg.MaxQuantity {
			qty = s.cfg.MaxQuantity
		}
		s.items[i].Quantity = qty
		return i
	}
	s.items = append(s.items, li)
	return len(s.items) - 1
}

func (s *Store) removeLocked(lineID string) bool {
	for i := range s.items {
		if s.items[i].ID == lineID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// persistLocked writes the current state. s.mu must be held.
func (s *Store) persistLocked(ctx context.Context, op string) error {
	s.updatedAt = time.Now().UTC()

	if s.pending {
		perr := &PersistenceError{Op: "save", Err: ErrCartNotLoaded}
		s.dirty = true
		s.logger.WithField("operation", op).Warn("Cart change kept in memory until the saved cart loads")
		s.metrics.CartOperation(op, perr)
		return perr
	}

	items := make([]LineItem, len(s.items))
	copy(items, s.items)
	snap := &Snapshot{UserID: s.userID, Items: items, UpdatedAt: s.updatedAt}

	if err := s.persister.Save(ctx, snap); err != nil {
		perr := &PersistenceError{Op: "save", Err: err}
		s.dirty = true
		s.logger.WithError(err).WithField("operation", op).Error("Failed to persist cart")
		s.metrics.CartOperation(op, perr)
		return perr
	}

	s.dirty = false
	s.metrics.CartOperation(op, nil)
	return nil
}

// adopt installs the saved cart once it has been read. Lines added while
// it was unavailable are merged on top and the result is saved.
func (s *Store) adopt(ctx context.Context, snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		return nil
	}
	s.pending = false

	session := s.items
	s.items = []LineItem{}
	if snap != nil {
		s.items = append(s.items, snap.Items...)
		s.updatedAt = snap.UpdatedAt
	}
	if len(session) == 0 {
		return nil
	}
	for _, li := range session {
		s.mergeLocked(li)
	}
	return s.persistLocked(ctx, "merge")
}

func (s *Store) isPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

func (s *Store) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = now
}

// evictable reports whether the store has been idle for at least idle and
// holds nothing that exists only in memory
func (s *Store) evictable(now time.Time, idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.pending && !s.dirty && !s.checkingOut && now.Sub(s.lastUsed) >= idle
}

func totalPrice(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.LineTotal())
	}
	return total
}
