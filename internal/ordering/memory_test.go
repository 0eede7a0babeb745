package ordering

import (
	"context"
	"errors"
	"sync"

	"github.com/kiosklab/vendtix/internal/domain"
)

var errInjected = errors.New("injected fault")

// In-memory doubles for the ordering repositories. The scope serializes
// whole transactions with a mutex, which models the pessimistic row-lock
// behavior for contended rows: the second transaction only ever observes
// the first one's committed (or discarded) state. Writes are staged per
// transaction and applied atomically on commit, so a mid-transaction
// failure leaves the shared state untouched.

type invKey struct {
	storeID   int64
	productID int64
}

type memCatalog struct {
	stores   map[int64]bool
	products map[int64]bool
}

func (c *memCatalog) StoreExists(_ context.Context, storeID int64) (bool, error) {
	return c.stores[storeID], nil
}

func (c *memCatalog) ProductExists(_ context.Context, productID int64) (bool, error) {
	return c.products[productID], nil
}

type memState struct {
	mu      sync.Mutex
	stock   map[invKey]int
	orders  []domain.Order
	details []domain.OrderDetail
	// deductLog records the product id of every Deduct call in
	// invocation order, committed or not
	deductLog []int64
}

type memScope struct {
	state *memState
	// failOn lets a test inject a persistence fault at a named step
	failOn string
}

func (s *memScope) Execute(_ context.Context, fn func(repos TxRepos) error) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	tx := &memTx{state: s.state, staged: make(map[invKey]int), failOn: s.failOn}
	if err := fn(tx); err != nil {
		return err
	}

	for key, stock := range tx.staged {
		s.state.stock[key] = stock
	}
	s.state.orders = append(s.state.orders, tx.orders...)
	s.state.details = append(s.state.details, tx.details...)
	return nil
}

type memTx struct {
	state   *memState
	staged  map[invKey]int
	orders  []domain.Order
	details []domain.OrderDetail
	failOn  string
}

func (t *memTx) Ledger() InventoryLedger { return (*memLedger)(t) }
func (t *memTx) Orders() OrderWriter     { return (*memWriter)(t) }

type memLedger memTx

func (l *memLedger) current(key invKey) (int, bool) {
	if stock, ok := l.staged[key]; ok {
		return stock, true
	}
	stock, ok := l.state.stock[key]
	return stock, ok
}

func (l *memLedger) Deduct(_ context.Context, storeID, productID int64, quantity int) (int, error) {
	if l.failOn == "deduct" {
		return 0, &PersistenceError{Op: "deduct", Err: errInjected}
	}
	l.state.deductLog = append(l.state.deductLog, productID)
	key := invKey{storeID: storeID, productID: productID}
	stock, ok := l.current(key)
	if !ok {
		return 0, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: 0}
	}
	if stock < quantity {
		return 0, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: stock}
	}
	l.staged[key] = stock - quantity
	return stock - quantity, nil
}

func (l *memLedger) SetStock(_ context.Context, storeID, productID int64, stock int) error {
	key := invKey{storeID: storeID, productID: productID}
	if _, ok := l.current(key); !ok {
		return ErrInventoryNotFound
	}
	l.staged[key] = stock
	return nil
}

type memWriter memTx

func (w *memWriter) CreateOrder(_ context.Context, order *domain.Order) error {
	if w.failOn == "create-order" {
		return &PersistenceError{Op: "create order", Err: errInjected}
	}
	w.orders = append(w.orders, *order)
	return nil
}

func (w *memWriter) CreateDetails(_ context.Context, details []domain.OrderDetail) error {
	if w.failOn == "create-details" {
		return &PersistenceError{Op: "create order details", Err: errInjected}
	}
	w.details = append(w.details, details...)
	return nil
}
