package ordering

import (
	"context"

	"github.com/kiosklab/vendtix/internal/domain"
)

// Catalog provides the read-only master data checks used by validation.
// Implementations must not mutate anything.
type Catalog interface {
	StoreExists(ctx context.Context, storeID int64) (bool, error)
	ProductExists(ctx context.Context, productID int64) (bool, error)
}

// InventoryLedger owns the per-(store, product) stock rows. Both methods
// must acquire an exclusive lock on the target row before reading, and
// hold it until the enclosing transaction ends, so that concurrent
// check-and-decrement sequences serialize. The admin absolute overwrite
// uses the same lock as order decrements to avoid lost updates.
type InventoryLedger interface {
	// Deduct subtracts quantity from the row's current stock and returns
	// the remaining stock. If the stock does not cover the quantity (or
	// the row does not exist, available 0) it returns an
	// *InsufficientStockError and performs no write.
	Deduct(ctx context.Context, storeID, productID int64, quantity int) (int, error)

	// SetStock overwrites current stock with an absolute value.
	// Returns ErrInventoryNotFound if the row does not exist.
	SetStock(ctx context.Context, storeID, productID int64, stock int) error
}

// OrderWriter persists order headers and line items.
type OrderWriter interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	CreateDetails(ctx context.Context, details []domain.OrderDetail) error
}

// TxRepos exposes repositories bound to a single transaction. Everything
// obtained from one TxRepos commits or rolls back together.
type TxRepos interface {
	Ledger() InventoryLedger
	Orders() OrderWriter
}

// TxScope runs fn inside a fresh transaction created for this call. If fn
// returns an error the transaction is rolled back and the error returned
// unchanged; otherwise the transaction is committed. A commit fault
// surfaces as a *PersistenceError.
type TxScope interface {
	Execute(ctx context.Context, fn func(repos TxRepos) error) error
}
