package ordering

import (
	"context"
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiosklab/vendtix/internal/domain"
)

// GormCatalog implements Catalog over the master data tables.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) StoreExists(ctx context.Context, storeID int64) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&domain.Store{}).Where("id = ?", storeID).Count(&count).Error
	if err != nil {
		return false, &PersistenceError{Op: "query store", Err: pkgerrors.WithStack(err)}
	}
	return count > 0, nil
}

func (c *GormCatalog) ProductExists(ctx context.Context, productID int64) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&domain.Product{}).Where("id = ?", productID).Count(&count).Error
	if err != nil {
		return false, &PersistenceError{Op: "query product", Err: pkgerrors.WithStack(err)}
	}
	return count > 0, nil
}

// GormTxScope creates one database transaction per Execute call. With a
// positive lock timeout the transaction fails instead of waiting
// indefinitely on a row lock held by a stalled competitor.
type GormTxScope struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewGormTxScope(db *gorm.DB, lockTimeout time.Duration) *GormTxScope {
	return &GormTxScope{db: db, lockTimeout: lockTimeout}
}

func (s *GormTxScope) Execute(ctx context.Context, fn func(repos TxRepos) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return &PersistenceError{Op: "set lock_timeout", Err: pkgerrors.WithStack(err)}
			}
		}
		return fn(&gormTxRepos{tx: tx})
	})
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if IsBusinessError(err) || errors.As(err, &pe) {
		return err
	}
	// begin/commit faults reach here unwrapped
	return &PersistenceError{Op: "transaction", Err: pkgerrors.WithStack(err)}
}

type gormTxRepos struct {
	tx *gorm.DB
}

func (r *gormTxRepos) Ledger() InventoryLedger {
	return &GormLedger{db: r.tx}
}

func (r *gormTxRepos) Orders() OrderWriter {
	return &GormOrderWriter{db: r.tx}
}

// GormLedger implements InventoryLedger with SELECT ... FOR UPDATE row
// locks. It must run inside a transaction: the lock is released at commit
// or rollback, and a competing transaction blocks on the same row until
// then, observing the committed result.
type GormLedger struct {
	db *gorm.DB
}

func NewGormLedger(tx *gorm.DB) *GormLedger {
	return &GormLedger{db: tx}
}

func (l *GormLedger) Deduct(ctx context.Context, storeID, productID int64, quantity int) (int, error) {
	var inv domain.StoreInventory
	err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, &InsufficientStockError{ProductID: productID, Requested: quantity, Available: 0}
	}
	if err != nil {
		return 0, &PersistenceError{Op: "lock inventory", Err: pkgerrors.WithStack(err)}
	}

	if inv.CurrentStock < quantity {
		return 0, &InsufficientStockError{
			ProductID: productID,
			Requested: quantity,
			Available: inv.CurrentStock,
		}
	}

	remaining := inv.CurrentStock - quantity
	err = l.db.WithContext(ctx).Model(&domain.StoreInventory{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Update("current_stock", remaining).Error
	if err != nil {
		return 0, &PersistenceError{Op: "decrement inventory", Err: pkgerrors.WithStack(err)}
	}
	return remaining, nil
}

func (l *GormLedger) SetStock(ctx context.Context, storeID, productID int64, stock int) error {
	var inv domain.StoreInventory
	err := l.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInventoryNotFound
	}
	if err != nil {
		return &PersistenceError{Op: "lock inventory", Err: pkgerrors.WithStack(err)}
	}

	err = l.db.WithContext(ctx).Model(&domain.StoreInventory{}).
		Where("store_id = ? AND product_id = ?", storeID, productID).
		Update("current_stock", stock).Error
	if err != nil {
		return &PersistenceError{Op: "set stock", Err: pkgerrors.WithStack(err)}
	}
	return nil
}

// GormOrderWriter persists order headers and details inside the current
// transaction.
type GormOrderWriter struct {
	db *gorm.DB
}

func (w *GormOrderWriter) CreateOrder(ctx context.Context, order *domain.Order) error {
	if err := w.db.WithContext(ctx).Create(order).Error; err != nil {
		return &PersistenceError{Op: "create order", Err: pkgerrors.WithStack(err)}
	}
	return nil
}

func (w *GormOrderWriter) CreateDetails(ctx context.Context, details []domain.OrderDetail) error {
	if len(details) == 0 {
		return nil
	}
	if err := w.db.WithContext(ctx).Create(&details).Error; err != nil {
		return &PersistenceError{Op: "create order details", Err: pkgerrors.WithStack(err)}
	}
	return nil
}
