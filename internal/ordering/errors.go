package ordering

import (
	"errors"
	"fmt"
)

// Business outcomes of order placement. These are expected rejections,
// reported to the caller with enough detail to identify the offending
// line. Anything else coming out of the ordering core is a
// *PersistenceError and must be treated as opaque.
var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInventoryNotFound = errors.New("inventory not found")
)

type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

type InvalidQuantityError struct {
	ProductID int64
	Quantity  int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for product %d", e.Quantity, e.ProductID)
}

type TooManyItemsError struct {
	Count int
	Max   int
}

func (e *TooManyItemsError) Error() string {
	return fmt.Sprintf("order has %d items, at most %d allowed", e.Count, e.Max)
}

type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// PersistenceError marks a fatal store fault (lock wait expiry, read,
// write or commit failure). The transaction is always rolled back before
// one of these is returned.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence fault: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsBusinessError reports whether err is an expected order rejection as
// opposed to a fatal store fault.
func IsBusinessError(err error) bool {
	var (
		productNotFound   *ProductNotFoundError
		invalidQuantity   *InvalidQuantityError
		tooManyItems      *TooManyItemsError
		insufficientStock *InsufficientStockError
	)
	switch {
	case errors.Is(err, ErrStoreNotFound),
		errors.Is(err, ErrEmptyOrder),
		errors.Is(err, ErrInventoryNotFound),
		errors.As(err, &productNotFound),
		errors.As(err, &invalidQuantity),
		errors.As(err, &tooManyItems),
		errors.As(err, &insufficientStock):
		return true
	}
	return false
}
