package ordering

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/pkg/common"
)

// OrderPlacer orchestrates the order lifecycle: validate, then inside one
// transaction create the header, lock and decrement every line's
// inventory row, and insert the detail rows. Any line failure rolls the
// whole transaction back; no partial order, detail set or decrement is
// ever observable. Execution is exactly-once with no internal retry, so a
// client resubmitting after a committed order creates a second order.
type OrderPlacer struct {
	validator *Validator
	scope     TxScope
	now       func() time.Time
	newID     func() int64
}

func NewOrderPlacer(catalog Catalog, scope TxScope) *OrderPlacer {
	return &OrderPlacer{
		validator: NewValidator(catalog),
		scope:     scope,
		now:       time.Now,
		newID:     common.UUIDint64,
	}
}

// SetLimits installs the runtime order caps. The function is consulted
// on every placement.
func (p *OrderPlacer) SetLimits(fn func() Limits) {
	p.validator.limits = fn
}

// Receipt identifies a committed order. OrderedAt is the header
// timestamp, the one the sales rollup must be keyed on.
type Receipt struct {
	OrderID   int64
	OrderedAt time.Time
}

// Place runs one order placement and returns the committed order's
// receipt. Business rejections come back as the typed errors of this
// package; store faults come back as *PersistenceError after full
// rollback.
func (p *OrderPlacer) Place(ctx context.Context, req OrderRequest) (Receipt, error) {
	validated, err := p.validator.Validate(ctx, req)
	if err != nil {
		return Receipt{}, err
	}

	order := &domain.Order{
		ID:            p.newID(),
		StoreID:       validated.StoreID,
		AttributeID:   validated.AttributeID,
		OrderedAt:     p.now(),
		TotalAmount:   validated.TotalAmount,
		PaymentMethod: validated.PaymentMethod,
		TakeOutType:   validated.TakeOutType,
	}

	err = p.scope.Execute(ctx, func(repos TxRepos) error {
		if err := repos.Orders().CreateOrder(ctx, order); err != nil {
			return err
		}

		for _, item := range validated.lockOrder() {
			if _, err := repos.Ledger().Deduct(ctx, order.StoreID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		details := make([]domain.OrderDetail, 0, len(validated.Items))
		for _, item := range validated.Items {
			details = append(details, domain.OrderDetail{
				ID:        p.newID(),
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
			})
		}
		return repos.Orders().CreateDetails(ctx, details)
	})
	if err != nil {
		if !IsBusinessError(err) {
			zap.L().Error("order placement failed",
				zap.Int64("store_id", req.StoreID),
				zap.Error(err))
		}
		return Receipt{}, err
	}

	zap.L().Info("order committed",
		zap.Int64("order_id", order.ID),
		zap.Int64("store_id", order.StoreID),
		zap.Int("total_amount", order.TotalAmount),
		zap.Int("lines", len(validated.Items)))
	return Receipt{OrderID: order.ID, OrderedAt: order.OrderedAt}, nil
}

// SetStock is the admin absolute stock overwrite. It runs in its own
// transaction and takes the same row lock as order decrements.
func (p *OrderPlacer) SetStock(ctx context.Context, storeID, productID int64, stock int) error {
	return p.scope.Execute(ctx, func(repos TxRepos) error {
		return repos.Ledger().SetStock(ctx, storeID, productID, stock)
	})
}
