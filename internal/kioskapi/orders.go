package kioskapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/kiosklab/vendtix/internal/ordering"
	"github.com/kiosklab/vendtix/internal/webserver"
)

// createOrder is the order placement boundary. It maps every business
// rejection from the ordering core to a structured response naming the
// offending line; store faults surface as an opaque 500 after the core
// has rolled back.
func createOrder(c echo.Context) error {
	var req ordering.OrderRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", nil)
	}

	receipt, err := webserver.GetPlacer(c).Place(c.Request().Context(), req)
	if err != nil {
		return orderError(c, err)
	}

	// The event carries the header's OrderedAt so the rollup lands on the
	// same day as the order row, even when publication straddles midnight.
	webserver.GetBus(c).Publish(ordering.TopicOrderCommitted, ordering.CommittedEvent{
		OrderID:     receipt.OrderID,
		StoreID:     req.StoreID,
		TotalAmount: req.TotalAmount,
		OrderedAt:   receipt.OrderedAt,
	})

	return ok(c, map[string]interface{}{
		"status":   "success",
		"order_id": receipt.OrderID,
	})
}

func orderError(c echo.Context, err error) error {
	var (
		productNotFound   *ordering.ProductNotFoundError
		invalidQuantity   *ordering.InvalidQuantityError
		tooManyItems      *ordering.TooManyItemsError
		insufficientStock *ordering.InsufficientStockError
	)
	switch {
	case errors.Is(err, ordering.ErrStoreNotFound):
		return fail(c, http.StatusNotFound, "STORE_NOT_FOUND", "Store not found", nil)
	case errors.Is(err, ordering.ErrEmptyOrder):
		return fail(c, http.StatusBadRequest, "EMPTY_ORDER", "Order has no items", nil)
	case errors.As(err, &productNotFound):
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found",
			map[string]interface{}{"product_id": productNotFound.ProductID})
	case errors.As(err, &invalidQuantity):
		return fail(c, http.StatusBadRequest, "INVALID_QUANTITY", "Quantity out of range",
			map[string]interface{}{
				"product_id": invalidQuantity.ProductID,
				"quantity":   invalidQuantity.Quantity,
			})
	case errors.As(err, &tooManyItems):
		return fail(c, http.StatusBadRequest, "TOO_MANY_ITEMS", "Order has too many items",
			map[string]interface{}{
				"count": tooManyItems.Count,
				"max":   tooManyItems.Max,
			})
	case errors.As(err, &insufficientStock):
		return fail(c, http.StatusBadRequest, "INSUFFICIENT_STOCK", "Not enough stock for product",
			map[string]interface{}{
				"product_id": insufficientStock.ProductID,
				"requested":  insufficientStock.Requested,
				"available":  insufficientStock.Available,
			})
	}

	zap.L().Error("order placement fault", zap.Error(err))
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Order could not be processed", nil)
}
