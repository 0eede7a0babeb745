package ordering

import "sort"

// OrderItem is one requested line: product, quantity and the unit price
// shown to the customer at selection time.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
	UnitPrice int   `json:"unit_price"`
}

// OrderRequest is the boundary payload of order placement. StoreID is
// trusted as already authenticated upstream.
type OrderRequest struct {
	StoreID       int64       `json:"store_id"`
	AttributeID   int64       `json:"attribute_id"`
	Items         []OrderItem `json:"items"`
	TotalAmount   int         `json:"total_amount"`
	PaymentMethod string      `json:"payment_method"`
	TakeOutType   string      `json:"take_out_type"`
}

// ValidatedOrder is an OrderRequest that passed the validation pipeline.
// Only the placer constructs it.
type ValidatedOrder struct {
	OrderRequest
}

// lockOrder returns the line items sorted by product id. Inventory rows
// are always locked in this canonical order so that concurrent multi-item
// orders touching overlapping products cannot deadlock. Detail rows keep
// the request order.
func (v *ValidatedOrder) lockOrder() []OrderItem {
	items := make([]OrderItem, len(v.Items))
	copy(items, v.Items)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})
	return items
}
