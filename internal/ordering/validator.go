package ordering

import "context"

// Limits are the runtime-tunable order caps. Zero fields disable the
// corresponding check.
type Limits struct {
	MaxItems           int
	MaxQuantityPerLine int
}

// Validator checks an incoming order request against master data before
// any mutation. It performs read-only checks and deliberately no stock
// check: stock sufficiency is only meaningful under the row lock, an
// unlocked read would be stale by the time the transaction runs.
type Validator struct {
	catalog Catalog
	// limits is read per request so settings changes apply without a
	// restart; nil means unlimited
	limits func() Limits
}

func NewValidator(catalog Catalog) *Validator {
	return &Validator{catalog: catalog}
}

// Validate returns the request as a ValidatedOrder, or the first failure
// in request order.
func (v *Validator) Validate(ctx context.Context, req OrderRequest) (*ValidatedOrder, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	var lim Limits
	if v.limits != nil {
		lim = v.limits()
	}
	if lim.MaxItems > 0 && len(req.Items) > lim.MaxItems {
		return nil, &TooManyItemsError{Count: len(req.Items), Max: lim.MaxItems}
	}

	ok, err := v.catalog.StoreExists(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStoreNotFound
	}

	for _, item := range req.Items {
		ok, err := v.catalog.ProductExists(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID, Quantity: item.Quantity}
		}
		if lim.MaxQuantityPerLine > 0 && item.Quantity > lim.MaxQuantityPerLine {
			return nil, &InvalidQuantityError{ProductID: item.ProductID, Quantity: item.Quantity}
		}
	}

	return &ValidatedOrder{OrderRequest: req}, nil
}
