package ordering

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *memCatalog {
	return &memCatalog{
		stores:   map[int64]bool{1: true},
		products: map[int64]bool{1: true, 2: true, 3: true},
	}
}

func TestValidate_OK(t *testing.T) {
	v := NewValidator(testCatalog())
	req := OrderRequest{
		StoreID: 1,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 800},
			{ProductID: 2, Quantity: 1, UnitPrice: 300},
		},
	}

	validated, err := v.Validate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req.Items, validated.Items)
}

func TestValidate_StoreNotFound(t *testing.T) {
	v := NewValidator(testCatalog())
	req := OrderRequest{
		StoreID: 999,
		Items:   []OrderItem{{ProductID: 1, Quantity: 1, UnitPrice: 800}},
	}

	_, err := v.Validate(context.Background(), req)
	assert.ErrorIs(t, err, ErrStoreNotFound)
	assert.True(t, IsBusinessError(err))
}

func TestValidate_ProductNotFound(t *testing.T) {
	v := NewValidator(testCatalog())
	req := OrderRequest{
		StoreID: 1,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 800},
			{ProductID: 42, Quantity: 1, UnitPrice: 500},
		},
	}

	_, err := v.Validate(context.Background(), req)
	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.ProductID)
}

func TestValidate_InvalidQuantity(t *testing.T) {
	v := NewValidator(testCatalog())

	for _, quantity := range []int{0, -1} {
		req := OrderRequest{
			StoreID: 1,
			Items:   []OrderItem{{ProductID: 1, Quantity: quantity, UnitPrice: 800}},
		}
		_, err := v.Validate(context.Background(), req)
		var invalid *InvalidQuantityError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, int64(1), invalid.ProductID)
		assert.Equal(t, quantity, invalid.Quantity)
	}
}

func TestValidate_EmptyOrder(t *testing.T) {
	v := NewValidator(testCatalog())

	_, err := v.Validate(context.Background(), OrderRequest{StoreID: 1})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestValidate_FirstFailureWins(t *testing.T) {
	// line order decides which rejection is reported
	v := NewValidator(testCatalog())
	req := OrderRequest{
		StoreID: 1,
		Items: []OrderItem{
			{ProductID: 42, Quantity: 1, UnitPrice: 500},
			{ProductID: 1, Quantity: 0, UnitPrice: 800},
		},
	}

	_, err := v.Validate(context.Background(), req)
	var notFound *ProductNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
