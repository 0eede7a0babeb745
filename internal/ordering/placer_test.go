package ordering

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlacer(state *memState) *OrderPlacer {
	return NewOrderPlacer(testCatalog(), &memScope{state: state})
}

func newTestState(stock map[invKey]int) *memState {
	return &memState{stock: stock}
}

func singleItemRequest(quantity int) OrderRequest {
	return OrderRequest{
		StoreID:       1,
		AttributeID:   10,
		Items:         []OrderItem{{ProductID: 1, Quantity: quantity, UnitPrice: 800}},
		TotalAmount:   quantity * 800,
		PaymentMethod: "cash",
		TakeOutType:   "dine_in",
	}
}

func TestPlace_Success(t *testing.T) {
	// store=1, product=1, stock=10; quantity=2 at 800
	state := newTestState(map[invKey]int{{1, 1}: 10})
	placer := newTestPlacer(state)

	receipt, err := placer.Place(context.Background(), singleItemRequest(2))
	require.NoError(t, err)
	assert.NotZero(t, receipt.OrderID)

	assert.Equal(t, 8, state.stock[invKey{1, 1}])
	require.Len(t, state.orders, 1)
	require.Len(t, state.details, 1)
	assert.Equal(t, receipt.OrderID, state.orders[0].ID)
	assert.Equal(t, receipt.OrderID, state.details[0].OrderID)
	assert.True(t, receipt.OrderedAt.Equal(state.orders[0].OrderedAt))
	assert.Equal(t, 2, state.details[0].Quantity)
	assert.Equal(t, 800, state.details[0].UnitPrice)
	assert.Equal(t, 1600, state.orders[0].TotalAmount)
}

func TestPlace_InsufficientStock(t *testing.T) {
	// stock=10, quantity=100: rejected, nothing persisted, stock unchanged
	state := newTestState(map[invKey]int{{1, 1}: 10})
	placer := newTestPlacer(state)

	_, err := placer.Place(context.Background(), singleItemRequest(100))
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(1), insufficient.ProductID)
	assert.Equal(t, 100, insufficient.Requested)
	assert.Equal(t, 10, insufficient.Available)

	assert.Equal(t, 10, state.stock[invKey{1, 1}])
	assert.Empty(t, state.orders)
	assert.Empty(t, state.details)
}

func TestPlace_MissingInventoryRowIsInsufficient(t *testing.T) {
	state := newTestState(map[invKey]int{})
	placer := newTestPlacer(state)

	_, err := placer.Place(context.Background(), singleItemRequest(1))
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, insufficient.Available)
}

func TestPlace_MultiLineRollback(t *testing.T) {
	// first line would succeed on its own; the second line's failure must
	// discard the whole request including the first decrement
	state := newTestState(map[invKey]int{{1, 1}: 10, {1, 2}: 1})
	placer := newTestPlacer(state)

	req := OrderRequest{
		StoreID:     1,
		AttributeID: 10,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 800},
			{ProductID: 2, Quantity: 5, UnitPrice: 300},
		},
		TotalAmount:   3100,
		PaymentMethod: "cash",
		TakeOutType:   "take_out",
	}

	_, err := placer.Place(context.Background(), req)
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.ProductID)

	assert.Equal(t, 10, state.stock[invKey{1, 1}])
	assert.Equal(t, 1, state.stock[invKey{1, 2}])
	assert.Empty(t, state.orders)
	assert.Empty(t, state.details)
}

func TestPlace_PersistenceFaultRollsBack(t *testing.T) {
	state := newTestState(map[invKey]int{{1, 1}: 10})
	placer := NewOrderPlacer(testCatalog(), &memScope{state: state, failOn: "create-details"})

	_, err := placer.Place(context.Background(), singleItemRequest(2))
	var fault *PersistenceError
	require.ErrorAs(t, err, &fault)
	assert.False(t, IsBusinessError(err))

	assert.Equal(t, 10, state.stock[invKey{1, 1}])
	assert.Empty(t, state.orders)
	assert.Empty(t, state.details)
}

func TestPlace_NoDeduplication(t *testing.T) {
	// identical requests are independent orders, stock decremented twice
	state := newTestState(map[invKey]int{{1, 1}: 10})
	placer := newTestPlacer(state)

	first, err := placer.Place(context.Background(), singleItemRequest(2))
	require.NoError(t, err)
	second, err := placer.Place(context.Background(), singleItemRequest(2))
	require.NoError(t, err)

	assert.NotEqual(t, first.OrderID, second.OrderID)
	assert.Equal(t, 6, state.stock[invKey{1, 1}])
	assert.Len(t, state.orders, 2)
	assert.Len(t, state.details, 2)
}

func TestPlace_ConcurrentContention(t *testing.T) {
	// stock=10, two concurrent orders of 6: exactly one commits, the
	// loser observes the winner's committed stock
	state := newTestState(map[invKey]int{{1, 1}: 10})
	placer := newTestPlacer(state)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = placer.Place(context.Background(), singleItemRequest(6))
		}(i)
	}
	wg.Wait()

	var committed, rejected int
	for _, err := range errs {
		if err == nil {
			committed++
			continue
		}
		var insufficient *InsufficientStockError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 6, insufficient.Requested)
		assert.Equal(t, 4, insufficient.Available)
		rejected++
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 4, state.stock[invKey{1, 1}])
}

func TestPlace_ConcurrentNeverNegative(t *testing.T) {
	// N concurrent single-unit orders against stock S < N: exactly S
	// commit and the final stock is zero
	const initial = 5
	const competitors = 20

	state := newTestState(map[invKey]int{{1, 1}: initial})
	placer := newTestPlacer(state)

	var wg sync.WaitGroup
	errs := make([]error, competitors)
	for i := 0; i < competitors; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = placer.Place(context.Background(), singleItemRequest(1))
		}(i)
	}
	wg.Wait()

	var committed int
	for _, err := range errs {
		if err == nil {
			committed++
		} else {
			var insufficient *InsufficientStockError
			require.ErrorAs(t, err, &insufficient)
		}
	}
	assert.Equal(t, initial, committed)
	assert.Equal(t, 0, state.stock[invKey{1, 1}])
	assert.Len(t, state.orders, initial)

	var total int
	for _, d := range state.details {
		total += d.Quantity
	}
	assert.Equal(t, initial, total)
}

func TestPlace_LocksInAscendingProductOrder(t *testing.T) {
	// lines submitted in descending product-id order: inventory rows must
	// be locked and decremented ascending, while detail rows keep the
	// request order
	state := newTestState(map[invKey]int{{1, 1}: 5, {1, 2}: 5, {1, 3}: 5})
	placer := newTestPlacer(state)

	req := OrderRequest{
		StoreID:     1,
		AttributeID: 10,
		Items: []OrderItem{
			{ProductID: 3, Quantity: 1, UnitPrice: 300},
			{ProductID: 1, Quantity: 2, UnitPrice: 800},
			{ProductID: 2, Quantity: 3, UnitPrice: 500},
		},
		TotalAmount:   3400,
		PaymentMethod: "cash",
		TakeOutType:   "dine_in",
	}

	_, err := placer.Place(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 3}, state.deductLog)

	require.Len(t, state.details, 3)
	assert.Equal(t, int64(3), state.details[0].ProductID)
	assert.Equal(t, int64(1), state.details[1].ProductID)
	assert.Equal(t, int64(2), state.details[2].ProductID)

	assert.Equal(t, 3, state.stock[invKey{1, 1}])
	assert.Equal(t, 2, state.stock[invKey{1, 2}])
	assert.Equal(t, 4, state.stock[invKey{1, 3}])
}

func TestPlace_RuntimeLimits(t *testing.T) {
	state := newTestState(map[invKey]int{{1, 1}: 100, {1, 2}: 100})
	placer := newTestPlacer(state)
	placer.SetLimits(func() Limits {
		return Limits{MaxItems: 1, MaxQuantityPerLine: 10}
	})

	_, err := placer.Place(context.Background(), OrderRequest{
		StoreID: 1,
		Items: []OrderItem{
			{ProductID: 1, Quantity: 1, UnitPrice: 800},
			{ProductID: 2, Quantity: 1, UnitPrice: 500},
		},
	})
	var tooMany *TooManyItemsError
	require.ErrorAs(t, err, &tooMany)
	assert.Equal(t, 2, tooMany.Count)
	assert.Equal(t, 1, tooMany.Max)

	_, err = placer.Place(context.Background(), singleItemRequest(11))
	var invalid *InvalidQuantityError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 11, invalid.Quantity)

	// within both caps the order commits
	_, err = placer.Place(context.Background(), singleItemRequest(10))
	require.NoError(t, err)
	assert.Equal(t, 90, state.stock[invKey{1, 1}])
}

func TestSetStock_Overwrite(t *testing.T) {
	state := newTestState(map[invKey]int{{1, 1}: 10})
	placer := newTestPlacer(state)

	require.NoError(t, placer.SetStock(context.Background(), 1, 1, 42))
	assert.Equal(t, 42, state.stock[invKey{1, 1}])

	err := placer.SetStock(context.Background(), 1, 99, 5)
	assert.ErrorIs(t, err, ErrInventoryNotFound)
}
