package kioskapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiosklab/vendtix/internal/domain"
	"github.com/kiosklab/vendtix/internal/ordering"
	"github.com/kiosklab/vendtix/internal/webserver"
)

type stubCatalog struct{}

func (stubCatalog) StoreExists(ctx context.Context, storeID int64) (bool, error) {
	return storeID == 1, nil
}

func (stubCatalog) ProductExists(ctx context.Context, productID int64) (bool, error) {
	return productID == 1, nil
}

type stubLedger struct {
	stock int
}

func (l *stubLedger) Deduct(ctx context.Context, storeID, productID int64, quantity int) (int, error) {
	if quantity > l.stock {
		return 0, &ordering.InsufficientStockError{
			ProductID: productID, Requested: quantity, Available: l.stock,
		}
	}
	l.stock -= quantity
	return l.stock, nil
}

func (l *stubLedger) SetStock(ctx context.Context, storeID, productID int64, stock int) error {
	l.stock = stock
	return nil
}

type stubScope struct {
	ledger  *stubLedger
	created *domain.Order
}

func (s *stubScope) Execute(ctx context.Context, fn func(repos ordering.TxRepos) error) error {
	return fn(s)
}

func (s *stubScope) Ledger() ordering.InventoryLedger { return s.ledger }
func (s *stubScope) Orders() ordering.OrderWriter     { return s }

func (s *stubScope) CreateOrder(ctx context.Context, order *domain.Order) error {
	s.created = order
	return nil
}

func (s *stubScope) CreateDetails(ctx context.Context, details []domain.OrderDetail) error {
	return nil
}

type orderHarness struct {
	ctx   echo.Context
	rec   *httptest.ResponseRecorder
	scope *stubScope
	bus   EventBus.Bus
}

func newOrderHarness(t *testing.T, body string, stock int) *orderHarness {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	scope := &stubScope{ledger: &stubLedger{stock: stock}}
	bus := EventBus.New()
	placer := ordering.NewOrderPlacer(stubCatalog{}, scope)
	c.Set(webserver.ContextPlacerKey, placer)
	c.Set(webserver.ContextBusKey, bus)
	return &orderHarness{ctx: c, rec: rec, scope: scope, bus: bus}
}

func TestCreateOrderSuccess(t *testing.T) {
	body := `{"store_id":1,"items":[{"product_id":1,"quantity":2,"unit_price":850}],"total_amount":1700,"payment_method":"cash","take_out_type":"eat_in"}`
	h := newOrderHarness(t, body, 10)

	var published ordering.CommittedEvent
	require.NoError(t, h.bus.Subscribe(ordering.TopicOrderCommitted, func(evt ordering.CommittedEvent) {
		published = evt
	}))

	require.NoError(t, createOrder(h.ctx))
	require.Equal(t, http.StatusOK, h.rec.Code)

	var resp map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(h.rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp["status"])
	assert.NotEmpty(t, resp["order_id"])

	// the event timestamp is the committed header's, not publish time
	require.NotNil(t, h.scope.created)
	assert.Equal(t, h.scope.created.ID, published.OrderID)
	assert.True(t, published.OrderedAt.Equal(h.scope.created.OrderedAt))
}

func TestCreateOrderInsufficientStock(t *testing.T) {
	body := `{"store_id":1,"items":[{"product_id":1,"quantity":100,"unit_price":850}],"total_amount":85000,"payment_method":"cash","take_out_type":"eat_in"}`
	h := newOrderHarness(t, body, 10)

	require.NoError(t, createOrder(h.ctx))
	require.Equal(t, http.StatusBadRequest, h.rec.Code)

	var resp map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(h.rec.Body.Bytes(), &resp))
	assert.Equal(t, "INSUFFICIENT_STOCK", resp["code"])
	detail := resp["detail"].(map[string]interface{})
	assert.EqualValues(t, 100, detail["requested"])
	assert.EqualValues(t, 10, detail["available"])
}

func TestCreateOrderStoreNotFound(t *testing.T) {
	body := `{"store_id":999,"items":[{"product_id":1,"quantity":1,"unit_price":850}],"total_amount":850,"payment_method":"cash","take_out_type":"eat_in"}`
	h := newOrderHarness(t, body, 10)

	require.NoError(t, createOrder(h.ctx))
	require.Equal(t, http.StatusNotFound, h.rec.Code)

	var resp map[string]interface{}
	require.NoError(t, jsoniter.Unmarshal(h.rec.Body.Bytes(), &resp))
	assert.Equal(t, "STORE_NOT_FOUND", resp["code"])
}
