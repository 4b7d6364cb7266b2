package orderservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shoplane/order-sagas/internal/pkg/cache"
	"github.com/shoplane/order-sagas/internal/pkg/httpx"
	"github.com/shoplane/order-sagas/internal/saga"
	"github.com/shoplane/order-sagas/internal/saga/sagalog"
)

type stubUsers struct {
	users []saga.User
	err   error
}

func (s *stubUsers) ListUsers(ctx context.Context) ([]saga.User, error) {
	return s.users, s.err
}

type stubInventory struct {
	decreaseErr error
}

func (s *stubInventory) DecreaseStock(ctx context.Context, item string, qty int) (saga.StockLevel, error) {
	if s.decreaseErr != nil {
		return saga.StockLevel{}, s.decreaseErr
	}
	return saga.StockLevel{Item: item, NewQuantity: 95}, nil
}

func (s *stubInventory) IncreaseStock(ctx context.Context, item string, qty int) (saga.StockLevel, error) {
	return saga.StockLevel{Item: item, NewQuantity: 100}, nil
}

type stubPayments struct {
	approved bool
	err      error
	calls    int
}

func (s *stubPayments) Charge(ctx context.Context, orderID int64, amount float64) (saga.ChargeResult, error) {
	s.calls++
	if s.err != nil {
		return saga.ChargeResult{}, s.err
	}
	return saga.ChargeResult{Approved: s.approved, Message: "stubbed"}, nil
}

type testEnv struct {
	router    http.Handler
	store     *saga.Store
	users     *stubUsers
	inventory *stubInventory
	payments  *stubPayments
}

func newTestEnv(t *testing.T, idem *cache.IdempotencyStore) *testEnv {
	t.Helper()

	env := &testEnv{
		store:     saga.NewStore(),
		users:     &stubUsers{users: []saga.User{{ID: 1, Name: "Alice"}}},
		inventory: &stubInventory{},
		payments:  &stubPayments{approved: true},
	}
	sagas := sagalog.NewMemoryRepository()
	orch := saga.NewOrchestrator(env.users, env.inventory, env.payments, env.store, sagas, saga.Config{})
	env.router = NewRouter(NewHandler(orch, env.store, sagas, idem))
	return env
}

func postOrder(t *testing.T, router http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeOrder(t *testing.T, data []byte) saga.Order {
	t.Helper()
	var order saga.Order
	require.NoError(t, json.Unmarshal(data, &order))
	return order
}

func TestCreateOrder_HappyPath(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	order := decodeOrder(t, rec.Body.Bytes())
	assert.Equal(t, saga.OrderCompleted, order.Status)
	assert.Equal(t, float64(50), order.Amount)
	require.Len(t, order.Steps, 3)
	for _, step := range order.Steps {
		assert.Equal(t, saga.StepCompleted, step.Status)
	}
}

func TestCreateOrder_UnknownUser(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := postOrder(t, env.router, `{"userId":99,"item":"apple","qty":5}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error string     `json:"error"`
		Order saga.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "User not found", body.Error)
	assert.Equal(t, saga.OrderFailed, body.Order.Status)
	require.Len(t, body.Order.Steps, 1)
	assert.Equal(t, saga.StepUserVerification, body.Order.Steps[0].Name)
	assert.Equal(t, saga.StepFailed, body.Order.Steps[0].Status)
}

func TestCreateOrder_PaymentDeclined(t *testing.T) {
	env := newTestEnv(t, nil)
	env.payments.approved = false

	rec := postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, nil)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)

	var body struct {
		Error string     `json:"error"`
		Order saga.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, saga.OrderFailed, body.Order.Status)

	names := make([]saga.StepName, 0, len(body.Order.Steps))
	for _, s := range body.Order.Steps {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, saga.StepInventoryRollback)
}

func TestCreateOrder_InsufficientStock(t *testing.T) {
	env := newTestEnv(t, nil)
	env.inventory.decreaseErr = &saga.StockError{StatusCode: http.StatusBadRequest, Message: "Not enough stock"}

	rec := postOrder(t, env.router, `{"userId":1,"item":"apple","qty":500}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Order saga.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Order.Steps, 2)
	assert.Equal(t, saga.StepInventoryCheck, body.Order.Steps[1].Name)
	assert.Equal(t, saga.StepFailed, body.Order.Steps[1].Status)
	assert.Zero(t, env.payments.calls, "payment never attempted")
}

func TestCreateOrder_UpstreamDown(t *testing.T) {
	env := newTestEnv(t, nil)
	env.users.err = errors.New("connection refused")

	rec := postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCreateOrder_ValidationError(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := postOrder(t, env.router, `{"item":"apple","qty":5}`, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Error string      `json:"error"`
		Order *saga.Order `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Order, "no order is created for invalid input")
	assert.Empty(t, env.store.List())
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := postOrder(t, env.router, `{"userId":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAndGetOrders(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, nil)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeOrder(t, rec.Body.Bytes())
	assert.Equal(t, int64(1), order.ID)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSaga(t *testing.T) {
	env := newTestEnv(t, nil)
	postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, nil)

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []sagalog.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.NotEmpty(t, entries)

	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sagas/999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder_IdempotentReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	idem := cache.NewIdempotencyStore(cache.NewRedisCache(mr.Addr(), "order"), time.Hour)
	env := newTestEnv(t, idem)

	headers := map[string]string{httpx.HeaderIdempotencyKey: "key-1"}

	first := postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, headers)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, headers)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String(), "replay returns the original response")

	assert.Len(t, env.store.List(), 1, "the saga ran only once")
	assert.Equal(t, 1, env.payments.calls)
}

func TestCreateOrder_DifferentKeysRunSeparateSagas(t *testing.T) {
	mr := miniredis.RunT(t)
	idem := cache.NewIdempotencyStore(cache.NewRedisCache(mr.Addr(), "order"), time.Hour)
	env := newTestEnv(t, idem)

	postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, map[string]string{httpx.HeaderIdempotencyKey: "key-1"})
	postOrder(t, env.router, `{"userId":1,"item":"apple","qty":5}`, map[string]string{httpx.HeaderIdempotencyKey: "key-2"})

	assert.Len(t, env.store.List(), 2)
}
