package paymentservice

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCharge_Approved(t *testing.T) {
	svc := NewService(0.1, WithRandFloat(func() float64 { return 0.9 }))

	receipt := svc.Charge(7, 50)
	assert.True(t, receipt.Approved)
	assert.Equal(t, "Payment of $50 for order 7 successful", receipt.Message)
	assert.NotEmpty(t, receipt.TransactionID)

	amount, ok := svc.Charged(7)
	require.True(t, ok)
	assert.Equal(t, float64(50), amount)
}

func TestCharge_Declined(t *testing.T) {
	svc := NewService(0.1, WithRandFloat(func() float64 { return 0.05 }))

	receipt := svc.Charge(7, 50)
	assert.False(t, receipt.Approved)
	assert.Equal(t, "Payment for order 7 failed", receipt.Message)
	assert.Empty(t, receipt.TransactionID)

	_, ok := svc.Charged(7)
	assert.False(t, ok, "declined charges are not recorded")
}

func TestCharge_FractionalAmountMessage(t *testing.T) {
	svc := NewService(0)

	receipt := svc.Charge(3, 19.99)
	assert.Equal(t, "Payment of $19.99 for order 3 successful", receipt.Message)
}

func TestCharge_ZeroRateNeverDeclines(t *testing.T) {
	svc := NewService(0)
	for i := int64(1); i <= 20; i++ {
		require.True(t, svc.Charge(i, 10).Approved)
	}
}

func TestChargeHandler(t *testing.T) {
	router := NewRouter(NewHandler(NewService(0.1, WithRandFloat(func() float64 { return 0.9 }))))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"orderId":7,"amount":50}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Payment of $50 for order 7 successful")
	assert.Contains(t, body, "transactionId")
}

func TestChargeHandler_DeclinedIsStill200(t *testing.T) {
	router := NewRouter(NewHandler(NewService(1)))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"orderId":7,"amount":50}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Payment for order 7 failed"}`, rec.Body.String())
}

func TestChargeHandler_InvalidJSON(t *testing.T) {
	router := NewRouter(NewHandler(NewService(0)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
