package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateway_ForwardsWithPrefixStripped(t *testing.T) {
	var gotPath string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"name":"Alice"}]`))
	}))
	defer backend.Close()

	router, err := NewRouter(Backends{
		User:      backend.URL,
		Order:     backend.URL,
		Inventory: backend.URL,
		Payment:   backend.URL,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/user/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/users", gotPath)
	assert.JSONEq(t, `[{"id":1,"name":"Alice"}]`, rec.Body.String())
}

func TestGateway_UnreachableBackendIs503(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	router, err := NewRouter(Backends{
		User:      dead.URL,
		Order:     dead.URL,
		Inventory: dead.URL,
		Payment:   dead.URL,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order/orders", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"error":"Order Service unavailable"}`, rec.Body.String())
}

func TestGateway_CORSPreflight(t *testing.T) {
	router, err := NewRouter(Backends{
		User:      "http://localhost:1",
		Order:     "http://localhost:1",
		Inventory: "http://localhost:1",
		Payment:   "http://localhost:1",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/order/orders", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGateway_BadBackendURL(t *testing.T) {
	_, err := NewRouter(Backends{User: "http://bad url", Order: "x", Inventory: "x", Payment: "x"})
	assert.Error(t, err)
}
