package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shoplane/order-sagas/internal/saga"
)

// PaymentClient talks to the payment provider.
type PaymentClient struct {
	baseURL string
	hc      *http.Client
}

func NewPaymentClient(baseURL string, hc *http.Client) *PaymentClient {
	return &PaymentClient{baseURL: baseURL, hc: orDefaultClient(hc)}
}

var _ saga.PaymentClient = (*PaymentClient)(nil)

type chargeRequest struct {
	OrderID int64   `json:"orderId"`
	Amount  float64 `json:"amount"`
}

// Charge asks the provider to capture amount for the given order. The
// provider signals the outcome only through its message text; the parse is
// confined to this method so callers get a tagged ChargeResult and never
// inspect the text themselves.
func (c *PaymentClient) Charge(ctx context.Context, orderID int64, amount float64) (saga.ChargeResult, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, joinURL(c.baseURL, "/payments"), chargeRequest{OrderID: orderID, Amount: amount})
	if err != nil {
		return saga.ChargeResult{}, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return saga.ChargeResult{}, fmt.Errorf("payment service: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return saga.ChargeResult{}, fmt.Errorf("payment service: unexpected status %d", resp.StatusCode)
	}

	var result saga.ChargeResult
	if err := decodeJSON(resp, &result); err != nil {
		return saga.ChargeResult{}, fmt.Errorf("payment service: decode response: %w", err)
	}
	result.Approved = strings.Contains(result.Message, "successful")
	return result, nil
}
