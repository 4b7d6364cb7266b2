package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shoplane/order-sagas/internal/saga"
)

// InventoryClient talks to the inventory provider.
type InventoryClient struct {
	baseURL string
	hc      *http.Client
}

func NewInventoryClient(baseURL string, hc *http.Client) *InventoryClient {
	return &InventoryClient{baseURL: baseURL, hc: orDefaultClient(hc)}
}

var _ saga.InventoryClient = (*InventoryClient)(nil)

type stockRequest struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}

// DecreaseStock asks the provider to take qty of item out of stock. A
// structured rejection (unknown item, insufficient stock) comes back as a
// *saga.StockError carrying the provider's status and reason; transport
// errors stay plain.
func (c *InventoryClient) DecreaseStock(ctx context.Context, item string, qty int) (saga.StockLevel, error) {
	return c.adjust(ctx, "/inventory/decrease", item, qty)
}

// IncreaseStock puts qty of item back. The provider creates the item when
// it does not exist, so only transport errors are expected here.
func (c *InventoryClient) IncreaseStock(ctx context.Context, item string, qty int) (saga.StockLevel, error) {
	return c.adjust(ctx, "/inventory/increase", item, qty)
}

func (c *InventoryClient) adjust(ctx context.Context, path, item string, qty int) (saga.StockLevel, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, joinURL(c.baseURL, path), stockRequest{Item: item, Qty: qty})
	if err != nil {
		return saga.StockLevel{}, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return saga.StockLevel{}, fmt.Errorf("inventory service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		stockErr := &saga.StockError{StatusCode: resp.StatusCode, Message: "Inventory service error"}
		// Best effort: keep the generic message if the body is not ours.
		_ = decodeJSON(resp, stockErr)
		if stockErr.Message == "" {
			stockErr.Message = "Inventory service error"
		}
		return saga.StockLevel{}, stockErr
	}

	var level saga.StockLevel
	if err := decodeJSON(resp, &level); err != nil {
		return saga.StockLevel{}, fmt.Errorf("inventory service: decode response: %w", err)
	}
	return level, nil
}
