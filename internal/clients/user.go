package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shoplane/order-sagas/internal/saga"
)

// UserClient talks to the identity provider.
type UserClient struct {
	baseURL string
	hc      *http.Client
}

// NewUserClient builds a client for the identity provider at baseURL.
// A nil http.Client falls back to http.DefaultClient.
func NewUserClient(baseURL string, hc *http.Client) *UserClient {
	return &UserClient{baseURL: baseURL, hc: orDefaultClient(hc)}
}

var _ saga.UserClient = (*UserClient)(nil)

// ListUsers fetches the full user list.
func (c *UserClient) ListUsers(ctx context.Context) ([]saga.User, error) {
	req, err := newJSONRequest(ctx, http.MethodGet, joinURL(c.baseURL, "/users"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("user service: unexpected status %d", resp.StatusCode)
	}

	var users []saga.User
	if err := decodeJSON(resp, &users); err != nil {
		return nil, fmt.Errorf("user service: decode response: %w", err)
	}
	return users, nil
}
