package cache

import (
	"context"
	"encoding/json"
	"time"
)

// CachedResponse is the stored outcome of an idempotent request: the HTTP
// status and the exact body that was sent the first time.
type CachedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// IdempotencyStore remembers responses by idempotency key so a retried
// POST /orders replays the original outcome instead of running the saga a
// second time.
type IdempotencyStore struct {
	cache Cache
	ttl   time.Duration
}

func NewIdempotencyStore(c Cache, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{cache: c, ttl: ttl}
}

// Recall returns the previously stored response for key, if any.
func (s *IdempotencyStore) Recall(ctx context.Context, key string) (CachedResponse, bool, error) {
	raw, ok, err := s.cache.Get(ctx, s.cache.GenerateKey("create_order", key))
	if err != nil || !ok {
		return CachedResponse{}, false, err
	}

	var resp CachedResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return CachedResponse{}, false, err
	}
	return resp, true, nil
}

// Remember stores the response produced for key.
func (s *IdempotencyStore) Remember(ctx context.Context, key string, status int, body []byte) error {
	raw, err := json.Marshal(CachedResponse{Status: status, Body: body})
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cache.GenerateKey("create_order", key), string(raw), s.ttl)
}
