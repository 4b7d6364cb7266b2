// Package userservice implements the identity provider: a small in-memory
// user registry the orchestrator queries during user verification.
package userservice

import (
	"sync"

	"github.com/shoplane/order-sagas/internal/saga"
)

// Service holds the user registry. Ids are assigned sequentially.
type Service struct {
	mu    sync.Mutex
	users []saga.User
}

// NewService seeds the registry with its one well-known user.
func NewService() *Service {
	return &Service{
		users: []saga.User{{ID: 1, Name: "Alice"}},
	}
}

// List returns a snapshot of all users.
func (s *Service) List() []saga.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]saga.User, len(s.users))
	copy(out, s.users)
	return out
}

// Add registers a new user and returns it with its assigned id.
func (s *Service) Add(name string) saga.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := saga.User{ID: int64(len(s.users)) + 1, Name: name}
	s.users = append(s.users, user)
	return user
}
