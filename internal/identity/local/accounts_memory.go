package local

import (
	"context"
	"sync"

	"prepauth/internal/identity"
)

// MemoryAccountStore is an in-memory AccountStore used in dev mode and tests.
type MemoryAccountStore struct {
	mu      sync.RWMutex
	byUID   map[string]Account
	byEmail map[string]string // emailNorm -> uid
}

// NewMemoryAccountStore creates an empty in-memory account store.
func NewMemoryAccountStore() *MemoryAccountStore {
	return &MemoryAccountStore{
		byUID:   make(map[string]Account),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryAccountStore) Create(_ context.Context, a Account) error {
	const op = "local.accounts.Create"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[a.EmailNorm]; ok {
		return identity.OpError{Op: op, Kind: identity.ErrEmailExists}
	}
	s.byUID[a.UID] = a
	s.byEmail[a.EmailNorm] = a.UID
	return nil
}

func (s *MemoryAccountStore) GetByEmail(_ context.Context, emailNorm string) (Account, error) {
	const op = "local.accounts.GetByEmail"

	s.mu.RLock()
	defer s.mu.RUnlock()

	uid, ok := s.byEmail[emailNorm]
	if !ok {
		return Account{}, identity.OpError{Op: op, Kind: identity.ErrUserNotFound}
	}
	return s.byUID[uid], nil
}

func (s *MemoryAccountStore) GetByUID(_ context.Context, uid string) (Account, error) {
	const op = "local.accounts.GetByUID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byUID[uid]
	if !ok {
		return Account{}, identity.OpError{Op: op, Kind: identity.ErrUserNotFound}
	}
	return a, nil
}
