package local

import (
	"context"
	"sync"
	"time"
)

// RevocationList tracks revoked session ids until their credentials would
// have expired anyway. Entries may be dropped after ttl.
type RevocationList interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}

// MemoryRevocationList is an in-memory RevocationList used in dev mode and
// tests. Expired entries are pruned lazily on lookup.
type MemoryRevocationList struct {
	mu      sync.Mutex
	expires map[string]time.Time
}

// NewMemoryRevocationList creates an empty in-memory revocation list.
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{expires: make(map[string]time.Time)}
}

func (l *MemoryRevocationList) Revoke(_ context.Context, sessionID string, ttl time.Duration) error {
	if sessionID == "" || ttl <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.expires[sessionID] = time.Now().Add(ttl)
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, sessionID string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	exp, ok := l.expires[sessionID]
	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		delete(l.expires, sessionID)
		return false, nil
	}
	return true, nil
}
