package directory

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used in dev mode and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]Record)}
}

func key(collection, id string) string {
	return collection + "/" + id
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[key(collection, id)]
	if !ok {
		return nil, false, nil
	}
	return cloneRecord(doc), true, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, fields Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs[key(collection, id)] = cloneRecord(fields)
	return nil
}

func (s *MemoryStore) Create(_ context.Context, collection, id string, fields Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(collection, id)
	if _, ok := s.docs[k]; ok {
		return ErrExists
	}
	s.docs[k] = cloneRecord(fields)
	return nil
}

// cloneRecord guards against callers mutating a shared map after the call.
func cloneRecord(r Record) Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
