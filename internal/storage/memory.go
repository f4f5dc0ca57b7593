package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store used by tests and as a scratch
// backend. Values round-trip through JSON so it behaves like FileStore.
type MemoryStore struct {
	mu    sync.Mutex
	slots map[string]json.RawMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]json.RawMessage)}
}

func (s *MemoryStore) Read(ctx context.Context, slot string, v any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.slots[slot]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *MemoryStore) Write(ctx context.Context, slot string, v any) error {
	js, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: encoding slot %q: %v", types.ErrPersistence, slot, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = js
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot)
	return nil
}
