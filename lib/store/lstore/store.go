package lstore

import (
	"sync"

	"github.com/ValentinKolb/rKV/lib/store"
)

// LocalStore is an in-memory store.IStore guarded by a single mutex.
type LocalStore struct {
	mu   sync.Mutex
	data map[string]string
}

// NewLocalStore creates a new, empty local store instance.
// This store implementation is not persisted and only works on a single node.
func NewLocalStore() *LocalStore {
	return &LocalStore{
		data: make(map[string]string),
	}
}

// compile time check
var _ store.IStore = (*LocalStore)(nil)

// Len returns the number of keys currently stored.
func (s *LocalStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *LocalStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *LocalStore) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	val, ok := s.data[key]
	return val, ok, nil
}

func (s *LocalStore) Delete(keys ...string) (int, error) {
	if len(keys) == 0 {
		return 0, store.NewError(store.RetCInvalidOperation, "delete requires at least one key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, key := range keys {
		if _, ok := s.data[key]; ok {
			delete(s.data, key)
			removed++
		}
	}
	return removed, nil
}
