package content

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory content store used by tests.
type MemoryStore struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{files: make(map[string][]byte)}
}

func (s *MemoryStore) Write(_ context.Context, p string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(data))
	copy(buf, data)
	s.files[path.Clean(p)] = buf

	return nil
}

func (s *MemoryStore) Read(_ context.Context, p string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.files[path.Clean(p)]
	if !ok {
		return nil, ErrNotFound
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	return buf, nil
}

func (s *MemoryStore) List(_ context.Context, dir string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := path.Clean(dir) + "/"
	names := make([]string, 0)

	for p := range s.files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}

		rest := strings.TrimPrefix(p, prefix)
		if strings.Contains(rest, "/") {
			// not a direct child
			continue
		}

		names = append(names, rest)
	}

	sort.Strings(names)

	return names, nil
}

func (s *MemoryStore) Exists(_ context.Context, p string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.files[path.Clean(p)]

	return ok, nil
}

func (s *MemoryStore) RemoveAll(_ context.Context, dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := path.Clean(dir) + "/"
	for p := range s.files {
		if p == path.Clean(dir) || strings.HasPrefix(p, prefix) {
			delete(s.files, p)
		}
	}

	return nil
}
