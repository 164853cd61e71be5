package archive

import (
	"context"
	"sync"

	"github.com/matzehuels/filtergraph/pkg/graph"
)

// MemoryStore keeps reports in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]graph.Report
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{reports: make(map[string]graph.Report)}
}

func (s *MemoryStore) Put(ctx context.Context, r *graph.Report) error {
	ensureID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = *r
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (graph.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[id]
	if !ok {
		return graph.Report{}, ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]graph.Report, error) {
	s.mu.RLock()
	out := make([]graph.Report, 0, len(s.reports))
	for _, r := range s.reports {
		out = append(out, r)
	}
	s.mu.RUnlock()
	return newestFirst(out, normalizeLimit(limit)), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reports, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
