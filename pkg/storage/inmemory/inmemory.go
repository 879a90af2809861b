// Package inmemory provides a map backed transcript store.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/executehq/concierge/pkg/storage"
)

// Driver implements storage.Driver using an in-memory map.
type Driver struct {
	mu          sync.RWMutex
	transcripts map[string]*storage.Transcript
}

// NewDriver creates a new in-memory store.
func NewDriver() *Driver {
	return &Driver{
		transcripts: make(map[string]*storage.Transcript),
	}
}

// Put stores a copy of t.
func (s *Driver) Put(_ context.Context, t *storage.Transcript) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transcripts[t.ID]; ok {
		return fmt.Errorf("transcript %s already exists", t.ID)
	}

	s.transcripts[t.ID] = t.Clone()
	return nil
}

// Get retrieves a transcript by its ID.
func (s *Driver) Get(_ context.Context, id string) (*storage.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transcripts[id]
	if !ok {
		return nil, storage.ErrNotFound{ID: id}
	}

	return t.Clone(), nil
}

// List returns up to limit transcripts, newest first.
func (s *Driver) List(_ context.Context, limit int) ([]*storage.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*storage.Transcript, 0, len(s.transcripts))
	for _, t := range s.transcripts {
		out = append(out, t.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit = storage.ClampLimit(limit); len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Count returns the number of stored transcripts.
func (s *Driver) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transcripts)
}

// Close is a no-op for the in-memory store.
func (s *Driver) Close() error {
	return nil
}
