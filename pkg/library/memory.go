package library

import (
	"context"
	"sync"

	"github.com/matzehuels/chordgen/pkg/core/chord"
)

// MemoryStore keeps records in process. It is safe for concurrent use.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryStore returns a store holding seed. Seed chords are stored as
// given; invalid ones are skipped.
func NewMemoryStore(seed ...chord.Chord) *MemoryStore {
	s := &MemoryStore{}
	for _, c := range seed {
		if rec, err := NewRecord(c); err == nil {
			s.records = append(s.records, rec)
		}
	}
	return s
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return Record{}, notFound(id)
}

func (s *MemoryStore) FindByName(ctx context.Context, name string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := nameKey(name)
	var out []Record
	for _, r := range s.records {
		if nameKey(r.Chord.Name) == key {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *MemoryStore) Put(ctx context.Context, c chord.Chord) (Record, error) {
	rec, err := NewRecord(c)
	if err != nil {
		return Record{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return notFound(id)
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
