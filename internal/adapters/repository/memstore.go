// Package repository defines the projection result store interface and errors.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/popcast/internal/domain/types"
	"github.com/okian/popcast/pkg/metrics"
)

const nanosecondsPerMillisecond = 1e6

// MemoryStore is an in-memory Store that keeps localities in first-insertion
// order. Overwriting a locality keeps its original position.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	records  map[string]types.Record
	capacity int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{}
	for _, opt := range opts {
		opt(s)
	}
	s.order = make([]string, 0, s.capacity)
	s.records = make(map[string]types.Record, s.capacity)
	return s
}

// Upsert inserts or replaces the record for locality.
func (s *MemoryStore) Upsert(_ context.Context, locality string, rec types.Record) error {
	if locality == "" {
		return ErrEmptyLocality
	}
	start := time.Now()

	s.mu.Lock()
	if _, ok := s.records[locality]; !ok {
		s.order = append(s.order, locality)
	}
	s.records[locality] = rec.Clone()
	n := len(s.order)
	s.mu.Unlock()

	metrics.UpdateLocalitiesTotal(n)
	metrics.RecordStoreUpdateLatency(elapsedMs(start))
	return nil
}

// Get returns a copy of the record for locality.
func (s *MemoryStore) Get(_ context.Context, locality string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[locality]
	if !ok {
		return types.Record{}, fmt.Errorf("%w: %q", ErrNotFound, locality)
	}
	return rec.Clone(), nil
}

// All returns a copy of every entry in insertion order.
func (s *MemoryStore) All(_ context.Context) Snapshot {
	start := time.Now()
	s.mu.RLock()
	entries := make([]Entry, len(s.order))
	for i, name := range s.order {
		entries[i] = Entry{Locality: name, Record: s.records[name].Clone()}
	}
	s.mu.RUnlock()

	metrics.RecordStoreQueryLatency(elapsedMs(start))
	return Snapshot{Entries: entries}
}

// Clear removes every entry.
func (s *MemoryStore) Clear(_ context.Context) {
	s.mu.Lock()
	s.order = make([]string, 0, s.capacity)
	s.records = make(map[string]types.Record, s.capacity)
	s.mu.Unlock()

	metrics.UpdateLocalitiesTotal(0)
}

// Count returns the number of localities stored.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Table flattens the store into one row per locality:
// locality, one column per year (union of all records, ascending), then the
// three coefficients.
func (s *MemoryStore) Table(ctx context.Context) (Table, bool) {
	snap := s.All(ctx)
	if len(snap.Entries) == 0 {
		return Table{}, false
	}

	seen := make(map[int]struct{})
	var years []int
	for _, e := range snap.Entries {
		for y := range e.Record.Projections {
			if _, ok := seen[y]; !ok {
				seen[y] = struct{}{}
				years = append(years, y)
			}
		}
	}
	sort.Ints(years)

	header := make([]any, 0, len(years)+4)
	header = append(header, ColumnLocality)
	for _, y := range years {
		header = append(header, y)
	}
	header = append(header, ColumnCoefficientA, ColumnCoefficientB, ColumnCoefficientC)

	rows := make([][]any, 0, len(snap.Entries))
	for _, e := range snap.Entries {
		row := make([]any, 0, len(header))
		row = append(row, e.Locality)
		for _, y := range years {
			if v, ok := e.Record.Projections[y]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		c := e.Record.Coefficients
		row = append(row, c.A, c.B, c.C)
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}, true
}

// Snapshot is an ordered, detached copy of the store contents.
type Snapshot struct {
	Entries []Entry
}

// Len returns the number of entries.
func (s Snapshot) Len() int { return len(s.Entries) }

// Localities returns the locality names in order.
func (s Snapshot) Localities() []string {
	out := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Locality
	}
	return out
}

// MarshalJSON encodes the snapshot as a JSON object keyed by locality,
// preserving entry order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Locality)
		if err != nil {
			return nil, fmt.Errorf("encode locality %q: %w", e.Locality, err)
		}
		val, err := json.Marshal(e.Record)
		if err != nil {
			return nil, fmt.Errorf("encode record %q: %w", e.Locality, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / nanosecondsPerMillisecond
}
