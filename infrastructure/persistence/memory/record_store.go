// Package memory provides the ephemeral in-process Record Store used when
// the durable database is unreachable. Contents do not survive a restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"lovelog-backend/infrastructure/persistence"
	"lovelog-backend/pkg/utils"
)

// RecordStore is an ordered-insertion in-memory table for one collection.
// Identifiers are "memory-<collection>-<n>" with n monotonically increasing
// per collection, so memory-backed ids are recognizable in exports and logs.
type RecordStore struct {
	mu         sync.Mutex
	collection string
	records    []persistence.Record
	counter    int
}

// NewRecordStore creates an empty store for the named collection.
func NewRecordStore(collection string) *RecordStore {
	return &RecordStore{collection: collection, counter: 1}
}

// List returns all records in insertion order.
func (s *RecordStore) List(ctx context.Context) ([]persistence.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]persistence.Record, len(s.records))
	for i, rec := range s.records {
		out[i] = rec.Clone()
	}
	return out, nil
}

// Create assigns the next identifier, stamps timestamps and appends.
func (s *RecordStore) Create(ctx context.Context, data persistence.Record) (persistence.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := persistence.StripReserved(data)
	id := fmt.Sprintf("memory-%s-%d", s.collection, s.counter)
	s.counter++

	now := utils.NowRFC3339()
	rec["_id"] = id
	rec["id"] = id
	rec["createdAt"] = now
	rec["updatedAt"] = now

	s.records = append(s.records, rec)
	return rec.Clone(), nil
}

// Update shallow-merges data over the stored record. Arrays and nested
// objects in data fully replace the previous value.
func (s *RecordStore) Update(ctx context.Context, id string, data persistence.Record) (persistence.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, persistence.ErrNotFound
	}

	rec := s.records[idx]
	for k, v := range persistence.StripReserved(data) {
		rec[k] = v
	}
	rec["updatedAt"] = utils.NowRFC3339()
	return rec.Clone(), nil
}

// Delete removes the record with the given id.
func (s *RecordStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return persistence.ErrNotFound
	}
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	return nil
}

// Clear empties the collection. The id counter keeps running so ids are
// never reused within a process lifetime.
func (s *RecordStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return nil
}

func (s *RecordStore) indexOf(id string) int {
	for i, rec := range s.records {
		if rec.ID() == id {
			return i
		}
	}
	return -1
}
