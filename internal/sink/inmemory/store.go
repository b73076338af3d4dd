package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dvloznov/dataflow-etl/internal/domain"
)

// Store is an in-memory record sink keyed by record_id.
// It is safe for concurrent use. Data is lost on restart; it backs tests and
// dry runs.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
}

// NewStore creates a new in-memory record store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
	}
}

// UpsertRecord saves or replaces a record.
func (s *Store) UpsertRecord(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.RecordID == "" {
		return fmt.Errorf("UpsertRecord: record_id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[rec.RecordID] = copyRecord(rec)
	return nil
}

// GetRecord retrieves a record by id.
func (s *Store) GetRecord(ctx context.Context, recordID string) (*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[recordID]
	if !exists {
		return nil, fmt.Errorf("record not found: %s", recordID)
	}
	return copyRecord(rec), nil
}

// ListRecordsByFile returns the records of one source file ordered by id.
// An empty file name returns every record.
func (s *Store) ListRecordsByFile(ctx context.Context, fileName string) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Record
	for _, rec := range s.records {
		if fileName != "" && rec.FileName != fileName {
			continue
		}
		result = append(result, copyRecord(rec))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].RecordID < result[j].RecordID
	})
	return result, nil
}

// EnsureTable is a no-op; the map needs no schema.
func (s *Store) EnsureTable(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// copyRecord returns a copy so callers cannot modify stored state.
func copyRecord(rec *domain.Record) *domain.Record {
	c := *rec
	if rec.Attributes != nil {
		c.Attributes = make(map[string]string, len(rec.Attributes))
		for k, v := range rec.Attributes {
			c.Attributes[k] = v
		}
	}
	return &c
}
