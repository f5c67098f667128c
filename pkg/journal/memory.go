package journal

import (
	"context"
	"sync"
	"time"
)

// MemoryStorage is an in-memory journal backend for tests and ephemeral
// runs. Records are kept in insertion order and lost on process exit.
type MemoryStorage struct {
	mu      sync.RWMutex
	records []*Record
}

// NewMemoryStorage creates an empty in-memory journal backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

// Write persists one record.
func (m *MemoryStorage) Write(ctx context.Context, record *Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	copied := *record
	m.mu.Lock()
	m.records = append(m.records, &copied)
	m.mu.Unlock()
	return nil
}

// Query returns matching records, newest first.
func (m *MemoryStorage) Query(ctx context.Context, q Query) ([]*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Record, 0, limit)
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		r := m.records[i]
		if q.TraceID != "" && r.TraceID != q.TraceID {
			continue
		}
		if q.Outcome != "" && r.Outcome != q.Outcome {
			continue
		}
		copied := *r
		out = append(out, &copied)
	}
	return out, nil
}

// Count returns the total number of stored records.
func (m *MemoryStorage) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.records)), nil
}

// DeleteOlderThan removes records created before the cutoff.
func (m *MemoryStorage) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.records[:0]
	var deleted int64
	for _, r := range m.records {
		if r.CreatedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	m.records = kept
	return deleted, nil
}

// TrimToCount removes the oldest records beyond max.
func (m *MemoryStorage) TrimToCount(ctx context.Context, max int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	excess := int64(len(m.records)) - max
	if excess <= 0 {
		return 0, nil
	}
	m.records = append([]*Record(nil), m.records[excess:]...)
	return excess, nil
}

// Close is a no-op for the in-memory backend.
func (m *MemoryStorage) Close() error {
	return nil
}
