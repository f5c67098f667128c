package journal

import (
	"context"
	"testing"
	"time"
)

func testRecord(id, traceID, outcome string, createdAt time.Time) *Record {
	return &Record{
		ID:        id,
		TraceID:   traceID,
		Direction: DirectionToXML,
		Functions: []string{"RELAIS"},
		Macros:    []string{"RELAY2"},
		Bytes:     128,
		Duration:  2 * time.Millisecond,
		Outcome:   outcome,
		CreatedAt: createdAt,
	}
}

func TestMemoryStorage_WriteAndQuery(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := storage.Write(ctx, testRecord(id, "trace-"+id, OutcomeOK, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	records, err := storage.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("Query() returned %d records, want 3", len(records))
	}

	// Newest first
	if records[0].ID != "c" || records[2].ID != "a" {
		t.Errorf("Query() order = [%s %s %s], want [c b a]",
			records[0].ID, records[1].ID, records[2].ID)
	}
}

func TestMemoryStorage_QueryFilters(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	now := time.Now().UTC()
	storage.Write(ctx, testRecord("a", "trace-1", OutcomeOK, now))
	storage.Write(ctx, testRecord("b", "trace-2", "validation_error", now))
	storage.Write(ctx, testRecord("c", "trace-1", OutcomeOK, now))

	tests := []struct {
		name    string
		query   Query
		wantIDs []string
	}{
		{
			name:    "by trace id",
			query:   Query{TraceID: "trace-1"},
			wantIDs: []string{"c", "a"},
		},
		{
			name:    "by outcome",
			query:   Query{Outcome: "validation_error"},
			wantIDs: []string{"b"},
		},
		{
			name:    "with limit",
			query:   Query{Limit: 2},
			wantIDs: []string{"c", "b"},
		},
		{
			name:    "no match",
			query:   Query{TraceID: "trace-9"},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := storage.Query(ctx, tt.query)
			if err != nil {
				t.Fatalf("Query() error = %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("Query() returned %d records, want %d", len(records), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if records[i].ID != want {
					t.Errorf("records[%d].ID = %s, want %s", i, records[i].ID, want)
				}
			}
		})
	}
}

func TestMemoryStorage_DeleteOlderThan(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	storage.Write(ctx, testRecord("old", "t", OutcomeOK, base))
	storage.Write(ctx, testRecord("new", "t", OutcomeOK, base.Add(48*time.Hour)))

	deleted, err := storage.DeleteOlderThan(ctx, base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteOlderThan() deleted = %d, want 1", deleted)
	}

	count, err := storage.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}

	records, _ := storage.Query(ctx, Query{})
	if records[0].ID != "new" {
		t.Errorf("remaining record = %s, want new", records[0].ID)
	}
}

func TestMemoryStorage_TrimToCount(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	base := time.Now().UTC()
	for i, id := range []string{"a", "b", "c", "d"} {
		storage.Write(ctx, testRecord(id, "t", OutcomeOK, base.Add(time.Duration(i)*time.Second)))
	}

	deleted, err := storage.TrimToCount(ctx, 2)
	if err != nil {
		t.Fatalf("TrimToCount() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("TrimToCount() deleted = %d, want 2", deleted)
	}

	records, _ := storage.Query(ctx, Query{})
	if len(records) != 2 || records[0].ID != "d" || records[1].ID != "c" {
		t.Errorf("remaining records wrong, got %d entries", len(records))
	}

	// Trimming below the limit is a no-op
	deleted, err = storage.TrimToCount(ctx, 10)
	if err != nil {
		t.Fatalf("TrimToCount() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("TrimToCount() deleted = %d, want 0", deleted)
	}
}

func TestMemoryStorage_WriteCopiesRecord(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	record := testRecord("a", "t", OutcomeOK, time.Now().UTC())
	storage.Write(ctx, record)

	// Mutating the caller's record must not affect the stored copy.
	record.Outcome = "mutated"

	records, _ := storage.Query(ctx, Query{})
	if records[0].Outcome != OutcomeOK {
		t.Errorf("stored record outcome = %s, want %s", records[0].Outcome, OutcomeOK)
	}
}

func TestRecorder_WritesAsync(t *testing.T) {
	storage := NewMemoryStorage()
	recorder := NewRecorder(storage, nil, nil)

	record := &Record{
		TraceID:   "trace-1",
		Direction: DirectionToXML,
		Functions: []string{"RELAIS"},
		Outcome:   OutcomeOK,
	}
	if err := recorder.Record(record); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if record.ID == "" {
		t.Error("Record() did not assign an ID")
	}
	if record.CreatedAt.IsZero() {
		t.Error("Record() did not assign CreatedAt")
	}

	// Close drains the channel, so the write is durable afterwards.
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	count, err := storage.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}

func TestRecorder_Disabled(t *testing.T) {
	storage := NewMemoryStorage()
	recorder := NewRecorder(storage, &RecorderConfig{Enabled: false, AsyncBuffer: 1, WriteTimeout: time.Second}, nil)
	defer recorder.Close()

	if err := recorder.Record(&Record{TraceID: "t"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	count, _ := storage.Count(context.Background())
	if count != 0 {
		t.Errorf("Count() = %d, want 0 when disabled", count)
	}
}

func TestRecorder_DrainsOnClose(t *testing.T) {
	storage := NewMemoryStorage()
	recorder := NewRecorder(storage, &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  100,
		WriteTimeout: time.Second,
	}, nil)

	for i := 0; i < 50; i++ {
		if err := recorder.Record(&Record{TraceID: "t", Outcome: OutcomeOK}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	count, _ := storage.Count(context.Background())
	if count != 50 {
		t.Errorf("Count() = %d, want 50 after drain", count)
	}
}
