package journal

import (
	"context"
	"testing"
	"time"
)

func TestPruner_PruneByAge(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	now := time.Now().UTC()
	storage.Write(ctx, testRecord("ancient", "t", OutcomeOK, now.AddDate(0, 0, -60)))
	storage.Write(ctx, testRecord("recent", "t", OutcomeOK, now))

	pruner := NewPruner(storage, &RetentionConfig{RetentionDays: 30}, nil)

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune() deleted = %d, want 1", deleted)
	}

	records, _ := storage.Query(ctx, Query{})
	if len(records) != 1 || records[0].ID != "recent" {
		t.Errorf("remaining records wrong: %d entries", len(records))
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	now := time.Now().UTC()
	for i, id := range []string{"a", "b", "c", "d"} {
		storage.Write(ctx, testRecord(id, "t", OutcomeOK, now.Add(time.Duration(i)*time.Second)))
	}

	pruner := NewPruner(storage, &RetentionConfig{MaxRecords: 2}, nil)

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("Prune() deleted = %d, want 2", deleted)
	}

	records, _ := storage.Query(ctx, Query{})
	if len(records) != 2 || records[0].ID != "d" {
		t.Errorf("remaining records wrong: %d entries", len(records))
	}
}

func TestPruner_NothingToPrune(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	storage.Write(ctx, testRecord("a", "t", OutcomeOK, time.Now().UTC()))

	pruner := NewPruner(storage, &RetentionConfig{RetentionDays: 30, MaxRecords: 10}, nil)

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted = %d, want 0", deleted)
	}
}

func TestPruner_ZeroConfigKeepsEverything(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	old := time.Now().UTC().AddDate(-1, 0, 0)
	storage.Write(ctx, testRecord("a", "t", OutcomeOK, old))

	// RetentionDays 0 and MaxRecords 0 disable both pruning phases.
	pruner := NewPruner(storage, &RetentionConfig{}, nil)

	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 0 {
		t.Errorf("Prune() deleted = %d, want 0", deleted)
	}
}

func TestPruner_StartWithEmptySchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStorage(), &RetentionConfig{PruneSchedule: ""}, nil)

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if pruner.IsRunning() {
		t.Error("IsRunning() = true with empty schedule, want false")
	}
}

func TestPruner_StartWithInvalidSchedule(t *testing.T) {
	pruner := NewPruner(NewMemoryStorage(), &RetentionConfig{PruneSchedule: "not a cron"}, nil)

	if err := pruner.Start(context.Background()); err == nil {
		t.Error("Start() expected error for invalid schedule, got nil")
	}
}

func TestPruner_StartAndStop(t *testing.T) {
	pruner := NewPruner(NewMemoryStorage(), &RetentionConfig{PruneSchedule: "0 3 * * *"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !pruner.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if pruner.NextPruning() == nil {
		t.Error("NextPruning() = nil while running")
	}

	pruner.Stop()
	if pruner.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
}
