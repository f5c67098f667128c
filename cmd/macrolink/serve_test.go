package main

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"testlab-hq/macrolink/internal/testdocs"
	"testlab-hq/macrolink/pkg/config"
	"testlab-hq/macrolink/pkg/macromap"
)

// TestStartWatcher_DoesNotBlockStartup verifies that enabling document
// watching lets startup continue: startWatcher must return promptly
// while the event loop keeps reloading in the background.
func TestStartWatcher_DoesNotBlockStartup(t *testing.T) {
	rulePath, aliasPath := testdocs.Write(t)
	manager := macromap.NewManager(rulePath, aliasPath, nil)
	if err := manager.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Documents.Watch = true
	cfg.Documents.DebounceInterval = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	returned := make(chan *macromap.Watcher, 1)
	go func() {
		watcher, err := startWatcher(ctx, cfg, manager, slog.Default())
		if err != nil {
			t.Errorf("startWatcher() error = %v", err)
			return
		}
		returned <- watcher
	}()

	var watcher *macromap.Watcher
	select {
	case watcher = <-returned:
	case <-time.After(2 * time.Second):
		t.Fatal("startWatcher did not return within 2s; startup after it would never run")
	}
	defer watcher.Stop()

	// The event loop must still be live in the background: a document
	// write has to produce a new generation.
	updated := `
families:
  RELAIS:
    rules:
      - criteria: "?HWSET>=1"
        target: RELAY9
`
	// Give the watcher time to register its directories.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(rulePath, []byte(updated), 0o644); err != nil {
		t.Fatalf("failed to rewrite rule document: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		gen, err := manager.Current()
		if err != nil {
			t.Fatalf("Current() error = %v", err)
		}
		if gen.Sequence > 1 {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("background watcher did not reload the documents within deadline")
}
