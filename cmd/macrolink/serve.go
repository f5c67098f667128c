package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"testlab-hq/macrolink/pkg/bridge"
	"testlab-hq/macrolink/pkg/config"
	"testlab-hq/macrolink/pkg/journal"
	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/telemetry/logging"
	"testlab-hq/macrolink/pkg/telemetry/metrics"
)

var serveFlags struct {
	listenAddress string
	logLevel      string
	rulePath      string
	aliasPath     string
	dryRun        bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MacroLink HTTP bridge",
	Long: `Start the MacroLink HTTP bridge with the specified configuration.

The bridge loads the rule and alias documents, serves the translation
endpoints and optionally watches the documents for changes.

Examples:
  # Start with default config
  macrolink serve

  # Start with custom config
  macrolink serve --config /etc/macrolink/config.yaml

  # Override listen address
  macrolink serve --listen 0.0.0.0:8184

  # Validate config and documents without starting the server
  macrolink serve --dry-run`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVarP(&serveFlags.listenAddress, "listen", "l", "", "override listen address")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlags.rulePath, "rules", "", "override rule document path")
	serveCmd.Flags().StringVar(&serveFlags.aliasPath, "aliases", "", "override alias document path")
	serveCmd.Flags().BoolVar(&serveFlags.dryRun, "dry-run", false, "validate config and documents without starting the server")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadServeConfig()
	if err != nil {
		return err
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Load the translation documents before binding the listener so a
	// broken document fails fast.
	manager := macromap.NewManager(cfg.Documents.RulePath, cfg.Documents.AliasPath, logger)
	if err := manager.Load(ctx); err != nil {
		return fmt.Errorf("failed to load translation documents: %w", err)
	}

	if serveFlags.dryRun {
		fmt.Println("configuration and documents valid")
		return nil
	}

	gen, _ := manager.Current()
	logger.Info("translation documents loaded",
		"rule_path", cfg.Documents.RulePath,
		"alias_path", cfg.Documents.AliasPath,
		"families", gen.Rules.Families(),
	)

	if cfg.Documents.Watch {
		watcher, err := startWatcher(ctx, cfg, manager, logger)
		if err != nil {
			return err
		}
		defer watcher.Stop()
	}

	var registry *prometheus.Registry
	var tm *metrics.TranslationMetrics
	if cfg.Telemetry.Metrics.Enabled {
		registry = metrics.NewRegistry()
		tm = metrics.NewTranslationMetrics(&cfg.Telemetry.Metrics, registry)
	}

	var storage journal.Storage
	var recorder *journal.Recorder
	if cfg.Journal.Enabled {
		storage, err = openJournalStorage(cfg)
		if err != nil {
			return err
		}
		defer storage.Close()

		recorder = journal.NewRecorder(storage, &journal.RecorderConfig{
			Enabled:      true,
			AsyncBuffer:  cfg.Journal.AsyncBuffer,
			WriteTimeout: cfg.Journal.WriteTimeout,
		}, logger)
		defer recorder.Close()

		pruner := journal.NewPruner(storage, &journal.RetentionConfig{
			RetentionDays: cfg.Journal.Retention.Days,
			PruneSchedule: cfg.Journal.Retention.Schedule,
			MaxRecords:    cfg.Journal.Retention.MaxRecords,
		}, logger)
		if err := pruner.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention scheduler: %w", err)
		}
		defer pruner.Stop()
	}

	server := bridge.NewServer(&cfg.Bridge, &cfg.Telemetry.Metrics, bridge.Options{
		Manager:  manager,
		Storage:  storage,
		Recorder: recorder,
		Metrics:  tm,
		Registry: registry,
		Logger:   logger,
	})

	return server.Start(ctx)
}

// loadServeConfig loads the configuration file and applies flag
// overrides.
func loadServeConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		// A missing default config file falls back to defaults; an
		// explicitly named file must exist.
		if !errors.Is(err, os.ErrNotExist) || cfgFile != "config.yaml" {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = config.DefaultConfig()
	}

	if serveFlags.listenAddress != "" {
		cfg.Bridge.ListenAddress = serveFlags.listenAddress
	}
	if serveFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = serveFlags.logLevel
	}
	if serveFlags.rulePath != "" {
		cfg.Documents.RulePath = serveFlags.rulePath
	}
	if serveFlags.aliasPath != "" {
		cfg.Documents.AliasPath = serveFlags.aliasPath
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	return cfg, nil
}

// startWatcher creates the document watcher and runs its event loop in
// the background so startup can continue to the journal, metrics and
// HTTP server.
func startWatcher(ctx context.Context, cfg *config.Config, manager *macromap.Manager, logger *slog.Logger) (*macromap.Watcher, error) {
	watcher, err := macromap.NewWatcher(manager, cfg.Documents.DebounceInterval, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create document watcher: %w", err)
	}

	go func() {
		if err := watcher.Start(ctx); err != nil {
			logger.Error("document watcher stopped with error", "error", err)
		}
	}()

	return watcher, nil
}

// openJournalStorage opens the configured journal backend.
func openJournalStorage(cfg *config.Config) (journal.Storage, error) {
	switch cfg.Journal.Backend {
	case "memory":
		return journal.NewMemoryStorage(), nil
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(cfg.Journal.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
		storage, err := journal.NewSQLiteStorage(cfg.Journal.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal database: %w", err)
		}
		return storage, nil
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Journal.Backend)
	}
}
