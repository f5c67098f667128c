package config

import "time"

// Config is the root configuration structure for the MacroLink bridge
// binary. It covers the HTTP bridge server, the translation document
// paths, the translation journal and telemetry.
type Config struct {
	// Bridge contains HTTP bridge server configuration including listen
	// address and timeouts.
	Bridge BridgeConfig `yaml:"bridge"`

	// Documents contains the rule and alias document paths and the
	// hot-reload watcher settings.
	Documents DocumentsConfig `yaml:"documents"`

	// Journal contains configuration for the translation journal
	// including backend selection and retention.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains observability configuration: logging and
	// metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// BridgeConfig contains configuration for the HTTP bridge server.
type BridgeConfig struct {
	// ListenAddress is the address and port for the bridge to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8080").
	// Default: "127.0.0.1:8184"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of
	// the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header size in bytes.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// DocumentsConfig contains the translation document paths and watcher
// settings.
type DocumentsConfig struct {
	// RulePath is the path of the selection rule document.
	// Default: "./rules.yaml"
	RulePath string `yaml:"rule_path"`

	// AliasPath is the path of the alias document.
	// Default: "./aliases.yaml"
	AliasPath string `yaml:"alias_path"`

	// Watch enables hot reload when either document changes on disk.
	// Default: false
	Watch bool `yaml:"watch"`

	// DebounceInterval is the quiet period after a file event before a
	// reload is triggered.
	// Default: 250ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// JournalConfig contains configuration for the translation journal.
type JournalConfig struct {
	// Enabled enables journal recording.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// SQLitePath is the SQLite database file path for the sqlite
	// backend.
	// Default: "data/journal.db"
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// Retention contains the pruning settings for old records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig contains journal pruning settings.
type RetentionConfig struct {
	// Days is the maximum record age in days; older records are pruned.
	// Zero disables age-based pruning.
	// Default: 90
	Days int `yaml:"days"`

	// MaxRecords caps the total record count; the oldest records beyond
	// the cap are pruned. Zero disables the cap.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`

	// Schedule is the cron expression for scheduled pruning. Empty
	// disables the scheduler.
	// Default: "0 3 * * *"
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log records.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled enables the /metrics endpoint.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "macrolink"
	Namespace string `yaml:"namespace"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`
}
