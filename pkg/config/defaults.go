package config

import "time"

// Default values for configuration fields.
const (
	// Bridge defaults
	DefaultListenAddress   = "127.0.0.1:8184"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Document defaults
	DefaultRulePath         = "./rules.yaml"
	DefaultAliasPath        = "./aliases.yaml"
	DefaultWatch            = false
	DefaultDebounceInterval = 250 * time.Millisecond

	// Journal defaults
	DefaultJournalEnabled      = true
	DefaultJournalBackend      = "sqlite"
	DefaultJournalSQLitePath   = "data/journal.db"
	DefaultJournalAsyncBuffer  = 1000
	DefaultJournalWriteTimeout = 5 * time.Second
	DefaultRetentionDays       = 90
	DefaultRetentionMaxRecords = int64(0)
	DefaultRetentionSchedule   = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "macrolink"
	DefaultMetricsPath      = "/metrics"
)

// DefaultConfig returns a fully defaulted configuration.
func DefaultConfig() *Config {
	cfg := seedConfig()
	ApplyDefaults(cfg)
	return cfg
}

// seedConfig pre-sets the boolean fields whose default is true. YAML
// unmarshalling into the seeded struct only overwrites fields the
// document actually sets, so absent sections keep these defaults.
func seedConfig() *Config {
	return &Config{
		Journal: JournalConfig{Enabled: DefaultJournalEnabled},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
}

// ApplyDefaults applies default values to a Config struct. It sets
// defaults for any fields that have zero values and is idempotent.
func ApplyDefaults(cfg *Config) {
	// Bridge defaults
	if cfg.Bridge.ListenAddress == "" {
		cfg.Bridge.ListenAddress = DefaultListenAddress
	}
	if cfg.Bridge.ReadTimeout == 0 {
		cfg.Bridge.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Bridge.WriteTimeout == 0 {
		cfg.Bridge.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Bridge.IdleTimeout == 0 {
		cfg.Bridge.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Bridge.ShutdownTimeout == 0 {
		cfg.Bridge.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Bridge.MaxHeaderBytes == 0 {
		cfg.Bridge.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Document defaults
	if cfg.Documents.RulePath == "" {
		cfg.Documents.RulePath = DefaultRulePath
	}
	if cfg.Documents.AliasPath == "" {
		cfg.Documents.AliasPath = DefaultAliasPath
	}
	if cfg.Documents.DebounceInterval == 0 {
		cfg.Documents.DebounceInterval = DefaultDebounceInterval
	}

	// Journal defaults
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.SQLitePath == "" {
		cfg.Journal.SQLitePath = DefaultJournalSQLitePath
	}
	if cfg.Journal.AsyncBuffer == 0 {
		cfg.Journal.AsyncBuffer = DefaultJournalAsyncBuffer
	}
	if cfg.Journal.WriteTimeout == 0 {
		cfg.Journal.WriteTimeout = DefaultJournalWriteTimeout
	}
	if cfg.Journal.Retention.Days == 0 {
		cfg.Journal.Retention.Days = DefaultRetentionDays
	}
	if cfg.Journal.Retention.Schedule == "" {
		cfg.Journal.Retention.Schedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
}
