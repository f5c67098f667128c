package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := seedConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention MACROLINK_SECTION_FIELD (e.g. MACROLINK_BRIDGE_LISTEN_ADDRESS)
// and always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies MACROLINK_SECTION_FIELD environment variables.
func applyEnvOverrides(cfg *Config) {
	// Bridge overrides
	if val := os.Getenv("MACROLINK_BRIDGE_LISTEN_ADDRESS"); val != "" {
		cfg.Bridge.ListenAddress = val
	}
	if val := os.Getenv("MACROLINK_BRIDGE_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Bridge.ReadTimeout = d
		}
	}
	if val := os.Getenv("MACROLINK_BRIDGE_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Bridge.WriteTimeout = d
		}
	}
	if val := os.Getenv("MACROLINK_BRIDGE_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Bridge.ShutdownTimeout = d
		}
	}

	// Document overrides
	if val := os.Getenv("MACROLINK_DOCUMENTS_RULE_PATH"); val != "" {
		cfg.Documents.RulePath = val
	}
	if val := os.Getenv("MACROLINK_DOCUMENTS_ALIAS_PATH"); val != "" {
		cfg.Documents.AliasPath = val
	}
	if val := os.Getenv("MACROLINK_DOCUMENTS_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Documents.Watch = b
		}
	}

	// Journal overrides
	if val := os.Getenv("MACROLINK_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("MACROLINK_JOURNAL_BACKEND"); val != "" {
		cfg.Journal.Backend = val
	}
	if val := os.Getenv("MACROLINK_JOURNAL_SQLITE_PATH"); val != "" {
		cfg.Journal.SQLitePath = val
	}
	if val := os.Getenv("MACROLINK_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.Retention.Days = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("MACROLINK_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("MACROLINK_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("MACROLINK_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
