// Package config defines the configuration for the MacroLink bridge
// binary and its loading pipeline.
//
// Loading follows a fixed sequence: read the YAML file, apply defaults
// for unset fields, apply MACROLINK_SECTION_FIELD environment variable
// overrides (when requested), then validate. Validation collects all
// field errors instead of stopping at the first one.
//
// Example configuration file:
//
//	bridge:
//	  listen_address: "127.0.0.1:8184"
//	documents:
//	  rule_path: /etc/macrolink/rules.yaml
//	  alias_path: /etc/macrolink/aliases.yaml
//	  watch: true
//	journal:
//	  backend: sqlite
//	  sqlite_path: /var/lib/macrolink/journal.db
//	  retention:
//	    days: 30
//	    schedule: "0 3 * * *"
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
package config
