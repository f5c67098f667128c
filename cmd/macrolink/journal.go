package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"testlab-hq/macrolink/pkg/config"
	"testlab-hq/macrolink/pkg/journal"
)

var journalFlags struct {
	dbPath  string
	limit   int
	traceID string
	outcome string
	format  string
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the translation journal",
	Long: `Query the translation journal database directly.

The database path is taken from the configuration file unless --db is
given. Records are printed newest first.

Examples:
  # Last 20 records
  macrolink journal --limit 20

  # All failures
  macrolink journal --outcome validation_error

  # Records of one bridge request
  macrolink journal --trace-id 6e1f...

  # JSON output
  macrolink journal --format json`,
	RunE: runJournal,
}

func init() {
	rootCmd.AddCommand(journalCmd)

	journalCmd.Flags().StringVar(&journalFlags.dbPath, "db", "", "journal database path (default: from config)")
	journalCmd.Flags().IntVar(&journalFlags.limit, "limit", 20, "maximum number of records")
	journalCmd.Flags().StringVar(&journalFlags.traceID, "trace-id", "", "filter by trace id")
	journalCmd.Flags().StringVar(&journalFlags.outcome, "outcome", "", "filter by outcome")
	journalCmd.Flags().StringVar(&journalFlags.format, "format", "text", "output format: text, json")
}

func runJournal(cmd *cobra.Command, args []string) error {
	dbPath := journalFlags.dbPath
	if dbPath == "" {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = config.DefaultConfig()
		}
		dbPath = cfg.Journal.SQLitePath
	}

	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("journal database not found at %s", dbPath)
	}

	storage, err := journal.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open journal database: %w", err)
	}
	defer storage.Close()

	records, err := storage.Query(context.Background(), journal.Query{
		Limit:   journalFlags.limit,
		TraceID: journalFlags.traceID,
		Outcome: journalFlags.outcome,
	})
	if err != nil {
		return fmt.Errorf("failed to query journal: %w", err)
	}

	if journalFlags.format == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("no records found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tDIRECTION\tOUTCOME\tFUNCTIONS\tBYTES\tDURATION\tTRACE")
	for _, r := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.CreatedAt.Format(time.RFC3339),
			r.Direction,
			r.Outcome,
			len(r.Functions),
			r.Bytes,
			r.Duration.Round(time.Microsecond),
			r.TraceID,
		)
	}
	return w.Flush()
}
