package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "macrolink",
	Short: "MacroLink - macro document translation bridge",
	Long: `MacroLink translates between logical test parameters and the UTF-16
XML macro documents consumed by hardware test stations.

It provides:
  - Station-aware macro variant selection through ordered criteria rules
  - Bidirectional logical/physical parameter name mapping
  - Default value elision and gate length validation
  - An HTTP bridge with hot document reload and a translation journal`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
