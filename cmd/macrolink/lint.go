package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"testlab-hq/macrolink/pkg/macromap"
)

var lintFlags struct {
	rulePath  string
	aliasPath string
	format    string
}

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Validate translation documents",
	Long: `Validate the rule and alias documents for syntax and semantic errors.

The lint command parses the documents and performs full validation:
  - YAML syntax validation
  - Criteria expression parsing
  - Alias bijection checks (duplicate aliases, macro ownership)
  - Check rule references (length_of siblings)

Examples:
  # Lint both documents
  macrolink lint --rules rules.yaml --aliases aliases.yaml

  # Lint only the alias document
  macrolink lint --aliases aliases.yaml

  # JSON output for CI/CD
  macrolink lint --rules rules.yaml --aliases aliases.yaml --format json`,
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintFlags.rulePath, "rules", "", "rule document to validate")
	lintCmd.Flags().StringVar(&lintFlags.aliasPath, "aliases", "", "alias document to validate")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format: text, json")
}

// lintResult is the validation result for one document.
type lintResult struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func runLint(cmd *cobra.Command, args []string) error {
	if lintFlags.rulePath == "" && lintFlags.aliasPath == "" {
		return fmt.Errorf("at least one of --rules or --aliases must be specified")
	}

	var results []lintResult

	if lintFlags.rulePath != "" {
		result := lintResult{File: lintFlags.rulePath, Valid: true}
		if _, err := macromap.LoadRulesFile(lintFlags.rulePath); err != nil {
			result.Valid = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	if lintFlags.aliasPath != "" {
		result := lintResult{File: lintFlags.aliasPath, Valid: true}
		if _, err := macromap.LoadAliasesFile(lintFlags.aliasPath); err != nil {
			result.Valid = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	if lintFlags.format == "json" {
		return lintOutputJSON(results)
	}
	return lintOutputText(results)
}

func lintOutputJSON(results []lintResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return err
	}
	return lintExitError(results)
}

func lintOutputText(results []lintResult) error {
	for _, r := range results {
		if r.Valid {
			fmt.Printf("✓ %s\n", r.File)
		} else {
			fmt.Printf("✗ %s\n  %s\n", r.File, r.Error)
		}
	}
	return lintExitError(results)
}

func lintExitError(results []lintResult) error {
	for _, r := range results {
		if !r.Valid {
			return fmt.Errorf("validation failed")
		}
	}
	return nil
}
