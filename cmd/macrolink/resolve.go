package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/selector"
)

var resolveFlags struct {
	rulePath string
	facts    []string
}

var resolveCmd = &cobra.Command{
	Use:   "resolve FAMILY",
	Short: "Resolve a macro family to its selected variant",
	Long: `Resolve one macro family against a set of station facts and print the
selected macro variant.

Examples:
  # Which relay macro does hardware set 3 get?
  macrolink resolve RELAIS --rules rules.yaml --fact HWSET=3

  # Version facts are dotted 4-component strings
  macrolink resolve VOLTAGE_REG --rules rules.yaml --fact FWVERSION=10.9.0.0`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveFlags.rulePath, "rules", "", "rule document path")
	resolveCmd.Flags().StringArrayVar(&resolveFlags.facts, "fact", nil, "station fact KEY=VALUE (repeatable)")

	resolveCmd.MarkFlagRequired("rules")
}

func runResolve(cmd *cobra.Command, args []string) error {
	rules, err := macromap.LoadRulesFile(resolveFlags.rulePath)
	if err != nil {
		return err
	}

	facts, err := parseFacts(resolveFlags.facts)
	if err != nil {
		return err
	}

	macro, err := selector.New(rules, nil).Choose(args[0], facts)
	if err != nil {
		return err
	}

	fmt.Println(macro)
	return nil
}
