package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/translator"
)

var convertFlags struct {
	toXML     bool
	fromXML   bool
	rulePath  string
	aliasPath string
	input     string
	output    string
	facts     []string
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Translate between logical parameters and macro documents",
	Long: `Translate between a logical parameter set (JSON) and a UTF-16 XML
macro document.

With --to-xml the input is a JSON object mapping functions to their
parameters and the output is a macro document. With --from-xml the
directions are reversed. Station facts for variant selection are passed
as repeated --fact flags.

Examples:
  # Logical parameters to a macro document
  macrolink convert --to-xml --rules rules.yaml --aliases aliases.yaml \
      --fact HWSET=3 --input params.json --output macros.xml

  # A macro document back to logical parameters
  macrolink convert --from-xml --rules rules.yaml --aliases aliases.yaml \
      --input macros.xml

  # Read from stdin, write to stdout
  cat params.json | macrolink convert --to-xml --rules rules.yaml --aliases aliases.yaml`,
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(&convertFlags.toXML, "to-xml", false, "translate logical parameters to a macro document")
	convertCmd.Flags().BoolVar(&convertFlags.fromXML, "from-xml", false, "translate a macro document to logical parameters")
	convertCmd.Flags().StringVar(&convertFlags.rulePath, "rules", "", "rule document path (required for --to-xml)")
	convertCmd.Flags().StringVar(&convertFlags.aliasPath, "aliases", "", "alias document path")
	convertCmd.Flags().StringVarP(&convertFlags.input, "input", "i", "", "input file (default: stdin)")
	convertCmd.Flags().StringVarP(&convertFlags.output, "output", "o", "", "output file (default: stdout)")
	convertCmd.Flags().StringArrayVar(&convertFlags.facts, "fact", nil, "station fact KEY=VALUE (repeatable)")

	convertCmd.MarkFlagRequired("aliases")
}

func runConvert(cmd *cobra.Command, args []string) error {
	if convertFlags.toXML == convertFlags.fromXML {
		return fmt.Errorf("exactly one of --to-xml or --from-xml must be set")
	}

	aliases, err := macromap.LoadAliasesFile(convertFlags.aliasPath)
	if err != nil {
		return err
	}

	var rules *macromap.RuleSet
	if convertFlags.rulePath != "" {
		rules, err = macromap.LoadRulesFile(convertFlags.rulePath)
		if err != nil {
			return err
		}
	}

	input, err := readInput(convertFlags.input)
	if err != nil {
		return err
	}

	tr := translator.New(rules, aliases, nil)

	var output []byte
	if convertFlags.toXML {
		facts, err := parseFacts(convertFlags.facts)
		if err != nil {
			return err
		}

		set := translator.NewParamSet()
		if err := json.Unmarshal(input, set); err != nil {
			return fmt.Errorf("invalid parameter JSON: %w", err)
		}

		output, err = tr.Marshal(set, facts)
		if err != nil {
			return err
		}
	} else {
		set, err := tr.Unmarshal(input)
		if err != nil {
			return err
		}

		output, err = json.MarshalIndent(set, "", "  ")
		if err != nil {
			return err
		}
		output = append(output, '\n')
	}

	return writeOutput(convertFlags.output, output)
}

// readInput reads the given file, or stdin when path is empty.
func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

// writeOutput writes to the given file, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
