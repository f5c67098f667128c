// Package testdocs provides shared rule and alias document fixtures for
// bridge and integration tests.
package testdocs

import (
	"os"
	"path/filepath"
	"testing"
)

// RuleDoc is a small selection rule document covering a family with a
// named default, criteria on a numeric fact and criteria on a version
// fact.
const RuleDoc = `
families:
  RELAIS:
    default: RELAIS
    rules:
      - criteria: "?HWSET>=3"
        target: RELAY2
      - criteria: "?HWSET==2"
        target: RELAISB
  VOLTAGE_REG:
    rules:
      - criteria: "?FWVERSION>=10.9.0.0"
        target: VOLTAGE_REG2
`

// AliasDoc is the matching alias document. It covers aliased and
// defaulted parameters, macro variants, an inverse-only macro name and
// a gate-length check.
const AliasDoc = `
unknown_macros: error
functions:
  VOLTAGEREGULATOR:
    macro: VOLTAGE_REG
    variants: [VOLTAGE_REG2]
    params:
      Value: {alias: InVolt, type: float, default: "0.0"}
      Enabled: {alias: On, type: bit, default: "1"}
  RELAIS:
    macro: RELAIS
    variants: [RELAY2, RELAISB]
    inverse: [RELAIS_OLD]
    params:
      PowerCoil: {alias: PowerCoil, type: bit}
  GATE:
    macro: GATE
    params:
      PathPin_A: {type: bitfield}
      Check_A: {type: bitfield, check: {length_of: PathPin_A}}
`

// Write writes the fixture documents into a temp directory and returns
// their paths.
func Write(t *testing.T) (rulePath, aliasPath string) {
	t.Helper()

	dir := t.TempDir()
	rulePath = filepath.Join(dir, "rules.yaml")
	aliasPath = filepath.Join(dir, "aliases.yaml")

	if err := os.WriteFile(rulePath, []byte(RuleDoc), 0o644); err != nil {
		t.Fatalf("failed to write rule document: %v", err)
	}
	if err := os.WriteFile(aliasPath, []byte(AliasDoc), 0o644); err != nil {
		t.Fatalf("failed to write alias document: %v", err)
	}
	return rulePath, aliasPath
}
