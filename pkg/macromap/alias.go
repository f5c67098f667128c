package macromap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParamType is the declared type tag of a physical parameter.
type ParamType string

// Parameter type tags.
const (
	ParamTypeInt      ParamType = "int"
	ParamTypeFloat    ParamType = "float"
	ParamTypeBit      ParamType = "bit"
	ParamTypeBitfield ParamType = "bitfield"
	ParamTypeString   ParamType = "string"
)

// UnknownMacroPolicy controls how parsing treats a macro element whose
// name has no entry in the alias map.
type UnknownMacroPolicy string

const (
	// UnknownMacroError makes an unconfigured macro name an
	// UnknownNameError. This is the default.
	UnknownMacroError UnknownMacroPolicy = "error"

	// UnknownMacroSkip silently drops unconfigured macro elements.
	UnknownMacroSkip UnknownMacroPolicy = "skip"
)

// CheckRule is a structural validation rule attached to a parameter.
type CheckRule struct {
	// LengthOf names the sibling logical parameter whose string length
	// the checked parameter's value must match.
	LengthOf string
}

// ParamSpec carries the per-parameter metadata used during translation:
// the physical alias, the declared type, the default value for elision and
// an optional structural check.
type ParamSpec struct {
	// Logical is the logical parameter name.
	Logical string

	// Alias is the physical parameter name used in the wire format.
	Alias string

	// Type is the declared type tag.
	Type ParamType

	// Default is the declared default value, nil when none is declared.
	// A parameter whose value equals its default is elided from output.
	Default *string

	// Check is the structural validation rule, nil when none applies.
	Check *CheckRule
}

// functionSpec is the per-function slice of the alias map.
type functionSpec struct {
	function string
	macro    string
	variants []string
	params   map[string]*ParamSpec // logical name -> spec
	byAlias  map[string]*ParamSpec // physical alias -> spec
}

// AliasMap is the loaded alias document: a per-function bijection between
// logical and physical parameter names, plus the macro-level mapping
// between physical macro names and logical function names. An AliasMap is
// immutable after load and safe for concurrent readers.
type AliasMap struct {
	funcs       map[string]*functionSpec
	macroToFunc map[string]string
	unknown     UnknownMacroPolicy
}

// MacroFamily returns the physical macro family base name for a logical
// function.
func (am *AliasMap) MacroFamily(function string) (string, error) {
	fs, ok := am.funcs[function]
	if !ok {
		return "", &UnknownNameError{Kind: "function", Name: function}
	}
	return fs.macro, nil
}

// FunctionFor returns the logical function name that owns a physical macro
// name (base, variant or legacy inverse entry).
func (am *AliasMap) FunctionFor(macro string) (string, error) {
	function, ok := am.macroToFunc[macro]
	if !ok {
		return "", &UnknownNameError{Kind: "macro", Name: macro}
	}
	return function, nil
}

// UnknownMacros returns the configured policy for unmapped macro names
// encountered during parsing.
func (am *AliasMap) UnknownMacros() UnknownMacroPolicy {
	return am.unknown
}

// ToPhysical resolves a logical (function, parameter) pair into the macro
// family base name, the physical parameter name and the parameter's spec.
func (am *AliasMap) ToPhysical(function, param string) (string, string, *ParamSpec, error) {
	fs, ok := am.funcs[function]
	if !ok {
		return "", "", nil, &UnknownNameError{Kind: "function", Name: function}
	}
	spec, ok := fs.params[param]
	if !ok {
		return "", "", nil, &UnknownNameError{Kind: "parameter", Name: param, Scope: function}
	}
	return fs.macro, spec.Alias, spec, nil
}

// ToLogical resolves a physical (macro, parameter) pair into the logical
// function name, the logical parameter name and the parameter's spec.
func (am *AliasMap) ToLogical(macro, physical string) (string, string, *ParamSpec, error) {
	function, ok := am.macroToFunc[macro]
	if !ok {
		return "", "", nil, &UnknownNameError{Kind: "macro", Name: macro}
	}
	spec, ok := am.funcs[function].byAlias[physical]
	if !ok {
		return "", "", nil, &UnknownNameError{Kind: "parameter", Name: physical, Scope: macro}
	}
	return function, spec.Logical, spec, nil
}

// CheckSibling returns the spec of the sibling parameter a check rule
// references within the same function.
func (am *AliasMap) CheckSibling(function string, check *CheckRule) (*ParamSpec, error) {
	fs, ok := am.funcs[function]
	if !ok {
		return nil, &UnknownNameError{Kind: "function", Name: function}
	}
	spec, ok := fs.params[check.LengthOf]
	if !ok {
		return nil, &UnknownNameError{Kind: "parameter", Name: check.LengthOf, Scope: function}
	}
	return spec, nil
}

// aliasDocument is the YAML shape of the alias document.
type aliasDocument struct {
	UnknownMacros string                   `yaml:"unknown_macros"`
	Functions     map[string]functionEntry `yaml:"functions"`
}

type functionEntry struct {
	Macro    string                `yaml:"macro"`
	Variants []string              `yaml:"variants"`
	Inverse  []string              `yaml:"inverse"`
	Params   map[string]paramEntry `yaml:"params"`
}

type paramEntry struct {
	Alias   string      `yaml:"alias"`
	Type    string      `yaml:"type"`
	Default *string     `yaml:"default"`
	Check   *checkEntry `yaml:"check"`
}

type checkEntry struct {
	LengthOf string `yaml:"length_of"`
}

// LoadAliases parses and validates an alias document. The parse-direction
// view is derived here from the forward entries: base macro names, declared
// variants and legacy inverse entries all map back to the owning function.
// Bijection violations are a *ConfigError of the load.
func LoadAliases(doc []byte) (*AliasMap, error) {
	var parsed aliasDocument
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, &ConfigError{Document: "aliases", Message: "malformed YAML", Cause: err}
	}

	am := &AliasMap{
		funcs:       make(map[string]*functionSpec, len(parsed.Functions)),
		macroToFunc: make(map[string]string),
		unknown:     UnknownMacroError,
	}

	switch parsed.UnknownMacros {
	case "", string(UnknownMacroError):
		am.unknown = UnknownMacroError
	case string(UnknownMacroSkip):
		am.unknown = UnknownMacroSkip
	default:
		return nil, &ConfigError{
			Document: "aliases",
			Message:  fmt.Sprintf("unknown_macros must be %q or %q, got %q", UnknownMacroError, UnknownMacroSkip, parsed.UnknownMacros),
		}
	}

	for function, entry := range parsed.Functions {
		if function == "" {
			return nil, &ConfigError{Document: "aliases", Message: "empty function name"}
		}
		if entry.Macro == "" {
			return nil, &ConfigError{Document: "aliases", Section: function, Message: "missing macro name"}
		}

		fs := &functionSpec{
			function: function,
			macro:    entry.Macro,
			variants: entry.Variants,
			params:   make(map[string]*ParamSpec, len(entry.Params)),
			byAlias:  make(map[string]*ParamSpec, len(entry.Params)),
		}

		for logical, pe := range entry.Params {
			if logical == "" {
				return nil, &ConfigError{Document: "aliases", Section: function, Message: "empty parameter name"}
			}

			spec := &ParamSpec{
				Logical: logical,
				Alias:   pe.Alias,
				Type:    ParamType(pe.Type),
				Default: pe.Default,
			}
			if spec.Alias == "" {
				spec.Alias = logical
			}
			if spec.Type == "" {
				spec.Type = ParamTypeString
			}
			switch spec.Type {
			case ParamTypeInt, ParamTypeFloat, ParamTypeBit, ParamTypeBitfield, ParamTypeString:
			default:
				return nil, &ConfigError{
					Document: "aliases",
					Section:  function,
					Message:  fmt.Sprintf("parameter %q has unknown type %q", logical, pe.Type),
				}
			}
			if pe.Check != nil {
				if pe.Check.LengthOf == "" {
					return nil, &ConfigError{
						Document: "aliases",
						Section:  function,
						Message:  fmt.Sprintf("parameter %q has a check rule without length_of", logical),
					}
				}
				spec.Check = &CheckRule{LengthOf: pe.Check.LengthOf}
			}

			if existing, dup := fs.byAlias[spec.Alias]; dup {
				return nil, &ConfigError{
					Document: "aliases",
					Section:  function,
					Message:  fmt.Sprintf("alias %q is claimed by both %q and %q", spec.Alias, existing.Logical, logical),
				}
			}
			fs.params[logical] = spec
			fs.byAlias[spec.Alias] = spec
		}

		// Check rules must reference a sibling that exists.
		for logical, spec := range fs.params {
			if spec.Check == nil {
				continue
			}
			if _, ok := fs.params[spec.Check.LengthOf]; !ok {
				return nil, &ConfigError{
					Document: "aliases",
					Section:  function,
					Message:  fmt.Sprintf("parameter %q checks length of unknown sibling %q", logical, spec.Check.LengthOf),
				}
			}
		}

		am.funcs[function] = fs

		macros := append([]string{entry.Macro}, entry.Variants...)
		macros = append(macros, entry.Inverse...)
		for _, macro := range macros {
			if macro == "" {
				return nil, &ConfigError{Document: "aliases", Section: function, Message: "empty macro name"}
			}
			if owner, dup := am.macroToFunc[macro]; dup && owner != function {
				return nil, &ConfigError{
					Document: "aliases",
					Section:  function,
					Message:  fmt.Sprintf("macro %q is claimed by both %q and %q", macro, owner, function),
				}
			}
			am.macroToFunc[macro] = function
		}
	}

	return am, nil
}

// LoadAliasesFile reads and parses an alias document from a file.
func LoadAliasesFile(path string) (*AliasMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias document %q: %w", path, err)
	}
	am, err := LoadAliases(data)
	if err != nil {
		return nil, fmt.Errorf("alias document %q: %w", path, err)
	}
	return am, nil
}
