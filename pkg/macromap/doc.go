// Package macromap loads and holds the two configuration documents that
// drive macro translation: the selection rule document and the alias
// document.
//
// # Rule document
//
// The rule document maps a macro family to an ordered list of
// criteria/target rules. Document order is load-bearing: selection walks
// the list top to bottom and the first matching rule wins.
//
//	families:
//	  RELAIS:
//	    default: RELAIS
//	    rules:
//	      - criteria: "?HWSET>=3"
//	        target: RELAY2
//	      - criteria: "?HWSET==2"
//	        target: RELAISB
//
// Every criteria string is parsed at load time, so a malformed expression
// is a *ConfigError of the load, never a surprise during translation. An
// empty criteria string means the rule always matches.
//
// # Alias document
//
// The alias document maps logical function names to physical macro names
// and, per function, logical parameter names to their physical aliases
// together with type, default value and structural check metadata:
//
//	unknown_macros: error
//	functions:
//	  VOLTAGEREGULATOR:
//	    macro: VOLTAGE_REG
//	    params:
//	      Value: {alias: InVolt, type: float, default: "0.0"}
//	  RELAIS:
//	    macro: RELAIS
//	    variants: [RELAY2, RELAISB]
//	    params:
//	      PowerCoil: {alias: PowerCoil, type: bit}
//
// The parse-direction (macro name back to function name) view is derived
// from the forward document: the base macro name, the declared variants
// and any explicit legacy "inverse" entries all map back to the owning
// function. Bijectivity is validated eagerly at load time; a duplicate
// alias within a function or a macro name claimed by two functions is a
// *ConfigError.
//
// # Generations
//
// A loaded RuleSet and AliasMap are immutable and safe for concurrent
// readers. The Manager bundles both into a Generation and swaps in a
// whole fresh Generation on reload; a failed reload keeps the previous
// one. The Watcher triggers reloads when either document changes on disk.
package macromap
