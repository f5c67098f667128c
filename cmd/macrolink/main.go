// MacroLink is a translation bridge between logical test parameters and
// the UTF-16 XML macro documents consumed by hardware test stations.
//
// It resolves macro variants per station through an ordered rule
// document, maps logical parameter names to their wire aliases and
// elides parameters that carry their default value.
//
// Usage:
//
//	# Start the HTTP bridge with default configuration
//	macrolink serve
//
//	# Start with a custom configuration file
//	macrolink serve --config /path/to/config.yaml
//
//	# Translate logical parameters to a macro document
//	macrolink convert --to-xml --rules rules.yaml --aliases aliases.yaml \
//	    --fact HWSET=3 --input params.json --output macros.xml
//
//	# Resolve one macro family against station facts
//	macrolink resolve RELAIS --rules rules.yaml --fact HWSET=3
//
//	# Validate translation documents
//	macrolink lint --rules rules.yaml --aliases aliases.yaml
//
//	# Query the translation journal
//	macrolink journal --limit 20 --outcome ok
package main

func main() {
	Execute()
}
