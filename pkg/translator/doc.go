// Package translator converts between the logical parameter representation
// of hardware test macros and the physical XML wire format consumed by the
// external test-database tool.
//
// # Serialization
//
// Marshal takes an ordered logical parameter set plus a context of
// hardware/firmware facts, resolves each logical function to its concrete
// macro variant through the selection rules, renames every parameter to
// its physical alias, elides parameters whose value equals their declared
// default, enforces structural check rules, and renders a UTF-16 encoded
// XML document:
//
//	<?xml version="1.0" encoding="utf-16"?>
//	<MacroDocument>
//	  <Macros>
//	    <Macro Name="RELAY2">
//	      <Param Name="PowerCoil" Value="0"></Param>
//	    </Macro>
//	  </Macros>
//	</MacroDocument>
//
// # Parsing
//
// Unmarshal reverses the direction: it decodes the UTF-16 document,
// resolves physical macro and parameter names back to their logical form
// through the alias map's derived inverse, and returns the logical
// parameter set. Values come back as strings; callers interpret types via
// the parameter specs when they need to.
//
// # Round trips
//
// Serializing and then parsing reproduces every parameter whose value
// differs from its declared default. Elided (default-valued) parameters
// are indistinguishable from absent parameters after a round trip; that
// is the point of default elision, not a defect.
package translator
