// Package selector resolves a logical macro family to the concrete macro
// variant that applies under a given hardware/firmware context.
//
// Resolution is first-match over the family's rule list in document
// order. A family with no entry in the rule set passes through unchanged,
// and a family whose rules all fail to match resolves to its declared
// default (the family name itself when none is declared). Selection is
// pure and total: for any (family, context) pair it returns exactly one
// macro name; the only error source is a criteria expression that cannot
// be evaluated, which indicates a configuration defect and aborts the
// call.
package selector
