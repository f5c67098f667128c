package translator

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"testlab-hq/macrolink/pkg/criteria"
	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/selector"
)

// xmlHeader is the declaration the external tool expects. The actual
// bytes on the wire are UTF-16 little-endian with a BOM.
const xmlHeader = `<?xml version="1.0" encoding="utf-16"?>` + "\n"

// macroDocument is the physical XML structure: a root holding a Macros
// container of Macro elements, each holding Param elements.
type macroDocument struct {
	XMLName xml.Name  `xml:"MacroDocument"`
	Macros  macroList `xml:"Macros"`
}

type macroList struct {
	Macros []macroElement `xml:"Macro"`
}

type macroElement struct {
	Name   string         `xml:"Name,attr"`
	Params []paramElement `xml:"Param"`
}

type paramElement struct {
	Name  string `xml:"Name,attr"`
	Value string `xml:"Value,attr"`
}

// Translator converts between logical parameter sets and physical macro
// documents. It holds an immutable alias map and selector and is safe for
// concurrent use; each Marshal/Unmarshal call is independent.
type Translator struct {
	aliases *macromap.AliasMap
	sel     *selector.Selector
	logger  *slog.Logger
}

// New creates a translator over one configuration generation. A nil
// logger falls back to slog.Default().
func New(rules *macromap.RuleSet, aliases *macromap.AliasMap, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		aliases: aliases,
		sel:     selector.New(rules, logger),
		logger:  logger.With("component", "translator"),
	}
}

// NewForGeneration creates a translator over a manager generation.
func NewForGeneration(gen *macromap.Generation, logger *slog.Logger) *Translator {
	return New(gen.Rules, gen.Aliases, logger)
}

// Marshal serializes a logical parameter set into a UTF-16 macro
// document. Macro variants are resolved through the selection rules under
// ctx, parameters are renamed to their physical aliases, structural check
// rules are enforced against the pre-elision input, and default-valued
// parameters are elided. On any error nothing partial is returned.
func (t *Translator) Marshal(set *ParamSet, ctx criteria.Context) ([]byte, error) {
	doc := macroDocument{}

	for _, function := range set.Functions() {
		family, err := t.aliases.MacroFamily(function)
		if err != nil {
			return nil, err
		}

		macro, err := t.sel.Choose(family, ctx)
		if err != nil {
			return nil, err
		}

		params := set.Params(function)

		// Check rules run against the input values before elision, so a
		// defaulted gate field still constrains its sibling.
		for _, p := range params {
			_, _, spec, err := t.aliases.ToPhysical(function, p.Name)
			if err != nil {
				return nil, err
			}
			if spec.Check == nil {
				continue
			}
			if err := t.runCheck(set, function, p, spec.Check); err != nil {
				return nil, err
			}
		}

		elem := macroElement{Name: macro}
		for _, p := range params {
			_, physical, spec, err := t.aliases.ToPhysical(function, p.Name)
			if err != nil {
				return nil, err
			}
			if spec.Default != nil && p.Value == *spec.Default {
				t.logger.Debug("parameter elided",
					"function", function,
					"param", p.Name,
					"default", *spec.Default,
				)
				continue
			}
			elem.Params = append(elem.Params, paramElement{Name: physical, Value: p.Value})
		}

		// A macro whose parameters all elide is still emitted; the
		// macro's presence carries meaning on its own.
		doc.Macros.Macros = append(doc.Macros.Macros, elem)
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render macro document: %w", err)
	}

	return encodeUTF16(xmlHeader + string(body))
}

// runCheck enforces one structural check rule for a present parameter.
func (t *Translator) runCheck(set *ParamSet, function string, p Param, check *macromap.CheckRule) error {
	sibling, ok := set.Get(function, check.LengthOf)
	if !ok {
		return &ValidationError{
			Function: function,
			Param:    p.Name,
			Message:  fmt.Sprintf("requires %q to be present", check.LengthOf),
		}
	}
	if len(p.Value) != len(sibling) {
		return &ValidationError{
			Function: function,
			Param:    p.Name,
			Message: fmt.Sprintf("length %d does not match length %d of %q",
				len(p.Value), len(sibling), check.LengthOf),
		}
	}
	return nil
}

// Unmarshal parses a UTF-16 macro document back into a logical parameter
// set. Macro and parameter names are resolved through the alias map's
// derived inverse; values are collected as strings with no type coercion.
// Macro elements resolving to the same function merge, later elements
// winning on key collision. Unmapped macro names follow the alias map's
// unknown-macro policy.
func (t *Translator) Unmarshal(data []byte) (*ParamSet, error) {
	text, err := decodeUTF16(data)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(strings.NewReader(text))
	// The declaration still says utf-16 but the text is already decoded.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var doc macroDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, &FormatError{Message: "invalid XML", Cause: err}
	}

	set := NewParamSet()
	skipUnknown := t.aliases.UnknownMacros() == macromap.UnknownMacroSkip

	for _, elem := range doc.Macros.Macros {
		function, err := t.aliases.FunctionFor(elem.Name)
		if err != nil {
			if skipUnknown {
				t.logger.Debug("skipping unmapped macro element", "macro", elem.Name)
				continue
			}
			return nil, err
		}

		for _, p := range elem.Params {
			_, logical, _, err := t.aliases.ToLogical(elem.Name, p.Name)
			if err != nil {
				return nil, err
			}
			set.Set(function, logical, p.Value)
		}

		// Register parameterless macros too; their presence is the signal.
		if len(elem.Params) == 0 {
			set.touch(function)
		}
	}

	return set, nil
}

// touch registers a function with no parameters, keeping first-appearance
// order.
func (s *ParamSet) touch(function string) {
	if _, ok := s.funcs[function]; ok {
		return
	}
	s.funcs[function] = &paramList{values: make(map[string]string)}
	s.order = append(s.order, function)
}
