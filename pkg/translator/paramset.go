package translator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Param is one logical parameter name/value pair.
type Param struct {
	Name  string
	Value string
}

// ParamSet is an ordered logical parameter mapping: function name to an
// ordered list of parameters. Iteration order is order of first
// appearance; setting an existing key overwrites its value in place
// without moving it. The zero value is not usable; use NewParamSet.
type ParamSet struct {
	order []string
	funcs map[string]*paramList
}

type paramList struct {
	order  []string
	values map[string]string
}

// NewParamSet creates an empty parameter set.
func NewParamSet() *ParamSet {
	return &ParamSet{funcs: make(map[string]*paramList)}
}

// Set stores a parameter value. A new function or parameter takes the
// next position; an existing one keeps its position and gets the new
// value.
func (s *ParamSet) Set(function, param, value string) {
	pl, ok := s.funcs[function]
	if !ok {
		pl = &paramList{values: make(map[string]string)}
		s.funcs[function] = pl
		s.order = append(s.order, function)
	}
	if _, ok := pl.values[param]; !ok {
		pl.order = append(pl.order, param)
	}
	pl.values[param] = value
}

// Get returns a parameter value and whether it is present.
func (s *ParamSet) Get(function, param string) (string, bool) {
	pl, ok := s.funcs[function]
	if !ok {
		return "", false
	}
	v, ok := pl.values[param]
	return v, ok
}

// Functions returns the function names in order of first appearance.
func (s *ParamSet) Functions() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Params returns the parameters of a function in order of first
// appearance, or nil for an unknown function.
func (s *ParamSet) Params(function string) []Param {
	pl, ok := s.funcs[function]
	if !ok {
		return nil
	}
	out := make([]Param, 0, len(pl.order))
	for _, name := range pl.order {
		out = append(out, Param{Name: name, Value: pl.values[name]})
	}
	return out
}

// Len returns the number of functions in the set.
func (s *ParamSet) Len() int {
	return len(s.order)
}

// ToMap converts the set to a plain nested map, dropping order.
func (s *ParamSet) ToMap() map[string]map[string]string {
	out := make(map[string]map[string]string, len(s.order))
	for _, function := range s.order {
		pl := s.funcs[function]
		params := make(map[string]string, len(pl.values))
		for name, value := range pl.values {
			params[name] = value
		}
		out[function] = params
	}
	return out
}

// FromMap builds a parameter set from a plain nested map. Map iteration
// order is not deterministic, so keys are sorted to give the set a stable
// order.
func FromMap(m map[string]map[string]string) *ParamSet {
	s := NewParamSet()

	functions := make([]string, 0, len(m))
	for function := range m {
		functions = append(functions, function)
	}
	sort.Strings(functions)

	for _, function := range functions {
		params := make([]string, 0, len(m[function]))
		for name := range m[function] {
			params = append(params, name)
		}
		sort.Strings(params)
		for _, name := range params {
			s.Set(function, name, m[function][name])
		}
	}
	return s
}

// MarshalJSON renders the set as a nested JSON object preserving
// first-appearance order.
func (s *ParamSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, function := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(function)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteByte('{')
		pl := s.funcs[function]
		for j, name := range pl.order {
			if j > 0 {
				buf.WriteByte(',')
			}
			pkey, err := json.Marshal(name)
			if err != nil {
				return nil, err
			}
			buf.Write(pkey)
			buf.WriteByte(':')
			pval, err := json.Marshal(pl.values[name])
			if err != nil {
				return nil, err
			}
			buf.Write(pval)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON parses a nested JSON object into the set, preserving
// document order. Parameter values may be JSON strings or numbers; numbers
// keep their literal text form.
func (s *ParamSet) UnmarshalJSON(data []byte) error {
	if s.funcs == nil {
		s.funcs = make(map[string]*paramList)
	}
	s.order = nil
	for k := range s.funcs {
		delete(s.funcs, k)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		function, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected function name, got %v", tok)
		}

		if err := expectDelim(dec, '{'); err != nil {
			return fmt.Errorf("function %q: %w", function, err)
		}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}
			name, ok := tok.(string)
			if !ok {
				return fmt.Errorf("function %q: expected parameter name, got %v", function, tok)
			}

			vtok, err := dec.Token()
			if err != nil {
				return err
			}
			switch v := vtok.(type) {
			case string:
				s.Set(function, name, v)
			case json.Number:
				s.Set(function, name, v.String())
			default:
				return fmt.Errorf("parameter %s.%s: value must be a string or number, got %v", function, name, vtok)
			}
		}
		if err := expectDelim(dec, '}'); err != nil {
			return err
		}
	}
	return expectDelim(dec, '}')
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}
