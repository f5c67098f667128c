package translator

import (
	"encoding/json"
	"reflect"
	"testing"
)

// TestParamSet_OrderAndOverwrite verifies first-appearance ordering with
// in-place overwrite.
func TestParamSet_OrderAndOverwrite(t *testing.T) {
	s := NewParamSet()
	s.Set("RELAIS", "PowerCoil", "0")
	s.Set("VOLTAGEREGULATOR", "Value", "3.3")
	s.Set("RELAIS", "HoldCoil", "1")
	s.Set("RELAIS", "PowerCoil", "1") // overwrite keeps position

	wantFuncs := []string{"RELAIS", "VOLTAGEREGULATOR"}
	if got := s.Functions(); !reflect.DeepEqual(got, wantFuncs) {
		t.Errorf("Functions() = %v, want %v", got, wantFuncs)
	}

	wantParams := []Param{{Name: "PowerCoil", Value: "1"}, {Name: "HoldCoil", Value: "1"}}
	if got := s.Params("RELAIS"); !reflect.DeepEqual(got, wantParams) {
		t.Errorf("Params(RELAIS) = %v, want %v", got, wantParams)
	}

	if v, ok := s.Get("RELAIS", "PowerCoil"); !ok || v != "1" {
		t.Errorf("Get(RELAIS, PowerCoil) = %q, %v; want %q, true", v, ok, "1")
	}
	if _, ok := s.Get("RELAIS", "NoSuch"); ok {
		t.Error("Get returned ok for an absent parameter")
	}
	if s.Params("NOSUCH") != nil {
		t.Error("Params returned non-nil for an unknown function")
	}
}

// TestParamSet_MapConversions verifies ToMap/FromMap round trip with a
// deterministic (sorted) order from plain maps.
func TestParamSet_MapConversions(t *testing.T) {
	m := map[string]map[string]string{
		"RELAIS":           {"PowerCoil": "0"},
		"VOLTAGEREGULATOR": {"Value": "3.3", "Enabled": "1"},
	}

	s := FromMap(m)
	if got := s.Functions(); !reflect.DeepEqual(got, []string{"RELAIS", "VOLTAGEREGULATOR"}) {
		t.Errorf("Functions() = %v, want sorted names", got)
	}
	if !reflect.DeepEqual(s.ToMap(), m) {
		t.Errorf("ToMap() = %v, want %v", s.ToMap(), m)
	}
}

// TestParamSet_JSONRoundTrip verifies the order-preserving JSON object form.
func TestParamSet_JSONRoundTrip(t *testing.T) {
	s := NewParamSet()
	s.Set("RELAIS", "PowerCoil", "0")
	s.Set("VOLTAGEREGULATOR", "Value", "3.3")
	s.Set("VOLTAGEREGULATOR", "Enabled", "1")

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	want := `{"RELAIS":{"PowerCoil":"0"},"VOLTAGEREGULATOR":{"Value":"3.3","Enabled":"1"}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	var back ParamSet
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !reflect.DeepEqual(back.Functions(), s.Functions()) {
		t.Errorf("order lost: %v != %v", back.Functions(), s.Functions())
	}
	if !reflect.DeepEqual(back.ToMap(), s.ToMap()) {
		t.Errorf("values lost: %v != %v", back.ToMap(), s.ToMap())
	}
}

// TestParamSet_JSONNumbersKeepLiteralForm verifies numeric JSON values
// keep their exact text.
func TestParamSet_JSONNumbersKeepLiteralForm(t *testing.T) {
	var s ParamSet
	if err := json.Unmarshal([]byte(`{"VOLTAGEREGULATOR":{"Value":3.30,"Count":7}}`), &s); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if v, _ := s.Get("VOLTAGEREGULATOR", "Value"); v != "3.30" {
		t.Errorf("Value = %q, want literal %q", v, "3.30")
	}
	if v, _ := s.Get("VOLTAGEREGULATOR", "Count"); v != "7" {
		t.Errorf("Count = %q, want %q", v, "7")
	}
}

// TestParamSet_JSONRejectsNonScalarValues verifies structured values fail.
func TestParamSet_JSONRejectsNonScalarValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"array value", `{"RELAIS":{"PowerCoil":[1]}}`},
		{"object value", `{"RELAIS":{"PowerCoil":{}}}`},
		{"top-level array", `[1,2]`},
		{"bare string", `"RELAIS"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ParamSet
			if err := json.Unmarshal([]byte(tt.data), &s); err == nil {
				t.Errorf("Unmarshal(%s) returned nil error", tt.data)
			}
		})
	}
}
