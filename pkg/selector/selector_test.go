package selector

import (
	"errors"
	"testing"

	"testlab-hq/macrolink/pkg/criteria"
	"testlab-hq/macrolink/pkg/macromap"
)

const selectorRuleDoc = `
families:
  RELAIS:
    default: RELAIS
    rules:
      - criteria: "?HWSET>=3"
        target: RELAY2
      - criteria: "?HWSET>=2"
        target: RELAISB
  PUMP:
    default: PUMP_LEGACY
    rules:
      - criteria: "?FWVERSION>=10.9.0.0"
        target: PUMP2
  FAN:
    rules:
      - criteria: ""
        target: FAN_ALWAYS
`

func newTestSelector(t *testing.T) *Selector {
	t.Helper()
	rules, err := macromap.LoadRules([]byte(selectorRuleDoc))
	if err != nil {
		t.Fatalf("LoadRules returned error: %v", err)
	}
	return New(rules, nil)
}

// TestChoose covers first-match ordering, defaults and pass-through.
func TestChoose(t *testing.T) {
	tests := []struct {
		name   string
		family string
		ctx    criteria.Context
		want   string
	}{
		{
			name:   "first matching rule wins",
			family: "RELAIS",
			ctx:    criteria.Context{"HWSET": 3},
			want:   "RELAY2",
		},
		{
			name:   "earlier rule shadows later match",
			family: "RELAIS",
			// HWSET 5 satisfies both rules; document order decides.
			ctx:  criteria.Context{"HWSET": 5},
			want: "RELAY2",
		},
		{
			name:   "second rule when first fails",
			family: "RELAIS",
			ctx:    criteria.Context{"HWSET": 2},
			want:   "RELAISB",
		},
		{
			name:   "declared default when nothing matches",
			family: "PUMP",
			ctx:    criteria.Context{"FWVERSION": "10.8.0.0"},
			want:   "PUMP_LEGACY",
		},
		{
			name:   "family default when nothing matches and none declared",
			family: "RELAIS",
			ctx:    criteria.Context{"HWSET": 1},
			want:   "RELAIS",
		},
		{
			name:   "empty context falls through to default",
			family: "RELAIS",
			ctx:    criteria.Context{},
			want:   "RELAIS",
		},
		{
			name:   "unconfigured family passes through",
			family: "VOLTAGE_REG",
			ctx:    criteria.Context{"HWSET": 3},
			want:   "VOLTAGE_REG",
		},
		{
			name:   "version rule matches",
			family: "PUMP",
			ctx:    criteria.Context{"FWVERSION": "10.10.0.0"},
			want:   "PUMP2",
		},
		{
			name:   "unconditional rule matches empty context",
			family: "FAN",
			ctx:    criteria.Context{},
			want:   "FAN_ALWAYS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSelector(t)
			got, err := s.Choose(tt.family, tt.ctx)
			if err != nil {
				t.Fatalf("Choose(%q, %v) returned error: %v", tt.family, tt.ctx, err)
			}
			if got != tt.want {
				t.Errorf("Choose(%q, %v) = %q, want %q", tt.family, tt.ctx, got, tt.want)
			}
		})
	}
}

// TestChoose_CriteriaErrorAborts verifies that an uncomparable fact value
// aborts selection instead of skipping the rule.
func TestChoose_CriteriaErrorAborts(t *testing.T) {
	s := newTestSelector(t)

	_, err := s.Choose("RELAIS", criteria.Context{"HWSET": "rev-b"})
	if err == nil {
		t.Fatal("Choose returned nil error for uncomparable fact value")
	}
	var cerr *criteria.Error
	if !errors.As(err, &cerr) {
		t.Errorf("error is %T, want *criteria.Error", err)
	}
}

func BenchmarkChoose(b *testing.B) {
	rules, err := macromap.LoadRules([]byte(selectorRuleDoc))
	if err != nil {
		b.Fatal(err)
	}
	s := New(rules, nil)
	ctx := criteria.Context{"HWSET": 2}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Choose("RELAIS", ctx); err != nil {
			b.Fatal(err)
		}
	}
}
