package macromap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"testlab-hq/macrolink/pkg/criteria"
)

// Rule is one criteria/target pair in a family's rule list. A Rule with an
// empty criteria string always matches.
type Rule struct {
	// Criteria is the original expression text, empty for an
	// unconditional rule.
	Criteria string

	// Target is the physical macro name selected when the rule matches.
	Target string

	expr *criteria.Expr
}

// Matches evaluates the rule's criteria against a context. An
// unconditional rule matches every context.
func (r *Rule) Matches(ctx criteria.Context) (bool, error) {
	if r.expr == nil {
		return true, nil
	}
	return r.expr.Eval(ctx)
}

// Family is the ordered rule list for one macro family, plus its default
// target for when no rule matches.
type Family struct {
	// Name is the family's base name.
	Name string

	// Default is the target used when no rule matches. It falls back to
	// the family name itself when the document declares none.
	Default string

	// Rules is the rule list in document order.
	Rules []Rule
}

// RuleSet is the loaded selection rule document. It is immutable after
// load and safe for concurrent readers.
type RuleSet struct {
	families map[string]*Family
}

// Family returns the rule family with the given name, or nil when the
// document has no entry for it.
func (rs *RuleSet) Family(name string) *Family {
	return rs.families[name]
}

// Families returns the number of configured families.
func (rs *RuleSet) Families() int {
	return len(rs.families)
}

// ruleDocument is the YAML shape of the rule document.
type ruleDocument struct {
	Families map[string]familyEntry `yaml:"families"`
}

type familyEntry struct {
	Default string      `yaml:"default"`
	Rules   []ruleEntry `yaml:"rules"`
}

type ruleEntry struct {
	Criteria string `yaml:"criteria"`
	Target   string `yaml:"target"`
}

// LoadRules parses and validates a selection rule document. Every criteria
// expression is parsed eagerly; a malformed expression or a rule without a
// target is a *ConfigError.
func LoadRules(doc []byte) (*RuleSet, error) {
	var parsed ruleDocument
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, &ConfigError{Document: "rules", Message: "malformed YAML", Cause: err}
	}

	rs := &RuleSet{families: make(map[string]*Family, len(parsed.Families))}

	for name, entry := range parsed.Families {
		if name == "" {
			return nil, &ConfigError{Document: "rules", Message: "empty family name"}
		}

		family := &Family{
			Name:    name,
			Default: entry.Default,
			Rules:   make([]Rule, 0, len(entry.Rules)),
		}
		if family.Default == "" {
			family.Default = name
		}

		for i, re := range entry.Rules {
			if re.Target == "" {
				return nil, &ConfigError{
					Document: "rules",
					Section:  name,
					Message:  fmt.Sprintf("rule %d has no target", i),
				}
			}

			rule := Rule{Criteria: re.Criteria, Target: re.Target}
			if re.Criteria != "" {
				expr, err := criteria.Parse(re.Criteria)
				if err != nil {
					return nil, &ConfigError{
						Document: "rules",
						Section:  name,
						Message:  fmt.Sprintf("rule %d has an invalid criteria expression", i),
						Cause:    err,
					}
				}
				rule.expr = expr
			}

			family.Rules = append(family.Rules, rule)
		}

		rs.families[name] = family
	}

	return rs, nil
}

// LoadRulesFile reads and parses a selection rule document from a file.
func LoadRulesFile(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule document %q: %w", path, err)
	}
	rs, err := LoadRules(data)
	if err != nil {
		return nil, fmt.Errorf("rule document %q: %w", path, err)
	}
	return rs, nil
}
