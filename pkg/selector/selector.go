package selector

import (
	"log/slog"

	"testlab-hq/macrolink/pkg/criteria"
	"testlab-hq/macrolink/pkg/macromap"
)

// Selector picks concrete macro names from a rule set. It holds no
// mutable state and is safe for concurrent use.
type Selector struct {
	rules  *macromap.RuleSet
	logger *slog.Logger
}

// New creates a selector over a loaded rule set. A nil logger falls back
// to slog.Default().
func New(rules *macromap.RuleSet, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		rules:  rules,
		logger: logger.With("component", "selector"),
	}
}

// Choose returns the concrete macro name for a family under the given
// context. Families without a rule entry pass through unchanged; a family
// whose rules all fail resolves to its default target. An error is
// returned only when a rule's criteria cannot be evaluated.
func (s *Selector) Choose(family string, ctx criteria.Context) (string, error) {
	f := s.rules.Family(family)
	if f == nil {
		return family, nil
	}

	for i := range f.Rules {
		rule := &f.Rules[i]
		ok, err := rule.Matches(ctx)
		if err != nil {
			// A broken criteria expression is a configuration defect;
			// abort rather than skip the rule.
			return "", err
		}
		if ok {
			s.logger.Debug("rule matched",
				"family", family,
				"rule", i,
				"criteria", rule.Criteria,
				"target", rule.Target,
			)
			return rule.Target, nil
		}
	}

	s.logger.Debug("no rule matched, using default", "family", family, "target", f.Default)
	return f.Default, nil
}
