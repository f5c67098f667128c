package main

import (
	"fmt"
	"strconv"
	"strings"

	"testlab-hq/macrolink/pkg/criteria"
)

// parseFacts converts repeated --fact KEY=VALUE flags into a criteria
// context. Numeric values are stored as numbers so numeric comparisons
// work; everything else stays a string.
func parseFacts(facts []string) (criteria.Context, error) {
	ctx := criteria.Context{}
	for _, fact := range facts {
		key, value, found := strings.Cut(fact, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid fact %q: expected KEY=VALUE", fact)
		}
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			ctx[key] = n
		} else {
			ctx[key] = value
		}
	}
	return ctx, nil
}
