package normalize

import (
	"strings"
	"unicode"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
)

// Policy maps badge tokens to availability. Tokens may span several words.
// Out-of-stock tokens take precedence over in-stock ones, and a badge
// matching nothing is out of stock.
type Policy struct {
	table map[string]catalog.Availability
}

// DefaultInStockTokens are the badges the supplier portal shows on chilled and frozen stock
var DefaultInStockTokens = []string{"RESFRIADO", "CONGELADO"}

// NewPolicy builds a policy table from token lists
func NewPolicy(inStock, outOfStock []string) Policy {
	p := Policy{table: make(map[string]catalog.Availability, len(inStock)+len(outOfStock))}
	for _, tok := range inStock {
		if t := canonicalBadge(tok); t != "" {
			p.table[t] = catalog.InStock
		}
	}
	for _, tok := range outOfStock {
		if t := canonicalBadge(tok); t != "" {
			p.table[t] = catalog.OutOfStock
		}
	}
	return p
}

// DefaultPolicy returns the policy used when no policy file is configured
func DefaultPolicy() Policy {
	return NewPolicy(DefaultInStockTokens, nil)
}

// Availability resolves free badge text to an availability
func (p Policy) Availability(badge string) catalog.Availability {
	text := " " + canonicalBadge(badge) + " "
	if text == "  " {
		return catalog.OutOfStock
	}

	matched := false
	for token, availability := range p.table {
		if !strings.Contains(text, " "+token+" ") {
			continue
		}
		if availability == catalog.OutOfStock {
			return catalog.OutOfStock
		}
		matched = true
	}
	if matched {
		return catalog.InStock
	}
	return catalog.OutOfStock
}

// Tokens returns the number of entries in the table
func (p Policy) Tokens() int {
	return len(p.table)
}

// canonicalBadge upper-cases s and joins its letter/digit runs with single spaces
func canonicalBadge(s string) string {
	words := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(words, " ")
}
