// Package merchant maps raw merchant strings from bank feeds to display
// names and categories, using stored mappings first and a Gemini-backed
// suggester for anything unmapped.
package merchant

import (
	"strings"

	"fintrack/internal/core"
)

// Match finds the display name and category for a raw merchant name.
// Exact matches win; otherwise any mapping whose raw pattern is
// contained in the name matches. Unmatched names come back unchanged
// with the fallback category.
func Match(name string, mappings map[string]core.MerchantMapping) (display, category string, matched bool) {
	if m, ok := mappings[name]; ok {
		return m.DisplayName, m.Category, true
	}

	for pattern, m := range mappings {
		if strings.Contains(name, pattern) {
			return m.DisplayName, m.Category, true
		}
	}

	return name, core.CategoryFallback, false
}

// IdentifyUnmapped returns the raw merchant names among the given
// transactions that no mapping matches. Each name appears once.
func IdentifyUnmapped(transactions []core.Transaction, mappings map[string]core.MerchantMapping) []string {
	seen := make(map[string]bool)
	var unmapped []string

	for _, t := range transactions {
		if t.RawMerchant == "" || seen[t.RawMerchant] {
			continue
		}
		seen[t.RawMerchant] = true
		if _, _, matched := Match(t.RawMerchant, mappings); !matched {
			unmapped = append(unmapped, t.RawMerchant)
		}
	}
	return unmapped
}
