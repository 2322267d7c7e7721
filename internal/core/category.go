package core

import (
	"sort"
	"strings"
)

// SeedCategories is the starting list offered to a user with no
// transactions yet, so the category picker is never empty.
var SeedCategories = []string{"Gaji", "Makanan", "Transportasi"}

// KnownCategories returns the distinct non-empty categories observed in
// txs, sorted for display. With no observed categories it returns the
// seed list.
func KnownCategories(txs []Transaction) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range txs {
		c := strings.TrimSpace(t.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return append([]string(nil), SeedCategories...)
	}
	sort.Strings(out)
	return out
}

// ResolveCategory picks the effective category for a submission: the
// trimmed free text when the user asked for a new category and typed
// something, otherwise the existing selection. Blank free text falls
// back to selected.
func ResolveCategory(selected, freeText string, isNew bool) string {
	if isNew {
		if c := strings.TrimSpace(freeText); c != "" {
			return c
		}
	}
	return selected
}

// DefaultCategory is the pre-selected entry for the category picker:
// "Gaji" for income when available, else the first known category.
func DefaultCategory(txType TxType, known []string) string {
	if txType == Income {
		for _, c := range known {
			if c == "Gaji" {
				return c
			}
		}
	}
	if len(known) > 0 {
		return known[0]
	}
	return ""
}
