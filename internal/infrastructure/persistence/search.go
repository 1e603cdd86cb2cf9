package persistence

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldSearch lowercases s and strips diacritics so "Peñón" matches "penon".
func FoldSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// SearchKey joins the folded parts with a separator that never appears in a
// folded term, so a LIKE pattern cannot match across two columns.
func SearchKey(parts ...string) string {
	folded := make([]string, 0, len(parts))
	for _, p := range parts {
		if f := FoldSearch(p); f != "" {
			folded = append(folded, f)
		}
	}
	return strings.Join(folded, "|")
}

// likePattern builds a contains pattern for an already folded term, escaping
// LIKE wildcards.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
