package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// FoldSearch lowercases a term and strips diacritics so "Pelleteuse Légère"
// and "pelleteuse legere" compare equal. Product names are stored folded in a
// dedicated column; queries fold the user's term before matching.
func FoldSearch(term string) string {
	folded, _, err := transform.String(foldTransformer, term)
	if err != nil {
		folded = term
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
