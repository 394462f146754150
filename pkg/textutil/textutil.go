// Package textutil normaliza texto en portugués para búsquedas sin acentos.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold quita acentos y normaliza mayúsculas: "João Cação" → "joao cacao".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	// Caser no es seguro entre goroutines; se crea uno por llamada.
	return cases.Fold().String(strings.TrimSpace(out))
}

// ContainsFold indica si needle aparece en haystack ignorando acentos y mayúsculas.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}

// TitleName capitaliza un nombre de cliente según reglas del portugués.
func TitleName(s string) string {
	return cases.Title(language.BrazilianPortuguese).String(strings.Join(strings.Fields(s), " "))
}
