// Package search normaliza texto para búsquedas sin distinguir acentos ni mayúsculas
// ("Válvula" encuentra "valvula").
package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize pasa a minúsculas, quita diacríticos y colapsa espacios.
func Normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Contains indica si needle aparece en alguno de los campos, comparando normalizado.
// Un needle vacío coincide siempre.
func Contains(needle string, fields ...string) bool {
	n := Normalize(needle)
	if n == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(Normalize(f), n) {
			return true
		}
	}
	return false
}

// Document une los campos buscables en un solo texto normalizado (columna search_text).
func Document(fields ...string) string {
	return Normalize(strings.Join(fields, " "))
}
