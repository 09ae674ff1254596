package importer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	skuInvalidRe = regexp.MustCompile(`[^A-Za-z0-9-]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// StripDiacritics elimina tildes y demás marcas diacríticas ("descripción"
// -> "descripcion").
func StripDiacritics(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeSKU normaliza un SKU crudo a un token ASCII: sin tildes, sin
// espacios y sin caracteres fuera de [A-Za-z0-9-].
func NormalizeSKU(raw string) string {
	s := StripDiacritics(strings.TrimSpace(raw))
	s = whitespaceRe.ReplaceAllString(s, "")
	return skuInvalidRe.ReplaceAllString(s, "")
}

// normalizeKey prepara un texto para comparar encabezados: minúsculas, sin
// tildes y sin espacios.
func normalizeKey(s string) string {
	return strings.ReplaceAll(StripDiacritics(strings.ToLower(s)), " ", "")
}
