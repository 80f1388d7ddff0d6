// Package textutil normaliza textos capturados por usuarios (códigos de activo, SKU,
// búsquedas) y decodifica archivos Latin-1 exportados desde hojas de cálculo.
package textutil

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents quita tildes y diéresis: "Compresión" → "Compresion".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeCode convierte un código a mayúsculas sin tildes y con espacios internos
// reemplazados por guiones: " bomba  centrífuga 01 " → "BOMBA-CENTRIFUGA-01".
func NormalizeCode(s string) string {
	s = StripAccents(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), "-")
	return cases.Upper(language.Und).String(s)
}

// SearchKey prepara un término de búsqueda: minúsculas, sin tildes, espacios simples.
func SearchKey(s string) string {
	s = StripAccents(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	return cases.Lower(language.Und).String(s)
}

// Title capitaliza nombres propios ("planta norte" → "Planta Norte").
func Title(s string) string {
	return cases.Title(language.Spanish).String(strings.TrimSpace(s))
}

// Latin1Reader decodifica un flujo ISO-8859-1 (CSV exportado por Excel) a UTF-8.
func Latin1Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
}
