// Package textutil normaliza textos em português para identificadores ASCII.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents remove diacríticos ("João Conceição" -> "Joao Conceicao").
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Slugify converte s em minúsculas ASCII, trocando cada sequência de caracteres
// não alfanuméricos por sep e removendo sep das pontas. maxLen <= 0 não limita.
func Slugify(s, sep string, maxLen int) string {
	s = strings.ToLower(StripAccents(strings.TrimSpace(s)))

	var b strings.Builder
	pending := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteString(sep)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		out = strings.TrimRight(out[:maxLen], sep)
	}
	return out
}

// OnlyDigits devolve apenas os dígitos de s (CPF, CNPJ).
func OnlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Truncate corta s em no máximo n runas.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
