package console

import (
	"strings"
	"unicode/utf8"
)

// MaskSymbol substitui cada caractere de um valor mascarado.
const MaskSymbol = "*"

// MaskedActive é o valor fixo exibido no lugar do status active.
const MaskedActive = "****"

// Mask troca cada caractere (rune) de s por MaskSymbol, preservando o tamanho.
func Mask(s string) string {
	return strings.Repeat(MaskSymbol, utf8.RuneCountInString(s))
}

func maskPtr(s *string) string {
	if s == nil {
		return ""
	}
	return Mask(*s)
}
