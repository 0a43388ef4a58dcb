package service

import (
	"strings"
	"unicode"
)

// splitWords breaks a source string into the words used for dictionary and
// similarity lookups. Very short fragments carry no meaning and are dropped.
func splitWords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	words := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 {
			continue
		}
		words = append(words, field)
	}

	return words
}
