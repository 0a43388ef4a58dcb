// Package formats reads and writes the translation file formats the
// platform understands: gettext PO catalogs for component files and
// PO/CSV/TBX for glossaries.
package formats

import (
	"path/filepath"
	"strings"
)

// Message is a single catalog entry. Str holds all plural forms, a
// singular message has exactly one.
type Message struct {
	Comments  []string // translator comments
	Extracted []string // #. extracted comments
	Locations []string // #: source references
	Flags     []string // #, flags
	Context   string
	ID        string
	IDPlural  string
	Str       []string
}

// HasFlag reports whether the message carries the given gettext flag.
func (m *Message) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// Fuzzy reports whether the message is marked fuzzy.
func (m *Message) Fuzzy() bool {
	return m.HasFlag("fuzzy")
}

// SetFuzzy adds or removes the fuzzy flag.
func (m *Message) SetFuzzy(fuzzy bool) {
	if fuzzy == m.Fuzzy() {
		return
	}
	if fuzzy {
		m.Flags = append([]string{"fuzzy"}, m.Flags...)
		return
	}
	flags := m.Flags[:0]
	for _, f := range m.Flags {
		if f != "fuzzy" {
			flags = append(flags, f)
		}
	}
	m.Flags = flags
}

// Translated reports whether the message has a non-empty translation.
func (m *Message) Translated() bool {
	return len(m.Str) > 0 && m.Str[0] != ""
}

// Plural reports whether the message has plural forms.
func (m *Message) Plural() bool {
	return m.IDPlural != ""
}

// Term is one glossary entry.
type Term struct {
	Source string
	Target string
}

// Glossary formats.
const (
	FormatCSV = "csv"
	FormatPO  = "po"
	FormatTBX = "tbx"
)

// DetectGlossary guesses the glossary format from a file name, falling
// back to CSV.
func DetectGlossary(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".po", ".pot":
		return FormatPO
	case ".tbx":
		return FormatTBX
	default:
		return FormatCSV
	}
}
