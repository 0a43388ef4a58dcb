package model

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"gorm.io/gorm"
)

// PluralSeparator joins plural forms inside the source and target columns.
const PluralSeparator = "\x1e\x1e"

// Unit is a single translatable string of a translation file, identified by
// the checksum of its source text and context.
type Unit struct {
	gorm.Model
	TranslationID uint         `gorm:"not null;index"`
	Translation   *Translation `gorm:"foreignKey:TranslationID"`
	Checksum      string       `gorm:"not null;index"`
	Position      int
	Location      string
	Context       string
	Comment       string
	Flags         string
	Source        string `gorm:"not null"`
	Target        string
	Fuzzy         bool `gorm:"default:false"`
	Translated    bool `gorm:"default:false;index"`
}

// ChecksumOf fingerprints a source string and its disambiguating context.
func ChecksumOf(source, context string) string {
	sum := md5.Sum([]byte(source + context))
	return hex.EncodeToString(sum[:])
}

// SourcePlurals splits the stored source into its plural forms.
func (u *Unit) SourcePlurals() []string {
	return strings.Split(u.Source, PluralSeparator)
}

// TargetPlurals splits the stored target into its plural forms.
func (u *Unit) TargetPlurals() []string {
	return strings.Split(u.Target, PluralSeparator)
}

// HasPlural reports whether the unit carries more than one source form.
func (u *Unit) HasPlural() bool {
	return strings.Contains(u.Source, PluralSeparator)
}

// SingularSource returns the first source form, which is what checks and the
// glossary lookup operate on.
func (u *Unit) SingularSource() string {
	if idx := strings.Index(u.Source, PluralSeparator); idx >= 0 {
		return u.Source[:idx]
	}
	return u.Source
}

// IsFlagged reports whether the given gettext flag is set on the unit.
func (u *Unit) IsFlagged(flag string) bool {
	for _, f := range strings.Split(u.Flags, ",") {
		if strings.TrimSpace(f) == flag {
			return true
		}
	}
	return false
}
