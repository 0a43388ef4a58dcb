package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Translation is one language of a component, backed by a single file in the
// component repository. The counters are denormalized from the unit table on
// every load and save so listings never need to aggregate units.
type Translation struct {
	gorm.Model
	ComponentID uint       `gorm:"not null;uniqueIndex:idx_translations_component_language;index"`
	Component   *Component `gorm:"foreignKey:ComponentID"`
	LanguageID  uint       `gorm:"not null;uniqueIndex:idx_translations_component_language"`
	Language    *Language  `gorm:"foreignKey:LanguageID"`
	Filename    string     `gorm:"not null"`
	Revision    string
	Total       int
	Translated  int
	Fuzzy       int
	LastChange  *time.Time
	LastAuthor  string
}

func (t *Translation) String() string {
	if t.Component != nil && t.Language != nil {
		return fmt.Sprintf("%s - %s", t.Component.String(), t.Language.String())
	}
	return t.Filename
}

func (t *Translation) TranslatedPercent() float64 {
	if t.Total == 0 {
		return 0
	}
	return round1(float64(t.Translated) * 100 / float64(t.Total))
}

func (t *Translation) FuzzyPercent() float64 {
	if t.Total == 0 {
		return 0
	}
	return round1(float64(t.Fuzzy) * 100 / float64(t.Total))
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
