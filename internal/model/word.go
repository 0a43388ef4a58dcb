package model

import "gorm.io/gorm"

// Word is one glossary entry: a source term and its agreed translation,
// scoped to a project and a language.
type Word struct {
	gorm.Model
	ProjectID  uint      `gorm:"not null;index:idx_words_project_language"`
	Project    *Project  `gorm:"foreignKey:ProjectID"`
	LanguageID uint      `gorm:"not null;index:idx_words_project_language"`
	Language   *Language `gorm:"foreignKey:LanguageID"`
	Source     string    `gorm:"not null"`
	Target     string    `gorm:"not null"`
}
