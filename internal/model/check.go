package model

import "gorm.io/gorm"

// Check records one failing quality check. Target checks are scoped to the
// language they fail in; source checks carry a NULL language because they
// apply to the source string itself.
type Check struct {
	gorm.Model
	ProjectID  uint      `gorm:"not null;index"`
	Project    *Project  `gorm:"foreignKey:ProjectID"`
	LanguageID *uint     `gorm:"index"`
	Language   *Language `gorm:"foreignKey:LanguageID"`
	Checksum   string    `gorm:"not null;index"`
	Name       string    `gorm:"not null;index"`
	Ignored    bool      `gorm:"default:false"`
}

// IsSource reports whether the check is scoped to the source string.
func (c *Check) IsSource() bool {
	return c.LanguageID == nil
}
