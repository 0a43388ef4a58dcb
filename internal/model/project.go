package model

import "gorm.io/gorm"

// Project groups components that are translated together.
type Project struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Slug         string `gorm:"uniqueIndex;not null"`
	Web          string
	Mail         string
	Instructions string
}

func (p *Project) String() string {
	return p.Name
}
