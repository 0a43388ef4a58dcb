package model

import (
	"fmt"
	"path/filepath"

	"gorm.io/gorm"
)

// Component is one translatable resource inside a project, bound to a VCS
// repository and a file mask selecting its translation files.
type Component struct {
	gorm.Model
	Name      string   `gorm:"not null"`
	Slug      string   `gorm:"not null;uniqueIndex:idx_components_project_slug"`
	ProjectID uint     `gorm:"not null;uniqueIndex:idx_components_project_slug;index"`
	Project   *Project `gorm:"foreignKey:ProjectID"`
	RepoURL   string   `gorm:"not null"`
	PushURL   string
	Branch    string `gorm:"default:main"`
	Filemask  string `gorm:"not null"` // e.g. po/*.po
	RepoWeb   string
}

func (c *Component) String() string {
	if c.Project != nil {
		return fmt.Sprintf("%s/%s", c.Project.Name, c.Name)
	}
	return c.Name
}

// FullSlug returns the project/component slug pair used in URLs.
func (c *Component) FullSlug() string {
	if c.Project != nil {
		return c.Project.Slug + "/" + c.Slug
	}
	return c.Slug
}

// RepoPath returns the working copy location under the data directory.
func (c *Component) RepoPath(dataDir string) string {
	if c.Project != nil {
		return filepath.Join(dataDir, "vcs", c.Project.Slug, c.Slug)
	}
	return filepath.Join(dataDir, "vcs", fmt.Sprintf("component-%d", c.ID))
}
