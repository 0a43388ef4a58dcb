// Package tester wires a throwaway sqlite database for tests, together
// with fixture helpers for the common object chain.
package tester

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/madhuracj/weblate/internal/model"
)

const (
	testPath = "../../.test/"
)

var (
	db     *gorm.DB
	dbFile string
)

// Setup opens a fresh sqlite database under .test/ and migrates the
// schema. Each call uses its own file so test packages do not clash.
func Setup() {
	_ = os.Setenv("ENV", "test")

	err := os.MkdirAll(testPath+"db", os.ModePerm)
	if err != nil {
		panic(err)
	}

	dbFile = fmt.Sprintf("%sdb/weblate-%d-%d.db", testPath, os.Getpid(), time.Now().UnixNano())
	db, err = gorm.Open(sqlite.Open(dbFile), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}

	err = model.SeedLanguages(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile() {
	if dbFile == "" {
		return
	}
	err := os.Remove(dbFile)
	if err != nil && !os.IsNotExist(err) {
		panic(err)
	}
}

// MustLanguage returns a seeded language by code.
func MustLanguage(code string) *model.Language {
	var lang model.Language
	if err := db.Where("code = ?", code).First(&lang).Error; err != nil {
		panic(err)
	}
	return &lang
}

// MustProject creates a project.
func MustProject(name, slug string) *model.Project {
	project := &model.Project{Name: name, Slug: slug}
	if err := db.Create(project).Error; err != nil {
		panic(err)
	}
	return project
}

// MustComponent creates a component inside a project.
func MustComponent(project *model.Project, name, slug string) *model.Component {
	component := &model.Component{
		Name:      name,
		Slug:      slug,
		ProjectID: project.ID,
		Project:   project,
		RepoURL:   "https://example.com/" + slug + ".git",
		Branch:    "main",
		Filemask:  "po/*.po",
	}
	if err := db.Create(component).Error; err != nil {
		panic(err)
	}
	return component
}

// MustTranslation creates a translation of a component.
func MustTranslation(component *model.Component, lang *model.Language) *model.Translation {
	translation := &model.Translation{
		ComponentID: component.ID,
		Component:   component,
		LanguageID:  lang.ID,
		Language:    lang,
		Filename:    "po/" + lang.Code + ".po",
	}
	if err := db.Create(translation).Error; err != nil {
		panic(err)
	}
	return translation
}

// MustUnit creates a unit inside a translation. Checksum and the
// translated flag are derived from the texts.
func MustUnit(translation *model.Translation, position int, source, target string) *model.Unit {
	unit := &model.Unit{
		TranslationID: translation.ID,
		Checksum:      model.ChecksumOf(source, ""),
		Position:      position,
		Source:        source,
		Target:        target,
		Translated:    target != "",
	}
	if err := db.Create(unit).Error; err != nil {
		panic(err)
	}
	return unit
}

// MustUser creates an active user with the given role and password.
func MustUser(username, role, password string) *model.User {
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: username,
		Role:     role,
		IsActive: true,
	}
	if err := user.SetPassword(password); err != nil {
		panic(err)
	}
	if err := db.Create(user).Error; err != nil {
		panic(err)
	}
	return user
}
