package store

import (
	"context"
	"time"

	"github.com/madhuracj/weblate/internal/model"
)

// NameCount pairs a check name with its failure count.
type NameCount struct {
	Name  string
	Count int64
}

// SlugCount pairs a project or component slug with a unit count.
type SlugCount struct {
	Slug  string
	Count int64
}

// LanguageSummary aggregates the translation counters of one language
// across all projects.
type LanguageSummary struct {
	LanguageID uint
	Code       string
	Name       string
	Total      int64
	Translated int64
	Fuzzy      int64
}

// Totals holds the site wide object counts shown on the management
// dashboard.
type Totals struct {
	Projects     int64
	Components   int64
	Translations int64
	Units        int64
	Words        int64
	Checks       int64
	Users        int64
}

// Unit list kinds understood by UnitFilter.
const (
	UnitsAll          = "all"
	UnitsUntranslated = "untranslated"
	UnitsFuzzy        = "fuzzy"
	UnitsSearch       = "search"
	UnitsCheckPrefix  = "check:"
)

// UnitFilter selects a slice of the units of a translation.
type UnitFilter struct {
	// Kind is one of the Units constants, or check:<name> to select
	// units failing a particular check.
	Kind   string
	Search string
	// ProjectID and LanguageID scope the check lookup for check kinds.
	ProjectID  uint
	LanguageID uint
	Offset     int
	Limit      int
}

// Walk directions understood by NextUnit.
const (
	DirForward = "forward"
	DirBack    = "back"
	DirStay    = "stay"
)

type Store interface {
	LanguageStore
	ProjectStore
	ComponentStore
	TranslationStore
	UnitStore
	CheckStore
	WordStore
	UserStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type LanguageStore interface {
	// ListLanguages retrieves all languages ordered by name.
	ListLanguages(ctx context.Context) ([]*model.Language, error)
	// GetLanguage retrieves a language by ID.
	GetLanguage(ctx context.Context, id uint) (*model.Language, error)
	// GetLanguageByCode retrieves a language by its code.
	GetLanguageByCode(ctx context.Context, code string) (*model.Language, error)
	// LanguageSummaries aggregates translation counters per language.
	LanguageSummaries(ctx context.Context) ([]*LanguageSummary, error)
}

type ProjectStore interface {
	// CreateProject creates a new project.
	CreateProject(ctx context.Context, project *model.Project) error
	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id uint) (*model.Project, error)
	// GetProjectBySlug retrieves a project by its slug.
	GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error)
	// ListProjects retrieves all projects ordered by name.
	ListProjects(ctx context.Context) ([]*model.Project, error)
	// UpdateProject updates a project.
	UpdateProject(ctx context.Context, project *model.Project) error
	// DeleteProject deletes a project and everything under it.
	DeleteProject(ctx context.Context, id uint) error
}

type ComponentStore interface {
	// CreateComponent creates a new component.
	CreateComponent(ctx context.Context, component *model.Component) error
	// GetComponent retrieves a component by ID with its project.
	GetComponent(ctx context.Context, id uint) (*model.Component, error)
	// GetComponentBySlug retrieves a component by project and component slug.
	GetComponentBySlug(ctx context.Context, projectSlug, slug string) (*model.Component, error)
	// ListComponents retrieves the components of a project.
	ListComponents(ctx context.Context, projectID uint) ([]*model.Component, error)
	// ListAllComponents retrieves every component with its project.
	ListAllComponents(ctx context.Context) ([]*model.Component, error)
	// UpdateComponent updates a component.
	UpdateComponent(ctx context.Context, component *model.Component) error
	// DeleteComponent deletes a component.
	DeleteComponent(ctx context.Context, id uint) error
}

type TranslationStore interface {
	// CreateTranslation creates a new translation.
	CreateTranslation(ctx context.Context, translation *model.Translation) error
	// GetTranslation retrieves a translation by ID with its component,
	// project and language.
	GetTranslation(ctx context.Context, id uint) (*model.Translation, error)
	// GetTranslationBySlug retrieves a translation by project slug,
	// component slug and language code.
	GetTranslationBySlug(ctx context.Context, projectSlug, componentSlug, langCode string) (*model.Translation, error)
	// GetTranslationByLanguage retrieves the translation of a component
	// into the given language.
	GetTranslationByLanguage(ctx context.Context, componentID, languageID uint) (*model.Translation, error)
	// ListTranslations retrieves the translations of a component with
	// their languages, ordered by language code.
	ListTranslations(ctx context.Context, componentID uint) ([]*model.Translation, error)
	// ListLanguageTranslations retrieves every translation into a language
	// across all projects, ordered by project and component name.
	ListLanguageTranslations(ctx context.Context, languageID uint) ([]*model.Translation, error)
	// FirstTranslation retrieves the oldest translation of a component.
	FirstTranslation(ctx context.Context, componentID uint) (*model.Translation, error)
	// UpdateTranslation updates a translation.
	UpdateTranslation(ctx context.Context, translation *model.Translation) error
	// DeleteTranslation deletes a translation and its units.
	DeleteTranslation(ctx context.Context, id uint) error
}

type UnitStore interface {
	// CreateUnit creates a new unit.
	CreateUnit(ctx context.Context, unit *model.Unit) error
	// UpdateUnit updates a unit.
	UpdateUnit(ctx context.Context, unit *model.Unit) error
	// GetUnit retrieves a unit by ID with its translation chain.
	GetUnit(ctx context.Context, id uint) (*model.Unit, error)
	// GetUnitByChecksum retrieves a unit of a translation by checksum.
	GetUnitByChecksum(ctx context.Context, translationID uint, checksum string) (*model.Unit, error)
	// FirstUnitByChecksum retrieves any unit with the given checksum.
	FirstUnitByChecksum(ctx context.Context, checksum string) (*model.Unit, error)
	// ListUnits retrieves a filtered slice of the units of a translation
	// ordered by position, along with the total match count.
	ListUnits(ctx context.Context, translationID uint, filter UnitFilter) ([]*model.Unit, int64, error)
	// NextUnit retrieves the nearest unit matching filter relative to pos:
	// DirForward takes the first unit past pos, DirBack the last one before
	// it, DirStay the unit at pos itself.
	NextUnit(ctx context.Context, translationID uint, filter UnitFilter, pos int, dir string) (*model.Unit, error)
	// DeleteUnitsExcept removes units of a translation whose checksum is
	// not in the given set. Used when a file no longer carries a string.
	DeleteUnitsExcept(ctx context.Context, translationID uint, checksums []string) error
	// TranslationCounts aggregates total, translated and fuzzy unit
	// counts of a translation.
	TranslationCounts(ctx context.Context, translationID uint) (total, translated, fuzzy int64, err error)
	// SameUnits retrieves units sharing a checksum with the given unit in
	// other translations of the same language.
	SameUnits(ctx context.Context, unitID uint, checksum string, languageID uint) ([]*model.Unit, error)
	// SimilarUnits retrieves translated units of the same language whose
	// source contains any of the given words.
	SimilarUnits(ctx context.Context, unitID uint, languageID uint, words []string) ([]*model.Unit, error)
	// CountFailingUnits counts units of a component and language whose
	// checksum is in the given set.
	CountFailingUnits(ctx context.Context, componentID, languageID uint, checksums []string, translatedOnly bool) (int64, error)
	// FailingUnitsByComponent counts units across a project and language
	// whose checksum is in the given set, grouped by component slug.
	FailingUnitsByComponent(ctx context.Context, projectID, languageID uint, checksums []string, translatedOnly bool) ([]*SlugCount, error)
}

type CheckStore interface {
	// ReplaceChecks replaces the non-ignored checks recorded for a
	// checksum within a project and language scope. A nil language means
	// source checks.
	ReplaceChecks(ctx context.Context, projectID uint, languageID *uint, checksum string, names []string) error
	// GetCheck retrieves a check by ID.
	GetCheck(ctx context.Context, id uint) (*model.Check, error)
	// ListUnitChecks retrieves the non-ignored checks recorded for a unit
	// checksum, source checks included.
	ListUnitChecks(ctx context.Context, projectID, languageID uint, checksum string) ([]*model.Check, error)
	// IgnoreCheck marks a check as ignored.
	IgnoreCheck(ctx context.Context, id uint) error
	// CheckCounts counts non-ignored checks grouped by check name.
	CheckCounts(ctx context.Context) ([]*NameCount, error)
	// CheckCountsByProject counts non-ignored checks of one name grouped
	// by project slug.
	CheckCountsByProject(ctx context.Context, name string) ([]*SlugCount, error)
	// CheckLanguageIDs retrieves the distinct languages a check fails in
	// within a project.
	CheckLanguageIDs(ctx context.Context, projectID uint, name string) ([]uint, error)
	// CheckChecksums retrieves the checksums failing a check within a
	// project and language scope. A nil language means source checks.
	CheckChecksums(ctx context.Context, projectID uint, languageID *uint, name string) ([]string, error)
	// DeleteStaleChecks removes checks whose checksum no longer matches
	// any unit.
	DeleteStaleChecks(ctx context.Context) (int64, error)
}

type WordStore interface {
	// CreateWord creates a new glossary word.
	CreateWord(ctx context.Context, word *model.Word) error
	// GetWord retrieves a glossary word by ID.
	GetWord(ctx context.Context, id uint) (*model.Word, error)
	// UpdateWord updates a glossary word.
	UpdateWord(ctx context.Context, word *model.Word) error
	// DeleteWord deletes a glossary word.
	DeleteWord(ctx context.Context, id uint) error
	// ListWords retrieves a page of the words of a project dictionary
	// ordered by source, optionally restricted to sources starting with
	// letter, along with the total match count.
	ListWords(ctx context.Context, projectID, languageID uint, letter string, offset, limit int) ([]*model.Word, int64, error)
	// AllWords retrieves every word of a project dictionary ordered by
	// source.
	AllWords(ctx context.Context, projectID, languageID uint) ([]*model.Word, error)
	// FindWord retrieves the word of a dictionary with the given source.
	FindWord(ctx context.Context, projectID, languageID uint, source string) (*model.Word, error)
	// MatchingWords retrieves dictionary words whose source is one of the
	// given words.
	MatchingWords(ctx context.Context, projectID, languageID uint, words []string) ([]*model.Word, error)
	// ListWordLanguages retrieves the distinct languages a project has
	// dictionary entries in.
	ListWordLanguages(ctx context.Context, projectID uint) ([]*model.Language, error)
}

type UserStore interface {
	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id uint) (*model.User, error)
	// GetUserByUsername retrieves a user by username.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// GetUserByActivationKey retrieves a user by activation key.
	GetUserByActivationKey(ctx context.Context, key string) (*model.User, error)
	// GetUserByResetKey retrieves a user by password reset key.
	GetUserByResetKey(ctx context.Context, key string) (*model.User, error)
	// UpdateUser updates a user.
	UpdateUser(ctx context.Context, user *model.User) error
	// SetUserLanguages replaces the languages associated with a user.
	SetUserLanguages(ctx context.Context, userID uint, languages []*model.Language) error
	// ListUsers retrieves all users ordered by username.
	ListUsers(ctx context.Context) ([]*model.User, error)
	// ClearExpiredResetKeys drops password reset keys older than maxAge.
	ClearExpiredResetKeys(ctx context.Context, maxAge time.Duration) (int64, error)
	// Totals aggregates site wide object counts.
	Totals(ctx context.Context) (*Totals, error)
}
