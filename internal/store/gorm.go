package store

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/madhuracj/weblate/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

// ListLanguages retrieves all languages ordered by name.
func (g *GormStore) ListLanguages(ctx context.Context) ([]*model.Language, error) {
	var langs []*model.Language
	err := g.db.WithContext(ctx).Order("name").Find(&langs).Error
	return langs, err
}

func (g *GormStore) GetLanguage(ctx context.Context, id uint) (*model.Language, error) {
	var lang model.Language
	err := g.db.WithContext(ctx).First(&lang, id).Error
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (g *GormStore) GetLanguageByCode(ctx context.Context, code string) (*model.Language, error) {
	var lang model.Language
	err := g.db.WithContext(ctx).Where("code = ?", code).First(&lang).Error
	if err != nil {
		return nil, err
	}
	return &lang, nil
}

func (g *GormStore) LanguageSummaries(ctx context.Context) ([]*LanguageSummary, error) {
	var rows []*LanguageSummary
	err := g.db.WithContext(ctx).
		Model(&model.Translation{}).
		Select("languages.id as language_id, languages.code as code, languages.name as name, " +
			"sum(translations.total) as total, sum(translations.translated) as translated, sum(translations.fuzzy) as fuzzy").
		Joins("JOIN languages ON languages.id = translations.language_id").
		Group("languages.id, languages.code, languages.name").
		Order("languages.name").
		Scan(&rows).Error
	return rows, err
}

func (g *GormStore) CreateProject(ctx context.Context, project *model.Project) error {
	return g.db.WithContext(ctx).Create(project).Error
}

func (g *GormStore) GetProject(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := g.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (g *GormStore) GetProjectBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var project model.Project
	err := g.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (g *GormStore) ListProjects(ctx context.Context) ([]*model.Project, error) {
	var projects []*model.Project
	err := g.db.WithContext(ctx).Order("name").Find(&projects).Error
	return projects, err
}

func (g *GormStore) UpdateProject(ctx context.Context, project *model.Project) error {
	return g.db.WithContext(ctx).Save(project).Error
}

// DeleteProject removes the project with its components, translations,
// units, checks and glossary words.
func (g *GormStore) DeleteProject(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"translation_id IN (SELECT id FROM translations WHERE component_id IN (SELECT id FROM components WHERE project_id = ?))",
			id,
		).Delete(&model.Unit{}).Error; err != nil {
			return err
		}
		if err := tx.Where(
			"component_id IN (SELECT id FROM components WHERE project_id = ?)", id,
		).Delete(&model.Translation{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{&model.Component{}, &model.Check{}, &model.Word{}} {
			if err := tx.Where("project_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.Project{}, id).Error
	})
}

func (g *GormStore) CreateComponent(ctx context.Context, component *model.Component) error {
	return g.db.WithContext(ctx).Create(component).Error
}

func (g *GormStore) GetComponent(ctx context.Context, id uint) (*model.Component, error) {
	var component model.Component
	err := g.db.WithContext(ctx).Preload("Project").First(&component, id).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (g *GormStore) GetComponentBySlug(ctx context.Context, projectSlug, slug string) (*model.Component, error) {
	var component model.Component
	err := g.db.WithContext(ctx).
		Joins("JOIN projects ON projects.id = components.project_id").
		Where("projects.slug = ? AND components.slug = ?", projectSlug, slug).
		Preload("Project").
		First(&component).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (g *GormStore) ListComponents(ctx context.Context, projectID uint) ([]*model.Component, error) {
	var components []*model.Component
	err := g.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Preload("Project").
		Order("name").
		Find(&components).Error
	return components, err
}

func (g *GormStore) ListAllComponents(ctx context.Context) ([]*model.Component, error) {
	var components []*model.Component
	err := g.db.WithContext(ctx).Preload("Project").Order("id").Find(&components).Error
	return components, err
}

func (g *GormStore) UpdateComponent(ctx context.Context, component *model.Component) error {
	return g.db.WithContext(ctx).Save(component).Error
}

// DeleteComponent removes the component with its translations and units.
func (g *GormStore) DeleteComponent(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"translation_id IN (SELECT id FROM translations WHERE component_id = ?)", id,
		).Delete(&model.Unit{}).Error; err != nil {
			return err
		}
		if err := tx.Where("component_id = ?", id).Delete(&model.Translation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Component{}, id).Error
	})
}

func (g *GormStore) CreateTranslation(ctx context.Context, translation *model.Translation) error {
	return g.db.WithContext(ctx).Create(translation).Error
}

func (g *GormStore) GetTranslation(ctx context.Context, id uint) (*model.Translation, error) {
	var translation model.Translation
	err := g.db.WithContext(ctx).
		Preload("Component.Project").
		Preload("Language").
		First(&translation, id).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (g *GormStore) GetTranslationBySlug(ctx context.Context, projectSlug, componentSlug, langCode string) (*model.Translation, error) {
	var translation model.Translation
	err := g.db.WithContext(ctx).
		Joins("JOIN components ON components.id = translations.component_id").
		Joins("JOIN projects ON projects.id = components.project_id").
		Joins("JOIN languages ON languages.id = translations.language_id").
		Where("projects.slug = ? AND components.slug = ? AND languages.code = ?",
			projectSlug, componentSlug, langCode).
		Preload("Component.Project").
		Preload("Language").
		First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (g *GormStore) GetTranslationByLanguage(ctx context.Context, componentID, languageID uint) (*model.Translation, error) {
	var translation model.Translation
	err := g.db.WithContext(ctx).
		Where("component_id = ? AND language_id = ?", componentID, languageID).
		Preload("Component.Project").
		Preload("Language").
		First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (g *GormStore) ListTranslations(ctx context.Context, componentID uint) ([]*model.Translation, error) {
	var translations []*model.Translation
	err := g.db.WithContext(ctx).
		Joins("JOIN languages ON languages.id = translations.language_id").
		Where("translations.component_id = ?", componentID).
		Preload("Language").
		Preload("Component.Project").
		Order("languages.code").
		Find(&translations).Error
	return translations, err
}

func (g *GormStore) ListLanguageTranslations(ctx context.Context, languageID uint) ([]*model.Translation, error) {
	var translations []*model.Translation
	err := g.db.WithContext(ctx).
		Joins("JOIN components ON components.id = translations.component_id").
		Joins("JOIN projects ON projects.id = components.project_id").
		Where("translations.language_id = ?", languageID).
		Preload("Language").
		Preload("Component.Project").
		Order("projects.name, components.name").
		Find(&translations).Error
	return translations, err
}

func (g *GormStore) FirstTranslation(ctx context.Context, componentID uint) (*model.Translation, error) {
	var translation model.Translation
	err := g.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Preload("Language").
		Order("id").
		First(&translation).Error
	if err != nil {
		return nil, err
	}
	return &translation, nil
}

func (g *GormStore) UpdateTranslation(ctx context.Context, translation *model.Translation) error {
	return g.db.WithContext(ctx).Save(translation).Error
}

func (g *GormStore) DeleteTranslation(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("translation_id = ?", id).Delete(&model.Unit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Translation{}, id).Error
	})
}

func (g *GormStore) CreateUnit(ctx context.Context, unit *model.Unit) error {
	return g.db.WithContext(ctx).Create(unit).Error
}

func (g *GormStore) UpdateUnit(ctx context.Context, unit *model.Unit) error {
	return g.db.WithContext(ctx).Save(unit).Error
}

func (g *GormStore) GetUnit(ctx context.Context, id uint) (*model.Unit, error) {
	var unit model.Unit
	err := g.db.WithContext(ctx).
		Preload("Translation.Component.Project").
		Preload("Translation.Language").
		First(&unit, id).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (g *GormStore) GetUnitByChecksum(ctx context.Context, translationID uint, checksum string) (*model.Unit, error) {
	var unit model.Unit
	err := g.db.WithContext(ctx).
		Where("translation_id = ? AND checksum = ?", translationID, checksum).
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

func (g *GormStore) FirstUnitByChecksum(ctx context.Context, checksum string) (*model.Unit, error) {
	var unit model.Unit
	err := g.db.WithContext(ctx).
		Where("checksum = ?", checksum).
		Order("id").
		First(&unit).Error
	if err != nil {
		return nil, err
	}
	return &unit, nil
}

// unitQuery builds the filtered unit query. Count and Find need separate
// instances, chaining both on one query pollutes the statement.
func (g *GormStore) unitQuery(ctx context.Context, translationID uint, filter UnitFilter) *gorm.DB {
	q := g.db.WithContext(ctx).
		Model(&model.Unit{}).
		Where("translation_id = ?", translationID)
	switch {
	case filter.Kind == UnitsUntranslated:
		q = q.Where("translated = ?", false)
	case filter.Kind == UnitsFuzzy:
		q = q.Where("fuzzy = ?", true)
	case filter.Kind == UnitsSearch:
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("lower(source) LIKE ? OR lower(target) LIKE ? OR lower(context) LIKE ?",
			pattern, pattern, pattern)
	case strings.HasPrefix(filter.Kind, UnitsCheckPrefix):
		name := strings.TrimPrefix(filter.Kind, UnitsCheckPrefix)
		sub := g.db.Model(&model.Check{}).
			Select("checksum").
			Where("project_id = ? AND language_id = ? AND name = ? AND ignored = ?",
				filter.ProjectID, filter.LanguageID, name, false)
		q = q.Where("checksum IN (?)", sub)
	}
	return q
}

func (g *GormStore) ListUnits(ctx context.Context, translationID uint, filter UnitFilter) ([]*model.Unit, int64, error) {
	var total int64
	if err := g.unitQuery(ctx, translationID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := g.unitQuery(ctx, translationID, filter).Order("position")
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	var units []*model.Unit
	err := q.Find(&units).Error
	return units, total, err
}

func (g *GormStore) NextUnit(ctx context.Context, translationID uint, filter UnitFilter, pos int, dir string) (*model.Unit, error) {
	q := g.unitQuery(ctx, translationID, filter)
	switch dir {
	case DirBack:
		q = q.Where("position < ?", pos).Order("position DESC")
	case DirStay:
		q = q.Where("position = ?", pos)
	default:
		q = q.Where("position > ?", pos).Order("position")
	}

	var unit model.Unit
	if err := q.First(&unit).Error; err != nil {
		return nil, err
	}
	return &unit, nil
}

func (g *GormStore) DeleteUnitsExcept(ctx context.Context, translationID uint, checksums []string) error {
	q := g.db.WithContext(ctx).Where("translation_id = ?", translationID)
	if len(checksums) > 0 {
		q = q.Where("checksum NOT IN ?", checksums)
	}
	return q.Delete(&model.Unit{}).Error
}

func (g *GormStore) TranslationCounts(ctx context.Context, translationID uint) (int64, int64, int64, error) {
	var row struct {
		Total      int64
		Translated int64
		Fuzzy      int64
	}
	err := g.db.WithContext(ctx).
		Model(&model.Unit{}).
		Select("count(*) as total, " +
			"count(case when translated then 1 end) as translated, " +
			"count(case when fuzzy then 1 end) as fuzzy").
		Where("translation_id = ?", translationID).
		Scan(&row).Error
	return row.Total, row.Translated, row.Fuzzy, err
}

func (g *GormStore) SameUnits(ctx context.Context, unitID uint, checksum string, languageID uint) ([]*model.Unit, error) {
	var units []*model.Unit
	err := g.db.WithContext(ctx).
		Joins("JOIN translations ON translations.id = units.translation_id").
		Where("units.checksum = ? AND translations.language_id = ? AND units.id <> ?",
			checksum, languageID, unitID).
		Preload("Translation.Component.Project").
		Preload("Translation.Language").
		Find(&units).Error
	return units, err
}

func (g *GormStore) SimilarUnits(ctx context.Context, unitID uint, languageID uint, words []string) ([]*model.Unit, error) {
	if len(words) == 0 {
		return nil, nil
	}
	conds := make([]string, 0, len(words))
	args := make([]interface{}, 0, len(words))
	for _, word := range words {
		conds = append(conds, "lower(units.source) LIKE ?")
		args = append(args, "%"+strings.ToLower(word)+"%")
	}
	var units []*model.Unit
	err := g.db.WithContext(ctx).
		Joins("JOIN translations ON translations.id = units.translation_id").
		Where("translations.language_id = ? AND units.translated = ? AND units.id <> ?",
			languageID, true, unitID).
		Where(strings.Join(conds, " OR "), args...).
		Preload("Translation.Component.Project").
		Preload("Translation.Language").
		Limit(30).
		Find(&units).Error
	return units, err
}

func (g *GormStore) CountFailingUnits(ctx context.Context, componentID, languageID uint, checksums []string, translatedOnly bool) (int64, error) {
	if len(checksums) == 0 {
		return 0, nil
	}
	q := g.db.WithContext(ctx).
		Model(&model.Unit{}).
		Joins("JOIN translations ON translations.id = units.translation_id").
		Where("translations.component_id = ? AND translations.language_id = ? AND units.checksum IN ?",
			componentID, languageID, checksums)
	if translatedOnly {
		q = q.Where("units.translated = ?", true)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (g *GormStore) FailingUnitsByComponent(ctx context.Context, projectID, languageID uint, checksums []string, translatedOnly bool) ([]*SlugCount, error) {
	if len(checksums) == 0 {
		return nil, nil
	}
	q := g.db.WithContext(ctx).
		Model(&model.Unit{}).
		Select("components.slug as slug, count(*) as count").
		Joins("JOIN translations ON translations.id = units.translation_id").
		Joins("JOIN components ON components.id = translations.component_id").
		Where("components.project_id = ? AND translations.language_id = ? AND units.checksum IN ?",
			projectID, languageID, checksums)
	if translatedOnly {
		q = q.Where("units.translated = ?", true)
	}
	var rows []*SlugCount
	err := q.Group("components.slug").Order("components.slug").Scan(&rows).Error
	return rows, err
}

// ReplaceChecks rewrites the non-ignored checks for a checksum. Ignored
// checks survive so silenced failures stay silenced across rechecks.
func (g *GormStore) ReplaceChecks(ctx context.Context, projectID uint, languageID *uint, checksum string, names []string) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scope := tx.Where("project_id = ? AND checksum = ? AND ignored = ?", projectID, checksum, false)
		if languageID == nil {
			scope = scope.Where("language_id IS NULL")
		} else {
			scope = scope.Where("language_id = ?", *languageID)
		}
		if err := scope.Delete(&model.Check{}).Error; err != nil {
			return err
		}

		var kept []string
		keptScope := tx.Model(&model.Check{}).
			Where("project_id = ? AND checksum = ?", projectID, checksum)
		if languageID == nil {
			keptScope = keptScope.Where("language_id IS NULL")
		} else {
			keptScope = keptScope.Where("language_id = ?", *languageID)
		}
		if err := keptScope.Pluck("name", &kept).Error; err != nil {
			return err
		}
		ignored := make(map[string]bool, len(kept))
		for _, name := range kept {
			ignored[name] = true
		}

		for _, name := range names {
			if ignored[name] {
				continue
			}
			check := &model.Check{
				ProjectID:  projectID,
				LanguageID: languageID,
				Checksum:   checksum,
				Name:       name,
			}
			if err := tx.Create(check).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *GormStore) GetCheck(ctx context.Context, id uint) (*model.Check, error) {
	var check model.Check
	err := g.db.WithContext(ctx).
		Preload("Project").
		Preload("Language").
		First(&check, id).Error
	if err != nil {
		return nil, err
	}
	return &check, nil
}

func (g *GormStore) ListUnitChecks(ctx context.Context, projectID, languageID uint, checksum string) ([]*model.Check, error) {
	var checks []*model.Check
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND checksum = ? AND ignored = ?", projectID, checksum, false).
		Where("language_id = ? OR language_id IS NULL", languageID).
		Order("id").
		Find(&checks).Error
	if err != nil {
		return nil, err
	}
	return checks, nil
}

func (g *GormStore) IgnoreCheck(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).
		Model(&model.Check{}).
		Where("id = ?", id).
		Update("ignored", true).Error
}

func (g *GormStore) CheckCounts(ctx context.Context) ([]*NameCount, error) {
	var rows []*NameCount
	err := g.db.WithContext(ctx).
		Model(&model.Check{}).
		Select("name, count(*) as count").
		Where("ignored = ?", false).
		Group("name").
		Order("name").
		Scan(&rows).Error
	return rows, err
}

func (g *GormStore) CheckCountsByProject(ctx context.Context, name string) ([]*SlugCount, error) {
	var rows []*SlugCount
	err := g.db.WithContext(ctx).
		Model(&model.Check{}).
		Select("projects.slug as slug, count(*) as count").
		Joins("JOIN projects ON projects.id = checks.project_id").
		Where("checks.name = ? AND checks.ignored = ?", name, false).
		Group("projects.slug").
		Order("projects.slug").
		Scan(&rows).Error
	return rows, err
}

func (g *GormStore) CheckLanguageIDs(ctx context.Context, projectID uint, name string) ([]uint, error) {
	var ids []uint
	err := g.db.WithContext(ctx).
		Model(&model.Check{}).
		Where("project_id = ? AND name = ? AND ignored = ? AND language_id IS NOT NULL",
			projectID, name, false).
		Distinct().
		Pluck("language_id", &ids).Error
	return ids, err
}

func (g *GormStore) CheckChecksums(ctx context.Context, projectID uint, languageID *uint, name string) ([]string, error) {
	q := g.db.WithContext(ctx).
		Model(&model.Check{}).
		Where("project_id = ? AND name = ? AND ignored = ?", projectID, name, false)
	if languageID == nil {
		q = q.Where("language_id IS NULL")
	} else {
		q = q.Where("language_id = ?", *languageID)
	}
	var checksums []string
	err := q.Pluck("checksum", &checksums).Error
	return checksums, err
}

func (g *GormStore) DeleteStaleChecks(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM units WHERE units.checksum = checks.checksum AND units.deleted_at IS NULL)").
		Delete(&model.Check{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) CreateWord(ctx context.Context, word *model.Word) error {
	return g.db.WithContext(ctx).Create(word).Error
}

func (g *GormStore) GetWord(ctx context.Context, id uint) (*model.Word, error) {
	var word model.Word
	err := g.db.WithContext(ctx).
		Preload("Project").
		Preload("Language").
		First(&word, id).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (g *GormStore) UpdateWord(ctx context.Context, word *model.Word) error {
	return g.db.WithContext(ctx).Save(word).Error
}

func (g *GormStore) DeleteWord(ctx context.Context, id uint) error {
	return g.db.WithContext(ctx).Delete(&model.Word{}, id).Error
}

func (g *GormStore) wordQuery(ctx context.Context, projectID, languageID uint, letter string) *gorm.DB {
	q := g.db.WithContext(ctx).
		Model(&model.Word{}).
		Where("project_id = ? AND language_id = ?", projectID, languageID)
	if letter != "" {
		q = q.Where("lower(source) LIKE ?", strings.ToLower(letter)+"%")
	}
	return q
}

func (g *GormStore) ListWords(ctx context.Context, projectID, languageID uint, letter string, offset, limit int) ([]*model.Word, int64, error) {
	var total int64
	if err := g.wordQuery(ctx, projectID, languageID, letter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var words []*model.Word
	err := g.wordQuery(ctx, projectID, languageID, letter).
		Order("source").
		Offset(offset).
		Limit(limit).
		Find(&words).Error
	return words, total, err
}

func (g *GormStore) AllWords(ctx context.Context, projectID, languageID uint) ([]*model.Word, error) {
	var words []*model.Word
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND language_id = ?", projectID, languageID).
		Order("source").
		Find(&words).Error
	return words, err
}

func (g *GormStore) FindWord(ctx context.Context, projectID, languageID uint, source string) (*model.Word, error) {
	var word model.Word
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND language_id = ? AND source = ?", projectID, languageID, source).
		First(&word).Error
	if err != nil {
		return nil, err
	}
	return &word, nil
}

func (g *GormStore) MatchingWords(ctx context.Context, projectID, languageID uint, words []string) ([]*model.Word, error) {
	if len(words) == 0 {
		return nil, nil
	}
	lowered := make([]string, len(words))
	for i, w := range words {
		lowered[i] = strings.ToLower(w)
	}
	var matches []*model.Word
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND language_id = ? AND lower(source) IN ?", projectID, languageID, lowered).
		Order("source").
		Find(&matches).Error
	return matches, err
}

func (g *GormStore) ListWordLanguages(ctx context.Context, projectID uint) ([]*model.Language, error) {
	var langs []*model.Language
	err := g.db.WithContext(ctx).
		Model(&model.Language{}).
		Joins("JOIN words ON words.language_id = languages.id").
		Where("words.project_id = ? AND words.deleted_at IS NULL", projectID).
		Distinct("languages.*").
		Order("languages.name").
		Find(&langs).Error
	return langs, err
}

func (g *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	return g.db.WithContext(ctx).Create(user).Error
}

func (g *GormStore) GetUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Preload("Languages").First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) GetUserByActivationKey(ctx context.Context, key string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("activation_key = ?", key).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) GetUserByResetKey(ctx context.Context, key string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("reset_key = ?", key).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) UpdateUser(ctx context.Context, user *model.User) error {
	return g.db.WithContext(ctx).Save(user).Error
}

func (g *GormStore) SetUserLanguages(ctx context.Context, userID uint, languages []*model.Language) error {
	user := model.User{Model: gorm.Model{ID: userID}}
	return g.db.WithContext(ctx).Model(&user).Association("Languages").Replace(languages)
}

func (g *GormStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := g.db.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}

func (g *GormStore) ClearExpiredResetKeys(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	res := g.db.WithContext(ctx).Model(&model.User{}).
		Where("reset_key <> '' AND reset_sent_at < ?", cutoff).
		Updates(map[string]interface{}{"reset_key": "", "reset_sent_at": nil})
	return res.RowsAffected, res.Error
}

func (g *GormStore) Totals(ctx context.Context) (*Totals, error) {
	totals := &Totals{}
	counts := []struct {
		m   interface{}
		dst *int64
	}{
		{&model.Project{}, &totals.Projects},
		{&model.Component{}, &totals.Components},
		{&model.Translation{}, &totals.Translations},
		{&model.Unit{}, &totals.Units},
		{&model.Word{}, &totals.Words},
		{&model.Check{}, &totals.Checks},
		{&model.User{}, &totals.Users},
	}
	for _, c := range counts {
		if err := g.db.WithContext(ctx).Model(c.m).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}
	return totals, nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
