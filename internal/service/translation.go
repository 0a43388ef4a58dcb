package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	weblate "github.com/madhuracj/weblate"
	"github.com/madhuracj/weblate/internal/checks"
	"github.com/madhuracj/weblate/internal/formats"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/madhuracj/weblate/internal/vcs"
	"github.com/sirupsen/logrus"
)

// NewTranslationService creates a new TranslationService.
func NewTranslationService(store store.Store, events queue.Events, dataDir, committerName, committerEmail string) *TranslationService {
	return &TranslationService{
		store:          store,
		events:         events,
		dataDir:        dataDir,
		committerName:  committerName,
		committerEmail: committerEmail,
	}
}

// TranslationService keeps the database in sync with the translation files
// of the component working copies, and writes edits back to them.
type TranslationService struct {
	store          store.Store
	events         queue.Events
	dataDir        string
	committerName  string
	committerEmail string
}

// Repo returns the working copy of a component, cloning it first when
// missing.
func (t TranslationService) Repo(ctx context.Context, component *model.Component) (*vcs.Repo, error) {
	repo, err := vcs.CloneOrOpen(ctx, component.RepoURL, component.Branch, component.RepoPath(t.dataDir))
	if err != nil {
		return nil, err
	}
	repo.CommitterName = t.committerName
	repo.CommitterEmail = t.committerEmail

	return repo, nil
}

// LoadComponent scans the component working copy for translation files and
// loads every one of them into the database.
func (t TranslationService) LoadComponent(ctx context.Context, component *model.Component) error {
	repo, err := t.Repo(ctx, component)
	if err != nil {
		return err
	}
	revision, err := repo.LastRevision(ctx)
	if err != nil {
		return err
	}

	matches, err := filepath.Glob(filepath.Join(repo.Path, filepath.FromSlash(component.Filemask)))
	if err != nil {
		return fmt.Errorf("bad filemask %q: %w", component.Filemask, err)
	}

	loaded := 0
	for _, match := range matches {
		rel, err := filepath.Rel(repo.Path, match)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		code := languageCode(component.Filemask, rel)
		if code == "" {
			continue
		}
		lang, err := t.store.GetLanguageByCode(ctx, code)
		if wrapNotFound(err) == ErrNotFound {
			logrus.WithFields(logrus.Fields{
				"component": component.FullSlug(),
				"file":      rel,
				"code":      code,
			}).Warn("skipping file for unknown language")
			continue
		}
		if err != nil {
			return err
		}

		if err := t.loadFile(ctx, component, lang, rel, match, revision); err != nil {
			return fmt.Errorf("load %s: %w", rel, err)
		}
		loaded++
	}

	logrus.WithFields(logrus.Fields{
		"component": component.FullSlug(),
		"files":     loaded,
		"revision":  revision,
	}).Info("loaded component translations")

	return nil
}

// LoadTranslation reloads a single translation from its file.
func (t TranslationService) LoadTranslation(ctx context.Context, translation *model.Translation) error {
	repo, err := t.Repo(ctx, translation.Component)
	if err != nil {
		return err
	}
	revision, err := repo.LastRevision(ctx)
	if err != nil {
		return err
	}
	full := filepath.Join(repo.Path, filepath.FromSlash(translation.Filename))

	return t.loadFile(ctx, translation.Component, translation.Language, translation.Filename, full, revision)
}

func (t TranslationService) loadFile(ctx context.Context, component *model.Component, lang *model.Language, rel, full, revision string) error {
	f, err := os.Open(full)
	if err != nil {
		return err
	}
	defer f.Close()

	file, err := formats.ParsePO(f)
	if err != nil {
		return err
	}

	translation, err := t.store.GetTranslationByLanguage(ctx, component.ID, lang.ID)
	if wrapNotFound(err) == ErrNotFound {
		translation = &model.Translation{
			ComponentID: component.ID,
			LanguageID:  lang.ID,
			Filename:    rel,
		}
		if err := t.store.CreateTranslation(ctx, translation); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	translation.Component = component
	translation.Language = lang

	if err := t.syncUnits(ctx, translation, file); err != nil {
		return err
	}

	return t.refresh(ctx, translation, revision)
}

// syncUnits upserts the units of a translation from the parsed file and
// drops the ones the file no longer carries.
func (t TranslationService) syncUnits(ctx context.Context, translation *model.Translation, file *formats.File) error {
	checksums := make([]string, 0, len(file.Messages))

	err := t.store.Transaction(ctx, func(tx store.Store) error {
		for position, msg := range file.Messages {
			source := msg.ID
			if msg.IDPlural != "" {
				source += model.PluralSeparator + msg.IDPlural
			}
			checksum := model.ChecksumOf(source, msg.Context)
			checksums = append(checksums, checksum)

			unit, err := tx.GetUnitByChecksum(ctx, translation.ID, checksum)
			if wrapNotFound(err) == ErrNotFound {
				unit = &model.Unit{
					TranslationID: translation.ID,
					Checksum:      checksum,
				}
			} else if err != nil {
				return err
			}

			unit.Position = position + 1
			unit.Source = source
			unit.Context = msg.Context
			unit.Target = strings.Join(msg.Str, model.PluralSeparator)
			unit.Location = strings.Join(msg.Locations, ", ")
			unit.Comment = strings.Join(append(append([]string{}, msg.Comments...), msg.Extracted...), "\n")
			unit.Flags = strings.Join(msg.Flags, ", ")
			unit.Fuzzy = msg.Fuzzy()
			unit.Translated = msg.Translated() && !unit.Fuzzy

			if unit.ID == 0 {
				err = tx.CreateUnit(ctx, unit)
			} else {
				err = tx.UpdateUnit(ctx, unit)
			}
			if err != nil {
				return err
			}

			if err := t.runUnitChecks(ctx, tx, translation, unit); err != nil {
				return err
			}
		}

		return tx.DeleteUnitsExcept(ctx, translation.ID, checksums)
	})

	return err
}

// runUnitChecks records the failing quality checks of one unit. Target
// checks only apply to translated units, source checks always run and are
// stored without a language.
func (t TranslationService) runUnitChecks(ctx context.Context, tx store.Store, translation *model.Translation, unit *model.Unit) error {
	projectID := translation.Component.ProjectID

	var failing []string
	if unit.Translated {
		failing = checks.RunTarget(unit.Source, unit.Target, unit.Flags)
	}
	langID := translation.LanguageID
	if err := tx.ReplaceChecks(ctx, projectID, &langID, unit.Checksum, failing); err != nil {
		return err
	}

	return tx.ReplaceChecks(ctx, projectID, nil, unit.Checksum, checks.RunSource(unit.Source, unit.Flags))
}

// refresh recomputes the denormalized counters of a translation. A non
// empty revision also records the repository state the counters belong to.
func (t TranslationService) refresh(ctx context.Context, translation *model.Translation, revision string) error {
	total, translated, fuzzy, err := t.store.TranslationCounts(ctx, translation.ID)
	if err != nil {
		return err
	}
	translation.Total = int(total)
	translation.Translated = int(translated)
	translation.Fuzzy = int(fuzzy)
	if revision != "" {
		translation.Revision = revision
	}

	return t.store.UpdateTranslation(ctx, translation)
}

// SaveUnit stores a new target for a unit and writes it back to the
// translation file. The commit to the repository happens separately.
func (t TranslationService) SaveUnit(ctx context.Context, unit *model.Unit, target string, fuzzy bool, author string) error {
	translation := unit.Translation
	if translation == nil || translation.Component == nil || translation.Language == nil {
		return ErrNotFound
	}

	unit.Target = target
	unit.Fuzzy = fuzzy
	unit.Translated = target != "" && !fuzzy
	if err := t.store.UpdateUnit(ctx, unit); err != nil {
		return err
	}

	file, full, err := t.parseFile(ctx, translation)
	if err != nil {
		return err
	}
	if err := t.applyUnit(file, unit, translation.Language); err != nil {
		return err
	}
	t.updateHeader(file, translation, author)
	if err := writeFile(file, full); err != nil {
		return err
	}

	if err := t.runUnitChecks(ctx, t.store, translation, unit); err != nil {
		return err
	}
	if err := t.touch(ctx, translation, author); err != nil {
		return err
	}
	t.publish(ctx, translation, author)

	return nil
}

// Upload merges an uploaded file into a translation. Existing translations
// are only replaced when overwrite is set. It returns the number of changed
// units.
func (t TranslationService) Upload(ctx context.Context, translation *model.Translation, upload io.Reader, overwrite bool, author string) (int, error) {
	uploaded, err := formats.ParsePO(upload)
	if err != nil {
		return 0, err
	}

	file, full, err := t.parseFile(ctx, translation)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, msg := range uploaded.Messages {
		if !msg.Translated() {
			continue
		}
		found := file.Find(msg.Context, msg.ID)
		if found == nil {
			continue
		}
		if !overwrite && found.Translated() {
			continue
		}
		if sameForms(found.Str, msg.Str) && found.Fuzzy() == msg.Fuzzy() {
			continue
		}

		found.Str = append([]string{}, msg.Str...)
		found.SetFuzzy(msg.Fuzzy())
		changed++
	}

	if changed == 0 {
		return 0, nil
	}

	t.updateHeader(file, translation, author)
	if err := writeFile(file, full); err != nil {
		return 0, err
	}
	if err := t.syncUnits(ctx, translation, file); err != nil {
		return 0, err
	}
	if err := t.touch(ctx, translation, author); err != nil {
		return 0, err
	}
	t.publish(ctx, translation, author)

	return changed, nil
}

// AutoTranslate copies targets from other translations of the same language
// that share a source string. Only untranslated units are filled unless
// overwrite is set. It returns the number of changed units.
func (t TranslationService) AutoTranslate(ctx context.Context, translation *model.Translation, overwrite bool, author string) (int, error) {
	kind := store.UnitsUntranslated
	if overwrite {
		kind = store.UnitsAll
	}
	units, _, err := t.store.ListUnits(ctx, translation.ID, store.UnitFilter{Kind: kind})
	if err != nil {
		return 0, err
	}

	file, full, err := t.parseFile(ctx, translation)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, unit := range units {
		same, err := t.store.SameUnits(ctx, unit.ID, unit.Checksum, translation.LanguageID)
		if err != nil {
			return changed, err
		}
		var source *model.Unit
		for _, candidate := range same {
			if candidate.Translated {
				source = candidate
				break
			}
		}
		if source == nil {
			continue
		}

		unit.Target = source.Target
		unit.Fuzzy = source.Fuzzy
		unit.Translated = source.Target != "" && !source.Fuzzy
		if err := t.store.UpdateUnit(ctx, unit); err != nil {
			return changed, err
		}
		if err := t.applyUnit(file, unit, translation.Language); err != nil {
			return changed, err
		}
		if err := t.runUnitChecks(ctx, t.store, translation, unit); err != nil {
			return changed, err
		}
		changed++
	}

	if changed == 0 {
		return 0, nil
	}

	t.updateHeader(file, translation, author)
	if err := writeFile(file, full); err != nil {
		return changed, err
	}
	if err := t.touch(ctx, translation, author); err != nil {
		return changed, err
	}
	t.publish(ctx, translation, author)

	return changed, nil
}

// Similar retrieves translated units of the same language whose source
// shares words with the unit.
func (t TranslationService) Similar(ctx context.Context, unit *model.Unit) ([]*model.Unit, error) {
	if unit.Translation == nil {
		return nil, ErrNotFound
	}
	words := splitWords(unit.SingularSource())
	if len(words) == 0 {
		return nil, nil
	}
	return t.store.SimilarUnits(ctx, unit.ID, unit.Translation.LanguageID, words)
}

// Others retrieves the other occurrences of the unit's string in sibling
// components translated into the same language.
func (t TranslationService) Others(ctx context.Context, unit *model.Unit) ([]*model.Unit, error) {
	if unit.Translation == nil {
		return nil, ErrNotFound
	}
	return t.store.SameUnits(ctx, unit.ID, unit.Checksum, unit.Translation.LanguageID)
}

// ExportFile returns the translation file as stored in the working copy.
func (t TranslationService) ExportFile(ctx context.Context, translation *model.Translation) (string, []byte, error) {
	repo, err := t.Repo(ctx, translation.Component)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(filepath.Join(repo.Path, filepath.FromSlash(translation.Filename)))
	if err != nil {
		return "", nil, err
	}

	return path.Base(translation.Filename), data, nil
}

func (t TranslationService) parseFile(ctx context.Context, translation *model.Translation) (*formats.File, string, error) {
	repo, err := t.Repo(ctx, translation.Component)
	if err != nil {
		return nil, "", err
	}
	full := filepath.Join(repo.Path, filepath.FromSlash(translation.Filename))

	f, err := os.Open(full)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	file, err := formats.ParsePO(f)
	if err != nil {
		return nil, "", err
	}

	return file, full, nil
}

// applyUnit copies the stored target of a unit into its message in the
// parsed file. Plural targets are padded to the plural count of the
// language.
func (t TranslationService) applyUnit(file *formats.File, unit *model.Unit, lang *model.Language) error {
	sources := unit.SourcePlurals()
	msg := file.Find(unit.Context, sources[0])
	if msg == nil {
		return fmt.Errorf("unit not present in %s: %w", unit.Checksum, ErrNotFound)
	}

	if msg.Plural() {
		forms := unit.TargetPlurals()
		for len(forms) < lang.Nplurals {
			forms = append(forms, "")
		}
		msg.Str = forms[:lang.Nplurals]
	} else {
		msg.Str = []string{unit.Target}
	}
	msg.SetFuzzy(unit.Fuzzy)

	return nil
}

// updateHeader refreshes the file headers the same way gettext tooling
// does on every edit.
func (t TranslationService) updateHeader(file *formats.File, translation *model.Translation, author string) {
	lang := translation.Language
	if author != "" {
		file.SetHeader("Last-Translator", author)
	}
	file.SetHeader("Language", lang.Code)
	file.SetHeader("Plural-Forms", lang.PluralForms())
	file.SetHeader("PO-Revision-Date", time.Now().UTC().Format("2006-01-02 15:04+0000"))
	file.SetHeader("X-Generator", weblate.Generator())
}

// touch updates the counters and change attribution of a translation.
func (t TranslationService) touch(ctx context.Context, translation *model.Translation, author string) error {
	now := time.Now()
	translation.LastChange = &now
	translation.LastAuthor = author

	return t.refresh(ctx, translation, "")
}

func (t TranslationService) publish(ctx context.Context, translation *model.Translation, author string) {
	err := t.events.Publish(ctx, &queue.Event{
		Kind:      queue.EventTranslationChanged,
		Project:   translation.Component.Project.Slug,
		Component: translation.Component.Slug,
		Language:  translation.Language.Code,
		Author:    author,
		Timestamp: time.Now(),
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to publish translation event")
	}
}

func sameForms(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// languageCode extracts the part of a translation filename matched by the
// star of the component filemask.
func languageCode(mask, name string) string {
	prefix, suffix, ok := strings.Cut(mask, "*")
	if !ok {
		return ""
	}
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return ""
	}
	code := name[len(prefix) : len(name)-len(suffix)]
	if code == "" || strings.Contains(code, "/") {
		return ""
	}

	return code
}

// writeFile serializes the file next to its final location and renames it
// into place so readers never observe a half written file.
func writeFile(file *formats.File, full string) error {
	tmp, err := os.CreateTemp(filepath.Dir(full), ".weblate-*")
	if err != nil {
		return err
	}
	if err := file.WritePO(tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), full)
}
