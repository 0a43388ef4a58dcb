package service

import (
	"context"
	"fmt"
	"io"
	"time"

	weblate "github.com/madhuracj/weblate"
	"github.com/madhuracj/weblate/internal/formats"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
)

// Glossary upload merge methods.
const (
	// MergeSkip keeps existing words and only imports new sources.
	MergeSkip = ""
	// MergeOverwrite updates the target of existing words.
	MergeOverwrite = "overwrite"
	// MergeAdd always inserts, so one source may end up with several targets.
	MergeAdd = "add"
)

// maxWordLength filters out whole sentences that sometimes end up in
// uploaded glossaries.
const maxWordLength = 200

// NewGlossaryService creates a new GlossaryService.
func NewGlossaryService(store store.Store, events queue.Events, siteURL string) *GlossaryService {
	return &GlossaryService{
		store:   store,
		events:  events,
		siteURL: siteURL,
	}
}

// GlossaryService manages the per project term dictionaries.
type GlossaryService struct {
	store   store.Store
	events  queue.Events
	siteURL string
}

// Languages lists the languages a project has dictionary entries in, which
// is what the dictionary index page shows.
func (g GlossaryService) Languages(ctx context.Context, project *model.Project) ([]*model.Language, error) {
	languages, err := g.store.ListWordLanguages(ctx, project.ID)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return languages, nil
}

// Words returns one page of a dictionary ordered by source, optionally
// restricted to entries starting with letter.
func (g GlossaryService) Words(ctx context.Context, project *model.Project, language *model.Language, letter string, offset, limit int) ([]*model.Word, int64, error) {
	return g.store.ListWords(ctx, project.ID, language.ID, letter, offset, limit)
}

// AddWord creates a new dictionary entry.
func (g GlossaryService) AddWord(ctx context.Context, project *model.Project, language *model.Language, source, target string) (*model.Word, error) {
	word := &model.Word{
		ProjectID:  project.ID,
		LanguageID: language.ID,
		Source:     source,
		Target:     target,
	}
	if err := g.store.CreateWord(ctx, word); err != nil {
		return nil, err
	}
	g.publish(ctx, project, language)

	return word, nil
}

// GetWord retrieves a dictionary entry, making sure it belongs to the given
// project and language.
func (g GlossaryService) GetWord(ctx context.Context, project *model.Project, language *model.Language, id uint) (*model.Word, error) {
	word, err := g.store.GetWord(ctx, id)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if word.ProjectID != project.ID || word.LanguageID != language.ID {
		return nil, ErrNotFound
	}

	return word, nil
}

// EditWord updates the source and target of a dictionary entry.
func (g GlossaryService) EditWord(ctx context.Context, project *model.Project, language *model.Language, id uint, source, target string) (*model.Word, error) {
	word, err := g.GetWord(ctx, project, language, id)
	if err != nil {
		return nil, err
	}
	word.Source = source
	word.Target = target
	if err := g.store.UpdateWord(ctx, word); err != nil {
		return nil, err
	}
	g.publish(ctx, project, language)

	return word, nil
}

// DeleteWord removes a dictionary entry.
func (g GlossaryService) DeleteWord(ctx context.Context, project *model.Project, language *model.Language, id uint) error {
	word, err := g.GetWord(ctx, project, language, id)
	if err != nil {
		return err
	}
	if err := g.store.DeleteWord(ctx, word.ID); err != nil {
		return err
	}
	g.publish(ctx, project, language)

	return nil
}

// Upload imports words from a glossary file. The format is detected from the
// filename, method is one of the Merge constants. It returns the number of
// words taken over from the file.
func (g GlossaryService) Upload(ctx context.Context, project *model.Project, language *model.Language, filename string, file io.Reader, method string) (int, error) {
	var (
		terms []formats.Term
		err   error
	)
	switch formats.DetectGlossary(filename) {
	case formats.FormatPO:
		terms, err = formats.ParseGlossaryPO(file)
	case formats.FormatTBX:
		terms, err = formats.ParseGlossaryTBX(file)
	default:
		terms, err = formats.ParseGlossaryCSV(file)
	}
	if err != nil {
		return 0, err
	}

	count := 0
	for _, term := range terms {
		if term.Source == "" || term.Target == "" {
			continue
		}
		// Ignore too long words.
		if len(term.Source) > maxWordLength || len(term.Target) > maxWordLength {
			continue
		}

		imported, err := g.importTerm(ctx, project, language, term, method)
		if err != nil {
			return count, err
		}
		if imported {
			count++
		}
	}

	logrus.WithFields(logrus.Fields{
		"project":  project.Slug,
		"language": language.Code,
		"words":    count,
	}).Info("imported glossary file")

	if count > 0 {
		g.publish(ctx, project, language)
	}

	return count, nil
}

func (g GlossaryService) importTerm(ctx context.Context, project *model.Project, language *model.Language, term formats.Term, method string) (bool, error) {
	word := &model.Word{
		ProjectID:  project.ID,
		LanguageID: language.ID,
		Source:     term.Source,
		Target:     term.Target,
	}

	if method == MergeAdd {
		return true, g.store.CreateWord(ctx, word)
	}

	existing, err := g.store.FindWord(ctx, project.ID, language.ID, term.Source)
	if wrapNotFound(err) == ErrNotFound {
		return true, g.store.CreateWord(ctx, word)
	}
	if err != nil {
		return false, err
	}

	if method == MergeOverwrite && existing.Target != term.Target {
		existing.Target = term.Target
		return true, g.store.UpdateWord(ctx, existing)
	}

	// MergeSkip, or overwrite with nothing to change.
	return false, nil
}

// ExportFilename returns the attachment filename for a dictionary download.
func ExportFilename(project *model.Project, language *model.Language, format string) string {
	if format == formats.FormatCSV {
		return fmt.Sprintf("dictionary-%s-%s.csv", project.Slug, language.Code)
	}
	return fmt.Sprintf("glossary-%s-%s.%s", project.Slug, language.Code, format)
}

// Export writes the whole dictionary to w in the given format and returns
// the attachment filename and content type.
func (g GlossaryService) Export(ctx context.Context, project *model.Project, language *model.Language, format string, w io.Writer) (filename, contentType string, err error) {
	switch format {
	case formats.FormatPO, formats.FormatTBX:
	default:
		format = formats.FormatCSV
	}

	words, err := g.store.AllWords(ctx, project.ID, language.ID)
	if err != nil {
		return "", "", err
	}
	terms := make([]formats.Term, 0, len(words))
	for _, word := range words {
		terms = append(terms, formats.Term{Source: word.Source, Target: word.Target})
	}

	filename = ExportFilename(project, language, format)

	switch format {
	case formats.FormatPO:
		file := formats.NewFile()
		file.SetHeader("Project-Id-Version", fmt.Sprintf("%s (%s)", language.Name, project.Name))
		file.SetHeader("Language", language.Code)
		file.SetHeader("Language-Team", fmt.Sprintf("%s <%s/dictionaries/%s/%s/>",
			language.Name, g.siteURL, project.Slug, language.Code))
		file.SetHeader("PO-Revision-Date", time.Now().UTC().Format("2006-01-02 15:04+0000"))
		file.SetHeader("X-Generator", weblate.Generator())
		file.AddTerms(terms)
		return filename, "text/x-po; charset=utf-8", file.WritePO(w)
	case formats.FormatTBX:
		return filename, "application/x-tbx; charset=utf-8", formats.WriteGlossaryTBX(w, language.Code, terms)
	default:
		return filename, "text/csv; charset=utf-8", formats.WriteGlossaryCSV(w, terms)
	}
}

// UnitWords looks up dictionary entries matching words of the unit source,
// backing the inline glossary on the translate page.
func (g GlossaryService) UnitWords(ctx context.Context, unit *model.Unit) ([]*model.Word, error) {
	if unit.Translation == nil || unit.Translation.Component == nil {
		return nil, ErrNotFound
	}

	words := splitWords(unit.SingularSource())
	if len(words) == 0 {
		return nil, nil
	}

	return g.store.MatchingWords(ctx, unit.Translation.Component.ProjectID, unit.Translation.LanguageID, words)
}

func (g GlossaryService) publish(ctx context.Context, project *model.Project, language *model.Language) {
	err := g.events.Publish(ctx, &queue.Event{
		Kind:      queue.EventGlossaryChanged,
		Project:   project.Slug,
		Language:  language.Code,
		Timestamp: time.Now(),
	})
	if err != nil {
		logrus.WithError(err).Warn("failed to publish glossary event")
	}
}
