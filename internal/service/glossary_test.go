package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGlossary() *GlossaryService {
	return NewGlossaryService(store.NewGormStore(tester.TestDB()), queue.NewNoop(), "http://translate.example.com")
}

func TestGlossaryWordCRUD(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	other := tester.MustProject("Other", "other")
	lang := tester.MustLanguage("cs")

	word, err := svc.AddWord(ctx, project, lang, "file", "soubor")
	assert.NoError(t, err)
	assert.NotZero(t, word.ID)

	got, err := svc.GetWord(ctx, project, lang, word.ID)
	assert.NoError(t, err)
	assert.Equal(t, "file", got.Source)

	// A word is only visible inside its own dictionary.
	_, err = svc.GetWord(ctx, other, lang, word.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	edited, err := svc.EditWord(ctx, project, lang, word.ID, "file", "spis")
	assert.NoError(t, err)
	assert.Equal(t, "spis", edited.Target)

	assert.NoError(t, svc.DeleteWord(ctx, project, lang, word.ID))
	_, err = svc.GetWord(ctx, project, lang, word.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGlossaryUploadMethods(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	lang := tester.MustLanguage("cs")

	count, err := svc.Upload(ctx, project, lang, "words.csv", strings.NewReader("file,soubor\nfolder,složka\n"), MergeSkip)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Existing sources are kept with the default method.
	count, err = svc.Upload(ctx, project, lang, "words.csv", strings.NewReader("file,spis\nwindow,okno\n"), MergeSkip)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	word, err := svc.store.FindWord(ctx, project.ID, lang.ID, "file")
	require.NoError(t, err)
	assert.Equal(t, "soubor", word.Target)

	// Overwrite replaces the target of existing sources.
	count, err = svc.Upload(ctx, project, lang, "words.csv", strings.NewReader("file,spis\n"), MergeOverwrite)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	word, err = svc.store.FindWord(ctx, project.ID, lang.ID, "file")
	require.NoError(t, err)
	assert.Equal(t, "spis", word.Target)

	// Add keeps duplicates.
	count, err = svc.Upload(ctx, project, lang, "words.csv", strings.NewReader("file,fajl\n"), MergeAdd)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	words, total, err := svc.Words(ctx, project, lang, "", 0, 25)
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, words, 4)
}

func TestGlossaryUploadEmpty(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	lang := tester.MustLanguage("cs")

	count, err := svc.Upload(ctx, project, lang, "words.csv", strings.NewReader(""), MergeSkip)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)

	// Entries above the length cap are dropped.
	long := strings.Repeat("x", 300)
	count, err = svc.Upload(ctx, project, lang, "words.csv", strings.NewReader("word,"+long+"\n"), MergeSkip)
	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestGlossaryUploadPO(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	lang := tester.MustLanguage("cs")

	po := `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "file"
msgstr "soubor"

msgid "untranslated"
msgstr ""
`
	count, err := svc.Upload(ctx, project, lang, "glossary.po", strings.NewReader(po), MergeSkip)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGlossaryExportCSV(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	lang := tester.MustLanguage("cs")
	_, err := svc.AddWord(ctx, project, lang, "file", "soubor")
	require.NoError(t, err)

	var buf bytes.Buffer
	filename, contentType, err := svc.Export(ctx, project, lang, "csv", &buf)
	require.NoError(t, err)
	assert.Equal(t, "dictionary-hello-cs.csv", filename)
	assert.Equal(t, "text/csv; charset=utf-8", contentType)
	assert.Equal(t, "file,soubor\n", buf.String())
}

func TestGlossaryExportPO(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello World", "hello")
	lang := tester.MustLanguage("cs")
	_, err := svc.AddWord(ctx, project, lang, "file", "soubor")
	require.NoError(t, err)

	var buf bytes.Buffer
	filename, contentType, err := svc.Export(ctx, project, lang, "po", &buf)
	require.NoError(t, err)
	assert.Equal(t, "glossary-hello-cs.po", filename)
	assert.Equal(t, "text/x-po; charset=utf-8", contentType)

	out := buf.String()
	assert.Contains(t, out, `"Project-Id-Version: Czech (Hello World)\n"`)
	assert.Contains(t, out, `"Language-Team: Czech <http://translate.example.com/dictionaries/hello/cs/>\n"`)
	assert.Contains(t, out, `"X-Generator: Weblate 1.6\n"`)
	assert.Contains(t, out, "msgid \"file\"\nmsgstr \"soubor\"")
}

func TestGlossaryExportTBX(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	lang := tester.MustLanguage("cs")
	_, err := svc.AddWord(ctx, project, lang, "file", "soubor")
	require.NoError(t, err)

	var buf bytes.Buffer
	filename, contentType, err := svc.Export(ctx, project, lang, "tbx", &buf)
	require.NoError(t, err)
	assert.Equal(t, "glossary-hello-cs.tbx", filename)
	assert.Equal(t, "application/x-tbx; charset=utf-8", contentType)
	assert.Contains(t, buf.String(), `<langSet xml:lang="cs">`)

	// Unknown formats fall back to CSV.
	buf.Reset()
	filename, _, err = svc.Export(ctx, project, lang, "xliff", &buf)
	require.NoError(t, err)
	assert.Equal(t, "dictionary-hello-cs.csv", filename)
}

func TestGlossaryUnitWords(t *testing.T) {
	tester.Setup()
	defer tester.RemoveDBFile()
	s := store.NewGormStore(tester.TestDB())
	svc := newGlossary()
	ctx := context.TODO()

	project := tester.MustProject("Hello", "hello")
	lang := tester.MustLanguage("cs")
	component := tester.MustComponent(project, "App", "app")
	translation := tester.MustTranslation(component, lang)
	unit := tester.MustUnit(translation, 1, "Open the file, please!", "")

	_, err := svc.AddWord(ctx, project, lang, "File", "soubor")
	require.NoError(t, err)
	_, err = svc.AddWord(ctx, project, lang, "window", "okno")
	require.NoError(t, err)

	loaded, err := s.GetUnit(ctx, unit.ID)
	require.NoError(t, err)

	words, err := svc.UnitWords(ctx, loaded)
	assert.NoError(t, err)
	if assert.Len(t, words, 1) {
		assert.Equal(t, "File", words[0].Source)
	}
}
