package server

import (
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const upstreamCS = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Hello, world!"
msgstr "Ahoj, světe!"

msgid "Open file"
msgstr ""
`

func gitAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	full := append([]string{
		"-c", "user.name=Tester",
		"-c", "user.email=tester@example.com",
	}, args...)
	cmd := exec.Command("git", full...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

// seedComponentRepo replaces the stub repository of a component with a
// real local upstream and loads it into the database.
func seedComponentRepo(t *testing.T, ts *testServer, component *model.Component) {
	t.Helper()
	seed := filepath.Join(t.TempDir(), "seed")
	require.NoError(t, os.MkdirAll(filepath.Join(seed, "po"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(seed, "po", "cs.po"), []byte(upstreamCS), 0o644))
	runGit(t, seed, "init")
	runGit(t, seed, "add", "-A")
	runGit(t, seed, "commit", "-m", "initial")
	branch := runGit(t, seed, "symbolic-ref", "--short", "HEAD")

	origin := filepath.Join(t.TempDir(), "origin.git")
	runGit(t, filepath.Dir(origin), "clone", "--bare", seed, origin)

	component.RepoURL = origin
	component.Branch = branch
	require.NoError(t, ts.store.UpdateComponent(ts.ctx, component))
	require.NoError(t, ts.handler.translations.LoadComponent(ts.ctx, component))
}

func seedRepoComponent(t *testing.T, ts *testServer) *model.Component {
	t.Helper()
	project := tester.MustProject("Hello", "hello")
	component := tester.MustComponent(project, "App", "app")
	seedComponentRepo(t, ts, component)
	return component
}

func TestTranslateSaveAndCommit(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	component := seedRepoComponent(t, ts)
	ts.login(tester.MustUser("dev", model.RoleUser, "password"))

	rec := ts.get("/projects/hello/app/cs/translate?type=untranslated")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Open file")

	rec = ts.postForm("/projects/hello/app/cs/translate", url.Values{
		"checksum": {model.ChecksumOf("Open file", "")},
		"type":     {"untranslated"},
		"pos":      {"2"},
		"target_0": {"Otevřít soubor"},
	})
	require.Equal(t, http.StatusFound, rec.Code)

	// Nothing untranslated is left, so the next hop ends the run.
	end := ts.follow(rec)
	require.Equal(t, http.StatusFound, end.Code)
	page := ts.follow(end)
	assert.Contains(t, page.Body.String(), "You have reached end of translating.")

	translation, err := ts.store.GetTranslationBySlug(ts.ctx, "hello", "app", "cs")
	require.NoError(t, err)
	assert.Equal(t, 2, translation.Translated)
	assert.Equal(t, "dev <dev@example.com>", translation.LastAuthor)

	// The working copy file carries the new translation already.
	data, err := os.ReadFile(filepath.Join(component.RepoPath(ts.dataDir), "po", "cs.po"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `msgstr "Otevřít soubor"`)

	// Committing is a manager operation.
	rec = ts.get("/commit/hello/app")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Result().Header.Get("Location"), "/accounts/login?next=")

	ts.login(tester.MustUser("manager", model.RoleManager, "password"))
	rec = ts.get("/commit/hello/app")
	require.Equal(t, http.StatusFound, rec.Code)
	page = ts.follow(rec)
	assert.Contains(t, page.Body.String(), "All pending translations were committed.")

	subject := runGit(t, component.RepoPath(ts.dataDir), "log", "-1", "--format=%s")
	assert.Equal(t, "Translated using Weblate (Czech)", subject)
}

func TestUpdateAndPushEndpoints(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	seedRepoComponent(t, ts)
	ts.login(tester.MustUser("manager", model.RoleManager, "password"))

	rec := ts.get("/update/hello/app")
	require.Equal(t, http.StatusFound, rec.Code)
	page := ts.follow(rec)
	assert.Contains(t, page.Body.String(), "All repositories were updated.")

	rec = ts.get("/push/hello")
	require.Equal(t, http.StatusFound, rec.Code)
	page = ts.follow(rec)
	assert.Contains(t, page.Body.String(), "All repositories were pushed.")
}

func TestVcsOperationsRequirePermission(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	paths := []string{
		"/commit/hello",
		"/commit/hello/app",
		"/commit/hello/app/cs",
		"/update/hello",
		"/push/hello/app",
	}
	for _, path := range paths {
		rec := ts.get(path)
		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Contains(t, rec.Result().Header.Get("Location"), "/accounts/login?next=", path)
	}

	// The translator role may not touch the repositories either.
	ts.login(tester.MustUser("dev", model.RoleUser, "password"))
	rec := ts.get("/commit/hello")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Result().Header.Get("Location"), "/accounts/login?next=")
}

func TestGitStatusFragment(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	seedRepoComponent(t, ts)

	rec := ts.get("/js/git/hello/app")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h4>App</h4>")
	assert.Contains(t, body, "working tree clean")

	rec = ts.get("/js/git/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h4>App</h4>")
}

func TestTranslationUpload(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	seedRepoComponent(t, ts)
	ts.login(tester.MustUser("dev", model.RoleUser, "password"))

	upload := `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"

msgid "Open file"
msgstr "Otevřít soubor"
`
	rec := ts.postFile("/projects/hello/app/cs/upload", "file", "cs.po", []byte(upload), nil)
	require.Equal(t, http.StatusFound, rec.Code)
	page := ts.follow(rec)
	assert.Contains(t, page.Body.String(), "File content successfully merged into translation.")

	translation, err := ts.store.GetTranslationBySlug(ts.ctx, "hello", "app", "cs")
	require.NoError(t, err)
	assert.Equal(t, 2, translation.Translated)

	// A second upload has nothing new to add.
	rec = ts.postFile("/projects/hello/app/cs/upload", "file", "cs.po", []byte(upload), nil)
	require.Equal(t, http.StatusFound, rec.Code)
	page = ts.follow(rec)
	assert.Contains(t, page.Body.String(), "There were no new strings in uploaded file.")
}

func TestAutoTranslation(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	component := seedRepoComponent(t, ts)

	// A sibling component carries the missing translation.
	project := component.Project
	docs := tester.MustComponent(project, "Docs", "docs")
	cs := tester.MustLanguage("cs")
	docsCS := tester.MustTranslation(docs, cs)
	tester.MustUnit(docsCS, 1, "Open file", "Otevřít soubor")

	ts.login(tester.MustUser("dev", model.RoleUser, "password"))
	rec := ts.postForm("/projects/hello/app/cs/auto", url.Values{})
	require.Equal(t, http.StatusFound, rec.Code)
	page := ts.follow(rec)
	assert.Contains(t, page.Body.String(), "Automatic translation completed.")

	translation, err := ts.store.GetTranslationBySlug(ts.ctx, "hello", "app", "cs")
	require.NoError(t, err)
	assert.Equal(t, 2, translation.Translated)
}
