package server

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomePage(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	rec := ts.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Home @ Weblate")
	assert.Contains(t, body, `<a href="/projects/hello">Hello</a>`)
	assert.Contains(t, body, "web based translation of 1 projects")
	assert.Contains(t, body, "Powered by")

	// The old projects listing only redirects home.
	rec = ts.get("/projects")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Result().Header.Get("Location"))
}

func TestProjectPage(t *testing.T) {
	ts := newTestServer(t)
	translation := ts.seedTranslation()
	project := translation.Component.Project
	project.Web = "https://example.com"
	project.Instructions = "Please keep it short."
	require.NoError(t, ts.store.UpdateProject(ts.ctx, project))

	rec := ts.get("/projects/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please keep it short.")
	assert.Contains(t, body, `<a href="/projects/hello/app">App</a>`)
	assert.NotContains(t, body, "/commit/hello")

	// Managers get the repository tools.
	ts.login(tester.MustUser("manager", model.RoleManager, "password"))
	rec = ts.get("/projects/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, `href="/commit/hello"`)
	assert.Contains(t, body, `href="/update/hello"`)
	assert.Contains(t, body, `href="/push/hello"`)
}

func TestProjectPageNotFound(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/projects/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "The page you are looking for was not found.")
}

func TestComponentPage(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	rec := ts.get("/projects/hello/app")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/projects/hello/app/cs">Czech (cs)</a>`)
	assert.Contains(t, body, "33.3% (1 of 3)")

	rec = ts.get("/projects/hello/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTranslationPage(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	rec := ts.get("/projects/hello/app/cs")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "33.3% (1 of 3 strings)")
	assert.Contains(t, body, "translate?type=all")
	assert.Contains(t, body, "translate?type=untranslated")
	assert.Contains(t, body, "translate?type=fuzzy")
	assert.Contains(t, body, "/projects/hello/app/cs/download")
	// Upload is for logged in users only.
	assert.NotContains(t, body, "/projects/hello/app/cs/upload")

	ts.login(tester.MustUser("dev", model.RoleUser, "password"))
	rec = ts.get("/projects/hello/app/cs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/projects/hello/app/cs/upload")
}

func TestLanguagePages(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	rec := ts.get("/languages")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/languages/cs">Czech (cs)</a>`)

	rec = ts.get("/languages/cs")
	require.Equal(t, http.StatusOK, rec.Code)
	body = rec.Body.String()
	assert.Contains(t, body, "Czech")
	assert.Contains(t, body, `<a href="/projects/hello/app/cs">`)

	rec = ts.get("/languages/xx")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAboutPage(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	rec := ts.get("/about")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "web based translation tool with tight Git integration")
	assert.Contains(t, body, "This site runs Weblate")
}

func TestContactForm(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/contact")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="subject"`)

	// Incomplete form re-renders with an error on the next page.
	rec = ts.postForm("/contact", url.Values{"name": {"Somebody"}})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/contact")
	assert.Contains(t, rec.Body.String(), "Please fix errors in the form.")

	rec = ts.postForm("/contact", url.Values{
		"name":    {"Somebody"},
		"email":   {"somebody@example.com"},
		"subject": {"Hi"},
		"message": {"Hello there."},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	home := ts.follow(rec)
	assert.Contains(t, home.Body.String(), "Message has been sent to administrator.")
}

func TestUserboxSwitchesWithSession(t *testing.T) {
	ts := newTestServer(t)
	user := tester.MustUser("dev", model.RoleUser, "password")

	rec := ts.get("/")
	body := rec.Body.String()
	assert.Contains(t, body, "/accounts/login")
	assert.NotContains(t, body, "Logged in as")

	ts.login(user)
	rec = ts.get("/")
	body = rec.Body.String()
	assert.Contains(t, body, "Logged in as")
	assert.Contains(t, body, "dev")
	assert.NotContains(t, body, "/admin")

	ts.login(tester.MustUser("boss", model.RoleAdmin, "password"))
	rec = ts.get("/")
	assert.Contains(t, rec.Body.String(), "/admin")
}
