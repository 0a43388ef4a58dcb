package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportStats(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()

	rec := ts.get("/exports/stats/hello/app")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Result().Header.Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `"code": "cs"`)
	assert.Contains(t, body, `"name": "Czech"`)
	assert.Contains(t, body, `"total": 3`)
	assert.Contains(t, body, `"translated": 1`)
	assert.Contains(t, body, `"translated_percent": 33.3`)

	rec = ts.get("/exports/stats/hello/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHooksDisabled(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()
	ts.cnf.EnableHooks = false

	for _, path := range []string{
		"/hooks/update/hello",
		"/hooks/update/hello/app",
		"/hooks/github",
	} {
		rec := ts.get(path)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, path)
	}
}

func TestUpdateHooks(t *testing.T) {
	ts := newTestServer(t)
	translation := ts.seedTranslation()

	// Point the repository at a missing local path so the background
	// update fails fast instead of reaching for the network.
	component := translation.Component
	component.RepoURL = filepath.Join(t.TempDir(), "missing.git")
	require.NoError(t, ts.store.UpdateComponent(ts.ctx, component))

	rec := ts.get("/hooks/update/hello")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "update triggered", rec.Body.String())

	rec = ts.get("/hooks/update/hello/app")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "update triggered", rec.Body.String())

	rec = ts.get("/hooks/update/nope")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGitHubHook(t *testing.T) {
	ts := newTestServer(t)
	translation := ts.seedTranslation()

	// The component tracks a different branch, so a push to master is
	// matched by URL but not triggered.
	component := translation.Component
	component.RepoURL = "git://github.com/nijel/hello.git"
	component.Branch = "maintenance"
	require.NoError(t, ts.store.UpdateComponent(ts.ctx, component))

	payload := `{"ref": "refs/heads/master", "repository": {"name": "hello", "owner": {"name": "nijel"}}}`

	// Form encoded payload, the way github used to send it.
	rec := ts.postForm("/hooks/github", url.Values{"payload": {payload}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "update triggered", rec.Body.String())

	// Raw JSON body.
	req := httptest.NewRequest(http.MethodPost, "/hooks/github", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec = ts.do(req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "update triggered", rec.Body.String())

	rec = ts.postForm("/hooks/github", url.Values{"payload": {"not json"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not parse json!")

	rec = ts.postForm("/hooks/github", url.Values{"payload": {`{"ref": "refs/heads/master"}`}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJSConfig(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/js/config")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/javascript; charset=utf-8", rec.Result().Header.Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, `var site_url = "http://localhost:4040";`)
	assert.Contains(t, body, "var update_lock = 60;")
}

func TestJSi18n(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/js/i18n")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "function gettext")
	assert.Contains(t, body, "function interpolate")
}

func TestGetString(t *testing.T) {
	ts := newTestServer(t)
	translation := ts.seedTranslation()
	unit, err := ts.store.NextUnit(ts.ctx, translation.ID, unitFilter(translation, "all", ""), -1, "")
	require.NoError(t, err)

	rec := ts.get("/js/get/" + unit.Checksum)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, world!", rec.Body.String())

	rec = ts.get("/js/get/0000000000000000")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}
