package server

import (
	"net/http"
	"path/filepath"
	"testing"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRequiresStaff(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/admin")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Result().Header.Get("Location"), "/accounts/login?next=")

	ts.login(tester.MustUser("dev", model.RoleUser, "password"))
	rec = ts.get("/admin")
	require.Equal(t, http.StatusFound, rec.Code)

	ts.login(tester.MustUser("manager", model.RoleManager, "password"))
	rec = ts.get("/admin")
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestAdminIndex(t *testing.T) {
	ts := newTestServer(t)
	ts.seedTranslation()
	ts.login(tester.MustUser("boss", model.RoleAdmin, "password"))

	rec := ts.get("/admin")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Administration @ Weblate")
	assert.Contains(t, body, "<th>Strings</th><td>3</td>")
	assert.Contains(t, body, "/admin/report")
}

func TestAdminReport(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	component := seedRepoComponent(t, ts)
	ts.login(tester.MustUser("boss", model.RoleAdmin, "password"))

	rec := ts.get("/admin/report")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hello/App")
	revision := runGit(t, component.RepoPath(ts.dataDir), "rev-parse", "HEAD")
	assert.Contains(t, body, revision)
	assert.Contains(t, body, "<td>no</td>")
}

func TestAdminReportBrokenRepository(t *testing.T) {
	gitAvailable(t)
	ts := newTestServer(t)
	translation := ts.seedTranslation()
	component := translation.Component
	component.RepoURL = filepath.Join(t.TempDir(), "missing.git")
	require.NoError(t, ts.store.UpdateComponent(ts.ctx, component))
	ts.login(tester.MustUser("boss", model.RoleAdmin, "password"))

	// A repository that cannot be opened shows its error instead of
	// failing the whole report.
	rec := ts.get("/admin/report")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Hello/App")
	assert.Contains(t, body, `class="error"`)
}
