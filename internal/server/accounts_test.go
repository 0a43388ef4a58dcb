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

func TestLoginFlow(t *testing.T) {
	ts := newTestServer(t)
	tester.MustUser("dev", model.RoleUser, "password")
	ts.seedTranslation()

	rec := ts.get("/accounts/login")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="username"`)

	// Wrong password re-renders the form and queues an error.
	rec = ts.postForm("/accounts/login", url.Values{
		"username": {"dev"},
		"password": {"wrong"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/accounts/login")
	assert.Contains(t, rec.Body.String(), "Please enter a correct username and password.")

	rec = ts.postForm("/accounts/login", url.Values{
		"username": {"dev"},
		"password": {"password"},
		"next":     {"/projects/hello"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/projects/hello", rec.Result().Header.Get("Location"))

	rec = ts.get("/")
	assert.Contains(t, rec.Body.String(), "Logged in as")
}

func TestLoginRedirectsStayOnSite(t *testing.T) {
	ts := newTestServer(t)
	tester.MustUser("dev", model.RoleUser, "password")

	for _, next := range []string{"https://evil.example.com", "//evil.example.com", ""} {
		rec := ts.postForm("/accounts/login", url.Values{
			"username": {"dev"},
			"password": {"password"},
			"next":     {next},
		})
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/", rec.Result().Header.Get("Location"))
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	ts := newTestServer(t)
	user := tester.MustUser("dev", model.RoleUser, "password")
	user.IsActive = false
	require.NoError(t, ts.store.UpdateUser(ts.ctx, user))

	rec := ts.postForm("/accounts/login", url.Values{
		"username": {"dev"},
		"password": {"password"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/accounts/login")
	assert.Contains(t, rec.Body.String(), "This account is inactive.")
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	ts.login(tester.MustUser("dev", model.RoleUser, "password"))

	rec := ts.get("/accounts/logout")
	require.Equal(t, http.StatusOK, rec.Code)

	// The session cookie is gone now.
	rec = ts.get("/")
	assert.NotContains(t, rec.Body.String(), "Logged in as")
}

func TestRegisterAndActivate(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postForm("/accounts/register", url.Values{
		"username":  {"newbie"},
		"email":     {"newbie@example.com"},
		"password1": {"secret"},
		"password2": {"secret"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/register/complete", rec.Result().Header.Get("Location"))
	assert.Contains(t, ts.follow(rec).Body.String(), "Thank you for registering.")

	user, err := ts.store.GetUserByUsername(ts.ctx, "newbie")
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	require.NotEmpty(t, user.ActivationKey)

	// The account cannot log in before activation.
	rec = ts.postForm("/accounts/login", url.Values{
		"username": {"newbie"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.get("/accounts/activate/" + user.ActivationKey)
	require.Equal(t, http.StatusFound, rec.Code)
	login := ts.follow(rec)
	assert.Contains(t, login.Body.String(), "Your account has been activated.")

	rec = ts.postForm("/accounts/login", url.Values{
		"username": {"newbie"},
		"password": {"secret"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)
	tester.MustUser("dev", model.RoleUser, "password")

	rec := ts.postForm("/accounts/register", url.Values{
		"username":  {"newbie"},
		"email":     {"newbie@example.com"},
		"password1": {"one"},
		"password2": {"two"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/accounts/register")
	assert.Contains(t, rec.Body.String(), "The two password fields didn't match.")

	rec = ts.postForm("/accounts/register", url.Values{
		"username":  {"dev"},
		"email":     {"other@example.com"},
		"password1": {"secret"},
		"password2": {"secret"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/accounts/register")
	assert.Contains(t, rec.Body.String(), "A user with that username already exists.")
}

func TestRegisterClosed(t *testing.T) {
	ts := newTestServer(t)
	ts.cnf.RegistrationOpen = false

	rec := ts.get("/accounts/register")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "registrations on this site are disabled")
}

func TestActivateBadKey(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/accounts/activate/no-such-key")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "activation key is invalid")
}

func TestPasswordChange(t *testing.T) {
	ts := newTestServer(t)
	user := tester.MustUser("dev", model.RoleUser, "password")
	ts.login(user)

	rec := ts.postForm("/accounts/password/change", url.Values{
		"old_password":  {"wrong"},
		"new_password1": {"replacement"},
		"new_password2": {"replacement"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/accounts/password/change")
	assert.Contains(t, rec.Body.String(), "Your old password was entered incorrectly.")

	rec = ts.postForm("/accounts/password/change", url.Values{
		"old_password":  {"password"},
		"new_password1": {"replacement"},
		"new_password2": {"replacement"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/password/change/done", rec.Result().Header.Get("Location"))

	updated, err := ts.store.GetUser(ts.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword("replacement"))
}

func TestPasswordChangeRequiresLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.get("/accounts/password/change")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/login?next=%2Faccounts%2Fpassword%2Fchange",
		rec.Result().Header.Get("Location"))
}

func TestPasswordReset(t *testing.T) {
	ts := newTestServer(t)
	user := tester.MustUser("dev", model.RoleUser, "password")

	rec := ts.postForm("/accounts/password/reset", url.Values{
		"email": {"unknown@example.com"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = ts.get("/accounts/password/reset")
	assert.Contains(t, rec.Body.String(), "doesn't have an associated user account")

	rec = ts.postForm("/accounts/password/reset", url.Values{
		"email": {"dev@example.com"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/password/reset/done", rec.Result().Header.Get("Location"))

	fresh, err := ts.store.GetUser(ts.ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.ResetKey)

	confirm := "/accounts/password/reset/confirm/" + fresh.ResetKey
	rec = ts.get(confirm)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="new_password1"`)

	rec = ts.postForm(confirm, url.Values{
		"new_password1": {"replacement"},
		"new_password2": {"replacement"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/password/reset/complete", rec.Result().Header.Get("Location"))

	updated, err := ts.store.GetUser(ts.ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, updated.CheckPassword("replacement"))
	assert.Empty(t, updated.ResetKey)

	// The key is single use.
	rec = ts.postForm(confirm, url.Values{
		"new_password1": {"again"},
		"new_password2": {"again"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/accounts/password/reset", rec.Result().Header.Get("Location"))
	reset := ts.follow(rec)
	assert.Contains(t, reset.Body.String(), "The password reset link was invalid")
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)
	user := tester.MustUser("dev", model.RoleUser, "password")
	ts.login(user)

	rec := ts.get("/accounts/profile")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="fullname"`)

	rec = ts.postForm("/accounts/profile", url.Values{
		"fullname":  {"Jane Developer"},
		"languages": {"cs", "de"},
	})
	require.Equal(t, http.StatusFound, rec.Code)
	profile := ts.follow(rec)
	assert.Contains(t, profile.Body.String(), "Your profile has been updated.")
	assert.Contains(t, profile.Body.String(), "Jane Developer")

	updated, err := ts.store.GetUser(ts.ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Developer", updated.FullName)
	codes := make([]string, 0, len(updated.Languages))
	for _, lang := range updated.Languages {
		codes = append(codes, lang.Code)
	}
	assert.ElementsMatch(t, []string{"cs", "de"}, codes)
}
