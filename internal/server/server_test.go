package server

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gobuffalo/packr"
	"github.com/madhuracj/weblate/internal/cache"
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/mail"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/madhuracj/weblate/internal/tester"
	"github.com/stretchr/testify/require"
)

// testServer runs the full handler stack against a fresh database and
// plays the browser role, carrying cookies between requests.
type testServer struct {
	t        *testing.T
	ctx      context.Context
	store    store.Store
	handler  *Handler
	router   http.Handler
	sessions *SessionManager
	cnf      *config.Config
	dataDir  string
	cookies  map[string]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)

	s := store.NewGormStore(tester.TestDB())
	render, err := NewRenderer(packr.NewBox("../../templates"))
	require.NoError(t, err)
	sessions := NewSessionManager("test-secret")

	dataDir := t.TempDir()
	cnf := &config.Config{
		SiteURL:          "http://localhost:4040",
		SiteTitle:        "Weblate",
		DataDir:          dataDir,
		AdminMail:        "admin@example.com",
		RegistrationOpen: true,
		EnableHooks:      true,
	}

	events := queue.NewNoop()
	translations := service.NewTranslationService(s, events, dataDir, "Weblate", "noreply@example.com")
	handler := NewHandler(
		s,
		render,
		sessions,
		packr.NewBox("../../media"),
		service.NewAccountService(s, mail.NewLog(), cnf.SiteURL, cnf.AdminMail),
		service.NewGlossaryService(s, events, cnf.SiteURL),
		translations,
		service.NewCheckService(s),
		service.NewRepositoryService(s, translations, cache.NewMemoryCache(), events, dataDir, "Weblate", "noreply@example.com"),
		service.NewStatsService(s, cache.NewMemoryCache()),
		cnf,
	)

	return &testServer{
		t:        t,
		ctx:      context.TODO(),
		store:    s,
		handler:  handler,
		router:   NewRouter(handler),
		sessions: sessions,
		cnf:      cnf,
		dataDir:  dataDir,
		cookies:  map[string]*http.Cookie{},
	}
}

// do serves one request, keeping cookies the response sets or drops.
func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	ts.t.Helper()
	for _, cookie := range ts.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(ts.cookies, cookie.Name)
		} else {
			ts.cookies[cookie.Name] = cookie
		}
	}
	return rec
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	ts.t.Helper()
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (ts *testServer) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	ts.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

// postFile uploads content as a multipart file field together with any
// extra form fields.
func (ts *testServer) postFile(path, field, filename string, content []byte, fields url.Values) *httptest.ResponseRecorder {
	ts.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(ts.t, err)
	_, err = fw.Write(content)
	require.NoError(ts.t, err)
	for key, values := range fields {
		for _, value := range values {
			require.NoError(ts.t, mw.WriteField(key, value))
		}
	}
	require.NoError(ts.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(req)
}

// follow requests the redirect target of rec.
func (ts *testServer) follow(rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rec.Result().Header.Get("Location")
	require.NotEmpty(ts.t, location, "expected a redirect")
	return ts.get(location)
}

// login issues a session cookie for user, skipping the login form.
func (ts *testServer) login(user *model.User) {
	ts.t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(ts.t, ts.sessions.Issue(rec, user))
	for _, cookie := range rec.Result().Cookies() {
		ts.cookies[cookie.Name] = cookie
	}
}

func (ts *testServer) logout() {
	delete(ts.cookies, sessionCookie)
}

// seedTranslation builds hello/app with a Czech translation of three
// units: one translated, one untranslated and one fuzzy.
func (ts *testServer) seedTranslation() *model.Translation {
	ts.t.Helper()
	project := tester.MustProject("Hello", "hello")
	component := tester.MustComponent(project, "App", "app")
	cs := tester.MustLanguage("cs")
	translation := tester.MustTranslation(component, cs)

	tester.MustUnit(translation, 1, "Hello, world!", "Ahoj, světe!")
	tester.MustUnit(translation, 2, "Open file", "")
	fuzzy := tester.MustUnit(translation, 3, "Save", "Uložit")
	fuzzy.Fuzzy = true
	fuzzy.Translated = false
	require.NoError(ts.t, ts.store.UpdateUnit(ts.ctx, fuzzy))

	translation.Total = 3
	translation.Translated = 1
	translation.Fuzzy = 1
	require.NoError(ts.t, ts.store.UpdateTranslation(ts.ctx, translation))
	return translation
}
