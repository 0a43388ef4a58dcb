package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gobuffalo/packr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererParsesAllTemplates(t *testing.T) {
	render, err := NewRenderer(packr.NewBox("../../templates"))
	require.NoError(t, err)

	// Pages and fragments are both registered under their box paths.
	assert.Contains(t, render.templates, "index.html")
	assert.Contains(t, render.templates, "registration/login.html")
	assert.Contains(t, render.templates, "admin/report.html")
	assert.Contains(t, render.templates, "js/similar.html")
	assert.NotContains(t, render.templates, "base.html")
}

func TestRendererUnknownTemplate(t *testing.T) {
	render, err := NewRenderer(packr.NewBox("../../templates"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	render.HTML(rec, http.StatusOK, "no-such.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = httptest.NewRecorder()
	render.Fragment(rec, "no-such.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRendererWrapsPages(t *testing.T) {
	render, err := NewRenderer(packr.NewBox("../../templates"))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	render.HTML(rec, http.StatusOK, "404.html", basePage{
		Title:     "Page not found",
		SiteTitle: "Weblate",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Page not found @ Weblate</title>")
	assert.Contains(t, body, "The page you are looking for was not found.")
}
