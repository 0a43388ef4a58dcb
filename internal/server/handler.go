package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gobuffalo/packr"
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler carries the services behind the HTTP surface.
type Handler struct {
	store        store.Store
	render       *Renderer
	sessions     *SessionManager
	media        packr.Box
	accounts     *service.AccountService
	glossary     *service.GlossaryService
	translations *service.TranslationService
	checks       *service.CheckService
	repos        *service.RepositoryService
	stats        *service.StatsService
	cnf          *config.Config
}

// NewHandler wires the services into the HTTP surface.
func NewHandler(
	st store.Store,
	render *Renderer,
	sessions *SessionManager,
	media packr.Box,
	accounts *service.AccountService,
	glossary *service.GlossaryService,
	translations *service.TranslationService,
	checks *service.CheckService,
	repos *service.RepositoryService,
	stats *service.StatsService,
	cnf *config.Config,
) *Handler {
	return &Handler{
		store:        st,
		render:       render,
		sessions:     sessions,
		media:        media,
		accounts:     accounts,
		glossary:     glossary,
		translations: translations,
		checks:       checks,
		repos:        repos,
		stats:        stats,
		cnf:          cnf,
	}
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusNotFound, "404.html", h.base(w, r, "Page not found"))
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	logrus.Errorf("error serving %v %v: %v", r.Method, r.URL.Path, err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// lookupFailed maps missing rows to the 404 page and anything else to a 500.
func (h *Handler) lookupFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, service.ErrNotFound) {
		h.NotFound(w, r)
		return
	}
	h.serverError(w, r, err)
}

// project resolves the {project} URL parameter, rendering the 404 page when
// it does not exist.
func (h *Handler) project(w http.ResponseWriter, r *http.Request) (*model.Project, bool) {
	project, err := h.store.GetProjectBySlug(r.Context(), chi.URLParam(r, "project"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return nil, false
	}
	return project, true
}

// component resolves the {project}/{component} URL parameters.
func (h *Handler) component(w http.ResponseWriter, r *http.Request) (*model.Component, bool) {
	component, err := h.store.GetComponentBySlug(r.Context(),
		chi.URLParam(r, "project"), chi.URLParam(r, "component"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return nil, false
	}
	return component, true
}

// translation resolves the {project}/{component}/{lang} URL parameters.
func (h *Handler) translation(w http.ResponseWriter, r *http.Request) (*model.Translation, bool) {
	translation, err := h.store.GetTranslationBySlug(r.Context(),
		chi.URLParam(r, "project"), chi.URLParam(r, "component"), chi.URLParam(r, "lang"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return nil, false
	}
	return translation, true
}

// language resolves the {lang} URL parameter.
func (h *Handler) language(w http.ResponseWriter, r *http.Request) (*model.Language, bool) {
	lang, err := h.store.GetLanguageByCode(r.Context(), chi.URLParam(r, "lang"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return nil, false
	}
	return lang, true
}

// authorName formats the commit author signature of a user.
func authorName(user *model.User) string {
	return fmt.Sprintf("%s <%s>", user.String(), user.Email)
}

// safeNext keeps redirects on this site. Anything not starting with a single
// slash falls back to the home page.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return "/"
}

func projectURL(project *model.Project) string {
	return "/projects/" + project.Slug
}

func componentURL(component *model.Component) string {
	return "/projects/" + component.FullSlug()
}

func translationURL(translation *model.Translation) string {
	return componentURL(translation.Component) + "/" + translation.Language.Code
}
