package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/madhuracj/weblate/internal/checks"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
)

type checksPage struct {
	basePage
	Checks []*service.CheckOverview
}

func (h *Handler) ShowChecks(w http.ResponseWriter, r *http.Request) {
	overview, err := h.checks.Overview(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "checks.html", checksPage{
		basePage: h.base(w, r, "Failing checks"),
		Checks:   overview,
	})
}

type checkPage struct {
	basePage
	Check    *checks.Check
	Projects []*store.SlugCount
}

func (h *Handler) ShowCheck(w http.ResponseWriter, r *http.Request) {
	check, counts, err := h.checks.ByProject(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "check.html", checkPage{
		basePage: h.base(w, r, check.Name),
		Check:    check,
		Projects: counts,
	})
}

type checkProjectPage struct {
	basePage
	Check      *checks.Check
	Project    *model.Project
	Components []*store.SlugCount
}

func (h *Handler) ShowCheckProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	check, counts, err := h.checks.ProjectDetail(r.Context(), project, chi.URLParam(r, "name"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "check_project.html", checkProjectPage{
		basePage:   h.base(w, r, check.Name),
		Check:      check,
		Project:    project,
		Components: counts,
	})
}

type checkComponentPage struct {
	basePage
	Check       *checks.Check
	Component   *model.Component
	Languages   []*service.LanguageCount
	SourceCount int64
}

func (h *Handler) ShowCheckComponent(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	check, langs, sourceCount, err := h.checks.ComponentDetail(r.Context(), component, chi.URLParam(r, "name"))
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "check_subproject.html", checkComponentPage{
		basePage:    h.base(w, r, check.Name),
		Check:       check,
		Component:   component,
		Languages:   langs,
		SourceCount: sourceCount,
	})
}
