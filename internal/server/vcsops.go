package server

import (
	"fmt"
	"net/http"
)

func (h *Handler) CommitProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	if _, err := h.repos.CommitProject(r.Context(), project); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to commit pending changes: %s", err))
	} else {
		AddFlash(w, r, "info", "All pending translations were committed.")
	}
	http.Redirect(w, r, projectURL(project), http.StatusFound)
}

func (h *Handler) CommitComponent(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	if _, err := h.repos.CommitComponent(r.Context(), component); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to commit pending changes: %s", err))
	} else {
		AddFlash(w, r, "info", "All pending translations were committed.")
	}
	http.Redirect(w, r, componentURL(component), http.StatusFound)
}

func (h *Handler) CommitTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	if _, err := h.repos.CommitTranslation(r.Context(), translation); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to commit pending changes: %s", err))
	} else {
		AddFlash(w, r, "info", "All pending translations were committed.")
	}
	http.Redirect(w, r, translationURL(translation), http.StatusFound)
}

func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	if err := h.repos.UpdateProject(r.Context(), project); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to update repository: %s", err))
	} else {
		AddFlash(w, r, "info", "All repositories were updated.")
	}
	http.Redirect(w, r, projectURL(project), http.StatusFound)
}

func (h *Handler) UpdateComponent(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	if err := h.repos.UpdateComponent(r.Context(), component); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to update repository: %s", err))
	} else {
		AddFlash(w, r, "info", "All repositories were updated.")
	}
	http.Redirect(w, r, componentURL(component), http.StatusFound)
}

func (h *Handler) UpdateTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	if err := h.repos.UpdateComponent(r.Context(), translation.Component); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to update repository: %s", err))
	} else {
		AddFlash(w, r, "info", "All repositories were updated.")
	}
	http.Redirect(w, r, translationURL(translation), http.StatusFound)
}

func (h *Handler) PushProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	if err := h.repos.PushProject(r.Context(), project); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to push to remote branch: %s", err))
	} else {
		AddFlash(w, r, "info", "All repositories were pushed.")
	}
	http.Redirect(w, r, projectURL(project), http.StatusFound)
}

func (h *Handler) PushComponent(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	if err := h.repos.PushComponent(r.Context(), component); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to push to remote branch: %s", err))
	} else {
		AddFlash(w, r, "info", "All repositories were pushed.")
	}
	http.Redirect(w, r, componentURL(component), http.StatusFound)
}

func (h *Handler) PushTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	if err := h.repos.PushComponent(r.Context(), translation.Component); err != nil {
		AddFlash(w, r, "error", fmt.Sprintf("Failed to push to remote branch: %s", err))
	} else {
		AddFlash(w, r, "info", "All repositories were pushed.")
	}
	http.Redirect(w, r, translationURL(translation), http.StatusFound)
}
