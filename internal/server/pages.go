package server

import (
	"net/http"
	"strings"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
)

type homePage struct {
	basePage
	Projects []*model.Project
	Totals   *store.Totals
}

func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	totals, err := h.store.Totals(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "index.html", homePage{
		basePage: h.base(w, r, "Home"),
		Projects: projects,
		Totals:   totals,
	})
}

type projectPage struct {
	basePage
	Project    *model.Project
	Components []*model.Component
	Dicts      []*model.Language
	CanCommit  bool
	CanUpdate  bool
	CanPush    bool
}

func (h *Handler) ShowProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	components, err := h.store.ListComponents(r.Context(), project.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	dicts, err := h.glossary.Languages(r.Context(), project)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	user := currentUser(r)
	h.render.HTML(w, http.StatusOK, "project.html", projectPage{
		basePage:   h.base(w, r, project.Name),
		Project:    project,
		Components: components,
		Dicts:      dicts,
		CanCommit:  HasPerm(user, PermCommitTranslation),
		CanUpdate:  HasPerm(user, PermUpdateTranslation),
		CanPush:    HasPerm(user, PermPushTranslation),
	})
}

type componentPage struct {
	basePage
	Component    *model.Component
	Translations []*model.Translation
	CanCommit    bool
	CanUpdate    bool
	CanPush      bool
}

func (h *Handler) ShowComponent(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	translations, err := h.store.ListTranslations(r.Context(), component.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	user := currentUser(r)
	h.render.HTML(w, http.StatusOK, "subproject.html", componentPage{
		basePage:     h.base(w, r, component.String()),
		Component:    component,
		Translations: translations,
		CanCommit:    HasPerm(user, PermCommitTranslation),
		CanUpdate:    HasPerm(user, PermUpdateTranslation),
		CanPush:      HasPerm(user, PermPushTranslation),
	})
}

type translationPage struct {
	basePage
	Translation  *model.Translation
	Untranslated int
	CanUpload    bool
	CanOverwrite bool
	CanAuto      bool
	CanCommit    bool
	CanUpdate    bool
	CanPush      bool
}

func (h *Handler) ShowTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	user := currentUser(r)
	h.render.HTML(w, http.StatusOK, "translation.html", translationPage{
		basePage:     h.base(w, r, translation.String()),
		Translation:  translation,
		Untranslated: translation.Total - translation.Translated,
		CanUpload:    HasPerm(user, PermUploadTranslation),
		CanOverwrite: HasPerm(user, PermOverwriteTranslation),
		CanAuto:      HasPerm(user, PermAutoTranslation),
		CanCommit:    HasPerm(user, PermCommitTranslation),
		CanUpdate:    HasPerm(user, PermUpdateTranslation),
		CanPush:      HasPerm(user, PermPushTranslation),
	})
}

type languagesPage struct {
	basePage
	Languages []*store.LanguageSummary
}

func (h *Handler) ShowLanguages(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.store.LanguageSummaries(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "languages.html", languagesPage{
		basePage:  h.base(w, r, "Languages"),
		Languages: summaries,
	})
}

type languagePage struct {
	basePage
	Language     *model.Language
	Translations []*model.Translation
}

func (h *Handler) ShowLanguage(w http.ResponseWriter, r *http.Request) {
	lang, ok := h.language(w, r)
	if !ok {
		return
	}
	translations, err := h.store.ListLanguageTranslations(r.Context(), lang.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "language.html", languagePage{
		basePage:     h.base(w, r, lang.String()),
		Language:     lang,
		Translations: translations,
	})
}

type aboutPage struct {
	basePage
	Totals *store.Totals
}

func (h *Handler) About(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.Totals(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "about.html", aboutPage{
		basePage: h.base(w, r, "About Weblate"),
		Totals:   totals,
	})
}

type contactPage struct {
	basePage
	Name    string
	Email   string
	Subject string
	Message string
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	page := contactPage{}
	if user := currentUser(r); user != nil {
		page.Name = user.String()
		page.Email = user.Email
	}

	if r.Method == http.MethodPost {
		page.Name = strings.TrimSpace(r.PostFormValue("name"))
		page.Email = strings.TrimSpace(r.PostFormValue("email"))
		page.Subject = strings.TrimSpace(r.PostFormValue("subject"))
		page.Message = r.PostFormValue("message")

		if page.Name == "" || page.Email == "" || page.Subject == "" || strings.TrimSpace(page.Message) == "" {
			AddFlash(w, r, "error", "Please fix errors in the form.")
		} else if err := h.accounts.Contact(r.Context(), page.Name, page.Email, page.Subject, page.Message); err != nil {
			h.serverError(w, r, err)
			return
		} else {
			AddFlash(w, r, "info", "Message has been sent to administrator.")
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
	}

	page.basePage = h.base(w, r, "Contact")
	h.render.HTML(w, http.StatusOK, "contact.html", page)
}
