package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the route table around the handler.
func NewRouter(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(RecoverMiddleware)
	r.Use(RequestTimeMiddleware)
	r.Use(middleware.RedirectSlashes)
	r.Use(h.withUser)
	r.NotFound(h.NotFound)

	r.Get("/", h.Home)
	r.Get("/projects", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	r.Get("/projects/{project}", h.ShowProject)
	r.Get("/projects/{project}/{component}", h.ShowComponent)
	r.Get("/projects/{project}/{component}/{lang}", h.ShowTranslation)
	r.Get("/projects/{project}/{component}/{lang}/translate", h.Translate)
	r.Post("/projects/{project}/{component}/{lang}/translate", h.Translate)
	r.Get("/projects/{project}/{component}/{lang}/download", h.DownloadTranslation)
	r.With(h.RequirePermission(PermUploadTranslation)).
		Post("/projects/{project}/{component}/{lang}/upload", h.UploadTranslation)
	r.With(h.RequirePermission(PermAutoTranslation)).
		Post("/projects/{project}/{component}/{lang}/auto", h.AutoTranslation)

	r.Get("/dictionaries/{project}", h.ShowDictionaries)
	r.Get("/dictionaries/{project}/{lang}", h.ShowDictionary)
	r.Post("/dictionaries/{project}/{lang}", h.ShowDictionary)
	r.Get("/dictionaries/{project}/{lang}/download", h.DownloadDictionary)
	r.With(h.RequirePermission(PermUploadDictionary)).
		Post("/dictionaries/{project}/{lang}/upload", h.UploadDictionary)
	r.With(h.RequirePermission(PermDeleteDictionary)).
		Post("/dictionaries/{project}/{lang}/delete", h.DeleteDictionary)
	edit := r.With(h.RequirePermission(PermChangeDictionary))
	edit.Get("/dictionaries/{project}/{lang}/edit", h.EditDictionary)
	edit.Post("/dictionaries/{project}/{lang}/edit", h.EditDictionary)

	commit := r.With(h.RequirePermission(PermCommitTranslation))
	commit.Get("/commit/{project}", h.CommitProject)
	commit.Get("/commit/{project}/{component}", h.CommitComponent)
	commit.Get("/commit/{project}/{component}/{lang}", h.CommitTranslation)

	update := r.With(h.RequirePermission(PermUpdateTranslation))
	update.Get("/update/{project}", h.UpdateProject)
	update.Get("/update/{project}/{component}", h.UpdateComponent)
	update.Get("/update/{project}/{component}/{lang}", h.UpdateTranslation)

	push := r.With(h.RequirePermission(PermPushTranslation))
	push.Get("/push/{project}", h.PushProject)
	push.Get("/push/{project}/{component}", h.PushComponent)
	push.Get("/push/{project}/{component}/{lang}", h.PushTranslation)

	r.Get("/languages", h.ShowLanguages)
	r.Get("/languages/{lang}", h.ShowLanguage)

	r.Get("/checks", h.ShowChecks)
	r.Get("/checks/{name}", h.ShowCheck)
	r.Get("/checks/{name}/{project}", h.ShowCheckProject)
	r.Get("/checks/{name}/{project}/{component}", h.ShowCheckComponent)

	r.HandleFunc("/hooks/update/{project}", h.UpdateProjectHook)
	r.HandleFunc("/hooks/update/{project}/{component}", h.UpdateComponentHook)
	r.HandleFunc("/hooks/github", h.GitHubHook)

	r.Get("/exports/stats/{project}/{component}", h.ExportStats)

	r.Get("/js/get/{checksum}", h.GetString)
	r.With(h.RequireLogin).Get("/js/ignore-check/{id}", h.IgnoreCheck)
	r.Get("/js/i18n", h.JSi18n)
	r.Get("/js/config", h.JSConfig)
	r.Get("/js/similar/{unit}", h.GetSimilar)
	r.Get("/js/other/{unit}", h.GetOther)
	r.Get("/js/dictionary/{unit}", h.GetDictionary)
	r.Get("/js/git/{project}", h.GitStatusProject)
	r.Get("/js/git/{project}/{component}", h.GitStatusComponent)
	r.Get("/js/git/{project}/{component}/{lang}", h.GitStatusTranslation)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireStaff)
		r.Get("/", h.AdminIndex)
		r.Get("/report", h.AdminReport)
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/register", h.Register)
		r.Post("/register", h.Register)
		r.Get("/register/complete", h.RegisterComplete)
		r.Get("/activate/{key}", h.Activate)
		r.Get("/login", h.Login)
		r.Post("/login", h.Login)
		r.Get("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(h.RequireLogin)
			r.Get("/password/change", h.PasswordChange)
			r.Post("/password/change", h.PasswordChange)
			r.Get("/password/change/done", h.PasswordChangeDone)
			r.Get("/profile", h.Profile)
			r.Post("/profile", h.Profile)
		})

		r.Get("/password/reset", h.PasswordReset)
		r.Post("/password/reset", h.PasswordReset)
		r.Get("/password/reset/done", h.PasswordResetDone)
		r.Get("/password/reset/confirm/{key}", h.PasswordResetConfirm)
		r.Post("/password/reset/confirm/{key}", h.PasswordResetConfirm)
		r.Get("/password/reset/complete", h.PasswordResetComplete)
	})

	r.Get("/contact", h.Contact)
	r.Post("/contact", h.Contact)
	r.Get("/about", h.About)

	r.Handle("/media/*", http.StripPrefix("/media", http.FileServer(h.media)))

	return r
}
