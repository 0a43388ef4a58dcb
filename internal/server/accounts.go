package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/service"
)

type registerPage struct {
	basePage
	Username string
	Email    string
	FullName string
}

// Register shows the signup form and creates inactive accounts. The whole
// flow is off when registration is closed in the configuration.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	if !h.cnf.RegistrationOpen {
		h.render.HTML(w, http.StatusOK, "registration/registration_closed.html",
			h.base(w, r, "Registration"))
		return
	}

	page := registerPage{}
	if r.Method == http.MethodPost {
		page.Username = strings.TrimSpace(r.PostFormValue("username"))
		page.Email = strings.TrimSpace(r.PostFormValue("email"))
		page.FullName = strings.TrimSpace(r.PostFormValue("fullname"))
		password1 := r.PostFormValue("password1")
		password2 := r.PostFormValue("password2")

		switch {
		case page.Username == "" || page.Email == "" || password1 == "":
			AddFlash(w, r, "error", "Please fix errors in the form.")
		case password1 != password2:
			AddFlash(w, r, "error", "The two password fields didn't match.")
		default:
			_, err := h.accounts.Register(r.Context(), page.Username, page.Email, page.FullName, password1)
			if errors.Is(err, service.ErrExists) {
				AddFlash(w, r, "error", "A user with that username already exists.")
			} else if err != nil {
				h.serverError(w, r, err)
				return
			} else {
				http.Redirect(w, r, "/accounts/register/complete", http.StatusFound)
				return
			}
		}
	}

	page.basePage = h.base(w, r, "Registration")
	h.render.HTML(w, http.StatusOK, "registration/registration_form.html", page)
}

func (h *Handler) RegisterComplete(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "registration/registration_complete.html",
		h.base(w, r, "Registration"))
}

// Activate flips an account to active using the key from the activation
// mail. A bad key renders the failure page instead of a 404.
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	_, err := h.accounts.Activate(r.Context(), chi.URLParam(r, "key"))
	if errors.Is(err, service.ErrNotFound) {
		h.render.HTML(w, http.StatusOK, "registration/activate.html",
			h.base(w, r, "Account activation"))
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	AddFlash(w, r, "info", "Your account has been activated.")
	http.Redirect(w, r, "/accounts/login", http.StatusFound)
}

type loginPage struct {
	basePage
	Username string
	Next     string
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	page := loginPage{Next: safeNext(r.URL.Query().Get("next"))}

	if r.Method == http.MethodPost {
		page.Username = strings.TrimSpace(r.PostFormValue("username"))
		page.Next = safeNext(r.PostFormValue("next"))

		user, err := h.accounts.Authenticate(r.Context(), page.Username, r.PostFormValue("password"))
		switch {
		case errors.Is(err, service.ErrBadCredentials):
			AddFlash(w, r, "error",
				"Please enter a correct username and password. Note that both fields are case-sensitive.")
		case errors.Is(err, service.ErrInactiveUser):
			AddFlash(w, r, "error", "This account is inactive.")
		case err != nil:
			h.serverError(w, r, err)
			return
		default:
			h.sessions.Issue(w, user)
			http.Redirect(w, r, page.Next, http.StatusFound)
			return
		}
	}

	page.basePage = h.base(w, r, "Login")
	h.render.HTML(w, http.StatusOK, "registration/login.html", page)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	h.render.HTML(w, http.StatusOK, "registration/logout.html", h.base(w, r, "Logged out"))
}

func (h *Handler) PasswordChange(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		user := currentUser(r)
		password1 := r.PostFormValue("new_password1")
		password2 := r.PostFormValue("new_password2")

		switch {
		case password1 == "":
			AddFlash(w, r, "error", "Please fix errors in the form.")
		case password1 != password2:
			AddFlash(w, r, "error", "The two password fields didn't match.")
		default:
			err := h.accounts.ChangePassword(r.Context(), user, r.PostFormValue("old_password"), password1)
			if errors.Is(err, service.ErrBadCredentials) {
				AddFlash(w, r, "error",
					"Your old password was entered incorrectly. Please enter it again.")
			} else if err != nil {
				h.serverError(w, r, err)
				return
			} else {
				http.Redirect(w, r, "/accounts/password/change/done", http.StatusFound)
				return
			}
		}
	}

	h.render.HTML(w, http.StatusOK, "registration/password_change_form.html",
		h.base(w, r, "Password change"))
}

func (h *Handler) PasswordChangeDone(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "registration/password_change_done.html",
		h.base(w, r, "Password change"))
}

type passwordResetPage struct {
	basePage
	Email string
}

func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	page := passwordResetPage{}

	if r.Method == http.MethodPost {
		page.Email = strings.TrimSpace(r.PostFormValue("email"))

		err := h.accounts.RequestReset(r.Context(), page.Email)
		if errors.Is(err, service.ErrNotFound) {
			AddFlash(w, r, "error",
				"That e-mail address doesn't have an associated user account. Are you sure you've registered?")
		} else if err != nil {
			h.serverError(w, r, err)
			return
		} else {
			http.Redirect(w, r, "/accounts/password/reset/done", http.StatusFound)
			return
		}
	}

	page.basePage = h.base(w, r, "Password reset")
	h.render.HTML(w, http.StatusOK, "registration/password_reset_form.html", page)
}

func (h *Handler) PasswordResetDone(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "registration/password_reset_done.html",
		h.base(w, r, "Password reset"))
}

type passwordResetConfirmPage struct {
	basePage
	Key string
}

// PasswordResetConfirm sets a new password from the mailed reset link. Key
// validity is only checked on submit, a stale link shows the form once and
// fails on post.
func (h *Handler) PasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	page := passwordResetConfirmPage{Key: chi.URLParam(r, "key")}

	if r.Method == http.MethodPost {
		password1 := r.PostFormValue("new_password1")
		password2 := r.PostFormValue("new_password2")

		switch {
		case password1 == "":
			AddFlash(w, r, "error", "Please fix errors in the form.")
		case password1 != password2:
			AddFlash(w, r, "error", "The two password fields didn't match.")
		default:
			err := h.accounts.ResetPassword(r.Context(), page.Key, password1)
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrExpiredKey) {
				AddFlash(w, r, "error",
					"The password reset link was invalid, possibly because it has already been used. Please request a new password reset.")
				http.Redirect(w, r, "/accounts/password/reset", http.StatusFound)
				return
			} else if err != nil {
				h.serverError(w, r, err)
				return
			}
			http.Redirect(w, r, "/accounts/password/reset/complete", http.StatusFound)
			return
		}
	}

	page.basePage = h.base(w, r, "Password reset")
	h.render.HTML(w, http.StatusOK, "registration/password_reset_confirm.html", page)
}

func (h *Handler) PasswordResetComplete(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "registration/password_reset_complete.html",
		h.base(w, r, "Password reset"))
}

type langOption struct {
	Language *model.Language
	Selected bool
}

type profilePage struct {
	basePage
	FullName  string
	Languages []langOption
}

// Profile edits the full name and the set of languages offered as defaults
// in the translation pages.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			AddFlash(w, r, "error", "Failed to process form!")
			http.Redirect(w, r, "/accounts/profile", http.StatusFound)
			return
		}
		if err := h.accounts.UpdateProfile(r.Context(), user,
			strings.TrimSpace(r.PostFormValue("fullname")), r.PostForm["languages"]); err != nil {
			h.serverError(w, r, err)
			return
		}
		AddFlash(w, r, "info", "Your profile has been updated.")
		http.Redirect(w, r, "/accounts/profile", http.StatusFound)
		return
	}

	languages, err := h.store.ListLanguages(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	selected := make(map[uint]bool, len(user.Languages))
	for _, lang := range user.Languages {
		selected[lang.ID] = true
	}
	options := make([]langOption, 0, len(languages))
	for _, lang := range languages {
		options = append(options, langOption{Language: lang, Selected: selected[lang.ID]})
	}

	h.render.HTML(w, http.StatusOK, "accounts/profile.html", profilePage{
		basePage:  h.base(w, r, "User profile"),
		FullName:  user.FullName,
		Languages: options,
	})
}
