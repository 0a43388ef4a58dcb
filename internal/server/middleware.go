package server

import (
	"context"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// RequestTimeMiddleware logs every request with its handling time.
func RequestTimeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		reqTime := time.Since(start)
		logrus.Infof("request time: %v %v: %v", r.Method, r.URL.Path, reqTime)
	})
}

// RecoverMiddleware turns handler panics into 500 responses.
func RecoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.Errorf("panic serving %v %v: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack())
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withUser loads the session user into the request context. Inactive and
// deleted accounts are treated as anonymous.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := h.sessions.UserID(r); ok {
			user, err := h.store.GetUser(r.Context(), id)
			if err == nil && user.IsActive {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// currentUser returns the session user, nil for anonymous requests.
func currentUser(r *http.Request) *model.User {
	user, _ := r.Context().Value(userContextKey).(*model.User)
	return user
}

// redirectToLogin sends the browser to the login page, carrying the current
// path so login can return to it.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/accounts/login?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
}

// RequireLogin rejects anonymous requests with a login redirect.
func (h *Handler) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r) == nil {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequirePermission rejects requests lacking the given permission with a
// login redirect.
func (h *Handler) RequirePermission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasPerm(currentUser(r), code) {
				redirectToLogin(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff limits a route to admin users.
func (h *Handler) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil || !user.IsStaff() {
			redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
