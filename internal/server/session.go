package server

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	sessionCookie = "weblate_session"
	sessionMaxAge = 14 * 24 * time.Hour
)

// SessionManager issues and verifies the signed session cookies.
type SessionManager struct {
	secret []byte
}

// NewSessionManager creates a session manager signing with secret. An empty
// secret gets replaced with a random one, which invalidates all sessions on
// restart.
func NewSessionManager(secret string) *SessionManager {
	if secret == "" {
		secret = uuid.NewString()
		logrus.Warn("no session secret configured, sessions will not survive a restart")
	}
	return &SessionManager{secret: []byte(secret)}
}

type sessionClaims struct {
	jwt.RegisteredClaims
	UserID uint `json:"uid"`
}

// Issue sets the session cookie for the given user.
func (s *SessionManager) Issue(w http.ResponseWriter, user *model.User) error {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionMaxAge)),
		},
		UserID: user.ID,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(sessionMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear drops the session cookie.
func (s *SessionManager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// UserID extracts the user from the request's session cookie. The second
// return is false for missing, invalid or expired sessions.
func (s *SessionManager) UserID(r *http.Request) (uint, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return 0, false
	}

	var claims sessionClaims
	_, err = jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, false
	}

	return claims.UserID, true
}
