package server

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "weblate_messages"

// Flash is one message queued for the next rendered page.
type Flash struct {
	Kind    string `json:"kind"` // info or error
	Message string `json:"message"`
}

// AddFlash queues a message on top of any already queued ones.
func AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	flashes := append(readFlashes(r), Flash{Kind: kind, Message: message})
	payload, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.URLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
	})
}

// TakeFlashes returns the queued messages and clears the queue.
func TakeFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	payload, err := base64.URLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}
