package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gobuffalo/packr"
	weblate "github.com/madhuracj/weblate"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/sirupsen/logrus"
)

// Renderer executes the HTML templates from the template box. Page templates
// define a content block that base.html wraps with the site chrome; the js/
// fragments render bare.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every template in the box against the base layout.
func NewRenderer(box packr.Box) (*Renderer, error) {
	layout, err := box.FindString("base.html")
	if err != nil {
		return nil, fmt.Errorf("load base template: %w", err)
	}

	templates := map[string]*template.Template{}
	for _, name := range box.List() {
		if name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		src, err := box.FindString(name)
		if err != nil {
			return nil, fmt.Errorf("load template %s: %w", name, err)
		}
		t, err := template.New("base.html").Parse(layout)
		if err != nil {
			return nil, fmt.Errorf("parse base template: %w", err)
		}
		if _, err := t.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return &Renderer{templates: templates}, nil
}

// HTML renders a page template wrapped in the base layout.
func (rd *Renderer) HTML(w http.ResponseWriter, status int, name string, data interface{}) {
	t, ok := rd.templates[name]
	if !ok {
		logrus.Errorf("unknown template: %s", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "base.html", data); err != nil {
		logrus.Errorf("error rendering %s: %v", name, err)
	}
}

// Fragment renders a bare template without the base layout.
func (rd *Renderer) Fragment(w http.ResponseWriter, name string, data interface{}) {
	t, ok := rd.templates[name]
	if !ok {
		logrus.Errorf("unknown template: %s", name)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		logrus.Errorf("error rendering %s: %v", name, err)
	}
}

// basePage carries the fields every rendered page needs.
type basePage struct {
	Title     string
	SiteTitle string
	User      *model.User
	Flashes   []Flash
	Version   string
}

// base builds the shared page fields, consuming any queued flash messages.
func (h *Handler) base(w http.ResponseWriter, r *http.Request, title string) basePage {
	return basePage{
		Title:     title,
		SiteTitle: h.cnf.SiteTitle,
		User:      currentUser(r),
		Flashes:   TakeFlashes(w, r),
		Version:   weblate.Version,
	}
}
