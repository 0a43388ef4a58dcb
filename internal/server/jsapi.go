package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/madhuracj/weblate/internal/model"
	"gorm.io/gorm"
)

// GetString serves the source text of a unit to the editor, any unit with
// the checksum will do. Unknown checksums get an empty body.
func (h *Handler) GetString(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	unit, err := h.store.FirstUnitByChecksum(r.Context(), chi.URLParam(r, "checksum"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return
		}
		h.serverError(w, r, err)
		return
	}
	w.Write([]byte(unit.SingularSource()))
}

// IgnoreCheck flips a failing check to ignored. Users without the permission
// still get the ok body, the check just stays active.
func (h *Handler) IgnoreCheck(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if HasPerm(currentUser(r), PermIgnoreCheck) {
		if err := h.checks.Ignore(r.Context(), uint(id)); err != nil {
			h.lookupFailed(w, r, err)
			return
		}
	} else if _, err := h.store.GetCheck(r.Context(), uint(id)); err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	w.Write([]byte("ok"))
}

func (h *Handler) JSConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	fmt.Fprintf(w, "var site_url = %q;\nvar update_lock = 60;\n", h.cnf.SiteURL)
}

// JSi18n serves an empty message catalog. The interface is English only,
// the stubs keep the editor scripts working.
func (h *Handler) JSi18n(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write([]byte(`function gettext(msgid) { return msgid; }
function ngettext(singular, plural, count) { return (count == 1) ? singular : plural; }
function interpolate(fmt, obj, named) {
  if (named) {
    return fmt.replace(/%\(\w+\)s/g, function(match) { return String(obj[match.slice(2, -2)]); });
  }
  return fmt.replace(/%s/g, function(match) { return String(obj.shift()); });
}
`))
}

type unitListFragment struct {
	Unit  *model.Unit
	Units []*model.Unit
}

func (h *Handler) jsUnit(w http.ResponseWriter, r *http.Request) (*model.Unit, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "unit"), 10, 32)
	if err != nil {
		h.NotFound(w, r)
		return nil, false
	}
	unit, err := h.store.GetUnit(r.Context(), uint(id))
	if err != nil {
		h.lookupFailed(w, r, err)
		return nil, false
	}
	return unit, true
}

func (h *Handler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	unit, ok := h.jsUnit(w, r)
	if !ok {
		return
	}
	units, err := h.translations.Similar(r.Context(), unit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Fragment(w, "js/similar.html", unitListFragment{Unit: unit, Units: units})
}

func (h *Handler) GetOther(w http.ResponseWriter, r *http.Request) {
	unit, ok := h.jsUnit(w, r)
	if !ok {
		return
	}
	units, err := h.translations.Others(r.Context(), unit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Fragment(w, "js/other.html", unitListFragment{Unit: unit, Units: units})
}

type dictionaryFragment struct {
	Unit  *model.Unit
	Words []*model.Word
}

func (h *Handler) GetDictionary(w http.ResponseWriter, r *http.Request) {
	unit, ok := h.jsUnit(w, r)
	if !ok {
		return
	}
	words, err := h.glossary.UnitWords(r.Context(), unit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.Fragment(w, "js/dictionary.html", dictionaryFragment{Unit: unit, Words: words})
}

type gitStatusRow struct {
	Name   string
	Status string
}

type gitStatusFragment struct {
	Rows []gitStatusRow
}

func (h *Handler) gitStatus(w http.ResponseWriter, r *http.Request, components []*model.Component) {
	var data gitStatusFragment
	for _, component := range components {
		status, err := h.repos.Status(r.Context(), component)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		data.Rows = append(data.Rows, gitStatusRow{Name: component.Name, Status: status})
	}
	h.render.Fragment(w, "js/git-status.html", data)
}

func (h *Handler) GitStatusProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	components, err := h.store.ListComponents(r.Context(), project.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.gitStatus(w, r, components)
}

func (h *Handler) GitStatusComponent(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	h.gitStatus(w, r, []*model.Component{component})
}

func (h *Handler) GitStatusTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	h.gitStatus(w, r, []*model.Component{translation.Component})
}
