package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/madhuracj/weblate/internal/checks"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
	"gorm.io/gorm"
)

type translatePage struct {
	basePage
	Translation *model.Translation
	Unit        *model.Unit
	Sources     []string
	Targets     []targetForm
	Checks      []unitCheck
	Kind        string
	Search      string
	Filtered    int64
	CanSave     bool
	CanIgnore   bool
}

// targetForm is one textarea of the translation form, singular units have
// one, plural units one per plural form of the language.
type targetForm struct {
	Index int
	Name  string
	Value string
}

// unitCheck is one failing check shown next to the translation form.
type unitCheck struct {
	ID          uint
	Name        string
	Description string
}

func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	if r.Method == http.MethodPost {
		h.saveTranslation(w, r, translation)
		return
	}

	kind := r.URL.Query().Get("type")
	if kind == "" {
		kind = store.UnitsAll
	}
	search := r.URL.Query().Get("q")
	pos := atoiDefault(r.URL.Query().Get("pos"), -1)
	dir := r.URL.Query().Get("dir")

	filter := unitFilter(translation, kind, search)
	unit, err := h.store.NextUnit(r.Context(), translation.ID, filter, pos, dir)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		AddFlash(w, r, "info", "You have reached end of translating.")
		http.Redirect(w, r, translationURL(translation), http.StatusFound)
		return
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	countFilter := filter
	countFilter.Limit = 1
	_, filtered, err := h.store.ListUnits(r.Context(), translation.ID, countFilter)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	failing, err := h.store.ListUnitChecks(r.Context(),
		translation.Component.ProjectID, translation.LanguageID, unit.Checksum)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	unitChecks := make([]unitCheck, 0, len(failing))
	for _, row := range failing {
		uc := unitCheck{ID: row.ID, Name: row.Name, Description: row.Name}
		if c, ok := checks.Get(row.Name); ok {
			uc.Name = c.Name
			uc.Description = c.Description
		}
		unitChecks = append(unitChecks, uc)
	}

	targets := unit.TargetPlurals()
	forms := make([]targetForm, 0, targetCount(unit, translation.Language))
	for i := 0; i < targetCount(unit, translation.Language); i++ {
		value := ""
		if i < len(targets) {
			value = targets[i]
		}
		forms = append(forms, targetForm{Index: i, Name: fmt.Sprintf("target_%d", i), Value: value})
	}

	h.render.HTML(w, http.StatusOK, "translate.html", translatePage{
		basePage:    h.base(w, r, translation.String()),
		Translation: translation,
		Unit:        unit,
		Sources:     unit.SourcePlurals(),
		Targets:     forms,
		Checks:      unitChecks,
		Kind:        kind,
		Search:      search,
		Filtered:    filtered,
		CanSave:     HasPerm(currentUser(r), PermSaveTranslation),
		CanIgnore:   HasPerm(currentUser(r), PermIgnoreCheck),
	})
}

func (h *Handler) saveTranslation(w http.ResponseWriter, r *http.Request, translation *model.Translation) {
	user := currentUser(r)
	kind := r.PostFormValue("type")
	if kind == "" {
		kind = store.UnitsAll
	}
	search := r.PostFormValue("q")
	pos := atoiDefault(r.PostFormValue("pos"), -1)

	// Re-show the same unit when saving was not possible.
	fail := func() {
		http.Redirect(w, r, translateURL(translation, kind, pos, store.DirStay, search), http.StatusFound)
	}

	checksum := r.PostFormValue("checksum")
	switch {
	case user == nil:
		AddFlash(w, r, "error", "You need to log in to be able to save translations!")
		fail()
		return
	case !HasPerm(user, PermSaveTranslation):
		AddFlash(w, r, "error", "Insufficient privileges for saving translations.")
		fail()
		return
	case checksum == "":
		AddFlash(w, r, "error", "Failed to process form!")
		fail()
		return
	}

	unit, err := h.store.GetUnitByChecksum(r.Context(), translation.ID, checksum)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			AddFlash(w, r, "error", "Failed to process form!")
			fail()
			return
		}
		h.serverError(w, r, err)
		return
	}
	unit.Translation = translation

	forms := make([]string, 0, targetCount(unit, translation.Language))
	for i := 0; i < targetCount(unit, translation.Language); i++ {
		forms = append(forms, r.PostFormValue(fmt.Sprintf("target_%d", i)))
	}
	fuzzy := r.PostFormValue("fuzzy") != ""

	err = h.translations.SaveUnit(r.Context(), unit, strings.Join(forms, model.PluralSeparator), fuzzy, authorName(user))
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	http.Redirect(w, r, translateURL(translation, kind, unit.Position, store.DirForward, search), http.StatusFound)
}

func (h *Handler) DownloadTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	_, data, err := h.translations.ExportFile(r.Context(), translation)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.po",
		translation.Component.Project.Slug, translation.Component.Slug, translation.Language.Code)
	w.Header().Set("Content-Type", "text/x-po; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}

func (h *Handler) UploadTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	user := currentUser(r)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		AddFlash(w, r, "error", "Failed to process form!")
		http.Redirect(w, r, translationURL(translation), http.StatusFound)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		AddFlash(w, r, "error", "Failed to process form!")
		http.Redirect(w, r, translationURL(translation), http.StatusFound)
		return
	}
	defer file.Close()

	overwrite := r.PostFormValue("overwrite") != "" && HasPerm(user, PermOverwriteTranslation)
	count, err := h.translations.Upload(r.Context(), translation, file, overwrite, authorName(user))
	switch {
	case err != nil:
		AddFlash(w, r, "error", fmt.Sprintf("File content merge failed: %s", err))
	case count > 0:
		AddFlash(w, r, "info", "File content successfully merged into translation.")
	default:
		AddFlash(w, r, "info", "There were no new strings in uploaded file.")
	}
	http.Redirect(w, r, translationURL(translation), http.StatusFound)
}

func (h *Handler) AutoTranslation(w http.ResponseWriter, r *http.Request) {
	translation, ok := h.translation(w, r)
	if !ok {
		return
	}
	user := currentUser(r)

	overwrite := r.PostFormValue("overwrite") != ""
	if _, err := h.translations.AutoTranslate(r.Context(), translation, overwrite, authorName(user)); err != nil {
		h.serverError(w, r, err)
		return
	}
	AddFlash(w, r, "info", "Automatic translation completed.")
	http.Redirect(w, r, translationURL(translation), http.StatusFound)
}

// targetCount is the number of target forms a unit needs in the given
// language.
func targetCount(unit *model.Unit, lang *model.Language) int {
	if unit.HasPlural() {
		return lang.Nplurals
	}
	return 1
}

func unitFilter(translation *model.Translation, kind, search string) store.UnitFilter {
	return store.UnitFilter{
		Kind:       kind,
		Search:     search,
		ProjectID:  translation.Component.ProjectID,
		LanguageID: translation.LanguageID,
	}
}

func translateURL(translation *model.Translation, kind string, pos int, dir, search string) string {
	u := translationURL(translation) + "/translate?type=" + url.QueryEscape(kind) + "&pos=" + strconv.Itoa(pos)
	if dir != "" && dir != store.DirForward {
		u += "&dir=" + dir
	}
	if search != "" {
		u += "&q=" + url.QueryEscape(search)
	}
	return u
}

func atoiDefault(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}
