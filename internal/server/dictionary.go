package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/madhuracj/weblate/internal/model"
)

var letters = strings.Split("abcdefghijklmnopqrstuvwxyz", "")

type dictionariesPage struct {
	basePage
	Project *model.Project
	Dicts   []*model.Language
}

func (h *Handler) ShowDictionaries(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	dicts, err := h.glossary.Languages(r.Context(), project)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "dictionaries.html", dictionariesPage{
		basePage: h.base(w, r, "Dictionaries"),
		Project:  project,
		Dicts:    dicts,
	})
}

type dictionaryPage struct {
	basePage
	Project   *model.Project
	Language  *model.Language
	Words     []*model.Word
	Page      Pagination
	Letter    string
	Letters   []string
	CanAdd    bool
	CanChange bool
	CanDelete bool
	CanUpload bool
}

func (h *Handler) ShowDictionary(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	lang, ok := h.language(w, r)
	if !ok {
		return
	}
	user := currentUser(r)

	if r.Method == http.MethodPost {
		if HasPerm(user, PermAddDictionary) {
			source := strings.TrimSpace(r.PostFormValue("source"))
			target := strings.TrimSpace(r.PostFormValue("target"))
			if source == "" || target == "" {
				AddFlash(w, r, "error", "Failed to process form!")
			} else if _, err := h.glossary.AddWord(r.Context(), project, lang, source, target); err != nil {
				h.serverError(w, r, err)
				return
			}
		}
		http.Redirect(w, r, r.URL.RequestURI(), http.StatusFound)
		return
	}

	letter := strings.ToLower(r.URL.Query().Get("letter"))
	limit := limitParam(r, defaultPageLimit)
	page := pageParam(r)

	words, total, err := h.glossary.Words(r.Context(), project, lang, letter, (page-1)*limit, limit)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	pg := NewPagination(page, limit, total)
	if pg.Page != page {
		words, _, err = h.glossary.Words(r.Context(), project, lang, letter, pg.Offset(), limit)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
	}

	h.render.HTML(w, http.StatusOK, "dictionary.html", dictionaryPage{
		basePage:  h.base(w, r, fmt.Sprintf("%s dictionary for %s", project.Name, lang.Name)),
		Project:   project,
		Language:  lang,
		Words:     words,
		Page:      pg,
		Letter:    letter,
		Letters:   letters,
		CanAdd:    HasPerm(user, PermAddDictionary),
		CanChange: HasPerm(user, PermChangeDictionary),
		CanDelete: HasPerm(user, PermDeleteDictionary),
		CanUpload: HasPerm(user, PermUploadDictionary),
	})
}

func (h *Handler) UploadDictionary(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	lang, ok := h.language(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		AddFlash(w, r, "error", "Failed to process form!")
		http.Redirect(w, r, dictionaryURL(project, lang), http.StatusFound)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		AddFlash(w, r, "error", "Failed to process form!")
		http.Redirect(w, r, dictionaryURL(project, lang), http.StatusFound)
		return
	}
	defer file.Close()

	count, err := h.glossary.Upload(r.Context(), project, lang, header.Filename, file, r.PostFormValue("method"))
	switch {
	case err != nil:
		AddFlash(w, r, "error", fmt.Sprintf("File upload has failed: %s", err))
	case count == 0:
		AddFlash(w, r, "info", "No words to import found in file.")
	default:
		AddFlash(w, r, "info", fmt.Sprintf("Imported %d words from file.", count))
	}
	http.Redirect(w, r, dictionaryURL(project, lang), http.StatusFound)
}

func (h *Handler) DeleteDictionary(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	lang, ok := h.language(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(r.PostFormValue("id"), 10, 32)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if err := h.glossary.DeleteWord(r.Context(), project, lang, uint(id)); err != nil {
		h.lookupFailed(w, r, err)
		return
	}
	http.Redirect(w, r, dictionaryURL(project, lang), http.StatusFound)
}

type dictionaryEditPage struct {
	basePage
	Project  *model.Project
	Language *model.Language
	Word     *model.Word
}

func (h *Handler) EditDictionary(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	lang, ok := h.language(w, r)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(r.FormValue("id"), 10, 32)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	word, err := h.glossary.GetWord(r.Context(), project, lang, uint(id))
	if err != nil {
		h.lookupFailed(w, r, err)
		return
	}

	if r.Method == http.MethodPost {
		source := strings.TrimSpace(r.PostFormValue("source"))
		target := strings.TrimSpace(r.PostFormValue("target"))
		if source == "" || target == "" {
			AddFlash(w, r, "error", "Failed to process form!")
		} else {
			if _, err := h.glossary.EditWord(r.Context(), project, lang, word.ID, source, target); err != nil {
				h.serverError(w, r, err)
				return
			}
			http.Redirect(w, r, dictionaryURL(project, lang), http.StatusFound)
			return
		}
	}

	h.render.HTML(w, http.StatusOK, "dictionary-edit.html", dictionaryEditPage{
		basePage: h.base(w, r, "Edit dictionary"),
		Project:  project,
		Language: lang,
		Word:     word,
	})
}

func (h *Handler) DownloadDictionary(w http.ResponseWriter, r *http.Request) {
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	lang, ok := h.language(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, contentType, err := h.glossary.Export(r.Context(), project, lang, r.URL.Query().Get("format"), &buf)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(buf.Bytes())
}

func dictionaryURL(project *model.Project, lang *model.Language) string {
	return "/dictionaries/" + project.Slug + "/" + lang.Code
}
