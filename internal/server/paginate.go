package server

import (
	"net/http"
	"strconv"
)

const defaultPageLimit = 25

// Pagination describes one page of a listing. Page numbers start at one and
// an empty listing still has a single page.
type Pagination struct {
	Page  int
	Pages int
	Limit int
	Total int64
}

// NewPagination clamps page into the valid range for total rows. Pages below
// one become the first page, pages past the end become the last one.
func NewPagination(page, limit int, total int64) Pagination {
	if limit < 1 {
		limit = defaultPageLimit
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return Pagination{Page: page, Pages: pages, Limit: limit, Total: total}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Pagination) HasPrev() bool {
	return p.Page > 1
}

func (p Pagination) HasNext() bool {
	return p.Page < p.Pages
}

func (p Pagination) Prev() int {
	return p.Page - 1
}

func (p Pagination) Next() int {
	return p.Page + 1
}

// pageParam reads the page query parameter, anything unparseable is the
// first page.
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// limitParam reads the limit query parameter with a fallback.
func limitParam(r *http.Request, fallback int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
