package server

import (
	"net/http"

	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
)

type adminPage struct {
	basePage
	Totals *store.Totals
}

func (h *Handler) AdminIndex(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.Totals(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "admin/index.html", adminPage{
		basePage: h.base(w, r, "Administration"),
		Totals:   totals,
	})
}

type reportRow struct {
	Component *model.Component
	State     *service.RepoState
	Error     string
}

type reportPage struct {
	basePage
	Rows []reportRow
}

// AdminReport lists the repository state of every component. A broken
// repository shows its error in place of the state instead of failing the
// whole page.
func (h *Handler) AdminReport(w http.ResponseWriter, r *http.Request) {
	components, err := h.store.ListAllComponents(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	rows := make([]reportRow, 0, len(components))
	for _, component := range components {
		row := reportRow{Component: component}
		state, err := h.repos.State(r.Context(), component)
		if err != nil {
			row.Error = err.Error()
		} else {
			row.State = state
		}
		rows = append(rows, row)
	}

	h.render.HTML(w, http.StatusOK, "admin/report.html", reportPage{
		basePage: h.base(w, r, "Status"),
		Rows:     rows,
	})
}
