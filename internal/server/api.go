package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/sirupsen/logrus"
)

// hookUpdate runs a repository update in the background, the hook response
// does not wait for it.
func (h *Handler) hookUpdate(component *model.Component) {
	go func() {
		if err := h.repos.UpdateComponent(context.Background(), component); err != nil {
			logrus.Errorf("hook update failed for %s: %v", component.FullSlug(), err)
		}
	}()
}

func (h *Handler) UpdateProjectHook(w http.ResponseWriter, r *http.Request) {
	if !h.cnf.EnableHooks {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	project, ok := h.project(w, r)
	if !ok {
		return
	}
	components, err := h.store.ListComponents(r.Context(), project.ID)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	for _, component := range components {
		h.hookUpdate(component)
	}
	w.Write([]byte("update triggered"))
}

func (h *Handler) UpdateComponentHook(w http.ResponseWriter, r *http.Request) {
	if !h.cnf.EnableHooks {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	h.hookUpdate(component)
	w.Write([]byte("update triggered"))
}

type githubEvent struct {
	Ref        string `json:"ref"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Name string `json:"name"`
		} `json:"owner"`
	} `json:"repository"`
}

// githubRepoURLs lists the clone URL spellings a component may be configured
// with for a github repository.
func githubRepoURLs(owner, name string) []string {
	return []string{
		fmt.Sprintf("git://github.com/%s/%s.git", owner, name),
		fmt.Sprintf("https://github.com/%s/%s.git", owner, name),
		fmt.Sprintf("https://github.com/%s/%s", owner, name),
		fmt.Sprintf("git@github.com:%s/%s.git", owner, name),
		fmt.Sprintf("ssh://git@github.com/%s/%s.git", owner, name),
	}
}

// GitHubHook handles github push notifications, the payload arrives either
// form encoded under payload or as a raw JSON body.
func (h *Handler) GitHubHook(w http.ResponseWriter, r *http.Request) {
	if !h.cnf.EnableHooks {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	payload := []byte(r.PostFormValue("payload"))
	if len(payload) == 0 {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			h.serverError(w, r, err)
			return
		}
		payload = body
	}

	var event githubEvent
	if err := json.Unmarshal(payload, &event); err != nil ||
		event.Repository.Owner.Name == "" || event.Repository.Name == "" {
		http.Error(w, "could not parse json!", http.StatusBadRequest)
		return
	}
	branch := strings.TrimPrefix(event.Ref, "refs/heads/")

	urls := mapset.NewSet(githubRepoURLs(event.Repository.Owner.Name, event.Repository.Name)...)
	components, err := h.store.ListAllComponents(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	triggered := mapset.NewSet[uint]()
	for _, component := range components {
		if !urls.Contains(component.RepoURL) {
			continue
		}
		if branch != "" && component.Branch != branch {
			continue
		}
		if !triggered.Add(component.ID) {
			continue
		}
		logrus.Infof("github hook for %s, updating %s", component.RepoURL, component.FullSlug())
		h.hookUpdate(component)
	}

	w.Write([]byte("update triggered"))
}

func (h *Handler) ExportStats(w http.ResponseWriter, r *http.Request) {
	component, ok := h.component(w, r)
	if !ok {
		return
	}
	rows, err := h.stats.ComponentStats(r.Context(), component)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	payload, err := json.MarshalIndent(rows, "", "    ")
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(payload)
}
