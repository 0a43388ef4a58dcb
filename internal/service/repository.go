package service

import (
	"context"
	"fmt"
	"time"

	"github.com/madhuracj/weblate/internal/cache"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/madhuracj/weblate/internal/vcs"
	"github.com/sirupsen/logrus"
)

// statusTTL is how long a repository status stays cached for the js/git
// endpoints.
const statusTTL = 30 * time.Second

// ComponentLoader refreshes the database from the files of a component
// working copy.
type ComponentLoader interface {
	LoadComponent(ctx context.Context, component *model.Component) error
}

// NewRepositoryService creates a new RepositoryService.
func NewRepositoryService(store store.Store, loader ComponentLoader, statusCache cache.Cache, events queue.Events, dataDir, committerName, committerEmail string) *RepositoryService {
	return &RepositoryService{
		store:          store,
		loader:         loader,
		cache:          statusCache,
		events:         events,
		dataDir:        dataDir,
		committerName:  committerName,
		committerEmail: committerEmail,
	}
}

// RepositoryService runs the git operations behind the commit, update and
// push actions.
type RepositoryService struct {
	store          store.Store
	loader         ComponentLoader
	cache          cache.Cache
	events         queue.Events
	dataDir        string
	committerName  string
	committerEmail string
}

// RepoState describes a component working copy for the admin report.
type RepoState struct {
	Revision    string
	NeedsCommit bool
	NeedsPush   bool
}

func (r RepositoryService) repo(ctx context.Context, component *model.Component) (*vcs.Repo, error) {
	repo, err := vcs.CloneOrOpen(ctx, component.RepoURL, component.Branch, component.RepoPath(r.dataDir))
	if err != nil {
		return nil, err
	}
	repo.CommitterName = r.committerName
	repo.CommitterEmail = r.committerEmail

	return repo, nil
}

// CommitTranslation commits pending changes of one translation file. It
// reports whether a commit was made.
func (r RepositoryService) CommitTranslation(ctx context.Context, translation *model.Translation) (bool, error) {
	repo, err := r.repo(ctx, translation.Component)
	if err != nil {
		return false, err
	}
	done, err := r.commitFile(ctx, repo, translation)
	if err != nil {
		return false, err
	}
	if done {
		r.dropStatus(ctx, translation.Component)
	}

	return done, nil
}

// CommitComponent commits pending changes of all translations of a
// component, one commit per file. It returns the number of commits made.
func (r RepositoryService) CommitComponent(ctx context.Context, component *model.Component) (int, error) {
	repo, err := r.repo(ctx, component)
	if err != nil {
		return 0, err
	}
	translations, err := r.store.ListTranslations(ctx, component.ID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, translation := range translations {
		done, err := r.commitFile(ctx, repo, translation)
		if err != nil {
			return count, err
		}
		if done {
			count++
		}
	}
	if count > 0 {
		r.dropStatus(ctx, component)
	}

	return count, nil
}

// CommitProject commits pending changes across all components of a project.
func (r RepositoryService) CommitProject(ctx context.Context, project *model.Project) (int, error) {
	components, err := r.store.ListComponents(ctx, project.ID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, component := range components {
		done, err := r.CommitComponent(ctx, component)
		if err != nil {
			return count, err
		}
		count += done
	}

	return count, nil
}

func (r RepositoryService) commitFile(ctx context.Context, repo *vcs.Repo, translation *model.Translation) (bool, error) {
	needs, err := repo.NeedsCommit(ctx, translation.Filename)
	if err != nil {
		return false, err
	}
	if !needs {
		return false, nil
	}

	message := commitMessage(translation)
	if err := repo.Commit(ctx, message, translation.LastAuthor, translation.Filename); err != nil {
		return false, err
	}

	logrus.WithFields(logrus.Fields{
		"file":   translation.Filename,
		"author": translation.LastAuthor,
	}).Info("committed translation")

	return true, nil
}

// commitMessage renders the message used for commits made on behalf of
// translators.
func commitMessage(translation *model.Translation) string {
	language := translation.Filename
	if translation.Language != nil {
		language = translation.Language.Name
	}

	return fmt.Sprintf(
		"Translated using Weblate (%s)\n\nCurrently translated at %.1f%% (%d of %d strings)",
		language, translation.TranslatedPercent(), translation.Translated, translation.Total)
}

// UpdateComponent commits pending changes, pulls the upstream branch and
// reloads the translations from the merged files.
func (r RepositoryService) UpdateComponent(ctx context.Context, component *model.Component) error {
	if _, err := r.CommitComponent(ctx, component); err != nil {
		return err
	}
	repo, err := r.repo(ctx, component)
	if err != nil {
		return err
	}
	if err := repo.Update(ctx); err != nil {
		return err
	}
	if err := r.loader.LoadComponent(ctx, component); err != nil {
		return err
	}
	r.dropStatus(ctx, component)
	r.publish(ctx, queue.EventRepositoryUpdated, component)

	return nil
}

// UpdateProject updates every component of a project.
func (r RepositoryService) UpdateProject(ctx context.Context, project *model.Project) error {
	components, err := r.store.ListComponents(ctx, project.ID)
	if err != nil {
		return err
	}
	for _, component := range components {
		if err := r.UpdateComponent(ctx, component); err != nil {
			return err
		}
	}

	return nil
}

// PushComponent commits pending changes and pushes the branch upstream.
func (r RepositoryService) PushComponent(ctx context.Context, component *model.Component) error {
	if _, err := r.CommitComponent(ctx, component); err != nil {
		return err
	}
	repo, err := r.repo(ctx, component)
	if err != nil {
		return err
	}
	needs, err := repo.NeedsPush(ctx)
	if err != nil {
		return err
	}
	if !needs {
		return nil
	}
	if err := repo.Push(ctx); err != nil {
		return err
	}
	r.dropStatus(ctx, component)
	r.publish(ctx, queue.EventRepositoryPushed, component)

	return nil
}

// PushProject pushes every component of a project.
func (r RepositoryService) PushProject(ctx context.Context, project *model.Project) error {
	components, err := r.store.ListComponents(ctx, project.ID)
	if err != nil {
		return err
	}
	for _, component := range components {
		if err := r.PushComponent(ctx, component); err != nil {
			return err
		}
	}

	return nil
}

// Status returns the git status output of a component working copy. The
// output is cached briefly because the js/git widgets poll it.
func (r RepositoryService) Status(ctx context.Context, component *model.Component) (string, error) {
	key := statusKey(component)
	if cached, err := r.cache.Get(ctx, key); err == nil {
		return string(cached), nil
	}

	repo, err := r.repo(ctx, component)
	if err != nil {
		return "", err
	}
	status, err := repo.Status(ctx)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, key, []byte(status), statusTTL); err != nil {
		logrus.WithError(err).Debug("failed to cache repository status")
	}

	return status, nil
}

// State inspects a component working copy for the admin report.
func (r RepositoryService) State(ctx context.Context, component *model.Component) (*RepoState, error) {
	repo, err := r.repo(ctx, component)
	if err != nil {
		return nil, err
	}

	state := &RepoState{}
	if state.Revision, err = repo.LastRevision(ctx); err != nil {
		return nil, err
	}
	if state.NeedsCommit, err = repo.NeedsCommit(ctx); err != nil {
		return nil, err
	}
	if state.NeedsPush, err = repo.NeedsPush(ctx); err != nil {
		return nil, err
	}

	return state, nil
}

func (r RepositoryService) dropStatus(ctx context.Context, component *model.Component) {
	if err := r.cache.Delete(ctx, statusKey(component)); err != nil {
		logrus.WithError(err).Debug("failed to drop repository status")
	}
}

func statusKey(component *model.Component) string {
	return "git-status:" + component.FullSlug()
}

func (r RepositoryService) publish(ctx context.Context, kind string, component *model.Component) {
	event := &queue.Event{
		Kind:      kind,
		Component: component.Slug,
		Timestamp: time.Now(),
	}
	if component.Project != nil {
		event.Project = component.Project.Slug
	}
	if err := r.events.Publish(ctx, event); err != nil {
		logrus.WithError(err).Warn("failed to publish repository event")
	}
}
