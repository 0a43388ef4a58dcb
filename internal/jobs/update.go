package jobs

import (
	"context"

	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
)

// NewUpdateTask creates the periodic repository update task.
func NewUpdateTask(schedule string, store store.Store, repos *service.RepositoryService) *UpdateTask {
	return &UpdateTask{
		schedule: schedule,
		store:    store,
		repos:    repos,
	}
}

// UpdateTask pulls every component repository so translations follow
// upstream without anyone clicking update.
type UpdateTask struct {
	schedule string
	store    store.Store
	repos    *service.RepositoryService
}

func (u *UpdateTask) Schedule() string {
	return u.schedule
}

func (u *UpdateTask) Run() {
	ctx := context.Background()

	components, err := u.store.ListAllComponents(ctx)
	if err != nil {
		logrus.Errorf("update task: listing components: %v", err)
		return
	}

	for _, component := range components {
		if err := u.repos.UpdateComponent(ctx, component); err != nil {
			logrus.Errorf("update task: %s: %v", component.FullSlug(), err)
		}
	}
}
