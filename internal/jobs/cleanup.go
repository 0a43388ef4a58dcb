package jobs

import (
	"context"
	"time"

	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
)

// resetKeyMaxAge mirrors the reset link validity in the account service.
const resetKeyMaxAge = 3 * 24 * time.Hour

// NewCleanupTask creates the database cleanup task.
func NewCleanupTask(schedule string, store store.Store) *CleanupTask {
	return &CleanupTask{
		schedule: schedule,
		store:    store,
	}
}

// CleanupTask drops checks whose units are gone and expired password
// reset keys.
type CleanupTask struct {
	schedule string
	store    store.Store
}

func (c *CleanupTask) Schedule() string {
	return c.schedule
}

func (c *CleanupTask) Run() {
	ctx := context.Background()

	removed, err := c.store.DeleteStaleChecks(ctx)
	if err != nil {
		logrus.Errorf("cleanup task: stale checks: %v", err)
	} else if removed > 0 {
		logrus.Infof("cleanup task: removed %d stale checks", removed)
	}

	cleared, err := c.store.ClearExpiredResetKeys(ctx, resetKeyMaxAge)
	if err != nil {
		logrus.Errorf("cleanup task: reset keys: %v", err)
	} else if cleared > 0 {
		logrus.Infof("cleanup task: cleared %d expired reset keys", cleared)
	}
}
