package cmd

import (
	"context"
	"errors"

	"github.com/madhuracj/weblate/internal/cache"
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func init() {
	rootCmd.AddCommand(importCmd())
}

// importCmd registers a component, clones its repository and loads the
// translation files it finds under the file mask. The project is created
// on the fly when the slug is unknown.
func importCmd() *cobra.Command {
	var projectSlug string
	var name string
	var slug string
	var repo string
	var branch string
	var mask string

	var required = []string{"project", "slug", "repo", "mask"}

	command := &cobra.Command{
		Use:     "import",
		Short:   "import a component from a git repository",
		Example: "weblate import --project hello --slug master --repo git://github.com/nijel/hello.git --mask 'po/*.po'",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}
			if name == "" {
				name = slug
			}

			cnf := config.LoadConfig()
			db := store.NewGormStore(config.GetDb(cnf))
			ctx := context.Background()

			project, err := db.GetProjectBySlug(ctx, projectSlug)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				project = &model.Project{Name: projectSlug, Slug: projectSlug}
				if err := db.CreateProject(ctx, project); err != nil {
					logrus.Error(err)
					return
				}
				logrus.Infof("created project: %s", project.Slug)
			} else if err != nil {
				logrus.Error(err)
				return
			}

			component := &model.Component{
				Name:      name,
				Slug:      slug,
				ProjectID: project.ID,
				Project:   project,
				RepoURL:   repo,
				Branch:    branch,
				Filemask:  mask,
			}
			if err := db.CreateComponent(ctx, component); err != nil {
				logrus.Error(err)
				return
			}

			translations := service.NewTranslationService(db, queue.NewNoop(), cnf.DataDir, cnf.Committer.Name, cnf.Committer.Email)
			repos := service.NewRepositoryService(db, translations, cache.NewMemoryCache(), queue.NewNoop(), cnf.DataDir, cnf.Committer.Name, cnf.Committer.Email)

			if err := repos.UpdateComponent(ctx, component); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("imported component: %s", component.FullSlug())
		},
	}

	command.Flags().StringVarP(&projectSlug, "project", "P", "", "project slug (required)")
	command.Flags().StringVarP(&name, "name", "n", "", "component name, defaults to the slug")
	command.Flags().StringVarP(&slug, "slug", "s", "", "component slug (required)")
	command.Flags().StringVarP(&repo, "repo", "r", "", "repository url (required)")
	command.Flags().StringVarP(&branch, "branch", "b", "master", "branch to translate")
	command.Flags().StringVarP(&mask, "mask", "m", "", "file mask, e.g. po/*.po (required)")

	command.Flags().SortFlags = false

	return command
}
