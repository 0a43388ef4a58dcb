package cmd

import (
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
	dbCmd.AddCommand(Seed())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(config.LoadConfig())
			if err := model.Migrate(db); err != nil {
				panic(err)
			}
			if err := model.SeedLanguages(db); err != nil {
				panic(err)
			}
		},
	}

	return command
}

// Seed refreshes the language table without touching the schema, for
// picking up languages added in a newer release.
func Seed() *cobra.Command {
	command := &cobra.Command{
		Use:   "seed",
		Short: "Seed the language table",
		Run: func(cmd *cobra.Command, args []string) {
			db := config.GetDb(config.LoadConfig())
			if err := model.SeedLanguages(db); err != nil {
				panic(err)
			}
		},
	}

	return command
}
