package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "user commands",
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})
	userCmd.AddCommand(createUserCmd())
	userCmd.AddCommand(listUsersCmd())
}

// createUserCmd creates an already active account, bypassing the mail
// activation flow. This is how the first admin gets made.
func createUserCmd() *cobra.Command {
	var username string
	var email string
	var password string
	var fullName string
	var role string

	var required = []string{"username", "email", "password"}

	command := &cobra.Command{
		Use:     "create",
		Short:   "create an active user",
		Example: "weblate user create -u admin -e admin@example.com -p secret -r admin",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			if role != model.RoleUser && role != model.RoleManager && role != model.RoleAdmin {
				color.Red("invalid role: %s\n", role)
				return
			}

			db := store.NewGormStore(config.GetDb(config.LoadConfig()))

			user := &model.User{
				Username: username,
				Email:    email,
				FullName: fullName,
				Role:     role,
				IsActive: true,
			}
			if err := user.SetPassword(password); err != nil {
				logrus.Error(err)
				return
			}
			if err := db.CreateUser(context.Background(), user); err != nil {
				logrus.Error(err)
				return
			}

			logrus.Infof("user created with id: %d", user.ID)
		},
	}

	command.Flags().StringVarP(&username, "username", "u", "", "username (required)")
	command.Flags().StringVarP(&email, "email", "e", "", "email (required)")
	command.Flags().StringVarP(&password, "password", "p", "", "password (required)")
	command.Flags().StringVarP(&fullName, "name", "n", "", "full name")
	command.Flags().StringVarP(&role, "role", "r", model.RoleUser, "role: user, manager or admin")

	command.Flags().SortFlags = false

	return command
}

func listUsersCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "list",
		Short: "list users",
		Run: func(cmd *cobra.Command, args []string) {
			db := store.NewGormStore(config.GetDb(config.LoadConfig()))

			users, err := db.ListUsers(context.Background())
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"ID", "Username", "Email", "Role", "Active"})
			for _, user := range users {
				table.Append([]string{
					strconv.Itoa(int(user.ID)),
					user.Username,
					user.Email,
					user.Role,
					strconv.FormatBool(user.IsActive),
				})
			}
			table.Render()
		},
	}

	return command
}
