package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/madhuracj/weblate"
	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(triggerCmd())
	rootCmd.AddCommand(getStringCmd())
}

// statsCmd prints per language statistics of a component, fetched from a
// running server over the exports api.
func statsCmd() *cobra.Command {
	var project string
	var component string

	var required = []string{"project", "component"}

	command := &cobra.Command{
		Use:     "stats",
		Short:   "show translation statistics of a component",
		Example: "weblate stats -P hello -c master",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := weblate.NewClient(serverHost())
			rows, err := client.Stats(context.Background(), project, component)
			if err != nil {
				logrus.Error(err)
				return
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Code", "Name", "Translated", "Fuzzy", "Total", "Last Author"})
			for _, row := range rows {
				table.Append([]string{
					row.Code,
					row.Name,
					fmt.Sprintf("%d (%.1f%%)", row.Translated, row.TranslatedPercent),
					strconv.Itoa(row.Fuzzy),
					strconv.Itoa(row.Total),
					row.LastAuthor,
				})
			}
			table.Render()
		},
	}

	command.Flags().StringVarP(&project, "project", "P", "", "project slug (required)")
	command.Flags().StringVarP(&component, "component", "c", "", "component slug (required)")
	bindContextFlags(command)

	command.Flags().SortFlags = false

	return command
}

// triggerCmd pulls upstream changes into a project or a single component,
// same as the update hook.
func triggerCmd() *cobra.Command {
	var project string
	var component string

	var required = []string{"project"}

	command := &cobra.Command{
		Use:     "trigger",
		Short:   "trigger repository update of a project or component",
		Example: "weblate trigger -P hello -c master",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := weblate.NewClient(serverHost())
			if err := client.TriggerUpdate(context.Background(), project, component); err != nil {
				logrus.Error(err)
				return
			}

			color.Green("update triggered")
		},
	}

	command.Flags().StringVarP(&project, "project", "P", "", "project slug (required)")
	command.Flags().StringVarP(&component, "component", "c", "", "component slug, updates the whole project when left out")
	bindContextFlags(command)

	command.Flags().SortFlags = false

	return command
}

func getStringCmd() *cobra.Command {
	var checksum string

	var required = []string{"checksum"}

	command := &cobra.Command{
		Use:     "get",
		Short:   "get a source string by checksum",
		Example: "weblate get -s 6ba7b8109dad11d180b400c04fd430c8",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			client := weblate.NewClient(serverHost())
			text, err := client.GetString(context.Background(), checksum)
			if err != nil {
				logrus.Error(err)
				return
			}
			if text == "" {
				logrus.Infof("no unit found for checksum: %s", checksum)
				return
			}

			printField("Source", text)
		},
	}

	command.Flags().StringVarP(&checksum, "checksum", "s", "", "unit checksum (required)")
	bindContextFlags(command)

	command.Flags().SortFlags = false

	return command
}

func printField(label, value string) {
	color.Set(color.FgCyan)
	fmt.Print(label)
	color.Unset()
	fmt.Printf(": %s\n", value)
}

// checkMissingFlags checks if the required flags are set and returns ok if they are set
func checkMissingFlags(cmd *cobra.Command, flags []string) bool {
	var missingFlags []string
	var providedFlags []string
	for _, required := range flags {
		if cmd.Flag(required).Changed == false {
			missingFlags = append(missingFlags, required)
		} else {
			value := cmd.Flag(required).Value.String()
			providedFlags = append(providedFlags, fmt.Sprintf("--%s=%s", required, value))
		}
	}

	if len(missingFlags) > 0 {
		var msg string
		for _, f := range missingFlags {
			msg += fmt.Sprintf("--%s ", f)
		}

		color.Red("missing: %s\n", msg)
		if len(providedFlags) > 0 {
			provided := strings.Join(providedFlags, " ")
			color.Green("provide: %s\n", provided)
		}

		cmd.Println("")

		cmd.Usage()

		return true
	}

	return false
}
