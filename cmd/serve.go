package cmd

import (
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/server"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd())
}

func serveCmd() *cobra.Command {
	var port string

	command := &cobra.Command{
		Use:   "serve",
		Short: "run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			if !cmd.Flag("port").Changed {
				port = config.LoadConfig().HTTPPort
			}
			server.NewServer(port).Start()
		},
	}

	command.Flags().StringVarP(&port, "port", "p", "4040", "http port")

	return command
}
