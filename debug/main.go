package main

import (
	"os"

	"github.com/madhuracj/weblate/internal/server"
)

func main() {
	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "4040"
	}

	err := server.Start(httpPort)
	if err != nil {
		return
	}
}
