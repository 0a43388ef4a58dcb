package server

import (
	"os"
	"testing"

	"github.com/madhuracj/weblate/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}
