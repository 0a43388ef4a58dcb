package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cnf := LoadConfig()

	assert.Equal(t, "sqlite", cnf.Database.Driver)
	assert.Equal(t, "weblate.db", cnf.Database.DSN)
	assert.Equal(t, "4040", cnf.HTTPPort)
	assert.Equal(t, "http://localhost:4040", cnf.SiteURL)
	assert.True(t, cnf.RegistrationOpen)
	assert.True(t, cnf.EnableHooks)
	assert.Equal(t, "Weblate", cnf.Committer.Name)
	assert.Equal(t, "@daily", cnf.Jobs.CleanupCron)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("WEBLATE_DATABASE_DRIVER", "postgres")
	t.Setenv("WEBLATE_DATABASE_DSN", "host=db user=weblate")
	t.Setenv("WEBLATE_SITE_URL", "https://translate.example.com")
	t.Setenv("WEBLATE_ENABLE_HOOKS", "false")
	t.Setenv("WEBLATE_SMTP_PORT", "587")

	cnf := LoadConfig()

	assert.Equal(t, "postgres", cnf.Database.Driver)
	assert.Equal(t, "host=db user=weblate", cnf.Database.DSN)
	assert.Equal(t, "https://translate.example.com", cnf.SiteURL)
	assert.False(t, cnf.EnableHooks)
	assert.Equal(t, 587, cnf.SMTP.Port)
}
