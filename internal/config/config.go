// Package config loads runtime settings from an optional weblate.yaml file
// and WEBLATE_* environment variables, and opens the database connection.
package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds every runtime setting of the platform.
type Config struct {
	// SiteURL is the public base URL, without trailing slash. It ends up in
	// exported file headers and in the links of outgoing mails.
	SiteURL string `mapstructure:"site_url"`
	// SiteTitle is shown in the page header and in mail subjects.
	SiteTitle string `mapstructure:"site_title"`
	// DataDir is where component repositories are cloned.
	DataDir string `mapstructure:"data_dir"`
	// AdminMail receives contact form messages.
	AdminMail string `mapstructure:"admin_mail"`

	HTTPPort string `mapstructure:"http_port"`

	// SessionSecret signs the session cookies. A random secret is generated
	// at startup when empty, which invalidates sessions on restart.
	SessionSecret string `mapstructure:"session_secret"`

	RegistrationOpen bool `mapstructure:"registration_open"`
	EnableHooks      bool `mapstructure:"enable_hooks"`

	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	SMTP      SMTPConfig      `mapstructure:"smtp"`
	Committer CommitterConfig `mapstructure:"committer"`
	Jobs      JobsConfig      `mapstructure:"jobs"`
}

type DatabaseConfig struct {
	// Driver is sqlite or postgres.
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// RedisConfig enables the redis cache when Addr is set, otherwise the server
// falls back to the in-process cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
}

// KafkaConfig enables the change-event producer when Brokers is set.
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// SMTPConfig enables outgoing mail when Host is set, otherwise mails are
// written to the log.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// CommitterConfig is the git identity used for commits made by the platform.
type CommitterConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

// JobsConfig holds the cron specs for the background tasks. An empty spec
// disables the task.
type JobsConfig struct {
	UpdateCron  string `mapstructure:"update_cron"`
	CleanupCron string `mapstructure:"cleanup_cron"`
}

// LoadConfig reads weblate.yaml when present and applies WEBLATE_* environment
// overrides. Nested keys map to underscored variables, database.dsn becomes
// WEBLATE_DATABASE_DSN.
func LoadConfig() *Config {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("WEBLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("weblate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logrus.Debug("no config file found, using defaults and environment")
		} else {
			logrus.Fatalf("error reading config file: %v", err)
		}
	} else {
		logrus.Infof("using config file: %s", v.ConfigFileUsed())
	}

	cnf := &Config{}
	if err := v.Unmarshal(cnf); err != nil {
		logrus.Fatalf("error parsing config: %v", err)
	}

	return cnf
}

// GetDb opens the configured database connection.
func GetDb(cnf *Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cnf.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cnf.Database.DSN)
	default:
		dialector = sqlite.Open(cnf.Database.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	return db
}

// Every key needs a default so environment overrides survive Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("site_url", "http://localhost:4040")
	v.SetDefault("site_title", "Weblate")
	v.SetDefault("data_dir", "./repos")
	v.SetDefault("admin_mail", "")
	v.SetDefault("http_port", "4040")
	v.SetDefault("session_secret", "")
	v.SetDefault("registration_open", true)
	v.SetDefault("enable_hooks", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "weblate.db")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("kafka.brokers", "")
	v.SetDefault("kafka.topic", "translation-changes")
	v.SetDefault("smtp.host", "")
	v.SetDefault("smtp.port", 25)
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "weblate@localhost")
	v.SetDefault("committer.name", "Weblate")
	v.SetDefault("committer.email", "noreply@weblate.org")
	v.SetDefault("jobs.update_cron", "")
	v.SetDefault("jobs.cleanup_cron", "@daily")
}
