package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/gobuffalo/packr"
	_ "github.com/joho/godotenv/autoload"
	"github.com/madhuracj/weblate/internal/cache"
	"github.com/madhuracj/weblate/internal/compress"
	"github.com/madhuracj/weblate/internal/config"
	"github.com/madhuracj/weblate/internal/jobs"
	"github.com/madhuracj/weblate/internal/mail"
	"github.com/madhuracj/weblate/internal/model"
	"github.com/madhuracj/weblate/internal/queue"
	"github.com/madhuracj/weblate/internal/service"
	"github.com/madhuracj/weblate/internal/store"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Server represents the server
type Server struct {
	httpPort string
}

// NewServer creates a new server
func NewServer(httpPort string) *Server {
	return &Server{
		httpPort: httpPort,
	}
}

// Start starts the server
func (s *Server) Start() {
	if err := Start(s.httpPort); err != nil {
		logrus.Fatalf("error starting server: %v", err)
	}
}

// Start assembles the services and runs the http server until a signal
// arrives.
func Start(httpPort string) error {
	httpPort = ":" + httpPort

	cnf := config.LoadConfig()
	rdb := config.GetDb(cnf)

	rl, err := net.Listen("tcp", httpPort)
	if err != nil {
		return err
	}

	db := store.NewGormStore(rdb)
	if err := db.Migrate(); err != nil {
		return err
	}
	if err := model.SeedLanguages(rdb); err != nil {
		return err
	}

	// repository status and stats exports live in redis when configured,
	// otherwise in process
	var statusCache cache.Cache
	if cnf.Redis.Addr != "" {
		statusCache, err = cache.NewRedisCache(cnf.Redis.Addr, cnf.Redis.Password, compress.NewBrotli())
		if err != nil {
			return err
		}
	} else {
		statusCache = cache.NewMemoryCache()
	}

	var events queue.Events
	if cnf.Kafka.Brokers != "" {
		events, err = queue.NewKafka(cnf.Kafka.Brokers, cnf.Kafka.Topic)
		if err != nil {
			return err
		}
	} else {
		events = queue.NewNoop()
	}
	defer events.Close()

	var mailer mail.Mailer
	if cnf.SMTP.Host != "" {
		mailer = mail.NewSMTP(cnf.SMTP.Host, cnf.SMTP.Port, cnf.SMTP.Username, cnf.SMTP.Password, cnf.SMTP.From)
	} else {
		mailer = mail.NewLog()
	}

	accounts := service.NewAccountService(db, mailer, cnf.SiteURL, cnf.AdminMail)
	glossary := service.NewGlossaryService(db, events, cnf.SiteURL)
	translations := service.NewTranslationService(db, events, cnf.DataDir, cnf.Committer.Name, cnf.Committer.Email)
	checkService := service.NewCheckService(db)
	repos := service.NewRepositoryService(db, translations, statusCache, events, cnf.DataDir, cnf.Committer.Name, cnf.Committer.Email)
	stats := service.NewStatsService(db, statusCache)

	templates := packr.NewBox("../../templates")
	media := packr.NewBox("../../media")

	render, err := NewRenderer(templates)
	if err != nil {
		return err
	}

	sessions := NewSessionManager(cnf.SessionSecret)
	handler := NewHandler(db, render, sessions, media,
		accounts, glossary, translations, checkService, repos, stats, cnf)

	cronJobs := []jobs.CronJob{jobs.NewCleanupTask(cnf.Jobs.CleanupCron, db)}
	if cnf.Jobs.UpdateCron != "" {
		cronJobs = append(cronJobs, jobs.NewUpdateTask(cnf.Jobs.UpdateCron, db, repos))
	}
	executor := jobs.NewTaskExecutor(nil, cronJobs)
	executor.Run()
	defer executor.Stop()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // All origins are allowed
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PUT"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	restServer := &http.Server{
		Addr:    httpPort,
		Handler: c.Handler(NewRouter(handler)),
	}

	// make sure to wait for the server to stop before exiting
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		logrus.Info("starting http server on: ", httpPort)
		if err := restServer.Serve(rl); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logrus.Errorf("error starting http server: %v", err)
			}
		}
		logrus.Infof("http server stopped")
	}()

	time.Sleep(1 * time.Second)
	logrus.Infof("Press Ctrl+C to stop the server")

	// listen for interrupt signal to gracefully shut down the server
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, unix.SIGTERM, unix.SIGINT, unix.SIGTSTP)
	<-sigs
	// clean Ctrl+C output
	fmt.Println()

	if err := restServer.Shutdown(context.Background()); err != nil {
		logrus.Errorf("error stopping http server: %v", err)
	}

	wg.Wait()

	return nil
}
