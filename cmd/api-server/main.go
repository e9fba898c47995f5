package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"

	"github.com/protomem/timeclock/internal/attendance"
	"github.com/protomem/timeclock/internal/database"
	"github.com/protomem/timeclock/internal/env"
	"github.com/protomem/timeclock/internal/localday"
	"github.com/protomem/timeclock/internal/memstore"
	"github.com/protomem/timeclock/internal/version"
)

const (
	_storePostgres = "postgres"
	_storeMemory   = "memory"
)

var (
	_cfgFile     = flag.String("cfg", "", "path to config file")
	_showVersion = flag.Bool("version", false, "display version and exit")
)

func main() {
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	err := run(logger)
	if err != nil {
		trace := string(debug.Stack())
		logger.Error(err.Error(), "trace", trace)
		os.Exit(1)
	}
}

type config struct {
	httpHost string
	httpPort int
	store    string
	db       struct {
		dsn         string
		automigrate bool
	}
	timezone      string
	adminCode     string
	seedEmployees bool
}

type application struct {
	config  config
	logger  *slog.Logger
	service *attendance.Service
	wg      sync.WaitGroup
}

func loadConfig() (config, error) {
	var cfg config

	if *_cfgFile != "" {
		err := env.Load(*_cfgFile)
		if err != nil {
			return cfg, err
		}
	}

	cfg.httpHost = env.GetString("HTTP_HOST", "localhost")
	cfg.httpPort = env.GetInt("HTTP_PORT", 8080)
	cfg.store = env.GetString("STORE_DRIVER", _storePostgres)
	cfg.db.dsn = env.GetString("DB_DSN", "postgres:postgres@localhost:5432/postgres")
	cfg.db.automigrate = env.GetBool("DB_AUTOMIGRATE", true)
	cfg.timezone = env.GetString("TIMEZONE", localday.DefaultZone)
	cfg.adminCode = env.GetString("ADMIN_CODE", "0123")
	cfg.seedEmployees = env.GetBool("SEED_EMPLOYEES", true)

	return cfg, nil
}

func run(logger *slog.Logger) error {
	if *_showVersion {
		fmt.Printf("version: %s\n", version.Get())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resolver, err := localday.New(cfg.timezone)
	if err != nil {
		return err
	}

	var (
		employees attendance.EmployeeRepository
		events    attendance.EventRepository
	)

	switch cfg.store {
	case _storePostgres:
		db, err := database.New(logger, cfg.db.dsn, cfg.db.automigrate)
		if err != nil {
			return err
		}
		defer db.Close()

		employees = database.NewEmployeeDAO(logger, db)
		events = database.NewEventDAO(logger, db)
	case _storeMemory:
		store := memstore.New()
		employees, events = store, store
	default:
		return fmt.Errorf("unknown store driver %q", cfg.store)
	}

	service := attendance.NewService(logger, employees, events, resolver)

	if cfg.seedEmployees {
		if _, err := service.SeedSampleEmployees(context.Background()); err != nil {
			return err
		}
	}

	app := &application{
		config:  cfg,
		logger:  logger,
		service: service,
	}

	logger.Info("timeclock configured",
		"version", version.Get(), "store", cfg.store, "timezone", cfg.timezone)

	return app.serveHTTP()
}
