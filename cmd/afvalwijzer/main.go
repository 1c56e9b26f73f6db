package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/afvalwijzer/internal/afvalwijzer/parser"
	"github.com/afvalwijzer/internal/afvalwijzer/schedule"
	"github.com/afvalwijzer/internal/afvalwijzer/scraper"
	"github.com/afvalwijzer/internal/afvalwijzer/sensor"
	"github.com/afvalwijzer/internal/common/config"
	"github.com/afvalwijzer/internal/common/db"
	"github.com/afvalwijzer/internal/common/logger"
	"github.com/afvalwijzer/internal/common/maintenance"
)

func main() {
	once := flag.Bool("once", false, "update all sensors once, print their states as JSON and exit")
	flag.Parse()

	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("Failed to load .env file: " + err.Error())
	}

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	loggerConfig := logger.DefaultLoggerConfig()
	loggerConfig.Level = logger.ParseLogLevel(cfg.Logging.Level)
	loggerConfig.FilePath = cfg.Logging.FilePath
	loggerConfig.DiscordURL = cfg.Logging.DiscordURL
	loggerConfig.TimeFieldFormat = "2006-01-02T15:04:05Z07:00"
	log := logger.NewFromConfig(loggerConfig)

	a := cfg.Afvalwijzer
	log.Info("Afvalwijzer service starting",
		"version", "1.0.3",
		"postcode", a.Postcode,
		"street_number", a.StreetNumber,
		"resources", a.Resources,
		"boundary", a.Boundary,
		"min_refresh_interval", a.MinRefreshInterval,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var publisher *db.StatePublisher
	var database *db.DB
	if cfg.Database.Enabled {
		database, err = db.New(cfg.Database.ConnectionString(), log)
		if err != nil {
			log.Fatal("Failed to connect to database", "error", err)
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare database schema", "error", err)
		}
		publisher = db.NewStatePublisher(database)
	}

	refresher := scraper.NewRefresher(
		scraper.Config{
			Postcode:     a.Postcode,
			StreetNumber: a.StreetNumber,
			MinInterval:  a.MinRefreshInterval,
		},
		scraper.NewHTTPPageFetcher(a.BaseURL, log),
		parser.New(log),
		log,
	)
	if publisher != nil {
		refresher.WithRecorder(publisher)
	}

	resolver := schedule.NewResolver(a.BoundaryRule())
	formatter := schedule.NewFormatter(a.Formatting())
	registry := sensor.NewRegistry()

	var sensors []*sensor.Sensor
	for _, key := range a.Resources {
		category, known := registry.Lookup(key)
		if !known {
			log.Warn("Unknown waste category, using generated defaults",
				"resource", key,
				"label", category.Label)
		}
		sensors = append(sensors, sensor.New(category, refresher, resolver, formatter, log))
	}

	updater := sensor.NewUpdater(a.UpdateSchedule, sensors, log)
	if publisher != nil {
		updater.WithPublisher(publisher)
	}

	if *once {
		states := updater.UpdateAll(ctx)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(states); err != nil {
			log.Fatal("Failed to write sensor states", "error", err)
		}
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := updater.Start(ctx); err != nil {
			log.Error("Sensor updater error", "error", err)
		}
	}()

	if database != nil {
		cleanup := maintenance.NewCleanupScheduler(database.DB(), log, maintenance.SchedulerConfig{
			Interval:     cfg.Database.CleanupInterval,
			Retention:    cfg.Database.Retention,
			InitialDelay: time.Minute,
		})
		if err := cleanup.Start(ctx); err != nil {
			log.Error("Failed to start cleanup scheduler", "error", err)
		}
		defer cleanup.Stop()
	}

	<-sigChan
	log.Info("Shutdown signal received")

	cancel()
	wg.Wait()

	log.Info("Afvalwijzer service stopped")
}
