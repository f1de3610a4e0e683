package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alexanderramin/jobshop/internal/api"
	"github.com/alexanderramin/jobshop/internal/cli"
	"github.com/alexanderramin/jobshop/internal/config"
	"github.com/alexanderramin/jobshop/internal/db"
	"github.com/alexanderramin/jobshop/internal/events"
	"github.com/alexanderramin/jobshop/internal/repository"
	"github.com/alexanderramin/jobshop/internal/service"
	"github.com/alexanderramin/jobshop/internal/tracker"
	"github.com/hashicorp/go-multierror"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const pingTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	cfg, err := config.Load(config.LoadOptions{
		EnvFile:  ".env",
		YAMLFile: os.Getenv("JOBSHOP_CONFIG"),
	})
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		database.Close()
		return err
	}
	defer func() {
		var closeErr *multierror.Error
		if cerr := publisher.Close(); cerr != nil {
			closeErr = multierror.Append(closeErr, fmt.Errorf("closing publisher: %w", cerr))
		}
		if cerr := database.Close(); cerr != nil {
			closeErr = multierror.Append(closeErr, fmt.Errorf("closing database: %w", cerr))
		}
		if err == nil {
			err = closeErr.ErrorOrNil()
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observers := service.MultiObserver{service.NewPrometheusObserver(registry)}
	if cfg.LogUseCases {
		observers = append(observers, service.NewSlogUseCaseObserver(logger))
	}

	// Wire repositories
	jobRepo := repository.NewSQLiteJobRepo(database)
	entryRepo := repository.NewSQLiteTimeLogRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	jobSvc := service.NewJobService(jobRepo, uow, publisher, observers)
	shopSvc := service.NewShopService(repository.NewSQLiteOperatorRepo(database), repository.NewSQLiteMachineRepo(database), observers)

	tr := tracker.New(
		service.NewJobStore(jobRepo, uow, publisher, observers),
		service.NewTimeLogStore(entryRepo, uow, publisher, observers),
		tracker.Options{
			MinRefreshInterval:       cfg.Tracker.MinRefreshInterval,
			MaxBreakMinutes:          cfg.Tracker.MaxBreakMinutes,
			MinClockOutNoteLen:       cfg.Tracker.MinClockOutNoteLen,
			DefaultProductivityScore: cfg.Tracker.DefaultProductivityScore,
			Location:                 loc,
		},
	)

	app := &cli.App{
		Jobs:               jobSvc,
		Shop:               shopSvc,
		Tracker:            tr,
		Operator:           cfg.Operator,
		PollInterval:       cfg.Tracker.PollInterval,
		MinClockOutNoteLen: cfg.Tracker.MinClockOutNoteLen,
		DefaultScore:       cfg.Tracker.DefaultProductivityScore,
		Logger:             logger,
	}

	// Detect interactive terminal so clock-out can prompt for notes.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Serve = func(ctx context.Context) error {
		srv := api.NewServer(api.Config{Addr: cfg.HTTP.Addr}, api.Deps{
			Tracker:  tr,
			Jobs:     jobSvc,
			Shop:     shopSvc,
			Gatherer: registry,
			Logger:   logger,
		})
		return srv.Start(ctx)
	}

	return cli.NewRootCmd(app).Execute()
}

// newPublisher connects to Redis when a URL is configured; otherwise events
// are dropped.
func newPublisher(cfg config.Config, logger *slog.Logger) (events.Publisher, error) {
	if cfg.Redis.URL == "" {
		return events.NoopPublisher{}, nil
	}
	pub, err := events.NewRedisPublisher(events.RedisConfig{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
		Channel:  cfg.Redis.Channel,
		Stream:   cfg.Redis.Stream,
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := pub.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, events will be dropped until it recovers", "error", err)
	}
	return pub, nil
}
