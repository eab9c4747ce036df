package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/backup"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/db"
	"github.com/jonathan/job-tracker/internal/events"
	"github.com/jonathan/job-tracker/internal/observability"
	"github.com/jonathan/job-tracker/internal/tracker"
)

// loadConfig resolves the effective configuration: config file first, then
// command-line overrides, then the environment for anything still unset.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if rootConfigPath != "" {
		loaded, err := config.LoadConfig(rootConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if rootVerbose {
			_, _ = fmt.Fprintf(os.Stderr, "Loaded config from: %s\n", rootConfigPath)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("db-url") {
		cfg.DatabaseURL = rootDatabaseURL
	}
	if flags.Changed("timezone") {
		cfg.Timezone = rootTimezone
	}
	if flags.Changed("verbose") {
		cfg.Verbose = rootVerbose
	}

	env, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	cfg = cfg.MergeWithDefaults(env)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// app bundles the collaborators every data command needs.
type app struct {
	cfg      config.Config
	db       *db.DB
	tracker  *tracker.Service
	backups  *backup.Orchestrator
	printer  *observability.Printer
	closeFns []func()
}

// openApp connects to PostgreSQL, applies migrations and wires the services.
// REDIS_URL, when set, enables event publishing.
func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a := &app{cfg: cfg, db: database, closeFns: []func(){database.Close}}

	if err := database.Migrate(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.RedisURL != "" {
		rdb, err := events.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		redisPublisher := events.NewRedisPublisher(rdb)
		publisher = redisPublisher
		a.closeFns = append(a.closeFns, func() {
			if err := redisPublisher.Close(); err != nil {
				log.Printf("[jobtracker] failed to close redis: %v", err)
			}
		})
		if cfg.Verbose {
			log.Printf("[jobtracker] publishing events to redis")
		}
	}

	a.tracker = tracker.NewService(database,
		tracker.WithPublisher(publisher),
		tracker.WithLocation(loc),
	)
	var dest backup.Destination = backup.FileDestination{Dir: cfg.ExportDir}
	if cfg.BackupFTPURL != "" {
		ftpDest, err := backup.ParseFTPURL(cfg.BackupFTPURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		dest = ftpDest
	}

	a.backups = backup.NewOrchestrator(database, database, database, dest,
		backup.WithPublisher(publisher),
	)
	a.printer = observability.NewPrinter(cmd.OutOrStdout(), loc)
	return a, nil
}

// Close releases connections in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closeFns) - 1; i >= 0; i-- {
		a.closeFns[i]()
	}
}
