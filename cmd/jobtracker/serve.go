package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-tracker/internal/backup"
	"github.com/jonathan/job-tracker/internal/config"
	"github.com/jonathan/job-tracker/internal/fetch"
	"github.com/jonathan/job-tracker/internal/server"
)

var (
	servePort    int
	serveBrowser bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes the tracker over REST.

When BACKUP_SCHEDULE is set a CSV backup runs on that cron schedule.
When JWT_SECRET is set every endpoint except /health requires a bearer token.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultPort, "Port to listen on (defaults to PORT env var)")
	serveCmd.Flags().BoolVar(&serveBrowser, "browser", false, "Let POST /applications/draft render script-heavy postings in headless Chrome")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if cmd.Flags().Changed("port") {
		port = servePort
	}

	jwtConfig, err := config.OptionalJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}
	if jwtConfig == nil {
		log.Println("[jobtracker] JWT_SECRET not set, API is unauthenticated")
	}

	if a.cfg.BackupSchedule != "" {
		scheduler := backup.NewScheduler(a.backups, a.cfg.BackupSchedule)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup scheduler: %w", err)
		}
		defer scheduler.Stop()
	}

	drafterOpts := []fetch.DrafterOption{}
	if serveBrowser {
		drafterOpts = append(drafterOpts, fetch.WithRenderer(fetch.ChromeRenderer{Verbose: a.cfg.Verbose}))
	}

	srv := server.New(server.Config{
		Port: port,
		JWT:  jwtConfig,
	}, server.Dependencies{
		Tracker: a.tracker,
		Backups: a.backups,
		Records: a.db,
		Health:  a.db,
		Drafter: fetch.NewDrafter(drafterOpts...),
	})

	return srv.Start(ctx)
}
