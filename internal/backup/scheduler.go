package backup

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/jonathan/job-tracker/internal/types"
)

// Backupper is the part of Orchestrator the scheduler drives.
type Backupper interface {
	CreateBackup(ctx context.Context, backupType types.BackupType) (*types.CloudBackup, error)
}

// Scheduler wraps robfig/cron and runs a CSV backup on a schedule.
type Scheduler struct {
	cron      *cron.Cron
	backupper Backupper
	spec      string // cron spec, e.g. "@daily" or "@every 24h"
}

// NewScheduler creates a scheduler for spec. The spec is checked by Start.
func NewScheduler(backupper Backupper, spec string) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		backupper: backupper,
		spec:      spec,
	}
}

// Start registers the backup job and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Backup cron started, spec: %s", s.spec)
	return nil
}

// Stop stops the scheduler and waits for a running backup to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	log.Println("[scheduler] Backup cron stopped")
}

// RunOnce performs one CSV backup and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	record, err := s.backupper.CreateBackup(ctx, types.BackupTypeCSV)
	if err != nil {
		log.Printf("[scheduler] Backup failed: %v", err)
		return
	}
	log.Printf("[scheduler] Backup %d written to %s", record.ID, types.Deref(record.BackupLocation))
}

// ValidateSpec reports whether spec is a schedule the scheduler accepts.
func ValidateSpec(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return nil
}
