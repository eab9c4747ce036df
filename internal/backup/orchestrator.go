// Package backup exports applications to CSV backups, imports CSV files back
// into the tracker and keeps a record of every backup attempt.
package backup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-tracker/internal/csvcodec"
	"github.com/jonathan/job-tracker/internal/events"
	"github.com/jonathan/job-tracker/internal/types"
)

// ApplicationSource lists every stored application.
type ApplicationSource interface {
	ListApplications(ctx context.Context) ([]types.JobApplication, error)
}

// ApplicationSink stores a new application and returns its id.
type ApplicationSink interface {
	InsertApplication(ctx context.Context, app *types.JobApplication) (int64, error)
}

// RecordStore persists backup attempt records.
type RecordStore interface {
	InsertBackup(ctx context.Context, b *types.CloudBackup) (int64, error)
	UpdateBackup(ctx context.Context, b *types.CloudBackup) error
}

// Destination opens a named backup file and reports where it lives.
type Destination interface {
	Create(ctx context.Context, name string) (io.WriteCloser, string, error)
}

// FileNameLayout is the time layout embedded in backup file names.
const FileNameLayout = "20060102_150405"

// maxLineSize bounds a single CSV line during import.
const maxLineSize = 1024 * 1024

// FileName returns the backup file name for a backup taken at t.
func FileName(t time.Time) string {
	return fmt.Sprintf("job_tracker_export_%s.csv", t.Format(FileNameLayout))
}

// Orchestrator runs backups and imports.
type Orchestrator struct {
	source    ApplicationSource
	sink      ApplicationSink
	records   RecordStore
	dest      Destination
	codec     *csvcodec.Codec
	publisher events.Publisher
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCodec overrides the CSV codec.
func WithCodec(c *csvcodec.Codec) Option {
	return func(o *Orchestrator) { o.codec = c }
}

// WithPublisher sets where completed backups are announced.
func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the collaborators. dest may be nil when only
// ExportTo and ImportFrom are used.
func NewOrchestrator(source ApplicationSource, sink ApplicationSink, records RecordStore, dest Destination, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		source:    source,
		sink:      sink,
		records:   records,
		dest:      dest,
		codec:     csvcodec.New(),
		publisher: events.NopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// CreateBackup records a PENDING attempt, performs it and finalizes the
// record as COMPLETED or FAILED. On failure the FAILED record is returned
// together with the error.
func (o *Orchestrator) CreateBackup(ctx context.Context, backupType types.BackupType) (*types.CloudBackup, error) {
	return o.run(ctx, backupType, func(record *types.CloudBackup) error {
		if backupType != types.BackupTypeCSV {
			return &UnavailableError{Type: backupType}
		}
		if o.dest == nil {
			return fmt.Errorf("no backup destination configured")
		}

		name := FileName(o.now())
		w, location, err := o.dest.Create(ctx, name)
		if err != nil {
			return err
		}
		if err := o.writeCSV(ctx, w); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return fmt.Errorf("failed to close backup file: %w", err)
		}

		record.BackupFileID = &name
		record.BackupLocation = &location
		return nil
	})
}

// ExportTo writes a CSV export to w under the same record lifecycle as
// CreateBackup. location is stored on the record as given.
func (o *Orchestrator) ExportTo(ctx context.Context, w io.Writer, location string) (*types.CloudBackup, error) {
	return o.run(ctx, types.BackupTypeCSV, func(record *types.CloudBackup) error {
		if w == nil {
			return fmt.Errorf("no export destination")
		}
		if err := o.writeCSV(ctx, w); err != nil {
			return err
		}
		record.BackupLocation = types.StringPtr(location)
		return nil
	})
}

func (o *Orchestrator) run(ctx context.Context, backupType types.BackupType, perform func(*types.CloudBackup) error) (*types.CloudBackup, error) {
	record := &types.CloudBackup{
		BackupType:      backupType,
		BackupTimestamp: types.Millis(o.now()),
		BackupStatus:    types.BackupStatusPending,
	}

	id, err := o.records.InsertBackup(ctx, record)
	if err != nil {
		record.BackupStatus = types.BackupStatusFailed
		return record, fmt.Errorf("failed to record backup: %w", err)
	}
	record.ID = id

	runErr := perform(record)
	if runErr != nil {
		record.BackupStatus = types.BackupStatusFailed
		record.BackupFileID = nil
		record.BackupLocation = nil
		log.Printf("[backup] %s backup %d failed: %v", backupType, record.ID, runErr)
	} else {
		record.BackupStatus = types.BackupStatusCompleted
	}

	if err := o.records.UpdateBackup(ctx, record); err != nil {
		if runErr == nil {
			record.BackupStatus = types.BackupStatusFailed
			record.BackupFileID = nil
			record.BackupLocation = nil
			runErr = fmt.Errorf("failed to update backup record: %w", err)
		} else {
			log.Printf("[backup] failed to mark backup %d as failed: %v", record.ID, err)
		}
	}
	if runErr != nil {
		return record, runErr
	}

	log.Printf("[backup] %s backup %d completed at %s", backupType, record.ID, types.Deref(record.BackupLocation))
	events.Emit(ctx, o.publisher, events.New(events.BackupCompleted, 0, record))
	return record, nil
}

func (o *Orchestrator) writeCSV(ctx context.Context, w io.Writer) error {
	apps, err := o.source.ListApplications(ctx)
	if err != nil {
		return fmt.Errorf("failed to load applications: %w", err)
	}
	bw := bufio.NewWriter(w)
	if err := o.codec.EncodeTo(bw, apps); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed and reported as tooLong with no content.
func readLine(br *bufio.Reader, limit int) (line string, tooLong bool, err error) {
	var buf []byte
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			if len(buf) > 0 || tooLong {
				return string(buf), tooLong, nil
			}
			return "", false, err
		}
		if !tooLong {
			if len(buf)+len(chunk) > limit {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			return string(buf), tooLong, nil
		}
	}
}

// ImportFrom reads CSV from r line by line and inserts every valid row.
// The first line is the header. Rows that fail to insert are skipped. It
// returns the number of inserted applications, ErrNoValidApplications when
// no row was usable, or a *ReadError when r cannot be read. Rows longer than
// maxLineSize are skipped like any other unusable row. Cancellation is
// honoured between rows.
func (o *Orchestrator) ImportFrom(ctx context.Context, r io.Reader) (int, error) {
	if r == nil {
		return 0, &ReadError{}
	}

	lines := make(chan string, 64)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(lines)
		br := bufio.NewReaderSize(r, 64*1024)
		for row := 0; ; row++ {
			line, tooLong, err := readLine(br, maxLineSize)
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return &ReadError{Cause: err}
			}
			if row == 0 {
				continue
			}
			if tooLong {
				log.Printf("[backup] skipped row %d: longer than %d bytes", row, maxLineSize)
				continue
			}
			select {
			case lines <- line:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	var valid, imported int
	g.Go(func() error {
		for line := range lines {
			if err := gctx.Err(); err != nil {
				return err
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			app, ok := o.codec.DecodeLine(line)
			if !ok {
				continue
			}
			valid++

			now := types.Millis(o.now())
			app.CreatedTimestamp = now
			app.UpdatedTimestamp = now
			if _, err := o.sink.InsertApplication(gctx, &app); err != nil {
				log.Printf("[backup] skipped %q / %q: %v", app.CompanyName, app.JobTitle, err)
				continue
			}
			imported++
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return imported, err
	}
	if valid == 0 {
		return 0, ErrNoValidApplications
	}
	log.Printf("[backup] imported %d of %d valid rows", imported, valid)
	return imported, nil
}
