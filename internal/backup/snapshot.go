package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jonathan/job-tracker/internal/schemas"
	"github.com/jonathan/job-tracker/internal/types"
)

// SnapshotVersion is the current snapshot document version.
const SnapshotVersion = 1

// Snapshot is a full JSON backup of applications, their status history and
// communications.
type Snapshot struct {
	Version        int                    `json:"version"`
	Timestamp      int64                  `json:"timestamp"`
	Applications   []types.JobApplication `json:"applications"`
	StatusHistory  []types.StatusHistory  `json:"statusHistory"`
	Communications []types.Communication  `json:"communications"`
}

// SnapshotSource reads everything a snapshot contains.
type SnapshotSource interface {
	ListApplications(ctx context.Context) ([]types.JobApplication, error)
	ListAllStatusHistory(ctx context.Context) ([]types.StatusHistory, error)
	ListAllCommunications(ctx context.Context) ([]types.Communication, error)
}

// SnapshotStore receives restored records.
type SnapshotStore interface {
	InsertApplication(ctx context.Context, app *types.JobApplication) (int64, error)
	InsertStatusHistory(ctx context.Context, h *types.StatusHistory) (int64, error)
	InsertCommunication(ctx context.Context, c *types.Communication) (int64, error)
}

// RestoreResult counts what RestoreSnapshot inserted.
type RestoreResult struct {
	Applications   int `json:"applications"`
	StatusHistory  int `json:"status_history"`
	Communications int `json:"communications"`
	Skipped        int `json:"skipped"`
}

// BuildSnapshot assembles a snapshot taken at now. Nil slices become empty.
func BuildSnapshot(apps []types.JobApplication, history []types.StatusHistory, comms []types.Communication, now time.Time) *Snapshot {
	if apps == nil {
		apps = []types.JobApplication{}
	}
	if history == nil {
		history = []types.StatusHistory{}
	}
	if comms == nil {
		comms = []types.Communication{}
	}
	return &Snapshot{
		Version:        SnapshotVersion,
		Timestamp:      types.Millis(now),
		Applications:   apps,
		StatusHistory:  history,
		Communications: comms,
	}
}

// TakeSnapshot loads every record from src.
func TakeSnapshot(ctx context.Context, src SnapshotSource, now time.Time) (*Snapshot, error) {
	apps, err := src.ListApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	history, err := src.ListAllStatusHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	comms, err := src.ListAllCommunications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load communications: %w", err)
	}
	return BuildSnapshot(apps, history, comms, now), nil
}

// WriteSnapshot writes s as indented JSON.
func WriteSnapshot(w io.Writer, s *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot validates the document against the snapshot schema and
// decodes it. Unknown enum values are mapped to their defaults: APPLIED for
// statuses and nil for optional enums.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	if r == nil {
		return nil, &ReadError{}
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ReadError{Cause: err}
	}
	if err := schemas.ValidateBackupSnapshot(data); err != nil {
		return nil, &SnapshotError{Message: "schema validation failed", Cause: err}
	}

	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, &SnapshotError{Message: "failed to decode", Cause: err}
	}
	normalize(&s)
	return &s, nil
}

func normalize(s *Snapshot) {
	for i := range s.Applications {
		a := &s.Applications[i]
		a.Status = types.ParseApplicationStatus(string(a.Status))
		if a.JobType != nil {
			a.JobType = types.ParseJobType(string(*a.JobType))
		}
		if a.RemoteStatus != nil {
			a.RemoteStatus = types.ParseRemoteStatus(string(*a.RemoteStatus))
		}
		if a.CompanySize != nil {
			a.CompanySize = types.ParseCompanySize(string(*a.CompanySize))
		}
	}
	for i := range s.StatusHistory {
		h := &s.StatusHistory[i]
		h.Status = types.ParseApplicationStatus(string(h.Status))
	}
	for i := range s.Communications {
		c := &s.Communications[i]
		if c.CommunicationType != nil {
			c.CommunicationType = types.ParseCommunicationType(string(*c.CommunicationType))
		}
	}
}

// RestoreSnapshot inserts every record of s into store. Applications get new
// ids; history and communications are re-pointed to them. Records whose
// application is missing or fails to insert are skipped.
func RestoreSnapshot(ctx context.Context, store SnapshotStore, s *Snapshot) (RestoreResult, error) {
	var result RestoreResult
	ids := make(map[int64]int64, len(s.Applications))

	for _, app := range s.Applications {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		oldID := app.ID
		app.ID = 0
		newID, err := store.InsertApplication(ctx, &app)
		if err != nil {
			log.Printf("[backup] skipped application %q: %v", app.CompanyName, err)
			result.Skipped++
			continue
		}
		ids[oldID] = newID
		result.Applications++
	}

	for _, h := range s.StatusHistory {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		newID, ok := ids[h.ApplicationID]
		if !ok {
			result.Skipped++
			continue
		}
		h.ID = 0
		h.ApplicationID = newID
		if _, err := store.InsertStatusHistory(ctx, &h); err != nil {
			log.Printf("[backup] skipped status history for application %d: %v", newID, err)
			result.Skipped++
			continue
		}
		result.StatusHistory++
	}

	for _, c := range s.Communications {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		newID, ok := ids[c.ApplicationID]
		if !ok {
			result.Skipped++
			continue
		}
		c.ID = 0
		c.ApplicationID = newID
		if _, err := store.InsertCommunication(ctx, &c); err != nil {
			log.Printf("[backup] skipped communication for application %d: %v", newID, err)
			result.Skipped++
			continue
		}
		result.Communications++
	}

	return result, nil
}
