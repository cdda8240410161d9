// Package engine composes the policy core into full lifecycle runs:
// resolve schedules, create missing snapshots, purge redundant ones, and
// report what happened.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jnylund/vartija/internal/logger"
	"github.com/jnylund/vartija/internal/policy"
	"github.com/jnylund/vartija/pkg/types"
)

// CloudAPI is the provider collaborator the engine drives. The engine never
// talks to the cloud except through this interface.
type CloudAPI interface {
	ListSnapshots(ctx context.Context) ([]types.Snapshot, error)
	ListVolumes(ctx context.Context, ids []string) ([]types.Volume, error)
	CreateSnapshot(ctx context.Context, volumeID, description string) (types.Snapshot, error)
	DeleteSnapshot(ctx context.Context, snapshotID string) error
}

// Notifier publishes the human-readable run report. Optional and
// best-effort: a publish failure is logged, never fatal.
type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// Params carries everything one run needs. Now is captured once by the
// caller so ages stay consistent across volumes however long the run takes.
type Params struct {
	Now               time.Time
	VolumeIDs         []string
	CreationSchedules map[string]policy.CreationSchedule
	PurgeSchedules    map[string]policy.PurgeSchedule

	// ContinueOnVolumeError skips a volume whose existence check fails
	// instead of aborting the run. Default is to abort.
	ContinueOnVolumeError bool

	// DryRun computes and reports intents without touching the provider.
	DryRun bool

	// Description is attached to created snapshots; the volume id is
	// appended.
	Description string

	// Subject is the notification subject line.
	Subject string
}

// Report is the outcome of one run. In a dry run Created and Deleted hold
// the intended ids rather than executed ones.
type Report struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	DryRun  bool     `json:"dry_run" yaml:"dry_run"`
	Created []string `json:"created" yaml:"created"`
	Deleted []string `json:"deleted" yaml:"deleted"`
	Lines   []string `json:"lines" yaml:"lines"`
	Errors  []error  `json:"-" yaml:"-"`
}

// Engine runs the snapshot lifecycle for a fleet of volumes, strictly
// sequentially in configured order.
type Engine struct {
	cloud    CloudAPI
	notifier Notifier
	log      logger.Logger
}

// New creates an engine. notifier may be nil when no topic is configured.
func New(cloud CloudAPI, notifier Notifier, log logger.Logger) *Engine {
	return &Engine{cloud: cloud, notifier: notifier, log: log}
}

// Run executes one lifecycle pass. Fatal errors (schedule resolution,
// provider list/create failures) abort and are returned; per-snapshot
// delete failures are collected into the report instead.
func (e *Engine) Run(ctx context.Context, p Params) (*Report, error) {
	report := &Report{
		RunID:  uuid.NewString(),
		DryRun: p.DryRun,
	}
	log := e.log.WithField("run_id", report.RunID)

	// Resolve every schedule before touching anything: a volume without a
	// schedule is a configuration error and the run must not mutate state.
	creation := make(map[string]policy.CreationSchedule, len(p.VolumeIDs))
	purge := make(map[string]policy.PurgeSchedule, len(p.VolumeIDs))
	for _, volumeID := range p.VolumeIDs {
		cs, err := policy.Resolve(p.CreationSchedules, volumeID)
		if err != nil {
			return report, err
		}
		ps, err := policy.Resolve(p.PurgeSchedules, volumeID)
		if err != nil {
			return report, err
		}
		creation[volumeID] = cs
		purge[volumeID] = ps
	}

	// Validate volume existence one at a time so a single bad volume can be
	// skipped when configured to continue.
	managed := make([]string, 0, len(p.VolumeIDs))
	for _, volumeID := range p.VolumeIDs {
		if _, err := e.cloud.ListVolumes(ctx, []string{volumeID}); err != nil {
			if p.ContinueOnVolumeError {
				log.WithField("volume", volumeID).Error("skipping volume", err)
				report.Errors = append(report.Errors, err)
				continue
			}
			return report, err
		}
		managed = append(managed, volumeID)
	}

	inventory, err := e.cloud.ListSnapshots(ctx)
	if err != nil {
		return report, err
	}

	createdAny := false
	for _, volumeID := range managed {
		history := usableFor(inventory, volumeID)
		if !policy.NeedsSnapshot(p.Now, history, creation[volumeID]) {
			continue
		}

		if p.DryRun {
			report.Created = append(report.Created, volumeID)
			report.Lines = append(report.Lines, fmt.Sprintf("Would create snapshot for volume %s", volumeID))
			continue
		}

		snapshot, err := e.cloud.CreateSnapshot(ctx, volumeID, p.Description+" "+volumeID)
		if err != nil {
			return report, err
		}
		createdAny = true
		report.Created = append(report.Created, snapshot.ID)
		report.Lines = append(report.Lines, fmt.Sprintf("Created snapshot %s for volume %s", snapshot.ID, volumeID))
	}

	// Fold freshly-created snapshots into the purge computation. Deletions
	// later do not trigger another refetch.
	if createdAny {
		inventory, err = e.cloud.ListSnapshots(ctx)
		if err != nil {
			return report, err
		}
	}

	for _, volumeID := range managed {
		history := usableFor(inventory, volumeID)
		if len(history) == 0 {
			continue
		}

		decision := policy.PlanPurge(p.Now, history, purge[volumeID])
		for _, snapshotID := range decision.Delete {
			if p.DryRun {
				report.Deleted = append(report.Deleted, snapshotID)
				report.Lines = append(report.Lines, fmt.Sprintf("Would delete snapshot %s (volume %s)", snapshotID, volumeID))
				continue
			}

			if err := e.cloud.DeleteSnapshot(ctx, snapshotID); err != nil {
				// One stuck snapshot must not block the others.
				log.WithFields(map[string]interface{}{
					"volume":   volumeID,
					"snapshot": snapshotID,
				}).Error("delete failed", err)
				report.Errors = append(report.Errors, err)
				continue
			}
			report.Deleted = append(report.Deleted, snapshotID)
			report.Lines = append(report.Lines, fmt.Sprintf("Deleted snapshot %s (volume %s)", snapshotID, volumeID))
		}
	}

	e.notify(ctx, p, report, log)

	log.WithFields(map[string]interface{}{
		"created": len(report.Created),
		"deleted": len(report.Deleted),
		"errors":  len(report.Errors),
	}).Info("lifecycle run finished")

	return report, nil
}

func (e *Engine) notify(ctx context.Context, p Params, report *Report, log logger.Logger) {
	if e.notifier == nil || p.DryRun || len(report.Lines) == 0 {
		return
	}
	subject := p.Subject
	if subject == "" {
		subject = "snapshot lifecycle report"
	}
	if err := e.notifier.Notify(ctx, subject, strings.Join(report.Lines, "\n")); err != nil {
		log.Error("notification publish failed", err)
	}
}

// usableFor filters the account inventory down to one volume's non-error
// snapshots.
func usableFor(inventory []types.Snapshot, volumeID string) []types.Snapshot {
	var out []types.Snapshot
	for _, snap := range inventory {
		if snap.VolumeID == volumeID && snap.Usable() {
			out = append(out, snap)
		}
	}
	return out
}
