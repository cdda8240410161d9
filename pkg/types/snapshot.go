package types

import (
	"errors"
	"strings"
	"time"
)

// SnapshotStatus is the lifecycle state of a block-storage snapshot as
// reported by the cloud provider.
type SnapshotStatus string

const (
	SnapshotPending   SnapshotStatus = "pending"
	SnapshotCompleted SnapshotStatus = "completed"
	SnapshotError     SnapshotStatus = "error"
)

// Snapshot is a point-in-time capture of one volume. Snapshots are created
// by the cloud provider and never mutated here; the engine only reads them.
type Snapshot struct {
	ID        string         `json:"id" yaml:"id"`
	VolumeID  string         `json:"volume_id" yaml:"volume_id"`
	StartTime time.Time      `json:"start_time" yaml:"start_time"`
	Status    SnapshotStatus `json:"status" yaml:"status"`
}

// Usable reports whether the snapshot participates in lifecycle decisions.
// Error-status snapshots are invisible to both staleness and retention.
func (s Snapshot) Usable() bool {
	return s.Status != SnapshotError
}

// Validate checks that the snapshot carries the fields every decision needs.
func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("snapshot ID is required")
	}
	if strings.TrimSpace(s.VolumeID) == "" {
		return errors.New("snapshot volume ID is required")
	}
	if s.StartTime.IsZero() {
		return errors.New("snapshot start time is required")
	}
	return nil
}

// String returns a short human-readable form used in log fields.
func (s Snapshot) String() string {
	return s.ID + " (" + s.VolumeID + ", " + s.StartTime.Format(time.RFC3339) + ")"
}

// Volume is a managed block-storage volume. The engine only ever reads its
// identifier; everything else about the volume belongs to the provider.
type Volume struct {
	ID string `json:"id" yaml:"id"`
}

// RetentionDecision partitions one volume's usable snapshots into the ids to
// retain and the ids that are redundant under the purge schedule. The two
// sets are disjoint and together cover exactly the considered snapshots.
type RetentionDecision struct {
	Keep   []string `json:"keep" yaml:"keep"`
	Delete []string `json:"delete" yaml:"delete"`
}

// Empty reports whether the decision covers no snapshots at all.
func (d RetentionDecision) Empty() bool {
	return len(d.Keep) == 0 && len(d.Delete) == 0
}

// Kept reports whether the given snapshot id is in the keep set.
func (d RetentionDecision) Kept(id string) bool {
	for _, k := range d.Keep {
		if k == id {
			return true
		}
	}
	return false
}
