package engine

import (
	"context"
	"time"

	"github.com/jnylund/vartija/internal/policy"
)

// VolumeStatus summarizes one volume's snapshot freshness for display.
type VolumeStatus struct {
	VolumeID  string        `json:"volume_id" yaml:"volume_id"`
	Snapshots int           `json:"snapshots" yaml:"snapshots"`
	NewestID  string        `json:"newest_id,omitempty" yaml:"newest_id,omitempty"`
	NewestAge time.Duration `json:"newest_age,omitempty" yaml:"newest_age,omitempty"`
	Stale     bool          `json:"stale" yaml:"stale"`
}

// Status reports per-volume freshness without mutating anything. A volume
// with no usable history is stale by definition.
func (e *Engine) Status(ctx context.Context, p Params) ([]VolumeStatus, error) {
	inventory, err := e.cloud.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]VolumeStatus, 0, len(p.VolumeIDs))
	for _, volumeID := range p.VolumeIDs {
		schedule, err := policy.Resolve(p.CreationSchedules, volumeID)
		if err != nil {
			return nil, err
		}

		history := usableFor(inventory, volumeID)
		status := VolumeStatus{
			VolumeID:  volumeID,
			Snapshots: len(history),
			Stale:     policy.NeedsSnapshot(p.Now, history, schedule),
		}
		var newest time.Time
		for _, snap := range history {
			if status.NewestID == "" || snap.StartTime.After(newest) {
				status.NewestID = snap.ID
				newest = snap.StartTime
			}
		}
		if status.NewestID != "" {
			status.NewestAge = p.Now.Sub(newest)
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}
