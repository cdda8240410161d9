package policy

import (
	"time"

	"github.com/jnylund/vartija/pkg/types"
)

// NeedsSnapshot reports whether a new snapshot must be created for a volume.
//
// Error-status snapshots are ignored. With no usable history at all the
// answer is unconditionally true. Otherwise the volume is stale iff its
// newest usable snapshot started strictly before now minus the schedule's
// maximum age; a snapshot taken exactly at the boundary still counts as
// fresh. Pure: the caller supplies now, captured once per run.
func NeedsSnapshot(now time.Time, history []types.Snapshot, schedule CreationSchedule) bool {
	var newest time.Time
	found := false
	for _, snap := range history {
		if !snap.Usable() {
			continue
		}
		if !found || snap.StartTime.After(newest) {
			newest = snap.StartTime
			found = true
		}
	}
	if !found {
		return true
	}
	return newest.Before(schedule.Cutoff(now))
}
