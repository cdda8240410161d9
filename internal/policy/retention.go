package policy

import (
	"sort"
	"time"

	"github.com/jnylund/vartija/pkg/types"
)

// tier tags which retention window a bucket key belongs to. tierNone is the
// zero value, so a zero bucketKey never equals a key derived from a real
// snapshot.
type tier uint8

const (
	tierNone tier = iota
	tierDaily
	tierWeekly
	tierMonthly
)

// bucketKey identifies one retention slot as a tier plus a UTC calendar
// unit. Keys are compared structurally with ==, never via formatted date
// strings.
type bucketKey struct {
	tier  tier
	year  int
	month time.Month
	day   int
}

func dailyKey(t time.Time) bucketKey {
	y, m, d := t.UTC().Date()
	return bucketKey{tier: tierDaily, year: y, month: m, day: d}
}

// weeklyKey buckets by the Monday starting the snapshot's ISO week.
func weeklyKey(t time.Time) bucketKey {
	u := t.UTC()
	monday := u.AddDate(0, 0, -((int(u.Weekday()) + 6) % 7))
	y, m, d := monday.Date()
	return bucketKey{tier: tierWeekly, year: y, month: m, day: d}
}

func monthlyKey(t time.Time) bucketKey {
	y, m, _ := t.UTC().Date()
	return bucketKey{tier: tierMonthly, year: y, month: m, day: 1}
}

// PlanPurge partitions one volume's snapshots into keep and delete sets
// under the tiered retention schedule.
//
// Snapshots younger than schedule.Hours are always kept and do not occupy a
// bucket. Older snapshots fall into exactly one tier by age (daily, then
// weekly, then monthly with no upper bound) and within a tier into one
// calendar bucket. Walking oldest to newest, the first snapshot entering a
// bucket is kept and later arrivals in the same bucket are deleted, so the
// retained representative of each bucket is the earliest snapshot in it.
// That matches the long-tested behavior of this planner even though casual
// descriptions of the policy say "newest per timeframe"; do not flip the
// walk without revisiting the retention contract.
//
// The chronologically newest snapshot is never deleted, even when it lands
// in an already-filled bucket. An empty input yields an empty decision.
// Pure and deterministic: identical inputs and now produce identical sets.
func PlanPurge(now time.Time, snapshots []types.Snapshot, schedule PurgeSchedule) types.RetentionDecision {
	if len(snapshots) == 0 {
		return types.RetentionDecision{}
	}

	ordered := make([]types.Snapshot, len(snapshots))
	copy(ordered, snapshots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].StartTime.Equal(ordered[j].StartTime) {
			return ordered[i].ID < ordered[j].ID
		}
		return ordered[i].StartTime.Before(ordered[j].StartTime)
	})

	newestID := ordered[len(ordered)-1].ID
	dailyEnd := schedule.DailyWindowEnd()
	weeklyEnd := schedule.WeeklyWindowEnd()

	var decision types.RetentionDecision
	var prev bucketKey

	for _, snap := range ordered {
		ageHours := int(now.Sub(snap.StartTime).Hours())

		// Youth exemption: too young for any tier, keeps its slot open.
		if ageHours <= schedule.Hours {
			decision.Keep = append(decision.Keep, snap.ID)
			continue
		}

		var key bucketKey
		switch {
		case ageHours <= dailyEnd:
			key = dailyKey(snap.StartTime)
		case ageHours <= weeklyEnd:
			key = weeklyKey(snap.StartTime)
		default:
			key = monthlyKey(snap.StartTime)
		}

		if key != prev {
			decision.Keep = append(decision.Keep, snap.ID)
			prev = key
			continue
		}
		if snap.ID == newestID {
			decision.Keep = append(decision.Keep, snap.ID)
			continue
		}
		decision.Delete = append(decision.Delete, snap.ID)
	}

	return decision
}
