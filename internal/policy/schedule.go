// Package policy holds the pure decision core of the snapshot lifecycle:
// schedule resolution, staleness detection and retention bucket planning.
// Nothing in this package performs I/O; callers supply the clock.
package policy

import (
	"errors"
	"time"

	"github.com/jnylund/vartija/internal/apperrors"
)

// Wildcard is the schedule-table key that applies to any volume without an
// explicit entry.
const Wildcard = "*"

// CreationSchedule caps how old a volume's newest snapshot may get before a
// new one must be created. The fields combine into one calendar-aware
// maximum age, so "1 month" means a real calendar month, not 30*24h.
type CreationSchedule struct {
	Years   int `mapstructure:"years" yaml:"years"`
	Months  int `mapstructure:"months" yaml:"months"`
	Days    int `mapstructure:"days" yaml:"days"`
	Hours   int `mapstructure:"hours" yaml:"hours"`
	Minutes int `mapstructure:"minutes" yaml:"minutes"`
}

// Cutoff returns the instant exactly max-age before now. A snapshot taken
// strictly before the cutoff is stale; one taken at the cutoff is not.
func (s CreationSchedule) Cutoff(now time.Time) time.Time {
	return now.AddDate(-s.Years, -s.Months, -s.Days).
		Add(-time.Duration(s.Hours)*time.Hour - time.Duration(s.Minutes)*time.Minute)
}

// Zero reports whether no maximum age is configured at all.
func (s CreationSchedule) Zero() bool {
	return s.Years == 0 && s.Months == 0 && s.Days == 0 && s.Hours == 0 && s.Minutes == 0
}

// Validate rejects negative fields and an all-zero schedule, which would
// make every snapshot permanently stale.
func (s CreationSchedule) Validate() error {
	if s.Years < 0 || s.Months < 0 || s.Days < 0 || s.Hours < 0 || s.Minutes < 0 {
		return errors.New("creation schedule fields must be non-negative")
	}
	if s.Zero() {
		return errors.New("creation schedule must set a maximum age")
	}
	return nil
}

// PurgeSchedule describes the tiered retention windows for one volume.
// Hours is a minimum age below which a snapshot is never deleted; Days,
// Weeks and Months are tier widths counted in their own calendar unit.
type PurgeSchedule struct {
	Hours  int `mapstructure:"hours" yaml:"hours"`
	Days   int `mapstructure:"days" yaml:"days"`
	Weeks  int `mapstructure:"weeks" yaml:"weeks"`
	Months int `mapstructure:"months" yaml:"months"`
}

// DailyWindowEnd is the age in hours at which the daily tier ends.
func (s PurgeSchedule) DailyWindowEnd() int {
	return s.Hours + s.Days*24
}

// WeeklyWindowEnd is the age in hours at which the weekly tier ends.
// Everything older falls into the unbounded monthly tier.
func (s PurgeSchedule) WeeklyWindowEnd() int {
	return s.DailyWindowEnd() + s.Weeks*24*7
}

// Validate rejects negative tier widths.
func (s PurgeSchedule) Validate() error {
	if s.Hours < 0 || s.Days < 0 || s.Weeks < 0 || s.Months < 0 {
		return errors.New("purge schedule fields must be non-negative")
	}
	return nil
}

// Resolve looks a volume up in a schedule table, falling back to the
// wildcard entry. A volume matching neither is a fatal configuration error:
// the caller must not mutate anything for that volume.
func Resolve[S any](table map[string]S, volumeID string) (S, error) {
	if s, ok := table[volumeID]; ok {
		return s, nil
	}
	if s, ok := table[Wildcard]; ok {
		return s, nil
	}
	var zero S
	return zero, &apperrors.ConfigurationError{VolumeID: volumeID, Reason: "no schedule for volume"}
}
