package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotUsable(t *testing.T) {
	assert.True(t, Snapshot{Status: SnapshotPending}.Usable())
	assert.True(t, Snapshot{Status: SnapshotCompleted}.Usable())
	assert.False(t, Snapshot{Status: SnapshotError}.Usable())
}

func TestSnapshotValidate(t *testing.T) {
	valid := Snapshot{
		ID:        "snap-1",
		VolumeID:  "vol-1",
		StartTime: time.Date(2024, 3, 19, 11, 0, 0, 0, time.UTC),
		Status:    SnapshotCompleted,
	}
	assert.NoError(t, valid.Validate())

	missingID := valid
	missingID.ID = " "
	assert.Error(t, missingID.Validate())

	missingTime := valid
	missingTime.StartTime = time.Time{}
	assert.Error(t, missingTime.Validate())
}

func TestRetentionDecisionHelpers(t *testing.T) {
	var empty RetentionDecision
	assert.True(t, empty.Empty())

	d := RetentionDecision{Keep: []string{"snap-1"}, Delete: []string{"snap-2"}}
	assert.False(t, d.Empty())
	assert.True(t, d.Kept("snap-1"))
	assert.False(t, d.Kept("snap-2"))
}
