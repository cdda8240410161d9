package aws

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/jnylund/vartija/pkg/types"
)

// normalizeSnapshot converts an EC2 snapshot into the engine's domain type.
// Timestamps are normalized to UTC here so every downstream calendar
// computation sees one zone.
func normalizeSnapshot(snapshot ec2Types.Snapshot) types.Snapshot {
	out := types.Snapshot{
		ID:       aws.ToString(snapshot.SnapshotId),
		VolumeID: aws.ToString(snapshot.VolumeId),
		Status:   normalizeState(snapshot.State),
	}
	if snapshot.StartTime != nil {
		out.StartTime = snapshot.StartTime.UTC()
	}
	return out
}

// normalizeState maps provider snapshot states onto the three the engine
// distinguishes. Transitional states (recoverable, recovering) count as
// pending: the snapshot exists and may complete.
func normalizeState(state ec2Types.SnapshotState) types.SnapshotStatus {
	switch state {
	case ec2Types.SnapshotStateCompleted:
		return types.SnapshotCompleted
	case ec2Types.SnapshotStateError:
		return types.SnapshotError
	default:
		return types.SnapshotPending
	}
}
