package aws

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/smithy-go"

	"github.com/jnylund/vartija/internal/apperrors"
	"github.com/jnylund/vartija/internal/logger"
	"github.com/jnylund/vartija/pkg/types"
)

// Service implements the engine's cloud collaborator on top of EC2.
type Service struct {
	clients *Clients
	log     logger.Logger
}

// NewService creates an EC2-backed snapshot service.
func NewService(clients *Clients, log logger.Logger) *Service {
	return &Service{clients: clients, log: log}
}

// ListSnapshots fetches every snapshot owned by the account. The result may
// include snapshots for volumes outside the managed set; filtering is the
// engine's job.
func (s *Service) ListSnapshots(ctx context.Context) ([]types.Snapshot, error) {
	var snapshots []types.Snapshot
	var nextToken *string

	for {
		input := &ec2.DescribeSnapshotsInput{
			OwnerIds: []string{"self"},
		}
		if nextToken != nil {
			input.NextToken = nextToken
		}

		result, err := s.clients.EC2.DescribeSnapshots(ctx, input)
		if err != nil {
			return nil, &apperrors.APIError{Op: "DescribeSnapshots", Err: err}
		}

		for _, snapshot := range result.Snapshots {
			snapshots = append(snapshots, normalizeSnapshot(snapshot))
		}

		nextToken = result.NextToken
		if nextToken == nil {
			break
		}
	}

	return snapshots, nil
}

// ListVolumes describes the given volume ids and returns them in request
// order. A volume the provider does not know yields a VolumeNotFoundError.
func (s *Service) ListVolumes(ctx context.Context, ids []string) ([]types.Volume, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var volumes []types.Volume
	var nextToken *string
	found := make(map[string]bool, len(ids))

	for {
		input := &ec2.DescribeVolumesInput{VolumeIds: ids}
		if nextToken != nil {
			input.NextToken = nextToken
		}

		result, err := s.clients.EC2.DescribeVolumes(ctx, input)
		if err != nil {
			var apiErr smithy.APIError
			if errors.As(err, &apiErr) && apiErr.ErrorCode() == "InvalidVolume.NotFound" {
				return nil, &apperrors.VolumeNotFoundError{VolumeID: missingHint(ids, apiErr)}
			}
			return nil, &apperrors.APIError{Op: "DescribeVolumes", Err: err}
		}

		for _, volume := range result.Volumes {
			id := aws.ToString(volume.VolumeId)
			found[id] = true
			volumes = append(volumes, types.Volume{ID: id})
		}

		nextToken = result.NextToken
		if nextToken == nil {
			break
		}
	}

	for _, id := range ids {
		if !found[id] {
			return nil, &apperrors.VolumeNotFoundError{VolumeID: id}
		}
	}

	return volumes, nil
}

// missingHint names the missing volume when the request carried exactly
// one id; with a batch request the provider error does not say which.
func missingHint(ids []string, apiErr smithy.APIError) string {
	if len(ids) == 1 {
		return ids[0]
	}
	return apiErr.ErrorMessage()
}

// CreateSnapshot requests a snapshot of the volume. The returned snapshot
// is usually still pending.
func (s *Service) CreateSnapshot(ctx context.Context, volumeID, description string) (types.Snapshot, error) {
	result, err := s.clients.EC2.CreateSnapshot(ctx, &ec2.CreateSnapshotInput{
		VolumeId:    aws.String(volumeID),
		Description: aws.String(description),
	})
	if err != nil {
		return types.Snapshot{}, &apperrors.APIError{Op: "CreateSnapshot", VolumeID: volumeID, Err: err}
	}

	snapshot := types.Snapshot{
		ID:       aws.ToString(result.SnapshotId),
		VolumeID: volumeID,
		Status:   normalizeState(result.State),
	}
	if result.StartTime != nil {
		snapshot.StartTime = result.StartTime.UTC()
	}

	s.log.WithFields(map[string]interface{}{
		"volume":   volumeID,
		"snapshot": snapshot.ID,
	}).Info("created snapshot")

	return snapshot, nil
}

// DeleteSnapshot deletes one snapshot. Failures (in use, already gone) are
// reported as DeleteError so the engine can collect them and move on.
func (s *Service) DeleteSnapshot(ctx context.Context, snapshotID string) error {
	_, err := s.clients.EC2.DeleteSnapshot(ctx, &ec2.DeleteSnapshotInput{
		SnapshotId: aws.String(snapshotID),
	})
	if err != nil {
		return &apperrors.DeleteError{SnapshotID: snapshotID, Err: err}
	}

	s.log.WithField("snapshot", snapshotID).Info("deleted snapshot")
	return nil
}
