package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2Types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jnylund/vartija/internal/apperrors"
	"github.com/jnylund/vartija/internal/logger"
	"github.com/jnylund/vartija/pkg/types"
)

func newTestService(ec2Client EC2API) *Service {
	return NewService(&Clients{EC2: ec2Client}, logger.NewSimple())
}

func TestListSnapshotsPaginatesAndNormalizes(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockEC2Client)

	started := time.Date(2024, 3, 19, 11, 0, 0, 0, time.FixedZone("CET", 3600))

	firstPage := &ec2.DescribeSnapshotsOutput{
		Snapshots: []ec2Types.Snapshot{
			{
				SnapshotId: aws.String("snap-1"),
				VolumeId:   aws.String("vol-1"),
				StartTime:  aws.Time(started),
				State:      ec2Types.SnapshotStateCompleted,
			},
		},
		NextToken: aws.String("page-2"),
	}
	secondPage := &ec2.DescribeSnapshotsOutput{
		Snapshots: []ec2Types.Snapshot{
			{
				SnapshotId: aws.String("snap-2"),
				VolumeId:   aws.String("vol-1"),
				StartTime:  aws.Time(started.Add(time.Hour)),
				State:      ec2Types.SnapshotStateError,
			},
		},
	}

	mockClient.On("DescribeSnapshots", ctx, mock.MatchedBy(func(in *ec2.DescribeSnapshotsInput) bool {
		return in.NextToken == nil
	})).Return(firstPage, nil).Once()
	mockClient.On("DescribeSnapshots", ctx, mock.MatchedBy(func(in *ec2.DescribeSnapshotsInput) bool {
		return in.NextToken != nil && *in.NextToken == "page-2"
	})).Return(secondPage, nil).Once()

	service := newTestService(mockClient)
	snapshots, err := service.ListSnapshots(ctx)

	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, "snap-1", snapshots[0].ID)
	assert.Equal(t, types.SnapshotCompleted, snapshots[0].Status)
	assert.Equal(t, time.UTC, snapshots[0].StartTime.Location())
	assert.Equal(t, types.SnapshotError, snapshots[1].Status)

	mockClient.AssertExpectations(t)
}

func TestListSnapshotsWrapsAPIError(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockEC2Client)
	mockClient.On("DescribeSnapshots", ctx, mock.AnythingOfType("*ec2.DescribeSnapshotsInput")).
		Return(nil, errors.New("throttled"))

	_, err := newTestService(mockClient).ListSnapshots(ctx)

	var apiErr *apperrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "DescribeSnapshots", apiErr.Op)
}

func TestListVolumesMissingVolume(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockEC2Client)
	mockClient.On("DescribeVolumes", ctx, mock.AnythingOfType("*ec2.DescribeVolumesInput")).
		Return(nil, &smithy.GenericAPIError{Code: "InvalidVolume.NotFound", Message: "vol-gone does not exist"})

	_, err := newTestService(mockClient).ListVolumes(ctx, []string{"vol-gone"})

	var nfErr *apperrors.VolumeNotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "vol-gone", nfErr.VolumeID)
}

func TestListVolumesDetectsSilentlyMissingID(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockEC2Client)
	mockClient.On("DescribeVolumes", ctx, mock.AnythingOfType("*ec2.DescribeVolumesInput")).
		Return(&ec2.DescribeVolumesOutput{
			Volumes: []ec2Types.Volume{{VolumeId: aws.String("vol-a")}},
		}, nil)

	_, err := newTestService(mockClient).ListVolumes(ctx, []string{"vol-a", "vol-b"})

	var nfErr *apperrors.VolumeNotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "vol-b", nfErr.VolumeID)
}

func TestCreateSnapshot(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockEC2Client)
	started := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	mockClient.On("CreateSnapshot", ctx, mock.MatchedBy(func(in *ec2.CreateSnapshotInput) bool {
		return aws.ToString(in.VolumeId) == "vol-1" && aws.ToString(in.Description) == "nightly"
	})).Return(&ec2.CreateSnapshotOutput{
		SnapshotId: aws.String("snap-new"),
		StartTime:  aws.Time(started),
		State:      ec2Types.SnapshotStatePending,
	}, nil)

	snapshot, err := newTestService(mockClient).CreateSnapshot(ctx, "vol-1", "nightly")

	require.NoError(t, err)
	assert.Equal(t, "snap-new", snapshot.ID)
	assert.Equal(t, "vol-1", snapshot.VolumeID)
	assert.Equal(t, types.SnapshotPending, snapshot.Status)
	mockClient.AssertExpectations(t)
}

func TestDeleteSnapshotMapsToDeleteError(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockEC2Client)
	mockClient.On("DeleteSnapshot", ctx, mock.AnythingOfType("*ec2.DeleteSnapshotInput")).
		Return(nil, &smithy.GenericAPIError{Code: "InvalidSnapshot.InUse", Message: "snap-1 is in use"})

	err := newTestService(mockClient).DeleteSnapshot(ctx, "snap-1")

	var delErr *apperrors.DeleteError
	require.True(t, errors.As(err, &delErr))
	assert.Equal(t, "snap-1", delErr.SnapshotID)
}
