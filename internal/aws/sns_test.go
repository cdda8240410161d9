package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNotifierPublishesToTopic(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockSNSClient)

	mockClient.On("Publish", ctx, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return awssdk.ToString(in.TopicArn) == "arn:aws:sns:eu-west-1:123:snapshots" &&
			awssdk.ToString(in.Subject) == "report" &&
			awssdk.ToString(in.Message) == "created snap-1"
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("m-1")}, nil)

	notifier := NewNotifier(mockClient, "arn:aws:sns:eu-west-1:123:snapshots")
	require.NoError(t, notifier.Notify(ctx, "report", "created snap-1"))
	mockClient.AssertExpectations(t)
}

func TestNotifierWrapsPublishError(t *testing.T) {
	ctx := context.Background()
	mockClient := new(MockSNSClient)
	mockClient.On("Publish", ctx, mock.AnythingOfType("*sns.PublishInput")).
		Return(nil, errors.New("topic gone"))

	notifier := NewNotifier(mockClient, "arn:aws:sns:eu-west-1:123:snapshots")
	err := notifier.Notify(ctx, "report", "body")
	assert.ErrorContains(t, err, "arn:aws:sns:eu-west-1:123:snapshots")
}
