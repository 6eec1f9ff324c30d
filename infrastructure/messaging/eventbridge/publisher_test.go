package eventbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"schemaviz-backend/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeEventBridge struct {
	inputs []*eventbridge.PutEventsInput
	output *eventbridge.PutEventsOutput
	err    error
}

func (f *fakeEventBridge) PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	if f.output != nil {
		return f.output, nil
	}
	return &eventbridge.PutEventsOutput{}, nil
}

func TestPublisher_Publish(t *testing.T) {
	client := &fakeEventBridge{}
	publisher := NewPublisher(client, "schemaviz-bus", zap.NewNop())

	event := events.NewPostUpvoted(3, 2, time.Now())
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, client.inputs, 1)
	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "schemaviz-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, events.SourceBackend, aws.ToString(entry.Source))
	assert.Equal(t, events.TypePostUpvoted, aws.ToString(entry.DetailType))
	assert.Equal(t, []string{"arn:aws:schemaviz::Post:3"}, entry.Resources)

	var detail map[string]any
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(entry.Detail)), &detail))
	assert.Equal(t, float64(3), detail["post_id"])
}

func TestPublisher_PublishBatchChunks(t *testing.T) {
	client := &fakeEventBridge{}
	publisher := NewPublisher(client, "bus", zap.NewNop())

	batch := make([]events.DomainEvent, 23)
	for i := range batch {
		batch[i] = events.NewPostUpvoted(int32(i), 1, time.Now())
	}
	require.NoError(t, publisher.PublishBatch(context.Background(), batch))

	require.Len(t, client.inputs, 3)
	assert.Len(t, client.inputs[0].Entries, 10)
	assert.Len(t, client.inputs[1].Entries, 10)
	assert.Len(t, client.inputs[2].Entries, 3)
}

func TestPublisher_Failures(t *testing.T) {
	event := events.NewSelectionChanged("Post", time.Now())

	t.Run("client error", func(t *testing.T) {
		publisher := NewPublisher(&fakeEventBridge{err: errors.New("throttled")}, "bus", zap.NewNop())
		err := publisher.Publish(context.Background(), event)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "throttled")
	})

	t.Run("failed entries", func(t *testing.T) {
		client := &fakeEventBridge{output: &eventbridge.PutEventsOutput{
			FailedEntryCount: 1,
			Entries:          []types.PutEventsResultEntry{{ErrorCode: aws.String("InternalFailure")}},
		}}
		publisher := NewPublisher(client, "bus", zap.NewNop())
		err := publisher.Publish(context.Background(), event)
		require.Error(t, err)
		assert.Equal(t, "1 events failed to publish", err.Error())
	})

	t.Run("empty batch", func(t *testing.T) {
		client := &fakeEventBridge{}
		publisher := NewPublisher(client, "bus", zap.NewNop())
		require.NoError(t, publisher.PublishBatch(context.Background(), nil))
		assert.Empty(t, client.inputs)
	})
}

func TestLogPublisher(t *testing.T) {
	publisher := NewLogPublisher(zap.NewNop())
	err := publisher.PublishBatch(context.Background(), []events.DomainEvent{
		events.NewPostUpvoted(1, 3, time.Now()),
		events.NewSelectionChanged("", time.Now()),
	})
	assert.NoError(t, err)
}
