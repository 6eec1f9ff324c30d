package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostUpvoted(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	event := NewPostUpvoted(7, 401, at)

	assert.NotEmpty(t, event.GetEventID())
	assert.Equal(t, "Post:7", event.GetAggregateID())
	assert.Equal(t, TypePostUpvoted, event.GetEventType())
	assert.Equal(t, at, event.GetTimestamp())

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, float64(7), decoded["post_id"])
	assert.Equal(t, float64(401), decoded["votes"])
	assert.Equal(t, "post.upvoted", decoded["event_type"])
}

func TestEventIDsAreUnique(t *testing.T) {
	now := time.Now()
	a := NewSelectionChanged("Post", now)
	b := NewSelectionChanged("", now)

	assert.NotEqual(t, a.GetEventID(), b.GetEventID())
	assert.Equal(t, "selection", a.GetAggregateID())
	assert.Empty(t, b.NodeID)
}
