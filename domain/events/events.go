package events

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Event sources and types
const (
	SourceBackend = "schemaviz.backend"

	TypePostUpvoted      = "post.upvoted"
	TypeSelectionChanged = "selection.changed"
)

// DomainEvent is the base interface for all domain events
type DomainEvent interface {
	GetEventID() string
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseEvent) GetEventID() string      { return e.EventID }
func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }

func newBaseEvent(aggregateID, eventType string, at time.Time) BaseEvent {
	return BaseEvent{
		EventID:     uuid.NewString(),
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   at,
	}
}

// PostUpvoted is raised after a post received a vote
type PostUpvoted struct {
	BaseEvent
	PostID int32 `json:"post_id"`
	Votes  int32 `json:"votes"`
}

// NewPostUpvoted creates a PostUpvoted event
func NewPostUpvoted(postID, votes int32, at time.Time) PostUpvoted {
	return PostUpvoted{
		BaseEvent: newBaseEvent("Post:"+strconv.Itoa(int(postID)), TypePostUpvoted, at),
		PostID:    postID,
		Votes:     votes,
	}
}

// SelectionChanged is raised when the selected graph node changes.
// An empty NodeID means the selection was cleared.
type SelectionChanged struct {
	BaseEvent
	NodeID string `json:"node_id"`
}

// NewSelectionChanged creates a SelectionChanged event
func NewSelectionChanged(nodeID string, at time.Time) SelectionChanged {
	return SelectionChanged{
		BaseEvent: newBaseEvent("selection", TypeSelectionChanged, at),
		NodeID:    nodeID,
	}
}
