package handlers

import (
	"context"
	"encoding/json"
	"time"

	"schemaviz-backend/application/commands"
	"schemaviz-backend/application/operations"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/domain/events"
	"schemaviz-backend/domain/schemagraph"
	apperrors "schemaviz-backend/pkg/errors"

	"go.uber.org/zap"
)

// UpvoteMetrics counts successful upvotes
type UpvoteMetrics interface {
	RecordUpvote()
}

// UpvotePostHandler handles UpvotePostCommand
type UpvotePostHandler struct {
	client    ports.GraphQLClient
	store     ports.EntityStore
	publisher ports.EventPublisher
	metrics   UpvoteMetrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewUpvotePostHandler creates a new upvote handler
func NewUpvotePostHandler(
	client ports.GraphQLClient,
	store ports.EntityStore,
	publisher ports.EventPublisher,
	metrics UpvoteMetrics,
	logger *zap.Logger,
) *UpvotePostHandler {
	return &UpvotePostHandler{
		client:    client,
		store:     store,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

type upvoteResult struct {
	UpvotePost *struct {
		ID    int32 `json:"id"`
		Votes int32 `json:"votes"`
	} `json:"upvotePost"`
}

// Handle runs the upvote mutation and merges the returned post into the
// entity store, so a cached Post record picks up the new vote count.
func (h *UpvotePostHandler) Handle(ctx context.Context, cmd commands.UpvotePostCommand) error {
	resp, err := h.client.Do(ctx, ports.GraphQLRequest{
		Query:         operations.UpvotePostMutation,
		OperationName: "UpvotePost",
		Variables:     map[string]any{"postId": cmd.PostID},
	})
	if err != nil {
		return err
	}

	if resp.HasErrors() {
		gqlErr := resp.Errors[0]
		if gqlErr.Code() == string(apperrors.ErrorTypeNotFound) {
			return apperrors.NewNotFoundError(gqlErr.Message).WithCode("POST_NOT_FOUND")
		}
		return apperrors.NewExternalError("graphql", nil).
			WithDetails(map[string]interface{}{"message": gqlErr.Message})
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return apperrors.NewExternalError("graphql", err)
	}
	var result upvoteResult
	if err := json.Unmarshal(resp.Data, &result); err != nil || result.UpvotePost == nil {
		return apperrors.NewExternalError("graphql", err).
			WithDetails(map[string]interface{}{"message": "upvotePost returned no post"})
	}

	h.store.Write(schemagraph.RootMutationKey, data)
	h.metrics.RecordUpvote()

	h.logger.Info("Post upvoted",
		zap.Int32("post_id", result.UpvotePost.ID),
		zap.Int32("votes", result.UpvotePost.Votes),
	)

	event := events.NewPostUpvoted(result.UpvotePost.ID, result.UpvotePost.Votes, h.now())
	if err := h.publisher.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish upvote event",
			zap.String("event_id", event.GetEventID()),
			zap.Error(err),
		)
	}
	return nil
}
