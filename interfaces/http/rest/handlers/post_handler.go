package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"schemaviz-backend/application/commands"
	"schemaviz-backend/application/commands/bus"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/domain/schemagraph"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// PostHandler handles post mutations
type PostHandler struct {
	commandBus *bus.CommandBus
	store      ports.EntityStore
	logger     *zap.Logger
}

// NewPostHandler creates a new post handler
func NewPostHandler(commandBus *bus.CommandBus, store ports.EntityStore, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		commandBus: commandBus,
		store:      store,
		logger:     logger,
	}
}

type upvoteResponse struct {
	Key  string                   `json:"key"`
	Post schemagraph.EntityRecord `json:"post"`
}

// UpvotePost handles POST /posts/{postID}/upvote and responds with the
// post's cache record as merged after the mutation.
func (h *PostHandler) UpvotePost(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 32)
	if err != nil {
		respondValidation(w, h.logger, "Invalid post ID")
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.UpvotePostCommand{PostID: int32(postID)}); err != nil {
		respondError(w, h.logger, err)
		return
	}

	key := fmt.Sprintf("Post:%d", postID)
	respondJSON(w, h.logger, http.StatusOK, upvoteResponse{
		Key:  key,
		Post: h.store.Extract()[key],
	})
}
