package handlers

import (
	"context"
	"fmt"
	"time"

	"schemaviz-backend/application/commands"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/domain/events"
	"schemaviz-backend/domain/schemagraph"
	apperrors "schemaviz-backend/pkg/errors"

	"go.uber.org/zap"
)

// SchemaSource provides the introspected schema
type SchemaSource interface {
	Schema(ctx context.Context) (*schemagraph.Schema, error)
}

// SelectNodeHandler handles SelectNodeCommand
type SelectNodeHandler struct {
	schemas   SchemaSource
	selection ports.SelectionState
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewSelectNodeHandler creates a new select node handler
func NewSelectNodeHandler(
	schemas SchemaSource,
	selection ports.SelectionState,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *SelectNodeHandler {
	return &SelectNodeHandler{
		schemas:   schemas,
		selection: selection,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle selects the node if the schema defines it
func (h *SelectNodeHandler) Handle(ctx context.Context, cmd commands.SelectNodeCommand) error {
	schema, err := h.schemas.Schema(ctx)
	if err != nil {
		return err
	}

	if !schemagraph.IsDefinedType(schema.TypeByName(cmd.ID)) {
		return apperrors.NewNotFoundError(fmt.Sprintf("node %q not found", cmd.ID)).
			WithCode("NODE_NOT_FOUND")
	}

	h.selection.Select(cmd.ID)
	publishSelection(ctx, h.publisher, h.logger, events.NewSelectionChanged(cmd.ID, h.now()))
	return nil
}

// ClearSelectionHandler handles ClearSelectionCommand
type ClearSelectionHandler struct {
	selection ports.SelectionState
	publisher ports.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewClearSelectionHandler creates a new clear selection handler
func NewClearSelectionHandler(
	selection ports.SelectionState,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *ClearSelectionHandler {
	return &ClearSelectionHandler{
		selection: selection,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Handle clears the selection. Clearing an empty selection is a no-op.
func (h *ClearSelectionHandler) Handle(ctx context.Context, cmd commands.ClearSelectionCommand) error {
	if _, ok := h.selection.Current(); !ok {
		return nil
	}
	h.selection.Clear()
	publishSelection(ctx, h.publisher, h.logger, events.NewSelectionChanged("", h.now()))
	return nil
}

func publishSelection(ctx context.Context, publisher ports.EventPublisher, logger *zap.Logger, event events.SelectionChanged) {
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish selection change",
			zap.String("node_id", event.NodeID),
			zap.Error(err),
		)
	}
}
