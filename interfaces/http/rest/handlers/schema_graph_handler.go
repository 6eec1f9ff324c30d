package handlers

import (
	"encoding/json"
	"net/http"

	"schemaviz-backend/application/commands"
	"schemaviz-backend/application/commands/bus"
	"schemaviz-backend/application/queries"
	querybus "schemaviz-backend/application/queries/bus"
	apperrors "schemaviz-backend/pkg/errors"

	"go.uber.org/zap"
)

// SchemaGraphHandler serves the schema graph and its selection
type SchemaGraphHandler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	logger     *zap.Logger
}

// NewSchemaGraphHandler creates a new schema graph handler
func NewSchemaGraphHandler(commandBus *bus.CommandBus, queryBus *querybus.QueryBus, logger *zap.Logger) *SchemaGraphHandler {
	return &SchemaGraphHandler{
		commandBus: commandBus,
		queryBus:   queryBus,
		logger:     logger,
	}
}

// GetSchemaGraph handles GET /schema-graph[?selection=Type]
func (h *SchemaGraphHandler) GetSchemaGraph(w http.ResponseWriter, r *http.Request) {
	query := queries.GetSchemaGraphQuery{}
	if values, ok := r.URL.Query()["selection"]; ok && len(values) > 0 {
		selection := values[0]
		query.Selection = &selection
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	view, ok := result.(*queries.SchemaGraphView)
	if !ok {
		respondError(w, h.logger, apperrors.NewInternalError("unexpected schema graph result"))
		return
	}
	respondJSON(w, h.logger, http.StatusOK, view)
}

type selectionRequest struct {
	ID string `json:"id"`
}

type selectionResponse struct {
	Selection *string `json:"selection"`
}

// SelectNode handles PUT /selection
func (h *SchemaGraphHandler) SelectNode(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidation(w, h.logger, "Invalid request body: "+err.Error())
		return
	}

	if err := h.commandBus.Send(r.Context(), commands.SelectNodeCommand{ID: req.ID}); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, selectionResponse{Selection: &req.ID})
}

// ClearSelection handles DELETE /selection
func (h *SchemaGraphHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.commandBus.Send(r.Context(), commands.ClearSelectionCommand{}); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
