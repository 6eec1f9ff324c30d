package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"schemaviz-backend/application/operations"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/application/queries"
	"schemaviz-backend/domain/schemagraph"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SchemaSource provides the introspected schema
type SchemaSource interface {
	Schema(ctx context.Context) (*schemagraph.Schema, error)
}

// GraphMetrics records the size of built graphs
type GraphMetrics interface {
	RecordGraph(nodes, edges, entities int)
}

// GetSchemaGraphHandler builds the schema graph from fresh data
type GetSchemaGraphHandler struct {
	schemas   SchemaSource
	client    ports.GraphQLClient
	store     ports.EntityStore
	selection ports.SelectionState
	builder   *schemagraph.Builder
	metrics   GraphMetrics
	logger    *zap.Logger
}

// NewGetSchemaGraphHandler creates a new schema graph handler
func NewGetSchemaGraphHandler(
	schemas SchemaSource,
	client ports.GraphQLClient,
	store ports.EntityStore,
	selection ports.SelectionState,
	builder *schemagraph.Builder,
	metrics GraphMetrics,
	logger *zap.Logger,
) *GetSchemaGraphHandler {
	return &GetSchemaGraphHandler{
		schemas:   schemas,
		client:    client,
		store:     store,
		selection: selection,
		builder:   builder,
		metrics:   metrics,
		logger:    logger,
	}
}

// Handle loads the schema and the posts concurrently, then builds the graph
// over a snapshot of the entity store. Neither load failing is fatal: without
// a schema the view is reported as loading, without posts nodes have no
// entries.
func (h *GetSchemaGraphHandler) Handle(ctx context.Context, query queries.GetSchemaGraphQuery) (*queries.SchemaGraphView, error) {
	var schema *schemagraph.Schema

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := h.schemas.Schema(gctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h.logger.Warn("Schema introspection failed", zap.Error(err))
			return nil
		}
		schema = s
		return nil
	})
	g.Go(func() error {
		if err := h.loadPosts(gctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			h.logger.Warn("Posts query failed", zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	selectionID := h.selectionID(query)
	var selected *schemagraph.GraphNode
	if selectionID != "" {
		selected = &schemagraph.GraphNode{ID: selectionID}
	}

	graph := h.builder.Build(schema, h.store.Extract(), selected)
	h.metrics.RecordGraph(len(graph.Nodes), len(graph.Edges), int(graph.Scale.DomainMax))

	h.logger.Debug("Schema graph built",
		zap.Bool("loading", schema == nil),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
		zap.String("selection", selectionID),
	)

	return queries.NewSchemaGraphView(graph, schema == nil, selectionID), nil
}

func (h *GetSchemaGraphHandler) selectionID(query queries.GetSchemaGraphQuery) string {
	if query.Selection != nil {
		return *query.Selection
	}
	id, _ := h.selection.Current()
	return id
}

func (h *GetSchemaGraphHandler) loadPosts(ctx context.Context) error {
	resp, err := h.client.Do(ctx, ports.GraphQLRequest{
		Query:         operations.PostsQuery,
		OperationName: "PostsWithAuthors",
	})
	if err != nil {
		return err
	}
	if resp.HasErrors() {
		return fmt.Errorf("posts query: %s", resp.Errors[0].Message)
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return fmt.Errorf("decode posts: %w", err)
	}
	h.store.Write(schemagraph.RootQueryKey, data)
	return nil
}
