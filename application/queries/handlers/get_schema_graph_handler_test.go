package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"schemaviz-backend/application/ports"
	"schemaviz-backend/application/queries"
	"schemaviz-backend/application/services"
	"schemaviz-backend/domain/blog"
	"schemaviz-backend/domain/schemagraph"
	"schemaviz-backend/infrastructure/cache"
	"schemaviz-backend/infrastructure/entitycache"
	"schemaviz-backend/infrastructure/graphql"
	"schemaviz-backend/infrastructure/selection"
)

type mockGraphMetrics struct {
	mock.Mock
}

func (m *mockGraphMetrics) RecordGraph(nodes, edges, entities int) {
	m.Called(nodes, edges, entities)
}

func (m *mockGraphMetrics) RecordCacheLookup(hit bool) {}

type mockSchemaSource struct {
	mock.Mock
}

func (m *mockSchemaSource) Schema(ctx context.Context) (*schemagraph.Schema, error) {
	args := m.Called(ctx)
	if s := args.Get(0); s != nil {
		return s.(*schemagraph.Schema), args.Error(1)
	}
	return nil, args.Error(1)
}

type failingClient struct {
	err error
}

func (c failingClient) Do(ctx context.Context, req ports.GraphQLRequest) (*ports.GraphQLResponse, error) {
	return nil, c.err
}

type fixture struct {
	handler   *GetSchemaGraphHandler
	store     *entitycache.Store
	selection *selection.Holder
	metrics   *mockGraphMetrics
}

func newFixture(t *testing.T, schemas SchemaSource, client ports.GraphQLClient) *fixture {
	t.Helper()

	store := entitycache.NewStore()
	holder := selection.NewHolder()
	metrics := new(mockGraphMetrics)

	if client == nil {
		schema, err := graphql.NewSchema(blog.NewSeededStore())
		require.NoError(t, err)
		client = graphql.NewLocalClient(schema)
	}
	if schemas == nil {
		memCache := cache.NewInMemoryCache(0)
		t.Cleanup(memCache.Close)
		schemas = services.NewIntrospectionService(client, store, memCache, time.Minute, metrics, zap.NewNop())
	}

	return &fixture{
		handler:   NewGetSchemaGraphHandler(schemas, client, store, holder, schemagraph.NewBuilder(), metrics, zap.NewNop()),
		store:     store,
		selection: holder,
		metrics:   metrics,
	}
}

func nodeIDs(view *queries.SchemaGraphView) []string {
	ids := make([]string, len(view.Nodes))
	for i, n := range view.Nodes {
		ids[i] = n.ID
	}
	return ids
}

func TestGetSchemaGraphHandler_Handle_BuildsBlogGraph(t *testing.T) {
	f := newFixture(t, nil, nil)
	f.metrics.On("RecordGraph", 4, 5, mock.AnythingOfType("int")).Return()

	view, err := f.handler.Handle(context.Background(), queries.GetSchemaGraphQuery{})
	require.NoError(t, err)

	assert.False(t, view.Loading)
	assert.Equal(t, []string{"Author", "Mutation", "Post", "Query"}, nodeIDs(view))
	assert.Len(t, view.Edges, 5)
	for _, e := range view.Edges {
		assert.Equal(t, 2, e.Value)
	}
	assert.Nil(t, view.Selection)
	assert.Empty(t, view.Selected)

	// 3 authors, 7 posts and ROOT_QUERY
	assert.Equal(t, 11, view.EntityCount)

	byID := map[string]queries.NodeView{}
	for _, n := range view.Nodes {
		byID[n.ID] = n
	}
	assert.Len(t, byID["Post"].Entries, 7)
	assert.Len(t, byID["Author"].Entries, 3)
	assert.Empty(t, byID["Mutation"].Entries)
	assert.Empty(t, byID["Query"].Entries)
	assert.InDelta(t, 15+35*7.0/11.0, byID["Post"].Radius, 1e-9)
	assert.InDelta(t, 15.0, byID["Query"].Radius, 1e-9)

	f.metrics.AssertExpectations(t)
}

func TestGetSchemaGraphHandler_Handle_Selection(t *testing.T) {
	tests := []struct {
		name          string
		stored        string
		override      *string
		wantSelection string
		wantSelected  int
	}{
		{name: "stored selection", stored: "Author", wantSelection: "Author", wantSelected: 3},
		{name: "override wins", stored: "Author", override: strPtr("Post"), wantSelection: "Post", wantSelected: 7},
		{name: "type without entries", stored: "Query", wantSelection: "Query", wantSelected: 0},
		{name: "unknown type", stored: "Comment", wantSelected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil, nil)
			f.metrics.On("RecordGraph", mock.Anything, mock.Anything, mock.Anything).Return()
			f.selection.Select(tt.stored)

			view, err := f.handler.Handle(context.Background(), queries.GetSchemaGraphQuery{Selection: tt.override})
			require.NoError(t, err)

			if tt.wantSelection == "" {
				assert.Nil(t, view.Selection)
			} else {
				require.NotNil(t, view.Selection)
				assert.Equal(t, tt.wantSelection, view.Selection.ID)
			}
			assert.Len(t, view.Selected, tt.wantSelected)
		})
	}
}

func TestGetSchemaGraphHandler_Handle_IntrospectionFailure(t *testing.T) {
	schemas := new(mockSchemaSource)
	schemas.On("Schema", mock.Anything).Return(nil, errors.New("connection refused"))

	f := newFixture(t, schemas, nil)
	f.metrics.On("RecordGraph", 0, 0, 11).Return()

	view, err := f.handler.Handle(context.Background(), queries.GetSchemaGraphQuery{})
	require.NoError(t, err)

	assert.True(t, view.Loading)
	assert.Empty(t, view.Nodes)
	assert.Empty(t, view.Edges)

	// posts are still cached
	snapshot := f.store.Extract()
	assert.Contains(t, snapshot, "Post:1")
	assert.Contains(t, snapshot, "Author:3")
	schemas.AssertExpectations(t)
	f.metrics.AssertExpectations(t)
}

func TestGetSchemaGraphHandler_Handle_PostsFailure(t *testing.T) {
	schema, err := graphql.NewSchema(blog.NewSeededStore())
	require.NoError(t, err)
	local := graphql.NewLocalClient(schema)

	store := entitycache.NewStore()
	memCache := cache.NewInMemoryCache(0)
	defer memCache.Close()
	metrics := new(mockGraphMetrics)
	metrics.On("RecordGraph", 4, 5, 1).Return()

	schemas := services.NewIntrospectionService(local, store, memCache, time.Minute, metrics, zap.NewNop())
	handler := NewGetSchemaGraphHandler(
		schemas,
		failingClient{err: errors.New("boom")},
		store,
		selection.NewHolder(),
		schemagraph.NewBuilder(),
		metrics,
		zap.NewNop(),
	)

	view, err := handler.Handle(context.Background(), queries.GetSchemaGraphQuery{})
	require.NoError(t, err)
	assert.False(t, view.Loading)
	assert.Len(t, view.Nodes, 4)
	for _, n := range view.Nodes {
		assert.Empty(t, n.Entries)
	}
	metrics.AssertExpectations(t)
}

func TestGetSchemaGraphHandler_Handle_Cancelled(t *testing.T) {
	schemas := new(mockSchemaSource)
	schemas.On("Schema", mock.Anything).Return(nil, context.Canceled)

	f := newFixture(t, schemas, failingClient{err: context.Canceled})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.handler.Handle(ctx, queries.GetSchemaGraphQuery{})
	assert.ErrorIs(t, err, context.Canceled)
	f.metrics.AssertNotCalled(t, "RecordGraph", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetSchemaGraphQuery_Validate(t *testing.T) {
	assert.NoError(t, queries.GetSchemaGraphQuery{}.Validate())
	assert.NoError(t, queries.GetSchemaGraphQuery{Selection: strPtr("Post")}.Validate())
	assert.Error(t, queries.GetSchemaGraphQuery{Selection: strPtr("  ")}.Validate())
}

func strPtr(s string) *string {
	return &s
}
