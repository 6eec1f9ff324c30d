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

	"schemaviz-backend/application/commands"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/domain/blog"
	"schemaviz-backend/domain/events"
	"schemaviz-backend/domain/schemagraph"
	"schemaviz-backend/infrastructure/entitycache"
	"schemaviz-backend/infrastructure/graphql"
	"schemaviz-backend/infrastructure/selection"
	apperrors "schemaviz-backend/pkg/errors"
)

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockPublisher) PublishBatch(ctx context.Context, domainEvents []events.DomainEvent) error {
	return m.Called(ctx, domainEvents).Error(0)
}

type upvoteCounter struct {
	count int
}

func (c *upvoteCounter) RecordUpvote() { c.count++ }

type staticSchema struct {
	schema *schemagraph.Schema
	err    error
}

func (s staticSchema) Schema(ctx context.Context) (*schemagraph.Schema, error) {
	return s.schema, s.err
}

type stubClient struct {
	resp *ports.GraphQLResponse
	err  error
}

func (c stubClient) Do(ctx context.Context, req ports.GraphQLRequest) (*ports.GraphQLResponse, error) {
	return c.resp, c.err
}

func blogSchema() *schemagraph.Schema {
	object := func(name string) schemagraph.IntrospectedType {
		return schemagraph.IntrospectedType{Kind: schemagraph.KindObject, Name: &name}
	}
	reserved := "__Type"
	scalar := "Int"
	return &schemagraph.Schema{
		QueryType: &schemagraph.RootType{Name: "Query"},
		Types: []schemagraph.IntrospectedType{
			object("Query"),
			object("Post"),
			object("Author"),
			{Kind: schemagraph.KindObject, Name: &reserved},
			{Kind: schemagraph.KindScalar, Name: &scalar},
		},
	}
}

func newLocalClient(t *testing.T) ports.GraphQLClient {
	t.Helper()
	schema, err := graphql.NewSchema(blog.NewSeededStore())
	require.NoError(t, err)
	return graphql.NewLocalClient(schema)
}

func TestSelectNodeHandler_Handle(t *testing.T) {
	tests := []struct {
		name         string
		id           string
		wantNotFound bool
	}{
		{name: "object type", id: "Post"},
		{name: "root type", id: "Query"},
		{name: "reserved type", id: "__Type", wantNotFound: true},
		{name: "scalar", id: "Int", wantNotFound: true},
		{name: "unknown", id: "Comment", wantNotFound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holder := selection.NewHolder()
			publisher := new(mockPublisher)
			handler := NewSelectNodeHandler(staticSchema{schema: blogSchema()}, holder, publisher, zap.NewNop())
			handler.now = func() time.Time { return fixedTime }

			if !tt.wantNotFound {
				publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.SelectionChanged) bool {
					return e.NodeID == tt.id && e.GetTimestamp().Equal(fixedTime)
				})).Return(nil).Once()
			}

			err := handler.Handle(context.Background(), commands.SelectNodeCommand{ID: tt.id})

			current, ok := holder.Current()
			if tt.wantNotFound {
				assert.True(t, apperrors.IsNotFound(err), "got %v", err)
				assert.False(t, ok)
			} else {
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, tt.id, current)
			}
			publisher.AssertExpectations(t)
		})
	}
}

func TestSelectNodeHandler_Handle_SchemaUnavailable(t *testing.T) {
	holder := selection.NewHolder()
	holder.Select("Author")
	publisher := new(mockPublisher)

	handler := NewSelectNodeHandler(
		staticSchema{err: apperrors.NewUnavailableError("graphql")},
		holder,
		publisher,
		zap.NewNop(),
	)

	err := handler.Handle(context.Background(), commands.SelectNodeCommand{ID: "Post"})
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnavailable))

	current, _ := holder.Current()
	assert.Equal(t, "Author", current)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestClearSelectionHandler_Handle(t *testing.T) {
	holder := selection.NewHolder()
	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.SelectionChanged) bool {
		return e.NodeID == ""
	})).Return(errors.New("bus down")).Once()

	handler := NewClearSelectionHandler(holder, publisher, zap.NewNop())

	// nothing selected, nothing published
	require.NoError(t, handler.Handle(context.Background(), commands.ClearSelectionCommand{}))

	holder.Select("Post")
	require.NoError(t, handler.Handle(context.Background(), commands.ClearSelectionCommand{}))

	_, ok := holder.Current()
	assert.False(t, ok)
	publisher.AssertExpectations(t)
}

func TestUpvotePostHandler_Handle(t *testing.T) {
	store := entitycache.NewStore()
	store.Write(schemagraph.RootQueryKey, map[string]any{
		"posts": []any{
			map[string]any{"__typename": "Post", "id": float64(4), "title": "Launchpad is Cool", "votes": float64(7)},
		},
	})

	publisher := new(mockPublisher)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.PostUpvoted) bool {
		return e.PostID == 4 && e.Votes == 8 && e.GetAggregateID() == "Post:4"
	})).Return(nil).Once()
	counter := &upvoteCounter{}

	handler := NewUpvotePostHandler(newLocalClient(t), store, publisher, counter, zap.NewNop())
	require.NoError(t, handler.Handle(context.Background(), commands.UpvotePostCommand{PostID: 4}))

	snapshot := store.Extract()
	post := snapshot["Post:4"]
	assert.Equal(t, float64(8), post["votes"])
	assert.Equal(t, "Launchpad is Cool", post["title"])
	assert.Equal(t, schemagraph.NewReference("Post:4", false), snapshot[schemagraph.RootMutationKey]["upvotePost"])
	assert.Equal(t, 1, counter.count)
	publisher.AssertExpectations(t)
}

func TestUpvotePostHandler_Handle_Errors(t *testing.T) {
	tests := []struct {
		name     string
		client   ports.GraphQLClient
		postID   int32
		wantType apperrors.ErrorType
		wantMsg  string
	}{
		{
			name:     "unknown post",
			postID:   42,
			wantType: apperrors.ErrorTypeNotFound,
			wantMsg:  "Couldn't find post with id 42",
		},
		{
			name:     "transport failure",
			client:   stubClient{err: apperrors.NewNetworkError("dial", errors.New("refused"))},
			postID:   1,
			wantType: apperrors.ErrorTypeNetwork,
		},
		{
			name: "other graphql error",
			client: stubClient{resp: &ports.GraphQLResponse{
				Errors: []ports.GraphQLError{{Message: "rate limited"}},
			}},
			postID:   1,
			wantType: apperrors.ErrorTypeExternal,
		},
		{
			name:     "null post",
			client:   stubClient{resp: &ports.GraphQLResponse{Data: []byte(`{"upvotePost":null}`)}},
			postID:   1,
			wantType: apperrors.ErrorTypeExternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := tt.client
			if client == nil {
				client = newLocalClient(t)
			}
			store := entitycache.NewStore()
			publisher := new(mockPublisher)
			counter := &upvoteCounter{}

			handler := NewUpvotePostHandler(client, store, publisher, counter, zap.NewNop())
			err := handler.Handle(context.Background(), commands.UpvotePostCommand{PostID: tt.postID})

			require.Error(t, err)
			assert.True(t, apperrors.IsType(err, tt.wantType), "got %v", err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperrors.GetAppError(err).Message)
			}
			assert.Zero(t, store.Len())
			assert.Zero(t, counter.count)
			publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
		})
	}
}
