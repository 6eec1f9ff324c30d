package ports

import (
	"context"
	"encoding/json"
	"time"

	"schemaviz-backend/domain/events"
	"schemaviz-backend/domain/schemagraph"
)

// GraphQLRequest is a single GraphQL operation
type GraphQLRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// GraphQLError is one entry of a response's errors list
type GraphQLError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Code returns the "code" extension, if the server set one
func (e GraphQLError) Code() string {
	code, _ := e.Extensions["code"].(string)
	return code
}

// GraphQLResponse carries the raw data and any GraphQL-level errors
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// HasErrors reports whether the server returned GraphQL errors
func (r *GraphQLResponse) HasErrors() bool {
	return r != nil && len(r.Errors) > 0
}

// GraphQLClient executes GraphQL operations.
// Transport failures are returned as errors; GraphQL errors stay in the response.
type GraphQLClient interface {
	Do(ctx context.Context, req GraphQLRequest) (*GraphQLResponse, error)
}

// EntityStore is the normalized client-side cache
type EntityStore interface {
	// Write normalizes data under rootKey and merges it into the store
	Write(rootKey string, data map[string]any)

	// Extract returns a deep copy of the current contents
	Extract() schemagraph.EntityCache

	// Reset empties the store
	Reset()
}

// SelectionState holds the currently selected graph node id
type SelectionState interface {
	Select(id string)
	Clear()
	Current() (string, bool)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// Cache defines the interface for caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set stores a value in cache for ttl
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes all values from cache
	Clear(ctx context.Context) error
}
