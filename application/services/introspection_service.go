package services

import (
	"context"
	"encoding/json"
	"time"

	"schemaviz-backend/application/operations"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/domain/schemagraph"
	apperrors "schemaviz-backend/pkg/errors"

	"go.uber.org/zap"
)

const introspectionCacheKey = "introspection"

// CacheMetrics records introspection cache lookups
type CacheMetrics interface {
	RecordCacheLookup(hit bool)
}

// IntrospectionService fetches the server schema, keeps it for a TTL and
// mirrors the raw result into the entity store the way a client cache would.
type IntrospectionService struct {
	client  ports.GraphQLClient
	store   ports.EntityStore
	cache   ports.Cache
	ttl     time.Duration
	metrics CacheMetrics
	logger  *zap.Logger
}

type introspectionResult struct {
	schema *schemagraph.Schema
	data   map[string]any
}

// NewIntrospectionService creates the service. A zero ttl disables caching.
func NewIntrospectionService(
	client ports.GraphQLClient,
	store ports.EntityStore,
	cache ports.Cache,
	ttl time.Duration,
	metrics CacheMetrics,
	logger *zap.Logger,
) *IntrospectionService {
	return &IntrospectionService{
		client:  client,
		store:   store,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger,
	}
}

// Schema returns the introspected schema, fetching it when the cached copy
// is missing or expired.
func (s *IntrospectionService) Schema(ctx context.Context) (*schemagraph.Schema, error) {
	if s.ttl > 0 {
		if cached, ok := s.cache.Get(ctx, introspectionCacheKey); ok {
			if result, ok := cached.(*introspectionResult); ok {
				s.metrics.RecordCacheLookup(true)
				s.store.Write(schemagraph.RootQueryKey, result.data)
				return result.schema, nil
			}
		}
		s.metrics.RecordCacheLookup(false)
	}

	result, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.ttl > 0 {
		if err := s.cache.Set(ctx, introspectionCacheKey, result, s.ttl); err != nil {
			s.logger.Warn("Failed to cache introspection result", zap.Error(err))
		}
	}
	s.store.Write(schemagraph.RootQueryKey, result.data)
	return result.schema, nil
}

// Invalidate drops the cached schema so the next call fetches it again
func (s *IntrospectionService) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, introspectionCacheKey)
}

func (s *IntrospectionService) fetch(ctx context.Context) (*introspectionResult, error) {
	resp, err := s.client.Do(ctx, ports.GraphQLRequest{
		Query:         operations.IntrospectionQuery,
		OperationName: "IntrospectionQuery",
	})
	if err != nil {
		return nil, err
	}
	if resp.HasErrors() {
		return nil, apperrors.NewExternalError("graphql", nil).
			WithDetails(map[string]interface{}{"message": resp.Errors[0].Message})
	}

	schema, err := schemagraph.ParseIntrospection(resp.Data)
	if err != nil {
		return nil, apperrors.NewExternalError("graphql", err)
	}
	if schema == nil {
		return nil, apperrors.NewExternalError("graphql", nil).
			WithDetails(map[string]interface{}{"message": "introspection returned no schema"})
	}

	var data map[string]any
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, apperrors.NewExternalError("graphql", err)
	}

	s.logger.Debug("Schema introspected", zap.Int("types", len(schema.Types)))
	return &introspectionResult{schema: schema, data: data}, nil
}
