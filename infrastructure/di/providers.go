package di

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"schemaviz-backend/application/commands"
	"schemaviz-backend/application/commands/bus"
	commands_handlers "schemaviz-backend/application/commands/handlers"
	"schemaviz-backend/application/ports"
	"schemaviz-backend/application/queries"
	querybus "schemaviz-backend/application/queries/bus"
	queries_handlers "schemaviz-backend/application/queries/handlers"
	"schemaviz-backend/application/services"
	"schemaviz-backend/domain/blog"
	"schemaviz-backend/domain/schemagraph"
	"schemaviz-backend/infrastructure/cache"
	"schemaviz-backend/infrastructure/config"
	"schemaviz-backend/infrastructure/entitycache"
	"schemaviz-backend/infrastructure/graphql"
	"schemaviz-backend/infrastructure/messaging/eventbridge"
	"schemaviz-backend/infrastructure/observability"
	"schemaviz-backend/infrastructure/selection"
	"schemaviz-backend/interfaces/http/rest"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	gql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"go.uber.org/zap"
)

const (
	cacheCleanupInterval = time.Minute
	tracingFlushTimeout  = 5 * time.Second
)

// ProvideLogger creates the leveled application logger
func ProvideLogger(cfg *config.Config) (*observability.Logger, error) {
	return observability.NewLogger(cfg.IsDevelopment(), cfg.Logging.Level)
}

// ProvideZapLogger exposes the underlying zap logger
func ProvideZapLogger(logger *observability.Logger) *zap.Logger {
	return logger.Logger
}

// ProvideTracing starts the tracer provider; the cleanup flushes pending spans
func ProvideTracing(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*observability.TracerProvider, func(), error) {
	tp, err := observability.InitTracing(
		ctx,
		cfg.Tracing.Enabled,
		cfg.ServiceName,
		string(cfg.Environment),
		cfg.Tracing.Endpoint,
		cfg.Tracing.SampleRate,
	)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), tracingFlushTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Failed to shut down tracing", zap.Error(err))
		}
	}
	return tp, cleanup, nil
}

// ProvideCollector creates the Prometheus collector
func ProvideCollector(cfg *config.Config) *observability.Collector {
	return observability.NewCollector(cfg.Metrics.Namespace)
}

// ProvideBlogStore creates the seeded in-process blog data
func ProvideBlogStore() *blog.Store {
	return blog.NewSeededStore()
}

// ProvideGraphQLSchema parses the blog schema
func ProvideGraphQLSchema(store *blog.Store) (*gql.Schema, error) {
	return graphql.NewSchema(store)
}

// ProvideGraphQLClient picks the remote client when an endpoint is
// configured and executes in process otherwise.
func ProvideGraphQLClient(cfg *config.Config, schema *gql.Schema, logger *zap.Logger) ports.GraphQLClient {
	if !cfg.UsesRemoteEndpoint() {
		return graphql.NewLocalClient(schema)
	}

	breaker := graphql.BreakerConfig{
		Name:             "graphql",
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
		Interval:         cfg.CircuitBreaker.Interval,
		Timeout:          cfg.CircuitBreaker.Timeout,
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
		MinRequests:      cfg.CircuitBreaker.MinRequests,
	}
	logger.Info("Using remote GraphQL endpoint", zap.String("endpoint", cfg.GraphQL.Endpoint))
	return graphql.NewHTTPClient(cfg.GraphQL.Endpoint, cfg.GraphQL.Timeout, breaker, logger)
}

// ProvideEntityStore creates the normalized entity cache
func ProvideEntityStore() *entitycache.Store {
	return entitycache.NewStore()
}

// ProvideSelectionHolder creates the selection holder
func ProvideSelectionHolder() *selection.Holder {
	return selection.NewHolder()
}

// ProvideInMemoryCache creates the TTL cache for introspection results
func ProvideInMemoryCache() (*cache.InMemoryCache, func()) {
	c := cache.NewInMemoryCache(cacheCleanupInterval)
	return c, c.Close
}

// ProvideBuilder creates the schema graph builder
func ProvideBuilder(cfg *config.Config) *schemagraph.Builder {
	return schemagraph.NewBuilder(
		schemagraph.WithCacheFilter(schemagraph.CacheFilter{
			ExcludedRootFields: cfg.GraphQL.ExcludedRootFields,
		}),
	)
}

// ProvideIntrospectionService creates the introspection service
func ProvideIntrospectionService(
	client ports.GraphQLClient,
	store ports.EntityStore,
	c ports.Cache,
	collector *observability.Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *services.IntrospectionService {
	return services.NewIntrospectionService(client, store, c, cfg.GraphQL.IntrospectionTTL, collector, logger)
}

// ProvideEventPublisher publishes to EventBridge when events are enabled and
// logs them otherwise.
func ProvideEventPublisher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ports.EventPublisher, error) {
	if !cfg.Events.Enabled {
		return eventbridge.NewLogPublisher(logger), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Events.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return eventbridge.NewPublisher(awseventbridge.NewFromConfig(awsCfg), cfg.Events.EventBusName, logger), nil
}

// CommandHandlerAdapter adapts specific command handlers to the generic interface
type CommandHandlerAdapter struct {
	handler func(context.Context, bus.Command) error
}

// Handle implements bus.CommandHandler
func (a *CommandHandlerAdapter) Handle(ctx context.Context, cmd bus.Command) error {
	return a.handler(ctx, cmd)
}

// ProvideCommandBus creates a command bus with registered handlers
func ProvideCommandBus(
	schemas *services.IntrospectionService,
	client ports.GraphQLClient,
	store ports.EntityStore,
	selectionState ports.SelectionState,
	publisher ports.EventPublisher,
	collector *observability.Collector,
	logger *zap.Logger,
) (*bus.CommandBus, error) {
	commandBus := bus.NewCommandBus(
		bus.MetricsMiddleware(collector),
		bus.LoggingMiddleware(&zapLoggerAdapter{logger}),
	)

	selectHandler := commands_handlers.NewSelectNodeHandler(schemas, selectionState, publisher, logger)
	if err := commandBus.Register(commands.SelectNodeCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			selectCmd, ok := cmd.(commands.SelectNodeCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return selectHandler.Handle(ctx, selectCmd)
		},
	}); err != nil {
		return nil, err
	}

	clearHandler := commands_handlers.NewClearSelectionHandler(selectionState, publisher, logger)
	if err := commandBus.Register(commands.ClearSelectionCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			clearCmd, ok := cmd.(commands.ClearSelectionCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return clearHandler.Handle(ctx, clearCmd)
		},
	}); err != nil {
		return nil, err
	}

	upvoteHandler := commands_handlers.NewUpvotePostHandler(client, store, publisher, collector, logger)
	if err := commandBus.Register(commands.UpvotePostCommand{}, &CommandHandlerAdapter{
		handler: func(ctx context.Context, cmd bus.Command) error {
			upvoteCmd, ok := cmd.(commands.UpvotePostCommand)
			if !ok {
				return fmt.Errorf("invalid command type")
			}
			return upvoteHandler.Handle(ctx, upvoteCmd)
		},
	}); err != nil {
		return nil, err
	}

	return commandBus, nil
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

// Handle implements querybus.QueryHandler
func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers
func ProvideQueryBus(
	schemas *services.IntrospectionService,
	client ports.GraphQLClient,
	store ports.EntityStore,
	selectionState ports.SelectionState,
	builder *schemagraph.Builder,
	collector *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus(
		querybus.MetricsMiddleware(collector),
		querybus.LoggingMiddleware(&zapLoggerAdapter{logger}),
	)

	graphHandler := queries_handlers.NewGetSchemaGraphHandler(schemas, client, store, selectionState, builder, collector, logger)
	if err := queryBus.Register(queries.GetSchemaGraphQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			graphQuery, ok := query.(queries.GetSchemaGraphQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return graphHandler.Handle(ctx, graphQuery)
		},
	}); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideRouter creates the HTTP router
func ProvideRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	schema *gql.Schema,
	store ports.EntityStore,
	collector *observability.Collector,
	tracer *observability.TracerProvider,
	schemas *services.IntrospectionService,
	cfg *config.Config,
	logger *zap.Logger,
) *rest.Router {
	ready := func(ctx context.Context) error {
		_, err := schemas.Schema(ctx)
		return err
	}

	return rest.NewRouter(
		commandBus,
		queryBus,
		&relay.Handler{Schema: schema},
		store,
		collector,
		tracer,
		ready,
		rest.Options{CORS: cfg.CORS, ExposeMetrics: cfg.Metrics.Enabled},
		logger,
	)
}

// ProvideHTTPHandler builds the router's handler
func ProvideHTTPHandler(router *rest.Router) http.Handler {
	return router.Setup()
}

// zapLoggerAdapter adapts zap.Logger to the bus Logger interfaces
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func (a *zapLoggerAdapter) Debug(msg string, fields ...interface{}) {
	a.logger.Debug(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Info(msg string, fields ...interface{}) {
	a.logger.Info(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) Error(msg string, fields ...interface{}) {
	a.logger.Error(msg, a.fieldsToZap(fields...)...)
}

func (a *zapLoggerAdapter) fieldsToZap(fields ...interface{}) []zap.Field {
	var zapFields []zap.Field
	for i := 0; i+1 < len(fields); i += 2 {
		key, _ := fields[i].(string)
		if err, ok := fields[i+1].(error); ok {
			zapFields = append(zapFields, zap.NamedError(key, err))
			continue
		}
		zapFields = append(zapFields, zap.Any(key, fields[i+1]))
	}
	return zapFields
}
