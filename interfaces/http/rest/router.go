package rest

import (
	"context"
	"net/http"
	"time"

	"schemaviz-backend/application/commands/bus"
	"schemaviz-backend/application/ports"
	querybus "schemaviz-backend/application/queries/bus"
	"schemaviz-backend/infrastructure/config"
	"schemaviz-backend/interfaces/http/rest/handlers"
	"schemaviz-backend/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// readinessTimeout bounds a single readiness probe
const readinessTimeout = 5 * time.Second

// ReadinessCheck reports whether the service can serve the schema graph
type ReadinessCheck func(ctx context.Context) error

// MetricsExporter records HTTP traffic and exposes the scrape endpoint
type MetricsExporter interface {
	middleware.HTTPMetrics
	Handler() http.Handler
}

// Options tunes the router
type Options struct {
	CORS          config.CORS
	ExposeMetrics bool
}

// Router creates and configures the HTTP router
type Router struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	graphql    http.Handler
	store      ports.EntityStore
	metrics    MetricsExporter
	tracer     middleware.SpanStarter
	ready      ReadinessCheck
	options    Options
	logger     *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	graphql http.Handler,
	store ports.EntityStore,
	metrics MetricsExporter,
	tracer middleware.SpanStarter,
	ready ReadinessCheck,
	options Options,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus: commandBus,
		queryBus:   queryBus,
		graphql:    graphql,
		store:      store,
		metrics:    metrics,
		tracer:     tracer,
		ready:      ready,
		options:    options,
		logger:     logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Tracing(rt.tracer))
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.options.CORS.AllowedOrigins,
		AllowedMethods: rt.options.CORS.AllowedMethods,
		AllowedHeaders: rt.options.CORS.AllowedHeaders,
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         rt.options.CORS.MaxAge,
	}))

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.options.ExposeMetrics {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Method(http.MethodPost, "/graphql", rt.graphql)

	router.Route("/api/v1", func(r chi.Router) {
		schemaGraphHandler := handlers.NewSchemaGraphHandler(rt.commandBus, rt.queryBus, rt.logger)
		r.Get("/schema-graph", schemaGraphHandler.GetSchemaGraph)
		r.Put("/selection", schemaGraphHandler.SelectNode)
		r.Delete("/selection", schemaGraphHandler.ClearSelection)

		postHandler := handlers.NewPostHandler(rt.commandBus, rt.store, rt.logger)
		r.Post("/posts/{postID}/upvote", postHandler.UpvotePost)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the GraphQL schema can be introspected
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	w.Header().Set("Content-Type", "application/json")
	if err := rt.ready(ctx); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status":"not ready"}`))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
