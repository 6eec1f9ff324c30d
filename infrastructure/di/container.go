package di

import (
	"net/http"

	"schemaviz-backend/application/commands/bus"
	querybus "schemaviz-backend/application/queries/bus"
	"schemaviz-backend/application/services"
	"schemaviz-backend/infrastructure/config"
	"schemaviz-backend/infrastructure/entitycache"
	"schemaviz-backend/infrastructure/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *observability.Logger
	ZapLogger     *zap.Logger
	Tracing       *observability.TracerProvider
	Metrics       *observability.Collector
	EntityStore   *entitycache.Store
	Introspection *services.IntrospectionService
	CommandBus    *bus.CommandBus
	QueryBus      *querybus.QueryBus
	Handler       http.Handler
}
