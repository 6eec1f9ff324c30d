//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"schemaviz-backend/application/ports"
	"schemaviz-backend/infrastructure/cache"
	"schemaviz-backend/infrastructure/config"
	"schemaviz-backend/infrastructure/entitycache"
	"schemaviz-backend/infrastructure/selection"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideZapLogger,
	ProvideTracing,
	ProvideCollector,
	ProvideBlogStore,
	ProvideGraphQLSchema,
	ProvideGraphQLClient,
	ProvideEntityStore,
	wire.Bind(new(ports.EntityStore), new(*entitycache.Store)),
	ProvideSelectionHolder,
	wire.Bind(new(ports.SelectionState), new(*selection.Holder)),
	ProvideInMemoryCache,
	wire.Bind(new(ports.Cache), new(*cache.InMemoryCache)),
	ProvideBuilder,
	ProvideIntrospectionService,
	ProvideEventPublisher,
	ProvideCommandBus,
	ProvideQueryBus,
	ProvideRouter,
	ProvideHTTPHandler,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container. The cleanup function
// releases background resources and flushes traces.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, func(), error) {
	wire.Build(SuperSet)
	return nil, nil, nil
}
