package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"schemaviz-backend/application/ports"
	"schemaviz-backend/application/queries"
	"schemaviz-backend/application/queries/handlers"
	"schemaviz-backend/application/services"
	"schemaviz-backend/domain/blog"
	"schemaviz-backend/domain/schemagraph"
	"schemaviz-backend/infrastructure/cache"
	"schemaviz-backend/infrastructure/entitycache"
	"schemaviz-backend/infrastructure/graphql"
	"schemaviz-backend/infrastructure/observability"
	"schemaviz-backend/infrastructure/selection"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type options struct {
	endpoint string
	output   string
	timeout  time.Duration
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "schemagraph",
		Short: "Inspect a GraphQL schema as a force graph",
		Long: `schemagraph introspects a GraphQL endpoint and prints the graph of its
object types. Without --endpoint the embedded blog schema is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "json" && opts.output != "yaml" {
				return fmt.Errorf("unsupported output format %q, want json or yaml", opts.output)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.endpoint, "endpoint", "", "GraphQL endpoint URL (default: embedded blog schema)")
	flags.StringVarP(&opts.output, "output", "o", "json", "output format: json or yaml")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")

	rootCmd.AddCommand(newIntrospectCmd(opts), newBuildCmd(opts))
	return rootCmd
}

func newIntrospectCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "introspect",
		Short: "Print the introspected schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(opts)
			if err != nil {
				return err
			}
			defer env.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			schema, err := env.schemas.Schema(ctx)
			if err != nil {
				return fmt.Errorf("introspection failed: %w", err)
			}
			return write(cmd.OutOrStdout(), opts.output, schema)
		},
	}
}

func newBuildCmd(opts *options) *cobra.Command {
	var selected string

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build and print the schema graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(opts)
			if err != nil {
				return err
			}
			defer env.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			query := queries.GetSchemaGraphQuery{}
			if cmd.Flags().Changed("selection") {
				query.Selection = &selected
			}
			if err := query.Validate(); err != nil {
				return err
			}

			view, err := env.graphs.Handle(ctx, query)
			if err != nil {
				return err
			}
			if view.Loading {
				return fmt.Errorf("schema could not be introspected")
			}
			return write(cmd.OutOrStdout(), opts.output, view)
		},
	}

	cmd.Flags().StringVar(&selected, "selection", "", "type name to select")
	return cmd
}

// environment is the application wiring for a single CLI run
type environment struct {
	schemas *services.IntrospectionService
	graphs  *handlers.GetSchemaGraphHandler
	close   func()
}

func newEnvironment(opts *options) (*environment, error) {
	logger := zap.NewNop()
	if opts.verbose {
		l, err := observability.NewLogger(true, "debug")
		if err != nil {
			return nil, err
		}
		logger = l.Logger
	}

	var client ports.GraphQLClient
	if opts.endpoint != "" {
		client = graphql.NewHTTPClient(opts.endpoint, opts.timeout, graphql.DefaultBreakerConfig("graphql"), logger)
	} else {
		schema, err := graphql.NewSchema(blog.NewSeededStore())
		if err != nil {
			return nil, err
		}
		client = graphql.NewLocalClient(schema)
	}

	store := entitycache.NewStore()
	memCache := cache.NewInMemoryCache(0)
	collector := observability.NewCollector("schemagraph")

	schemas := services.NewIntrospectionService(client, store, memCache, time.Minute, collector, logger)
	graphs := handlers.NewGetSchemaGraphHandler(
		schemas,
		client,
		store,
		selection.NewHolder(),
		schemagraph.NewBuilder(),
		collector,
		logger,
	)

	return &environment{
		schemas: schemas,
		graphs:  graphs,
		close: func() {
			memCache.Close()
			_ = logger.Sync()
		},
	}, nil
}

// write encodes v as indented JSON, or as YAML with the same key names
func write(w io.Writer, format string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	if format == "json" {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
