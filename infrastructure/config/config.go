package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Environment is the deployment environment
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
)

// Config holds all application configuration
type Config struct {
	Environment Environment `yaml:"environment" json:"environment" validate:"required,oneof=development staging production"`
	ServiceName string      `yaml:"service_name" json:"service_name" validate:"required"`

	// Lambda configuration
	IsLambda bool `yaml:"is_lambda" json:"is_lambda"`

	Server         Server         `yaml:"server" json:"server"`
	GraphQL        GraphQL        `yaml:"graphql" json:"graphql"`
	Logging        Logging        `yaml:"logging" json:"logging"`
	Metrics        Metrics        `yaml:"metrics" json:"metrics"`
	Tracing        Tracing        `yaml:"tracing" json:"tracing"`
	Events         Events         `yaml:"events" json:"events"`
	CORS           CORS           `yaml:"cors" json:"cors"`
	CircuitBreaker CircuitBreaker `yaml:"circuit_breaker" json:"circuit_breaker"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-" json:"-"`
}

// Server configures the HTTP listener
type Server struct {
	Address         string        `yaml:"address" json:"address" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" json:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" json:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout" validate:"gt=0"`
}

// GraphQL configures where the schema graph reads its data from.
// An empty Endpoint means the in-process blog schema.
type GraphQL struct {
	Endpoint         string        `yaml:"endpoint" json:"endpoint" validate:"omitempty,url"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout" validate:"gt=0"`
	IntrospectionTTL time.Duration `yaml:"introspection_ttl" json:"introspection_ttl" validate:"gte=0"`
	// ExcludedRootFields are hidden from entity grouping, "__schema" by default
	ExcludedRootFields []string `yaml:"excluded_root_fields" json:"excluded_root_fields" validate:"dive,required"`
}

// Logging configures zap
type Logging struct {
	Level string `yaml:"level" json:"level" validate:"oneof=debug info warn error"`
}

// Metrics configures the Prometheus collector
type Metrics struct {
	Enabled   bool   `yaml:"enabled" json:"enabled"`
	Namespace string `yaml:"namespace" json:"namespace" validate:"required"`
}

// Tracing configures the OpenTelemetry exporter
type Tracing struct {
	Enabled    bool    `yaml:"enabled" json:"enabled"`
	Endpoint   string  `yaml:"endpoint" json:"endpoint" validate:"required_if=Enabled true"`
	SampleRate float64 `yaml:"sample_rate" json:"sample_rate" validate:"gte=0,lte=1"`
}

// Events configures domain event publishing
type Events struct {
	Enabled      bool   `yaml:"enabled" json:"enabled"`
	EventBusName string `yaml:"event_bus_name" json:"event_bus_name" validate:"required_if=Enabled true"`
	Region       string `yaml:"region" json:"region"`
}

// CORS configures cross-origin access
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers"`
	MaxAge         int      `yaml:"max_age" json:"max_age" validate:"gte=0"`
}

// CircuitBreaker configures the breaker around a remote GraphQL endpoint
type CircuitBreaker struct {
	MaxRequests      uint32        `yaml:"max_requests" json:"max_requests"`
	Interval         time.Duration `yaml:"interval" json:"interval"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	FailureThreshold float64       `yaml:"failure_threshold" json:"failure_threshold" validate:"gt=0,lte=1"`
	MinRequests      uint32        `yaml:"min_requests" json:"min_requests"`
}

var validate = validator.New()

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// UsesRemoteEndpoint reports whether data comes from a remote GraphQL server
func (c *Config) UsesRemoteEndpoint() bool {
	return c.GraphQL.Endpoint != ""
}

// Default returns the configuration used before any file or variable applies
func Default(env Environment) *Config {
	level := "info"
	if env == Development {
		level = "debug"
	}
	return &Config{
		Environment: env,
		ServiceName: "schemaviz-backend",
		Server: Server{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		GraphQL: GraphQL{
			Timeout:            10 * time.Second,
			IntrospectionTTL:   5 * time.Minute,
			ExcludedRootFields: []string{"__schema"},
		},
		Logging: Logging{Level: level},
		Metrics: Metrics{Enabled: true, Namespace: "schemaviz"},
		Tracing: Tracing{SampleRate: 0.1},
		Events: Events{
			EventBusName: "schemaviz-events",
			Region:       "us-west-2",
		},
		CORS: CORS{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			MaxAge:         300,
		},
		CircuitBreaker: CircuitBreaker{
			MaxRequests:      5,
			Interval:         30 * time.Second,
			Timeout:          60 * time.Second,
			FailureThreshold: 0.8,
			MinRequests:      5,
		},
	}
}

// applyEnvironmentVariables overlays environment variables, the highest
// priority source.
func applyEnvironmentVariables(cfg *Config) {
	cfg.ServiceName = getEnv("SERVICE_NAME", cfg.ServiceName)
	cfg.IsLambda = getEnvBool("IS_LAMBDA", cfg.IsLambda || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")

	cfg.Server.Address = getEnv("SERVER_ADDRESS", cfg.Server.Address)

	cfg.GraphQL.Endpoint = getEnv("GRAPHQL_ENDPOINT", cfg.GraphQL.Endpoint)
	cfg.GraphQL.Timeout = getEnvDuration("GRAPHQL_TIMEOUT", cfg.GraphQL.Timeout)
	cfg.GraphQL.IntrospectionTTL = getEnvDuration("INTROSPECTION_TTL", cfg.GraphQL.IntrospectionTTL)
	cfg.GraphQL.ExcludedRootFields = getEnvList("EXCLUDED_ROOT_FIELDS", cfg.GraphQL.ExcludedRootFields)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)

	cfg.Metrics.Enabled = getEnvBool("ENABLE_METRICS", cfg.Metrics.Enabled)
	cfg.Metrics.Namespace = getEnv("METRICS_NAMESPACE", cfg.Metrics.Namespace)

	cfg.Tracing.Enabled = getEnvBool("ENABLE_TRACING", cfg.Tracing.Enabled)
	cfg.Tracing.Endpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SampleRate = getEnvFloat("TRACE_SAMPLE_RATE", cfg.Tracing.SampleRate)

	cfg.Events.Enabled = getEnvBool("ENABLE_EVENTS", cfg.Events.Enabled)
	cfg.Events.EventBusName = getEnv("EVENT_BUS_NAME", cfg.Events.EventBusName)
	cfg.Events.Region = getEnv("AWS_REGION", cfg.Events.Region)

	cfg.CORS.AllowedOrigins = getEnvList("CORS_ALLOWED_ORIGINS", cfg.CORS.AllowedOrigins)
}

// getEnvironment reads ENVIRONMENT, defaulting to development
func getEnvironment() Environment {
	return Environment(strings.ToLower(getEnv("ENVIRONMENT", string(Development))))
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
