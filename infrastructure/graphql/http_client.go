package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"schemaviz-backend/application/ports"
	apperrors "schemaviz-backend/pkg/errors"
)

// RequestIDHeader carries the per-request id sent to the remote endpoint.
const RequestIDHeader = "X-Request-ID"

// BreakerConfig holds circuit breaker settings for the remote endpoint
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for circuit breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.8,
		MinRequests:      5,
	}
}

// HTTPClient posts operations to a remote GraphQL endpoint.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	tracer     trace.Tracer
	logger     *zap.Logger
}

// NewHTTPClient creates a client for endpoint. timeout bounds each request.
func NewHTTPClient(endpoint string, timeout time.Duration, cfg BreakerConfig, logger *zap.Logger) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &HTTPClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("schemaviz-backend/graphql"),
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// Do sends req and decodes the response. GraphQL errors are returned in the
// response; only transport and decoding failures produce an error.
func (c *HTTPClient) Do(ctx context.Context, req ports.GraphQLRequest) (*ports.GraphQLResponse, error) {
	requestID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, "graphql.http.Do",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graphql.operation", req.OperationName),
			attribute.String("http.url", c.endpoint),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.send(ctx, requestID, req)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		switch err {
		case gobreaker.ErrOpenState, gobreaker.ErrTooManyRequests:
			return nil, apperrors.NewUnavailableError(c.endpoint).WithCause(err)
		}
		return nil, err
	}

	resp := result.(*ports.GraphQLResponse)
	span.SetAttributes(attribute.Int("graphql.errors", len(resp.Errors)))
	return resp, nil
}

func (c *HTTPClient) send(ctx context.Context, requestID string, req ports.GraphQLRequest) (*ports.GraphQLResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid graphql request").WithCause(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build graphql request").WithCause(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError("graphql request").WithCause(err)
		}
		return nil, apperrors.NewNetworkError("graphql request failed", err)
	}
	defer httpResp.Body.Close()

	payload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError("failed to read graphql response", err)
	}

	c.logger.Debug("GraphQL request completed",
		zap.String("request_id", requestID),
		zap.String("operation", req.OperationName),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if httpResp.StatusCode >= http.StatusInternalServerError {
		return nil, apperrors.NewExternalError(c.endpoint, fmt.Errorf("unexpected status %d", httpResp.StatusCode))
	}

	var resp ports.GraphQLResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, apperrors.NewExternalError(c.endpoint, fmt.Errorf("status %d: %w", httpResp.StatusCode, err))
	}
	return &resp, nil
}
