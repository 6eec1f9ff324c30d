package graphql

import (
	"context"
	"encoding/json"

	gql "github.com/graph-gophers/graphql-go"

	"schemaviz-backend/application/ports"
	apperrors "schemaviz-backend/pkg/errors"
)

// LocalClient executes operations against an in-process schema.
type LocalClient struct {
	schema *gql.Schema
}

// NewLocalClient creates a client bound to schema
func NewLocalClient(schema *gql.Schema) *LocalClient {
	return &LocalClient{schema: schema}
}

// Do executes req. Variables go through a JSON round trip so they reach the
// resolvers exactly as they would over HTTP.
func (c *LocalClient) Do(ctx context.Context, req ports.GraphQLRequest) (*ports.GraphQLResponse, error) {
	if req.Query == "" {
		return nil, apperrors.NewValidationError("query is required")
	}

	vars, err := normalizeVariables(req.Variables)
	if err != nil {
		return nil, apperrors.NewValidationError("variables must be JSON encodable").WithCause(err)
	}

	resp := c.schema.Exec(ctx, req.Query, req.OperationName, vars)

	out := &ports.GraphQLResponse{Data: resp.Data}
	for _, qe := range resp.Errors {
		out.Errors = append(out.Errors, ports.GraphQLError{
			Message:    qe.Message,
			Path:       qe.Path,
			Extensions: qe.Extensions,
		})
	}
	return out, nil
}

func normalizeVariables(vars map[string]any) (map[string]interface{}, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(vars)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
