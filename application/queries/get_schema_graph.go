package queries

import (
	"strings"

	"schemaviz-backend/domain/schemagraph"
	apperrors "schemaviz-backend/pkg/errors"
)

// linkValue is the stroke weight every edge is drawn with
const linkValue = 2

// GetSchemaGraphQuery asks for the force graph of the server schema.
// Selection overrides the stored selection for this request only.
type GetSchemaGraphQuery struct {
	Selection *string `json:"selection,omitempty"`
}

// Validate validates the query
func (q GetSchemaGraphQuery) Validate() error {
	if q.Selection != nil && strings.TrimSpace(*q.Selection) == "" {
		return apperrors.NewValidationError("selection must not be blank")
	}
	return nil
}

// NodeView is a graph node with its computed radius
type NodeView struct {
	schemagraph.GraphNode
	Radius float64 `json:"radius"`
}

// EdgeView is a graph edge as drawn
type EdgeView struct {
	schemagraph.GraphEdge
	Value int `json:"value"`
}

// SchemaGraphView is the result of GetSchemaGraphQuery
type SchemaGraphView struct {
	// Loading is true until the schema has been introspected
	Loading     bool                                `json:"loading"`
	Nodes       []NodeView                          `json:"nodes"`
	Edges       []EdgeView                          `json:"edges"`
	Scale       schemagraph.SizeScale               `json:"scale"`
	Selection   *NodeView                           `json:"selection"`
	Selected    map[string]schemagraph.EntityRecord `json:"selected"`
	EntityCount int                                 `json:"entity_count"`
}

// NewSchemaGraphView turns a built graph into its view. selectionID is the
// selected node id, empty when nothing is selected.
func NewSchemaGraphView(graph *schemagraph.Graph, loading bool, selectionID string) *SchemaGraphView {
	view := &SchemaGraphView{
		Loading:     loading,
		Nodes:       make([]NodeView, 0, len(graph.Nodes)),
		Edges:       make([]EdgeView, 0, len(graph.Edges)),
		Scale:       graph.Scale,
		Selected:    graph.Selected,
		EntityCount: int(graph.Scale.DomainMax),
	}

	for _, n := range graph.Nodes {
		view.Nodes = append(view.Nodes, nodeView(n, graph.Scale))
	}
	for _, e := range graph.Edges {
		view.Edges = append(view.Edges, EdgeView{GraphEdge: e, Value: linkValue})
	}

	if selectionID != "" {
		if n := graph.NodeByID(selectionID); n != nil {
			selected := nodeView(*n, graph.Scale)
			view.Selection = &selected
		}
	}
	return view
}

func nodeView(n schemagraph.GraphNode, scale schemagraph.SizeScale) NodeView {
	return NodeView{GraphNode: n, Radius: scale.Radius(len(n.Entries))}
}
