package schemagraph

import (
	"sort"
	"strings"
)

// ReservedPrefix marks introspection-internal type names such as __Schema.
const ReservedPrefix = "_"

// GraphNode is one defined object type.
type GraphNode struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Color   string   `json:"color"`
	Entries []string `json:"entries"`
}

// GraphEdge links a type to the type one of its fields returns.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the output of a single build.
type Graph struct {
	Nodes    []GraphNode             `json:"nodes"`
	Edges    []GraphEdge             `json:"edges"`
	Scale    SizeScale               `json:"scale"`
	Selected map[string]EntityRecord `json:"selected"`
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *GraphNode {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// IsDefinedType reports whether t can be drawn as a node: an OBJECT with a
// name outside the reserved introspection namespace.
func IsDefinedType(t *IntrospectedType) bool {
	if t == nil || t.Kind != KindObject || t.Name == nil {
		return false
	}
	name := *t.Name
	return name != "" && !strings.HasPrefix(name, ReservedPrefix)
}

// Builder derives graphs. The zero value is not usable; call NewBuilder.
type Builder struct {
	ramp      ColorRamp
	filter    CacheFilter
	minRadius float64
	maxRadius float64
}

// Option configures a Builder.
type Option func(*Builder)

// WithColorRamp swaps the node colour strategy.
func WithColorRamp(ramp ColorRamp) Option {
	return func(b *Builder) {
		b.ramp = ramp
	}
}

// WithCacheFilter replaces the rule that hides introspection records.
func WithCacheFilter(filter CacheFilter) Option {
	return func(b *Builder) {
		b.filter = filter
	}
}

// NewBuilder returns a builder using the LCh ramp, the default cache filter
// and the 15..50 radius range.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		ramp:      DefaultRamp(),
		filter:    DefaultCacheFilter(),
		minRadius: MinRadius,
		maxRadius: MaxRadius,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build derives the full graph. A nil schema means introspection has not
// completed yet and produces a graph with no nodes and no edges; the scale and
// the selection are still computed from the cache.
func (b *Builder) Build(schema *Schema, cache EntityCache, selection *GraphNode) *Graph {
	filtered := b.filter.Apply(cache)

	return &Graph{
		Nodes:    b.buildNodes(schema, filtered),
		Edges:    BuildEdges(schema),
		Scale:    NewSizeScale(len(filtered), b.minRadius, b.maxRadius),
		Selected: ResolveSelection(cache, selection),
	}
}

// BuildNodes returns one node per defined type, in introspection order.
func (b *Builder) BuildNodes(schema *Schema, cache EntityCache) []GraphNode {
	return b.buildNodes(schema, b.filter.Apply(cache))
}

func (b *Builder) buildNodes(schema *Schema, filtered EntityCache) []GraphNode {
	types := definedTypes(schema)
	nodes := make([]GraphNode, 0, len(types))
	if len(types) == 0 {
		return nodes
	}

	colors := b.ramp.Colors(len(types))
	byTypename := groupByTypename(filtered)

	for i, t := range types {
		name := t.TypeName()
		entries := byTypename[name]
		if entries == nil {
			entries = []string{}
		}
		nodes = append(nodes, GraphNode{
			ID:      name,
			Label:   name,
			Color:   colorAt(colors, i),
			Entries: entries,
		})
	}
	return nodes
}

// BuildEdges emits one edge per field of a defined type whose return type is
// itself defined, directly or as the element of a LIST. A target that is not
// listed in schema.Types is skipped so no edge dangles.
func BuildEdges(schema *Schema) []GraphEdge {
	edges := []GraphEdge{}
	types := definedTypes(schema)

	known := make(map[string]struct{}, len(types))
	for _, t := range types {
		known[t.TypeName()] = struct{}{}
	}

	for _, t := range types {
		for _, field := range t.Fields {
			target, ok := edgeTarget(field.Type)
			if !ok {
				continue
			}
			if _, listed := known[target]; !listed {
				continue
			}
			edges = append(edges, GraphEdge{Source: t.TypeName(), Target: target})
		}
	}
	return edges
}

func edgeTarget(t IntrospectedType) (string, bool) {
	if IsDefinedType(&t) {
		return *t.Name, true
	}
	if t.Kind == KindList && IsDefinedType(t.OfType) {
		return *t.OfType.Name, true
	}
	return "", false
}

func definedTypes(schema *Schema) []IntrospectedType {
	if schema == nil {
		return nil
	}
	types := make([]IntrospectedType, 0, len(schema.Types))
	for i := range schema.Types {
		if IsDefinedType(&schema.Types[i]) {
			types = append(types, schema.Types[i])
		}
	}
	return types
}

func groupByTypename(cache EntityCache) map[string][]string {
	groups := make(map[string][]string)
	for key, record := range cache {
		if name, ok := record.Typename(); ok {
			groups[name] = append(groups[name], key)
		}
	}
	for _, keys := range groups {
		sort.Strings(keys)
	}
	return groups
}

// colorAt tolerates a ramp that returns fewer colours than asked for.
func colorAt(colors []string, i int) string {
	if i < len(colors) {
		return colors[i]
	}
	return ""
}
