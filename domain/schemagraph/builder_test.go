package schemagraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func objectRef(name string) IntrospectedType {
	return IntrospectedType{Kind: KindObject, Name: strPtr(name)}
}

func listOf(t IntrospectedType) IntrospectedType {
	return IntrospectedType{Kind: KindList, OfType: &t}
}

func scalarRef(name string) IntrospectedType {
	return IntrospectedType{Kind: KindScalar, Name: strPtr(name)}
}

func blogSchema() *Schema {
	return &Schema{
		Types: []IntrospectedType{
			{
				Kind: KindObject,
				Name: strPtr("Post"),
				Fields: []IntrospectedField{
					{Name: "id", Type: IntrospectedType{Kind: KindNonNull, OfType: &IntrospectedType{Kind: KindScalar, Name: strPtr("Int")}}},
					{Name: "title", Type: scalarRef("String")},
					{Name: "author", Type: objectRef("Author")},
				},
			},
			{
				Kind: KindObject,
				Name: strPtr("Author"),
				Fields: []IntrospectedField{
					{Name: "firstName", Type: scalarRef("String")},
					{Name: "posts", Type: listOf(objectRef("Post"))},
				},
			},
			{
				Kind: KindObject,
				Name: strPtr("__Schema"),
				Fields: []IntrospectedField{
					{Name: "types", Type: listOf(objectRef("__Type"))},
				},
			},
			{Kind: KindScalar, Name: strPtr("String")},
		},
	}
}

func TestIsDefinedType(t *testing.T) {
	tests := []struct {
		name string
		typ  *IntrospectedType
		want bool
	}{
		{name: "object", typ: &IntrospectedType{Kind: KindObject, Name: strPtr("Post")}, want: true},
		{name: "reserved prefix", typ: &IntrospectedType{Kind: KindObject, Name: strPtr("__Schema")}, want: false},
		{name: "single underscore", typ: &IntrospectedType{Kind: KindObject, Name: strPtr("_Entity")}, want: false},
		{name: "scalar", typ: &IntrospectedType{Kind: KindScalar, Name: strPtr("String")}, want: false},
		{name: "interface", typ: &IntrospectedType{Kind: KindInterface, Name: strPtr("Node")}, want: false},
		{name: "list", typ: &IntrospectedType{Kind: KindList, OfType: &IntrospectedType{Kind: KindObject, Name: strPtr("Post")}}, want: false},
		{name: "nil name", typ: &IntrospectedType{Kind: KindObject}, want: false},
		{name: "empty name", typ: &IntrospectedType{Kind: KindObject, Name: strPtr("")}, want: false},
		{name: "nil type", typ: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDefinedType(tt.typ))
		})
	}
}

func TestBuild_BlogSchema(t *testing.T) {
	graph := NewBuilder().Build(blogSchema(), EntityCache{}, nil)

	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, "Post", graph.Nodes[0].ID)
	assert.Equal(t, "Post", graph.Nodes[0].Label)
	assert.Equal(t, "Author", graph.Nodes[1].ID)

	assert.Equal(t, []GraphEdge{
		{Source: "Post", Target: "Author"},
		{Source: "Author", Target: "Post"},
	}, graph.Edges)
}

func TestBuild_NilSchema(t *testing.T) {
	cache := EntityCache{
		"Post:1": {"__typename": "Post", "title": "X"},
	}

	graph := NewBuilder().Build(nil, cache, nil)

	assert.Empty(t, graph.Nodes)
	assert.Empty(t, graph.Edges)
	assert.NotNil(t, graph.Nodes)
	assert.NotNil(t, graph.Edges)
	assert.Equal(t, 1.0, graph.Scale.DomainMax)
}

func TestBuild_EntriesExcludeIntrospection(t *testing.T) {
	cache := EntityCache{
		"ROOT_QUERY": {
			"__schema": NewReference("$ROOT_QUERY.__schema", true),
			"posts":    []any{NewReference("Post:1", false)},
		},
		"$ROOT_QUERY.__schema":         {"queryType": NewReference("$ROOT_QUERY.__schema.queryType", true)},
		"$ROOT_QUERY.__schema.types.0": {"__typename": "__Type", "name": "Post"},
		"Post:1":                       {"__typename": "Post", "title": "X"},
	}

	graph := NewBuilder().Build(blogSchema(), cache, nil)

	post := graph.NodeByID("Post")
	require.NotNil(t, post)
	assert.Equal(t, []string{"Post:1"}, post.Entries)

	author := graph.NodeByID("Author")
	require.NotNil(t, author)
	assert.Empty(t, author.Entries)
	assert.NotNil(t, author.Entries)

	// ROOT_QUERY and Post:1 survive the filter.
	assert.Equal(t, 2.0, graph.Scale.DomainMax)

	// The caller's ROOT_QUERY record still has its __schema field.
	assert.Contains(t, cache["ROOT_QUERY"], "__schema")
}

func TestBuild_EntriesAreSorted(t *testing.T) {
	cache := EntityCache{
		"Post:3": {"__typename": "Post"},
		"Post:1": {"__typename": "Post"},
		"Post:2": {"__typename": "Post"},
	}

	graph := NewBuilder().Build(blogSchema(), cache, nil)

	assert.Equal(t, []string{"Post:1", "Post:2", "Post:3"}, graph.NodeByID("Post").Entries)
}

func TestBuildEdges(t *testing.T) {
	tests := []struct {
		name   string
		schema *Schema
		want   []GraphEdge
	}{
		{
			name:   "nil schema",
			schema: nil,
			want:   []GraphEdge{},
		},
		{
			name: "self loop kept",
			schema: &Schema{Types: []IntrospectedType{
				{Kind: KindObject, Name: strPtr("Author"), Fields: []IntrospectedField{
					{Name: "mentor", Type: objectRef("Author")},
				}},
			}},
			want: []GraphEdge{{Source: "Author", Target: "Author"}},
		},
		{
			name: "duplicates kept",
			schema: &Schema{Types: []IntrospectedType{
				{Kind: KindObject, Name: strPtr("Query"), Fields: []IntrospectedField{
					{Name: "posts", Type: listOf(objectRef("Post"))},
					{Name: "featured", Type: objectRef("Post")},
				}},
				{Kind: KindObject, Name: strPtr("Post")},
			}},
			want: []GraphEdge{
				{Source: "Query", Target: "Post"},
				{Source: "Query", Target: "Post"},
			},
		},
		{
			name: "non-object and reserved targets skipped",
			schema: &Schema{Types: []IntrospectedType{
				{Kind: KindObject, Name: strPtr("Query"), Fields: []IntrospectedField{
					{Name: "title", Type: scalarRef("String")},
					{Name: "node", Type: IntrospectedType{Kind: KindInterface, Name: strPtr("Node")}},
					{Name: "__schema", Type: objectRef("__Schema")},
					{Name: "ids", Type: listOf(scalarRef("Int"))},
				}},
			}},
			want: []GraphEdge{},
		},
		{
			name: "only one list level unwrapped",
			schema: &Schema{Types: []IntrospectedType{
				{Kind: KindObject, Name: strPtr("Query"), Fields: []IntrospectedField{
					{Name: "required", Type: IntrospectedType{Kind: KindNonNull, OfType: &IntrospectedType{Kind: KindObject, Name: strPtr("Post")}}},
					{Name: "matrix", Type: listOf(listOf(objectRef("Post")))},
				}},
				{Kind: KindObject, Name: strPtr("Post")},
			}},
			want: []GraphEdge{},
		},
		{
			name: "malformed list and unlisted target skipped",
			schema: &Schema{Types: []IntrospectedType{
				{Kind: KindObject, Name: strPtr("Query"), Fields: []IntrospectedField{
					{Name: "broken", Type: IntrospectedType{Kind: KindList}},
					{Name: "ghost", Type: objectRef("Ghost")},
				}},
			}},
			want: []GraphEdge{},
		},
		{
			name: "fields of undefined types ignored",
			schema: &Schema{Types: []IntrospectedType{
				{Kind: KindInterface, Name: strPtr("Node"), Fields: []IntrospectedField{
					{Name: "post", Type: objectRef("Post")},
				}},
				{Kind: KindObject, Name: strPtr("Post")},
			}},
			want: []GraphEdge{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildEdges(tt.schema))
		})
	}
}

func TestBuild_NoDanglingEdges(t *testing.T) {
	schema := blogSchema()
	schema.Types = append(schema.Types, IntrospectedType{
		Kind: KindObject,
		Name: strPtr("Query"),
		Fields: []IntrospectedField{
			{Name: "posts", Type: listOf(objectRef("Post"))},
			{Name: "author", Type: objectRef("Author")},
			{Name: "missing", Type: objectRef("Missing")},
			{Name: "meta", Type: objectRef("__Schema")},
		},
	})

	graph := NewBuilder().Build(schema, EntityCache{}, nil)

	ids := make(map[string]bool)
	for _, n := range graph.Nodes {
		ids[n.ID] = true
	}
	for _, e := range graph.Edges {
		assert.True(t, ids[e.Source], "edge source %s has no node", e.Source)
		assert.True(t, ids[e.Target], "edge target %s has no node", e.Target)
	}
	assert.Len(t, graph.Edges, 4)
}

func TestBuild_NodesExcludeReservedAndNonObject(t *testing.T) {
	schema := &Schema{Types: []IntrospectedType{
		{Kind: KindObject, Name: strPtr("__Type")},
		{Kind: KindEnum, Name: strPtr("Color")},
		{Kind: KindInputObject, Name: strPtr("PostInput")},
		{Kind: KindUnion, Name: strPtr("SearchResult")},
		{Kind: KindObject},
		{Kind: KindObject, Name: strPtr("Post")},
	}}

	graph := NewBuilder().Build(schema, EntityCache{}, nil)

	require.Len(t, graph.Nodes, 1)
	assert.Equal(t, "Post", graph.Nodes[0].ID)
}

func TestBuild_ColorsArePositional(t *testing.T) {
	ramp := DefaultRamp()
	graph := NewBuilder(WithColorRamp(ramp)).Build(blogSchema(), EntityCache{}, nil)

	colors := ramp.Colors(2)
	require.Len(t, graph.Nodes, 2)
	assert.Equal(t, colors[0], graph.Nodes[0].Color)
	assert.Equal(t, colors[1], graph.Nodes[1].Color)
}

type shortRamp struct{}

func (shortRamp) Colors(int) []string { return []string{"#000000"} }

func TestBuild_ShortRampLeavesColorEmpty(t *testing.T) {
	graph := NewBuilder(WithColorRamp(shortRamp{})).Build(blogSchema(), EntityCache{}, nil)

	assert.Equal(t, "#000000", graph.Nodes[0].Color)
	assert.Equal(t, "", graph.Nodes[1].Color)
}

func TestBuild_Idempotent(t *testing.T) {
	cache := EntityCache{
		"ROOT_QUERY": {"posts": []any{NewReference("Post:1", false)}},
		"Post:1":     {"__typename": "Post", "title": "X", "author": NewReference("Author:1", false)},
		"Post:2":     {"__typename": "Post", "title": "Y"},
		"Author:1":   {"__typename": "Author", "firstName": "Tom"},
	}
	selection := &GraphNode{ID: "Post"}

	builder := NewBuilder()
	first := builder.Build(blogSchema(), cache, selection)
	second := builder.Build(blogSchema(), cache, selection)

	assert.Equal(t, first, second)
}

func TestBuild_CustomCacheFilter(t *testing.T) {
	cache := EntityCache{
		"ROOT_QUERY":           {"__schema": NewReference("$ROOT_QUERY.__schema", true), "stats": NewReference("$ROOT_QUERY.stats", true)},
		"$ROOT_QUERY.stats":    {"__typename": "Post"},
		"$ROOT_QUERY.__schema": {},
		"Post:1":               {"__typename": "Post"},
	}

	filter := CacheFilter{ExcludedRootFields: []string{SchemaField, "stats"}}
	graph := NewBuilder(WithCacheFilter(filter)).Build(blogSchema(), cache, nil)

	assert.Equal(t, []string{"Post:1"}, graph.NodeByID("Post").Entries)
	assert.Equal(t, 2.0, graph.Scale.DomainMax)
}

func TestGraph_NodeByID(t *testing.T) {
	graph := &Graph{Nodes: []GraphNode{{ID: "Post"}, {ID: "Author"}}}

	assert.Equal(t, "Author", graph.NodeByID("Author").ID)
	assert.Nil(t, graph.NodeByID("Query"))
}
