// Package schemagraph turns a GraphQL introspection result and a snapshot of a
// normalized entity cache into a renderable force-graph: one node per user
// defined object type, one edge per object-valued field, a radius scale driven
// by how many cached entities each type holds, and the records behind the
// currently selected node.
//
// Everything in this package is a pure function of its inputs. Nothing is
// cached between calls and no input is ever mutated.
package schemagraph

import (
	"encoding/json"
	"fmt"
)

// Kind is the __TypeKind of an introspected type.
type Kind string

const (
	KindObject      Kind = "OBJECT"
	KindList        Kind = "LIST"
	KindNonNull     Kind = "NON_NULL"
	KindScalar      Kind = "SCALAR"
	KindInterface   Kind = "INTERFACE"
	KindUnion       Kind = "UNION"
	KindEnum        Kind = "ENUM"
	KindInputObject Kind = "INPUT_OBJECT"
)

// IntrospectedType is one entry of __schema.types, or a (possibly wrapped)
// type reference on a field. Name is nil for LIST and NON_NULL wrappers.
type IntrospectedType struct {
	Kind   Kind                `json:"kind"`
	Name   *string             `json:"name"`
	Fields []IntrospectedField `json:"fields"`
	OfType *IntrospectedType   `json:"ofType"`
}

// IntrospectedField is a field of an OBJECT or INTERFACE type.
type IntrospectedField struct {
	Name string           `json:"name"`
	Type IntrospectedType `json:"type"`
}

// TypeName returns the type's name, or "" when it has none.
func (t IntrospectedType) TypeName() string {
	if t.Name == nil {
		return ""
	}
	return *t.Name
}

// RootType names one of the schema's root operation types.
type RootType struct {
	Name string `json:"name"`
}

// Schema is the decoded __schema object of an introspection result.
type Schema struct {
	QueryType        *RootType          `json:"queryType"`
	MutationType     *RootType          `json:"mutationType"`
	SubscriptionType *RootType          `json:"subscriptionType"`
	Types            []IntrospectedType `json:"types"`
}

// ParseIntrospection decodes an introspection payload. Both the bare
// `{"__schema": ...}` data object and a full `{"data": {"__schema": ...}}`
// response are accepted. A payload without __schema yields a nil schema and no
// error: the introspection simply has not arrived yet.
func ParseIntrospection(payload []byte) (*Schema, error) {
	var envelope struct {
		Schema *Schema `json:"__schema"`
		Data   *struct {
			Schema *Schema `json:"__schema"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decode introspection payload: %w", err)
	}
	if envelope.Schema != nil {
		return envelope.Schema, nil
	}
	if envelope.Data != nil {
		return envelope.Data.Schema, nil
	}
	return nil, nil
}

// TypeByName returns the named type, or nil.
func (s *Schema) TypeByName(name string) *IntrospectedType {
	if s == nil {
		return nil
	}
	for i := range s.Types {
		if s.Types[i].TypeName() == name {
			return &s.Types[i]
		}
	}
	return nil
}
