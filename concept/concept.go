// Package concept enumerates the addressable catalog entries of a composed
// schema: named types, Type.field pairs, and Enum.VALUE pairs. Concepts are
// extracted, never declared; their fully qualified names are derived
// mechanically and feed the variant registry, the URI exporter, and the
// spec history store.
package concept

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Kind discriminates what a concept addresses.
type Kind string

const (
	KindType      Kind = "type"
	KindField     Kind = "field"
	KindEnumValue Kind = "enum_value"
)

// Concept is one addressable catalog entry. Name is fully qualified:
// "Vehicle", "Vehicle.averageSpeed" or "RowEnum.ROW1". Parent names the
// containing type for fields and enum values. The AST pointers reference
// the composed schema the concept was extracted from.
type Concept struct {
	Name      string
	Kind      Kind
	Parent    string
	Def       *ast.Definition
	Field     *ast.FieldDefinition
	EnumValue *ast.EnumValueDefinition
}

// Extract enumerates the concepts of a schema in deterministic order:
// types sorted by name, fields and enum values in declaration order within
// their type. Introspection and built-in types are excluded, as are the
// root operation types and their fields: they describe an API surface, not
// the domain model.
func Extract(schema *ast.Schema) []Concept {
	if schema == nil {
		return nil
	}

	roots := rootTypeNames(schema)

	names := make([]string, 0, len(schema.Types))
	for name, def := range schema.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") || roots[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var concepts []Concept
	for _, name := range names {
		def := schema.Types[name]
		concepts = append(concepts, Concept{Name: name, Kind: KindType, Def: def})

		switch def.Kind {
		case ast.Object, ast.Interface, ast.InputObject:
			for _, field := range def.Fields {
				if strings.HasPrefix(field.Name, "__") {
					continue
				}
				concepts = append(concepts, Concept{
					Name:   name + "." + field.Name,
					Kind:   KindField,
					Parent: name,
					Def:    def,
					Field:  field,
				})
			}
		case ast.Enum:
			for _, value := range def.EnumValues {
				concepts = append(concepts, Concept{
					Name:      name + "." + value.Name,
					Kind:      KindEnumValue,
					Parent:    name,
					Def:       def,
					EnumValue: value,
				})
			}
		}
	}
	return concepts
}

// Names returns the fully qualified concept names in extraction order.
func Names(concepts []Concept) []string {
	names := make([]string, 0, len(concepts))
	for _, c := range concepts {
		names = append(names, c.Name)
	}
	return names
}

func rootTypeNames(schema *ast.Schema) map[string]bool {
	roots := make(map[string]bool, 3)
	for _, def := range []*ast.Definition{schema.Query, schema.Mutation, schema.Subscription} {
		if def != nil {
			roots[def.Name] = true
		}
	}
	return roots
}
