package schema

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// Match is one type whose name or fields matched a search term.
type Match struct {
	Type        string   `json:"type"`
	Kind        string   `json:"kind"`
	NameMatched bool     `json:"name_matched"`
	Fields      []string `json:"fields,omitempty"`
}

// Search scans type and field names for the term. Matching is substring
// unless exact is set, and case-insensitive unless caseSensitive is set.
// Results are sorted by type name so repeated runs print identically.
func (c *Composed) Search(term string, caseSensitive, exact bool) []Match {
	norm := func(s string) string {
		if caseSensitive {
			return s
		}
		return strings.ToLower(s)
	}
	want := norm(term)
	contains := func(s string) bool {
		if exact {
			return norm(s) == want
		}
		return strings.Contains(norm(s), want)
	}

	var matches []Match
	for _, def := range c.Doc.Definitions {
		m := Match{Type: def.Name, Kind: string(def.Kind)}
		m.NameMatched = contains(def.Name)
		for _, f := range def.Fields {
			if contains(f.Name) {
				m.Fields = append(m.Fields, f.Name)
			}
		}
		for _, v := range def.EnumValues {
			if contains(v.Name) {
				m.Fields = append(m.Fields, v.Name)
			}
		}
		if m.NameMatched || len(m.Fields) > 0 {
			sort.Strings(m.Fields)
			matches = append(matches, m)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Type < matches[j].Type })
	return matches
}

// Stats summarizes the composed schema.
type Stats struct {
	Objects               int `json:"objects"`
	Interfaces            int `json:"interfaces"`
	Unions                int `json:"unions"`
	Enums                 int `json:"enums"`
	Scalars               int `json:"scalars"`
	InputObjects          int `json:"input_objects"`
	Fields                int `json:"fields"`
	EnumValues            int `json:"enum_values"`
	DirectiveDeclarations int `json:"directive_declarations"`
	DirectiveUses         int `json:"directive_uses"`
}

// Stats counts definitions, fields, and directive activity across the
// composed document.
func (c *Composed) Stats() Stats {
	var s Stats
	s.DirectiveDeclarations = len(c.Doc.Directives)

	countUses := func(dl ast.DirectiveList) { s.DirectiveUses += len(dl) }

	for _, def := range c.Doc.Definitions {
		switch def.Kind {
		case ast.Object:
			s.Objects++
		case ast.Interface:
			s.Interfaces++
		case ast.Union:
			s.Unions++
		case ast.Enum:
			s.Enums++
		case ast.Scalar:
			s.Scalars++
		case ast.InputObject:
			s.InputObjects++
		}
		s.Fields += len(def.Fields)
		s.EnumValues += len(def.EnumValues)

		countUses(def.Directives)
		for _, f := range def.Fields {
			countUses(f.Directives)
			for _, a := range f.Arguments {
				countUses(a.Directives)
			}
		}
		for _, v := range def.EnumValues {
			countUses(v.Directives)
		}
	}
	return s
}
