// Package shape classifies GraphQL field types into the cardinality shapes
// the catalog reasons about: the six SDL type-modifier combinations plus the
// set shapes marked with @noDuplicates.
package shape

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/mfkaptan-motius/s2dm/errors"
)

const componentShape = "Shape"

const (
	noDuplicatesDirective = "noDuplicates"
	cardinalityDirective  = "cardinality"
	rangeDirective        = "range"
)

// FieldCase is the shape of a field's type modifiers.
type FieldCase string

const (
	Default            FieldCase = "DEFAULT"
	NonNull            FieldCase = "NON_NULL"
	List               FieldCase = "LIST"
	NonNullList        FieldCase = "NON_NULL_LIST"
	ListNonNull        FieldCase = "LIST_NON_NULL"
	NonNullListNonNull FieldCase = "NON_NULL_LIST_NON_NULL"
	Set                FieldCase = "SET"
	SetNonNull         FieldCase = "SET_NON_NULL"
)

// Cardinality is an occurrence bound. A nil side is unbounded.
type Cardinality struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// CaseMetadata describes what a field case means for values and for the
// enclosing list.
type CaseMetadata struct {
	Description      string      `json:"description"`
	ValueCardinality Cardinality `json:"value_cardinality"`
	ListCardinality  Cardinality `json:"list_cardinality"`
}

func intPtr(v int) *int { return &v }

var caseMetadata = map[FieldCase]CaseMetadata{
	Default: {
		Description:      "A singular element that can also be null. EXAMPLE -> field: NamedType",
		ValueCardinality: Cardinality{Min: intPtr(0), Max: intPtr(1)},
	},
	NonNull: {
		Description:      "A singular element that cannot be null. EXAMPLE -> field: NamedType!",
		ValueCardinality: Cardinality{Min: intPtr(1), Max: intPtr(1)},
	},
	List: {
		Description:      "An array of elements. The array itself can be null. EXAMPLE -> field: [NamedType]",
		ValueCardinality: Cardinality{Min: intPtr(0)},
		ListCardinality:  Cardinality{Min: intPtr(0), Max: intPtr(1)},
	},
	NonNullList: {
		Description:      "An array of elements. The array itself cannot be null. EXAMPLE -> field: [NamedType]!",
		ValueCardinality: Cardinality{Min: intPtr(0)},
		ListCardinality:  Cardinality{Min: intPtr(1), Max: intPtr(1)},
	},
	ListNonNull: {
		Description:      "An array of elements. The array itself can be null but the elements cannot. EXAMPLE -> field: [NamedType!]",
		ValueCardinality: Cardinality{Min: intPtr(1)},
		ListCardinality:  Cardinality{Min: intPtr(0), Max: intPtr(1)},
	},
	NonNullListNonNull: {
		Description:      "List and elements in the list cannot be null. EXAMPLE -> field: [NamedType!]!",
		ValueCardinality: Cardinality{Min: intPtr(1)},
		ListCardinality:  Cardinality{Min: intPtr(1), Max: intPtr(1)},
	},
	Set: {
		Description:      "A set of elements. EXAMPLE -> field: [NamedType] @noDuplicates",
		ValueCardinality: Cardinality{Min: intPtr(0)},
		ListCardinality:  Cardinality{Min: intPtr(0), Max: intPtr(1)},
	},
	SetNonNull: {
		Description:      "A set of elements. The elements cannot be null. EXAMPLE -> field: [NamedType!] @noDuplicates",
		ValueCardinality: Cardinality{Min: intPtr(1)},
		ListCardinality:  Cardinality{Min: intPtr(0), Max: intPtr(1)},
	},
}

// Meta returns the value and list cardinality of the case.
func (c FieldCase) Meta() CaseMetadata {
	return caseMetadata[c]
}

// WrapperPattern maps the case to its ontology type-wrapper name. The set
// cases are directive based and collapse onto the underlying list variants.
func (c FieldCase) WrapperPattern() string {
	switch c {
	case NonNull:
		return "nonNull"
	case List, Set:
		return "list"
	case ListNonNull, SetNonNull:
		return "listOfNonNull"
	case NonNullList:
		return "nonNullList"
	case NonNullListNonNull:
		return "nonNullListOfNonNull"
	default:
		return "bare"
	}
}

// Classify determines the basic case of a type reference: outer non-null
// first, then list, then inner non-null.
func Classify(t *ast.Type) FieldCase {
	if t.NonNull {
		if t.NamedType == "" {
			if t.Elem.NonNull {
				return NonNullListNonNull
			}
			return NonNullList
		}
		return NonNull
	}
	if t.NamedType == "" {
		if t.Elem.NonNull {
			return ListNonNull
		}
		return List
	}
	return Default
}

// ClassifyField extends Classify with the directive-marked set cases.
// @noDuplicates on anything but [T] or [T!] is an error.
func ClassifyField(f *ast.FieldDefinition) (FieldCase, error) {
	base := Classify(f.Type)
	if f.Directives.ForName(noDuplicatesDirective) == nil {
		return base, nil
	}
	switch base {
	case List:
		return Set, nil
	case ListNonNull:
		return SetNonNull, nil
	default:
		return "", errors.WrapInvalid(
			fmt.Errorf("%w: field %s: %s", errors.ErrNoDuplicatesOnNonList, f.Name, TypeSDL(f.Type)),
			componentShape, "ClassifyField", "apply @noDuplicates")
	}
}

// CardinalityOf extracts @cardinality bounds from a field. Nil when the
// directive is absent; a nil side when its argument is.
func CardinalityOf(f *ast.FieldDefinition) *Cardinality {
	d := f.Directives.ForName(cardinalityDirective)
	if d == nil {
		return nil
	}
	var c Cardinality
	if a := d.Arguments.ForName("min"); a != nil {
		if v, err := strconv.Atoi(a.Value.Raw); err == nil {
			c.Min = &v
		}
	}
	if a := d.Arguments.ForName("max"); a != nil {
		if v, err := strconv.Atoi(a.Value.Raw); err == nil {
			c.Max = &v
		}
	}
	return &c
}

// Range is a numeric bound from @range. A nil side is unbounded.
type Range struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

// RangeOf extracts @range bounds from a field. Nil when the directive is
// absent.
func RangeOf(f *ast.FieldDefinition) *Range {
	d := f.Directives.ForName(rangeDirective)
	if d == nil {
		return nil
	}
	var r Range
	if a := d.Arguments.ForName("min"); a != nil {
		if v, err := strconv.ParseFloat(a.Value.Raw, 64); err == nil {
			r.Min = &v
		}
	}
	if a := d.Arguments.ForName("max"); a != nil {
		if v, err := strconv.ParseFloat(a.Value.Raw, 64); err == nil {
			r.Max = &v
		}
	}
	return &r
}

// TypeSDL renders a type reference the way it appears in SDL.
func TypeSDL(t *ast.Type) string {
	if t == nil {
		return ""
	}
	if t.NamedType != "" {
		if t.NonNull {
			return t.NamedType + "!"
		}
		return t.NamedType
	}
	s := "[" + TypeSDL(t.Elem) + "]"
	if t.NonNull {
		s += "!"
	}
	return s
}

// FieldSDL renders a field definition with its directives the way it
// appears in SDL.
func FieldSDL(f *ast.FieldDefinition) string {
	var b strings.Builder
	b.WriteString(f.Name + ": " + TypeSDL(f.Type))
	for _, d := range f.Directives {
		b.WriteString(" @" + d.Name)
	}
	return b.String()
}
