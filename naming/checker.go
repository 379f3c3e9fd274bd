package naming

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/mfkaptan-motius/s2dm/concept"
	"github.com/mfkaptan-motius/s2dm/shape"
)

const instanceTagDirective = "instanceTag"

// Checker enforces the intended use of the constraint directives and,
// when conventions are configured, the naming rules. It walks the concept
// catalog of the schema, so root operation types and introspection
// machinery are never checked.
type Checker struct {
	schema      *ast.Schema
	conventions *Conventions
}

// NewChecker builds a checker. conventions may be nil to run only the
// structural rules.
func NewChecker(schema *ast.Schema, conventions *Conventions) *Checker {
	return &Checker{schema: schema, conventions: conventions}
}

// Run reports every violation in deterministic order: instance tag rules
// first, then directive bounds, then naming conventions.
func (c *Checker) Run() []string {
	var out []string
	out = append(out, c.instanceTagViolations()...)
	out = append(out, c.boundViolations()...)
	out = append(out, c.ConventionViolations()...)
	return out
}

// instanceTagViolations checks both sides of the instance tag contract:
// a field named instanceTag must point at an object annotated with
// @instanceTag, and an annotated object may only carry enum fields.
func (c *Checker) instanceTagViolations() []string {
	var out []string
	for _, cc := range concept.Extract(c.schema) {
		switch cc.Kind {
		case concept.KindField:
			if cc.Field.Name != instanceTagDirective {
				continue
			}
			named := unwrapNamedType(cc.Field.Type)
			def := c.schema.Types[named]
			switch {
			case def == nil || def.Kind != ast.Object:
				out = append(out, fmt.Sprintf(
					"%s: instance tag output type %q is not an object type", cc.Name, named))
			case def.Directives.ForName(instanceTagDirective) == nil:
				out = append(out, fmt.Sprintf(
					"%s: output type %q is not annotated with @instanceTag", cc.Name, named))
			}
		case concept.KindType:
			if cc.Def.Directives.ForName(instanceTagDirective) == nil {
				continue
			}
			if cc.Def.Kind != ast.Object {
				out = append(out, fmt.Sprintf(
					"%s: @instanceTag is only valid on object types", cc.Name))
				continue
			}
			for _, field := range cc.Def.Fields {
				named := unwrapNamedType(field.Type)
				if def := c.schema.Types[named]; def == nil || def.Kind != ast.Enum {
					out = append(out, fmt.Sprintf(
						"%s.%s: instance tag fields must be enums, got %q", cc.Name, field.Name, named))
				}
			}
		}
	}
	return out
}

// boundViolations checks that @range and @cardinality carry coherent
// bounds. Half-bounded directives are fine.
func (c *Checker) boundViolations() []string {
	var out []string
	for _, cc := range concept.Extract(c.schema) {
		if cc.Kind != concept.KindField {
			continue
		}
		if r := shape.RangeOf(cc.Field); r != nil && r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			out = append(out, fmt.Sprintf(
				"%s: @range min (%g) greater than max (%g)", cc.Name, *r.Min, *r.Max))
		}
		if card := shape.CardinalityOf(cc.Field); card != nil && card.Min != nil && card.Max != nil && *card.Min > *card.Max {
			out = append(out, fmt.Sprintf(
				"%s: @cardinality min (%d) greater than max (%d)", cc.Name, *card.Min, *card.Max))
		}
	}
	return out
}

// ConventionViolations reports only the naming-convention breaches. Used
// standalone by compose, which treats them as warnings rather than errors.
func (c *Checker) ConventionViolations() []string {
	if c.conventions == nil {
		return nil
	}
	var out []string
	for _, cc := range concept.Extract(c.schema) {
		switch cc.Kind {
		case concept.KindType:
			kind := typeConventionKind(cc.Def.Kind)
			if v := c.conventionViolation(kind, cc.Name, cc.Def.Name); v != "" {
				out = append(out, v)
			}
		case concept.KindField:
			if v := c.conventionViolation("field", cc.Name, cc.Field.Name); v != "" {
				out = append(out, v)
			}
		case concept.KindEnumValue:
			if v := c.conventionViolation("enum_value", cc.Name, cc.EnumValue.Name); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// conventionViolation matches the bare name against the kind's pattern but
// reports the fully qualified name.
func (c *Checker) conventionViolation(kind, displayName, checkedName string) string {
	if kind == "" || c.conventions.Matches(kind, checkedName) {
		return ""
	}
	pattern, _ := c.conventions.Pattern(kind)
	return fmt.Sprintf("%s %q does not match convention %q",
		strings.ReplaceAll(kind, "_", " "), displayName, pattern)
}

func typeConventionKind(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Object:
		return "object"
	case ast.Interface:
		return "interface"
	case ast.InputObject:
		return "input"
	case ast.Union:
		return "union"
	case ast.Enum:
		return "enum"
	case ast.Scalar:
		return "scalar"
	}
	return ""
}

func unwrapNamedType(t *ast.Type) string {
	for t.NamedType == "" {
		t = t.Elem
	}
	return t.NamedType
}
