package schema

import (
	"fmt"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/mfkaptan-motius/s2dm/errors"
)

const componentComposer = "Composer"

// Provenance annotation synthesized onto top-level definitions during
// composition. Only attached when the schema itself declares the directive
// with a source argument.
const (
	referenceDirective = "reference"
	referenceSourceArg = "source"
)

// Composed is the result of merging source documents: the merged AST, the
// validated schema, the canonical serialization, and a provenance label per
// top-level definition.
type Composed struct {
	Doc        *ast.SchemaDocument
	Schema     *ast.Schema
	Canonical  string
	Provenance map[string]string
}

// Compose merges the given source documents into one schema. Duplicate
// top-level definition names across sources are a conflict; directive uses
// at locations their own declarations forbid are rejected. The canonical
// serialization is independent of source order.
func Compose(sources []SourceDocument) (*Composed, error) {
	if len(sources) == 0 {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: no sources to compose", errors.ErrSourceUnreadable),
			componentComposer, "Compose", "check inputs")
	}

	merged := &ast.SchemaDocument{}
	prov := make(map[string]string)
	seenDirectives := make(map[string]string)

	for _, src := range sources {
		doc, err := parser.ParseSchema(&ast.Source{Name: src.Label, Input: src.Text})
		if err != nil {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: %s: %v", errors.ErrInvalidSchema, src.Label, err),
				componentComposer, "Compose", "parse source")
		}

		for _, def := range doc.Definitions {
			if prevLabel, ok := prov[def.Name]; ok {
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: %q defined in %s and %s",
						errors.ErrDuplicateDefinition, def.Name, prevLabel, src.Label),
					componentComposer, "Compose", "merge definitions")
			}
			prov[def.Name] = src.Label
			merged.Definitions = append(merged.Definitions, def)
		}

		for _, dd := range doc.Directives {
			if prevLabel, ok := seenDirectives[dd.Name]; ok {
				return nil, errors.WrapInvalid(
					fmt.Errorf("%w: directive @%s declared in %s and %s",
						errors.ErrDuplicateDefinition, dd.Name, prevLabel, src.Label),
					componentComposer, "Compose", "merge directive declarations")
			}
			seenDirectives[dd.Name] = src.Label
			merged.Directives = append(merged.Directives, dd)
		}

		merged.Schema = append(merged.Schema, doc.Schema...)
		merged.SchemaExtension = append(merged.SchemaExtension, doc.SchemaExtension...)
		merged.Extensions = append(merged.Extensions, doc.Extensions...)
	}

	synthesizeProvenance(merged, prov)

	if err := validateDirectiveLocations(merged); err != nil {
		return nil, err
	}

	return finalize(merged, prov)
}

// finalize prints the canonical form and round-trips it through the parser
// so every composed schema the tool hands out is one the parser accepts.
func finalize(doc *ast.SchemaDocument, prov map[string]string) (*Composed, error) {
	canonical := Print(doc)

	schema, gqlErr := gqlparser.LoadSchema(&ast.Source{Name: "composed.graphql", Input: canonical})
	if gqlErr != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %v", errors.ErrInvalidSchema, gqlErr),
			componentComposer, "Compose", "load composed schema")
	}

	return &Composed{
		Doc:        doc,
		Schema:     schema,
		Canonical:  canonical,
		Provenance: prov,
	}, nil
}

// synthesizeProvenance attaches @reference(source: "<label>") to every
// top-level definition that lacks one. Skipped entirely when the schema does
// not declare the directive, or declares it without a source argument;
// skipped per definition when the declared locations exclude its kind.
// Definitions already carrying the directive are left alone, so composing an
// already-composed schema never duplicates provenance.
func synthesizeProvenance(doc *ast.SchemaDocument, prov map[string]string) {
	decl := doc.Directives.ForName(referenceDirective)
	if decl == nil || decl.Arguments.ForName(referenceSourceArg) == nil {
		return
	}

	allowed := make(map[ast.DirectiveLocation]bool, len(decl.Locations))
	for _, loc := range decl.Locations {
		allowed[loc] = true
	}

	for _, def := range doc.Definitions {
		if def.Directives.ForName(referenceDirective) != nil {
			continue
		}
		if !allowed[definitionLocation(def.Kind)] {
			continue
		}
		label, ok := prov[def.Name]
		if !ok {
			continue
		}
		def.Directives = append(def.Directives, &ast.Directive{
			Name: referenceDirective,
			Arguments: ast.ArgumentList{{
				Name:  referenceSourceArg,
				Value: &ast.Value{Raw: label, Kind: ast.StringValue},
			}},
		})
	}
}

// definitionLocation maps a definition kind to its SDL directive location.
func definitionLocation(kind ast.DefinitionKind) ast.DirectiveLocation {
	switch kind {
	case ast.Scalar:
		return ast.LocationScalar
	case ast.Object:
		return ast.LocationObject
	case ast.Interface:
		return ast.LocationInterface
	case ast.Union:
		return ast.LocationUnion
	case ast.Enum:
		return ast.LocationEnum
	case ast.InputObject:
		return ast.LocationInputObject
	default:
		return ""
	}
}

// validateDirectiveLocations rejects any directive use at a location its own
// declaration forbids. Uses of directives the document does not declare are
// left for schema loading to judge.
func validateDirectiveLocations(doc *ast.SchemaDocument) error {
	decls := make(map[string]*ast.DirectiveDefinition, len(doc.Directives))
	for _, dd := range doc.Directives {
		decls[dd.Name] = dd
	}

	check := func(dl ast.DirectiveList, loc ast.DirectiveLocation, host string) error {
		for _, d := range dl {
			decl, ok := decls[d.Name]
			if !ok {
				continue
			}
			if !locationAllowed(decl, loc) {
				return errors.WrapInvalid(
					fmt.Errorf("%w: @%s on %s", errors.ErrDirectiveLocation, d.Name, host),
					componentComposer, "Compose", "validate directive locations")
			}
		}
		return nil
	}

	for _, def := range doc.Definitions {
		if err := check(def.Directives, definitionLocation(def.Kind), def.Name); err != nil {
			return err
		}

		fieldLoc := ast.LocationFieldDefinition
		if def.Kind == ast.InputObject {
			fieldLoc = ast.LocationInputFieldDefinition
		}
		for _, f := range def.Fields {
			if err := check(f.Directives, fieldLoc, def.Name+"."+f.Name); err != nil {
				return err
			}
			for _, a := range f.Arguments {
				host := def.Name + "." + f.Name + "(" + a.Name + ":)"
				if err := check(a.Directives, ast.LocationArgumentDefinition, host); err != nil {
					return err
				}
			}
		}

		for _, v := range def.EnumValues {
			if err := check(v.Directives, ast.LocationEnumValue, def.Name+"."+v.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func locationAllowed(decl *ast.DirectiveDefinition, loc ast.DirectiveLocation) bool {
	for _, l := range decl.Locations {
		if l == loc {
			return true
		}
	}
	return false
}
