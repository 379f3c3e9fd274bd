package rdf

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"

	"github.com/mfkaptan-motius/s2dm/concept"
	"github.com/mfkaptan-motius/s2dm/errors"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
	"github.com/mfkaptan-motius/s2dm/shape"
)

const componentRDF = "RDF"

// Vocabulary namespaces used by the materializer.
const (
	S2DMNamespace = "https://covesa.global/models/s2dm#"
	SKOSNamespace = "http://www.w3.org/2004/02/skos/core#"
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
)

const (
	rdfType = RDFNamespace + "type"

	skosConcept       = SKOSNamespace + "Concept"
	skosConceptScheme = SKOSNamespace + "ConceptScheme"
	skosPrefLabel     = SKOSNamespace + "prefLabel"
	skosDefinition    = SKOSNamespace + "definition"
	skosInScheme      = SKOSNamespace + "inScheme"

	s2dmObjectType      = S2DMNamespace + "ObjectType"
	s2dmInterfaceType   = S2DMNamespace + "InterfaceType"
	s2dmInputObjectType = S2DMNamespace + "InputObjectType"
	s2dmUnionType       = S2DMNamespace + "UnionType"
	s2dmEnumType        = S2DMNamespace + "EnumType"
	s2dmField           = S2DMNamespace + "Field"
	s2dmEnumValue       = S2DMNamespace + "EnumValue"

	s2dmHasField               = S2DMNamespace + "hasField"
	s2dmHasOutputType          = S2DMNamespace + "hasOutputType"
	s2dmHasUnionMember         = S2DMNamespace + "hasUnionMember"
	s2dmHasEnumValue           = S2DMNamespace + "hasEnumValue"
	s2dmUsesTypeWrapperPattern = S2DMNamespace + "usesTypeWrapperPattern"
)

// Scalars defined by the SDL itself resolve into the s2dm namespace; custom
// scalars resolve into the concept namespace.
var builtinScalars = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

// Materialize maps a composed schema to an RDF graph. Every object,
// interface, input object, union and enum type becomes a skos:Concept typed
// with the matching s2dm class; fields hang off their container through
// s2dm:hasField and carry their output type and type-wrapper pattern. Root
// operation types and introspection machinery are excluded. Custom scalars
// get no concept header and appear only as s2dm:hasOutputType objects.
func Materialize(schema *ast.Schema, namespace, prefix, language string) *Graph {
	g := NewGraph()
	g.Bind("skos", SKOSNamespace)
	g.Bind("s2dm", S2DMNamespace)
	g.Bind(prefix, namespace)
	if schema == nil {
		return g
	}

	for _, def := range materializableTypes(schema) {
		typeURI := IRI(namespace + def.Name)
		switch def.Kind {
		case ast.Object, ast.Interface, ast.InputObject:
			addConceptHeader(g, typeURI, def.Name, def.Description, containerClass(def.Kind), language)
			materializeFields(g, typeURI, def, namespace, language)
		case ast.Union:
			addConceptHeader(g, typeURI, def.Name, def.Description, s2dmUnionType, language)
			for _, member := range def.Types {
				g.Add(typeURI, IRI(s2dmHasUnionMember), IRI(namespace+member))
			}
		case ast.Enum:
			addConceptHeader(g, typeURI, def.Name, def.Description, s2dmEnumType, language)
			for _, value := range def.EnumValues {
				fqn := def.Name + "." + value.Name
				valueURI := IRI(namespace + fqn)
				g.Add(typeURI, IRI(s2dmHasEnumValue), valueURI)
				addConceptHeader(g, valueURI, fqn, "", s2dmEnumValue, language)
			}
		}
	}
	return g
}

func materializeFields(g *Graph, typeURI Term, def *ast.Definition, namespace, language string) {
	for _, field := range def.Fields {
		if strings.HasPrefix(field.Name, "__") {
			continue
		}
		fqn := def.Name + "." + field.Name
		fieldURI := IRI(namespace + fqn)
		g.Add(typeURI, IRI(s2dmHasField), fieldURI)
		addConceptHeader(g, fieldURI, fqn, "", s2dmField, language)

		named := namedType(field.Type)
		outputNS := namespace
		if builtinScalars[named] {
			outputNS = S2DMNamespace
		}
		g.Add(fieldURI, IRI(s2dmHasOutputType), IRI(outputNS+named))

		pattern := shape.Classify(field.Type).WrapperPattern()
		g.Add(fieldURI, IRI(s2dmUsesTypeWrapperPattern), IRI(S2DMNamespace+pattern))
	}
}

// addConceptHeader emits the SKOS header shared by every materialized
// concept: the skos:Concept typing, the s2dm class, a language-tagged
// prefLabel and, when a description exists, a plain-literal definition.
func addConceptHeader(g *Graph, uri Term, prefLabel, description, class, language string) {
	g.Add(uri, IRI(rdfType), IRI(skosConcept))
	g.Add(uri, IRI(rdfType), IRI(class))
	g.Add(uri, IRI(skosPrefLabel), LangLiteral(prefLabel, language))
	if strings.TrimSpace(description) != "" {
		g.Add(uri, IRI(skosDefinition), Literal(description))
	}
}

// Skeleton maps a composed schema to a bare SKOS concept scheme: one
// skos:Concept per addressable concept (named types, fields, enum values)
// with a prefLabel, an optional definition taken from the SDL description,
// and an inScheme link to the scheme derived from the namespace.
func Skeleton(schema *ast.Schema, namespace, prefix, language string) *Graph {
	g := NewGraph()
	g.Bind("skos", SKOSNamespace)
	g.Bind(prefix, namespace)

	scheme := IRI(schemeURI(namespace))
	g.Add(scheme, IRI(rdfType), IRI(skosConceptScheme))

	for _, c := range concept.Extract(schema) {
		uri := IRI(namespace + c.Name)
		g.Add(uri, IRI(rdfType), IRI(skosConcept))
		g.Add(uri, IRI(skosPrefLabel), LangLiteral(c.Name, language))
		if desc := conceptDescription(c); strings.TrimSpace(desc) != "" {
			g.Add(uri, IRI(skosDefinition), Literal(desc))
		}
		g.Add(uri, IRI(skosInScheme), scheme)
	}
	return g
}

// schemeURI derives the concept scheme IRI from the namespace by trimming
// the trailing fragment or path separator.
func schemeURI(namespace string) string {
	return strings.TrimRight(namespace, "#/")
}

func conceptDescription(c concept.Concept) string {
	switch c.Kind {
	case concept.KindField:
		return c.Field.Description
	case concept.KindEnumValue:
		return c.EnumValue.Description
	default:
		return c.Def.Description
	}
}

// WriteArtifacts writes the graph as <baseName>.nt (sorted N-Triples) and
// <baseName>.ttl (Turtle) into dir, creating it if needed.
func WriteArtifacts(g *Graph, dir, baseName string) error {
	ntPath := filepath.Join(dir, baseName+".nt")
	if err := atomicfile.WriteFile(ntPath, []byte(g.SortedNTriples()), 0o644); err != nil {
		return errors.WrapFatal(err, componentRDF, "WriteArtifacts", "write sorted n-triples")
	}
	ttlPath := filepath.Join(dir, baseName+".ttl")
	if err := atomicfile.WriteFile(ttlPath, []byte(g.Turtle()), 0o644); err != nil {
		return errors.WrapFatal(err, componentRDF, "WriteArtifacts", "write turtle")
	}
	return nil
}

// materializableTypes returns the schema's non-root, non-introspection type
// definitions sorted by name. Roots are identified by schema binding rather
// than by name, so renamed operation roots stay excluded.
func materializableTypes(schema *ast.Schema) []*ast.Definition {
	roots := make(map[string]bool, 3)
	for _, def := range []*ast.Definition{schema.Query, schema.Mutation, schema.Subscription} {
		if def != nil {
			roots[def.Name] = true
		}
	}

	names := make([]string, 0, len(schema.Types))
	for name, def := range schema.Types {
		if def.BuiltIn || strings.HasPrefix(name, "__") || roots[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]*ast.Definition, 0, len(names))
	for _, name := range names {
		defs = append(defs, schema.Types[name])
	}
	return defs
}

func containerClass(kind ast.DefinitionKind) string {
	switch kind {
	case ast.Interface:
		return s2dmInterfaceType
	case ast.InputObject:
		return s2dmInputObjectType
	default:
		return s2dmObjectType
	}
}

// namedType unwraps list and non-null modifiers down to the named type.
func namedType(t *ast.Type) string {
	for t.NamedType == "" {
		t = t.Elem
	}
	return t.NamedType
}
