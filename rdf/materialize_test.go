package rdf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const (
	testNamespace = "https://example.org/vss#"
	testPrefix    = "ns"
)

const cabinDoorSDL = `
type Query { cabin: Cabin }

"""In-cabin area of the vehicle."""
type Cabin {
  kind: CabinKindEnum
  doors: [Door]
}

enum CabinKindEnum {
  SUV
  VAN
}

type Door {
  isOpen: Boolean
  window: Window
}

type Window {
  isTinted: Boolean
}
`

func loadSchema(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	require.NoError(t, err)
	return schema
}

func objectsOf(g *Graph, subject, predicate string) []string {
	var out []string
	for _, tr := range g.Triples() {
		if tr.Subject.Value == subject && tr.Predicate.Value == predicate {
			out = append(out, tr.Object.Value)
		}
	}
	return out
}

func hasTriple(g *Graph, subject, predicate string, object Term) bool {
	for _, tr := range g.Triples() {
		if tr.Subject.Value == subject && tr.Predicate.Value == predicate && tr.Object == object {
			return true
		}
	}
	return false
}

func TestMaterialize_ObjectTypeTriples(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	cabin := testNamespace + "Cabin"
	assert.True(t, hasTriple(g, cabin, rdfType, IRI(skosConcept)))
	assert.True(t, hasTriple(g, cabin, rdfType, IRI(s2dmObjectType)))
	assert.True(t, hasTriple(g, cabin, skosPrefLabel, LangLiteral("Cabin", "en")))

	fields := objectsOf(g, cabin, s2dmHasField)
	assert.ElementsMatch(t, []string{cabin + ".kind", cabin + ".doors"}, fields)

	doors := testNamespace + "Cabin.doors"
	assert.True(t, hasTriple(g, doors, rdfType, IRI(s2dmField)))
	assert.True(t, hasTriple(g, doors, skosPrefLabel, LangLiteral("Cabin.doors", "en")))
	assert.Equal(t, []string{testNamespace + "Door"}, objectsOf(g, doors, s2dmHasOutputType))
	assert.Equal(t, []string{S2DMNamespace + "list"}, objectsOf(g, doors, s2dmUsesTypeWrapperPattern))
}

func TestMaterialize_EnumTriples(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	enum := testNamespace + "CabinKindEnum"
	assert.True(t, hasTriple(g, enum, rdfType, IRI(s2dmEnumType)))
	assert.ElementsMatch(t,
		[]string{enum + ".SUV", enum + ".VAN"},
		objectsOf(g, enum, s2dmHasEnumValue))

	suv := enum + ".SUV"
	assert.True(t, hasTriple(g, suv, rdfType, IRI(skosConcept)))
	assert.True(t, hasTriple(g, suv, rdfType, IRI(s2dmEnumValue)))
	assert.True(t, hasTriple(g, suv, skosPrefLabel, LangLiteral("CabinKindEnum.SUV", "en")))
}

func TestMaterialize_DescriptionBecomesDefinition(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	// Definitions are plain literals, prefLabels are language tagged.
	cabin := testNamespace + "Cabin"
	assert.True(t, hasTriple(g, cabin, skosDefinition, Literal("In-cabin area of the vehicle.")))
	assert.Empty(t, objectsOf(g, testNamespace+"Door", skosDefinition))
}

func TestMaterialize_AllWrapperPatterns(t *testing.T) {
	sdl := `
type Query { t: T }
type T {
  bare: String
  nonNull: String!
  list: [String]
  listOfNonNull: [String!]
  nonNullList: [String]!
  nonNullListOfNonNull: [String!]!
}
`
	g := Materialize(loadSchema(t, sdl), testNamespace, testPrefix, "en")

	want := map[string]string{
		"T.bare":                 "bare",
		"T.nonNull":              "nonNull",
		"T.list":                 "list",
		"T.listOfNonNull":        "listOfNonNull",
		"T.nonNullList":          "nonNullList",
		"T.nonNullListOfNonNull": "nonNullListOfNonNull",
	}
	for fqn, pattern := range want {
		got := objectsOf(g, testNamespace+fqn, s2dmUsesTypeWrapperPattern)
		require.Len(t, got, 1, fqn)
		assert.Equal(t, S2DMNamespace+pattern, got[0], fqn)
	}
}

func TestMaterialize_BuiltinScalarsUseModelNamespace(t *testing.T) {
	sdl := `type Query { t: T } type T { id: ID! name: String count: Int ratio: Float flag: Boolean }`
	g := Materialize(loadSchema(t, sdl), testNamespace, testPrefix, "en")

	want := map[string]string{
		"T.id":    "ID",
		"T.name":  "String",
		"T.count": "Int",
		"T.ratio": "Float",
		"T.flag":  "Boolean",
	}
	for fqn, scalar := range want {
		assert.Equal(t,
			[]string{S2DMNamespace + scalar},
			objectsOf(g, testNamespace+fqn, s2dmHasOutputType), fqn)
	}
}

func TestMaterialize_CustomScalarUsesConceptNamespace(t *testing.T) {
	sdl := `type Query { t: T } scalar DateTime type T { at: DateTime }`
	g := Materialize(loadSchema(t, sdl), testNamespace, testPrefix, "en")

	assert.Equal(t,
		[]string{testNamespace + "DateTime"},
		objectsOf(g, testNamespace+"T.at", s2dmHasOutputType))

	// Custom scalars appear as output types only, never with a concept header.
	assert.Empty(t, objectsOf(g, testNamespace+"DateTime", rdfType))
}

func TestMaterialize_InterfaceInputAndUnion(t *testing.T) {
	sdl := `
type Query { x: SearchResult }
interface Node { id: ID! }
union SearchResult = User | Post
input CreateInput { name: String! }
type User implements Node { id: ID! }
type Post implements Node { id: ID! }
`
	g := Materialize(loadSchema(t, sdl), testNamespace, testPrefix, "en")

	assert.True(t, hasTriple(g, testNamespace+"Node", rdfType, IRI(s2dmInterfaceType)))
	assert.True(t, hasTriple(g, testNamespace+"Node.id", rdfType, IRI(s2dmField)))

	assert.True(t, hasTriple(g, testNamespace+"CreateInput", rdfType, IRI(s2dmInputObjectType)))
	assert.Equal(t,
		[]string{S2DMNamespace + "nonNull"},
		objectsOf(g, testNamespace+"CreateInput.name", s2dmUsesTypeWrapperPattern))

	assert.True(t, hasTriple(g, testNamespace+"SearchResult", rdfType, IRI(s2dmUnionType)))
	assert.ElementsMatch(t,
		[]string{testNamespace + "User", testNamespace + "Post"},
		objectsOf(g, testNamespace+"SearchResult", s2dmHasUnionMember))
}

func TestMaterialize_ExcludesRootsAndIntrospection(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	for _, tr := range g.Triples() {
		assert.NotEqual(t, testNamespace+"Query", tr.Subject.Value)
		assert.False(t, strings.HasPrefix(tr.Subject.Value, testNamespace+"__"))
	}
}

func TestMaterialize_ExcludesRenamedRoot(t *testing.T) {
	sdl := `
schema { query: ApiRoot }
type ApiRoot { cabin: Cabin }
type Cabin { kind: String }
`
	g := Materialize(loadSchema(t, sdl), testNamespace, testPrefix, "en")

	assert.Empty(t, objectsOf(g, testNamespace+"ApiRoot", rdfType))
	assert.True(t, hasTriple(g, testNamespace+"Cabin", rdfType, IRI(s2dmObjectType)))
}

func TestMaterialize_LanguageTag(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "de")

	assert.True(t, hasTriple(g, testNamespace+"Cabin", skosPrefLabel, LangLiteral("Cabin", "de")))
}

func TestMaterialize_SortedOutput(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	out := g.SortedNTriples()
	require.True(t, strings.HasSuffix(out, "\n"))
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Greater(t, len(lines), 10)
	for i := 1; i < len(lines); i++ {
		assert.LessOrEqual(t, lines[i-1], lines[i])
	}
}

func TestMaterialize_Deterministic(t *testing.T) {
	schema := loadSchema(t, cabinDoorSDL)

	g1 := Materialize(schema, "https://ex.org#", testPrefix, "en")
	g2 := Materialize(schema, "https://ex.org#", testPrefix, "en")

	assert.Equal(t, g1.SortedNTriples(), g2.SortedNTriples())
	assert.Equal(t, g1.Turtle(), g2.Turtle())
}

func TestWriteArtifacts(t *testing.T) {
	g := Materialize(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")
	dir := filepath.Join(t.TempDir(), "rdf")

	require.NoError(t, WriteArtifacts(g, dir, "schema"))

	nt, err := os.ReadFile(filepath.Join(dir, "schema.nt"))
	require.NoError(t, err)
	assert.Contains(t, string(nt), "hasField")
	assert.Contains(t, string(nt), "hasOutputType")
	assert.Equal(t, g.SortedNTriples(), string(nt))

	ttl, err := os.ReadFile(filepath.Join(dir, "schema.ttl"))
	require.NoError(t, err)
	assert.Contains(t, string(ttl), "@prefix skos:")
	assert.Contains(t, string(ttl), "@prefix s2dm:")
	assert.Contains(t, string(ttl), "ns:Cabin")
}

func TestSkeleton(t *testing.T) {
	g := Skeleton(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	scheme := "https://example.org/vss"
	assert.True(t, hasTriple(g, scheme, rdfType, IRI(skosConceptScheme)))

	cabin := testNamespace + "Cabin"
	assert.True(t, hasTriple(g, cabin, rdfType, IRI(skosConcept)))
	assert.True(t, hasTriple(g, cabin, skosPrefLabel, LangLiteral("Cabin", "en")))
	assert.True(t, hasTriple(g, cabin, skosInScheme, IRI(scheme)))
	assert.True(t, hasTriple(g, cabin, skosDefinition, Literal("In-cabin area of the vehicle.")))

	// Field and enum value concepts use their fully qualified names.
	doors := testNamespace + "Cabin.doors"
	assert.True(t, hasTriple(g, doors, rdfType, IRI(skosConcept)))
	assert.True(t, hasTriple(g, doors, skosPrefLabel, LangLiteral("Cabin.doors", "en")))
	suv := testNamespace + "CabinKindEnum.SUV"
	assert.True(t, hasTriple(g, suv, skosPrefLabel, LangLiteral("CabinKindEnum.SUV", "en")))
}

func TestSkeleton_NoModelVocabulary(t *testing.T) {
	g := Skeleton(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en")

	for _, tr := range g.Triples() {
		assert.False(t, strings.HasPrefix(tr.Predicate.Value, S2DMNamespace))
		if tr.Object.IsLiteral {
			continue
		}
		assert.False(t, strings.HasPrefix(tr.Object.Value, S2DMNamespace))
	}
}

func TestSkeleton_FieldDescriptions(t *testing.T) {
	sdl := `
type Query { v: Vehicle }
type Vehicle {
  """Average speed in km/h."""
  averageSpeed: Float
}
`
	g := Skeleton(loadSchema(t, sdl), testNamespace, testPrefix, "en")

	assert.True(t, hasTriple(g,
		testNamespace+"Vehicle.averageSpeed",
		skosDefinition,
		Literal("Average speed in km/h.")))
}

func TestSkeleton_Turtle(t *testing.T) {
	out := Skeleton(loadSchema(t, cabinDoorSDL), testNamespace, testPrefix, "en").Turtle()

	assert.Contains(t, out, "@prefix skos:")
	assert.Contains(t, out, "skos:Concept")
	assert.Contains(t, out, "skos:prefLabel")
	assert.Contains(t, out, "ns:Cabin")
}
