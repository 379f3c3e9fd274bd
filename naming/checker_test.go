package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

const constraintDirectivesSDL = `
directive @instanceTag on OBJECT | INTERFACE
directive @range(min: Float, max: Float) on FIELD_DEFINITION
directive @cardinality(min: Int, max: Int) on FIELD_DEFINITION
`

const cleanSDL = constraintDirectivesSDL + `
type Query { door: Door }

type Door {
  instanceTag: InCabinArea2x2
  isOpen: Boolean
  angle: Float @range(min: 0, max: 90)
  hinges: [Hinge] @cardinality(min: 1, max: 4)
}

type Hinge { id: ID! }

type InCabinArea2x2 @instanceTag {
  row: TwoRowsInCabinEnum
  column: TwoColumnsInCabinEnum
}

enum TwoRowsInCabinEnum { ROW1 ROW2 }
enum TwoColumnsInCabinEnum { DRIVER_SIDE PASSENGER_SIDE }
`

func checkerSchema(t *testing.T, sdl string) *ast.Schema {
	t.Helper()
	schema, err := gqlparser.LoadSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	require.NoError(t, err)
	return schema
}

func TestChecker_CleanSchemaPasses(t *testing.T) {
	checker := NewChecker(checkerSchema(t, cleanSDL), nil)

	assert.Empty(t, checker.Run())
}

func TestChecker_InstanceTagOutputNotObject(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { door: Door }
type Door { instanceTag: String }
`
	violations := NewChecker(checkerSchema(t, sdl), nil).Run()

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Door.instanceTag")
	assert.Contains(t, violations[0], `"String" is not an object type`)
}

func TestChecker_InstanceTagOutputMissingDirective(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { door: Door }
type Door { instanceTag: Area }
type Area { row: RowEnum }
enum RowEnum { ROW1 }
`
	violations := NewChecker(checkerSchema(t, sdl), nil).Run()

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Door.instanceTag")
	assert.Contains(t, violations[0], "not annotated with @instanceTag")
}

func TestChecker_InstanceTagOnNonObject(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { x: String }
interface Addressable @instanceTag { id: ID! }
`
	violations := NewChecker(checkerSchema(t, sdl), nil).Run()

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Addressable")
	assert.Contains(t, violations[0], "only valid on object types")
}

func TestChecker_TagObjectWithNonEnumField(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { door: Door }
type Door { instanceTag: Area }
type Area @instanceTag {
  row: RowEnum
  label: String
}
enum RowEnum { ROW1 }
`
	violations := NewChecker(checkerSchema(t, sdl), nil).Run()

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "Area.label")
	assert.Contains(t, violations[0], "must be enums")
	assert.Contains(t, violations[0], `"String"`)
}

func TestChecker_RangeMinAboveMax(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { v: Vehicle }
type Vehicle { speed: Float @range(min: 10, max: 5) }
`
	violations := NewChecker(checkerSchema(t, sdl), nil).Run()

	require.Len(t, violations, 1)
	assert.Equal(t, "Vehicle.speed: @range min (10) greater than max (5)", violations[0])
}

func TestChecker_CardinalityMinAboveMax(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { v: Vehicle }
type Vehicle { wheels: [Wheel] @cardinality(min: 4, max: 2) }
type Wheel { id: ID }
`
	violations := NewChecker(checkerSchema(t, sdl), nil).Run()

	require.Len(t, violations, 1)
	assert.Equal(t, "Vehicle.wheels: @cardinality min (4) greater than max (2)", violations[0])
}

func TestChecker_HalfBoundedDirectivesPass(t *testing.T) {
	sdl := constraintDirectivesSDL + `
type Query { v: Vehicle }
type Vehicle {
  speed: Float @range(min: 0)
  wheels: [Wheel] @cardinality(max: 6)
}
type Wheel { id: ID }
`
	assert.Empty(t, NewChecker(checkerSchema(t, sdl), nil).Run())
}

func TestChecker_ConventionViolations(t *testing.T) {
	conventions, err := ParseConventions([]byte(conventionsYAML))
	require.NoError(t, err)

	sdl := `
type Query { v: badType }
type badType { BadField: String }
enum Rows { lower }
`
	violations := NewChecker(checkerSchema(t, sdl), conventions).ConventionViolations()

	// Types are visited in sorted order, so Rows precedes badType.
	require.Len(t, violations, 3)
	assert.Equal(t, `enum value "Rows.lower" does not match convention "^[A-Z][A-Z0-9_]*$"`, violations[0])
	assert.Equal(t, `object "badType" does not match convention "^[A-Z][a-zA-Z0-9]*$"`, violations[1])
	assert.Equal(t, `field "badType.BadField" does not match convention "^[a-z][a-zA-Z0-9]*$"`, violations[2])
}

func TestChecker_RunIncludesConventions(t *testing.T) {
	conventions, err := ParseConventions([]byte(conventionsYAML))
	require.NoError(t, err)

	sdl := constraintDirectivesSDL + `
type Query { v: Vehicle }
type Vehicle { Speed: Float @range(min: 10, max: 5) }
`
	violations := NewChecker(checkerSchema(t, sdl), conventions).Run()

	// Structural violations come before naming ones.
	require.Len(t, violations, 2)
	assert.Contains(t, violations[0], "@range")
	assert.Contains(t, violations[1], "does not match convention")
}

func TestChecker_NilConventionsSkipsNamingRules(t *testing.T) {
	sdl := `
type Query { v: badType }
type badType { BadField: String }
`
	assert.Empty(t, NewChecker(checkerSchema(t, sdl), nil).Run())
}

func TestChecker_DeterministicOrder(t *testing.T) {
	schema := checkerSchema(t, cleanSDL)
	conventions, err := ParseConventions([]byte(conventionsYAML))
	require.NoError(t, err)

	first := NewChecker(schema, conventions).Run()
	second := NewChecker(schema, conventions).Run()

	assert.Equal(t, first, second)
}
