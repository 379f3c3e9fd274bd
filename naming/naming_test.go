package naming

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfkaptan-motius/s2dm/errors"
)

const conventionsYAML = `
conventions:
  object: "^[A-Z][a-zA-Z0-9]*$"
  field: "^[a-z][a-zA-Z0-9]*$"
  enum_value: "^[A-Z][A-Z0-9_]*$"
`

func TestParseConventions(t *testing.T) {
	conventions, err := ParseConventions([]byte(conventionsYAML))
	require.NoError(t, err)

	assert.True(t, conventions.Matches("object", "Vehicle"))
	assert.False(t, conventions.Matches("object", "vehicle"))
	assert.True(t, conventions.Matches("field", "averageSpeed"))
	assert.False(t, conventions.Matches("field", "AverageSpeed"))
	assert.True(t, conventions.Matches("enum_value", "DRIVER_SIDE"))
	assert.False(t, conventions.Matches("enum_value", "driverSide"))
}

func TestParseConventions_UnboundKindMatches(t *testing.T) {
	conventions, err := ParseConventions([]byte(conventionsYAML))
	require.NoError(t, err)

	assert.True(t, conventions.Matches("union", "anything_goes"))
}

func TestParseConventions_UnknownKind(t *testing.T) {
	_, err := ParseConventions([]byte("conventions:\n  gadget: \"^x$\"\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), "gadget")
}

func TestParseConventions_InvalidPattern(t *testing.T) {
	_, err := ParseConventions([]byte("conventions:\n  object: \"[unclosed\"\n"))

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "object")
}

func TestParseConventions_NotYAML(t *testing.T) {
	_, err := ParseConventions([]byte("{not yaml: ["))

	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidConfig)
}

func TestParseConventions_EmptyDocument(t *testing.T) {
	conventions, err := ParseConventions(nil)
	require.NoError(t, err)

	assert.True(t, conventions.Matches("object", "whatever"))
}

func TestLoadConventions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naming.yaml")
	require.NoError(t, os.WriteFile(path, []byte(conventionsYAML), 0o644))

	conventions, err := LoadConventions(path)
	require.NoError(t, err)
	assert.False(t, conventions.Matches("object", "snake_case"))
}

func TestLoadConventions_MissingFile(t *testing.T) {
	_, err := LoadConventions(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestLoadConventions_InvalidFileKeepsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "naming.yaml")
	require.NoError(t, os.WriteFile(path, []byte("conventions:\n  bogus: \".\"\n"), 0o644))

	_, err := LoadConventions(path)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
	assert.Contains(t, err.Error(), path)
}

func TestConventions_NilDisablesChecking(t *testing.T) {
	var conventions *Conventions

	assert.True(t, conventions.Matches("object", "anything"))
	_, ok := conventions.Pattern("object")
	assert.False(t, ok)
}

func TestConventions_Pattern(t *testing.T) {
	conventions, err := ParseConventions([]byte(conventionsYAML))
	require.NoError(t, err)

	pattern, ok := conventions.Pattern("field")
	require.True(t, ok)
	assert.Equal(t, "^[a-z][a-zA-Z0-9]*$", pattern)
}
