package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfkaptan-motius/s2dm/concept"
	"github.com/mfkaptan-motius/s2dm/errors"
	"github.com/mfkaptan-motius/s2dm/registry"
)

const (
	testNamespace = "https://example.org/vss#"
	testPrefix    = "ns"
)

func initialRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.Compute(
		[]string{"Person.height", "Person.name", "Vehicle.averageSpeed"},
		nil, nil, "v1.0.0")
	require.NoError(t, err)
	return reg
}

func record(doc *Document, id string) *Record {
	for i := range doc.Graph {
		if doc.Graph[i].ID == id {
			return &doc.Graph[i]
		}
	}
	return nil
}

func chain(r *Record) []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.SpecHistory))
	for _, ref := range r.SpecHistory {
		ids = append(ids, ref.ID)
	}
	return ids
}

func TestNew(t *testing.T) {
	doc := New(initialRegistry(t), testNamespace, testPrefix)

	assert.Equal(t, map[string]string{"ns": testNamespace}, doc.Context)
	require.Len(t, doc.Graph, 3)
	assert.Equal(t, "ns:Person.height", doc.Graph[0].ID)
	assert.Equal(t, "ns:Person.name", doc.Graph[1].ID)
	assert.Equal(t, "ns:Vehicle.averageSpeed", doc.Graph[2].ID)
	assert.Equal(t, []string{"Vehicle.averageSpeed/v1.0"}, chain(record(doc, "ns:Vehicle.averageSpeed")))
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "spec_history_v1.0.0.json")

	doc, err := Init(path, initialRegistry(t), testNamespace, testPrefix)
	require.NoError(t, err)
	require.NotNil(t, doc)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	vehicle := record(loaded, "ns:Vehicle.averageSpeed")
	require.NotNil(t, vehicle)
	assert.Equal(t, "Vehicle.averageSpeed/v1.0", vehicle.Latest())
}

func TestInit_RefusesExistingHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec_history.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"@graph": []}`), 0o644))

	_, err := Init(path, initialRegistry(t), testNamespace, testPrefix)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHistoryExists)
	assert.True(t, errors.IsFatal(err))
	assert.Contains(t, err.Error(), path)

	// The existing file is left untouched.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, `{"@graph": []}`, string(data))
}

func TestInit_AllowsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec_history.json")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Init(path, initialRegistry(t), testNamespace, testPrefix)
	require.NoError(t, err)
}

func TestInit_Deterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")

	reg := initialRegistry(t)
	_, err := Init(first, reg, testNamespace, testPrefix)
	require.NoError(t, err)
	_, err = Init(second, reg, testNamespace, testPrefix)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

// A breaking change to one concept extends its chain; siblings keep their
// single-entry chains untouched.
func TestUpdate_AppendsChangedVariant(t *testing.T) {
	dir := t.TempDir()
	initPath := filepath.Join(dir, "spec_history_v1.0.0.json")
	outPath := filepath.Join(dir, "spec_history_v1.1.0.json")

	prev := initialRegistry(t)
	_, err := Init(initPath, prev, testNamespace, testPrefix)
	require.NoError(t, err)

	next := &registry.Registry{
		VersionTag: "v1.1.0",
		Concepts: map[string]registry.Entry{
			"Person.height":        {ID: "Person.height/v2.0", VersionTag: "v1.1.0"},
			"Person.name":          {ID: "Person.name/v1.0", VersionTag: "v1.0.0"},
			"Vehicle.averageSpeed": {ID: "Vehicle.averageSpeed/v2.0", VersionTag: "v1.1.0"},
		},
	}

	doc, err := Update(initPath, outPath, next, testNamespace, testPrefix)
	require.NoError(t, err)

	assert.Equal(t,
		[]string{"Vehicle.averageSpeed/v1.0", "Vehicle.averageSpeed/v2.0"},
		chain(record(doc, "ns:Vehicle.averageSpeed")))
	assert.Equal(t,
		[]string{"Person.height/v1.0", "Person.height/v2.0"},
		chain(record(doc, "ns:Person.height")))
	assert.Equal(t,
		[]string{"Person.name/v1.0"},
		chain(record(doc, "ns:Person.name")))

	written, err := Load(outPath)
	require.NoError(t, err)
	assert.Equal(t, doc, written)
}

func TestUpdate_LeavesInputFileAlone(t *testing.T) {
	dir := t.TempDir()
	initPath := filepath.Join(dir, "spec_history_v1.0.0.json")
	outPath := filepath.Join(dir, "spec_history_v1.1.0.json")

	_, err := Init(initPath, initialRegistry(t), testNamespace, testPrefix)
	require.NoError(t, err)
	before, err := os.ReadFile(initPath)
	require.NoError(t, err)

	next := &registry.Registry{
		VersionTag: "v1.1.0",
		Concepts:   map[string]registry.Entry{"Person.name": {ID: "Person.name/v2.0", VersionTag: "v1.1.0"}},
	}
	_, err = Update(initPath, outPath, next, testNamespace, testPrefix)
	require.NoError(t, err)

	after, err := os.ReadFile(initPath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUpdate_MissingHistory(t *testing.T) {
	dir := t.TempDir()
	reg := initialRegistry(t)

	_, err := Update(filepath.Join(dir, "absent.json"), filepath.Join(dir, "out.json"), reg, testNamespace, testPrefix)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHistoryNotFound)
	assert.True(t, errors.IsFatal(err))
}

func TestMerge_NewConceptGetsFreshChain(t *testing.T) {
	doc := New(initialRegistry(t), testNamespace, testPrefix)

	next := &registry.Registry{
		VersionTag: "v1.1.0",
		Concepts: map[string]registry.Entry{
			"Vehicle.note": {ID: "Vehicle.note/v1.0", VersionTag: "v1.1.0"},
		},
	}
	doc.Merge(next, testNamespace, testPrefix)

	assert.Equal(t, []string{"Vehicle.note/v1.0"}, chain(record(doc, "ns:Vehicle.note")))
}

// A concept dropped from the current schema keeps its recorded chain: the
// history preserves everything that ever existed.
func TestMerge_AbsentConceptsUntouched(t *testing.T) {
	doc := New(initialRegistry(t), testNamespace, testPrefix)

	next := &registry.Registry{
		VersionTag: "v2.0.0",
		Concepts: map[string]registry.Entry{
			"Person.name": {ID: "Person.name/v1.0", VersionTag: "v1.0.0"},
		},
	}
	doc.Merge(next, testNamespace, testPrefix)

	assert.Equal(t, []string{"Vehicle.averageSpeed/v1.0"}, chain(record(doc, "ns:Vehicle.averageSpeed")))
	assert.Equal(t, []string{"Person.height/v1.0"}, chain(record(doc, "ns:Person.height")))
}

func TestMerge_UnchangedVariantNotDuplicated(t *testing.T) {
	reg := initialRegistry(t)
	doc := New(reg, testNamespace, testPrefix)

	doc.Merge(reg, testNamespace, testPrefix)
	doc.Merge(reg, testNamespace, testPrefix)

	assert.Equal(t, []string{"Person.name/v1.0"}, chain(record(doc, "ns:Person.name")))
}

func TestMerge_RebindsContext(t *testing.T) {
	doc := New(initialRegistry(t), testNamespace, testPrefix)

	next := &registry.Registry{VersionTag: "v1.1.0", Concepts: map[string]registry.Entry{}}
	doc.Merge(next, "https://covesa.global/models#", "vss")

	assert.Equal(t, map[string]string{"vss": "https://covesa.global/models#"}, doc.Context)
}

func TestDocument_JSONShape(t *testing.T) {
	doc := New(initialRegistry(t), testNamespace, testPrefix)

	data, err := json.MarshalIndent(doc, "", "  ")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Contains(t, decoded, "@context")
	require.Contains(t, decoded, "@graph")

	graph, ok := decoded["@graph"].([]any)
	require.True(t, ok)
	entry, ok := graph[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ns:Vehicle.averageSpeed", entry["@id"])

	specHistory, ok := entry["specHistory"].([]any)
	require.True(t, ok)
	first, ok := specHistory[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Vehicle.averageSpeed/v1.0", first["@id"])
}

func TestRecord_Latest(t *testing.T) {
	empty := &Record{ID: "ns:X"}
	assert.Empty(t, empty.Latest())

	r := &Record{ID: "ns:X", SpecHistory: []concept.Ref{{ID: "X/v1.0"}, {ID: "X/v2.0"}}}
	assert.Equal(t, "X/v2.0", r.Latest())
}
