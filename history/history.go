// Package history persists the spec history: the full, append-only variant
// chain of every concept that has ever existed across registry runs. The
// store is a JSON-LD file read fully into memory, merged, and rewritten
// wholesale; persisted chain entries never move or change.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/mfkaptan-motius/s2dm/concept"
	"github.com/mfkaptan-motius/s2dm/errors"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
	"github.com/mfkaptan-motius/s2dm/registry"
)

const componentHistory = "History"

// Record tracks one concept's variant chain, oldest first.
type Record struct {
	ID          string        `json:"@id"`
	SpecHistory []concept.Ref `json:"specHistory"`
}

// Latest returns the most recent variant ID in the chain, or empty.
func (r *Record) Latest() string {
	if len(r.SpecHistory) == 0 {
		return ""
	}
	return r.SpecHistory[len(r.SpecHistory)-1].ID
}

// Document is the JSON-LD spec history file: a context binding the concept
// prefix to its namespace and one record per concept.
type Document struct {
	Context map[string]string `json:"@context"`
	Graph   []Record          `json:"@graph"`
}

// New builds the initial document for a freshly computed registry, one
// record per concept in name order.
func New(reg *registry.Registry, namespace, prefix string) *Document {
	doc := &Document{
		Context: map[string]string{prefix: namespace},
		Graph:   make([]Record, 0, len(reg.Concepts)),
	}
	for _, fqn := range sortedConcepts(reg) {
		doc.Graph = append(doc.Graph, Record{
			ID:          concept.URI(prefix, fqn),
			SpecHistory: []concept.Ref{{ID: reg.Concepts[fqn].ID}},
		})
	}
	return doc
}

// Merge folds a new registry into the document. For every concept in the
// registry: a new concept gets a fresh chain, a changed variant ID is
// appended to the existing chain, an unchanged one leaves its record
// untouched. Records for concepts absent from the registry are preserved
// exactly as recorded. The context is rebound to the current namespace and
// prefix; new records are appended in concept name order.
func (d *Document) Merge(reg *registry.Registry, namespace, prefix string) {
	d.Context = map[string]string{prefix: namespace}

	index := make(map[string]int, len(d.Graph))
	for i, record := range d.Graph {
		index[record.ID] = i
	}

	for _, fqn := range sortedConcepts(reg) {
		uri := concept.URI(prefix, fqn)
		id := reg.Concepts[fqn].ID

		i, ok := index[uri]
		if !ok {
			d.Graph = append(d.Graph, Record{
				ID:          uri,
				SpecHistory: []concept.Ref{{ID: id}},
			})
			index[uri] = len(d.Graph) - 1
			continue
		}
		if d.Graph[i].Latest() != id {
			d.Graph[i].SpecHistory = append(d.Graph[i].SpecHistory, concept.Ref{ID: id})
		}
	}
}

// Init creates the history file for a first release. Refuses to overwrite
// an existing non-empty file: history is append-only state and a second
// init would erase it.
func Init(path string, reg *registry.Registry, namespace, prefix string) (*Document, error) {
	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: %s", errors.ErrHistoryExists, path),
			componentHistory, "Init", "create history file")
	}

	doc := New(reg, namespace, prefix)
	if err := write(path, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Update loads the history at historyPath, merges the registry into it,
// and writes the result to outputPath. The input file is never edited in
// place: a run either completes and writes outputPath or fails before
// writing anything.
func Update(historyPath, outputPath string, reg *registry.Registry, namespace, prefix string) (*Document, error) {
	doc, err := Load(historyPath)
	if err != nil {
		return nil, err
	}
	doc.Merge(reg, namespace, prefix)
	if err := write(outputPath, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Load reads a history document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapFatal(
				fmt.Errorf("%w: %s", errors.ErrHistoryNotFound, path),
				componentHistory, "Load", "read history file")
		}
		return nil, errors.WrapFatal(err, componentHistory, "Load", "read history file")
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("history file %s: %v", path, err),
			componentHistory, "Load", "parse history file")
	}
	return &doc, nil
}

func write(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.WrapFatal(err, componentHistory, "write", "encode history")
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapFatal(err, componentHistory, "write", "write history file")
	}
	return nil
}

func sortedConcepts(reg *registry.Registry) []string {
	fqns := make([]string, 0, len(reg.Concepts))
	for fqn := range reg.Concepts {
		fqns = append(fqns, fqn)
	}
	sort.Strings(fqns)
	return fqns
}
