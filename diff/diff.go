// Package diff ingests structured schema diffs and wraps the external
// graphql-inspector CLI that produces them. The registry consumes Change
// records; it never computes them itself.
package diff

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mfkaptan-motius/s2dm/errors"
)

const componentDiff = "Diff"

// Criticality classifies a single schema change.
type Criticality string

const (
	// Breaking removes or narrows something existing clients may rely on.
	Breaking Criticality = "BREAKING"
	// Dangerous is compatible on the wire but can change client behavior.
	Dangerous Criticality = "DANGEROUS"
	// NonBreaking is a pure addition.
	NonBreaking Criticality = "NON_BREAKING"
)

// Change is one record of a structured schema diff. Path is the dotted
// concept coordinate the change applies to (Type, Type.field or
// Enum.VALUE). The registry inspects Path only; Criticality and
// Description ride along for reporting.
type Change struct {
	Path        string      `json:"path"`
	Criticality Criticality `json:"criticality"`
	Description string      `json:"description"`
}

// ParseFile reads a diff file written by the diff graphql subcommand or any
// compatible producer. The file must hold a JSON array of change records.
func ParseFile(path string) ([]Change, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, componentDiff, "ParseFile", "read diff file")
	}
	changes, err := Parse(data)
	if err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s: %v", errors.ErrMalformedDiff, path, err),
			componentDiff, "ParseFile", "parse diff file")
	}
	return changes, nil
}

// Parse decodes a JSON array of change records. An empty array is valid and
// distinct from no diff at all: it asserts that nothing changed.
func Parse(data []byte) ([]Change, error) {
	var changes []Change
	if err := json.Unmarshal(data, &changes); err != nil {
		return nil, fmt.Errorf("expected a JSON array of change records: %w", err)
	}
	for i, c := range changes {
		if c.Path == "" {
			return nil, fmt.Errorf("record %d: missing path", i)
		}
	}
	if changes == nil {
		changes = []Change{}
	}
	return changes, nil
}

// Marshal renders changes as the indented JSON array the diff graphql
// subcommand writes.
func Marshal(changes []Change) ([]byte, error) {
	if changes == nil {
		changes = []Change{}
	}
	out, err := json.MarshalIndent(changes, "", "  ")
	if err != nil {
		return nil, errors.WrapFatal(err, componentDiff, "Marshal", "encode diff")
	}
	return out, nil
}

// Paths returns the change paths in record order.
func Paths(changes []Change) []string {
	paths := make([]string, 0, len(changes))
	for _, c := range changes {
		paths = append(paths, c.Path)
	}
	return paths
}

// HasBreaking reports whether any change is more than a pure addition.
// Dangerous counts: the diff subcommand signals via exit code on anything
// that is not NON_BREAKING.
func HasBreaking(changes []Change) bool {
	for _, c := range changes {
		if c.Criticality != NonBreaking {
			return true
		}
	}
	return false
}
