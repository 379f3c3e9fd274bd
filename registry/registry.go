// Package registry computes variant identifiers for schema concepts. A
// variant ID pins one distinct definition of a concept: any structural
// change recorded in the diff bumps the major component by exactly one,
// and an untouched concept carries its identifier forward unchanged.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mfkaptan-motius/s2dm/diff"
	"github.com/mfkaptan-motius/s2dm/errors"
	"github.com/mfkaptan-motius/s2dm/pkg/atomicfile"
)

const componentRegistry = "Registry"

// Entry records the current variant of one concept and the release tag
// under which that variant was assigned. A carried entry keeps the tag of
// the release that last changed it.
type Entry struct {
	ID         string `json:"id"`
	VersionTag string `json:"version_tag,omitempty"`
}

// Registry is the complete variant mapping for one release. It is built
// fresh each run and never mutated in place.
type Registry struct {
	VersionTag string           `json:"version_tag"`
	Concepts   map[string]Entry `json:"concepts"`
}

// FormatID renders a variant ID: <FQN>/v<major>.<minor>.
func FormatID(fqn string, major, minor int) string {
	return fmt.Sprintf("%s/v%d.%d", fqn, major, minor)
}

// ParseID splits a variant ID into concept name and version components.
func ParseID(id string) (fqn string, major, minor int, err error) {
	idx := strings.LastIndex(id, "/")
	if idx <= 0 || idx == len(id)-1 {
		return "", 0, 0, fmt.Errorf("malformed variant id %q", id)
	}
	fqn = id[:idx]
	version := id[idx+1:]
	if !strings.HasPrefix(version, "v") {
		return "", 0, 0, fmt.Errorf("malformed variant id %q", id)
	}
	majorText, minorText, ok := strings.Cut(version[1:], ".")
	if !ok {
		return "", 0, 0, fmt.Errorf("malformed variant id %q", id)
	}
	major, err = strconv.Atoi(majorText)
	if err != nil || major < 0 {
		return "", 0, 0, fmt.Errorf("malformed variant id %q", id)
	}
	minor, err = strconv.Atoi(minorText)
	if err != nil || minor < 0 {
		return "", 0, 0, fmt.Errorf("malformed variant id %q", id)
	}
	return fqn, major, minor, nil
}

// Compute derives the registry for the current concept set. previous may
// be nil on a first run. changes is the structured diff between the
// previous release and this one and is required whenever previous is
// given: without it there is no sound way to tell which concepts changed.
// An empty non-nil change list asserts that nothing changed. previous is
// never mutated.
func Compute(concepts []string, previous *Registry, changes []diff.Change, versionTag string) (*Registry, error) {
	if previous != nil && changes == nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w", errors.ErrDiffRequired),
			componentRegistry, "Compute", "validate inputs")
	}

	reg := &Registry{
		VersionTag: versionTag,
		Concepts:   make(map[string]Entry, len(concepts)),
	}
	for _, fqn := range concepts {
		entry, err := nextEntry(fqn, previous, changes, versionTag)
		if err != nil {
			return nil, err
		}
		reg.Concepts[fqn] = entry
	}
	return reg, nil
}

func nextEntry(fqn string, previous *Registry, changes []diff.Change, versionTag string) (Entry, error) {
	var prev Entry
	var carried bool
	if previous != nil {
		prev, carried = previous.Concepts[fqn]
	}
	if !carried {
		return Entry{ID: FormatID(fqn, 1, 0), VersionTag: versionTag}, nil
	}
	if !touchedBy(fqn, changes) {
		return prev, nil
	}
	_, major, _, err := ParseID(prev.ID)
	if err != nil {
		return Entry{}, errors.WrapInvalid(
			fmt.Errorf("previous entry for %s: %v", fqn, err),
			componentRegistry, "Compute", "parse previous variant id")
	}
	return Entry{ID: FormatID(fqn, major+1, 0), VersionTag: versionTag}, nil
}

// touchedBy reports whether any change path denotes the concept itself or
// a concept nested under it. Propagation is upward only: a changed
// Enum.VALUE bumps Enum too, but a change recorded against Enum alone does
// not bump every value.
func touchedBy(fqn string, changes []diff.Change) bool {
	for _, c := range changes {
		if c.Path == fqn || strings.HasPrefix(c.Path, fqn+".") {
			return true
		}
	}
	return false
}

// Load reads a registry file of the shape
// {"version_tag": ..., "concepts": {FQN: {"id": "<FQN>/v1.0"}}}.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFatal(err, componentRegistry, "Load", "read registry file")
	}
	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, errors.WrapInvalid(
			fmt.Errorf("registry file %s: %v", path, err),
			componentRegistry, "Load", "parse registry file")
	}
	if reg.Concepts == nil {
		reg.Concepts = map[string]Entry{}
	}
	return &reg, nil
}

// Write persists the registry as indented JSON with deterministic key
// order, creating parent directories and replacing the target atomically.
func (r *Registry) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.WrapFatal(err, componentRegistry, "Write", "encode registry")
	}
	if err := atomicfile.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapFatal(err, componentRegistry, "Write", "write registry file")
	}
	return nil
}

// IDs returns the concept name to variant ID mapping.
func (r *Registry) IDs() map[string]string {
	ids := make(map[string]string, len(r.Concepts))
	for fqn, entry := range r.Concepts {
		ids[fqn] = entry.ID
	}
	return ids
}
