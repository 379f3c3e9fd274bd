// Package errors provides standardized error handling patterns for s2dm components.
//
// # Overview
//
// The errors package implements a three-class error classification system for a
// batch composition and registry tool: Transient (temporary, outside the tool's
// control), Invalid (bad input or configuration), and Fatal (unrecoverable, stop
// the run). There is no retry machinery: a run either completes and writes its
// output, or fails before writing anything.
//
// The classification system integrates with Go's standard error handling,
// supporting errors.Is(), errors.As(), and error wrapping chains.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Three wrapper functions provide classification-aware wrapping:
//
//	errors.WrapTransient(err, "Composer", "Compose", "read source")
//	errors.WrapInvalid(err, "Composer", "Compose", "merge definitions")
//	errors.WrapFatal(err, "HistoryStore", "Init", "create history file")
//
// The generic Wrap() function preserves the original error's classification:
//
//	errors.Wrap(err, "Registry", "Compute", "load previous ids")
//
// # Standard Error Variables
//
// Pre-defined error variables cover the tool's failure taxonomy, organized by
// category:
//
//   - Source loading: ErrSourceUnreadable, ErrInvalidSchema
//   - Composition: ErrDuplicateDefinition, ErrDirectiveLocation, ErrRootTypeNotFound
//   - Field shapes: ErrNoDuplicatesOnNonList
//   - Registry and diff: ErrDiffRequired, ErrMalformedDiff
//   - Spec history: ErrHistoryExists, ErrHistoryNotFound
//   - Configuration: ErrInvalidConfig, ErrMissingConfig
//   - External tools: ErrInspectorNotFound
//
// Use these variables instead of creating custom error messages so callers can
// branch on errors.Is rather than string matching:
//
//	if errors.Is(err, errors.ErrHistoryExists) {
//	    // refuse to overwrite recorded history
//	}
//
// # Integration with errors.As/Is
//
//	var ce *errors.ClassifiedError
//	if errors.As(err, &ce) {
//	    log.Printf("Component: %s, Class: %s", ce.Component, ce.Class)
//	}
//
// Classification is preserved through error chains:
//
//	wrapped := errors.WrapInvalid(errors.ErrDiffRequired, "Registry", "Compute", "validate inputs")
//	errors.IsInvalid(wrapped) // true
package errors
