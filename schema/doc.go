// Package schema composes GraphQL SDL sources into a single validated
// schema document and renders it in a canonical form.
//
// # Overview
//
// Compose merges any number of SDL sources (files, directories, URLs) into
// one document, records which source contributed each named definition, and
// rejects the merge when two sources define the same name. The merged
// document is printed in a canonical order and re-validated, so composing
// the same sources always yields byte-identical output regardless of input
// order.
//
// Provenance is materialized into the schema itself: when the composed
// document declares a @reference directive with a source argument, every
// definition that does not already carry one gets @reference(source: "...")
// pointing at its contributing file. Re-composing a composed schema is a
// no-op.
//
// # Scoping
//
// ScopeToRoot keeps one type and everything reachable from it, adding a
// synthetic Query wrapper when the original Query falls away. ScopeToSelection
// filters the schema down to the types and fields a GraphQL query selects.
// Both prune directive declarations that no surviving element uses.
package schema
