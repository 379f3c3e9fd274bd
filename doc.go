// Package s2dm provides schema composition and concept identity tracking
// for GraphQL SDL domain models.
//
// # Overview
//
// Domain models are authored as many small GraphQL SDL files. s2dm merges
// them into one canonical schema, validates it against naming conventions,
// and tracks the identity of every concept the schema declares across
// revisions. A concept keeps its identifier until its meaning changes;
// the assigned version encodes how much it changed.
//
// The toolchain covers four stages:
//
//  1. Composition: resolve SDL sources (files, directories, URLs), merge
//     them, prune unreachable types, and optionally scope the result to a
//     root type or a selection query.
//  2. Comparison: diff two composed schemas with GraphQL Inspector and
//     classify the result as a patch, minor, or major change.
//  3. Identity: mint versioned concept IDs from the diff outcome and
//     append them to a JSON-LD spec history document.
//  4. Export: emit concept URIs, RDF graphs (N-Triples and Turtle), and
//     SKOS concept-scheme skeletons for downstream semantic tooling.
//
// # Architecture
//
//	 .graphql sources (files, directories, URLs)
//	                  ↓
//	        ┌──────────────────┐
//	        │      schema      │  compose, prune,
//	        │   (composition)  │  scope, search, stats
//	        └────────┬─────────┘
//	                 ↓ canonical SDL
//	    ┌────────────┼────────────────┐
//	    ↓            ↓                ↓
//	┌────────┐  ┌─────────┐    ┌───────────┐
//	│  diff  │  │ concept │    │ rdf+shape │
//	│(change │  │ (FQNs,  │    │ (triples, │
//	│ report)│  │  URIs)  │    │   SKOS)   │
//	└───┬────┘  └────┬────┘    └───────────┘
//	    ↓            ↓
//	┌──────────────────────────┐
//	│    registry + history    │  versioned concept IDs,
//	│   (identity over time)   │  JSON-LD spec history
//	└──────────────────────────┘
//
// # Packages
//
// Composition:
//   - schema: SDL source resolution, composition, pruning, scoping,
//     search, and statistics
//   - naming: naming convention configuration and constraint checking
//   - shape: value shape fingerprints used to detect field-level change
//
// Identity:
//   - concept: concept extraction (fully qualified names) and URI documents
//   - diff: GraphQL Inspector invocation, change parsing, bump
//     classification
//   - registry: versioned concept IDs computed from schema diffs
//   - history: JSON-LD spec history documents
//
// Export:
//   - rdf: schema-to-RDF materialization and SKOS skeleton generation
//
// Infrastructure:
//   - config: configuration loading from file and environment
//   - errors: structured error handling with severity classification
//   - pkg/atomicfile: atomic artifact writes
//   - pkg/retry: exponential backoff for remote schema sources
//
// # CLI
//
// The s2dm binary exposes each stage as a subcommand:
//
//	# Compose a schema from source files and directories
//	s2dm compose -s spec/ -o composed.graphql
//
//	# Report the changes between two schema versions
//	s2dm diff graphql -s spec/ -v previous/ -o changes.json
//
//	# Decide the version bump a revision requires
//	s2dm check version-bump -s spec/ -p previous/
//
//	# Validate naming and range constraints
//	s2dm check constraints -s spec/ --naming-config naming.yaml
//
//	# Start tracking concept identity, then roll it forward
//	s2dm registry init -s spec/ -o history.json --version-tag v1
//	s2dm registry update -s spec/ --spec-history history_v1.json \
//	    --previous-ids ids_v1.json --diff-file changes.json \
//	    -o history.json --version-tag v2
//
//	# Export concept URIs and RDF artifacts
//	s2dm registry concept-uri -s spec/ -o uris.json
//	s2dm generate schema-rdf -s spec/ -o model.ttl --namespace https://example.org/vss#
//
// Exit codes are part of the pipeline contract: diff graphql exits 1 when
// breaking changes are found, check constraints exits 1 on violations, and
// check version-bump always exits 0 so CI can read its verdict from the
// output instead.
//
// # Design Principles
//
// Deterministic output:
//   - Composed SDL orders types and fields canonically
//   - RDF serializations sort triples before writing
//   - Registry and history JSON round-trips preserve content exactly
//
// Pipeline friendliness:
//   - stdout carries command output only; diagnostics go to stderr
//   - Artifacts are written atomically and appear complete or not at all
//
// # Version
//
// Current: v0.1.0
package s2dm
