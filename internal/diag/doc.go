// Package diag defines the diagnostic model shared by every analysis and
// rewrite phase.
//
// Diagnostic is the central record: severity, a stable numeric Code, a
// human message, a primary source.Span, the grammar rule it concerns (when
// any) and an optional suggestion. Producers emit through a Reporter so
// they stay decoupled from storage; BagReporter aggregates into a Bag,
// which supports capacity limits, stable sorting and deduplication.
//
// The package performs no formatting or IO. Rendering lives in
// internal/diagfmt, orchestration in internal/driver. Keep the data model
// deterministic and serialisable so diagnostics can be cached and compared
// in tests.
package diag
