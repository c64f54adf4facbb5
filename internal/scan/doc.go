// Package scan locates rule, mode and header declarations in grammar
// source text without parsing the DSL in full.
//
// The scanner works on a de-commented, offset-preserving view of the file:
// comments are blanked with spaces (newlines kept) so every span it reports
// is valid in the original content. String literals and character classes
// shield comment markers, so a rule whose pattern is '//' or [*] survives
// intact. A scan ceiling bounds how far a single rule body may run without
// a closing semicolon; hitting it produces a diagnostic instead of an
// unbounded scan.
package scan
