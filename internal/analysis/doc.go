// Package analysis runs read-only checks over a grammar model: reference
// validation, unused rules, left-recursion classification, naming
// conventions, alternative-level ambiguity patterns and lexer-mode graph
// checks. Every check is pure: it reads the model and emits diagnostics,
// never mutating either.
package analysis
