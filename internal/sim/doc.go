// Package sim approximates the generated lexer and parser without ever
// invoking a grammar compiler. Lexer rule bodies compile into small
// matcher trees used for maximal-munch tokenization; parser rules are
// matched against token streams with a bounded-depth backtracking walk.
// The results are advisory: the package reports a confidence level rather
// than pretending to be the real toolchain, and an external Oracle can be
// plugged in to cross-check.
package sim
