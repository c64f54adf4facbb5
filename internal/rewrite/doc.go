// Package rewrite implements formatting-preserving mutations of grammar
// text: add, remove, update, rename, inline, merge, extract and sort.
//
// Every operation is a pure function from (text, parameters) to a Result;
// nothing is cached between calls. Mutations are span splices over
// scanner-derived offsets — never a whole-file reconstruction — so text
// outside the touched spans survives byte-for-byte. Precondition failures
// come back as a structured Result with a sentinel error, not a panic, and
// leave the text unchanged.
package rewrite
