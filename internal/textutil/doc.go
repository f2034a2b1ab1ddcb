// Package textutil provides the token-level building blocks of the analysis
// pipeline.
//
// The primary use cases are:
//   - Splitting raw text (or raw bytes) into normalized tokens
//   - Tallying token frequency in a single pass
//   - Filtering tokens by length and capitalizing them
//   - Building term-frequency fingerprints and comparing them with cosine similarity
//
// Tokenization lowercases text and splits on whitespace and the punctuation
// set . , ! ? ; : so a token is never empty and never contains a delimiter.
// Every function here is pure and safe for concurrent use.
package textutil
