// Package analysis composes the text utilities into a single pipeline.
//
// A Pipeline tokenizes its input exactly once and derives every other output
// (sentiment, frequency table, long words, capitalized tokens) from that token
// slice. The package-level functions run against a shared default pipeline.
package analysis
