// Package model defines the transition table, the core data structure of
// charkov: a two-level map from a source symbol to the symbols observed
// immediately after it, with observation counts.
//
// A Table is built by observing adjacent symbol pairs in a stream (a sliding
// window of width 2). Pairs are never formed across source boundaries: each
// file or buffer is ingested independently, which is what makes parallel
// chunked construction equivalent to a sequential pass (see Merge).
//
// Symbols are rune-width integer codes. Text sources contribute Unicode
// scalar values; byte-mode sources contribute raw byte values zero-extended
// to a Symbol. The table itself is agnostic to which mode produced it.
package model
