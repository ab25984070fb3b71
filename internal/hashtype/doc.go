// Package hashtype defines the catalog of recognizable hash formats and the
// immutable registry the classifier evaluates inputs against.
//
// A Definition pairs a display name with an anchored regular expression, a
// rarity tier, and a short description. NewRegistry compiles a slice of
// definitions once, preserving their order, and precomputes which entries
// carry byte-identical pattern text. Entries whose patterns share text form an
// ambiguity family: a digest that satisfies one of them structurally satisfies
// all of them, so downstream confidence scoring treats the family as a unit.
// Custom definitions appended from configuration join a family automatically
// when they reuse an existing pattern string.
//
// The registry never changes after construction. Catalog edits happen in
// builtin.go; keep the family partition in builtin_test.go in sync when
// adding or removing entries.
package hashtype
