// Package length represents text displacements as (line count, column count)
// pairs so token positions can be tracked across edits without rescanning the
// document.
//
// # Representations
//
// Length packs both counts into one uint64:
//
//	encoded = lineCount<<26 | columnCount
//
// Ordering, equality and hashing are plain integer operations on the encoded
// value. The encoding is exact for counts below 2^26 (MaxCount + 1). New does
// not check this; Checked does and reports ErrLineOverflow or
// ErrColumnOverflow.
//
// Object carries the same quantity as two ints, with no capacity limit, for
// call sites where readability matters more than allocation-free storage.
//
// # Arithmetic
//
// Add models concatenating two spans of text: crossing a line break discards
// the earlier column.
//
//	Add(New(10, 5), New(0, 3))  == New(10, 8)
//	Add(New(10, 5), New(20, 3)) == New(30, 3)
//
// DiffNonNegative is the inverse for a <= b and clamps to Zero otherwise:
//
//	Add(a, DiffNonNegative(a, b)) == b
//
// # Editor coordinates
//
// Lengths measured from the start of a document double as 0-based positions.
// ToPosition, FromPosition and ToRange convert them to the 1-based
// coordinates of internal/editor.
package length
