package length

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ColumnBits is the number of low bits holding the column count.
const ColumnBits = 26

// factor is the radix between the line and column halves of the encoding.
const factor = 1 << ColumnBits

// MaxCount is the largest line or column count that encodes exactly.
const MaxCount = factor - 1

const columnMask = factor - 1

// Length is a non-negative (line count, column count) displacement packed
// into a single integer as lineCount*2^26 + columnCount.
//
// The encoding is order preserving as long as the column count stays below
// 2^26, so equality and ordering are plain integer comparisons. Values are
// immutable; every operation returns a new Length.
type Length uint64

// Zero is the empty displacement.
const Zero Length = 0

var (
	// ErrNegative is returned when a line or column count is negative.
	ErrNegative = errors.New("negative line or column count")
	// ErrColumnOverflow is returned when a column count does not fit the encoding.
	ErrColumnOverflow = errors.New("column count exceeds packed length limit")
	// ErrLineOverflow is returned when a line count does not fit the encoding.
	ErrLineOverflow = errors.New("line count exceeds packed length limit")
)

// New packs lineCount and columnCount without any checks.
// columnCount must be below 2^26: larger values spill into the line half and
// silently corrupt later comparisons. Use Checked when the input is untrusted.
func New(lineCount, columnCount uint32) Length {
	return Length(uint64(lineCount)<<ColumnBits + uint64(columnCount))
}

// FromLineColumn is New under its decode-pair name; ToObject is its inverse.
func FromLineColumn(lineCount, columnCount uint32) Length {
	return New(lineCount, columnCount)
}

// Checked packs lineCount and columnCount, rejecting values the encoding
// cannot represent instead of aliasing them.
func Checked(lineCount, columnCount int) (Length, error) {
	if lineCount < 0 || columnCount < 0 {
		return Zero, fmt.Errorf("%w: (%d, %d)", ErrNegative, lineCount, columnCount)
	}
	line, err := safecast.Conv[uint32](lineCount)
	if err != nil || line > MaxCount {
		return Zero, fmt.Errorf("%w: %d", ErrLineOverflow, lineCount)
	}
	col, err := safecast.Conv[uint32](columnCount)
	if err != nil || col > MaxCount {
		return Zero, fmt.Errorf("%w: %d", ErrColumnOverflow, columnCount)
	}
	return New(line, col), nil
}

// IsZero reports whether l is the empty displacement.
func (l Length) IsZero() bool {
	return l == 0
}

// LineCount decodes the line half.
func (l Length) LineCount() uint32 {
	return uint32(uint64(l) >> ColumnBits)
}

// ColumnCount decodes the column half.
func (l Length) ColumnCount() uint32 {
	return uint32(uint64(l) & columnMask)
}

// ColumnCountIfZeroLineCount returns the raw encoding, which equals the
// column count only when LineCount() == 0. Callers must check that first;
// for any other length the result is the encoded value, not a column.
func (l Length) ColumnCountIfZeroLineCount() uint64 {
	return uint64(l)
}

// Hash returns the encoding itself; distinct lengths never collide.
func (l Length) Hash() uint64 {
	return uint64(l)
}

// ToObject decodes l into its boxed form.
func (l Length) ToObject() Object {
	return Object{LineCount: int(l.LineCount()), ColumnCount: int(l.ColumnCount())}
}

// String renders l for diagnostics.
func (l Length) String() string {
	return fmt.Sprintf("Ln:%d, Col:%d", l.LineCount(), l.ColumnCount())
}

// Less reports whether l comes strictly before other.
func (l Length) Less(other Length) bool {
	return l < other
}

// LessOrEqual reports whether l does not come after other.
func (l Length) LessOrEqual(other Length) bool {
	return l <= other
}

// Greater reports whether l comes strictly after other.
func (l Length) Greater(other Length) bool {
	return l > other
}

// GreaterOrEqual reports whether l does not come before other.
func (l Length) GreaterOrEqual(other Length) bool {
	return l >= other
}

// Equal reports whether a and b are the same displacement.
func Equal(a, b Length) bool {
	return a == b
}

// Compare returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b Length) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Add concatenates two displacements: b is walked starting where a ends.
// If b stays on one line its columns extend a's last line; otherwise a's
// column is discarded and the result ends at b's column.
func Add(a, b Length) Length {
	if b.LineCount() == 0 {
		return a + b
	}
	return New(a.LineCount()+b.LineCount(), b.ColumnCount())
}

// Sum folds Add over lengths from left to right.
func Sum(lengths ...Length) Length {
	total := Zero
	for _, l := range lengths {
		total = Add(total, l)
	}
	return total
}

// Diff returns the forward displacement from (startLine, startCol) to
// (endLine, endCol). The end must not come before the start.
func Diff(startLineCount, startColumnCount, endLineCount, endColumnCount uint32) Length {
	if startLineCount != endLineCount {
		return New(endLineCount-startLineCount, endColumnCount)
	}
	return New(0, endColumnCount-startColumnCount)
}

// DiffNonNegative returns how far b lies beyond a, or Zero when b does not
// come after a.
func DiffNonNegative(a, b Length) Length {
	if b <= a {
		return Zero
	}
	return Diff(a.LineCount(), a.ColumnCount(), b.LineCount(), b.ColumnCount())
}

// Min returns the earlier of a and b.
func Min(a, b Length) Length {
	if a < b {
		return a
	}
	return b
}

// Max returns the later of a and b.
func Max(a, b Length) Length {
	if a > b {
		return a
	}
	return b
}
