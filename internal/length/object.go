package length

import "fmt"

// Object is the boxed form of a Length: the same displacement spelled out as
// two plain ints and free of the packed capacity limit. It is meant for call
// sites that value readability over allocation-free storage.
type Object struct {
	LineCount   int `json:"line"`
	ColumnCount int `json:"column"`
}

// ZeroObject is the empty displacement.
var ZeroObject = Object{}

// IsZero reports whether o is the empty displacement.
func (o Object) IsZero() bool {
	return o.LineCount == 0 && o.ColumnCount == 0
}

// ToLength packs o without checks; see New for the limits.
func (o Object) ToLength() Length {
	return New(uint32(o.LineCount), uint32(o.ColumnCount)) //nolint:gosec // unchecked by contract
}

// ToLengthChecked packs o, failing when it does not fit the encoding.
func (o Object) ToLengthChecked() (Length, error) {
	return Checked(o.LineCount, o.ColumnCount)
}

// Equal reports whether o and other are the same displacement.
func (o Object) Equal(other Object) bool {
	return o == other
}

// Compare returns -1 if o < other, 0 if o == other, 1 if o > other.
func (o Object) Compare(other Object) int {
	if o.LineCount != other.LineCount {
		if o.LineCount < other.LineCount {
			return -1
		}
		return 1
	}
	if o.ColumnCount < other.ColumnCount {
		return -1
	}
	if o.ColumnCount > other.ColumnCount {
		return 1
	}
	return 0
}

// Less reports whether o comes strictly before other.
func (o Object) Less(other Object) bool {
	return o.Compare(other) < 0
}

// Greater reports whether o comes strictly after other.
func (o Object) Greater(other Object) bool {
	return o.Compare(other) > 0
}

// Add concatenates other after o, with the same rule as the packed Add.
func (o Object) Add(other Object) Object {
	if other.LineCount == 0 {
		return Object{LineCount: o.LineCount, ColumnCount: o.ColumnCount + other.ColumnCount}
	}
	return Object{LineCount: o.LineCount + other.LineCount, ColumnCount: other.ColumnCount}
}

// String renders o for diagnostics.
func (o Object) String() string {
	return fmt.Sprintf("Ln:%d, Col:%d", o.LineCount, o.ColumnCount)
}

// ObjectDiffNonNegative returns how far end lies beyond start, or ZeroObject
// when end does not come after start.
func ObjectDiffNonNegative(start, end Object) Object {
	if start.LineCount == end.LineCount {
		return Object{ColumnCount: max(0, end.ColumnCount-start.ColumnCount)}
	}
	if end.LineCount < start.LineCount {
		return ZeroObject
	}
	return Object{LineCount: end.LineCount - start.LineCount, ColumnCount: end.ColumnCount}
}
