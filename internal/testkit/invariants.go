// Package testkit holds invariant checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"textlen/internal/length"
)

// CheckLengthInvariants verifies the packed encoding of l against the line
// and column it was built from:
// 1) decoding returns the inputs exactly
// 2) the Object form round-trips through ToLengthChecked
// 3) the editor position is the 1-based form of the same counts
func CheckLengthInvariants(l length.Length, line, col uint32) error {
	if l.LineCount() != line || l.ColumnCount() != col {
		return fmt.Errorf("decode mismatch: got %s, want (%d, %d)", l, line, col)
	}
	back, err := l.ToObject().ToLengthChecked()
	if err != nil {
		return fmt.Errorf("object round trip: %w", err)
	}
	if back != l {
		return fmt.Errorf("object round trip changed %s into %s", l, back)
	}
	pos := length.ToPosition(l)
	wantLine, err := safecast.Conv[int](line)
	if err != nil {
		return err
	}
	wantCol, err := safecast.Conv[int](col)
	if err != nil {
		return err
	}
	if pos.Line != wantLine+1 || pos.Column != wantCol+1 {
		return fmt.Errorf("position %s is not 1-based form of %s", pos, l)
	}
	return nil
}

// CheckAnchorInvariants verifies a set of anchors against the document they
// belong to:
// 1) anchors are strictly increasing
// 2) no anchor lies past the end of the document
func CheckAnchorInvariants(anchors []length.Length, docLen length.Length) error {
	for i, a := range anchors {
		if i > 0 && !anchors[i-1].Less(a) {
			return fmt.Errorf("anchor %d (%s) not after anchor %d (%s)", i, a, i-1, anchors[i-1])
		}
		if a.Greater(docLen) {
			return fmt.Errorf("anchor %d (%s) past document end %s", i, a, docLen)
		}
	}
	return nil
}

// CheckConcatenation verifies that measuring a+b equals adding the measures
// of a and b.
func CheckConcatenation(a, b string) error {
	whole := length.OfString(a + b)
	sum := length.Add(length.OfString(a), length.OfString(b))
	if whole != sum {
		// CR в конце a и LF в начале b сливаются в один перевод строки
		if len(a) > 0 && len(b) > 0 && a[len(a)-1] == '\r' && b[0] == '\n' {
			return nil
		}
		return fmt.Errorf("OfString(%q+%q) = %s, Add gives %s", a, b, whole, sum)
	}
	return nil
}
