package length

import (
	"errors"
	"fmt"

	"textlen/internal/editor"
)

// Internal counters are 0-based; the editor surface is 1-based. Every
// conversion below adds or removes exactly this offset.
const positionBase = 1

// ErrInvalidPosition is returned for editor positions below (1, 1).
var ErrInvalidPosition = errors.New("editor position must be 1-based")

// ToPosition converts l, read as an offset from the start of a document, into
// an editor position. Length (0, 0) is Position{1, 1}.
func ToPosition(l Length) editor.Position {
	return editor.Position{
		Line:   int(l.LineCount()) + positionBase,
		Column: int(l.ColumnCount()) + positionBase,
	}
}

// FromPosition is the inverse of ToPosition.
func FromPosition(p editor.Position) (Length, error) {
	if !p.IsValid() {
		return Zero, fmt.Errorf("%w: got %s", ErrInvalidPosition, p)
	}
	l, err := Checked(p.Line-positionBase, p.Column-positionBase)
	if err != nil {
		return Zero, fmt.Errorf("editor position %s: %w", p, err)
	}
	return l, nil
}

// ToRange converts two document offsets into an editor range.
func ToRange(start, end Length) editor.Range {
	return editor.Range{Start: ToPosition(start), End: ToPosition(end)}
}

// FromRange converts an editor range back into two document offsets.
func FromRange(r editor.Range) (start, end Length, err error) {
	if start, err = FromPosition(r.Start); err != nil {
		return Zero, Zero, err
	}
	if end, err = FromPosition(r.End); err != nil {
		return Zero, Zero, err
	}
	return start, end, nil
}
