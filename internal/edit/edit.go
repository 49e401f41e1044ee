package edit

import (
	"errors"
	"fmt"

	"textlen/internal/length"
)

var (
	// ErrInvertedEdit is returned for an edit whose End comes before its Start.
	ErrInvertedEdit = errors.New("edit end before start")
	// ErrOverlappingEdits is returned when edits are unsorted or overlap.
	ErrOverlappingEdits = errors.New("edits overlap or are out of order")
)

// TextEdit replaces the old-document range [Start, End) with text of length
// NewLength. Start and End are offsets from the document start.
type TextEdit struct {
	Start     length.Length
	End       length.Length
	NewLength length.Length
}

// NewTextEdit builds an edit replacing [start, end) with text.
func NewTextEdit(start, end length.Length, text string) TextEdit {
	return TextEdit{Start: start, End: end, NewLength: length.OfString(text)}
}

// Insert builds an edit inserting text at at.
func Insert(at length.Length, text string) TextEdit {
	return NewTextEdit(at, at, text)
}

// Delete builds an edit removing [start, end).
func Delete(start, end length.Length) TextEdit {
	return TextEdit{Start: start, End: end}
}

// Validate reports an error if End comes before Start.
func (e TextEdit) Validate() error {
	if e.End.Less(e.Start) {
		return fmt.Errorf("%w: %s", ErrInvertedEdit, e)
	}
	return nil
}

// NewEnd is where the replacement text ends once the edit is applied.
func (e TextEdit) NewEnd() length.Length {
	return length.Add(e.Start, e.NewLength)
}

// IsNoop reports whether the edit changes nothing.
func (e TextEdit) IsNoop() bool {
	return e.Start == e.End && e.NewLength.IsZero()
}

func (e TextEdit) String() string {
	return fmt.Sprintf("[%s .. %s) -> +(%s)", e.Start, e.End, e.NewLength)
}

// validateSequence checks that edits are individually valid, sorted by Start
// and non-overlapping.
func validateSequence(edits []TextEdit) error {
	for i, e := range edits {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("edit %d: %w", i, err)
		}
		if i > 0 && e.Start.Less(edits[i-1].End) {
			return fmt.Errorf("%w: edit %d starts at %s before previous end %s",
				ErrOverlappingEdits, i, e.Start, edits[i-1].End)
		}
	}
	return nil
}
