package edit

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"textlen/internal/length"
)

var (
	// ErrOutOfRange is returned when an offset lies past the end of the text.
	ErrOutOfRange = errors.New("offset out of range")
	// ErrSplitRune is returned when a column falls inside a surrogate pair.
	ErrSplitRune = errors.New("offset splits a character")
)

// OffsetOf resolves l, read as an offset from the start of text, to a byte
// index. Line breaks follow length.OfString; columns are UTF-16 code units.
func OffsetOf(text string, l length.Length) (int, error) {
	i, line := 0, uint32(0)
	for line < l.LineCount() {
		j := strings.IndexAny(text[i:], "\r\n")
		if j < 0 {
			return 0, fmt.Errorf("%w: line %d beyond last line %d", ErrOutOfRange, l.LineCount(), line)
		}
		i += j
		if text[i] == '\r' && i+1 < len(text) && text[i+1] == '\n' {
			i++
		}
		i++
		line++
	}

	units := uint32(0)
	for units < l.ColumnCount() {
		if i >= len(text) || text[i] == '\r' || text[i] == '\n' {
			return 0, fmt.Errorf("%w: column %d past end of line %d", ErrOutOfRange, l.ColumnCount(), line)
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		need := uint32(1)
		if r > 0xFFFF {
			need = 2
		}
		if units+need > l.ColumnCount() {
			return 0, fmt.Errorf("%w: column %d on line %d", ErrSplitRune, l.ColumnCount(), line)
		}
		units += need
		i += size
	}
	return i, nil
}

// Change is an edit together with its replacement text, the shape editors
// send on every keystroke.
type Change struct {
	Start length.Length
	End   length.Length
	Text  string
}

// Edit returns the length-only form of c.
func (c Change) Edit() TextEdit {
	return NewTextEdit(c.Start, c.End, c.Text)
}

// Edits returns the length-only form of changes.
func Edits(changes []Change) []TextEdit {
	out := make([]TextEdit, len(changes))
	for i, c := range changes {
		out[i] = c.Edit()
	}
	return out
}

// Apply applies changes to text. Changes must be sorted, non-overlapping and
// expressed in offsets of text.
func Apply(text string, changes []Change) (string, error) {
	if err := validateSequence(Edits(changes)); err != nil {
		return "", err
	}
	// С конца, чтобы смещения более ранних правок не поехали.
	for i := len(changes) - 1; i >= 0; i-- {
		start, err := OffsetOf(text, changes[i].Start)
		if err != nil {
			return "", fmt.Errorf("change %d start: %w", i, err)
		}
		end, err := OffsetOf(text, changes[i].End)
		if err != nil {
			return "", fmt.Errorf("change %d end: %w", i, err)
		}
		text = text[:start] + changes[i].Text + text[end:]
	}
	return text, nil
}
