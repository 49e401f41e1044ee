package length

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fortio.org/safecast"
)

// Unit selects what a column counts.
type Unit uint8

const (
	// UnitUTF16 counts UTF-16 code units, as editor and LSP surfaces do.
	UnitUTF16 Unit = iota
	// UnitByte counts UTF-8 bytes.
	UnitByte
	// UnitRune counts Unicode code points.
	UnitRune
)

// String returns the string representation of Unit.
func (u Unit) String() string {
	switch u {
	case UnitUTF16:
		return "utf16"
	case UnitByte:
		return "byte"
	case UnitRune:
		return "rune"
	default:
		return "unknown"
	}
}

// ParseUnit converts a string to a Unit.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "utf16", "utf-16", "":
		return UnitUTF16, nil
	case "byte", "bytes", "utf8", "utf-8":
		return UnitByte, nil
	case "rune", "runes", "codepoint":
		return UnitRune, nil
	default:
		return UnitUTF16, fmt.Errorf("invalid column unit: %q (expected: utf16|byte|rune)", s)
	}
}

// OfString measures how far the cursor moves when text is typed at the
// start of a line. CRLF, CR and LF each end a line; columns are UTF-16 code
// units of the text after the last line break.
func OfString(text string) Length {
	return OfStringIn(text, UnitUTF16)
}

// OfStringIn is OfString with an explicit column unit.
func OfStringIn(text string, unit Unit) Length {
	lines, lastStart := scanLines(text)
	return New(clampCount(lines), clampCount(columnsOf(text[lastStart:], unit)))
}

// OfBytes is OfStringIn for a byte slice.
func OfBytes(b []byte, unit Unit) Length {
	return OfStringIn(string(b), unit)
}

// scanLines counts line breaks in text and returns the byte offset where the
// final line starts.
func scanLines(text string) (lines, lastStart int) {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
		case '\n':
		default:
			continue
		}
		lines++
		lastStart = i + 1
	}
	return lines, lastStart
}

// columnsOf counts units in a single line of text.
func columnsOf(line string, unit Unit) int {
	switch unit {
	case UnitByte:
		return len(line)
	case UnitRune:
		return utf8.RuneCountInString(line)
	default:
		n := 0
		for _, r := range line {
			if r > 0xFFFF {
				n += 2 // суррогатная пара
			} else {
				n++
			}
		}
		return n
	}
}

// clampCount saturates n at MaxCount. Text that long breaks the encoding
// either way; saturating keeps the result ordered after every valid length.
func clampCount(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil || v > MaxCount {
		return MaxCount
	}
	return v
}
