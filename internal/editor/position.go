package editor

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a location as the editor surface reports it.
// Both Line and Column are 1-based.
type Position struct {
	Line   int `json:"line"`   // 1-based
	Column int `json:"column"` // 1-based
}

// ParsePosition parses "line:col" as written by Position.String.
func ParsePosition(s string) (Position, error) {
	lineStr, colStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Position{}, fmt.Errorf("invalid position %q (expected line:col)", s)
	}
	line, err := strconv.Atoi(lineStr)
	if err != nil {
		return Position{}, fmt.Errorf("invalid line in %q: %w", s, err)
	}
	col, err := strconv.Atoi(colStr)
	if err != nil {
		return Position{}, fmt.Errorf("invalid column in %q: %w", s, err)
	}
	p := Position{Line: line, Column: col}
	if !p.IsValid() {
		return Position{}, fmt.Errorf("invalid position %q: line and column start at 1", s)
	}
	return p, nil
}

// IsValid reports whether both coordinates are at least 1.
func (p Position) IsValid() bool {
	return p.Line >= 1 && p.Column >= 1
}

// Compare returns -1 if p < other, 0 if p == other, 1 if p > other.
func (p Position) Compare(other Position) int {
	if p.Line < other.Line {
		return -1
	}
	if p.Line > other.Line {
		return 1
	}
	if p.Column < other.Column {
		return -1
	}
	if p.Column > other.Column {
		return 1
	}
	return 0
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	return p.Compare(other) < 0
}

// After returns true if p comes after other.
func (p Position) After(other Position) bool {
	return p.Compare(other) > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Range is a half-open span [Start, End) of editor positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// IsEmpty reports whether the range covers nothing.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// Contains reports whether p lies within [Start, End).
func (r Range) Contains(p Position) bool {
	return r.Start.Compare(p) <= 0 && p.Compare(r.End) < 0
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}
