package edit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"textlen/internal/length"
)

func L(line, col uint32) length.Length { return length.New(line, col) }

func TestTextEdit_Validate(t *testing.T) {
	if err := (TextEdit{Start: L(1, 0), End: L(0, 5)}).Validate(); !errors.Is(err, ErrInvertedEdit) {
		t.Errorf("Validate() = %v, want ErrInvertedEdit", err)
	}
	e := NewTextEdit(L(0, 2), L(0, 4), "xy\nz")
	if err := e.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if e.NewLength != L(1, 1) {
		t.Errorf("NewLength = %v", e.NewLength)
	}
	if e.NewEnd() != L(1, 1) {
		t.Errorf("NewEnd() = %v", e.NewEnd())
	}
	if !(TextEdit{Start: L(3, 3), End: L(3, 3)}).IsNoop() || e.IsNoop() {
		t.Error("IsNoop mismatch")
	}
}

func TestNewMapper_RejectsOverlap(t *testing.T) {
	_, err := NewMapper([]TextEdit{
		Delete(L(0, 0), L(0, 5)),
		Delete(L(0, 3), L(0, 8)),
	})
	if !errors.Is(err, ErrOverlappingEdits) {
		t.Fatalf("NewMapper() error = %v, want ErrOverlappingEdits", err)
	}
	_, err = NewMapper([]TextEdit{{Start: L(2, 0), End: L(1, 0)}})
	if !errors.Is(err, ErrInvertedEdit) {
		t.Fatalf("NewMapper() error = %v, want ErrInvertedEdit", err)
	}
}

func TestMapper_OffsetBeforeChange(t *testing.T) {
	// old: "hello world\nsecond line\nthird"
	// edit 1 replaces "world" (0:6..0:11) with "go\nlang" -> new 0:6..1:4
	// edit 2 deletes "second " (1:0..1:7)
	m, err := NewMapper([]TextEdit{
		NewTextEdit(L(0, 6), L(0, 11), "go\nlang"),
		Delete(L(1, 0), L(1, 7)),
	})
	if err != nil {
		t.Fatal(err)
	}
	// new: "hello go\nlang\nline\nthird"
	tests := []struct {
		name string
		in   length.Length
		want length.Length
	}{
		{name: "before any edit", in: L(0, 3), want: L(0, 3)},
		{name: "start of first replacement", in: L(0, 6), want: L(0, 6)},
		{name: "inside first replacement", in: L(1, 2), want: L(0, 6)},
		{name: "right after first replacement", in: L(1, 4), want: L(0, 11)},
		{name: "start of line after deletion", in: L(2, 0), want: L(1, 7)},
		{name: "inside line after deletion", in: L(2, 3), want: L(1, 10)},
		{name: "untouched last line", in: L(3, 2), want: L(2, 2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.OffsetBeforeChange(tt.in); got != tt.want {
				t.Errorf("OffsetBeforeChange(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMapper_DistanceToNextChange(t *testing.T) {
	m, err := NewMapper([]TextEdit{
		Insert(L(0, 4), "abc"),
		Insert(L(2, 1), "\n"),
	})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		in     length.Length
		want   length.Length
		wantOK bool
	}{
		{name: "from start", in: L(0, 0), want: L(0, 4), wantOK: true},
		{name: "inside insertion", in: L(0, 5), want: length.Zero, wantOK: true},
		{name: "between edits", in: L(0, 9), want: L(2, 1), wantOK: true},
		{name: "past last edit", in: L(4, 0), wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.DistanceToNextChange(tt.in)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("DistanceToNextChange(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if m.Len() != 2 {
		t.Errorf("Len() = %d", m.Len())
	}

	del, err := NewMapper([]TextEdit{Delete(L(0, 0), L(1, 0))})
	if err != nil {
		t.Fatal(err)
	}
	if got, ok := del.DistanceToNextChange(length.Zero); !ok || got != length.Zero {
		t.Errorf("deletion at start: DistanceToNextChange = %v, %v", got, ok)
	}
}

// Every offset outside replacement text must map back to the same character
// of the old text.
func TestMapper_AgreesWithApply(t *testing.T) {
	old := "alpha beta\ngamma\r\ndelta epsilon\nzeta"
	changes := []Change{
		{Start: L(0, 6), End: L(1, 2), Text: "B\nG"},
		{Start: L(2, 6), End: L(2, 6), Text: "++"},
		{Start: L(3, 0), End: L(3, 4), Text: ""},
	}
	updated, err := Apply(old, changes)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewMapper(Edits(changes))
	if err != nil {
		t.Fatal(err)
	}

	// Walk every unchanged character of the new text.
	newLen := length.OfString(updated)
	for line := uint32(0); line <= newLen.LineCount(); line++ {
		for col := uint32(0); ; col++ {
			off := L(line, col)
			newIdx, err := OffsetOf(updated, off)
			if err != nil {
				break
			}
			if dist, ok := m.DistanceToNextChange(off); ok && dist.IsZero() {
				continue // inside or at the start of a change
			}
			oldOff := m.OffsetBeforeChange(off)
			oldIdx, err := OffsetOf(old, oldOff)
			if err != nil {
				t.Fatalf("mapped %v -> %v not in old text: %v", off, oldOff, err)
			}
			if newIdx < len(updated) && updated[newIdx] != old[oldIdx] {
				t.Fatalf("offset %v maps to %v: %q vs %q", off, oldOff, updated[newIdx:], old[oldIdx:])
			}
		}
	}
}

func TestAnchors_Apply(t *testing.T) {
	a := NewAnchors(L(0, 0), L(0, 4), L(0, 9), L(1, 0), L(1, 3), L(2, 0))
	a.Add(L(0, 4)) // duplicate
	if a.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", a.Len())
	}

	// Replace 0:4..1:0 with "X\nYY": anchors 0:4 and 0:9 are dropped.
	dropped, err := a.Apply(NewTextEdit(L(0, 4), L(1, 0), "X\nYY"))
	if err != nil {
		t.Fatal(err)
	}
	if dropped != 2 {
		t.Errorf("dropped = %d, want 2", dropped)
	}
	want := []length.Length{L(0, 0), L(1, 2), L(1, 5), L(2, 0)}
	if diff := cmp.Diff(want, a.All()); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestAnchors_InsertPushesAnchorAtPoint(t *testing.T) {
	a := NewAnchors(L(0, 2), L(0, 5))
	dropped, err := a.Apply(Insert(L(0, 2), "abc"))
	if err != nil || dropped != 0 {
		t.Fatalf("Apply() = %d, %v", dropped, err)
	}
	if diff := cmp.Diff([]length.Length{L(0, 5), L(0, 8)}, a.All()); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestAnchors_ApplyAllMatchesMapper(t *testing.T) {
	text := "one two\nthree four\nfive six\nseven"
	changes := []Change{
		{Start: L(0, 4), End: L(0, 7), Text: "2"},
		{Start: L(1, 6), End: L(2, 5), Text: "4\n5\n"},
		{Start: L(3, 5), End: L(3, 5), Text: "!"},
	}
	if _, err := Apply(text, changes); err != nil {
		t.Fatalf("Apply() error: %v", err)
	}
	anchors := NewAnchors(L(0, 0), L(0, 4), L(1, 0), L(1, 6), L(2, 0), L(2, 5), L(3, 0))
	before := anchors.All()

	if _, err := anchors.ApplyAll(Edits(changes)); err != nil {
		t.Fatal(err)
	}
	m, err := NewMapper(Edits(changes))
	if err != nil {
		t.Fatal(err)
	}
	// Every surviving anchor maps back to an anchor that existed before.
	for _, off := range anchors.All() {
		old := m.OffsetBeforeChange(off)
		found := false
		for _, b := range before {
			if b == old {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("anchor %v maps back to %v, which was never an anchor", off, old)
		}
	}
}

func TestAnchorsAtLineStarts(t *testing.T) {
	got := AnchorsAtLineStarts("a\r\nb\rc\n").All()
	want := []length.Length{L(0, 0), L(1, 0), L(2, 0), L(3, 0)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}

func TestOffsetOf(t *testing.T) {
	text := "ab\r\ncd🙂e\rf"
	tests := []struct {
		name    string
		in      length.Length
		want    int
		wantErr error
	}{
		{name: "start", in: L(0, 0), want: 0},
		{name: "end of first line", in: L(0, 2), want: 2},
		{name: "after crlf", in: L(1, 0), want: 4},
		{name: "after astral", in: L(1, 4), want: 10},
		{name: "inside surrogate pair", in: L(1, 3), wantErr: ErrSplitRune},
		{name: "after lone cr", in: L(2, 1), want: len(text)},
		{name: "column past line end", in: L(0, 3), wantErr: ErrOutOfRange},
		{name: "line past end", in: L(5, 0), wantErr: ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OffsetOf(text, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("OffsetOf(%v) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("OffsetOf(%v) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	got, err := Apply("hello world\nbye", []Change{
		{Start: L(0, 0), End: L(0, 5), Text: "HELLO"},
		{Start: L(0, 11), End: L(1, 0), Text: " "},
		{Start: L(1, 3), End: L(1, 3), Text: "!"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got != "HELLO world bye!" {
		t.Errorf("Apply() = %q", got)
	}
	if _, err := Apply("abc", []Change{{Start: L(0, 1), End: L(0, 9)}}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Apply(out of range) error = %v", err)
	}
}

func TestDocument_Apply(t *testing.T) {
	doc := NewDocument("line one\nline two\nline three\n")
	if doc.Length() != L(3, 0) {
		t.Fatalf("Length() = %v", doc.Length())
	}

	res, err := doc.Apply(context.Background(), []Change{
		{Start: L(1, 0), End: L(2, 0), Text: ""},
		{Start: L(3, 0), End: L(3, 0), Text: "tail"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if doc.Text() != "line one\nline three\ntail" {
		t.Errorf("Text() = %q", doc.Text())
	}
	want := Result{
		Version:  1,
		Dropped:  1,
		Kept:     3,
		Length:   L(2, 4),
		Rescan:   []length.Length{L(1, 0), L(2, 0)},
		Reusable: L(1, 0),
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Result mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]length.Length{L(0, 0), L(1, 0), L(2, 4)}, doc.Anchors()); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}

	// A failing batch leaves the document untouched.
	if _, err := doc.Apply(context.Background(), []Change{{Start: L(9, 0), End: L(9, 0), Text: "x"}}); err == nil {
		t.Fatal("expected error for out-of-range change")
	}
	if doc.Version() != 1 || !strings.HasPrefix(doc.Text(), "line one") {
		t.Error("document changed after failed apply")
	}
}
