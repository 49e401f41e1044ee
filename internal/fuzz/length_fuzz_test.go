package fuzztests

import (
	"context"
	"testing"
	"unicode/utf8"

	"textlen/internal/edit"
	"textlen/internal/length"
	"textlen/internal/source"
	"textlen/internal/testkit"
)

func FuzzOfString(f *testing.F) {
	addTextSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		text := string(input)

		l := length.OfString(text)
		if err := testkit.CheckLengthInvariants(l, l.LineCount(), l.ColumnCount()); err != nil {
			t.Fatal(err)
		}
		for i := 0; i <= len(text); i++ {
			if i < len(text) && !utf8.RuneStart(text[i]) {
				continue
			}
			if err := testkit.CheckConcatenation(text[:i], text[i:]); err != nil {
				t.Fatal(err)
			}
		}
	})
}

func FuzzFileSetLengthAt(f *testing.F) {
	addTextSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clip(input)
		fs := source.NewFileSet()
		id, err := fs.AddVirtual("fuzz.txt", input)
		if err != nil {
			t.Fatal(err)
		}
		file := fs.Get(id)
		end, err := file.LengthAt(len(input))
		if err != nil {
			t.Fatal(err)
		}
		if end != file.Length {
			t.Fatalf("LengthAt(end) = %s, Length = %s", end, file.Length)
		}
	})
}

func FuzzDocumentApply(f *testing.F) {
	for _, s := range textSeeds {
		f.Add([]byte(s), uint16(0), uint16(1), "X")
		f.Add([]byte(s), uint16(1), uint16(1), "\r\n🙂")
	}
	f.Fuzz(func(t *testing.T, input []byte, from, to uint16, insert string) {
		input = clip(input)
		if !utf8.Valid(input) || !utf8.ValidString(insert) {
			return
		}
		text := string(input)

		// выбираем границы среди начал строк и конца текста
		lines := length.OfString(text).LineCount()
		start := length.New(uint32(from)%(lines+1), 0)
		end := length.New(uint32(to)%(lines+1), 0)
		if end.Less(start) {
			start, end = end, start
		}
		changes := []edit.Change{{Start: start, End: end, Text: insert}}
		if straddlesCRLF(text, changes[0]) {
			// CR и LF по разные стороны границы правки сливаются в один
			// перевод строки; арифметика длин этого не видит
			return
		}

		doc := edit.NewDocument(text)
		res, err := doc.Apply(context.Background(), changes)
		if err != nil {
			// границы строк всегда существуют, ошибка тут - баг
			t.Fatalf("Apply(%q, %v): %v", text, changes, err)
		}
		if res.Length != length.OfString(doc.Text()) {
			t.Fatalf("result length %s, measured %s", res.Length, length.OfString(doc.Text()))
		}
		if err := testkit.CheckAnchorInvariants(doc.Anchors(), res.Length); err != nil {
			t.Fatal(err)
		}

		m, err := edit.NewMapper(edit.Edits(changes))
		if err != nil {
			t.Fatal(err)
		}
		if got := m.OffsetBeforeChange(res.Length); got != length.OfString(text) {
			t.Fatalf("end of new text maps to %s, old end is %s", got, length.OfString(text))
		}
	})
}

// straddlesCRLF reports whether applying c would put a CR and an LF on the
// two sides of an edit boundary.
func straddlesCRLF(text string, c edit.Change) bool {
	s, err := edit.OffsetOf(text, c.Start)
	if err != nil {
		return false
	}
	e, err := edit.OffsetOf(text, c.End)
	if err != nil {
		return false
	}
	edited := text[:s] + c.Text + text[e:]
	for _, b := range []int{s, s + len(c.Text)} {
		if b > 0 && b < len(edited) && edited[b-1] == '\r' && edited[b] == '\n' {
			return true
		}
	}
	return false
}
