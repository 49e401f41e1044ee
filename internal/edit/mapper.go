package edit

import (
	"sort"

	"textlen/internal/length"
)

// mappedEdit caches where an edit lands in the post-edit document.
type mappedEdit struct {
	TextEdit
	newStart length.Length
	newEnd   length.Length
}

// Mapper translates offsets of the post-edit document back to the document
// the edits were made against, so tokens computed before the edits can be
// reused where nothing changed.
type Mapper struct {
	edits []mappedEdit
}

// NewMapper builds a Mapper. Edits must be sorted by Start, must not overlap,
// and are all expressed in old-document offsets.
func NewMapper(edits []TextEdit) (*Mapper, error) {
	if err := validateSequence(edits); err != nil {
		return nil, err
	}
	m := &Mapper{edits: make([]mappedEdit, len(edits))}
	var prevOldEnd, prevNewEnd length.Length
	for i, e := range edits {
		newStart := length.Add(prevNewEnd, length.DiffNonNegative(prevOldEnd, e.Start))
		newEnd := length.Add(newStart, e.NewLength)
		m.edits[i] = mappedEdit{TextEdit: e, newStart: newStart, newEnd: newEnd}
		prevOldEnd, prevNewEnd = e.End, newEnd
	}
	return m, nil
}

// next returns the index of the first edit not entirely before offset.
func (m *Mapper) next(offset length.Length) int {
	return sort.Search(len(m.edits), func(i int) bool {
		return m.edits[i].newEnd.Greater(offset)
	})
}

// OffsetBeforeChange maps a post-edit offset to the old document.
// Offsets inside replacement text have no old counterpart and map to the old
// start of that edit.
func (m *Mapper) OffsetBeforeChange(offset length.Length) length.Length {
	idx := m.next(offset)
	if idx < len(m.edits) && m.edits[idx].newStart.LessOrEqual(offset) {
		return m.edits[idx].Start
	}
	if idx == 0 {
		return offset
	}
	prev := m.edits[idx-1]
	return length.Add(prev.End, length.DiffNonNegative(prev.newEnd, offset))
}

// DistanceToNextChange returns how far offset (post-edit) is from the start
// of the next edit. It is Zero when offset is inside an edit or at a deletion
// and reports false when no edit lies ahead.
func (m *Mapper) DistanceToNextChange(offset length.Length) (length.Length, bool) {
	idx := sort.Search(len(m.edits), func(i int) bool {
		e := m.edits[i]
		// удаление оставляет пустой диапазон ровно на offset
		return e.newEnd.Greater(offset) || (e.newEnd == offset && e.newStart == offset)
	})
	if idx == len(m.edits) {
		return length.Zero, false
	}
	return length.DiffNonNegative(offset, m.edits[idx].newStart), true
}

// Len returns the number of edits.
func (m *Mapper) Len() int {
	return len(m.edits)
}
