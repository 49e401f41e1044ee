package edit

import (
	"slices"

	"textlen/internal/length"
)

// Anchors is an ordered set of document offsets, typically the start of each
// token a tokenizer produced. Apply moves them across an edit without
// rescanning the text.
type Anchors struct {
	items []length.Length
}

// NewAnchors returns a set holding offsets.
func NewAnchors(offsets ...length.Length) *Anchors {
	a := &Anchors{}
	for _, off := range offsets {
		a.Add(off)
	}
	return a
}

// Add inserts off, keeping the set ordered. Duplicates are ignored.
func (a *Anchors) Add(off length.Length) {
	idx, found := slices.BinarySearch(a.items, off)
	if found {
		return
	}
	a.items = slices.Insert(a.items, idx, off)
}

// Len returns the number of anchors.
func (a *Anchors) Len() int {
	return len(a.items)
}

// All returns a copy of the anchors in document order.
func (a *Anchors) All() []length.Length {
	return slices.Clone(a.items)
}

// Apply moves anchors across e. Anchors before e.Start stay put, anchors in
// [e.Start, e.End) are dropped since their tokens must be rescanned, and
// anchors at or after e.End shift to follow the replacement text. It returns
// the number of dropped anchors.
func (a *Anchors) Apply(e TextEdit) (int, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	lo, _ := slices.BinarySearch(a.items, e.Start)
	hi, _ := slices.BinarySearch(a.items, e.End)
	newEnd := e.NewEnd()
	for i := hi; i < len(a.items); i++ {
		a.items[i] = length.Add(newEnd, length.DiffNonNegative(e.End, a.items[i]))
	}
	dropped := hi - lo
	a.items = slices.Delete(a.items, lo, hi)
	return dropped, nil
}

// ApplyAll applies a sorted, non-overlapping batch of edits expressed in
// old-document offsets. Edits are applied last to first so earlier offsets
// stay valid.
func (a *Anchors) ApplyAll(edits []TextEdit) (int, error) {
	if err := validateSequence(edits); err != nil {
		return 0, err
	}
	total := 0
	for i := len(edits) - 1; i >= 0; i-- {
		n, err := a.Apply(edits[i])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// AnchorsAtLineStarts returns an anchor at the start of every line of text.
func AnchorsAtLineStarts(text string) *Anchors {
	lines := length.OfString(text).LineCount()
	a := &Anchors{items: make([]length.Length, 0, lines+1)}
	for line := uint32(0); line < lines+1; line++ {
		a.items = append(a.items, length.New(line, 0))
	}
	return a
}
