package edit

import (
	"context"
	"fmt"
	"strconv"

	"textlen/internal/length"
	"textlen/internal/trace"
)

// Document is a text buffer plus the token anchors computed over it. Each
// Apply updates both, reporting how many anchors were invalidated and must be
// rescanned.
type Document struct {
	text    string
	anchors *Anchors
	version int
}

// Result summarises one Apply call.
type Result struct {
	Version  int
	Dropped  int
	Kept     int
	Length   length.Length
	Rescan   []length.Length // post-edit offsets where rescanning must start
	Reusable length.Length   // distance from the document start to the first change
}

// NewDocument wraps text with anchors at every line start.
func NewDocument(text string) *Document {
	return &Document{text: text, anchors: AnchorsAtLineStarts(text)}
}

// NewDocumentWithAnchors wraps text with caller-supplied anchors.
func NewDocumentWithAnchors(text string, anchors *Anchors) *Document {
	if anchors == nil {
		anchors = NewAnchors()
	}
	return &Document{text: text, anchors: anchors}
}

// Text returns the current contents.
func (d *Document) Text() string { return d.text }

// Length returns the length of the whole document.
func (d *Document) Length() length.Length { return length.OfString(d.text) }

// Anchors returns the current anchors in document order.
func (d *Document) Anchors() []length.Length { return d.anchors.All() }

// Version counts successful Apply calls.
func (d *Document) Version() int { return d.version }

// Apply applies a batch of changes expressed in current-document offsets.
// On error the document is left untouched.
func (d *Document) Apply(ctx context.Context, changes []Change) (Result, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopeEdit, "apply", trace.CurrentSpan(ctx).SpanID)
	defer span.End("")

	edits := Edits(changes)
	mapper, err := NewMapper(edits)
	if err != nil {
		return Result{}, err
	}
	text, err := Apply(d.text, changes)
	if err != nil {
		return Result{}, fmt.Errorf("document v%d: %w", d.version, err)
	}
	dropped, err := d.anchors.ApplyAll(edits)
	if err != nil {
		return Result{}, err
	}

	d.text = text
	d.version++

	res := Result{
		Version: d.version,
		Dropped: dropped,
		Kept:    d.anchors.Len(),
		Length:  length.OfString(text),
		Rescan:  make([]length.Length, 0, mapper.Len()),
	}
	for _, e := range mapper.edits {
		res.Rescan = append(res.Rescan, e.newStart)
	}
	if dist, ok := mapper.DistanceToNextChange(length.Zero); ok {
		res.Reusable = dist
	} else {
		res.Reusable = res.Length
	}

	span.WithExtra("changes", strconv.Itoa(len(changes))).
		WithExtra("dropped", strconv.Itoa(dropped))
	return res, nil
}
