// Package report renders measurement results for the terminal or as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"textlen/internal/driver"
	"textlen/internal/editor"
	"textlen/internal/length"
	"textlen/internal/observ"
)

// Options controls rendering.
type Options struct {
	Color     bool
	Unit      length.Unit
	PathWidth int // max path column width; 0 = 48

	// Timings is appended when non-nil.
	Timings *observ.Timer
}

func (o Options) pathWidth() int {
	if o.PathWidth > 0 {
		return o.PathWidth
	}
	return 48
}

type styles struct {
	heading *color.Color
	errText *color.Color
	dim     *color.Color
	summary lipgloss.Style
	ok      lipgloss.Style
	fail    lipgloss.Style
	plain   bool
}

func newStyles(w io.Writer, enabled bool) styles {
	s := styles{
		heading: color.New(color.FgCyan, color.Bold),
		errText: color.New(color.FgRed),
		dim:     color.New(color.Faint),
		plain:   !enabled,
	}
	for _, c := range []*color.Color{s.heading, s.errText, s.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	r := lipgloss.NewRenderer(w)
	s.summary = r.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	s.ok = r.NewStyle().Foreground(lipgloss.Color("2"))
	s.fail = r.NewStyle().Foreground(lipgloss.Color("1"))
	return s
}

func (s styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

// Pretty writes one aligned row per file followed by a summary line.
func Pretty(w io.Writer, results []driver.Result, opts Options) error {
	st := newStyles(w, opts.Color)
	if _, err := st.heading.Fprintf(w, "measure (%s)\n", opts.Unit); err != nil {
		return err
	}

	nameWidth := 0
	for _, r := range results {
		nameWidth = max(nameWidth, runewidth.StringWidth(r.Path))
	}
	nameWidth = min(nameWidth, opts.pathWidth())

	failed := 0
	for _, r := range results {
		name := runewidth.FillRight(truncate(r.Path, nameWidth), nameWidth)
		if r.Err != nil {
			failed++
			if _, err := fmt.Fprintf(w, "  %s  %s\n", name, st.errText.Sprint("error: "+r.Err.Error())); err != nil {
				return err
			}
			continue
		}
		line := fmt.Sprintf("  %s  %-22s %6d lines  longest %d @%d",
			name, r.Length.String(), r.Lines, r.LongestWidth, r.LongestLine)
		if r.Cached {
			line += st.dim.Sprint("  (cached)")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	summary := fmt.Sprintf("%d files, total %s", len(results)-failed, driver.Total(results))
	status := st.render(st.ok, "ok")
	if failed > 0 {
		status = st.render(st.fail, strconv.Itoa(failed)+" failed")
	}
	if _, err := fmt.Fprintf(w, "%s  %s\n", st.render(st.summary, summary), status); err != nil {
		return err
	}
	if opts.Timings != nil {
		_, err := io.WriteString(w, opts.Timings.Summary())
		return err
	}
	return nil
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

// FileJSON is the JSON form of one driver.Result.
type FileJSON struct {
	Path         string           `json:"path"`
	Length       *length.Length   `json:"length,omitempty"`
	End          *editor.Position `json:"end,omitempty"` // editor position just past the last character
	Lines        int              `json:"lines,omitempty"`
	LongestWidth uint32           `json:"longest_width,omitempty"`
	LongestLine  int              `json:"longest_line,omitempty"`
	Bytes        int              `json:"bytes,omitempty"`
	Cached       bool             `json:"cached,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// MeasureJSON is the document JSON writes.
type MeasureJSON struct {
	Unit    string         `json:"unit"`
	Files   []FileJSON     `json:"files"`
	Total   length.Length  `json:"total"`
	Failed  int            `json:"failed"`
	Timings *observ.Report `json:"timings,omitempty"`
}

// BuildJSON converts results to their JSON document.
func BuildJSON(results []driver.Result, opts Options) MeasureJSON {
	doc := MeasureJSON{
		Unit:    opts.Unit.String(),
		Files:   make([]FileJSON, 0, len(results)),
		Total:   driver.Total(results),
	}
	if opts.Timings != nil {
		rep := opts.Timings.Report()
		doc.Timings = &rep
	}
	for _, r := range results {
		f := FileJSON{Path: r.Path}
		if r.Err != nil {
			doc.Failed++
			f.Error = r.Err.Error()
			doc.Files = append(doc.Files, f)
			continue
		}
		l := r.Length
		end := length.ToPosition(l)
		f.Length = &l
		f.End = &end
		f.Lines = r.Lines
		f.LongestWidth = r.LongestWidth
		f.LongestLine = r.LongestLine
		f.Bytes = r.Bytes
		f.Cached = r.Cached
		doc.Files = append(doc.Files, f)
	}
	return doc
}

// JSON writes results as an indented JSON document.
func JSON(w io.Writer, results []driver.Result, opts Options) error {
	return WriteJSON(w, BuildJSON(results, opts))
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Field is one labelled value in a Fields block.
type Field struct {
	Key   string
	Value string
}

// Fields writes a heading followed by aligned key/value rows.
func Fields(w io.Writer, title string, fields []Field, opts Options) error {
	st := newStyles(w, opts.Color)
	if _, err := st.heading.Fprintln(w, title); err != nil {
		return err
	}
	keyWidth := 0
	for _, f := range fields {
		keyWidth = max(keyWidth, runewidth.StringWidth(f.Key))
	}
	for _, f := range fields {
		key := runewidth.FillRight(f.Key, keyWidth)
		if _, err := fmt.Fprintf(w, "  %s  %s\n", st.dim.Sprint(key), f.Value); err != nil {
			return err
		}
	}
	return nil
}
