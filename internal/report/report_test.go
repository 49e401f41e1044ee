package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textlen/internal/driver"
	"textlen/internal/length"
	"textlen/internal/observ"
)

func sampleResults() []driver.Result {
	return []driver.Result{
		{Path: "a.txt", Length: length.New(2, 4), Lines: 3, LongestWidth: 9, LongestLine: 2, Bytes: 20},
		{Path: "docs/привет.md", Length: length.New(0, 5), Lines: 1, LongestWidth: 5, LongestLine: 1, Bytes: 5, Cached: true},
		{Path: "gone.txt", Err: errors.New("no such file")},
	}
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Pretty(&buf, sampleResults(), Options{}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "measure (utf16)", lines[0])
	assert.Contains(t, lines[1], "Ln:2, Col:4")
	assert.Contains(t, lines[1], "longest 9 @2")
	assert.Contains(t, lines[2], "(cached)")
	assert.Contains(t, lines[3], "error: no such file")
	assert.Equal(t, "2 files, total Ln:2, Col:9  1 failed", lines[4])

	// колонка путей выровнена по ширине самого длинного пути
	col := func(line string) int { return runewidth.StringWidth(line[:strings.Index(line, "Ln:")]) }
	assert.Equal(t, col(lines[1]), col(lines[2]))
}

func TestPretty_TruncatesPaths(t *testing.T) {
	var buf bytes.Buffer
	results := []driver.Result{{Path: strings.Repeat("x", 30) + ".txt", Length: length.New(0, 1), Lines: 1}}
	require.NoError(t, Pretty(&buf, results, Options{PathWidth: 10}))
	assert.Contains(t, buf.String(), "  xxxxxxx...  ")
}

func TestPretty_Timings(t *testing.T) {
	var buf bytes.Buffer
	timer := observ.NewTimer()
	timer.Track("measure")("")
	require.NoError(t, Pretty(&buf, nil, Options{Timings: timer}))
	assert.Contains(t, buf.String(), "timings:")
	assert.Contains(t, buf.String(), "0 files, total Ln:0, Col:0  ok")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleResults(), Options{Unit: length.UnitByte}))

	var doc struct {
		Unit  string `json:"unit"`
		Files []struct {
			Path   string          `json:"path"`
			Length json.RawMessage `json:"length"`
			End    *struct {
				Line   int `json:"line"`
				Column int `json:"column"`
			} `json:"end"`
			Cached bool   `json:"cached"`
			Error  string `json:"error"`
		} `json:"files"`
		Total  length.Length `json:"total"`
		Failed int           `json:"failed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "byte", doc.Unit)
	require.Len(t, doc.Files, 3)
	assert.JSONEq(t, `{"line":2,"column":4}`, string(doc.Files[0].Length))
	require.NotNil(t, doc.Files[0].End)
	assert.Equal(t, 3, doc.Files[0].End.Line)
	assert.Equal(t, 5, doc.Files[0].End.Column)
	assert.True(t, doc.Files[1].Cached)
	assert.Equal(t, "no such file", doc.Files[2].Error)
	assert.Nil(t, doc.Files[2].End)
	assert.Equal(t, length.New(2, 9), doc.Total)
	assert.Equal(t, 1, doc.Failed)
}

func TestFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Fields(&buf, "diff", []Field{
		{Key: "from", Value: "1:1"},
		{Key: "distance", Value: "Ln:0, Col:3"},
	}, Options{}))
	assert.Equal(t, "diff\n  from      1:1\n  distance  Ln:0, Col:3\n", buf.String())
}
