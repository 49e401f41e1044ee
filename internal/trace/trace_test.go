package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{in: "off", want: LevelOff},
		{in: "", want: LevelOff},
		{in: "ERROR", want: LevelError},
		{in: "command", want: LevelCommand},
		{in: "file", want: LevelFile},
		{in: "debug", want: LevelDebug},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLevel_ShouldEmit(t *testing.T) {
	if LevelCommand.ShouldEmit(ScopeFile) {
		t.Error("command level should not emit file scope")
	}
	if !LevelFile.ShouldEmit(ScopeCommand) || !LevelFile.ShouldEmit(ScopeFile) {
		t.Error("file level should emit command and file scopes")
	}
	if LevelFile.ShouldEmit(ScopeEdit) {
		t.Error("file level should not emit edit scope")
	}
	if !LevelDebug.ShouldEmit(ScopeEdit) {
		t.Error("debug level should emit everything")
	}
	if LevelOff.ShouldEmit(ScopeCommand) {
		t.Error("off level should emit nothing")
	}
}

func TestStreamTracer_Text(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelFile, FormatText)

	root := Begin(tr, ScopeCommand, "measure", 0)
	child := Begin(tr, ScopeFile, "a.txt", root.ID())
	child.WithExtra("lines", "3").WithExtra("bytes", "12")
	child.End("ok")
	Begin(tr, ScopeEdit, "ignored", child.ID()).End("")
	root.End("")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[2], "file:a.txt (ok) {bytes=12, lines=3}") {
		t.Errorf("unexpected end line: %q", lines[2])
	}
	if strings.Contains(out, "ignored") {
		t.Error("edit scope leaked at file level")
	}
}

func TestStreamTracer_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeEdit, "apply", "2 changes", 0)

	var ev map[string]any
	if err := json.Unmarshal(buf.Bytes(), &ev); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if ev["kind"] != "point" || ev["scope"] != "edit" || ev["detail"] != "2 changes" {
		t.Errorf("unexpected event: %v", ev)
	}
}

func TestRingTracer_Wraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(ring, ScopeFile, name, "", 0)
	}
	snap := ring.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("snapshot len = %d, want 3", len(snap))
	}
	var names []string
	for _, ev := range snap {
		names = append(names, ev.Name)
	}
	if strings.Join(names, "") != "cde" {
		t.Errorf("snapshot order = %v, want [c d e]", names)
	}

	var buf bytes.Buffer
	if err := ring.Dump(&buf, FormatText); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("Dump wrote %q", buf.String())
	}
}

func TestNew(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("New(off) = %v, %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelDebug, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New(both): %v", err)
	}
	multi, ok := tr.(*MultiTracer)
	if !ok || multi.Ring() == nil {
		t.Fatalf("New(both) = %T, want MultiTracer with ring", tr)
	}
	Point(tr, ScopeCommand, "x", "", 0)
	if buf.Len() == 0 || len(multi.Ring().Snapshot()) != 1 {
		t.Error("both tracers should receive the event")
	}

	tr, err = New(Config{Level: LevelError, Mode: ModeStream, Output: &buf})
	if err != nil {
		t.Fatalf("New(error): %v", err)
	}
	if _, ok := tr.(*RingTracer); !ok {
		t.Errorf("error level should force ring mode, got %T", tr)
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("empty context should yield Nop")
	}
	ring := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Error("tracer not propagated")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Error("span context not propagated")
	}
}
