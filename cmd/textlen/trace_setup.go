package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"textlen/internal/config"
	"textlen/internal/trace"
)

// tracing owns the tracer of one invocation.
type tracing struct {
	tracer trace.Tracer
}

// setupTracing inspects trace-related flags, falling back to the [trace]
// section of the config, and attaches the tracer to the command context.
func setupTracing(cmd *cobra.Command, fromConfig config.TraceConfig) (*tracing, error) {
	flags := cmd.Root().PersistentFlags()

	// Read trace configuration from flags
	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if !flags.Changed("trace") && fromConfig.Output != "" {
		traceOutput = fromConfig.Output
	}

	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if !flags.Changed("trace-level") && fromConfig.Level != "" {
		levelStr = fromConfig.Level
	}

	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}

	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}

	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	// Parse level
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает трассировку команд
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelCommand
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return &tracing{tracer: trace.Nop}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		Output:     outputFor(cmd, traceOutput),
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	// Attach tracer to context
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)
	cmd.Root().SetContext(ctx)
	return &tracing{tracer: tracer}, nil
}

// outputFor routes "-" to the command's stderr so tests can capture it.
// The wrapper hides Close so the tracer never closes stderr.
func outputFor(cmd *cobra.Command, path string) io.Writer {
	if path == "-" || path == "" {
		return struct{ io.Writer }{cmd.ErrOrStderr()}
	}
	return nil
}

// ring returns the in-memory buffer of the tracer, if it keeps one.
func (t *tracing) ring() *trace.RingTracer {
	switch tr := t.tracer.(type) {
	case *trace.RingTracer:
		return tr
	case *trace.MultiTracer:
		return tr.Ring()
	default:
		return nil
	}
}

// close flushes the tracer. When the command failed the ring buffer is
// dumped to stderr.
func (t *tracing) close(runErr error, stderr io.Writer) {
	if runErr != nil {
		if ring := t.ring(); ring != nil {
			fmt.Fprintln(stderr, "trace (last events):")
			if err := ring.Dump(stderr, trace.FormatText); err != nil {
				fmt.Fprintf(stderr, "trace: dump error: %v\n", err)
			}
		}
	}
	if err := t.tracer.Flush(); err != nil {
		fmt.Fprintf(stderr, "trace: flush error: %v\n", err)
	}
	if err := t.tracer.Close(); err != nil {
		fmt.Fprintf(stderr, "trace: close error: %v\n", err)
	}
}
