// Package trace records what textlen is doing while it measures documents
// and applies edits. It is the logging layer of the tool.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	textlen measure --trace=- --trace-level=file docs/
//
// # Architecture
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer, dumped when a command fails
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: ring buffer only, dumped on failure
//   - LevelCommand: command boundaries
//   - LevelFile: per-file events
//   - LevelDebug: everything including single edits
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFile, "measure", parentID)
//	defer span.End("")
package trace
