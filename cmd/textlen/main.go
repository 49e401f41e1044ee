package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"textlen/internal/config"
	"textlen/internal/observ"
	"textlen/internal/prof"
	"textlen/internal/version"
)

// app holds state shared by all subcommands of one invocation.
type app struct {
	cfg     config.Config
	timer   *observ.Timer
	tracing *tracing
	prof    *prof.Session
}

// newRootCmd builds the command tree. Each call returns independent flag state.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{timer: observ.NewTimer()}
	rootCmd := &cobra.Command{
		Use:           "textlen",
		Short:         "Measure text as (line, column) lengths",
		Long:          `textlen measures documents as packed (line, column) lengths and maps edits between editor positions`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.prepare(cmd)
		},
	}

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "path to textlen.toml (default: search upwards from the working directory)")
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.String("trace", "", "trace output file (\"-\" for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|command|file|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.AddCommand(newMeasureCmd(a))
	rootCmd.AddCommand(newDiffCmd(a))
	rootCmd.AddCommand(newEditCmd(a))
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd, a
}

// prepare loads configuration and starts tracing before any subcommand runs.
func (a *app) prepare(cmd *cobra.Command) error {
	done := a.timer.Track("config")
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		a.cfg, err = config.Load(path)
	} else {
		a.cfg, err = config.Discover(".")
	}
	if err != nil {
		return err
	}
	done(a.cfg.Path)

	a.tracing, err = setupTracing(cmd, a.cfg.Trace)
	if err != nil {
		return err
	}
	a.prof, err = setupProfiling(cmd)
	return err
}

// setupProfiling starts the profilers requested by persistent flags.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil, nil
	}
	return prof.Start(opts)
}

// finish flushes tracing and, on failure, dumps the buffered trace.
func (a *app) finish(runErr error, stderr io.Writer) {
	if err := a.prof.Stop(); err != nil {
		fmt.Fprintf(stderr, "profile: %v\n", err)
	}
	if a.tracing != nil {
		a.tracing.close(runErr, stderr)
	}
}

// useColor resolves the colour setting for out: flag, then config, then
// terminal detection.
func (a *app) useColor(cmd *cobra.Command, out io.Writer) (bool, error) {
	mode := a.cfg.Output.Color
	flags := cmd.Root().PersistentFlags()
	if flags.Changed("color") {
		v, err := flags.GetString("color")
		if err != nil {
			return false, fmt.Errorf("failed to get color flag: %w", err)
		}
		mode = v
	}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		f, ok := out.(*os.File)
		return ok && isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
}

func (a *app) timingsEnabled(cmd *cobra.Command) bool {
	v, err := cmd.Root().PersistentFlags().GetBool("timings")
	return err == nil && v
}

func (a *app) quiet(cmd *cobra.Command) bool {
	v, err := cmd.Root().PersistentFlags().GetBool("quiet")
	return err == nil && v
}

// main builds the CLI and executes it. A failing command exits with status 1.
func main() {
	rootCmd, a := newRootCmd()
	err := rootCmd.Execute()
	a.finish(err, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
