package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"textlen/internal/driver"
	"textlen/internal/length"
	"textlen/internal/report"
)

func newMeasureCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure [flags] [path...]",
		Short: "Measure files as (line, column) lengths",
		Long: `Measure reports the length of each file as a line count and the column
count of its last line. Directories are walked recursively; "-" reads stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMeasure(cmd, a, args)
		},
	}
	cmd.Flags().String("format", "", "output format (pretty|json)")
	cmd.Flags().String("unit", "", "column unit (utf16|byte|rune)")
	cmd.Flags().String("normalize", "", "normalization applied on load (none|nfc)")
	cmd.Flags().Int("jobs", 0, "parallel workers (0 = GOMAXPROCS)")
	cmd.Flags().Bool("cache", false, "reuse measurements from the on-disk cache")
	cmd.Flags().StringSlice("ext", nil, "only measure files with these extensions when walking directories")
	return cmd
}

// measureSettings is the config file merged with command flags.
type measureSettings struct {
	format string
	unit   length.Unit
	nfc    bool
	jobs   int
	cache  bool
	exts   []string
}

func resolveMeasureSettings(cmd *cobra.Command, a *app) (measureSettings, error) {
	cfg := a.cfg
	flags := cmd.Flags()

	// Флаги перекрывают значения из textlen.toml
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("unit") {
		cfg.Measure.Unit, _ = flags.GetString("unit")
	}
	if flags.Changed("normalize") {
		cfg.Measure.Normalize, _ = flags.GetString("normalize")
	}
	if flags.Changed("jobs") {
		cfg.Measure.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("cache") {
		cfg.Measure.Cache, _ = flags.GetBool("cache")
	}
	if err := cfg.Validate(); err != nil {
		return measureSettings{}, err
	}
	exts, err := flags.GetStringSlice("ext")
	if err != nil {
		return measureSettings{}, fmt.Errorf("failed to get ext flag: %w", err)
	}
	format := strings.ToLower(cfg.Output.Format)
	if format == "" {
		format = "pretty"
	}
	return measureSettings{
		format: format,
		unit:   cfg.Unit(),
		nfc:    cfg.NFC(),
		jobs:   cfg.Measure.Jobs,
		cache:  cfg.Measure.Cache,
		exts:   exts,
	}, nil
}

func runMeasure(cmd *cobra.Command, a *app, args []string) error {
	settings, err := resolveMeasureSettings(cmd, a)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{driver.StdinPath}
	}

	opts := driver.Options{
		Unit:  settings.unit,
		NFC:   settings.nfc,
		Jobs:  settings.jobs,
		Exts:  settings.exts,
		Stdin: cmd.InOrStdin(),
	}
	if settings.cache {
		done := a.timer.Track("cache-open")
		cache, cacheErr := driver.OpenDiskCache("textlen")
		if cacheErr != nil {
			// без кэша просто медленнее
			if !a.quiet(cmd) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", cacheErr)
			}
		} else {
			opts.Cache = cache
		}
		done(cache.Dir())
	}

	done := a.timer.Track("measure")
	results, err := driver.Measure(cmd.Context(), args, opts)
	done(strconv.Itoa(len(results)) + " files")
	if err != nil {
		return err
	}

	useColor, err := a.useColor(cmd, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	ropts := report.Options{Color: useColor, Unit: settings.unit}
	if a.timingsEnabled(cmd) {
		ropts.Timings = a.timer
	}

	switch settings.format {
	case "pretty":
		err = report.Pretty(cmd.OutOrStdout(), results, ropts)
	case "json":
		err = report.JSON(cmd.OutOrStdout(), results, ropts)
	default:
		return fmt.Errorf("unknown format: %s", settings.format)
	}
	if err != nil {
		return err
	}
	return driver.Failed(results)
}
