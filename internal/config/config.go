// Package config loads textlen.toml, the per-project settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"textlen/internal/length"
	"textlen/internal/trace"
)

// FileName is the settings file looked up by Find.
const FileName = "textlen.toml"

// Config mirrors textlen.toml.
type Config struct {
	Measure MeasureConfig `toml:"measure"`
	Output  OutputConfig  `toml:"output"`
	Trace   TraceConfig   `toml:"trace"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// MeasureConfig controls how files are measured.
type MeasureConfig struct {
	Unit      string `toml:"unit"`      // utf16 | byte | rune
	Normalize string `toml:"normalize"` // none | nfc
	Jobs      int    `toml:"jobs"`      // 0 = GOMAXPROCS
	Cache     bool   `toml:"cache"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Format string `toml:"format"` // pretty | json
	Color  string `toml:"color"`  // auto | on | off
}

// TraceConfig mirrors the --trace flags.
type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

// Default returns the settings used when no textlen.toml exists.
func Default() Config {
	return Config{
		Measure: MeasureConfig{Unit: "utf16", Normalize: "none"},
		Output:  OutputConfig{Format: "pretty", Color: "auto"},
		Trace:   TraceConfig{Level: "off"},
	}
}

// Load parses path on top of Default and validates the result. Keys absent
// from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find looks for textlen.toml in startDir and its parents.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover loads the nearest textlen.toml above startDir, or Default when
// there is none.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Config{}, err
	}
	if !ok {
		return Default(), nil
	}
	return Load(path)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := length.ParseUnit(c.Measure.Unit); err != nil {
		return fmt.Errorf("[measure].unit: %w", err)
	}
	switch strings.ToLower(c.Measure.Normalize) {
	case "", "none", "nfc":
	default:
		return fmt.Errorf("[measure].normalize: invalid value %q (expected: none|nfc)", c.Measure.Normalize)
	}
	if c.Measure.Jobs < 0 {
		return fmt.Errorf("[measure].jobs: must be >= 0, got %d", c.Measure.Jobs)
	}
	switch strings.ToLower(c.Output.Format) {
	case "", "pretty", "json":
	default:
		return fmt.Errorf("[output].format: invalid value %q (expected: pretty|json)", c.Output.Format)
	}
	switch strings.ToLower(c.Output.Color) {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color: invalid value %q (expected: auto|on|off)", c.Output.Color)
	}
	if _, err := trace.ParseLevel(c.Trace.Level); err != nil {
		return fmt.Errorf("[trace].level: %w", err)
	}
	return nil
}

// Unit returns the parsed column unit.
func (c Config) Unit() length.Unit {
	u, err := length.ParseUnit(c.Measure.Unit)
	if err != nil {
		return length.UnitUTF16
	}
	return u
}

// NFC reports whether loaded files are NFC-normalized.
func (c Config) NFC() bool {
	return strings.EqualFold(c.Measure.Normalize, "nfc")
}
