// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation. All defaults match the legacy desktop converter for parity.
package config

import (
	"errors"
	"runtime"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args). OutputDir defaults to InputDir when
	// not given, matching the legacy tool.
	InputDir  string
	OutputDir string

	// Conversion settings.
	Quality         int  // WebP quality 1-100. Default: 87.
	Workers         int  // Parallel workers 1..NumCPU. Default: NumCPU-1 (min 1).
	KeepMetadata    bool // Preserve ComfyUI workflow metadata (PNG sources only).
	DeleteOriginals bool // Remove source files after successful conversion.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults matching the legacy
// converter's behavior. Used as the base before [ParseFlags] applies CLI
// overrides.
func DefaultConfig() Config {
	return Config{
		Quality:   87,
		Workers:   defaultWorkers(),
		ColorMode: ColorAuto,
	}
}

// defaultWorkers leaves one core free for the rest of the system, never
// dropping below one worker.
func defaultWorkers() int {
	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}
	return n
}

// MaxWorkers is the upper bound accepted for --workers.
func MaxWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		n = 1
	}
	return n
}

// Validate checks enum fields and value ranges. When not in CheckOnly mode,
// it also requires the input directory path to be non-empty.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Quality < 1 || c.Quality > 100 {
		return errors.New("quality must be between 1 and 100")
	}
	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if max := MaxWorkers(); c.Workers > max {
		c.Workers = max
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputDir == "" {
		return errors.New("need an input_dir argument")
	}
	if c.OutputDir == "" {
		c.OutputDir = c.InputDir
	}
	return nil
}
