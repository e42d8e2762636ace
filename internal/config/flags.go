package config

// This file implements CLI flag parsing and help text.
// Boolean feature flags default to off and are simply set when passed, so
// Config defaults from DefaultConfig() hold unless the user overrides them.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// ParseFlags parses args (normally os.Args[1:]) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, too many positional args).
func ParseFlags(cfg *Config, version string, args []string) error {
	fs := flag.NewFlagSet("webpconv", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var (
		showHelp    bool
		showVersion bool
		colorMode   string
	)

	fs.IntVar(&cfg.Quality, "quality", cfg.Quality, "WebP quality 1-100")
	fs.IntVar(&cfg.Quality, "q", cfg.Quality, "Same as --quality")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Parallel workers")
	fs.IntVar(&cfg.Workers, "w", cfg.Workers, "Same as --workers")
	fs.BoolVar(&cfg.KeepMetadata, "keep-metadata", false, "Preserve ComfyUI workflow metadata (PNG sources)")
	fs.BoolVar(&cfg.DeleteOriginals, "delete-originals", false, "Delete source files after successful conversion")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose (debug) output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Append log output to this file")
	fs.StringVar(&colorMode, "color", string(ColorAuto), "Color output: auto | always | never")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showHelp, "help", false, "Show this help")
	fs.BoolVar(&showHelp, "h", false, "Same as --help")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if showVersion {
		fmt.Fprintln(os.Stdout, "webpconv v"+version)
		os.Exit(0)
	}

	cfg.ColorMode = ColorMode(strings.ToLower(colorMode))

	return parsePositionalArgs(fs, cfg)
}

// parsePositionalArgs picks up input_dir and the optional output_dir.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	rest := fs.Args()
	switch len(rest) {
	case 0:
		// Validate reports the missing input dir unless --check was given.
	case 1:
		cfg.InputDir = NormalizeDirArg(rest[0])
	case 2:
		cfg.InputDir = NormalizeDirArg(rest[0])
		cfg.OutputDir = NormalizeDirArg(rest[1])
	default:
		return fmt.Errorf("too many arguments (want input_dir [output_dir], got %d)", len(rest))
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprint(os.Stderr, `Usage: webpconv [options] input_dir [output_dir]

Batch-converts the images in input_dir (png, jpg, jpeg, bmp, tiff) to WebP.
output_dir defaults to input_dir. While a job runs, type p / r / c + Enter
to pause, resume or cancel it.

Options:
  -q, --quality N        WebP quality 1-100 (default 87)
  -w, --workers N        Parallel workers (default: CPU count - 1)
      --keep-metadata    Preserve ComfyUI workflow metadata (PNG sources)
      --delete-originals Delete source files after successful conversion
      --log-file PATH    Append log output to PATH
      --color MODE       auto | always | never (default auto)
  -v, --verbose          Debug output
      --check            Run system diagnostics and exit
      --version          Print version and exit
  -h, --help             Show this help
`)
	_ = fs
}
