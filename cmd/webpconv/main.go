// Command webpconv is the CLI entrypoint for the batch Image→WebP converter.
//
// It parses flags, validates configuration and paths, and either runs system
// diagnostics (--check) or the conversion job. While a job runs, SIGINT
// cancels it and single-letter stdin commands pause (p), resume (r) or
// cancel (c) it.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/HamedEmine/ComfyUi-webp-converter/internal/check"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/config"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/display"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/logging"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" (no make), these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file capture.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "webpconv: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "webpconv: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "webpconv: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	display.PrintBanner()

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Resolve and validate paths: input must exist, output is created when
	// needed.
	if _, err := absPath(cfg.InputDir); err != nil {
		log.Error("Input not found: %s", cfg.InputDir)
		return 1
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		log.Error("Cannot create output directory: %s", cfg.OutputDir)
		return 1
	}

	log.Info("=== webpconv v%s (%s) ===", version, commit)
	log.Info("In:  %s", cfg.InputDir)
	log.Info("Out: %s", cfg.OutputDir)
	log.Info("")

	// Phase 3: Control. SIGINT/SIGTERM cancel the job; stdin (when it is a
	// TTY) feeds pause/resume/cancel commands.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	commands := make(chan pipeline.Command)
	go readCommands(os.Stdin, commands)

	// Phase 4: Run the job and report.
	stats := pipeline.Run(ctx, &cfg, log, commands)

	if stats.Failed > 0 || stats.Cancelled {
		return 1
	}
	return 0
}

// readCommands turns stdin lines into job control commands. It exits quietly
// on EOF (e.g. stdin redirected from /dev/null).
func readCommands(f *os.File, out chan<- pipeline.Command) {
	defer close(out)
	fi, err := f.Stat()
	if err != nil || (fi.Mode()&os.ModeCharDevice) == 0 {
		return
	}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "p", "pause":
			out <- pipeline.CmdPause
		case "r", "resume":
			out <- pipeline.CmdResume
		case "c", "cancel":
			out <- pipeline.CmdCancel
		}
	}
}

// absPath returns the absolute, symlink-resolved path; used to verify the
// input directory exists before the job starts.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
