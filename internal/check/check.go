// Package check provides system diagnostics (--check mode): directory
// access, an in-memory codec self-test, and the available parallelism.
package check

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"runtime"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"

	"github.com/HamedEmine/ComfyUi-webp-converter/internal/config"
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the --check flow: input/output directory access, a WebP
// encode self-test, and the worker parallelism report. Returns false when
// any check failed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := true
	if !checkInputDir(cfg, log) {
		ok = false
	}
	if !checkOutputDir(cfg, log) {
		ok = false
	}
	if !checkCodec(log) {
		ok = false
	}

	log.Info("Workers: %d configured, %d CPUs available", cfg.Workers, runtime.NumCPU())
	return ok
}

func checkInputDir(cfg *config.Config, log Logger) bool {
	if cfg.InputDir == "" {
		log.Warn("Input dir: not given (pass input_dir to check it)")
		return true
	}
	fi, err := os.Stat(cfg.InputDir)
	if err != nil || !fi.IsDir() {
		log.Error("Input dir: %s is not a readable directory", cfg.InputDir)
		return false
	}
	log.Success("Input dir: %s", cfg.InputDir)
	return true
}

// checkOutputDir verifies the output directory is writable by creating and
// removing a probe file.
func checkOutputDir(cfg *config.Config, log Logger) bool {
	dir := cfg.OutputDir
	if dir == "" {
		dir = cfg.InputDir
	}
	if dir == "" {
		log.Warn("Output dir: not given")
		return true
	}
	probe := filepath.Join(dir, ".webpconv-write-check")
	f, err := os.OpenFile(probe, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		log.Error("Output dir: cannot write to %s: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(probe)
	log.Success("Output dir: %s (writable)", dir)
	return true
}

// checkCodec encodes a tiny image in memory and verifies the result sniffs
// as WebP.
func checkCodec(log Logger) bool {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: 87}); err != nil {
		log.Error("WebP encoder: self-test failed: %v", err)
		return false
	}
	if mt := mimetype.Detect(buf.Bytes()); !mt.Is("image/webp") {
		log.Error("WebP encoder: self-test output is %s, not image/webp", mt)
		return false
	}
	log.Success("WebP encoder: OK (%d byte self-test)", buf.Len())
	return true
}
