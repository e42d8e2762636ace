// Package pipeline orchestrates file discovery, the concurrent conversion
// job, and batch summary reporting.
package pipeline

import (
	"context"

	"github.com/HamedEmine/ComfyUi-webp-converter/internal/codec"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/config"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/display"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/job"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/logging"
)

// Command is a user control action applied to the running job.
type Command int

const (
	CmdPause Command = iota
	CmdResume
	CmdCancel
)

// Run is the top-level batch entry point. It discovers images, builds the
// job controller, forwards user commands to it, and blocks until every
// dispatched task has settled. Cancelling ctx cancels the job (in-flight
// conversions still finish).
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, commands <-chan Command) RunStats {
	var stats RunStats

	files, err := Discover(cfg.InputDir)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		return stats
	}
	stats.Total = len(files)
	if len(files) == 0 {
		log.Warn("No images found in %s", cfg.InputDir)
		return stats
	}

	sink := &logSink{log: log, stats: &stats}
	ctrl, err := job.New(job.Config{
		Files:           files,
		OutputDir:       cfg.OutputDir,
		Quality:         cfg.Quality,
		KeepMetadata:    cfg.KeepMetadata,
		DeleteOriginals: cfg.DeleteOriginals,
		Workers:         cfg.Workers,
	}, codec.Converter{}, sink)
	if err != nil {
		log.Error("%v", err)
		return stats
	}

	logBatchHeader(cfg, log, &stats, ctrl.ID())

	ctrl.Start()

	for {
		select {
		case <-ctx.Done():
			log.Warn("Interrupted, cancelling (in-flight conversions will finish)")
			ctrl.Cancel()
			// Resume in case the job was paused, or parked tasks would
			// never reach their cancel check.
			ctrl.Resume()
			ctx = context.Background()
		case cmd, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			applyCommand(ctrl, cmd, log)
		case <-ctrl.Done():
			finish(ctrl, &stats)
			logSummary(cfg, log, &stats)
			return stats
		}
	}
}

func applyCommand(ctrl *job.Controller, cmd Command, log *logging.Logger) {
	switch cmd {
	case CmdPause:
		ctrl.Pause()
		log.Warn("Paused")
	case CmdResume:
		ctrl.Resume()
		log.Info("Resumed")
	case CmdCancel:
		ctrl.Cancel()
		ctrl.Resume()
		log.Warn("Cancelling (in-flight conversions will finish)")
	}
}

// finish copies the controller's final counters into the run stats.
func finish(ctrl *job.Controller, stats *RunStats) {
	js := ctrl.Stats()
	stats.Converted = js.Completed
	stats.Cancelled = js.Cancelled
	stats.TotalInputBytes = js.OriginalBytes
	stats.TotalOutputBytes = js.OutputBytes
}

// logSink adapts job events onto the logger. Events arrive serialized (the
// controller emits them under its lock), so the Failed counter needs no
// extra guard.
type logSink struct {
	log       *logging.Logger
	stats     *RunStats
	completed int
}

func (s *logSink) Progress(percent int) {
	s.completed++
	s.log.Info("Progress: %d%% (%d/%d)", percent, s.completed, s.stats.Total)
}

func (s *logSink) ETA(formatted string) {
	s.log.Info("  ETA: %s", formatted)
}

func (s *logSink) TaskError(message string) {
	s.stats.Failed++
	s.log.Error("%s", message)
}

func (s *logSink) Finished(sum job.Summary) {
	if sum.SavedBytes >= 0 {
		s.log.Success("Converted %d images, saved %s", sum.Converted, display.FormatBytes(sum.SavedBytes))
	} else {
		s.log.Warn("Converted %d images, output grew by %s", sum.Converted, display.FormatBytes(-sum.SavedBytes))
	}
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats, jobID string) {
	log.Info("Found %d images", stats.Total)
	log.Info("Job %s: quality %d, %d workers", jobID, cfg.Quality, cfg.Workers)
	if cfg.KeepMetadata {
		log.Info("Metadata: preserve ComfyUI workflow (PNG sources)")
	}
	if cfg.DeleteOriginals {
		log.Warn("Originals will be deleted after conversion")
	}
	log.Info("Out: %s", cfg.OutputDir)
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	if stats.Cancelled {
		log.Warn("Cancelled: %d of %d converted, %d failed", stats.Converted, stats.Total, stats.Failed)
	} else {
		log.Info("Done: %d converted, %d failed", stats.Converted, stats.Failed)
	}

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("  Total space saved: -%s (overall output is larger)",
			display.FormatBytes(-saved))
	}
}
