package job

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyOutput marks a conversion whose output file ended up zero bytes.
var ErrEmptyOutput = errors.New("empty WebP output")

// task is one unit of work: a single input file, run once on the pool and
// then discarded. It holds only its path plus a reference to the owning
// controller's shared config and state.
type task struct {
	ctrl *Controller
	path string
}

// run drives the task state machine:
//
//	checkpoint → convert → verify → (delete original) → completed | failed
//
// Every error from the convert stage onward is caught here and reported as a
// per-task failure; nothing escapes to the worker pool.
func (t *task) run() {
	c := t.ctrl
	defer c.settle()

	c.gate.WaitIfPaused()

	// The cancel check comes after the pause wait: a task released by
	// Resume must still observe a cancel issued while it was parked.
	// Skipped tasks report nothing.
	if c.Cancelled() {
		return
	}

	origInfo, err := os.Stat(t.path)
	if err != nil {
		t.fail(err)
		return
	}

	base := strings.TrimSuffix(filepath.Base(t.path), filepath.Ext(t.path))
	outPath, err := c.names.Resolve(base)
	if err != nil {
		t.fail(err)
		return
	}

	if err := c.codec.Convert(t.path, outPath, c.cfg.Quality, c.cfg.KeepMetadata); err != nil {
		os.Remove(outPath)
		t.fail(err)
		return
	}

	// Verify: the codec has closed the file, re-read its size from disk.
	outInfo, err := os.Stat(outPath)
	if err != nil {
		t.fail(err)
		return
	}
	if outInfo.Size() <= 0 {
		os.Remove(outPath)
		t.fail(ErrEmptyOutput)
		return
	}

	if c.cfg.DeleteOriginals {
		if err := c.remover.Remove(t.path); err != nil {
			t.fail(fmt.Errorf("delete original: %w", err))
			return
		}
	}

	c.taskFinished(origInfo.Size(), outInfo.Size())
}

func (t *task) fail(err error) {
	t.ctrl.taskFailed(fmt.Sprintf("%s → %v", filepath.Base(t.path), err))
}
