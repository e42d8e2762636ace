// Package job implements the concurrent conversion job controller: bounded
// parallel dispatch, cooperative pause/cancel, per-task failure isolation,
// and aggregation of task results into progress and ETA events.
package job

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/HamedEmine/ComfyUi-webp-converter/internal/display"
	"github.com/HamedEmine/ComfyUi-webp-converter/internal/naming"
)

// Codec converts one source image into a WebP file at outputPath. The
// controller treats it as opaque: it either succeeds or returns an error.
// Implementations must have fully written and closed the output file before
// returning nil.
type Codec interface {
	Convert(inputPath, outputPath string, quality int, keepMetadata bool) error
}

// Stats is a snapshot of the job's aggregate state.
type Stats struct {
	Total         int
	Completed     int
	OriginalBytes int64
	OutputBytes   int64
	Cancelled     bool
}

// Controller owns one job: its configuration, its mutable aggregate state,
// the pause gate, and the worker pool. It is the only mutator of the job
// state; every mutation happens under a single lock so concurrent task
// completions never lose an update.
//
// The control surface (Start, Pause, Resume, Cancel) is meant for the single
// owning caller; results flow back through the EventSink and Done channel.
type Controller struct {
	cfg   Config
	codec Codec
	sink  EventSink
	id    string

	gate    *PauseGate
	pool    *WorkerPool
	names   *naming.Resolver
	remover *Remover
	now     func() time.Time

	mu           sync.Mutex
	total        int
	completed    int
	origBytes    int64
	outBytes     int64
	startTime    time.Time
	cancelled    bool
	paused       bool
	dispatched   int
	settled      int
	dispatchDone bool
	done         chan struct{}
}

// New validates cfg and builds a Controller ready to Start. The worker pool
// is owned by this controller for the lifetime of the job; it is not shared.
func New(cfg Config, codec Codec, sink EventSink) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:     cfg,
		codec:   codec,
		sink:    sink,
		id:      uuid.NewString(),
		gate:    NewPauseGate(),
		names:   naming.NewResolver(cfg.OutputDir, "webp"),
		remover: NewRemover(),
		now:     time.Now,
		total:   len(cfg.Files),
		done:    make(chan struct{}),
	}
	// Queue capacity equals the task count so Start never blocks on Submit.
	c.pool = NewWorkerPool(cfg.Workers, len(cfg.Files))
	c.startTime = c.now()
	return c, nil
}

// ID returns the job's unique identifier.
func (c *Controller) ID() string { return c.id }

// Start submits one task per input file, in input order, re-checking the
// cancelled flag before each submit. Call it once; it returns as soon as
// dispatch is complete while tasks keep running on the pool.
func (c *Controller) Start() {
	for _, path := range c.cfg.Files {
		if c.Cancelled() {
			break
		}
		t := &task{ctrl: c, path: path}
		c.mu.Lock()
		c.dispatched++
		c.mu.Unlock()
		c.pool.Submit(t.run)
	}
	c.pool.Close()

	c.mu.Lock()
	c.dispatchDone = true
	if c.settled == c.dispatched {
		close(c.done)
	}
	c.mu.Unlock()
}

// Pause sets the pause gate. Tasks already past their checkpoint finish
// normally; everything else parks at the checkpoint. Idempotent.
func (c *Controller) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
	c.gate.Pause()
}

// Resume clears the pause gate and releases every parked task. Idempotent.
func (c *Controller) Resume() {
	c.mu.Lock()
	c.paused = false
	c.mu.Unlock()
	c.gate.Resume()
}

// Cancel flips the one-way cancelled flag. Tasks at or behind their
// checkpoint are skipped; tasks past it run to completion.
func (c *Controller) Cancel() {
	c.mu.Lock()
	c.cancelled = true
	c.mu.Unlock()
}

// Cancelled reports whether the job has been cancelled.
func (c *Controller) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// Paused reports whether the job is currently paused.
func (c *Controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Done returns a channel that closes once every dispatched task has settled
// (completed, failed, or was skipped by cancellation). This fires even when
// the Finished event cannot, e.g. after a cancel or when tasks failed.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Stats returns a snapshot of the aggregate counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Total:         c.total,
		Completed:     c.completed,
		OriginalBytes: c.origBytes,
		OutputBytes:   c.outBytes,
		Cancelled:     c.cancelled,
	}
}

// taskFinished folds one successful task into the aggregate state and emits
// progress, ETA and (on the completion that reaches total) the finished
// event. Everything happens under the job lock: the read-modify-write of the
// counters and the event emission, so events come out exactly once and in
// completion order.
func (c *Controller) taskFinished(origSize, outSize int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.completed++
	c.origBytes += origSize
	c.outBytes += outSize

	percent := c.completed * 100 / c.total
	c.sink.Progress(percent)
	c.sink.ETA(display.FormatClock(etaSeconds(c.completed, c.total, c.now().Sub(c.startTime))))

	if c.completed == c.total {
		c.sink.Finished(Summary{
			JobID:      c.id,
			Converted:  c.completed,
			SavedBytes: c.origBytes - c.outBytes,
		})
	}
}

// taskFailed reports a per-task failure. Counters are untouched: failures
// never count toward completion.
func (c *Controller) taskFailed(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sink.TaskError(message)
}

// settle records that one dispatched task reached a terminal state, whatever
// it was, and closes the done channel once the last one has.
func (c *Controller) settle() {
	c.mu.Lock()
	c.settled++
	if c.dispatchDone && c.settled == c.dispatched {
		close(c.done)
	}
	c.mu.Unlock()
}

// etaSeconds estimates the remaining time from the completion rate so far.
// Zero when nothing completed yet or no time has elapsed, so there is never
// a division by zero.
func etaSeconds(completed, total int, elapsed time.Duration) int64 {
	if completed <= 0 || elapsed <= 0 {
		return 0
	}
	rate := float64(completed) / elapsed.Seconds()
	if rate <= 0 {
		return 0
	}
	return int64(float64(total-completed) / rate)
}
