package job

import "sync"

// PauseGate is the cooperative pause barrier shared by all workers of one
// job. Workers call [PauseGate.WaitIfPaused] at their checkpoint; while the
// gate is paused they park on the condition variable, and Resume releases
// them all. The paused flag and the wait queue share one mutex, so a Resume
// racing a new WaitIfPaused can never strand a waiter.
//
// The gate knows nothing about cancellation; callers re-check the cancelled
// flag after WaitIfPaused returns.
type PauseGate struct {
	mu     sync.Mutex
	cond   *sync.Cond
	paused bool
}

// NewPauseGate returns a gate in the running (unpaused) state.
func NewPauseGate() *PauseGate {
	g := &PauseGate{}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Pause sets the gate. Workers already past their checkpoint are unaffected.
func (g *PauseGate) Pause() {
	g.mu.Lock()
	g.paused = true
	g.mu.Unlock()
}

// Resume clears the gate and wakes every parked worker.
func (g *PauseGate) Resume() {
	g.mu.Lock()
	g.paused = false
	g.cond.Broadcast()
	g.mu.Unlock()
}

// WaitIfPaused blocks while the gate is paused and returns once it is not.
// Safe to call from any number of goroutines.
func (g *PauseGate) WaitIfPaused() {
	g.mu.Lock()
	for g.paused {
		g.cond.Wait()
	}
	g.mu.Unlock()
}

// Paused reports the current gate state.
func (g *PauseGate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}
