package job

import (
	"errors"
	"os"
	"syscall"
	"time"
)

const (
	removeRetries = 3
	removeDelay   = 100 * time.Millisecond
)

// Remover deletes a file while tolerating transient lock contention: each
// transient failure is followed by a short fixed delay and another guarded
// attempt, and once the retry budget is spent a final unguarded attempt runs
// whose error propagates to the caller. Non-transient errors propagate
// immediately.
type Remover struct {
	Retries int           // guarded attempts before the final one
	Delay   time.Duration // pause between guarded attempts

	remove func(string) error
	sleep  func(time.Duration)
}

// NewRemover returns a Remover with the default budget: three guarded
// attempts 100ms apart, then the unguarded one.
func NewRemover() *Remover {
	return &Remover{
		Retries: removeRetries,
		Delay:   removeDelay,
		remove:  os.Remove,
		sleep:   time.Sleep,
	}
}

// Remove deletes path under the retry policy.
func (r *Remover) Remove(path string) error {
	for i := 0; i < r.Retries; i++ {
		err := r.remove(path)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		r.sleep(r.Delay)
	}
	return r.remove(path)
}

// IsTransient reports whether err looks like short-lived lock contention on
// the file (another process still holds it) rather than a permanent failure.
func IsTransient(err error) bool {
	return os.IsPermission(err) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY)
}
