package job

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"
)

// testRemover builds a Remover whose delete calls are counted and scripted.
func testRemover(fn func(attempt int) error) (*Remover, *int) {
	calls := 0
	r := &Remover{
		Retries: 3,
		Delay:   time.Millisecond,
		remove: func(string) error {
			calls++
			return fn(calls)
		},
		sleep: func(time.Duration) {},
	}
	return r, &calls
}

func TestRemover_SucceedsFirstTry(t *testing.T) {
	r, calls := testRemover(func(int) error { return nil })
	if err := r.Remove("file"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if *calls != 1 {
		t.Errorf("got %d attempts, want 1", *calls)
	}
}

func TestRemover_TransientThenSuccess(t *testing.T) {
	r, calls := testRemover(func(attempt int) error {
		if attempt < 3 {
			return os.ErrPermission
		}
		return nil
	})
	if err := r.Remove("file"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if *calls != 3 {
		t.Errorf("got %d attempts, want 3", *calls)
	}
}

func TestRemover_ExhaustsBudgetThenFinalAttemptFails(t *testing.T) {
	r, calls := testRemover(func(int) error { return os.ErrPermission })
	err := r.Remove("file")
	if err == nil {
		t.Fatal("want error after exhausted retries")
	}
	// Three guarded attempts plus the final unguarded one.
	if *calls != 4 {
		t.Errorf("got %d attempts, want 4", *calls)
	}
}

func TestRemover_PermanentErrorNotRetried(t *testing.T) {
	boom := errors.New("no such file")
	r, calls := testRemover(func(int) error { return boom })
	if err := r.Remove("file"); !errors.Is(err, boom) {
		t.Fatalf("got %v, want %v", err, boom)
	}
	if *calls != 1 {
		t.Errorf("got %d attempts, want 1", *calls)
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"permission", os.ErrPermission, true},
		{"wrapped permission", &os.PathError{Op: "remove", Path: "x", Err: os.ErrPermission}, true},
		{"ebusy", &os.PathError{Op: "remove", Path: "x", Err: syscall.EBUSY}, true},
		{"etxtbsy", syscall.ETXTBSY, true},
		{"not exist", os.ErrNotExist, false},
		{"plain", errors.New("weird"), false},
	}
	for _, c := range cases {
		if got := IsTransient(c.err); got != c.want {
			t.Errorf("%s: IsTransient = %v, want %v", c.name, got, c.want)
		}
	}
}
