package catalog

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// recordingTimer records each pause and returns immediately.
type recordingTimer struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (t *recordingTimer) After(d time.Duration) <-chan time.Time {
	t.mu.Lock()
	t.waits = append(t.waits, d)
	t.mu.Unlock()
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func newTestRetrier(attempts int, delay time.Duration) (*Retrier, *[]time.Duration) {
	timer := &recordingTimer{}
	r := NewRetrier(attempts, delay, &mockLogger{})
	r.timer = timer
	return r, &timer.waits
}

func TestRetrier_Do(t *testing.T) {
	t.Run("succeeds first time", func(t *testing.T) {
		r, waits := newTestRetrier(3, 10*time.Millisecond)
		calls := 0
		err := r.Do("get", func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if calls != 1 || len(*waits) != 0 {
			t.Errorf("expected 1 call and no waits, got %d calls and %v", calls, *waits)
		}
	})

	t.Run("recovers after transient failures", func(t *testing.T) {
		r, waits := newTestRetrier(3, 10*time.Millisecond)
		calls := 0
		err := r.Do("list", func() error {
			calls++
			if calls < 3 {
				return driver.ErrBadConn
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
		want := []time.Duration{10 * time.Millisecond, 20 * time.Millisecond}
		if len(*waits) != len(want) {
			t.Fatalf("expected waits %v, got %v", want, *waits)
		}
		for i := range want {
			if (*waits)[i] != want[i] {
				t.Errorf("wait[%d] = %v, want %v", i, (*waits)[i], want[i])
			}
		}
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		r, waits := newTestRetrier(3, time.Millisecond)
		calls := 0
		err := r.Do("create", func() error {
			calls++
			return fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
		})
		if !errors.Is(err, ErrStorageUnavailable) {
			t.Fatalf("expected ErrStorageUnavailable, got %v", err)
		}
		if !errors.Is(err, syscall.ECONNREFUSED) {
			t.Errorf("expected last cause to be wrapped, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
		if len(*waits) != 2 {
			t.Errorf("expected 2 waits, got %v", *waits)
		}
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		r, waits := newTestRetrier(5, time.Millisecond)
		permanent := errors.New("UNIQUE constraint failed")
		calls := 0
		err := r.Do("create", func() error {
			calls++
			return permanent
		})
		if !errors.Is(err, permanent) {
			t.Fatalf("expected permanent error, got %v", err)
		}
		if errors.Is(err, ErrStorageUnavailable) {
			t.Error("permanent error must not be reported as unavailable")
		}
		if calls != 1 || len(*waits) != 0 {
			t.Errorf("expected single call, got %d calls and waits %v", calls, *waits)
		}
	})

	t.Run("does not retry expired contexts", func(t *testing.T) {
		r, waits := newTestRetrier(3, time.Millisecond)
		calls := 0
		err := r.Do("list", func() error {
			calls++
			return fmt.Errorf("query: %w", context.DeadlineExceeded)
		})
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("expected deadline error, got %v", err)
		}
		if errors.Is(err, ErrStorageUnavailable) {
			t.Error("expired context must not be reported as unavailable")
		}
		if calls != 1 || len(*waits) != 0 {
			t.Errorf("expected single call, got %d calls and waits %v", calls, *waits)
		}
	})

	t.Run("attempts below one run once", func(t *testing.T) {
		r, _ := newTestRetrier(0, time.Millisecond)
		calls := 0
		_ = r.Do("get", func() error {
			calls++
			return io.ErrUnexpectedEOF
		})
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"bad conn", driver.ErrBadConn, true},
		{"unexpected eof", fmt.Errorf("read: %w", io.ErrUnexpectedEOF), true},
		{"connection refused", syscall.ECONNREFUSED, true},
		{"connection reset", fmt.Errorf("write: %w", syscall.ECONNRESET), true},
		{"broken pipe", syscall.EPIPE, true},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("boom")}, true},
		{"plain error", errors.New("syntax error"), false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"wrapped deadline exceeded", fmt.Errorf("acquire: %w", context.DeadlineExceeded), false},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), false},
		{"postgres connection failure", &pgconn.PgError{Code: "08006"}, true},
		{"postgres shutting down", fmt.Errorf("query: %w", &pgconn.PgError{Code: "57P01"}), true},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTransient(tt.err); got != tt.want {
				t.Errorf("isTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
