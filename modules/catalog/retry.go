package catalog

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/example/footwear-wholesale/metrics"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrStorageUnavailable is returned when a store operation keeps failing with
// connectivity errors after every retry attempt.
var ErrStorageUnavailable = errors.New("storage unavailable")

// Retrier re-runs store operations that fail with transient connectivity errors.
// Attempt n (1-based) that fails is followed by a pause of n*Delay.
type Retrier struct {
	attempts int
	delay    time.Duration
	timer    retry.Timer
	logger   types.Logger
}

// NewRetrier creates a Retrier. Attempts below 1 are treated as 1.
func NewRetrier(attempts int, delay time.Duration, logger types.Logger) *Retrier {
	if attempts < 1 {
		attempts = 1
	}
	return &Retrier{
		attempts: attempts,
		delay:    delay,
		logger:   logger,
	}
}

// Do runs fn until it succeeds, fails with a non-transient error, or the
// attempts run out. The pauses between attempts ignore context cancellation.
func (r *Retrier) Do(op string, fn func() error) error {
	opts := []retry.Option{
		retry.Attempts(uint(r.attempts)),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return time.Duration(n) * r.delay
		}),
		retry.RetryIf(isTransient),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			attempt := int(n) + 1
			if attempt >= r.attempts {
				return
			}
			metrics.StoreRetries.WithLabelValues(op).Inc()
			r.logger.Warn("Transient store error, retrying",
				"operation", op,
				"attempt", attempt,
				"wait", (time.Duration(attempt) * r.delay).String(),
				"error", err)
		}),
	}
	if r.timer != nil {
		opts = append(opts, retry.WithTimer(r.timer))
	}

	err := retry.Do(fn, opts...)
	if err == nil || !isTransient(err) {
		return err
	}

	metrics.StoreFailures.WithLabelValues(op).Inc()
	r.logger.Error("Store operation failed after retries",
		"operation", op,
		"attempts", r.attempts,
		"error", err)
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}

// isTransient reports whether err looks like a dropped or refused connection.
// Postgres connection-exception errors (SQLSTATE class 08) and server shutdowns count.
// Cancelled or expired contexts never do, including the per-attempt acquisition timeout.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return strings.HasPrefix(pgErr.Code, "08") || pgErr.Code == "57P01" || pgErr.Code == "57P03"
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
