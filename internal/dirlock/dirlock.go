// Package dirlock serializes generation runs that share an output directory.
package dirlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gofrs/flock"

	"faviconkit/internal/logging"
)

// Filename is the advisory lock file created inside a locked directory.
const Filename = ".faviconkit.lock"

const (
	DefaultWait  = 30 * time.Second
	initialDelay = 25 * time.Millisecond
	maxDelay     = time.Second
)

// ErrLocked reports that another process held the directory lock for the whole wait.
var ErrLocked = errors.New("output directory is locked by another run")

var errBusy = errors.New("lock busy")

type Lock struct {
	lock *flock.Flock
}

// Path returns the lock file path for dir.
func Path(dir string) string {
	return filepath.Join(dir, Filename)
}

// Acquire takes the advisory lock of dir, retrying with exponential backoff until
// wait elapses or ctx is done. A zero wait tries exactly once.
func Acquire(ctx context.Context, dir string, wait time.Duration, logger *logging.Logger) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f := flock.New(Path(dir))

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = initialDelay
	retry.MaxInterval = maxDelay
	retry.Reset()

	opts := []backoff.RetryOption{
		backoff.WithBackOff(retry),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debug("waiting for output directory lock",
				logging.Field("dir", dir),
				logging.Field("next_retry", next.String()))
		}),
	}
	if wait <= 0 {
		opts = append(opts, backoff.WithMaxTries(1))
	} else {
		opts = append(opts, backoff.WithMaxElapsedTime(wait))
	}

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		locked, err := f.TryLock()
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("acquire directory lock: %w", err))
		}
		if !locked {
			return struct{}{}, errBusy
		}
		return struct{}{}, nil
	}, opts...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errors.Is(err, errBusy) {
			return nil, fmt.Errorf("%w: %s", ErrLocked, dir)
		}
		return nil, err
	}
	logger.Debug("acquired output directory lock", logging.Field("dir", dir))
	return &Lock{lock: f}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	if !l.lock.Locked() {
		return nil
	}
	if err := l.lock.Unlock(); err != nil {
		return fmt.Errorf("unlock directory lock: %w", err)
	}
	return nil
}
