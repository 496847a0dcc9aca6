package dirlock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"faviconkit/internal/logging"
)

func TestAcquireCreatesLockFile(t *testing.T) {
	dir := t.TempDir() + "/nested/icons"
	lock, err := Acquire(context.Background(), dir, time.Second, logging.New(false))
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer lock.Release()

	if _, err := os.Stat(Path(dir)); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}
}

func TestAcquireTimesOutWhileHeld(t *testing.T) {
	dir := t.TempDir()
	logger := logging.New(false)

	held, err := Acquire(context.Background(), dir, 0, logger)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer held.Release()

	start := time.Now()
	_, err = Acquire(context.Background(), dir, 150*time.Millisecond, logger)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("second Acquire() error = %v, want ErrLocked", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("second Acquire() took %s", elapsed)
	}
}

func TestAcquireSucceedsAfterRelease(t *testing.T) {
	dir := t.TempDir()
	logger := logging.New(false)

	held, err := Acquire(context.Background(), dir, 0, logger)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = held.Release()
	}()

	lock, err := Acquire(context.Background(), dir, 5*time.Second, logger)
	if err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
}

func TestAcquireHonorsCanceledContext(t *testing.T) {
	dir := t.TempDir()
	logger := logging.New(false)

	held, err := Acquire(context.Background(), dir, 0, logger)
	if err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	defer held.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Acquire(ctx, dir, time.Minute, logger); !errors.Is(err, context.Canceled) {
		t.Fatalf("Acquire() error = %v, want context.Canceled", err)
	}
}
