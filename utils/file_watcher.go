package utils

import (
	"context"
	"errors"
	"os"
	"time"
)

// ErrWatchedFileRemoved is returned when the file being waited on disappears,
// which the caller treats as the operator aborting the handoff.
var ErrWatchedFileRemoved = errors.New("watched file was removed")

// Clock abstracts time for the polling wait so tests run without real delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// NewRealClock returns a Clock backed by the system clock.
func NewRealClock() Clock { return realClock{} }

// FileWatcher blocks until a designated file is edited on disk. It is the
// cooperative handoff used instead of an editor integration: the operator
// edits the transcript file and the watcher notices the modification time
// change.
type FileWatcher struct {
	Interval time.Duration
	Clock    Clock
}

// NewFileWatcher creates a watcher polling at the given interval.
func NewFileWatcher(interval time.Duration) *FileWatcher {
	return &FileWatcher{Interval: interval, Clock: realClock{}}
}

// WaitForChange blocks until the file's modification time differs from its
// value at entry, the file is removed (ErrWatchedFileRemoved), or ctx is
// done. Callers wanting bounded waiting pass a context with a deadline.
func (w *FileWatcher) WaitForChange(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrWatchedFileRemoved
		}
		return err
	}
	initialModTime := info.ModTime()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		w.Clock.Sleep(w.Interval)

		info, err := os.Stat(path)
		if err != nil {
			if os.IsNotExist(err) {
				return ErrWatchedFileRemoved
			}
			return err
		}
		if !info.ModTime().Equal(initialModTime) {
			return nil
		}
	}
}
