package utils

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock performs a side effect instead of sleeping, so the watcher loop
// can be driven deterministically.
type fakeClock struct {
	onSleep func(iteration int)
	sleeps  int
}

func (c *fakeClock) Now() time.Time { return time.Now() }

func (c *fakeClock) Sleep(time.Duration) {
	c.sleeps++
	if c.onSleep != nil {
		c.onSleep(c.sleeps)
	}
}

func TestWaitForChange_ReturnsWhenFileModified(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "llm.md")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0644))

	clock := &fakeClock{}
	clock.onSleep = func(iteration int) {
		if iteration == 2 {
			require.NoError(t, os.WriteFile(path, []byte("after"), 0644))
			// Push the mtime forward in case the writes land within the
			// filesystem's timestamp granularity.
			future := time.Now().Add(2 * time.Second)
			require.NoError(t, os.Chtimes(path, future, future))
		}
	}

	watcher := &FileWatcher{Interval: time.Second, Clock: clock}
	err := watcher.WaitForChange(context.Background(), path)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, clock.sleeps, 2)
}

func TestWaitForChange_RemovedFileIsFatal(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "llm.md")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	clock := &fakeClock{}
	clock.onSleep = func(iteration int) {
		require.NoError(t, os.Remove(path))
	}

	watcher := &FileWatcher{Interval: time.Second, Clock: clock}
	err := watcher.WaitForChange(context.Background(), path)
	assert.ErrorIs(t, err, ErrWatchedFileRemoved)
}

func TestWaitForChange_MissingFileAtEntry(t *testing.T) {
	watcher := &FileWatcher{Interval: time.Second, Clock: &fakeClock{}}
	err := watcher.WaitForChange(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	assert.ErrorIs(t, err, ErrWatchedFileRemoved)
}

func TestWaitForChange_ContextCancellation(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "llm.md")
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))

	ctx, cancel := context.WithCancel(context.Background())
	clock := &fakeClock{}
	clock.onSleep = func(iteration int) {
		cancel()
	}

	watcher := &FileWatcher{Interval: time.Second, Clock: clock}
	err := watcher.WaitForChange(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
