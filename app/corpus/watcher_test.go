package corpus

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Run(t *testing.T) {
	dir := t.TempDir()
	stopWords := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(stopWords, []byte("the"), 0o600))

	var calls atomic.Int32
	w := &Watcher{
		Dirs:      []string{dir},
		StopWords: stopWords,
		Delay:     50 * time.Millisecond,
		OnChange: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond) // let watcher start

	// burst of changes is debounced to a single call
	for _, name := range []string{"1.txt", "2.txt", "3.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("doc"), 0o600))
	}
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	// irrelevant file ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.md"), []byte("x"), 0o600))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())

	// stop words change triggers too
	require.NoError(t, os.WriteFile(stopWords, []byte("the, and"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher didn't stop")
	}
}

func TestWatcher_RunNested(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub", "deep")
	require.NoError(t, os.MkdirAll(sub, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("doc"), 0o600))

	var calls atomic.Int32
	w := &Watcher{
		Dirs:  []string{dir},
		Delay: 50 * time.Millisecond,
		OnChange: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	time.Sleep(100 * time.Millisecond)

	// edit of a document in an existing subdirectory
	require.NoError(t, os.WriteFile(filepath.Join(sub, "a.txt"), []byte("changed"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)

	// new subdirectory is watched as well
	added := filepath.Join(dir, "added")
	require.NoError(t, os.Mkdir(added, 0o700))
	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond) // let the watch on the new directory settle
	require.NoError(t, os.WriteFile(filepath.Join(added, "b.txt"), []byte("doc"), 0o600))
	assert.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, 10*time.Millisecond)

	// removal of a subdirectory with documents
	require.NoError(t, os.RemoveAll(filepath.Join(dir, "sub")))
	assert.Eventually(t, func() bool { return calls.Load() == 4 }, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher didn't stop")
	}
}

func TestWatcher_RunMissingDirs(t *testing.T) {
	w := &Watcher{
		Dirs:     []string{"/no/such/dir1", "/no/such/dir2"},
		Delay:    time.Millisecond,
		OnChange: func(context.Context) error { return nil },
	}
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirNotFound)
	assert.Contains(t, err.Error(), "dir1")
	assert.Contains(t, err.Error(), "dir2")
}

func TestWatcher_relevant(t *testing.T) {
	w := &Watcher{StopWords: "/data/stop-words"}
	tbl := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/c/a.txt", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/c/a.TXT", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/c/a.txt", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/c/a.txt", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/c/a.md", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "/data/stop-words", Op: fsnotify.Write}, true},
	}
	for _, tt := range tbl {
		assert.Equal(t, tt.want, w.relevant(tt.event), tt.event.String())
	}
}
